// Package draw renders the play-field to a terminal with half-block
// characters and 24-bit color.
package draw

// Point is a position in canvas logical coordinates.
type Point struct {
	X, Y float64
}

// BlockUpperHalf is drawn in every cell: foreground is the upper sub-pixel,
// background the lower one.
const BlockUpperHalf = '▀'
