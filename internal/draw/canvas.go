package draw

import (
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// rgb is a packed 24-bit color. stale never matches a real color.
type rgb uint32

const stale rgb = 0xFFFFFFFF

func toRGB(c colorful.Color) rgb {
	r, g, b := c.Clamped().RGB255()
	return rgb(r)<<16 | rgb(g)<<8 | rgb(b)
}

func (c rgb) split() (r, g, b uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// Canvas is a color drawing buffer with 2x vertical resolution using
// half-block characters. Logical coordinates are scaled to terminal pixels.
type Canvas struct {
	termWidth      int   // Actual terminal columns
	termHeight     int   // Actual terminal rows
	subPixelHeight int   // termHeight * 2
	back           []rgb // Frame being drawn: [y * termWidth + x]
	front          []rgb // Frame last written to the terminal
	bg             rgb

	// Scaling from logical to pixel coordinates
	logicalWidth  float64
	logicalHeight float64
	scaleX        float64 // termWidth / logicalWidth
	scaleY        float64 // (termHeight*2) / logicalHeight

	// 0-based terminal offsets of the canvas area.
	offsetCol int
	offsetRow int

	// Reusable buffers to reduce allocations
	renderBuf       strings.Builder
	numBuf          [20]byte
	scaledBuf       []Point
	intersectionBuf []float64
}

// NewCanvas creates a canvas of termWidth x termHeight cells that maps the
// logical area logicalWidth x logicalHeight onto it.
func NewCanvas(termWidth, termHeight int, logicalWidth, logicalHeight float64) *Canvas {
	c := &Canvas{
		logicalWidth:  logicalWidth,
		logicalHeight: logicalHeight,
	}
	c.Resize(termWidth, termHeight)
	return c
}

// Resize updates the canvas for new terminal dimensions while keeping logical size.
// The next Render repaints every cell.
func (c *Canvas) Resize(termWidth, termHeight int) {
	termWidth, termHeight = max(termWidth, 0), max(termHeight, 0)
	subPixelHeight := termHeight * 2

	if termWidth != c.termWidth || termHeight != c.termHeight || c.back == nil {
		c.back = make([]rgb, subPixelHeight*termWidth)
		c.front = make([]rgb, subPixelHeight*termWidth)
		c.termWidth = termWidth
		c.termHeight = termHeight
		c.subPixelHeight = subPixelHeight
		c.Clear()
		c.ForceRedraw()
	}

	c.scaleX = float64(termWidth) / c.logicalWidth
	c.scaleY = float64(subPixelHeight) / c.logicalHeight
}

// SetOffset sets the 0-based column and row where the canvas starts.
func (c *Canvas) SetOffset(col, row int) {
	c.offsetCol = col
	c.offsetRow = row
}

func (c *Canvas) OffsetCol() int { return c.offsetCol }
func (c *Canvas) OffsetRow() int { return c.offsetRow }

// SetBackground sets the color used by Clear.
func (c *Canvas) SetBackground(col colorful.Color) {
	c.bg = toRGB(col)
}

// Clear fills the canvas with the background color.
func (c *Canvas) Clear() {
	for i := range c.back {
		c.back[i] = c.bg
	}
}

// ForceRedraw makes the next Render write every cell.
func (c *Canvas) ForceRedraw() {
	for i := range c.front {
		c.front[i] = stale
	}
}

// InvalidateRow makes the next Render rewrite one terminal row, e.g. after
// text was drawn over it. row is 0-based within the canvas.
func (c *Canvas) InvalidateRow(row int) {
	if row < 0 || row >= c.termHeight {
		return
	}
	start := row * 2 * c.termWidth
	for i := start; i < start+2*c.termWidth; i++ {
		c.front[i] = stale
	}
}

// setPixel sets a pixel at actual terminal coordinates (no scaling).
func (c *Canvas) setPixel(x, y int, col rgb) {
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.subPixelHeight {
		c.back[y*c.termWidth+x] = col
	}
}

// Pixel returns the color of a sub-pixel, or the background when out of range.
func (c *Canvas) Pixel(x, y int) colorful.Color {
	col := c.bg
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.subPixelHeight {
		col = c.back[y*c.termWidth+x]
	}
	r, g, b := col.split()
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}

// Cell returns the upper and lower sub-pixel colors of a terminal cell.
func (c *Canvas) Cell(col, row int) (top, bottom colorful.Color) {
	return c.Pixel(col, row*2), c.Pixel(col, row*2+1)
}

// FillPolygon fills a polygon given in logical coordinates using the
// scanline algorithm. Works in pixel space for proper scaling.
func (c *Canvas) FillPolygon(points []Point, col colorful.Color) {
	if len(points) < 3 {
		return
	}
	fill := toRGB(col)

	if cap(c.scaledBuf) < len(points) {
		c.scaledBuf = make([]Point, len(points))
	}
	scaled := c.scaledBuf[:len(points)]
	for i, p := range points {
		scaled[i] = Point{X: p.X * c.scaleX, Y: p.Y * c.scaleY}
	}

	minY, maxY := scaled[0].Y, scaled[0].Y
	for _, p := range scaled {
		minY = min(minY, p.Y)
		maxY = max(maxY, p.Y)
	}

	yStart := max(int(math.Floor(minY)), 0)
	yEnd := min(int(math.Ceil(maxY)), c.subPixelHeight-1)

	for y := yStart; y <= yEnd; y++ {
		scanY := float64(y) + 0.5

		intersections := c.intersectionBuf[:0]
		n := len(scaled)
		for i := 0; i < n; i++ {
			p1 := scaled[i]
			p2 := scaled[(i+1)%n]

			if (p1.Y <= scanY && p2.Y > scanY) || (p2.Y <= scanY && p1.Y > scanY) {
				t := (scanY - p1.Y) / (p2.Y - p1.Y)
				intersections = append(intersections, p1.X+t*(p2.X-p1.X))
			}
		}
		c.intersectionBuf = intersections

		sort.Float64s(intersections)

		// Sample at pixel centers, like the rows.
		for i := 0; i+1 < len(intersections); i += 2 {
			xStart := int(math.Ceil(intersections[i] - 0.5))
			xEnd := int(math.Floor(intersections[i+1] - 0.5))
			for x := xStart; x <= xEnd; x++ {
				c.setPixel(x, y, fill)
			}
		}
	}
}

// maxChunkSize is the maximum bytes to write at once for optimal network flow.
// 1500 bytes matches typical MTU size for smooth SSH/network transmission.
const maxChunkSize = 1400

// Render writes the cells that changed since the last Render.
func (c *Canvas) Render(w io.Writer) {
	c.renderBuf.Reset()

	var fg, bg rgb = stale, stale
	cursorRow, cursorCol := -1, -1

	for row := 0; row < c.termHeight; row++ {
		topOffset := row * 2 * c.termWidth
		bottomOffset := topOffset + c.termWidth

		for col := 0; col < c.termWidth; col++ {
			top := c.back[topOffset+col]
			bottom := c.back[bottomOffset+col]
			if top == c.front[topOffset+col] && bottom == c.front[bottomOffset+col] {
				continue
			}
			c.front[topOffset+col] = top
			c.front[bottomOffset+col] = bottom

			if row != cursorRow || col != cursorCol {
				c.moveCursor(col+1+c.offsetCol, row+1+c.offsetRow)
			}
			if top != fg || bottom != bg {
				c.setColors(top, bottom)
				fg, bg = top, bottom
			}
			c.renderBuf.WriteRune(BlockUpperHalf)
			cursorRow, cursorCol = row, col+1
		}
	}
	if c.renderBuf.Len() == 0 {
		return
	}
	c.renderBuf.WriteString("\033[0m")

	// Write output in chunks for optimal network flow
	data := c.renderBuf.String()
	for len(data) > 0 {
		chunk := data
		if len(chunk) > maxChunkSize {
			chunk = data[:maxChunkSize]
		}
		io.WriteString(w, chunk)
		data = data[len(chunk):]
	}
}

func (c *Canvas) moveCursor(col, row int) {
	c.renderBuf.WriteString("\033[")
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(row), 10))
	c.renderBuf.WriteByte(';')
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(col), 10))
	c.renderBuf.WriteByte('H')
}

// setColors writes a 24-bit SGR sequence: foreground paints the upper
// half-block, background the lower.
func (c *Canvas) setColors(top, bottom rgb) {
	c.renderBuf.WriteString("\033[38;2")
	c.writeRGB(top)
	c.renderBuf.WriteString(";48;2")
	c.writeRGB(bottom)
	c.renderBuf.WriteByte('m')
}

func (c *Canvas) writeRGB(col rgb) {
	r, g, b := col.split()
	for _, v := range [3]uint8{r, g, b} {
		c.renderBuf.WriteByte(';')
		c.renderBuf.Write(strconv.AppendUint(c.numBuf[:0], uint64(v), 10))
	}
}

// LogicalWidth returns the logical width (target resolution).
func (c *Canvas) LogicalWidth() float64 { return c.logicalWidth }

// LogicalHeight returns the logical height.
func (c *Canvas) LogicalHeight() float64 { return c.logicalHeight }

// TerminalWidth returns the canvas column count.
func (c *Canvas) TerminalWidth() int { return c.termWidth }

// TerminalHeight returns the canvas row count.
func (c *Canvas) TerminalHeight() int { return c.termHeight }
