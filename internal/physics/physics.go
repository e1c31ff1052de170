// Package physics provides the geometry primitives used for movement and
// collision detection in the normalized play-field.
package physics

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Vec2 is a point in the normalized [-1,1]x[-1,1] play-field.
type Vec2 = mgl64.Vec2

// ErrInvalidGeometry is returned when a rectangle is built from the wrong number of points.
var ErrInvalidGeometry = errors.New("invalid geometry")

// Corner indices into Rectangle.Points.
const (
	TopLeft = iota
	TopRight
	BottomRight
	BottomLeft
	cornerCount
)

// Rectangle is an axis-aligned box stored as its four corners in the order
// top-left, top-right, bottom-right, bottom-left.
//
// The y axis points up, so Y() is the top edge and the box extends downward
// by Height(). Points given in another order yield negative extents; that is
// accepted as-is and such boxes never collide.
type Rectangle struct {
	Points [4]Vec2
}

// NewRectangle builds a rectangle from exactly four points.
// The points are copied; the caller's slice is not retained.
func NewRectangle(points []Vec2) (Rectangle, error) {
	if len(points) != cornerCount {
		return Rectangle{}, fmt.Errorf("%w: rectangle needs %d vertices, got %d", ErrInvalidGeometry, cornerCount, len(points))
	}
	var r Rectangle
	copy(r.Points[:], points)
	return r, nil
}

// RectangleAt builds a rectangle from its top-left corner and extents.
func RectangleAt(x, y, width, height float64) Rectangle {
	return Rectangle{Points: [4]Vec2{
		{x, y},
		{x + width, y},
		{x + width, y - height},
		{x, y - height},
	}}
}

func (r *Rectangle) TopLeft() Vec2     { return r.Points[TopLeft] }
func (r *Rectangle) TopRight() Vec2    { return r.Points[TopRight] }
func (r *Rectangle) BottomRight() Vec2 { return r.Points[BottomRight] }
func (r *Rectangle) BottomLeft() Vec2  { return r.Points[BottomLeft] }

// X returns the left edge.
func (r *Rectangle) X() float64 { return r.Points[TopLeft][0] }

// Y returns the top edge.
func (r *Rectangle) Y() float64 { return r.Points[TopLeft][1] }

// Width is topRight.x - topLeft.x.
func (r *Rectangle) Width() float64 { return r.Points[TopRight][0] - r.Points[TopLeft][0] }

// Height is topLeft.y - bottomLeft.y.
func (r *Rectangle) Height() float64 { return r.Points[TopLeft][1] - r.Points[BottomLeft][1] }

// Translate moves every corner by (dx, dy) in place.
func (r *Rectangle) Translate(dx, dy float64) {
	for i := range r.Points {
		r.Points[i][0] += dx
		r.Points[i][1] += dy
	}
}

// IsDegenerate reports whether the box has zero width or zero height.
func (r *Rectangle) IsDegenerate() bool {
	return r.Width() == 0 || r.Height() == 0
}

// Collides reports whether the two boxes overlap on both axes.
// Boxes that only touch never collide, and a zero-area box has no interior
// to intersect even when it lies inside the other box.
func (r *Rectangle) Collides(other *Rectangle) bool {
	if r.IsDegenerate() || other.IsDegenerate() {
		return false
	}
	withinLeft := r.X() < other.X()+other.Width()
	withinRight := r.X()+r.Width() > other.X()
	withinUp := r.Y() > other.Y()-other.Height()
	withinDown := r.Y()-r.Height() < other.Y()
	return withinLeft && withinRight && withinUp && withinDown
}
