package draw

import (
	"github.com/kamstrup/intmap"

	"github.com/tomz197/blockcatch/internal/config"
	"github.com/tomz197/blockcatch/internal/loop"
	"github.com/tomz197/blockcatch/internal/object"
	"github.com/tomz197/blockcatch/internal/physics"
)

// FieldSize is the logical size of the [-1,1] play-field on a Canvas.
const FieldSize = 2.0

// Renderer draws renderables onto a Canvas. Buffers hold spawn-time
// geometry and uniforms shift it, the way a vertex shader would.
type Renderer struct {
	canvas  *Canvas
	buffers *intmap.Map[object.BufferHandle, []physics.Vec2]
	next    object.BufferHandle
	scratch []Point
}

// NewRenderer draws on canvas, clearing to bg. The canvas logical size
// should be FieldSize x FieldSize.
func NewRenderer(canvas *Canvas, bg config.Color) *Renderer {
	canvas.SetBackground(bg)
	return &Renderer{
		canvas:  canvas,
		buffers: intmap.New[object.BufferHandle, []physics.Vec2](64),
	}
}

// CreateBuffer stores a copy of points and returns its handle.
func (r *Renderer) CreateBuffer(points []physics.Vec2) object.BufferHandle {
	r.next++
	r.buffers.Put(r.next, append([]physics.Vec2(nil), points...))
	return r.next
}

// UpdateBuffer overwrites the contents of an existing buffer.
func (r *Renderer) UpdateBuffer(h object.BufferHandle, points []physics.Vec2) {
	buf, ok := r.buffers.Get(h)
	if !ok {
		return
	}
	buf = append(buf[:0], points...)
	r.buffers.Put(h, buf)
}

// DeleteBuffer frees a buffer.
func (r *Renderer) DeleteBuffer(h object.BufferHandle) {
	r.buffers.Del(h)
}

// Buffers returns the number of live buffers.
func (r *Renderer) Buffers() int { return r.buffers.Len() }

func (r *Renderer) ClearColorBuffer() {
	r.canvas.Clear()
}

// Draw fills the buffer of obj shifted by its uniforms.
func (r *Renderer) Draw(obj object.Renderable) {
	buf, ok := r.buffers.Get(obj.Buffer())
	if !ok {
		return
	}
	u := obj.Uniforms()

	if cap(r.scratch) < len(buf) {
		r.scratch = make([]Point, len(buf))
	}
	pts := r.scratch[:len(buf)]
	for i, v := range buf {
		pts[i] = FieldToCanvas(v[0]+u.XShift, v[1]+u.YShift)
	}
	r.canvas.FillPolygon(pts, u.Color)
}

// FieldToCanvas maps play-field coordinates (y up) to canvas logical
// coordinates (y down, origin top-left).
func FieldToCanvas(x, y float64) Point {
	return Point{X: x + 1, Y: 1 - y}
}

// Canvas returns the canvas being drawn on.
func (r *Renderer) Canvas() *Canvas { return r.canvas }

var _ loop.Renderer = (*Renderer)(nil)
