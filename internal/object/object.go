// Package object holds the play-field entities and the types the renderer
// needs to draw them.
package object

import (
	"math/rand"

	"github.com/tomz197/blockcatch/internal/config"
	"github.com/tomz197/blockcatch/internal/physics"
)

// ReferenceTickMs is the frame length the base speeds are tuned for.
// Movement scales linearly with timestep / ReferenceTickMs.
const ReferenceTickMs = 25.0

// BufferHandle identifies vertex data uploaded to a renderer.
type BufferHandle uint32

// Uniforms are per-draw parameters applied on top of a buffer.
type Uniforms struct {
	XShift float64
	YShift float64
	Color  config.Color
}

// Renderable is anything the renderer can draw.
type Renderable interface {
	Points() []physics.Vec2
	Buffer() BufferHandle
	Uniforms() Uniforms
}

// BufferAllocator creates and rewrites vertex buffers.
type BufferAllocator interface {
	CreateBuffer(points []physics.Vec2) BufferHandle
	UpdateBuffer(h BufferHandle, points []physics.Vec2)
}

// Direction is a horizontal input direction.
type Direction int

const (
	Left  Direction = -1
	None  Direction = 0
	Right Direction = 1
)

// Shape is a fixed Renderable, used for decorations such as outlines.
type Shape struct {
	points   []physics.Vec2
	buffer   BufferHandle
	uniforms Uniforms
}

func (s Shape) Points() []physics.Vec2 { return s.points }
func (s Shape) Buffer() BufferHandle     { return s.buffer }
func (s Shape) Uniforms() Uniforms       { return s.uniforms }

func randFloat(rng *rand.Rand) float64 {
	if rng == nil {
		return rand.Float64()
	}
	return rng.Float64()
}

func randIntn(rng *rand.Rand, n int) int {
	if rng == nil {
		return rand.Intn(n)
	}
	return rng.Intn(n)
}
