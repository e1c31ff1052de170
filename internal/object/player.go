package object

import (
	"github.com/tomz197/blockcatch/internal/config"
	"github.com/tomz197/blockcatch/internal/physics"
)

// Player geometry in play-field units.
const (
	PlayerHalfWidth = 0.15
	PlayerTop       = -0.925
	PlayerBottom    = -0.975
	PlayerSpeed     = 0.03 // units per reference tick
	PlayerStroke    = 0.01 // outline thickness

	// Horizontal bounds. The left bound is inclusive, the right one is not.
	PlayerMinX = -1.01
	PlayerMaxX = 1.01
)

// Player is the paddle at the bottom of the field. It only moves sideways.
type Player struct {
	physics.Rectangle

	ShiftX     float64 // total horizontal movement since creation
	DeltaTrans float64
	Color      config.Color

	buffer      BufferHandle // full rectangle, drawn as the outline
	mainBuffer  BufferHandle // body inset by PlayerStroke
	mainPoints  []physics.Vec2
	strokeColor config.Color
}

// NewPlayer creates the paddle centered horizontally and uploads its buffers.
func NewPlayer(alloc BufferAllocator, color config.Color) *Player {
	rect := physics.RectangleAt(-PlayerHalfWidth, PlayerTop, 2*PlayerHalfWidth, PlayerTop-PlayerBottom)
	main := physics.RectangleAt(
		-PlayerHalfWidth+PlayerStroke,
		PlayerTop-PlayerStroke,
		2*(PlayerHalfWidth-PlayerStroke),
		PlayerTop-PlayerBottom-2*PlayerStroke,
	)

	p := &Player{
		Rectangle:   rect,
		DeltaTrans:  PlayerSpeed,
		Color:       color,
		mainPoints:  main.Points[:],
		strokeColor: config.DarkenColor(color, config.DefaultDarkenFactor),
	}
	p.buffer = alloc.CreateBuffer(p.Points())
	p.mainBuffer = alloc.CreateBuffer(p.mainPoints)
	return p
}

// Step moves the paddle by dir * DeltaTrans scaled to timestepMs. A move
// that would cross either bound is dropped entirely.
func (p *Player) Step(timestepMs float64, dir Direction) {
	change := float64(dir) * p.DeltaTrans * (timestepMs / ReferenceTickMs)
	if change == 0 {
		return
	}
	if p.TopLeft()[0]+change < PlayerMinX || p.BottomRight()[0]+change >= PlayerMaxX {
		return
	}
	p.ShiftX += change
	p.Translate(change, 0)
}

// Points returns the collision corners at the current position.
func (p *Player) Points() []physics.Vec2 {
	return p.Rectangle.Points[:]
}

// Buffer returns the body buffer. The body is drawn over Outline.
func (p *Player) Buffer() BufferHandle { return p.mainBuffer }

func (p *Player) Uniforms() Uniforms {
	return Uniforms{XShift: p.ShiftX, Color: p.Color}
}

// Outline is the darker full-size rectangle drawn under the body.
func (p *Player) Outline() Renderable {
	return Shape{
		points:   p.Points(),
		buffer:   p.buffer,
		uniforms: Uniforms{XShift: p.ShiftX, Color: p.strokeColor},
	}
}
