package object

import (
	"math/rand"

	"github.com/tomz197/blockcatch/internal/config"
	"github.com/tomz197/blockcatch/internal/physics"
)

// Block spawn geometry in play-field units.
const (
	BlockMinExtent = 0.1  // side length of a size 1 block
	BlockBaseSpeed = 0.01 // units per reference tick at speed 1
	BlockSpawnY    = 1.01 // bottom edge at spawn, just above the field
	FieldBottom    = -1.0
)

// Block is a falling collectible. Blocks are pooled: Reset rolls a new
// archetype and position, PrepareForPool marks the block inactive.
type Block struct {
	physics.Rectangle

	Data       config.BlockArchetype
	ShiftY     float64
	DeltaTrans float64

	buffer     BufferHandle
	alloc      BufferAllocator
	archetypes [config.ArchetypeCount]config.BlockArchetype
	rng        *rand.Rand
	active     bool
}

// NewBlock creates a block with a fresh roll and allocates its buffer once.
// A nil rng uses the math/rand global source.
func NewBlock(alloc BufferAllocator, archetypes [config.ArchetypeCount]config.BlockArchetype, rng *rand.Rand) *Block {
	b := &Block{
		alloc:      alloc,
		archetypes: archetypes,
		rng:        rng,
	}
	b.roll()
	b.buffer = alloc.CreateBuffer(b.Points())
	return b
}

func (b *Block) roll() {
	b.Data = b.archetypes[randIntn(b.rng, len(b.archetypes))]
	extent := BlockMinExtent * b.Data.Size
	x := randFloat(b.rng)*(2-extent) - 1
	b.Rectangle = physics.RectangleAt(x, BlockSpawnY+extent, extent, extent)
	b.DeltaTrans = BlockBaseSpeed * b.Data.Speed
	b.ShiftY = 0
}

// Reset rerolls the block and rewrites its existing buffer.
func (b *Block) Reset() {
	b.roll()
	b.alloc.UpdateBuffer(b.buffer, b.Points())
	b.active = true
}

func (b *Block) IsActive() bool { return b.active }

// PrepareForPool leaves the geometry untouched; the next Reset replaces it.
func (b *Block) PrepareForPool() { b.active = false }

// Step moves the block down, or up when upward is set. There is no bound.
func (b *Block) Step(timestepMs float64, upward bool) {
	sign := -1.0
	if upward {
		sign = 1
	}
	change := sign * b.DeltaTrans * (timestepMs / ReferenceTickMs)
	b.ShiftY += change
	b.Translate(0, change)
}

// OffScreen reports whether the top edge has reached the bottom of the field.
func (b *Block) OffScreen() bool {
	return b.Y() <= FieldBottom
}

func (b *Block) Points() []physics.Vec2 { return b.Rectangle.Points[:] }
func (b *Block) Buffer() BufferHandle     { return b.buffer }

// Uniforms returns the vertical shift applied to the spawn-time buffer.
func (b *Block) Uniforms() Uniforms {
	return Uniforms{YShift: b.ShiftY, Color: b.Data.Color}
}
