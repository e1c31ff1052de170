package draw

import (
	"bytes"
	"strings"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/blockcatch/internal/loop"
	"github.com/tomz197/blockcatch/internal/object"
	"github.com/tomz197/blockcatch/internal/physics"
)

var (
	black = colorful.Color{}
	red   = colorful.Color{R: 1}
)

func TestCanvasRenderOnlyWritesChanges(t *testing.T) {
	c := NewCanvas(4, 2, 2, 2)
	c.SetBackground(black)
	c.Clear()

	var out bytes.Buffer
	c.Render(&out)
	assert.Equal(t, 8, strings.Count(out.String(), string(BlockUpperHalf)), "first frame paints every cell")

	out.Reset()
	c.Render(&out)
	assert.Empty(t, out.String(), "unchanged frame writes nothing")

	// Covers exactly sub-pixel (0,0): the upper half of cell (0,0).
	c.FillPolygon([]Point{{0, 0}, {0.5, 0}, {0.5, 0.5}, {0, 0.5}}, red)
	out.Reset()
	c.Render(&out)
	s := out.String()
	assert.Equal(t, 1, strings.Count(s, string(BlockUpperHalf)))
	assert.Contains(t, s, "\033[1;1H")
	assert.Contains(t, s, "\033[38;2;255;0;0;48;2;0;0;0m")
	assert.True(t, strings.HasSuffix(s, "\033[0m"))

	c.ForceRedraw()
	out.Reset()
	c.Render(&out)
	assert.Equal(t, 8, strings.Count(out.String(), string(BlockUpperHalf)))

	c.InvalidateRow(1)
	out.Reset()
	c.Render(&out)
	assert.Equal(t, 4, strings.Count(out.String(), string(BlockUpperHalf)))
	assert.Contains(t, out.String(), "\033[2;1H")

	c.InvalidateRow(7)
	out.Reset()
	c.Render(&out)
	assert.Empty(t, out.String(), "out of range rows are ignored")
}

func TestCanvasOffsetAndResize(t *testing.T) {
	c := NewCanvas(2, 1, 2, 2)
	c.SetOffset(3, 1)
	var out bytes.Buffer
	c.Render(&out)
	assert.Contains(t, out.String(), "\033[2;4H")

	c.Resize(6, 3)
	assert.Equal(t, 6, c.TerminalWidth())
	assert.Equal(t, 3, c.TerminalHeight())
	out.Reset()
	c.Render(&out)
	assert.Equal(t, 18, strings.Count(out.String(), string(BlockUpperHalf)))
}

func TestRendererDrawsWithUniforms(t *testing.T) {
	c := NewCanvas(20, 10, FieldSize, FieldSize)
	r := NewRenderer(c, black)

	rect := physics.RectangleAt(-0.5, 0.5, 1, 1)
	h := r.CreateBuffer(rect.Points[:])
	assert.Equal(t, 1, r.Buffers())

	r.ClearColorBuffer()
	r.Draw(object.Shape{}) // unknown buffer is skipped
	r.Draw(shape{h, object.Uniforms{Color: red}})
	// 10 sub-pixels per unit on both axes: the box spans pixels [5,15).
	assert.Equal(t, "#ff0000", c.Pixel(5, 5).Hex())
	assert.Equal(t, "#ff0000", c.Pixel(14, 14).Hex())
	assert.Equal(t, "#000000", c.Pixel(4, 5).Hex())
	assert.Equal(t, "#000000", c.Pixel(15, 5).Hex())
	assert.Equal(t, "#000000", c.Pixel(5, 15).Hex())

	r.ClearColorBuffer()
	r.Draw(shape{h, object.Uniforms{XShift: 0.2, YShift: 0.3, Color: red}})
	assert.Equal(t, "#000000", c.Pixel(6, 5).Hex())
	assert.Equal(t, "#ff0000", c.Pixel(7, 2).Hex())
	assert.Equal(t, "#ff0000", c.Pixel(16, 11).Hex())
	assert.Equal(t, "#000000", c.Pixel(16, 12).Hex())
}

func TestRendererBufferCopies(t *testing.T) {
	r := NewRenderer(NewCanvas(10, 5, FieldSize, FieldSize), black)
	pts := []physics.Vec2{{0, 0}, {0.5, 0}, {0.5, -0.5}, {0, -0.5}}
	h := r.CreateBuffer(pts)
	pts[0] = physics.Vec2{-1, 1}

	buf, ok := r.buffers.Get(h)
	require.True(t, ok)
	assert.Equal(t, physics.Vec2{0, 0}, buf[0], "creation copies the caller's points")

	r.UpdateBuffer(h, []physics.Vec2{{0.1, 0.1}, {0.2, 0.1}, {0.2, 0}, {0.1, 0}})
	buf, _ = r.buffers.Get(h)
	assert.Equal(t, physics.Vec2{0.1, 0.1}, buf[0])

	r.UpdateBuffer(99, pts)
	assert.Equal(t, 1, r.Buffers(), "updating an unknown handle is a no-op")

	h2 := r.CreateBuffer(pts)
	assert.NotEqual(t, h, h2)
	r.DeleteBuffer(h)
	assert.Equal(t, 1, r.Buffers())
}

func TestFieldToCanvas(t *testing.T) {
	assert.Equal(t, Point{0, 0}, FieldToCanvas(-1, 1))
	assert.Equal(t, Point{2, 2}, FieldToCanvas(1, -1))
	assert.Equal(t, Point{1, 1}, FieldToCanvas(0, 0))
}

func TestFormatTime(t *testing.T) {
	cases := []struct {
		seconds float64
		want    string
	}{
		{60, "01:00"},
		{59.2, "01:00"},
		{59, "00:59"},
		{0.01, "00:01"},
		{0, "00:00"},
		{-3, "00:00"},
		{125, "02:05"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatTime(tc.seconds), "seconds=%v", tc.seconds)
	}
}

func TestHUDSnapshot(t *testing.T) {
	h := NewHUD(25)
	s := h.Snapshot()
	assert.Equal(t, loop.StatusReady, s.Status)
	assert.True(t, s.AudioOn)

	h.UpdateScore(3)
	h.UpdateTime(30)
	h.UpdateAudio(false)
	h.UpdateGameStatus(loop.StatusPaused, loop.MsgResume)
	s = h.Snapshot()

	bar := s.Bar(60)
	assert.Len(t, bar, 60)
	assert.Contains(t, bar, "SCORE 3/25")
	assert.Contains(t, bar, "sound off")
	assert.Contains(t, bar, "TIME 00:30")
	assert.False(t, s.LowTime())

	assert.Equal(t, []string{"Game Paused", loop.MsgResume}, s.Overlay())

	h.UpdateTime(10)
	assert.True(t, h.Snapshot().LowTime())

	h.UpdateGameStatus(loop.StatusPlaying, "")
	assert.Empty(t, h.Snapshot().Overlay())

	h.UpdateGameStatus(loop.StatusWin, loop.MsgPlayAgain)
	h.SetNotice("Idle, disconnecting in 30s")
	assert.Equal(t, []string{"YOU WIN!", loop.MsgPlayAgain, "", "Idle, disconnecting in 30s"}, h.Snapshot().Overlay())
}

func TestHUDRender(t *testing.T) {
	h := NewHUD(500)
	h.UpdateTime(5)
	h.UpdateGameStatus(loop.StatusLose, loop.MsgPlayAgain)

	var out bytes.Buffer
	fw := NewFrameWriter(&out, 0, 1)
	rows := h.Render(fw, 40, 10)
	require.NoError(t, fw.Flush())

	assert.Equal(t, []int{4, 5}, rows)
	s := out.String()
	assert.Contains(t, s, "\033[1;1H", "bar sits on the row above the canvas")
	assert.Contains(t, s, "YOU LOSE!")
	assert.Contains(t, s, loop.MsgPlayAgain)
	assert.NotContains(t, s, styleWarning, "clock warning only shows while playing")

	h.UpdateGameStatus(loop.StatusPlaying, "")
	out.Reset()
	assert.Empty(t, h.Render(fw, 40, 10))
	require.NoError(t, fw.Flush())
	assert.Contains(t, out.String(), styleWarning+"TIME 00:05")
}

type shape struct {
	h object.BufferHandle
	u object.Uniforms
}

func (s shape) Points() []physics.Vec2      { return nil }
func (s shape) Buffer() object.BufferHandle { return s.h }
func (s shape) Uniforms() object.Uniforms   { return s.u }
