package client

import (
	"context"
	"io"

	"github.com/tomz197/blockcatch/internal/draw"
	"github.com/tomz197/blockcatch/internal/input"
)

// ANSI presents frames as escape sequences on a raw terminal stream, such
// as an SSH channel or a local tty in raw mode.
type ANSI struct {
	frame   *draw.FrameWriter
	size    draw.TermSizeFunc
	overlay []int
}

// NewANSI writes frames to w. size reports the terminal dimensions.
func NewANSI(w io.Writer, size draw.TermSizeFunc) *ANSI {
	if size == nil {
		size = draw.StdoutSize
	}
	return &ANSI{
		frame: draw.NewFrameWriter(w, 0, 0),
		size:  size,
	}
}

func (a *ANSI) Size() (int, int, error) { return a.size() }

// Present writes the changed cells, then the HUD on top. Rows the HUD
// covered last time are repainted first so stale text disappears.
func (a *ANSI) Present(f Frame) error {
	if f.Resized {
		draw.ClearScreen(a.frame)
		a.frame.SetOffset(f.Layout.OffsetCol, f.Layout.OffsetRow)
		a.overlay = nil
	}
	for _, row := range a.overlay {
		f.Canvas.InvalidateRow(row)
	}
	f.Canvas.Render(a.frame)
	a.overlay = f.HUD.Render(a.frame, f.Layout.Cols, f.Layout.Rows)
	return a.frame.Flush()
}

// activityReader reports every successful read, so any key counts as
// activity even if it maps to no game key.
type activityReader struct {
	r     io.Reader
	touch func()
}

func (a activityReader) Read(p []byte) (int, error) {
	n, err := a.r.Read(p)
	if n > 0 {
		a.touch()
	}
	return n, err
}

// Run plays one session over a raw terminal: keys are read from r and
// frames written to w. It returns when the player quits or idles out, r
// ends, or ctx is done.
func Run(ctx context.Context, r io.Reader, w io.Writer, size draw.TermSizeFunc, opts Options) error {
	s, err := NewSession(NewANSI(w, size), opts)
	if err != nil {
		return err
	}

	draw.EnterScreen(w)
	defer draw.LeaveScreen(w)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stream := input.StartStream(activityReader{r: r, touch: s.Activity}, s.Tracker())
	go func() {
		select {
		case <-stream.Done():
			s.Stop()
		case <-ctx.Done():
		}
	}()

	if err := s.Run(ctx); err != nil {
		return err
	}
	select {
	case <-stream.Done():
		return stream.Err()
	default:
		return nil
	}
}
