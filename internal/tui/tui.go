// Package tui plays the game on the local terminal through tcell.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/tomz197/blockcatch/internal/client"
	"github.com/tomz197/blockcatch/internal/draw"
	"github.com/tomz197/blockcatch/internal/input"
	"github.com/tomz197/blockcatch/internal/loop"
)

var (
	barStyle     = tcell.StyleDefault.Bold(true)
	warningStyle = barStyle.Foreground(tcell.ColorRed)
	titleStyle   = tcell.StyleDefault.Bold(true)
	textStyle    = tcell.StyleDefault.Dim(true)
)

// Screen presents frames on a tcell screen.
type Screen struct {
	screen tcell.Screen
}

func New(screen tcell.Screen) *Screen {
	return &Screen{screen: screen}
}

func (s *Screen) Size() (int, int, error) {
	w, h := s.screen.Size()
	return w, h, nil
}

// Present copies every canvas cell to the screen and draws the HUD over
// it. tcell only sends the cells that changed.
func (s *Screen) Present(f client.Frame) error {
	if f.Resized {
		s.screen.Clear()
	}
	l := f.Layout
	for row := 0; row < l.Rows; row++ {
		for col := 0; col < l.Cols; col++ {
			top, bottom := f.Canvas.Cell(col, row)
			style := tcell.StyleDefault.Foreground(toColor(top)).Background(toColor(bottom))
			s.screen.SetContent(l.OffsetCol+col, l.OffsetRow+row, draw.BlockUpperHalf, nil, style)
		}
	}

	hud := f.HUD.Snapshot()
	bar := hud.Bar(l.Cols)
	if hud.LowTime() && hud.Status == loop.StatusPlaying {
		idx := strings.LastIndex(bar, "TIME")
		s.drawText(l.OffsetCol, l.OffsetRow-1, bar[:idx], barStyle)
		s.drawText(l.OffsetCol+idx, l.OffsetRow-1, bar[idx:], warningStyle)
	} else {
		s.drawText(l.OffsetCol, l.OffsetRow-1, bar, barStyle)
	}

	lines := hud.Overlay()
	start := (l.Rows - len(lines)) / 2
	for i, line := range lines {
		style := titleStyle
		if i > 0 {
			style = textStyle
		}
		col := max((l.Cols-len([]rune(line)))/2, 0)
		s.drawText(l.OffsetCol+col, l.OffsetRow+start+i, line, style)
	}

	s.screen.Show()
	return nil
}

func (s *Screen) drawText(x, y int, text string, style tcell.Style) {
	for _, r := range text {
		s.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

func toColor(c colorful.Color) tcell.Color {
	r, g, b := c.RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// KeyOf maps a key event to a game key.
func KeyOf(ev *tcell.EventKey) (input.Key, bool) {
	switch ev.Key() {
	case tcell.KeyLeft:
		return input.KeyLeft, true
	case tcell.KeyRight:
		return input.KeyRight, true
	case tcell.KeyCtrlC, tcell.KeyEscape:
		return input.KeyQuit, true
	case tcell.KeyRune:
		return input.RuneKey(ev.Rune())
	}
	return "", false
}

// Run opens the terminal and plays until the player quits.
func Run(ctx context.Context, opts client.Options) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	defer screen.Fini()
	return RunOn(ctx, screen, opts)
}

// RunOn plays on an initialised screen owned by the caller. Finalising the
// screen afterwards ends the event pump.
func RunOn(ctx context.Context, screen tcell.Screen, opts client.Options) error {
	screen.HideCursor()
	session, err := client.NewSession(New(screen), opts)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go pump(ctx, screen, session)

	return session.Run(ctx)
}

func pump(ctx context.Context, screen tcell.Screen, session *client.Session) {
	for {
		switch ev := screen.PollEvent().(type) {
		case nil:
			return
		case *tcell.EventKey:
			session.Activity()
			if k, ok := KeyOf(ev); ok {
				session.Tracker().Press(k)
			}
		case *tcell.EventResize:
			session.Post(screen.Sync)
		}
		if ctx.Err() != nil {
			return
		}
	}
}
