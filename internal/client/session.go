// Package client runs one player's game on one terminal: it wires the
// keyboard, the canvas, the HUD and the audio to a Game and drives it with
// an event loop, disconnecting players who stay idle.
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/blockcatch/internal/audio"
	"github.com/tomz197/blockcatch/internal/config"
	"github.com/tomz197/blockcatch/internal/draw"
	"github.com/tomz197/blockcatch/internal/input"
	"github.com/tomz197/blockcatch/internal/loop"
	"github.com/tomz197/blockcatch/internal/timer"
)

// Inactivity defaults.
const (
	DefaultIdleTimeout = 2 * time.Minute
	DefaultIdleWarning = 30 * time.Second
	DefaultIdleStep    = time.Second
)

// Frame is what a Presenter shows after every loop refresh.
type Frame struct {
	Canvas *draw.Canvas
	HUD    *draw.HUD
	Layout Layout
	// Resized is set on the first frame and whenever the layout changed.
	Resized bool
}

// Presenter puts frames on a terminal. Both methods run on the loop
// goroutine.
type Presenter interface {
	Size() (cols, rows int, err error)
	Present(f Frame) error
}

// Options configures a Session.
type Options struct {
	Settings config.Settings
	Audio    loop.Audio  // nil plays nothing
	Logger   *log.Logger // nil discards
	Rand     *rand.Rand
	FPS      int

	// IdleTimeout disconnects a player after this long without input.
	// Zero uses DefaultIdleTimeout, negative disables it. It must be a
	// multiple of IdleStep.
	IdleTimeout time.Duration
	IdleWarning time.Duration
	IdleStep    time.Duration
}

// Session is a single-player game bound to one Presenter.
type Session struct {
	presenter Presenter
	logger    *log.Logger

	loop     *loop.EventLoop
	tracker  *input.Tracker
	canvas   *draw.Canvas
	renderer *draw.Renderer
	hud      *draw.HUD
	game     *loop.Game
	layout   Layout
	first    bool

	idle        *timer.Timer
	idleTimeout time.Duration
	idleWarning time.Duration
	idleExpired bool
}

// NewSession builds the game for p. Nothing runs until Run.
func NewSession(p Presenter, opts Options) (*Session, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	a := opts.Audio
	if a == nil {
		a = audio.Silent{}
	}

	s := &Session{
		presenter: p,
		logger:    logger,
		loop:      loop.NewEventLoop(opts.FPS),
		hud:       draw.NewHUD(opts.Settings.ScoreThreshold),
		first:     true,
	}
	s.tracker = input.NewTracker(s.loop.Post)
	s.canvas = draw.NewCanvas(0, 0, draw.FieldSize, draw.FieldSize)
	s.renderer = draw.NewRenderer(s.canvas, opts.Settings.BGColor)

	game, err := loop.New(loop.Options{
		Settings:  opts.Settings,
		Renderer:  s.renderer,
		HUD:       s.hud,
		Audio:     a,
		Keyboard:  s.tracker,
		Scheduler: s.loop,
		Rand:      opts.Rand,
		Logger:    logger,
	})
	if err != nil {
		return nil, err
	}
	s.game = game

	if err := s.setupIdle(opts); err != nil {
		return nil, err
	}
	s.tracker.Subscribe(input.KeyQuit, s.loop.Stop)
	return s, nil
}

func (s *Session) setupIdle(opts Options) error {
	s.idleTimeout = opts.IdleTimeout
	if s.idleTimeout == 0 {
		s.idleTimeout = DefaultIdleTimeout
	}
	if s.idleTimeout < 0 {
		return nil
	}
	s.idleWarning = opts.IdleWarning
	if s.idleWarning <= 0 {
		s.idleWarning = DefaultIdleWarning
	}
	step := opts.IdleStep
	if step <= 0 {
		step = DefaultIdleStep
	}

	idle, err := timer.New(s.idleTimeout, step)
	if err != nil {
		return fmt.Errorf("idle timeout: %w", err)
	}
	idle.AddListener(func(ev timer.Event) {
		s.loop.Post(func() { s.onIdle(ev) })
	})
	s.idle = idle
	return nil
}

// Run plays until the player quits, goes idle, the presenter fails, Stop
// is called or ctx ends. Cancelling ctx is a normal way to end a session.
func (s *Session) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.loop.SetAfterFrame(s.present)
	s.game.Start(ctx)
	defer s.game.Close()

	if s.idle != nil {
		s.idle.Start(ctx)
		defer s.idle.Stop()
	}

	err := s.loop.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (s *Session) present() {
	resized := s.first
	s.first = false

	if cols, rows, err := s.presenter.Size(); err == nil {
		if l := ComputeLayout(cols, rows); l != s.layout || resized {
			s.layout = l
			s.canvas.Resize(l.Cols, l.Rows)
			s.canvas.SetOffset(l.OffsetCol, l.OffsetRow)
			s.canvas.ForceRedraw()
			s.game.Repaint()
			resized = true
		}
	}

	err := s.presenter.Present(Frame{
		Canvas:  s.canvas,
		HUD:     s.hud,
		Layout:  s.layout,
		Resized: resized,
	})
	if err != nil {
		s.logger.Error("present failed", "err", err)
		s.loop.Stop()
	}
}

func (s *Session) onIdle(ev timer.Event) {
	left := s.idle.TimeLeft()
	switch {
	case ev == timer.Done:
		s.logger.Info("idle timeout, closing session", "after", s.idleTimeout)
		s.idleExpired = true
		s.loop.Stop()
	case left <= s.idleWarning:
		s.hud.SetNotice(fmt.Sprintf("Idle, disconnecting in %ds", int(left/time.Second)))
	}
}

// Activity restarts the idle countdown. Safe from any goroutine.
func (s *Session) Activity() {
	if s.idle == nil {
		return
	}
	if err := s.idle.SetTime(s.idleTimeout); err != nil {
		s.logger.Warn("idle reset failed", "err", err)
	}
	s.hud.SetNotice("")
}

// Stop ends Run. Safe from any goroutine.
func (s *Session) Stop() { s.loop.Stop() }

// Post runs fn on the loop goroutine.
func (s *Session) Post(fn func()) { s.loop.Post(fn) }

// Tracker receives key presses for this session.
func (s *Session) Tracker() *input.Tracker { return s.tracker }

// Game is only safe to use on the loop goroutine or after Run returns.
func (s *Session) Game() *loop.Game { return s.game }

func (s *Session) HUD() *draw.HUD { return s.hud }

// IdleExpired reports whether the session ended for inactivity.
func (s *Session) IdleExpired() bool { return s.idleExpired }
