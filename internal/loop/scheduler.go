package loop

import (
	"context"
	"sync"
	"time"
)

// FrameFunc runs once per display refresh.
type FrameFunc func(now time.Time)

// Scheduler runs a requested frame callback at the next refresh. A callback
// that wants to keep running must request itself again.
type Scheduler interface {
	RequestFrame(fn FrameFunc)
}

// DefaultFPS is the refresh rate of EventLoop when none is given.
const DefaultFPS = 60

// EventLoop is a single-goroutine host for the game. Frame callbacks and
// posted tasks all run on the goroutine that called Run, so the state
// they touch has a single writer.
type EventLoop struct {
	frameTime time.Duration
	tasks     chan func()
	stop      chan struct{}
	stopOnce  sync.Once

	mu      sync.Mutex
	pending []FrameFunc

	afterFrame func()
}

// NewEventLoop creates a loop ticking fps times per second.
func NewEventLoop(fps int) *EventLoop {
	if fps <= 0 {
		fps = DefaultFPS
	}
	return &EventLoop{
		frameTime: time.Second / time.Duration(fps),
		tasks:     make(chan func(), 64),
		stop:      make(chan struct{}),
	}
}

// RequestFrame queues fn for the next refresh. Safe from any goroutine.
func (l *EventLoop) RequestFrame(fn FrameFunc) {
	l.mu.Lock()
	l.pending = append(l.pending, fn)
	l.mu.Unlock()
}

// Post runs fn on the loop goroutine. Tasks posted after Stop are dropped.
func (l *EventLoop) Post(fn func()) {
	select {
	case l.tasks <- fn:
	case <-l.stop:
	}
}

// SetAfterFrame sets a function run after every refresh, typically to
// present the rendered frame. Call before Run.
func (l *EventLoop) SetAfterFrame(fn func()) {
	l.afterFrame = fn
}

// Run processes frames and tasks until Stop is called or ctx ends.
func (l *EventLoop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.frameTime)
	defer ticker.Stop()

	var frames []FrameFunc
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.stop:
			return nil
		case fn := <-l.tasks:
			fn()
		case now := <-ticker.C:
			l.mu.Lock()
			frames, l.pending = l.pending, frames[:0]
			l.mu.Unlock()

			for _, fn := range frames {
				fn(now)
			}
			clear(frames)
			if l.afterFrame != nil {
				l.afterFrame()
			}
		}
	}
}

// Stop ends Run. Calling it more than once is safe.
func (l *EventLoop) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}

// ManualScheduler runs frames only when Advance is called. It drives the
// game headless, mostly in tests.
type ManualScheduler struct {
	pending []FrameFunc
	stopped bool
}

func (m *ManualScheduler) RequestFrame(fn FrameFunc) {
	if m.stopped {
		return
	}
	m.pending = append(m.pending, fn)
}

// Advance runs the callbacks pending at call time with now and returns how
// many ran. Callbacks requested while advancing wait for the next call.
func (m *ManualScheduler) Advance(now time.Time) int {
	frames := m.pending
	m.pending = nil
	for _, fn := range frames {
		fn(now)
	}
	return len(frames)
}

// Pending returns the number of queued callbacks.
func (m *ManualScheduler) Pending() int { return len(m.pending) }

// Stop drops pending callbacks and ignores future requests.
func (m *ManualScheduler) Stop() {
	m.stopped = true
	m.pending = nil
}

var (
	_ Scheduler = (*EventLoop)(nil)
	_ Scheduler = (*ManualScheduler)(nil)
)
