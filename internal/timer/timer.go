// Package timer implements a countdown that fires at a fixed interval.
package timer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// Event is passed to listeners on every interval.
type Event int

const (
	Tick Event = iota // time left after the decrement is still positive
	Done              // countdown reached zero and the timer stopped
)

func (e Event) String() string {
	switch e {
	case Tick:
		return "tick"
	case Done:
		return "done"
	}
	return fmt.Sprintf("Event(%d)", int(e))
}

// ErrUneven is returned when a time is not a whole number of intervals.
var ErrUneven = errors.New("time does not divide evenly by interval")

// Listener receives timer events. Listeners run on the timer goroutine when
// started with Start, or on the caller's goroutine for Step.
type Listener func(Event)

// Timer counts down from an initial time in interval-sized steps.
type Timer struct {
	mu        sync.Mutex
	listeners []Listener
	interval  time.Duration
	timeLeft  time.Duration
	running   bool
	cancel    context.CancelFunc
}

// New creates a stopped timer. initial must be a multiple of interval.
func New(initial, interval time.Duration) (*Timer, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("interval must be positive, got %v", interval)
	}
	if initial%interval != 0 {
		return nil, fmt.Errorf("%w: %v by %v", ErrUneven, initial, interval)
	}
	return &Timer{timeLeft: initial, interval: interval}, nil
}

func (t *Timer) AddListener(l Listener) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.listeners = append(t.listeners, l)
}

// SetTime replaces the remaining time.
func (t *Timer) SetTime(d time.Duration) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if d%t.interval != 0 {
		return fmt.Errorf("%w: %v by %v", ErrUneven, d, t.interval)
	}
	t.timeLeft = d
	return nil
}

// AddTime extends (or with a negative d, shortens) the remaining time.
func (t *Timer) AddTime(d time.Duration) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if (t.timeLeft+d)%t.interval != 0 {
		return fmt.Errorf("%w: %v by %v", ErrUneven, t.timeLeft+d, t.interval)
	}
	t.timeLeft += d
	return nil
}

// SetInterval changes the step size. It takes effect on a running timer
// after the next restart.
func (t *Timer) SetInterval(d time.Duration) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if d <= 0 {
		return fmt.Errorf("interval must be positive, got %v", d)
	}
	if t.timeLeft%d != 0 {
		return fmt.Errorf("%w: %v by %v", ErrUneven, t.timeLeft, d)
	}
	t.interval = d
	return nil
}

// Start runs Step every interval on a new goroutine until the countdown
// finishes, Stop is called, or ctx is cancelled. Starting a running timer
// does nothing.
func (t *Timer) Start(ctx context.Context) {
	t.mu.Lock()
	if t.running {
		t.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	t.running = true
	t.cancel = cancel
	interval := t.interval
	t.mu.Unlock()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if ctx.Err() != nil {
					return
				}
				if t.Step() == Done {
					return
				}
			}
		}
	}()
}

func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
}

func (t *Timer) stopLocked() {
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	t.running = false
}

// Step removes one interval and notifies listeners. At zero the timer
// clamps, stops, and emits Done.
func (t *Timer) Step() Event {
	t.mu.Lock()
	t.timeLeft -= t.interval
	ev := Tick
	if t.timeLeft <= 0 {
		t.timeLeft = 0
		t.stopLocked()
		ev = Done
	}
	listeners := append([]Listener(nil), t.listeners...)
	t.mu.Unlock()

	for _, l := range listeners {
		l(ev)
	}
	return ev
}

func (t *Timer) TimeLeft() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.timeLeft
}

func (t *Timer) Interval() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.interval
}

func (t *Timer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}
