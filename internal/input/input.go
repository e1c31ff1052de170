// Package input tracks keyboard state for the game from raw terminal bytes
// or frontend key events.
package input

import (
	"sync"
	"time"
)

// Key names a tracked key.
type Key string

const (
	KeyLeft  Key = "ArrowLeft"
	KeyRight Key = "ArrowRight"
	KeySpace Key = " "
	KeyMute  Key = "m"
	KeyQuit  Key = "q"
)

// keyHoldDuration is how long a key is considered "held" after its last press.
// Terminals only report presses, so a held key is a stream of repeats.
const keyHoldDuration = 120 * time.Millisecond

type subscription struct {
	fn func()
}

// Tracker keeps the last press time of every key and runs press callbacks.
// Callbacks go through dispatch so they can run on the game goroutine.
type Tracker struct {
	mu        sync.Mutex
	lastPress map[Key]time.Time
	subs      map[Key][]*subscription
	dispatch  func(func())
	now       func() time.Time
	hold      time.Duration
}

// NewTracker creates a tracker. A nil dispatch runs callbacks inline.
func NewTracker(dispatch func(func())) *Tracker {
	if dispatch == nil {
		dispatch = func(fn func()) { fn() }
	}
	return &Tracker{
		lastPress: make(map[Key]time.Time),
		subs:      make(map[Key][]*subscription),
		dispatch:  dispatch,
		now:       time.Now,
		hold:      keyHoldDuration,
	}
}

// Press records a key press. Subscribers are notified only on the first
// press of a hold, not on auto-repeats.
func (t *Tracker) Press(k Key) {
	t.mu.Lock()
	now := t.now()
	last, seen := t.lastPress[k]
	t.lastPress[k] = now
	repeat := seen && now.Sub(last) < t.hold
	var fns []func()
	if !repeat {
		for _, s := range t.subs[k] {
			fns = append(fns, s.fn)
		}
	}
	t.mu.Unlock()

	for _, fn := range fns {
		t.dispatch(fn)
	}
}

// Pressed reports whether k was pressed within the hold window.
func (t *Tracker) Pressed(k Key) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	last, ok := t.lastPress[k]
	return ok && t.now().Sub(last) < t.hold
}

// Subscribe registers fn for presses of k and returns a function removing it.
func (t *Tracker) Subscribe(k Key, fn func()) (unsubscribe func()) {
	s := &subscription{fn: fn}
	t.mu.Lock()
	t.subs[k] = append(t.subs[k], s)
	t.mu.Unlock()

	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		list := t.subs[k]
		kept := list[:0]
		for _, other := range list {
			if other != s {
				kept = append(kept, other)
			}
		}
		t.subs[k] = kept
	}
}

// Reset forgets all held keys.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	clear(t.lastPress)
}
