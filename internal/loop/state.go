// Package loop runs the round: the per-frame simulation, block lifecycle,
// scoring and the start/pause/end state machine.
package loop

import "time"

// State is the round state owned by a Game.
type State struct {
	Score               int
	Started             bool
	Paused              bool
	TimeLeft            float64 // seconds, never negative
	BlockSpawnCountdown float64 // milliseconds until the next spawn
	LastFrame           time.Time
}

// Status derives the displayed phase from the flags.
func (s State) Status() Status {
	switch {
	case !s.Started:
		return StatusReady
	case s.Paused:
		return StatusPaused
	default:
		return StatusPlaying
	}
}

// Result describes a finished round.
type Result struct {
	Score int
	Won   bool
}
