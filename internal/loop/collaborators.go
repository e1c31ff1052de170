package loop

import (
	"context"

	"github.com/tomz197/blockcatch/internal/input"
	"github.com/tomz197/blockcatch/internal/object"
)

// Renderer draws the play-field.
type Renderer interface {
	object.BufferAllocator
	ClearColorBuffer()
	Draw(r object.Renderable)
}

// Status is the round phase shown to the player.
type Status string

const (
	StatusReady   Status = "ready"
	StatusPlaying Status = "playing"
	StatusPaused  Status = "paused"
	StatusWin     Status = "win"
	StatusLose    Status = "lose"
)

// HUD displays score, time and round status.
type HUD interface {
	UpdateScore(score int)
	UpdateTime(secondsLeft float64)
	UpdateGameStatus(status Status, message string)
}

// Audio plays game sounds. Triggers never block.
type Audio interface {
	PlayBlockCatch(points int)
	PlayGameStart()
	PlayGameOver()
	PlayVictory()
	// ResumeAudio prepares the output device. Some backends need it
	// before the first sound.
	ResumeAudio(ctx context.Context) error
}

// Muter is implemented by Audio backends that can be silenced.
type Muter interface {
	// ToggleMute flips the mute state and reports whether sound is now on.
	ToggleMute() bool
}

// AudioIndicator is implemented by HUDs that show whether sound is on.
type AudioIndicator interface {
	UpdateAudio(enabled bool)
}

// Keyboard exposes held keys and press callbacks.
type Keyboard interface {
	Pressed(k input.Key) bool
	Subscribe(k input.Key, fn func()) (unsubscribe func())
}

// Compile-time check that the input tracker satisfies Keyboard.
var _ Keyboard = (*input.Tracker)(nil)
