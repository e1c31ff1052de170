package audio

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/tomz197/blockcatch/internal/loop"
)

// Device is an audio output. The default is the process-wide beep speaker.
type Device interface {
	Init(rate beep.SampleRate, bufferSize int) error
	Play(s ...beep.Streamer)
	Lock()
	Unlock()
}

type speakerDevice struct{}

func (speakerDevice) Init(rate beep.SampleRate, bufferSize int) error {
	return speaker.Init(rate, bufferSize)
}

func (speakerDevice) Play(s ...beep.Streamer) { speaker.Play(s...) }
func (speakerDevice) Lock()                   { speaker.Lock() }
func (speakerDevice) Unlock()                 { speaker.Unlock() }

const bufferLength = 100 * time.Millisecond

// SoundManager plays procedural sounds through a mixer on the speaker.
// Until ResumeAudio succeeds every trigger is a no-op, so the game runs
// fine on machines without an audio device.
type SoundManager struct {
	mu          sync.Mutex
	device      Device
	mixer       *beep.Mixer
	volume      float64
	muted       bool
	initialized bool
}

// NewSoundManager creates a manager playing at volume (0..1) on the speaker.
func NewSoundManager(volume float64) *SoundManager {
	return NewSoundManagerWithDevice(volume, speakerDevice{})
}

// NewSoundManagerWithDevice is NewSoundManager with a custom output.
func NewSoundManagerWithDevice(volume float64, device Device) *SoundManager {
	return &SoundManager{
		device: device,
		mixer:  &beep.Mixer{},
		volume: volume,
	}
}

// ResumeAudio opens the output device on first use.
func (sm *SoundManager) ResumeAudio(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}
	if err := sm.device.Init(SampleRate, SampleRate.N(bufferLength)); err != nil {
		return err
	}
	sm.device.Play(sm.mixer)
	sm.initialized = true
	return nil
}

func (sm *SoundManager) PlayBlockCatch(points int) {
	sm.play(CatchSound(points, SampleRate))
}

func (sm *SoundManager) PlayGameStart() { sm.play(StartSound(SampleRate)) }
func (sm *SoundManager) PlayGameOver()  { sm.play(GameOverSound(SampleRate)) }
func (sm *SoundManager) PlayVictory()   { sm.play(VictorySound(SampleRate)) }

func (sm *SoundManager) play(s beep.Streamer) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if !sm.initialized || sm.muted {
		return
	}
	sm.addLocked(s)
}

func (sm *SoundManager) addLocked(s beep.Streamer) {
	sm.device.Lock()
	sm.mixer.Add(withVolume(s, sm.volume))
	sm.device.Unlock()
}

// ToggleMute silences or restores sound and reports whether it is now on.
// Muting cuts off sounds already playing.
func (sm *SoundManager) ToggleMute() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.muted = !sm.muted
	if !sm.initialized {
		return !sm.muted
	}
	if sm.muted {
		sm.device.Lock()
		sm.mixer.Clear()
		sm.device.Unlock()
	} else {
		sm.addLocked(BlipSound(SampleRate))
	}
	return !sm.muted
}

// IsEnabled reports whether sound is switched on. The device may still be
// closed until the first ResumeAudio.
func (sm *SoundManager) IsEnabled() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return !sm.muted
}

// Playing returns the number of sounds in the mixer.
func (sm *SoundManager) Playing() int {
	sm.device.Lock()
	defer sm.device.Unlock()
	return sm.mixer.Len()
}

// Cleanup stops all sounds. A later ResumeAudio opens the device again.
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	sm.device.Lock()
	sm.mixer.Clear()
	sm.device.Unlock()
	sm.initialized = false
}

// Bell rings the terminal bell for remote players, where the speaker would
// be the server's.
type Bell struct {
	mu    sync.Mutex
	w     io.Writer
	muted bool
}

func NewBell(w io.Writer) *Bell {
	return &Bell{w: w}
}

func (b *Bell) ring() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.muted {
		return
	}
	io.WriteString(b.w, "\a")
}

func (b *Bell) PlayBlockCatch(int) { b.ring() }
func (b *Bell) PlayGameStart()     {}
func (b *Bell) PlayGameOver()      { b.ring() }
func (b *Bell) PlayVictory()       { b.ring() }

func (b *Bell) ResumeAudio(context.Context) error { return nil }

func (b *Bell) ToggleMute() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.muted = !b.muted
	return !b.muted
}

// Silent discards every sound.
type Silent struct{}

func (Silent) PlayBlockCatch(int)                {}
func (Silent) PlayGameStart()                    {}
func (Silent) PlayGameOver()                     {}
func (Silent) PlayVictory()                      {}
func (Silent) ResumeAudio(context.Context) error { return nil }

var (
	_ loop.Audio = (*SoundManager)(nil)
	_ loop.Muter = (*SoundManager)(nil)
	_ loop.Audio = (*Bell)(nil)
	_ loop.Muter = (*Bell)(nil)
	_ loop.Audio = Silent{}
)
