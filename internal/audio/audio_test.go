package audio

import (
	"bytes"
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDevice struct {
	mu     sync.Mutex
	err    error
	inits  int
	played []beep.Streamer
}

func (d *fakeDevice) Init(beep.SampleRate, int) error {
	d.inits++
	return d.err
}

func (d *fakeDevice) Play(s ...beep.Streamer) { d.played = append(d.played, s...) }
func (d *fakeDevice) Lock()                   { d.mu.Lock() }
func (d *fakeDevice) Unlock()                 { d.mu.Unlock() }

// drain streams s to the end, giving up after ten seconds of audio.
func drain(s beep.Streamer) [][2]float64 {
	var out [][2]float64
	buf := make([][2]float64, 512)
	for len(out) < SampleRate.N(10*time.Second) {
		n, ok := s.Stream(buf)
		out = append(out, buf[:n]...)
		if !ok {
			break
		}
	}
	return out
}

func peak(samples [][2]float64) float64 {
	p := 0.0
	for _, s := range samples {
		p = max(p, math.Abs(s[0]))
	}
	return p
}

func signChanges(samples [][2]float64) int {
	n := 0
	for i := 1; i < len(samples); i++ {
		if (samples[i][0] < 0) != (samples[i-1][0] < 0) {
			n++
		}
	}
	return n
}

func TestSoundManagerGracefulDegradation(t *testing.T) {
	dev := &fakeDevice{}
	sm := NewSoundManagerWithDevice(0.6, dev)

	assert.NotPanics(t, func() {
		sm.PlayBlockCatch(5)
		sm.PlayGameStart()
		sm.PlayGameOver()
		sm.PlayVictory()
		sm.Cleanup()
	})
	assert.Equal(t, 0, sm.Playing())
	assert.Zero(t, dev.inits)
	assert.True(t, sm.IsEnabled())
}

func TestSoundManagerResume(t *testing.T) {
	dev := &fakeDevice{}
	sm := NewSoundManagerWithDevice(0.6, dev)

	require.NoError(t, sm.ResumeAudio(context.Background()))
	require.NoError(t, sm.ResumeAudio(context.Background()), "second resume is a no-op")
	assert.Equal(t, 1, dev.inits)
	assert.Len(t, dev.played, 1)

	sm.PlayBlockCatch(25)
	sm.PlayGameStart()
	assert.Equal(t, 2, sm.Playing())

	sm.Cleanup()
	assert.Equal(t, 0, sm.Playing())
	sm.PlayVictory()
	assert.Equal(t, 0, sm.Playing(), "cleaned up manager ignores triggers")

	require.NoError(t, sm.ResumeAudio(context.Background()))
	assert.Equal(t, 2, dev.inits)
}

func TestSoundManagerResumeFailure(t *testing.T) {
	dev := &fakeDevice{err: errors.New("no audio device")}
	sm := NewSoundManagerWithDevice(0.6, dev)

	assert.EqualError(t, sm.ResumeAudio(context.Background()), "no audio device")
	assert.Empty(t, dev.played)
	sm.PlayGameOver()
	assert.Equal(t, 0, sm.Playing())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sm.ResumeAudio(ctx), context.Canceled)
	assert.Equal(t, 1, dev.inits, "cancelled resume never touches the device")
}

func TestSoundManagerMute(t *testing.T) {
	sm := NewSoundManagerWithDevice(0.6, &fakeDevice{})
	require.NoError(t, sm.ResumeAudio(context.Background()))

	sm.PlayGameStart()
	require.Equal(t, 1, sm.Playing())

	assert.False(t, sm.ToggleMute())
	assert.False(t, sm.IsEnabled())
	assert.Equal(t, 0, sm.Playing(), "muting cuts off playing sounds")
	sm.PlayBlockCatch(1)
	assert.Equal(t, 0, sm.Playing())

	assert.True(t, sm.ToggleMute())
	assert.True(t, sm.IsEnabled())
	assert.Equal(t, 1, sm.Playing(), "unmuting plays a blip")
}

func TestCatchFrequency(t *testing.T) {
	assert.InDelta(t, 440.0, CatchFrequency(0), 1e-9)
	assert.InDelta(t, 528.0, CatchFrequency(5), 1e-9)
	assert.InDelta(t, 880.0, CatchFrequency(25), 1e-9)
}

func TestSoundLengths(t *testing.T) {
	catch := drain(CatchSound(5, SampleRate))
	assert.Len(t, catch, SampleRate.N(catchLength))
	assert.Greater(t, peak(catch), 0.0)
	assert.LessOrEqual(t, peak(catch), catchGain+1e-9)

	over := drain(GameOverSound(SampleRate))
	assert.Len(t, over, SampleRate.N(gameOverLength))

	// Arpeggios end with their last note, within one mixing buffer.
	start := drain(StartSound(SampleRate))
	wantStart := SampleRate.N(2*startStagger + startNote)
	assert.GreaterOrEqual(t, len(start), wantStart-1)
	assert.LessOrEqual(t, len(start), wantStart+512)

	win := drain(VictorySound(SampleRate))
	wantWin := SampleRate.N(3*victoryStagger + victoryNote)
	assert.GreaterOrEqual(t, len(win), wantWin-1)
	assert.LessOrEqual(t, len(win), wantWin+512)

	assert.Greater(t, peak(drain(BlipSound(SampleRate))), 0.0)
}

func TestTonePitch(t *testing.T) {
	steady := drain(newTone(WaveSquare, 100, 100, 0, time.Second, SampleRate))
	assert.Len(t, steady, int(SampleRate))
	assert.InDelta(t, 200, signChanges(steady), 2, "100 Hz square flips sign twice per cycle")

	// Exponential 100->200 Hz sweep: 100/ln2 cycles.
	sweep := drain(newTone(WaveSquare, 100, 200, time.Second, time.Second, SampleRate))
	assert.InDelta(t, 288, signChanges(sweep), 3)
}

func TestWaveShapesStayInRange(t *testing.T) {
	for _, w := range []Wave{WaveSine, WaveSquare, WaveTriangle, WaveSawtooth} {
		s := drain(newTone(w, 440, 440, 0, 100*time.Millisecond, SampleRate))
		assert.LessOrEqual(t, peak(s), 1.0, "wave %d", w)
		assert.Greater(t, peak(s), 0.9, "wave %d", w)
	}
}

func TestEnvelopeFades(t *testing.T) {
	length := 100 * time.Millisecond
	s := drain(newEnvelope(newTone(WaveSquare, 100, 100, 0, length, SampleRate), length, 10*time.Millisecond, 10*time.Millisecond, SampleRate))
	require.Len(t, s, SampleRate.N(length))
	assert.Zero(t, s[0][0], "attack starts silent")
	assert.InDelta(t, 1.0, math.Abs(s[len(s)/2][0]), 1e-9, "sustain is full scale")
	assert.Less(t, math.Abs(s[len(s)-1][0]), 0.01, "release ends near silence")
}

func TestWithVolume(t *testing.T) {
	quiet := drain(withVolume(newTone(WaveSquare, 100, 100, 0, 10*time.Millisecond, SampleRate), 0))
	assert.Zero(t, peak(quiet))

	half := drain(withVolume(newTone(WaveSquare, 100, 100, 0, 10*time.Millisecond, SampleRate), 0.5))
	assert.InDelta(t, 0.5, peak(half), 1e-9)
}

func TestBell(t *testing.T) {
	var out bytes.Buffer
	b := NewBell(&out)
	require.NoError(t, b.ResumeAudio(context.Background()))

	b.PlayGameStart()
	assert.Empty(t, out.String())
	b.PlayBlockCatch(1)
	b.PlayVictory()
	assert.Equal(t, "\a\a", out.String())

	assert.False(t, b.ToggleMute())
	b.PlayGameOver()
	assert.Equal(t, "\a\a", out.String())
	assert.True(t, b.ToggleMute())
}
