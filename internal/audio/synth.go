// Package audio synthesizes the game's sound effects with beep and plays
// them on the local speaker, or rings the terminal bell for remote players.
package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// SampleRate is the output rate of every generated sound.
const SampleRate = beep.SampleRate(44100)

// Wave is an oscillator shape.
type Wave int

const (
	WaveSine Wave = iota
	WaveSquare
	WaveTriangle
	WaveSawtooth
)

// tone is an oscillator whose frequency moves exponentially from `from` to
// `to` over the first sweep samples, then holds.
type tone struct {
	wave     Wave
	from, to float64
	sweep    int
	length   int
	pos      int
	phase    float64
	rate     beep.SampleRate
}

func newTone(wave Wave, from, to float64, sweep, length time.Duration, rate beep.SampleRate) *tone {
	return &tone{
		wave:   wave,
		from:   from,
		to:     to,
		sweep:  rate.N(sweep),
		length: rate.N(length),
		rate:   rate,
	}
}

func (t *tone) freq() float64 {
	if t.sweep <= 0 || t.pos >= t.sweep {
		return t.to
	}
	return t.from * math.Pow(t.to/t.from, float64(t.pos)/float64(t.sweep))
}

func (t *tone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if t.pos >= t.length {
			return i, i > 0
		}

		var val float64
		switch t.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * t.phase)
		case WaveSquare:
			if t.phase < 0.5 {
				val = 1
			} else {
				val = -1
			}
		case WaveTriangle:
			val = 4*math.Abs(t.phase-0.5) - 1
		case WaveSawtooth:
			val = 2 * (t.phase - 0.5)
		}
		samples[i][0] = val
		samples[i][1] = val

		t.phase += t.freq() / float64(t.rate)
		t.phase -= math.Floor(t.phase)
		t.pos++
	}
	return len(samples), true
}

func (t *tone) Err() error { return nil }

// envelope fades a stream in over attack and out over its last release.
type envelope struct {
	streamer beep.Streamer
	pos      int
	attack   int
	release  int
	total    int
}

func newEnvelope(s beep.Streamer, length, attack, release time.Duration, rate beep.SampleRate) *envelope {
	return &envelope{
		streamer: s,
		attack:   rate.N(attack),
		release:  rate.N(release),
		total:    rate.N(length),
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		gain := 1.0
		if e.attack > 0 && e.pos < e.attack {
			gain = float64(e.pos) / float64(e.attack)
		}
		if left := e.total - e.pos; e.release > 0 && left < e.release {
			gain = min(gain, max(float64(left)/float64(e.release), 0))
		}
		samples[i][0] *= gain
		samples[i][1] *= gain
		e.pos++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// withVolume scales s linearly. effects.Volume works in log space, so zero
// maps to silence.
func withVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// delayed starts s after d of silence.
func delayed(s beep.Streamer, d time.Duration, rate beep.SampleRate) beep.Streamer {
	if d <= 0 {
		return s
	}
	return beep.Seq(beep.Silence(rate.N(d)), s)
}

// note is a shaped tone at a fixed pitch.
func note(wave Wave, freq float64, length time.Duration, rate beep.SampleRate) beep.Streamer {
	return newEnvelope(newTone(wave, freq, freq, 0, length, rate), length, 5*time.Millisecond, length*2/3, rate)
}
