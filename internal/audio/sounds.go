package audio

import (
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
)

// Sound timings.
const (
	catchLength   = 150 * time.Millisecond
	catchSweep    = 100 * time.Millisecond
	catchBend     = 1.5
	catchGain     = 0.8
	catchBaseFreq = 440.0
	catchStep     = 25.0 // points per octave of pitch

	startStagger = 100 * time.Millisecond
	startNote    = 300 * time.Millisecond
	startGain    = 0.5

	gameOverLength = 800 * time.Millisecond
	gameOverGain   = 0.5

	victoryStagger = 150 * time.Millisecond
	victoryNote    = 200 * time.Millisecond
	victoryGain    = 0.5

	blipLength = 60 * time.Millisecond
	blipGain   = 0.4
)

var (
	startChord   = []float64{261.63, 329.63, 392.00}          // C4 E4 G4
	victoryNotes = []float64{523.25, 659.25, 783.99, 1046.50} // C5 E5 G5 C6
)

// CatchFrequency is the starting pitch of the catch sound; more valuable
// blocks sound higher.
func CatchFrequency(points int) float64 {
	return catchBaseFreq * (1 + float64(points)/catchStep)
}

// CatchSound is a short square chirp bending upward.
func CatchSound(points int, rate beep.SampleRate) beep.Streamer {
	f := CatchFrequency(points)
	t := newTone(WaveSquare, f, f*catchBend, catchSweep, catchLength, rate)
	return withVolume(newEnvelope(t, catchLength, 2*time.Millisecond, catchLength, rate), catchGain)
}

// StartSound is a rising C major arpeggio.
func StartSound(rate beep.SampleRate) beep.Streamer {
	return withVolume(arpeggio(startChord, WaveTriangle, startStagger, startNote, rate), startGain)
}

// GameOverSound is a sawtooth sliding down an octave.
func GameOverSound(rate beep.SampleRate) beep.Streamer {
	t := newTone(WaveSawtooth, 440, 220, gameOverLength, gameOverLength, rate)
	return withVolume(newEnvelope(t, gameOverLength, 10*time.Millisecond, gameOverLength/2, rate), gameOverGain)
}

// VictorySound climbs C5 to C6.
func VictorySound(rate beep.SampleRate) beep.Streamer {
	return withVolume(arpeggio(victoryNotes, WaveTriangle, victoryStagger, victoryNote, rate), victoryGain)
}

// BlipSound confirms that sound was switched on.
func BlipSound(rate beep.SampleRate) beep.Streamer {
	n := rate.N(blipLength)
	sine, err := generators.SineTone(rate, 880)
	if err != nil {
		return beep.Silence(n)
	}
	return withVolume(beep.Take(n, sine), blipGain)
}

func arpeggio(freqs []float64, wave Wave, stagger, length time.Duration, rate beep.SampleRate) beep.Streamer {
	notes := make([]beep.Streamer, len(freqs))
	for i, f := range freqs {
		notes[i] = delayed(note(wave, f, length, rate), time.Duration(i)*stagger, rate)
	}
	return beep.Mix(notes...)
}
