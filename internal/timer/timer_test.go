package timer

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsUnevenTime(t *testing.T) {
	_, err := New(10*time.Second, 3*time.Second)
	assert.ErrorIs(t, err, ErrUneven)

	_, err = New(10*time.Second, 0)
	assert.Error(t, err)

	tm, err := New(10*time.Second, 2*time.Second)
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, tm.TimeLeft())
	assert.False(t, tm.Running())
}

func TestStepEmitsTickThenDone(t *testing.T) {
	tm, err := New(3*time.Second, time.Second)
	require.NoError(t, err)

	var events []Event
	tm.AddListener(func(e Event) { events = append(events, e) })

	assert.Equal(t, Tick, tm.Step())
	assert.Equal(t, Tick, tm.Step())
	assert.Equal(t, Done, tm.Step())
	assert.Equal(t, []Event{Tick, Tick, Done}, events)
	assert.Equal(t, time.Duration(0), tm.TimeLeft())

	assert.Equal(t, Done, tm.Step(), "an exhausted timer stays at zero")
	assert.Equal(t, time.Duration(0), tm.TimeLeft())
}

func TestSetAndAddTime(t *testing.T) {
	tm, err := New(4*time.Second, 2*time.Second)
	require.NoError(t, err)

	assert.ErrorIs(t, tm.SetTime(3*time.Second), ErrUneven)
	require.NoError(t, tm.SetTime(6*time.Second))
	assert.Equal(t, 6*time.Second, tm.TimeLeft())

	assert.ErrorIs(t, tm.AddTime(time.Second), ErrUneven)
	require.NoError(t, tm.AddTime(2*time.Second))
	assert.Equal(t, 8*time.Second, tm.TimeLeft())

	require.NoError(t, tm.AddTime(-4*time.Second))
	assert.Equal(t, 4*time.Second, tm.TimeLeft())
}

func TestSetInterval(t *testing.T) {
	tm, err := New(6*time.Second, 2*time.Second)
	require.NoError(t, err)

	assert.ErrorIs(t, tm.SetInterval(4*time.Second), ErrUneven)
	assert.Error(t, tm.SetInterval(0))
	require.NoError(t, tm.SetInterval(3*time.Second))
	assert.Equal(t, 3*time.Second, tm.Interval())

	tm.Step()
	assert.Equal(t, 3*time.Second, tm.TimeLeft())
}

func TestStartRunsToDone(t *testing.T) {
	tm, err := New(30*time.Millisecond, 10*time.Millisecond)
	require.NoError(t, err)

	var mu sync.Mutex
	var events []Event
	done := make(chan struct{})
	tm.AddListener(func(e Event) {
		mu.Lock()
		events = append(events, e)
		mu.Unlock()
		if e == Done {
			close(done)
		}
	})

	tm.Start(context.Background())
	assert.True(t, tm.Running())

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timer never finished")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []Event{Tick, Tick, Done}, events)
	assert.False(t, tm.Running())
}

func TestStopHaltsCountdown(t *testing.T) {
	tm, err := New(time.Hour, time.Millisecond)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	tm.Start(ctx)
	tm.Start(ctx)
	tm.Stop()
	assert.False(t, tm.Running())

	left := tm.TimeLeft()
	time.Sleep(20 * time.Millisecond)
	assert.InDelta(t, float64(left), float64(tm.TimeLeft()), float64(time.Millisecond))
}

func TestEventString(t *testing.T) {
	assert.Equal(t, "tick", Tick.String())
	assert.Equal(t, "done", Done.String())
	assert.Equal(t, "Event(7)", Event(7).String())
}
