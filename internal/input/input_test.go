package input

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestTracker() (*Tracker, *fakeClock) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	tr := NewTracker(nil)
	tr.now = clock.now
	return tr, clock
}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []Key
	}{
		{"arrows", "\x1b[D\x1b[C", []Key{KeyLeft, KeyRight}},
		{"application arrows", "\x1bOD\x1bOC", []Key{KeyLeft, KeyRight}},
		{"up and down ignored", "\x1b[A\x1b[B", nil},
		{"letters", "aAjdDl", []Key{KeyLeft, KeyLeft, KeyLeft, KeyRight, KeyRight, KeyRight}},
		{"space mute quit", " mq", []Key{KeySpace, KeyMute, KeyQuit}},
		{"ctrl-c", "\x03", []Key{KeyQuit}},
		{"unknown bytes", "xyz123", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse([]byte(tt.in)))
		})
	}
}

func TestRuneKey(t *testing.T) {
	k, ok := RuneKey('l')
	assert.True(t, ok)
	assert.Equal(t, KeyRight, k)

	k, ok = RuneKey(' ')
	assert.True(t, ok)
	assert.Equal(t, KeySpace, k)

	_, ok = RuneKey('x')
	assert.False(t, ok)
	_, ok = RuneKey('š') // U+0161 would truncate to 'a'
	assert.False(t, ok, "non-ASCII runes are never truncated to a byte")
}

func TestDecoderSplitSequence(t *testing.T) {
	var d Decoder
	keys := d.Decode(nil, []byte("a\x1b"))
	assert.Equal(t, []Key{KeyLeft}, keys)

	keys = d.Decode(nil, []byte("["))
	assert.Empty(t, keys)

	keys = d.Decode(nil, []byte("C "))
	assert.Equal(t, []Key{KeyRight, KeySpace}, keys)
}

func TestTrackerHold(t *testing.T) {
	tr, clock := newTestTracker()
	assert.False(t, tr.Pressed(KeyLeft))

	tr.Press(KeyLeft)
	assert.True(t, tr.Pressed(KeyLeft))
	assert.False(t, tr.Pressed(KeyRight))

	clock.advance(keyHoldDuration - time.Millisecond)
	assert.True(t, tr.Pressed(KeyLeft))

	clock.advance(time.Millisecond)
	assert.False(t, tr.Pressed(KeyLeft))

	tr.Press(KeyLeft)
	tr.Reset()
	assert.False(t, tr.Pressed(KeyLeft))
}

func TestTrackerSubscribeFiresOncePerHold(t *testing.T) {
	tr, clock := newTestTracker()
	count := 0
	unsubscribe := tr.Subscribe(KeySpace, func() { count++ })

	tr.Press(KeySpace)
	clock.advance(30 * time.Millisecond)
	tr.Press(KeySpace) // auto-repeat
	clock.advance(30 * time.Millisecond)
	tr.Press(KeySpace)
	assert.Equal(t, 1, count)

	clock.advance(time.Second)
	tr.Press(KeySpace)
	assert.Equal(t, 2, count)

	unsubscribe()
	clock.advance(time.Second)
	tr.Press(KeySpace)
	assert.Equal(t, 2, count)
}

func TestTrackerDispatch(t *testing.T) {
	var queued []func()
	tr := NewTracker(func(fn func()) { queued = append(queued, fn) })

	fired := false
	tr.Subscribe(KeyMute, func() { fired = true })
	tr.Press(KeyMute)

	require.Len(t, queued, 1)
	assert.False(t, fired)
	queued[0]()
	assert.True(t, fired)
}

func TestStreamFeedsTracker(t *testing.T) {
	tr := NewTracker(nil)
	got := make(chan struct{}, 1)
	tr.Subscribe(KeyQuit, func() { got <- struct{}{} })

	s := StartStream(strings.NewReader("\x1b[Dq"), tr)

	select {
	case <-s.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("stream did not finish")
	}
	assert.NoError(t, s.Err())
	assert.Len(t, got, 1)
	assert.True(t, tr.Pressed(KeyLeft))
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, io.ErrClosedPipe }

func TestStreamReportsError(t *testing.T) {
	s := StartStream(failingReader{}, NewTracker(nil))
	assert.ErrorIs(t, s.Err(), io.ErrClosedPipe)
}
