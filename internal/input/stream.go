package input

import (
	"io"
)

// Decoder turns raw terminal bytes into keys. Escape sequences split across
// reads are kept until the rest arrives.
type Decoder struct {
	pending []byte
}

// Decode appends the keys found in buf to dst.
func (d *Decoder) Decode(dst []Key, buf []byte) []Key {
	data := buf
	if len(d.pending) > 0 {
		data = append(d.pending, buf...)
		d.pending = nil
	}

	for i := 0; i < len(data); i++ {
		b := data[i]

		// CSI (ESC [) and SS3 (ESC O) arrow keys
		if b == '\x1b' {
			if i+1 >= len(data) || (i+2 >= len(data) && (data[i+1] == '[' || data[i+1] == 'O')) {
				d.pending = append(d.pending[:0], data[i:]...)
				return dst
			}
			if data[i+1] == '[' || data[i+1] == 'O' {
				switch data[i+2] {
				case 'C':
					dst = append(dst, KeyRight)
				case 'D':
					dst = append(dst, KeyLeft)
				}
				i += 2
			}
			continue
		}

		if k, ok := byteKey(b); ok {
			dst = append(dst, k)
		}
	}
	return dst
}

func byteKey(b byte) (Key, bool) {
	switch b {
	case 'a', 'A', 'h', 'H', 'j', 'J':
		return KeyLeft, true
	case 'd', 'D', 'l', 'L':
		return KeyRight, true
	case ' ':
		return KeySpace, true
	case 'm', 'M':
		return KeyMute, true
	case 'q', 'Q', '\x03':
		return KeyQuit, true
	}
	return "", false
}

// RuneKey maps a typed character to a key, for frontends that decode
// terminal input themselves.
func RuneKey(r rune) (Key, bool) {
	if r > 0x7f {
		return "", false
	}
	return byteKey(byte(r))
}

// Parse decodes a complete buffer.
func Parse(buf []byte) []Key {
	var d Decoder
	return d.Decode(nil, buf)
}

// Stream reads a terminal and feeds every decoded key to a Tracker.
type Stream struct {
	done chan struct{}
	err  error
}

// StartStream spawns a goroutine that reads from r until it fails.
func StartStream(r io.Reader, t *Tracker) *Stream {
	s := &Stream{done: make(chan struct{})}
	go func() {
		defer close(s.done)
		var dec Decoder
		buf := make([]byte, 64)
		keys := make([]Key, 0, 16)
		for {
			n, err := r.Read(buf)
			keys = dec.Decode(keys[:0], buf[:n])
			for _, k := range keys {
				t.Press(k)
			}
			if err != nil {
				s.err = err
				return
			}
		}
	}()
	return s
}

// Done is closed when the reader fails or hits EOF.
func (s *Stream) Done() <-chan struct{} { return s.done }

// Err returns the read error after Done is closed.
func (s *Stream) Err() error {
	<-s.done
	if s.err == io.EOF {
		return nil
	}
	return s.err
}
