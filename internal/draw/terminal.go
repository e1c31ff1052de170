package draw

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// Terminal control sequences used around a session.
const (
	seqClear       = "\033[H\033[2J"
	seqHideCursor  = "\033[?25l"
	seqShowCursor  = "\033[?25h"
	seqAltScreen   = "\033[?1049h"
	seqMainScreen  = "\033[?1049l"
	seqResetStyles = "\033[0m"
)

// FrameWriter collects one frame of terminal output (canvas cells, HUD
// text) and sends it to the underlying writer in chunks on Flush, so a
// frame goes out over SSH in a few packets.
type FrameWriter struct {
	buf    strings.Builder
	bufw   *bufio.Writer
	numBuf [20]byte
	offCol int
	offRow int
}

// NewFrameWriter writes to w. offsetCol and offsetRow are added to all
// cursor positions so callers can use canvas coordinates.
func NewFrameWriter(w io.Writer, offsetCol, offsetRow int) *FrameWriter {
	return &FrameWriter{
		bufw:   bufio.NewWriterSize(w, 8192),
		offCol: offsetCol,
		offRow: offsetRow,
	}
}

// SetOffset updates the cursor offset after a resize.
func (fw *FrameWriter) SetOffset(offsetCol, offsetRow int) {
	fw.offCol = offsetCol
	fw.offRow = offsetRow
}

// MoveCursor positions the cursor at 1-based canvas coordinates.
func (fw *FrameWriter) MoveCursor(col, row int) {
	fw.buf.WriteString("\033[")
	fw.buf.Write(strconv.AppendInt(fw.numBuf[:0], int64(row+fw.offRow), 10))
	fw.buf.WriteByte(';')
	fw.buf.Write(strconv.AppendInt(fw.numBuf[:0], int64(col+fw.offCol), 10))
	fw.buf.WriteByte('H')
}

func (fw *FrameWriter) Write(p []byte) (n int, err error) {
	return fw.buf.Write(p)
}

func (fw *FrameWriter) WriteString(s string) {
	fw.buf.WriteString(s)
}

// WriteAt writes s at 1-based canvas coordinates.
func (fw *FrameWriter) WriteAt(col, row int, s string) {
	fw.MoveCursor(col, row)
	fw.buf.WriteString(s)
}

// Pending returns the number of bytes waiting for Flush.
func (fw *FrameWriter) Pending() int { return fw.buf.Len() }

var _ io.Writer = (*FrameWriter)(nil)

// Flush sends the collected frame and resets the buffer.
func (fw *FrameWriter) Flush() error {
	data := fw.buf.String()
	fw.buf.Reset()
	for len(data) > 0 {
		chunk := data
		if len(chunk) > maxChunkSize {
			chunk = data[:maxChunkSize]
		}
		if _, err := fw.bufw.WriteString(chunk); err != nil {
			return err
		}
		data = data[len(chunk):]
	}
	return fw.bufw.Flush()
}

// TermSizeFunc returns the terminal dimensions in cells.
type TermSizeFunc func() (width, height int, err error)

// StdoutSize reads the size of the terminal attached to os.Stdout.
func StdoutSize() (int, int, error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// EnterScreen switches to the alternate screen, hides the cursor and clears.
func EnterScreen(w io.Writer) {
	io.WriteString(w, seqAltScreen+seqHideCursor+seqClear)
}

// LeaveScreen undoes EnterScreen.
func LeaveScreen(w io.Writer) {
	io.WriteString(w, seqResetStyles+seqClear+seqShowCursor+seqMainScreen)
}

// ClearScreen clears the terminal and moves the cursor home.
func ClearScreen(w io.Writer) {
	io.WriteString(w, seqResetStyles+seqClear)
}
