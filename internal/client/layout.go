package client

import "sync"

// MaxRows caps the field height in cells. Larger terminals get the field
// centered in empty space.
const MaxRows = 40

// hudRows is the space kept above the field for the status bar.
const hudRows = 1

// Layout places the square field on a terminal. A cell holds two
// sub-pixels stacked vertically, so a square field is twice as wide as it
// is tall in cells. Offsets are 0-based; the status bar sits on the row
// just above OffsetRow.
type Layout struct {
	Cols      int
	Rows      int
	OffsetCol int
	OffsetRow int
}

// ComputeLayout fits the field into a termCols x termRows terminal.
func ComputeLayout(termCols, termRows int) Layout {
	rows := max(min(termRows-hudRows, termCols/2, MaxRows), 0)
	cols := rows * 2
	return Layout{
		Cols:      cols,
		Rows:      rows,
		OffsetCol: max((termCols-cols)/2, 0),
		OffsetRow: hudRows + max((termRows-hudRows-rows)/2, 0),
	}
}

// WindowSize holds the size a remote terminal last reported. Its Size
// method is a draw.TermSizeFunc.
type WindowSize struct {
	mu   sync.RWMutex
	cols int
	rows int
}

func NewWindowSize(cols, rows int) *WindowSize {
	return &WindowSize{cols: cols, rows: rows}
}

// Set records a window change. Safe from any goroutine.
func (w *WindowSize) Set(cols, rows int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.cols, w.rows = cols, rows
}

func (w *WindowSize) Size() (int, int, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.cols, w.rows, nil
}
