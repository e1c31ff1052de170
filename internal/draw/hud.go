package draw

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/tomz197/blockcatch/internal/loop"
)

// LowTimeSeconds is when the clock switches to its warning style.
const LowTimeSeconds = 10

// ANSI styles for HUD text.
const (
	styleReset   = "\033[0m"
	styleBold    = "\033[1m"
	styleWarning = "\033[1;31m"
	styleDim     = "\033[2m"
)

// HUD holds what the heads-up display shows. It is safe for concurrent use.
type HUD struct {
	mu       sync.Mutex
	goal     int
	score    int
	timeLeft float64
	status   loop.Status
	message  string
	audioOn  bool
	notice   string
}

// NewHUD creates a HUD for rounds won at goal points.
func NewHUD(goal int) *HUD {
	return &HUD{goal: goal, status: loop.StatusReady, audioOn: true}
}

func (h *HUD) UpdateScore(score int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.score = score
}

func (h *HUD) UpdateTime(secondsLeft float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.timeLeft = secondsLeft
}

func (h *HUD) UpdateGameStatus(status loop.Status, message string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.status = status
	h.message = message
}

func (h *HUD) UpdateAudio(enabled bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.audioOn = enabled
}

// SetNotice shows an extra line under the status, or hides it when empty.
func (h *HUD) SetNotice(notice string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.notice = notice
}

// FormatTime renders seconds as MM:SS, rounding up so the clock only shows
// 00:00 once time is really out.
func FormatTime(seconds float64) string {
	s := int(math.Ceil(max(seconds, 0)))
	return fmt.Sprintf("%02d:%02d", s/60, s%60)
}

// StatusTitle is the headline for a status, empty while playing.
func StatusTitle(s loop.Status) string {
	switch s {
	case loop.StatusPaused:
		return "Game Paused"
	case loop.StatusWin:
		return "YOU WIN!"
	case loop.StatusLose:
		return "YOU LOSE!"
	case loop.StatusReady:
		return "BLOCK CATCH"
	}
	return ""
}

// Snapshot is a consistent copy of the HUD contents.
type Snapshot struct {
	Goal     int
	Score    int
	TimeLeft float64
	Status   loop.Status
	Message  string
	AudioOn  bool
	Notice   string
}

func (h *HUD) Snapshot() Snapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return Snapshot{
		Goal:     h.goal,
		Score:    h.score,
		TimeLeft: h.timeLeft,
		Status:   h.status,
		Message:  h.message,
		AudioOn:  h.audioOn,
		Notice:   h.notice,
	}
}

// LowTime reports whether the clock should be drawn as a warning.
func (s Snapshot) LowTime() bool {
	return s.TimeLeft <= LowTimeSeconds
}

// Bar is the status line shown above the field, padded to width.
func (s Snapshot) Bar(width int) string {
	sound := "on"
	if !s.AudioOn {
		sound = "off"
	}
	left := fmt.Sprintf(" SCORE %d/%d", s.Score, s.Goal)
	right := fmt.Sprintf("[m] sound %s  TIME %s ", sound, FormatTime(s.TimeLeft))
	gap := width - len(left) - len(right)
	if gap < 1 {
		return left + " " + right
	}
	return left + strings.Repeat(" ", gap) + right
}

// Overlay returns the centered lines drawn over the field.
func (s Snapshot) Overlay() []string {
	var lines []string
	if title := StatusTitle(s.Status); title != "" {
		lines = append(lines, title)
	}
	if s.Message != "" {
		lines = append(lines, s.Message)
	}
	if s.Status == loop.StatusReady {
		lines = append(lines, "", "Catch the falling blocks with ← →", fmt.Sprintf("Score %d to win. [q] quits.", s.Goal))
	}
	if s.Notice != "" {
		lines = append(lines, "", s.Notice)
	}
	return lines
}

// Render writes the bar on the row above the canvas and the overlay in its
// center. It returns the canvas rows covered by overlay text.
func (h *HUD) Render(fw *FrameWriter, width, height int) []int {
	s := h.Snapshot()

	fw.MoveCursor(1, 0)
	fw.WriteString(styleReset + styleBold)
	bar := s.Bar(width)
	if s.LowTime() && s.Status == loop.StatusPlaying {
		idx := strings.LastIndex(bar, "TIME")
		fw.WriteString(bar[:idx] + styleWarning + bar[idx:])
	} else {
		fw.WriteString(bar)
	}
	fw.WriteString(styleReset)

	lines := s.Overlay()
	if len(lines) == 0 {
		return nil
	}
	rows := make([]int, 0, len(lines))
	start := (height - len(lines)) / 2
	for i, line := range lines {
		if line == "" {
			continue
		}
		row := start + i
		col := (width-len([]rune(line)))/2 + 1
		style := styleBold
		if i > 0 {
			style = styleDim
		}
		fw.WriteAt(max(col, 1), row+1, styleReset+style+line+styleReset)
		rows = append(rows, row)
	}
	return rows
}

var (
	_ loop.HUD            = (*HUD)(nil)
	_ loop.AudioIndicator = (*HUD)(nil)
)
