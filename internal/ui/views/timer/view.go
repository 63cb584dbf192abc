package timer

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	sessiondto "focusgarden/internal/modules/session/dto"
	"focusgarden/internal/ui/theme"
)

// Model renders the current session record. It never counts down on its
// own; remaining time is recomputed from the record's start time on every
// SetSession call.
type Model struct {
	session sessiondto.SessionOutput
	now     time.Time
	offline bool
	bar     progress.Model
	width   int
	height  int
}

func New() Model {
	bar := progress.New(progress.WithGradient(string(theme.Green), string(theme.Sapphire)))
	bar.ShowPercentage = false
	return Model{bar: bar}
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.bar.Width = max(10, min(width-8, 60))
}

// SetSession stores the latest snapshot. offline marks a snapshot read
// from the store because the coordinator did not answer.
func (m *Model) SetSession(s sessiondto.SessionOutput, now time.Time, offline bool) {
	m.session = s
	m.now = now
	m.offline = offline
}

func (m Model) Session() sessiondto.SessionOutput {
	return m.session
}

// Remaining derives the seconds left from the start time. An inactive
// record has nothing left.
func Remaining(s sessiondto.SessionOutput, now time.Time) int {
	if !s.IsActive || s.StartTime == nil {
		return 0
	}
	total := s.DurationMinutes * 60
	elapsed := int(now.Sub(*s.StartTime) / time.Second)
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed > total {
		return 0
	}
	return total - elapsed
}

// Clock formats seconds as MM:SS, or H:MM:SS past the hour.
func Clock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h, m, s := seconds/3600, (seconds%3600)/60, seconds%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

func (m Model) View() string {
	s := m.session
	var sb strings.Builder

	phase := "Focus"
	if s.IsBreak {
		phase = "Break"
		if s.IsLongBreak {
			phase = "Long break"
		}
	}
	if !s.IsActive {
		phase = "Idle"
	}
	sb.WriteString(theme.Title.Render(phase) + "  " + theme.Muted.Render(s.Mode) + "\n\n")

	remaining := Remaining(s, m.now)
	sb.WriteString(theme.Hot.Render(Clock(remaining)) + "\n\n")

	ratio := 0.0
	if total := s.DurationMinutes * 60; s.IsActive && total > 0 {
		ratio = float64(total-remaining) / float64(total)
	}
	sb.WriteString(m.bar.ViewAs(ratio) + "\n\n")

	sb.WriteString(theme.Muted.Render("pomodoros: ") + fmt.Sprintf("%d", s.PomodoroCount) + "\n")
	if s.GoalRef != "" {
		sb.WriteString(theme.Muted.Render("goal:      ") + s.GoalRef + "\n")
	}
	if m.offline {
		sb.WriteString("\n" + theme.Muted.Render("coordinator offline: run `focusgarden daemon start`") + "\n")
	}
	sb.WriteString("\n" + theme.Muted.Render("f: focus  b: break  n: next  x: stop"))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
		theme.Pane.Render(sb.String()))
}
