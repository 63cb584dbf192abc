package dto

import (
	"time"

	gardendto "focusgarden/internal/modules/garden/dto"
)

type StartInput struct {
	DurationMinutes int
	GoalRef         string
	IsBreak         bool
	Mode            string
	Force           bool
}

type BreakStateInput struct {
	IsBreakTime   bool
	IsLongBreak   *bool
	PomodoroCount *int
	Mode          string
}

type StartBreakInput struct {
	IsLongBreak bool
	Mode        string
	Force       bool
}

type NextFocusInput struct {
	Mode           string
	IsFirstSession bool
	CustomDuration int
	GoalRef        string
	Force          bool
}

type SessionOutput struct {
	IsActive         bool
	StartTime        *time.Time
	DurationMinutes  int
	ElapsedSeconds   int
	RemainingSeconds int
	GoalRef          string
	IsBreak          bool
	PomodoroCount    int
	IsLongBreak      bool
	Mode             string
	Version          int64
}

type CompletionOutput struct {
	FinalElapsedSeconds int
	GoalRef             string
	IsBreak             bool
	Mode                string
	DurationMinutes     int
	CompletedAt         time.Time
	NextPhase           string
	NextDurationMinutes int
	GoalSkipped         bool
	Plant               *gardendto.PlantOutput
	Evolutions          []gardendto.PlantOutput
	JournalPath         string
	AutoStarted         bool
}

// GardenChanged reports whether the completion touched garden state.
func (c CompletionOutput) GardenChanged() bool {
	return c.Plant != nil
}

type TickOutput struct {
	Session   SessionOutput
	Completed *CompletionOutput
}

type StatsOutput struct {
	TotalSessions     int
	TotalFocusMinutes int
	TotalFocusTime    string
}

type DailyLogInput struct {
	Day    string
	Text   string
	Append bool
}

type DailyLogOutput struct {
	Day       string
	Text      string
	UpdatedAt *time.Time
}
