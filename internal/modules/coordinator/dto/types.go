package dto

import "time"

type ToggleInput struct {
	Enable       bool
	Duration     int
	SelectedGoal string
	IsBreak      bool
	PomodoroMode string
	Force        bool
}

type BreakStateInput struct {
	IsBreakTime   bool
	IsLongBreak   *bool
	PomodoroCount *int
	PomodoroMode  string
}

type StartBreakInput struct {
	IsLongBreak  bool
	PomodoroMode string
	Force        bool
}

type NextFocusInput struct {
	PomodoroMode   string
	IsFirstSession bool
	CustomDuration int
	SelectedGoal   string
	Force          bool
}

type StatusOutput struct {
	Online         bool
	PID            int
	StartedAt      time.Time
	TickInterval   time.Duration
	Ticks          uint64
	LastTickAt     time.Time
	LastTickError  string
	Completions    uint64
	GardenRevision uint64
}

type DaemonStatusOutput struct {
	Running    bool
	PID        int
	StartedAt  time.Time
	SocketPath string
	Status     StatusOutput
}
