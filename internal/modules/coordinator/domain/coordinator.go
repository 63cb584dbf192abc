// Package domain holds the message contract between the background
// coordinator and its presenters, plus the coordinator's runtime status.
package domain

import "time"

// ToggleFocusSession starts a session when Enable is set and stops the
// running one otherwise.
type ToggleFocusSession struct {
	Enable       bool
	Duration     int
	SelectedGoal string
	IsBreak      bool
	PomodoroMode string
	Force        bool
}

// UpdateBreakState patches cadence bookkeeping on the session record.
type UpdateBreakState struct {
	IsBreakTime   bool
	IsLongBreak   *bool
	PomodoroCount *int
	PomodoroMode  string
}

type StartBreak struct {
	IsLongBreak  bool
	PomodoroMode string
	Force        bool
}

type StartNextFocus struct {
	PomodoroMode   string
	IsFirstSession bool
	CustomDuration int
	SelectedGoal   string
	Force          bool
}

// Status describes a running coordinator. GardenRevision increases each
// time a completion changes the garden; presenters re-read the garden
// when it moves.
type Status struct {
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

// Launch records which process serves the coordinator socket and since
// when. It outlives the process if the coordinator is killed.
type Launch struct {
	PID       int
	StartedAt time.Time
	Args      []string
}

type RuntimeStatus struct {
	Running    bool
	PID        int
	StartedAt  time.Time
	SocketPath string
	Status     Status
}
