// Package domain models the authoritative focus/break session record and
// its transitions. Every transition is a pure function of the prior record
// and the current wall-clock time; elapsed time is never derived from tick
// counts.
package domain

import (
	"fmt"
	"time"

	cadence "focusgarden/internal/modules/cadence/domain"
	goal "focusgarden/internal/modules/goal/domain"
	apperrors "focusgarden/internal/platform/errors"
)

// Record is the persisted session singleton. Version increases on every
// change so readers can tell whether their copy is stale.
type Record struct {
	IsActive        bool         `json:"isActive"`
	StartTime       *time.Time   `json:"startTime"`
	DurationMinutes int          `json:"durationMinutes"`
	ElapsedSeconds  int          `json:"elapsedSeconds"`
	SelectedGoal    *goal.Ref    `json:"selectedGoal"`
	IsBreak         bool         `json:"isBreak"`
	PomodoroCount   int          `json:"pomodoroCount"`
	IsLongBreak     bool         `json:"isLongBreak"`
	Mode            cadence.Mode `json:"mode"`
	// LastFocusMinutes is the length of the most recent focus session,
	// used to size the break that follows it in custom mode.
	LastFocusMinutes int   `json:"lastFocusMinutes,omitempty"`
	Version          int64 `json:"version"`
}

// Idle is the record used when nothing has been persisted yet.
func Idle() Record {
	return Record{Mode: cadence.ModePomodoro}
}

// Normalize fills documented defaults for fields a stored record may lack.
func (r Record) Normalize() Record {
	if r.Mode == "" {
		r.Mode = cadence.ModePomodoro
	}
	if !r.IsActive {
		r.StartTime = nil
		r.SelectedGoal = nil
	}
	if r.PomodoroCount < 0 {
		r.PomodoroCount = 0
	}
	return r
}

func (r Record) TargetSeconds() int {
	return r.DurationMinutes * 60
}

type StartParams struct {
	DurationMinutes int
	Goal            *goal.Ref
	IsBreak         bool
	Mode            cadence.Mode
	// Force replaces a running session instead of failing.
	Force bool
}

type CompletionEvent struct {
	FinalElapsedSeconds int
	GoalRef             *goal.Ref
	IsBreak             bool
	Mode                cadence.Mode
	DurationMinutes     int
	LastFocusMinutes    int
	StartedAt           time.Time
	CompletedAt         time.Time
}

// Start begins a session. Cadence bookkeeping carries over from rec.
func Start(rec Record, p StartParams, now time.Time) (Record, error) {
	if p.DurationMinutes <= 0 || p.DurationMinutes > cadence.MaxDurationMinutes {
		return rec, fmt.Errorf("%w: duration must be between 1 and %d minutes, got %d", apperrors.ErrInvalidInput, cadence.MaxDurationMinutes, p.DurationMinutes)
	}
	if rec.IsActive && !p.Force {
		return rec, apperrors.ErrActiveSessionExists
	}
	mode := p.Mode
	if mode == "" {
		mode = cadence.ModePomodoro
	}
	started := now
	next := Record{
		IsActive:         true,
		StartTime:        &started,
		DurationMinutes:  p.DurationMinutes,
		SelectedGoal:     p.Goal,
		IsBreak:          p.IsBreak,
		PomodoroCount:    rec.PomodoroCount,
		IsLongBreak:      rec.IsLongBreak,
		Mode:             mode,
		LastFocusMinutes: rec.LastFocusMinutes,
		Version:          rec.Version + 1,
	}
	if !p.IsBreak {
		next.LastFocusMinutes = p.DurationMinutes
	}
	return next, nil
}

// Stop deactivates rec. Stopping an inactive record returns it unchanged.
func Stop(rec Record, now time.Time) Record {
	if !rec.IsActive {
		return rec
	}
	rec.ElapsedSeconds = elapsed(rec, now)
	rec.IsActive = false
	rec.StartTime = nil
	rec.SelectedGoal = nil
	rec.Version++
	return rec
}

// Advance recomputes elapsed time. When the target is reached the record
// is returned already inactive together with the single completion event
// for that session.
func Advance(rec Record, now time.Time) (Record, *CompletionEvent) {
	if !rec.IsActive {
		return rec, nil
	}
	secs := elapsed(rec, now)
	if secs < rec.TargetSeconds() {
		if secs != rec.ElapsedSeconds {
			rec.ElapsedSeconds = secs
			rec.Version++
		}
		return rec, nil
	}
	event := &CompletionEvent{
		FinalElapsedSeconds: secs,
		GoalRef:             rec.SelectedGoal,
		IsBreak:             rec.IsBreak,
		Mode:                rec.Mode,
		DurationMinutes:     rec.DurationMinutes,
		LastFocusMinutes:    rec.LastFocusMinutes,
		StartedAt:           now.Add(-time.Duration(secs) * time.Second),
		CompletedAt:         now,
	}
	if rec.StartTime != nil {
		event.StartedAt = *rec.StartTime
	}
	return Stop(rec, now), event
}

// Remaining is the number of seconds left, derived from the start time.
func Remaining(rec Record, now time.Time) int {
	if !rec.IsActive {
		return 0
	}
	return rec.TargetSeconds() - elapsed(rec, now)
}

// elapsed clamps wall-clock progress to [recorded elapsed, target] so it
// never moves backwards when the clock does.
func elapsed(rec Record, now time.Time) int {
	if rec.StartTime == nil {
		return rec.ElapsedSeconds
	}
	secs := int(now.Sub(*rec.StartTime) / time.Second)
	if secs < rec.ElapsedSeconds {
		secs = rec.ElapsedSeconds
	}
	if secs < 0 {
		secs = 0
	}
	if target := rec.TargetSeconds(); secs > target {
		secs = target
	}
	return secs
}

// CadencePatch carries the updateBreakState fields. Nil pointers leave the
// current value in place.
type CadencePatch struct {
	IsBreakTime   bool
	IsLongBreak   *bool
	PomodoroCount *int
	Mode          *cadence.Mode
}

// ApplyCadence updates cadence bookkeeping without touching the active
// flag or start time.
func ApplyCadence(rec Record, p CadencePatch) (Record, error) {
	if p.PomodoroCount != nil && *p.PomodoroCount < 0 {
		return rec, fmt.Errorf("%w: pomodoro count must not be negative", apperrors.ErrInvalidInput)
	}
	rec.IsBreak = p.IsBreakTime
	if p.IsLongBreak != nil {
		rec.IsLongBreak = *p.IsLongBreak
	}
	if p.PomodoroCount != nil {
		rec.PomodoroCount = *p.PomodoroCount
	}
	if p.Mode != nil {
		rec.Mode = *p.Mode
	}
	rec.Version++
	return rec, nil
}

// ApplyDecision stores the cadence outcome of a completion on rec.
func ApplyDecision(rec Record, d cadence.Decision) Record {
	rec.PomodoroCount = d.PomodoroCount
	rec.IsLongBreak = d.IsLongBreak
	return rec
}

// CompletedSession is one entry of the append-only completion log.
type CompletedSession struct {
	ID              string    `json:"id"`
	DurationMinutes int       `json:"durationMinutes"`
	CompletedAt     time.Time `json:"completedAt"`
	GoalRef         string    `json:"goalRef,omitempty"`
}

// Stats aggregates the completion log.
type Stats struct {
	TotalSessions     int
	TotalFocusMinutes int
}

func Aggregate(log []CompletedSession) Stats {
	stats := Stats{TotalSessions: len(log)}
	for _, s := range log {
		stats.TotalFocusMinutes += s.DurationMinutes
	}
	return stats
}

// FormatMinutes renders a total as "Xh Ym", or "Ym" under an hour.
func FormatMinutes(total int) string {
	hours, minutes := total/60, total%60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

// JournalEntry describes one finished session for the markdown journal.
type JournalEntry struct {
	ID              string
	StartedAt       time.Time
	CompletedAt     time.Time
	DurationMinutes int
	IsBreak         bool
	Mode            cadence.Mode
	GoalRef         string
	GoalTitle       string
	PlantVariant    string
	PlantIcon       string
}
