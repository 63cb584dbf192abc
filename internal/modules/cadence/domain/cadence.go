// Package domain holds the Pomodoro cadence rules: how long the next focus
// or break interval lasts given the mode and the completion history. It
// performs no I/O.
package domain

import (
	"fmt"
	"strings"

	apperrors "focusgarden/internal/platform/errors"
)

type Mode string

const (
	ModePomodoro  Mode = "pomodoro"
	ModeDeepFocus Mode = "deepFocus"
	ModeCustom    Mode = "custom"
)

type Phase string

const (
	PhaseFocus Phase = "focus"
	PhaseBreak Phase = "break"
)

const (
	PomodoroFocusMinutes  = 25
	MondoroFocusMinutes   = 50
	DeepFocusMinutes      = 52
	DeepFocusBreakMinutes = 17
	ShortBreakMinutes     = 5
	LongBreakMinutes      = 15
	CustomLongBreakMins   = 10
	CustomLongFocusMins   = 50
	LongBreakEvery        = 4

	// MaxDurationMinutes caps any single session at one day.
	MaxDurationMinutes = 24 * 60
)

// ParseMode accepts the persisted mode names; empty means pomodoro.
func ParseMode(raw string) (Mode, error) {
	switch Mode(strings.TrimSpace(raw)) {
	case "", ModePomodoro:
		return ModePomodoro, nil
	case ModeDeepFocus:
		return ModeDeepFocus, nil
	case ModeCustom:
		return ModeCustom, nil
	default:
		return "", fmt.Errorf("%w: unknown pomodoro mode %q", apperrors.ErrInvalidInput, raw)
	}
}

// State is the cadence bookkeeping carried on the session record across
// sessions.
type State struct {
	PomodoroCount int
	IsLongBreak   bool
}

type Completion struct {
	Mode            Mode
	WasBreak        bool
	DurationMinutes int
	// FocusMinutes is the custom-mode focus length to resume with after a
	// break. Ignored for the other modes.
	FocusMinutes int
}

type Decision struct {
	NextPhase           Phase
	NextDurationMinutes int
	IsLongBreak         bool
	PomodoroCount       int
}

// AfterCompletion advances the cadence state for a finished session and
// proposes the following one.
func AfterCompletion(state State, c Completion) Decision {
	next := state
	if !c.WasBreak && c.Mode == ModePomodoro && c.DurationMinutes == PomodoroFocusMinutes {
		next.PomodoroCount++
		next.IsLongBreak = next.PomodoroCount%LongBreakEvery == 0
	}

	if !c.WasBreak {
		return Decision{
			NextPhase:           PhaseBreak,
			NextDurationMinutes: BreakMinutes(c.Mode, next.IsLongBreak, c.DurationMinutes),
			IsLongBreak:         next.IsLongBreak,
			PomodoroCount:       next.PomodoroCount,
		}
	}

	// a long break closes a cycle, so the next focus is its first session
	firstInCycle := next.PomodoroCount == 0 || next.IsLongBreak
	minutes, err := NextFocusMinutes(c.Mode, firstInCycle, c.FocusMinutes)
	if err != nil {
		minutes = PomodoroFocusMinutes
	}
	return Decision{
		NextPhase:           PhaseFocus,
		NextDurationMinutes: minutes,
		IsLongBreak:         next.IsLongBreak,
		PomodoroCount:       next.PomodoroCount,
	}
}

// BreakMinutes is the break length that follows a focus session of
// focusMinutes.
func BreakMinutes(mode Mode, isLongBreak bool, focusMinutes int) int {
	switch mode {
	case ModeDeepFocus:
		return DeepFocusBreakMinutes
	case ModeCustom:
		if focusMinutes >= CustomLongFocusMins {
			return CustomLongBreakMins
		}
		return ShortBreakMinutes
	default:
		if isLongBreak {
			return LongBreakMinutes
		}
		return ShortBreakMinutes
	}
}

// NextFocusMinutes is the focus length after a break. Pomodoro mode runs
// 25 minutes for the first session of a cycle and 50 afterwards.
func NextFocusMinutes(mode Mode, isFirstSession bool, customMinutes int) (int, error) {
	switch mode {
	case ModeDeepFocus:
		return DeepFocusMinutes, nil
	case ModeCustom:
		if customMinutes <= 0 || customMinutes > MaxDurationMinutes {
			return 0, fmt.Errorf("%w: custom focus duration must be between 1 and %d, got %d", apperrors.ErrInvalidInput, MaxDurationMinutes, customMinutes)
		}
		return customMinutes, nil
	default:
		if isFirstSession {
			return PomodoroFocusMinutes, nil
		}
		return MondoroFocusMinutes, nil
	}
}
