package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	apperrors "focusgarden/internal/platform/errors"
)

const (
	dayLayout        = "2006-01-02"
	MaxDailyLogRunes = 10000
)

// DailyLog is the free-text reflection kept for one calendar day.
type DailyLog struct {
	Date      string    `json:"date"`
	Text      string    `json:"journal"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DayOf is the calendar day of t in loc, formatted YYYY-MM-DD.
func DayOf(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(dayLayout)
}

// ParseDay validates a YYYY-MM-DD day.
func ParseDay(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	day, err := time.Parse(dayLayout, raw)
	if err != nil {
		return "", fmt.Errorf("%w: day must look like 2006-01-02, got %q", apperrors.ErrInvalidInput, raw)
	}
	return day.Format(dayLayout), nil
}

// Write replaces the text, or adds it as a new line when appending.
// Trailing whitespace is dropped.
func (l DailyLog) Write(text string, appendLine bool, now time.Time) (DailyLog, error) {
	text = strings.TrimRight(text, " \t\r\n")
	if appendLine && l.Text != "" && text != "" {
		text = l.Text + "\n" + text
	}
	if n := utf8.RuneCountInString(text); n > MaxDailyLogRunes {
		return l, fmt.Errorf("%w: journal text is %d characters, limit is %d", apperrors.ErrInvalidInput, n, MaxDailyLogRunes)
	}
	l.Text = text
	l.UpdatedAt = now
	return l, nil
}
