package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	apperrors "focusgarden/internal/platform/errors"
)

type Tier string

const (
	TierLongTerm  Tier = "longTerm"
	TierMidTerm   Tier = "midTerm"
	TierShortTerm Tier = "shortTerm"
)

// Tiers in display order.
var Tiers = []Tier{TierLongTerm, TierMidTerm, TierShortTerm}

// FullProgressSeconds is the focus time that counts as 100% progress (8h).
const FullProgressSeconds = 8 * 60 * 60

func ParseTier(raw string) (Tier, error) {
	for _, tier := range Tiers {
		if string(tier) == raw {
			return tier, nil
		}
	}
	return "", fmt.Errorf("%w: unknown goal tier %q", apperrors.ErrInvalidInput, raw)
}

// Ref addresses one goal as tier plus position in that tier's list. Its
// text form is "<tier>-<index>", e.g. "shortTerm-0".
type Ref struct {
	Tier  Tier
	Index int
}

func ParseRef(raw string) (Ref, error) {
	tierPart, indexPart, ok := strings.Cut(strings.TrimSpace(raw), "-")
	if !ok {
		return Ref{}, fmt.Errorf("%w: malformed goal reference %q", apperrors.ErrInvalidInput, raw)
	}
	tier, err := ParseTier(tierPart)
	if err != nil {
		return Ref{}, err
	}
	index, err := strconv.Atoi(indexPart)
	if err != nil || index < 0 {
		return Ref{}, fmt.Errorf("%w: malformed goal index in %q", apperrors.ErrInvalidInput, raw)
	}
	return Ref{Tier: tier, Index: index}, nil
}

func (r Ref) String() string {
	return fmt.Sprintf("%s-%d", r.Tier, r.Index)
}

func (r Ref) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Ref) UnmarshalText(text []byte) error {
	parsed, err := ParseRef(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

type Goal struct {
	Title     string    `json:"title"`
	Deadline  string    `json:"deadline,omitempty"`
	Progress  int       `json:"progress"`
	TimeSpent int       `json:"timeSpent"`
	CreatedAt time.Time `json:"created"`
}

// Goals is the persisted "goals" record: one ordered list per tier.
type Goals map[Tier][]Goal

func (g Goals) Lookup(ref Ref) (Goal, bool) {
	list := g[ref.Tier]
	if ref.Index < 0 || ref.Index >= len(list) {
		return Goal{}, false
	}
	return list[ref.Index], true
}

// Progress maps accumulated seconds to a 0..100 percentage.
func Progress(timeSpentSeconds int) int {
	pct := int(math.Round(float64(timeSpentSeconds) / FullProgressSeconds * 100))
	if pct > 100 {
		return 100
	}
	if pct < 0 {
		return 0
	}
	return pct
}

// Accrue adds seconds to the referenced goal and recomputes its progress.
func (g Goals) Accrue(ref Ref, seconds int) (Goal, error) {
	goal, ok := g.Lookup(ref)
	if !ok {
		return Goal{}, fmt.Errorf("%w: %s", apperrors.ErrGoalNotFound, ref)
	}
	if seconds < 0 {
		return Goal{}, fmt.Errorf("%w: negative accrual", apperrors.ErrInvalidInput)
	}
	goal.TimeSpent += seconds
	goal.Progress = Progress(goal.TimeSpent)
	g[ref.Tier][ref.Index] = goal
	return goal, nil
}
