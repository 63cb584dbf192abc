package domain

import (
	"sort"
	"time"

	"focusgarden/internal/platform/random"
)

const (
	Capacity = 20

	EvolveBatch         = 4
	LongSessionMinutes  = 50
	TreeMinPlants       = 12
	TreeMinStreakLength = 3
)

type Garden struct {
	Plants          []Plant        `json:"plants"`
	LastWeekSummary *WeeklySummary `json:"lastWeekSummary"`
}

type CompletedSession struct {
	DurationMinutes int
	GoalRef         string
}

type Outcome struct {
	NewPlant Plant
	Garden   Garden
	Streaks  Streaks
	// Evolutions holds the plants minted by evolution during this call,
	// newest first.
	Evolutions []Plant
}

// Grower applies one completed session to a garden. It is deterministic
// for a given random source.
type Grower struct {
	Rng      random.Source
	Location *time.Location
}

func (g Grower) Grow(garden Garden, streaks Streaks, session CompletedSession, now time.Time) Outcome {
	plants := append([]Plant(nil), garden.Plants...)

	plantType := PlantSprout
	if session.DurationMinutes >= LongSessionMinutes {
		plantType = PlantFlower
	}
	newPlant := NewPlant(plantType, g.Rng, now)
	newPlant.SessionDurationMinutes = session.DurationMinutes
	newPlant.GoalRef = session.GoalRef
	plants = append(plants, newPlant)

	if streaks.Record(now, g.Location) {
		golden := NewPlant(PlantGolden, g.Rng, now)
		golden.IsStreakReward = true
		golden.StreakDays = streaks.Current
		plants = append(plants, golden)
	}

	var evolutions []Plant
	for _, step := range []struct{ from, to PlantType }{
		{PlantSprout, PlantFlower},
		{PlantFlower, PlantBush},
	} {
		var evolved *Plant
		plants, evolved = g.evolve(plants, step.from, step.to, now)
		if evolved != nil {
			evolutions = append(evolutions, *evolved)
		}
	}

	if (len(plants) >= TreeMinPlants || streaks.Current >= TreeMinStreakLength) && !hasType(plants, PlantTree) {
		tree := NewPlant(PlantTree, g.Rng, now)
		tree.IsProgressReward = true
		tree.TotalSessions = len(plants)
		plants = append(plants, tree)
	}

	summary := garden.LastWeekSummary
	if SummaryDue(summary, now) {
		fresh := Summarize(plants, now)
		summary = &fresh
	}

	plants = enforceCapacity(plants)

	// later evolutions consumed earlier outputs, so reverse for newest first
	for i, j := 0, len(evolutions)-1; i < j; i, j = i+1, j-1 {
		evolutions[i], evolutions[j] = evolutions[j], evolutions[i]
	}

	return Outcome{
		NewPlant:   newPlant,
		Garden:     Garden{Plants: plants, LastWeekSummary: summary},
		Streaks:    streaks,
		Evolutions: evolutions,
	}
}

// evolve replaces the first EvolveBatch plants of type from, in storage
// order, with one plant of type to.
func (g Grower) evolve(plants []Plant, from, to PlantType, now time.Time) ([]Plant, *Plant) {
	if CountByType(plants)[from] < EvolveBatch {
		return plants, nil
	}
	kept := make([]Plant, 0, len(plants))
	consumed := make([]string, 0, EvolveBatch)
	for _, p := range plants {
		if p.Type == from && len(consumed) < EvolveBatch {
			consumed = append(consumed, p.Variant)
			continue
		}
		kept = append(kept, p)
	}
	evolved := NewPlant(to, g.Rng, now)
	evolved.EvolvedFrom = consumed
	at := now
	evolved.EvolvedAt = &at
	return append(kept, evolved), &evolved
}

func hasType(plants []Plant, t PlantType) bool {
	for _, p := range plants {
		if p.Type == t {
			return true
		}
	}
	return false
}

// enforceCapacity keeps the Capacity most recently created plants. Among
// plants created at the same instant the earlier-stored ones win. The
// survivors stay in chronological order so that evolution keeps consuming
// the oldest plants first.
func enforceCapacity(plants []Plant) []Plant {
	if len(plants) <= Capacity {
		return plants
	}
	order := make([]int, len(plants))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return plants[order[a]].CreatedAt.After(plants[order[b]].CreatedAt)
	})
	keep := append([]int(nil), order[:Capacity]...)
	sort.SliceStable(keep, func(a, b int) bool {
		pa, pb := plants[keep[a]], plants[keep[b]]
		if pa.CreatedAt.Equal(pb.CreatedAt) {
			return keep[a] < keep[b]
		}
		return pa.CreatedAt.Before(pb.CreatedAt)
	})
	out := make([]Plant, 0, Capacity)
	for _, i := range keep {
		out = append(out, plants[i])
	}
	return out
}
