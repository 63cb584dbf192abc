package dto

import "time"

type ProcessInput struct {
	DurationMinutes int
	GoalRef         string
}

type PlantOutput struct {
	Type                   string
	Variant                string
	Icon                   string
	CreatedAt              time.Time
	SessionDurationMinutes int
	GoalRef                string
	EvolvedFrom            []string
	IsStreakReward         bool
	StreakDays             int
	IsProgressReward       bool
}

type StreakOutput struct {
	Current         int
	LongestStreak   int
	LastSessionDate *time.Time
}

type SummaryOutput struct {
	Date        time.Time
	PlantCount  int
	PlantCounts map[string]int
	Message     string
}

type ProcessOutput struct {
	NewPlant   PlantOutput
	Plants     []PlantOutput
	Streaks    StreakOutput
	Summary    *SummaryOutput
	Evolutions []PlantOutput
}

type StateOutput struct {
	Plants  []PlantOutput
	Streaks StreakOutput
	Summary *SummaryOutput
}
