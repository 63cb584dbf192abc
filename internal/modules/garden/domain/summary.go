package domain

import (
	"fmt"
	"strings"
	"time"
)

const SummaryPeriod = 7 * 24 * time.Hour

type WeeklySummary struct {
	Date        time.Time         `json:"date"`
	PlantCount  int               `json:"plantCount"`
	PlantCounts map[PlantType]int `json:"plantCounts"`
	Message     string            `json:"message"`
}

// SummaryDue reports whether the weekly summary is missing or at least a
// week old.
func SummaryDue(last *WeeklySummary, now time.Time) bool {
	return last == nil || now.Sub(last.Date) >= SummaryPeriod
}

// Summarize counts plants created during the week ending at now.
func Summarize(plants []Plant, now time.Time) WeeklySummary {
	since := now.AddDate(0, 0, -7)
	weekly := make([]Plant, 0, len(plants))
	for _, p := range plants {
		if !p.CreatedAt.Before(since) && !p.CreatedAt.After(now) {
			weekly = append(weekly, p)
		}
	}
	counts := CountByType(weekly)
	return WeeklySummary{
		Date:        now,
		PlantCount:  len(weekly),
		PlantCounts: counts,
		Message:     SummaryMessage(len(weekly), counts),
	}
}

func SummaryMessage(sessions int, counts map[PlantType]int) string {
	if sessions == 0 {
		return "You didn't complete any focus sessions this week. Let's grow your garden next week! 🌱"
	}
	msg := fmt.Sprintf("Great work this week! You completed %d focus session%s", sessions, plural(sessions, "s"))

	details := []string{}
	if n := counts[PlantSprout]; n > 0 {
		details = append(details, fmt.Sprintf("grew %d sprout%s", n, plural(n, "s")))
	}
	if n := counts[PlantFlower]; n > 0 {
		details = append(details, fmt.Sprintf("bloomed %d flower%s", n, plural(n, "s")))
	}
	if n := counts[PlantBush]; n > 0 {
		details = append(details, fmt.Sprintf("cultivated %d bush%s", n, plural(n, "es")))
	}
	if n := counts[PlantTree]; n > 0 {
		details = append(details, fmt.Sprintf("grew %d tree%s", n, plural(n, "s")))
	}
	if n := counts[PlantGolden]; n > 0 {
		details = append(details, fmt.Sprintf("earned %d golden flower%s", n, plural(n, "s")))
	}
	if len(details) > 0 {
		return msg + ", " + strings.Join(details, ", ") + "! 🌱✨ Keep growing your mind and garden!"
	}
	return msg + "! Keep growing your mind and garden! 🌱✨"
}

func plural(n int, suffix string) string {
	if n == 1 {
		return ""
	}
	return suffix
}
