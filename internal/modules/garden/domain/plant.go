package domain

import (
	"time"

	"focusgarden/internal/platform/random"
)

type PlantType string

const (
	PlantSprout PlantType = "sprout"
	PlantFlower PlantType = "flower"
	PlantBush   PlantType = "bush"
	PlantTree   PlantType = "tree"
	PlantGolden PlantType = "golden"
)

// PlantTypes in tier order.
var PlantTypes = []PlantType{PlantSprout, PlantFlower, PlantBush, PlantTree, PlantGolden}

type Variant struct {
	Name string
	Icon string
}

var variants = map[PlantType][]Variant{
	PlantSprout: {
		{Name: "Bean Sprout", Icon: "🌱"},
		{Name: "Seedling", Icon: "🌱"},
		{Name: "Clover", Icon: "🍀"},
		{Name: "Herb", Icon: "🍀"},
	},
	PlantFlower: {
		{Name: "Cherry Blossom", Icon: "🌸"},
		{Name: "Sunflower", Icon: "🌻"},
		{Name: "Daisy", Icon: "🌼"},
		{Name: "Rose", Icon: "🌹"},
		{Name: "Marigold", Icon: "🏵️"},
	},
	PlantBush: {
		{Name: "Rose Bush", Icon: "🌿"},
		{Name: "Berry Bush", Icon: "🌿"},
		{Name: "Mixed Bush", Icon: "🌿"},
		{Name: "Flowering Bush", Icon: "🌿"},
	},
	PlantTree: {
		{Name: "Oak Tree", Icon: "🌳"},
		{Name: "Pine Tree", Icon: "🌲"},
		{Name: "Palm Tree", Icon: "🌴"},
		{Name: "Mushroom Ring", Icon: "🍄"},
		{Name: "Crystal Fern", Icon: "🌴"},
	},
	PlantGolden: {
		{Name: "Golden Flower", Icon: "🌟"},
	},
}

// Variants returns the named variants of a plant type.
func Variants(t PlantType) []Variant {
	return append([]Variant(nil), variants[t]...)
}

type Plant struct {
	Type      PlantType `json:"type"`
	Variant   string    `json:"variant"`
	Icon      string    `json:"icon"`
	CreatedAt time.Time `json:"createdAt"`

	SessionDurationMinutes int    `json:"sessionDuration,omitempty"`
	GoalRef                string `json:"goalId,omitempty"`

	EvolvedFrom []string   `json:"evolvedFrom,omitempty"`
	EvolvedAt   *time.Time `json:"evolvedAt,omitempty"`

	IsStreakReward   bool `json:"isStreakReward,omitempty"`
	StreakDays       int  `json:"streakDays,omitempty"`
	IsProgressReward bool `json:"isProgressReward,omitempty"`
	TotalSessions    int  `json:"totalSessions,omitempty"`
}

// NewPlant picks a variant of t uniformly at random.
func NewPlant(t PlantType, rng random.Source, now time.Time) Plant {
	options := variants[t]
	v := options[rng.IntN(len(options))]
	return Plant{Type: t, Variant: v.Name, Icon: v.Icon, CreatedAt: now}
}

// CountByType counts plants per type, with every type present.
func CountByType(plants []Plant) map[PlantType]int {
	counts := make(map[PlantType]int, len(PlantTypes))
	for _, t := range PlantTypes {
		counts[t] = 0
	}
	for _, p := range plants {
		counts[p.Type]++
	}
	return counts
}
