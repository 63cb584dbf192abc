package domain_test

import (
	"strings"
	"testing"
	"time"

	"focusgarden/internal/modules/garden/domain"
	"focusgarden/internal/platform/random"
)

type firstVariant struct{}

func (firstVariant) IntN(int) int { return 0 }

var (
	utc = time.UTC
	now = time.Date(2026, 3, 10, 15, 0, 0, 0, utc)
)

func grower() domain.Grower {
	return domain.Grower{Rng: firstVariant{}, Location: utc}
}

func plantsOf(t domain.PlantType, n int, start time.Time) []domain.Plant {
	out := make([]domain.Plant, 0, n)
	for i := 0; i < n; i++ {
		v := domain.Variants(t)[i%len(domain.Variants(t))]
		out = append(out, domain.Plant{Type: t, Variant: v.Name, Icon: v.Icon, CreatedAt: start.Add(time.Duration(i) * time.Minute)})
	}
	return out
}

func daysAgo(n int) *time.Time {
	at := now.AddDate(0, 0, -n)
	return &at
}

func TestGrowPlantTypeByDuration(t *testing.T) {
	t.Parallel()
	cases := map[int]domain.PlantType{10: domain.PlantSprout, 25: domain.PlantSprout, 49: domain.PlantSprout, 50: domain.PlantFlower, 90: domain.PlantFlower}
	for minutes, want := range cases {
		out := grower().Grow(domain.Garden{}, domain.Streaks{}, domain.CompletedSession{DurationMinutes: minutes, GoalRef: "shortTerm-0"}, now)
		if out.NewPlant.Type != want {
			t.Fatalf("%d min: expected %s, got %s", minutes, want, out.NewPlant.Type)
		}
		if out.NewPlant.SessionDurationMinutes != minutes || out.NewPlant.GoalRef != "shortTerm-0" {
			t.Fatalf("new plant must carry session details, got %+v", out.NewPlant)
		}
		if out.NewPlant.Icon == "" || out.NewPlant.Variant == "" {
			t.Fatalf("new plant must have a variant and icon, got %+v", out.NewPlant)
		}
	}
}

func TestStreakContinuity(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name        string
		streaks     domain.Streaks
		wantCurrent int
		wantLongest int
	}{
		{"first session ever", domain.Streaks{}, 1, 1},
		{"yesterday extends", domain.Streaks{Current: 4, LongestStreak: 4, LastSessionDate: daysAgo(1)}, 5, 5},
		{"gap resets", domain.Streaks{Current: 4, LongestStreak: 9, LastSessionDate: daysAgo(3)}, 1, 9},
		{"same day unchanged", domain.Streaks{Current: 2, LongestStreak: 6, LastSessionDate: daysAgo(0)}, 2, 6},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := grower().Grow(domain.Garden{}, tc.streaks, domain.CompletedSession{DurationMinutes: 25}, now)
			if out.Streaks.Current != tc.wantCurrent || out.Streaks.LongestStreak != tc.wantLongest {
				t.Fatalf("expected current=%d longest=%d, got %+v", tc.wantCurrent, tc.wantLongest, out.Streaks)
			}
			if out.Streaks.LastSessionDate == nil || out.Streaks.LastSessionDate.YearDay() != now.YearDay() {
				t.Fatalf("last session date must be today, got %v", out.Streaks.LastSessionDate)
			}
		})
	}
}

func TestStreakUsesCalendarDaysOfLocation(t *testing.T) {
	t.Parallel()
	loc := time.FixedZone("UTC-5", -5*60*60)
	// 23:30 local yesterday and 00:30 local today are one calendar day apart
	last := time.Date(2026, 3, 9, 23, 30, 0, 0, loc)
	at := time.Date(2026, 3, 10, 0, 30, 0, 0, loc)
	streaks := domain.Streaks{Current: 2, LongestStreak: 2, LastSessionDate: &last}
	if streaks.Record(at, loc) {
		t.Fatalf("streak of 3 must not be rewarded")
	}
	if streaks.Current != 3 {
		t.Fatalf("expected streak 3, got %d", streaks.Current)
	}
}

func TestSevenDayStreakMintsOneGoldenPlant(t *testing.T) {
	t.Parallel()
	out := grower().Grow(domain.Garden{}, domain.Streaks{Current: 6, LongestStreak: 6, LastSessionDate: daysAgo(1)}, domain.CompletedSession{DurationMinutes: 25}, now)
	if out.Streaks.Current != 7 {
		t.Fatalf("expected streak 7, got %d", out.Streaks.Current)
	}
	golden := 0
	for _, p := range out.Garden.Plants {
		if p.Type == domain.PlantGolden {
			golden++
			if !p.IsStreakReward || p.StreakDays != 7 || p.Variant != "Golden Flower" {
				t.Fatalf("unexpected golden plant %+v", p)
			}
		}
	}
	if golden != 1 {
		t.Fatalf("expected exactly one golden plant, got %d", golden)
	}
}

func TestFourSproutsEvolveIntoFlower(t *testing.T) {
	t.Parallel()
	garden := domain.Garden{Plants: plantsOf(domain.PlantSprout, 4, now.Add(-time.Hour))}
	out := grower().Grow(garden, domain.Streaks{LastSessionDate: daysAgo(0), Current: 1, LongestStreak: 1}, domain.CompletedSession{DurationMinutes: 25}, now)

	counts := domain.CountByType(out.Garden.Plants)
	if counts[domain.PlantSprout] != 1 {
		t.Fatalf("expected only the new sprout to remain, got %d sprouts", counts[domain.PlantSprout])
	}
	if counts[domain.PlantFlower] != 1 {
		t.Fatalf("expected one flower, got %d", counts[domain.PlantFlower])
	}
	if len(out.Evolutions) != 1 {
		t.Fatalf("expected one evolution, got %d", len(out.Evolutions))
	}
	flower := out.Evolutions[0]
	if flower.Type != domain.PlantFlower || flower.EvolvedAt == nil {
		t.Fatalf("unexpected evolution %+v", flower)
	}
	want := []string{"Bean Sprout", "Seedling", "Clover", "Herb"}
	if strings.Join(flower.EvolvedFrom, ",") != strings.Join(want, ",") {
		t.Fatalf("expected the four oldest sprouts to be consumed, got %v", flower.EvolvedFrom)
	}
	// the surviving sprout is the freshly created one
	for _, p := range out.Garden.Plants {
		if p.Type == domain.PlantSprout && !p.CreatedAt.Equal(now) {
			t.Fatalf("an old sprout survived evolution: %+v", p)
		}
	}
}

func TestEvolutionChainsIntoBushNewestFirst(t *testing.T) {
	t.Parallel()
	start := now.Add(-2 * time.Hour)
	plants := append(plantsOf(domain.PlantFlower, 3, start), plantsOf(domain.PlantSprout, 3, start.Add(time.Hour))...)
	out := grower().Grow(domain.Garden{Plants: plants}, domain.Streaks{LastSessionDate: daysAgo(0), Current: 1}, domain.CompletedSession{DurationMinutes: 30}, now)

	if len(out.Evolutions) != 2 {
		t.Fatalf("expected sprout and flower evolutions, got %d", len(out.Evolutions))
	}
	if out.Evolutions[0].Type != domain.PlantBush || out.Evolutions[1].Type != domain.PlantFlower {
		t.Fatalf("expected bush then flower, got %s then %s", out.Evolutions[0].Type, out.Evolutions[1].Type)
	}
	counts := domain.CountByType(out.Garden.Plants)
	if counts[domain.PlantSprout] != 0 || counts[domain.PlantFlower] != 0 || counts[domain.PlantBush] != 1 {
		t.Fatalf("unexpected counts %v", counts)
	}
}

func TestTreeProgressRewardMintedOnce(t *testing.T) {
	t.Parallel()
	streaks := domain.Streaks{Current: 2, LongestStreak: 2, LastSessionDate: daysAgo(1)}
	out := grower().Grow(domain.Garden{}, streaks, domain.CompletedSession{DurationMinutes: 25}, now)
	trees := 0
	for _, p := range out.Garden.Plants {
		if p.Type == domain.PlantTree {
			trees++
			if !p.IsProgressReward {
				t.Fatalf("tree must be flagged as progress reward: %+v", p)
			}
		}
	}
	if trees != 1 {
		t.Fatalf("expected one tree for a 3-day streak, got %d", trees)
	}

	again := grower().Grow(out.Garden, out.Streaks, domain.CompletedSession{DurationMinutes: 25}, now.Add(time.Hour))
	if domain.CountByType(again.Garden.Plants)[domain.PlantTree] != 1 {
		t.Fatalf("a second tree must not be minted while one exists")
	}

	big := domain.Garden{Plants: append(plantsOf(domain.PlantBush, 6, now.Add(-time.Hour)), plantsOf(domain.PlantGolden, 5, now.Add(-time.Hour))...)}
	grown := grower().Grow(big, domain.Streaks{LastSessionDate: daysAgo(0), Current: 1}, domain.CompletedSession{DurationMinutes: 25}, now)
	if domain.CountByType(grown.Garden.Plants)[domain.PlantTree] != 1 {
		t.Fatalf("expected tree once the garden holds 12 plants")
	}
}

func TestCapacityKeepsTwentyMostRecent(t *testing.T) {
	t.Parallel()
	garden := domain.Garden{Plants: plantsOf(domain.PlantGolden, 25, now.Add(-48*time.Hour))}
	// a tree already exists so no progress reward is added
	garden.Plants[0].Type = domain.PlantTree
	out := grower().Grow(garden, domain.Streaks{LastSessionDate: daysAgo(0), Current: 1}, domain.CompletedSession{DurationMinutes: 25}, now)

	if len(out.Garden.Plants) != domain.Capacity {
		t.Fatalf("expected %d plants, got %d", domain.Capacity, len(out.Garden.Plants))
	}
	// 26 plants existed: the six oldest are evicted
	oldestKept := now.Add(-48 * time.Hour).Add(6 * time.Minute)
	if !out.Garden.Plants[0].CreatedAt.Equal(oldestKept) {
		t.Fatalf("expected oldest survivor at %s, got %s", oldestKept, out.Garden.Plants[0].CreatedAt)
	}
	last := out.Garden.Plants[len(out.Garden.Plants)-1]
	if !last.CreatedAt.Equal(now) || last.Type != domain.PlantSprout {
		t.Fatalf("the new sprout must be kept last, got %+v", last)
	}
	for i := 1; i < len(out.Garden.Plants); i++ {
		if out.Garden.Plants[i].CreatedAt.Before(out.Garden.Plants[i-1].CreatedAt) {
			t.Fatalf("plants must stay in chronological order")
		}
	}
}

func TestCapacityTieKeepsEarlierStored(t *testing.T) {
	t.Parallel()
	tied := now.Add(-48 * time.Hour)
	plants := plantsOf(domain.PlantGolden, 25, tied)
	for i := range plants {
		plants[i].CreatedAt = tied
		plants[i].TotalSessions = 100 + i
	}
	plants[0].Type = domain.PlantTree
	out := grower().Grow(domain.Garden{Plants: plants}, domain.Streaks{LastSessionDate: daysAgo(0), Current: 1}, domain.CompletedSession{DurationMinutes: 25}, now)

	if len(out.Garden.Plants) != domain.Capacity {
		t.Fatalf("expected %d plants, got %d", domain.Capacity, len(out.Garden.Plants))
	}
	for i := 0; i < domain.Capacity-1; i++ {
		if got := out.Garden.Plants[i].TotalSessions; got != 100+i {
			t.Fatalf("position %d: expected stored plant %d, got %d", i, i, got-100)
		}
	}
	if last := out.Garden.Plants[domain.Capacity-1]; last.Type != domain.PlantSprout || !last.CreatedAt.Equal(now) {
		t.Fatalf("the new sprout must be kept last, got %+v", last)
	}
}

func TestWeeklySummaryRefresh(t *testing.T) {
	t.Parallel()
	old := plantsOf(domain.PlantFlower, 2, now.AddDate(0, 0, -10))
	recent := plantsOf(domain.PlantBush, 1, now.AddDate(0, 0, -2))
	garden := domain.Garden{Plants: append(old, recent...)}

	out := grower().Grow(garden, domain.Streaks{LastSessionDate: daysAgo(0), Current: 1}, domain.CompletedSession{DurationMinutes: 25}, now)
	summary := out.Garden.LastWeekSummary
	if summary == nil {
		t.Fatalf("expected a summary to be generated")
	}
	if summary.PlantCount != 2 || summary.PlantCounts[domain.PlantBush] != 1 || summary.PlantCounts[domain.PlantSprout] != 1 {
		t.Fatalf("unexpected summary counts %+v", summary)
	}
	want := "Great work this week! You completed 2 focus sessions, grew 1 sprout, cultivated 1 bush! 🌱✨ Keep growing your mind and garden!"
	if summary.Message != want {
		t.Fatalf("unexpected message:\n%s\nwant:\n%s", summary.Message, want)
	}

	fresh := &domain.WeeklySummary{Date: now.AddDate(0, 0, -3), Message: "kept"}
	kept := grower().Grow(domain.Garden{LastWeekSummary: fresh}, domain.Streaks{}, domain.CompletedSession{DurationMinutes: 25}, now)
	if kept.Garden.LastWeekSummary.Message != "kept" {
		t.Fatalf("a summary younger than a week must be kept")
	}
}

func TestSummaryMessageTemplates(t *testing.T) {
	t.Parallel()
	if got := domain.SummaryMessage(0, nil); !strings.HasPrefix(got, "You didn't complete any focus sessions this week.") {
		t.Fatalf("unexpected empty-week message %q", got)
	}
	counts := map[domain.PlantType]int{domain.PlantFlower: 2, domain.PlantTree: 1, domain.PlantGolden: 2}
	want := "Great work this week! You completed 5 focus sessions, bloomed 2 flowers, grew 1 tree, earned 2 golden flowers! 🌱✨ Keep growing your mind and garden!"
	if got := domain.SummaryMessage(5, counts); got != want {
		t.Fatalf("unexpected message %q", got)
	}
	if got := domain.SummaryMessage(1, map[domain.PlantType]int{}); got != "Great work this week! You completed 1 focus session! Keep growing your mind and garden! 🌱✨" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestSeededVariantsAreReproducible(t *testing.T) {
	t.Parallel()
	a := domain.Grower{Rng: random.New(7, 11), Location: utc}
	b := domain.Grower{Rng: random.New(7, 11), Location: utc}
	for i := 0; i < 10; i++ {
		at := now.Add(time.Duration(i) * time.Minute)
		pa := a.Grow(domain.Garden{}, domain.Streaks{}, domain.CompletedSession{DurationMinutes: 60}, at).NewPlant
		pb := b.Grow(domain.Garden{}, domain.Streaks{}, domain.CompletedSession{DurationMinutes: 60}, at).NewPlant
		if pa.Variant != pb.Variant {
			t.Fatalf("same seed must give same variants, got %s vs %s", pa.Variant, pb.Variant)
		}
	}
}
