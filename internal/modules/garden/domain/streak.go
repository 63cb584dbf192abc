package domain

import "time"

// StreakRewardEvery is the streak length (in days) that mints a golden
// plant, repeating at each multiple.
const StreakRewardEvery = 7

type Streaks struct {
	Current         int        `json:"current"`
	LongestStreak   int        `json:"longestStreak"`
	LastSessionDate *time.Time `json:"lastSessionDate"`
}

// Record counts a completed session at now. It changes the streak at most
// once per calendar day in loc and reports whether the new length earns a
// streak reward.
func (s *Streaks) Record(now time.Time, loc *time.Location) (rewarded bool) {
	if loc == nil {
		loc = time.Local
	}
	today := civilDay(now, loc)
	if s.LastSessionDate != nil && civilDay(*s.LastSessionDate, loc).Equal(today) {
		return false
	}
	yesterday := today.AddDate(0, 0, -1)
	if s.LastSessionDate != nil && civilDay(*s.LastSessionDate, loc).Equal(yesterday) {
		s.Current++
		rewarded = s.Current%StreakRewardEvery == 0
	} else {
		s.Current = 1
	}
	if s.Current > s.LongestStreak {
		s.LongestStreak = s.Current
	}
	at := now
	s.LastSessionDate = &at
	return rewarded
}

func civilDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
