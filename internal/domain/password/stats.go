package password

import (
	"sort"
	"time"
)

// Stats summarizes stored credentials by re-evaluating each password
type Stats struct {
	Total      int
	Weak       int
	Moderate   int
	Strong     int
	Violations int
}

// Summarize computes Stats over the given credentials
func Summarize(credentials []Credential) Stats {
	stats := Stats{Total: len(credentials)}
	for _, c := range credentials {
		a := Evaluate(c.Password)
		stats.Violations += len(a.Violations)
		switch a.Tier {
		case TierWeak:
			stats.Weak++
		case TierModerate:
			stats.Moderate++
		case TierStrong:
			stats.Strong++
		}
	}
	return stats
}

// Snapshot is Stats as they stood at one point in time
type Snapshot struct {
	Date time.Time
	Stats
}

// Daily keeps the last snapshot of each calendar day, oldest day first.
// Days are taken in each snapshot's own location.
func Daily(snapshots []Snapshot) []Snapshot {
	sorted := make([]Snapshot, len(snapshots))
	copy(sorted, snapshots)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	days := make([]Snapshot, 0, len(sorted))
	for _, s := range sorted {
		if n := len(days); n > 0 && sameDay(days[n-1].Date, s.Date) {
			days[n-1] = s
			continue
		}
		days = append(days, s)
	}
	return days
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
