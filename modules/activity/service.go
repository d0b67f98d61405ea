// Package activity serves the dashboard activity graph. The numbers
// are generated, not measured: the graph is decorative and no real
// usage analytics are collected.
package activity

import (
	"hash/fnv"
	"math/rand"
	"time"
)

// Levels run from 0 (no activity) to 4 (busiest), one per day.
const (
	maxLevel     = 4
	daysPerWeek  = 7
	defaultWeeks = 52
)

// Week is one column of the activity graph.
type Week struct {
	Start  time.Time `json:"start"`
	Levels []int     `json:"levels"`
}

// Generate produces a per-user activity grid covering the given number
// of weeks ending today. The same user sees the same grid for a whole
// day; it reshuffles at midnight.
func Generate(userID string, weeks int, now time.Time) []Week {
	if weeks <= 0 {
		weeks = defaultWeeks
	}

	rng := rand.New(rand.NewSource(seed(userID, now)))

	// Walk back to the Sunday that starts the first week.
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekStart := today.AddDate(0, 0, -int(today.Weekday()))
	first := weekStart.AddDate(0, 0, -daysPerWeek*(weeks-1))

	grid := make([]Week, 0, weeks)
	for w := 0; w < weeks; w++ {
		start := first.AddDate(0, 0, daysPerWeek*w)
		levels := make([]int, daysPerWeek)
		for d := range levels {
			day := start.AddDate(0, 0, d)
			if day.After(today) {
				levels[d] = 0
				continue
			}
			levels[d] = rng.Intn(maxLevel + 1)
		}
		grid = append(grid, Week{Start: start, Levels: levels})
	}
	return grid
}

func seed(userID string, now time.Time) int64 {
	h := fnv.New64a()
	h.Write([]byte(userID))
	h.Write([]byte(now.Format("2006-01-02")))
	return int64(h.Sum64())
}
