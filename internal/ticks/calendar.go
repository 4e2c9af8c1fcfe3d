package ticks

import (
	"sort"
	"time"
)

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// eachDay calls fn with every local midnight in [start, end].
func (g *Generator) eachDay(start, end time.Time, fn func(day time.Time)) {
	day := startOfDay(start.In(g.loc))
	if day.Before(start) {
		day = day.AddDate(0, 0, 1)
	}
	for ; !day.After(end); day = day.AddDate(0, 0, 1) {
		fn(day)
	}
}

// eachMonth calls fn with the first instant of every month in [start, end].
func (g *Generator) eachMonth(start, end time.Time, fn func(month time.Time)) {
	local := start.In(g.loc)
	month := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, g.loc)
	if month.Before(start) {
		month = month.AddDate(0, 1, 0)
	}
	for ; !month.After(end); month = month.AddDate(0, 1, 0) {
		fn(month)
	}
}

// sortByTime orders ticks ascending by time. The sort is stable so
// candidates at the same instant keep generation order.
func sortByTime(ts []Tick) {
	sort.SliceStable(ts, func(i, j int) bool {
		return ts[i].Time.Before(ts[j].Time)
	})
}
