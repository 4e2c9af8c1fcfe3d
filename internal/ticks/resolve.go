package ticks

import (
	"math"

	"github.com/runnerr0/momentline/internal/coords"
)

// Resolve removes visually colliding ticks. Candidates are walked in
// ascending time order; a candidate closer than MinTickSpacing to a kept
// tick replaces the nearest such tick only when its priority is strictly
// higher, otherwise it is dropped. Equal priorities keep the first-seen tick.
//
// This is a greedy single pass, so the result depends on candidate order.
func Resolve(candidates []Tick, v coords.View) []Tick {
	sorted := make([]Tick, len(candidates))
	copy(sorted, candidates)
	sortByTime(sorted)

	kept := make([]Tick, 0, len(sorted))
	for _, c := range sorted {
		c.X = v.TimeToX(c.Time)

		nearest := -1
		best := math.Inf(1)
		// kept is ascending in x, so only its tail can be in range.
		for i := len(kept) - 1; i >= 0; i-- {
			d := math.Abs(c.X - kept[i].X)
			if d >= MinTickSpacing {
				break
			}
			if d < best {
				nearest, best = i, d
			}
		}

		switch {
		case nearest < 0:
			kept = append(kept, c)
		case c.Priority > kept[nearest].Priority:
			kept[nearest] = c
		}
	}
	return kept
}
