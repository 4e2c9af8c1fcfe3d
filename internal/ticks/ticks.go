// Package ticks builds the labelled time axis for a timeline view: tick
// candidates per zoom unit, priority-based collision removal and weekend
// shading bands.
package ticks

import (
	"math"
	"time"

	"github.com/runnerr0/momentline/internal/coords"
)

// MinTickSpacing is the minimum horizontal distance, in pixels, between two
// surviving ticks.
const MinTickSpacing = 50.0

// Priority ranks ticks for collision resolution. Higher wins.
type Priority int

const (
	PriorityMinor      Priority = 1
	PriorityPrimaryDay Priority = 2
	PriorityMonth      Priority = 3
	PriorityYear       Priority = 4
)

func (p Priority) String() string {
	switch p {
	case PriorityMinor:
		return "minor"
	case PriorityPrimaryDay:
		return "primary-day"
	case PriorityMonth:
		return "month"
	case PriorityYear:
		return "year"
	}
	return "unknown"
}

// Flags carry styling hints for a tick.
type Flags struct {
	MonthBoundary bool
	WeekendDay    bool
	YearBoundary  bool
}

// Tick is a labelled marker on the axis. X is filled in during resolution.
type Tick struct {
	Time     time.Time
	Label    string
	Priority Priority
	Flags    Flags
	X        float64
}

// Band is a background shading interval [Start, End).
type Band struct {
	Start time.Time
	End   time.Time
}

// Axis is everything the renderer needs for one frame of the time axis.
type Axis struct {
	Unit      coords.Unit
	Ticks     []Tick
	Bands     []Band
	DateLabel string
}

// Generator produces axes. Calendar boundaries (days, weeks, months, years)
// are computed in its location.
type Generator struct {
	loc *time.Location
}

// NewGenerator returns a generator for loc; nil means UTC.
func NewGenerator(loc *time.Location) *Generator {
	if loc == nil {
		loc = time.UTC
	}
	return &Generator{loc: loc}
}

// Location returns the generator's time zone.
func (g *Generator) Location() *time.Location {
	return g.loc
}

// Generate builds a fresh axis for the view. Nothing is cached between calls.
func (g *Generator) Generate(v coords.View) Axis {
	lvl := v.Level()
	axis := Axis{
		Unit:  lvl.Unit,
		Ticks: Resolve(g.Candidates(v), v),
		Bands: g.WeekendBands(v),
	}
	if lvl.Unit.SubDay() {
		axis.DateLabel = v.Center.In(g.loc).Format("Mon, Jan 2 2006")
	}
	return axis
}

// Candidates returns every raw tick for the visible window, sorted
// ascending by time, before collision removal.
func (g *Generator) Candidates(v coords.View) []Tick {
	start, end := v.Window()
	lvl := v.Level()

	var out []Tick
	switch lvl.Unit {
	case coords.UnitDay:
		out = g.dayTicks(start, end)
	case coords.UnitWeek:
		out = g.weekdayTicks(start, end, true)
		out = append(out, g.monthTicks(start, end, "January")...)
	case coords.UnitMonth:
		out = g.weekdayTicks(start, end, false)
		out = append(out, g.monthTicks(start, end, "Jan")...)
	case coords.UnitYear:
		out = g.monthTicks(start, end, "Jan")
		out = append(out, g.anchorTicks(start, end)...)
	default:
		out = g.intervalTicks(start, end, lvl.TickInterval)
	}

	if lvl.Unit >= coords.UnitWeek {
		out = append(out, g.yearTicks(start, end)...)
	}

	sortByTime(out)
	return out
}

// intervalTicks emits one tick per epoch-aligned interval boundary.
func (g *Generator) intervalTicks(start, end time.Time, interval time.Duration) []Tick {
	step := interval.Milliseconds()
	if step <= 0 {
		return nil
	}
	first := int64(math.Ceil(float64(start.UnixMilli())/float64(step))) * step
	last := end.UnixMilli()

	var out []Tick
	for ms := first; ms <= last; ms += step {
		t := time.UnixMilli(ms).In(g.loc)
		out = append(out, Tick{
			Time:     t,
			Label:    t.Format("15:04"),
			Priority: PriorityMinor,
		})
	}
	return out
}

// dayTicks emits one tick per calendar day, flagging weekends. In UTC these
// are the epoch-aligned one-day interval ticks. Elsewhere they sit on local
// midnights, so labels name whole local days and stay put across DST
// changes, where a fixed 24h step would drift by the offset.
func (g *Generator) dayTicks(start, end time.Time) []Tick {
	var out []Tick
	g.eachDay(start, end, func(day time.Time) {
		out = append(out, Tick{
			Time:     day,
			Label:    day.Format("Mon 2"),
			Priority: PriorityMinor,
			Flags:    Flags{WeekendDay: isWeekend(day)},
		})
	})
	return out
}

// weekdayTicks emits Sundays and, when withThursdays is set, Thursdays.
func (g *Generator) weekdayTicks(start, end time.Time, withThursdays bool) []Tick {
	var out []Tick
	g.eachDay(start, end, func(day time.Time) {
		switch day.Weekday() {
		case time.Sunday:
			out = append(out, Tick{
				Time:     day,
				Label:    dayLabel(day, withThursdays),
				Priority: PriorityPrimaryDay,
				Flags:    Flags{WeekendDay: true},
			})
		case time.Thursday:
			if withThursdays {
				out = append(out, Tick{
					Time:     day,
					Label:    dayLabel(day, true),
					Priority: PriorityMinor,
				})
			}
		}
	})
	return out
}

func dayLabel(day time.Time, withMonth bool) string {
	if withMonth {
		return day.Format("Jan 2")
	}
	return day.Format("2")
}

// monthTicks emits the first day of each calendar month.
func (g *Generator) monthTicks(start, end time.Time, layout string) []Tick {
	var out []Tick
	g.eachMonth(start, end, func(month time.Time) {
		out = append(out, Tick{
			Time:     month,
			Label:    month.Format(layout),
			Priority: PriorityMonth,
			Flags:    Flags{MonthBoundary: true},
		})
	})
	return out
}

// anchorTicks emits the 10th and 20th of each month.
func (g *Generator) anchorTicks(start, end time.Time) []Tick {
	var out []Tick
	local := start.In(g.loc)
	first := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, g.loc)
	for m := first; !m.After(end); m = m.AddDate(0, 1, 0) {
		for _, d := range []int{10, 20} {
			t := time.Date(m.Year(), m.Month(), d, 0, 0, 0, 0, g.loc)
			if t.Before(start) || t.After(end) {
				continue
			}
			out = append(out, Tick{
				Time:     t,
				Label:    t.Format("Jan 2"),
				Priority: PriorityMinor,
			})
		}
	}
	return out
}

// yearTicks emits January 1st of each year.
func (g *Generator) yearTicks(start, end time.Time) []Tick {
	var out []Tick
	for y := start.In(g.loc).Year(); ; y++ {
		t := time.Date(y, time.January, 1, 0, 0, 0, 0, g.loc)
		if t.After(end) {
			break
		}
		if t.Before(start) {
			continue
		}
		out = append(out, Tick{
			Time:     t,
			Label:    t.Format("2006"),
			Priority: PriorityYear,
			Flags:    Flags{YearBoundary: true, MonthBoundary: true},
		})
	}
	return out
}

// WeekendBands returns one band per Saturday and Sunday touching the
// visible window. Only week unit and coarser get bands.
func (g *Generator) WeekendBands(v coords.View) []Band {
	if v.Level().Unit < coords.UnitWeek {
		return nil
	}
	start, end := v.Window()

	var out []Band
	day := startOfDay(start.In(g.loc))
	for !day.After(end) {
		next := day.AddDate(0, 0, 1)
		if isWeekend(day) {
			out = append(out, Band{Start: day, End: next})
		}
		day = next
	}
	return out
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
