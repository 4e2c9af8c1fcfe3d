package coords

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Unit is the calendar/clock unit a zoom level displays on the axis.
type Unit int

const (
	Unit5Min Unit = iota
	Unit10Min
	Unit30Min
	UnitHour
	Unit6Hour
	UnitDay
	UnitWeek
	UnitMonth
	UnitYear
)

var unitNames = [...]string{"5min", "10min", "30min", "hour", "6hour", "day", "week", "month", "year"}

func (u Unit) String() string {
	if u < 0 || int(u) >= len(unitNames) {
		return fmt.Sprintf("Unit(%d)", int(u))
	}
	return unitNames[u]
}

// SubDay reports whether the unit is finer than a day.
func (u Unit) SubDay() bool {
	return u < UnitDay
}

// ParseUnit resolves a unit name such as "hour" or "6hour".
func ParseUnit(name string) (Unit, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range unitNames {
		if n == name {
			return Unit(i), nil
		}
	}
	return 0, fmt.Errorf("unknown zoom unit %q (want one of %s)", name, strings.Join(unitNames[:], ", "))
}

// ZoomLevel is one fixed entry of the zoom table.
type ZoomLevel struct {
	MsPerPixel   float64
	Unit         Unit
	TickInterval time.Duration
}

// Every level spans one of its units across unitPixels pixels.
const unitPixels = 100

func level(u Unit, interval time.Duration) ZoomLevel {
	return ZoomLevel{
		MsPerPixel:   float64(interval.Milliseconds()) / unitPixels,
		Unit:         u,
		TickInterval: interval,
	}
}

// Levels is the zoom table, ascending by MsPerPixel. Its MsPerPixel values
// are the only legal at-rest zoom values.
var Levels = [...]ZoomLevel{
	level(Unit5Min, 5*time.Minute),
	level(Unit10Min, 10*time.Minute),
	level(Unit30Min, 30*time.Minute),
	level(UnitHour, time.Hour),
	level(Unit6Hour, 6*time.Hour),
	level(UnitDay, 24*time.Hour),
	level(UnitWeek, 7*24*time.Hour),
	level(UnitMonth, 30*24*time.Hour),
	level(UnitYear, 365*24*time.Hour),
}

// MinMsPerPixel and MaxMsPerPixel bound every zoom value, at rest or not.
var (
	MinMsPerPixel = Levels[0].MsPerPixel
	MaxMsPerPixel = Levels[len(Levels)-1].MsPerPixel
)

// LevelIndexFor returns the smallest table index whose MsPerPixel is >= the
// given value, or the last index if none is. This is a ceiling search: while
// zooming in the finer adjacent unit takes effect as soon as it is reached.
func LevelIndexFor(msPerPixel float64) int {
	for i, l := range Levels {
		if l.MsPerPixel >= msPerPixel {
			return i
		}
	}
	return len(Levels) - 1
}

// LevelFor returns the zoom level in effect for msPerPixel.
func LevelFor(msPerPixel float64) ZoomLevel {
	return Levels[LevelIndexFor(msPerPixel)]
}

// LevelForUnit returns the table index for a unit.
func LevelForUnit(u Unit) (int, error) {
	for i, l := range Levels {
		if l.Unit == u {
			return i, nil
		}
	}
	return 0, fmt.Errorf("no zoom level for unit %s", u)
}

// ClampZoom clamps msPerPixel into the table bounds. NaN and non-positive
// values clamp to the finest level.
func ClampZoom(msPerPixel float64) float64 {
	if math.IsNaN(msPerPixel) || msPerPixel < MinMsPerPixel {
		return MinMsPerPixel
	}
	if msPerPixel > MaxMsPerPixel {
		return MaxMsPerPixel
	}
	return msPerPixel
}

// SnapZoom replaces msPerPixel with the MsPerPixel of the level in effect.
// Only used once a gesture ends; continuous values are fine mid-gesture.
func SnapZoom(msPerPixel float64) float64 {
	return Levels[LevelIndexFor(ClampZoom(msPerPixel))].MsPerPixel
}

// StepZoom moves to the adjacent table entry. A negative dir zooms in
// (finer), a positive dir zooms out. Off-table values first snap to the
// level in effect, so a step from between two entries lands on a neighbour.
func StepZoom(msPerPixel float64, dir int) float64 {
	cur := ClampZoom(msPerPixel)
	idx := LevelIndexFor(cur)
	switch {
	case dir < 0:
		if idx > 0 {
			idx--
		}
	case dir > 0:
		if Levels[idx].MsPerPixel == cur && idx < len(Levels)-1 {
			idx++
		}
	}
	return Levels[idx].MsPerPixel
}
