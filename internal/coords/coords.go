// Package coords maps between wall-clock time and screen-space pixels for a
// horizontally scrolling timeline and owns the fixed zoom-level table.
package coords

import (
	"math"
	"time"
)

// TimeToX returns the horizontal pixel position of t for a viewport of the
// given width centred on center.
func TimeToX(t, center time.Time, msPerPixel, viewportWidth float64) float64 {
	return viewportWidth/2 + durationMs(t.Sub(center))/msPerPixel
}

// XToTime is the inverse of TimeToX.
func XToTime(x float64, center time.Time, msPerPixel, viewportWidth float64) time.Time {
	return center.Add(Milliseconds((x - viewportWidth/2) * msPerPixel))
}

func durationMs(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// Milliseconds converts fractional milliseconds to a Duration, rounded to
// the nearest nanosecond.
func Milliseconds(ms float64) time.Duration {
	return time.Duration(math.Round(ms * float64(time.Millisecond)))
}

// View is the geometry needed to place anything on the axis.
type View struct {
	Center     time.Time
	MsPerPixel float64
	Width      float64
}

// TimeToX places t in the view.
func (v View) TimeToX(t time.Time) float64 {
	return TimeToX(t, v.Center, v.MsPerPixel, v.Width)
}

// XToTime returns the time under pixel x.
func (v View) XToTime(x float64) time.Time {
	return XToTime(x, v.Center, v.MsPerPixel, v.Width)
}

// Range is the visible time span.
func (v View) Range() time.Duration {
	return Milliseconds(v.Width * v.MsPerPixel)
}

// Window returns the visible interval [center-range/2, center+range/2].
func (v View) Window() (start, end time.Time) {
	half := v.Range() / 2
	return v.Center.Add(-half), v.Center.Add(half)
}

// Level is the zoom level in effect for the view.
func (v View) Level() ZoomLevel {
	return LevelFor(v.MsPerPixel)
}
