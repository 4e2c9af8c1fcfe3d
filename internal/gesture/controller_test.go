package gesture

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/momentline/internal/canvas"
	"github.com/runnerr0/momentline/internal/coords"
)

const hourMpp = 36000.0

var noon = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func newTestController(opts ...Option) *Controller {
	return NewController(canvas.New("tl-1", noon, hourMpp, 1000), opts...)
}

func touch(pts ...Point) PointerEvent { return PointerEvent{Kind: Touch, Points: pts} }
func mouse(x, y float64) PointerEvent { return PointerEvent{Kind: Mouse, Points: []Point{{x, y}}} }

// runSettle ticks until the settle finishes, failing if it never does.
func runSettle(t *testing.T, c *Controller) int {
	t.Helper()
	for i := 1; i <= 5000; i++ {
		if !c.Tick(FrameInterval) {
			return i
		}
	}
	t.Fatal("settle did not converge")
	return 0
}

func TestMousePan_AbsoluteFromPress(t *testing.T) {
	c := newTestController()

	c.PointerDown(mouse(100, 0))
	assert.Equal(t, Panning, c.State())

	c.PointerMove(mouse(150, 40))
	assert.True(t, noon.Add(-50*hourMpp*time.Millisecond).Equal(c.Canvas().Center()))

	c.PointerMove(mouse(120, 0))
	assert.True(t, noon.Add(-20*hourMpp*time.Millisecond).Equal(c.Canvas().Center()),
		"mouse pan is measured from the press point, not the last move")

	c.PointerUp(mouse(120, 0))
	assert.Equal(t, Idle, c.State())
	assert.False(t, c.Settling())
}

func TestTouchPan_DirectionDominance(t *testing.T) {
	var scrolled []float64
	c := newTestController(OnVerticalScroll(func(dy float64) { scrolled = append(scrolled, dy) }))

	c.PointerDown(touch(Point{100, 100}))
	require.Equal(t, Panning, c.State())

	// Horizontal dominant.
	c.PointerMove(touch(Point{110, 102}))
	want := noon.Add(-10 * hourMpp * time.Millisecond)
	assert.True(t, want.Equal(c.Canvas().Center()))
	assert.Empty(t, scrolled)

	// Vertical dominant.
	c.PointerMove(touch(Point{111, 112}))
	assert.True(t, want.Equal(c.Canvas().Center()))
	assert.Equal(t, []float64{-10}, scrolled)

	// Ambiguous: dropped, but the reference point still advances.
	c.PointerMove(touch(Point{116, 116}))
	assert.True(t, want.Equal(c.Canvas().Center()))
	assert.Len(t, scrolled, 1)

	c.PointerMove(touch(Point{126, 116}))
	want = want.Add(-10 * hourMpp * time.Millisecond)
	assert.True(t, want.Equal(c.Canvas().Center()))
}

func TestTouchPan_NilScrollCallback(t *testing.T) {
	c := newTestController()
	c.PointerDown(touch(Point{0, 0}))
	assert.NotPanics(t, func() { c.PointerMove(touch(Point{0, 50})) })
	assert.True(t, noon.Equal(c.Canvas().Center()))
}

func TestPinch_ZoomsAndSettlesOnRelease(t *testing.T) {
	c := newTestController()

	c.PointerDown(touch(Point{100, 0}, Point{200, 0}))
	require.Equal(t, Pinching, c.State())

	// Fingers twice as far apart: zoom in by 2x.
	c.PointerMove(touch(Point{50, 0}, Point{250, 0}))
	assert.InDelta(t, hourMpp/2, c.Canvas().MsPerPixel(), 1e-6)

	// Rebased: 200 -> 300 is a further 1.5x.
	c.PointerMove(touch(Point{0, 0}, Point{300, 0}))
	assert.InDelta(t, hourMpp/3, c.Canvas().MsPerPixel(), 1e-6)

	c.PointerUp(touch(Point{0, 0}))
	assert.Equal(t, Idle, c.State())
	require.True(t, c.Settling())

	target := coords.SnapZoom(hourMpp / 3)
	assert.Equal(t, target, c.SettleTarget())

	runSettle(t, c)
	assert.Equal(t, target, c.Canvas().MsPerPixel(), "settle lands exactly on the table entry")
	assert.False(t, c.Settling())
}

func TestPinch_HalfZoomSettlesToThirtyMinutes(t *testing.T) {
	c := newTestController()
	c.PointerDown(touch(Point{100, 0}, Point{200, 0}))
	c.PointerMove(touch(Point{50, 0}, Point{250, 0}))
	c.PointerUp(touch())

	runSettle(t, c)
	idx, err := coords.LevelForUnit(coords.Unit30Min)
	require.NoError(t, err)
	assert.Equal(t, coords.Levels[idx].MsPerPixel, c.Canvas().MsPerPixel())
}

func TestPinch_ClampedAndRebasedAtBounds(t *testing.T) {
	c := NewController(canvas.New("tl-1", noon, coords.MaxMsPerPixel, 1000))

	c.PointerDown(touch(Point{0, 0}, Point{200, 0}))
	c.PointerMove(touch(Point{50, 0}, Point{150, 0}))
	assert.Equal(t, coords.MaxMsPerPixel, c.Canvas().MsPerPixel())

	// Opening again zooms in straight away, relative to the clamped value.
	c.PointerMove(touch(Point{0, 0}, Point{200, 0}))
	assert.InDelta(t, coords.MaxMsPerPixel/2, c.Canvas().MsPerPixel(), 1e-6)
}

func TestPinch_ZeroDistanceIgnored(t *testing.T) {
	c := newTestController()
	c.PointerDown(touch(Point{10, 10}, Point{10, 10}))
	c.PointerMove(touch(Point{0, 10}, Point{20, 10}))
	assert.Equal(t, hourMpp, c.Canvas().MsPerPixel())

	c.PointerMove(touch(Point{0, 10}, Point{40, 10}))
	assert.InDelta(t, hourMpp/2, c.Canvas().MsPerPixel(), 1e-6)
}

func TestPanToPinchTransition(t *testing.T) {
	c := newTestController()
	c.PointerDown(touch(Point{100, 0}))
	c.PointerMove(touch(Point{100, 0}, Point{200, 0}))
	assert.Equal(t, Pinching, c.State())
}

func TestThreeTouches_ResetToIdle(t *testing.T) {
	c := newTestController()
	c.PointerDown(touch(Point{0, 0}, Point{1, 1}, Point{2, 2}))
	assert.Equal(t, Idle, c.State())

	c.PointerDown(touch(Point{0, 0}, Point{100, 0}))
	c.PointerMove(touch(Point{0, 0}, Point{150, 0}))
	c.PointerMove(touch(Point{0, 0}, Point{150, 0}, Point{300, 0}))
	assert.Equal(t, Idle, c.State())
	assert.True(t, c.Settling(), "leaving a pinch always settles")
}

func TestPinchStart_CancelsSettle(t *testing.T) {
	c := newTestController()
	c.PointerDown(touch(Point{0, 0}, Point{100, 0}))
	c.PointerMove(touch(Point{0, 0}, Point{130, 0}))
	c.PointerUp(touch())
	require.True(t, c.Settling())

	c.Tick(FrameInterval)
	c.PointerDown(touch(Point{0, 0}, Point{100, 0}))
	assert.False(t, c.Settling())
	assert.Equal(t, Pinching, c.State())
}

func TestWheel_ZoomIsDirectAndUnsnapped(t *testing.T) {
	c := newTestController()
	c.Wheel(WheelEvent{DeltaY: -100, Zoom: true})

	assert.InDelta(t, hourMpp/2.718281828459045, c.Canvas().MsPerPixel(), 1e-3)
	assert.False(t, c.Settling())
	assert.Equal(t, Idle, c.State())

	c.Wheel(WheelEvent{DeltaY: 100, Zoom: true})
	assert.InDelta(t, hourMpp, c.Canvas().MsPerPixel(), 1e-6)
}

func TestWheel_ZoomCancelsSettle(t *testing.T) {
	c := newTestController()
	c.Canvas().SetMsPerPixel(20000)
	c.Snap()
	require.True(t, c.Settling())

	c.Wheel(WheelEvent{DeltaY: 10, Zoom: true})
	assert.False(t, c.Settling())
}

func TestWheel_Pans(t *testing.T) {
	c := newTestController()

	c.Wheel(WheelEvent{DeltaX: 10})
	want := noon.Add(10 * hourMpp * time.Millisecond)
	assert.True(t, want.Equal(c.Canvas().Center()))

	// Vertical-only wheel pans horizontally as well.
	c.Wheel(WheelEvent{DeltaY: -5})
	want = want.Add(-5 * hourMpp * time.Millisecond)
	assert.True(t, want.Equal(c.Canvas().Center()))
	assert.Equal(t, hourMpp, c.Canvas().MsPerPixel())
}

func TestResizing_SuppressesInput(t *testing.T) {
	c := newTestController()
	c.Canvas().SetResizing(true)

	c.PointerDown(mouse(100, 0))
	c.PointerMove(mouse(300, 0))
	c.Wheel(WheelEvent{DeltaX: 40})
	c.Wheel(WheelEvent{DeltaY: 40, Zoom: true})

	assert.Equal(t, Idle, c.State())
	assert.True(t, noon.Equal(c.Canvas().Center()))
	assert.Equal(t, hourMpp, c.Canvas().MsPerPixel())

	c.Canvas().SetResizing(false)
	c.PointerDown(mouse(100, 0))
	assert.Equal(t, Panning, c.State())
}

func TestResizing_InterruptedPinchStillSettles(t *testing.T) {
	c := newTestController()
	c.PointerDown(touch(Point{0, 0}, Point{100, 0}))
	c.PointerMove(touch(Point{0, 0}, Point{130, 0}))
	c.Canvas().SetResizing(true)

	c.PointerMove(touch(Point{0, 0}, Point{200, 0}))
	assert.Equal(t, Idle, c.State())
	assert.True(t, c.Settling())
}

func TestStepZoom(t *testing.T) {
	c := newTestController()
	c.StepZoom(-1)
	assert.Equal(t, coords.Levels[2].MsPerPixel, c.Canvas().MsPerPixel())
	c.StepZoom(1)
	c.StepZoom(1)
	assert.Equal(t, coords.Levels[4].MsPerPixel, c.Canvas().MsPerPixel())
	c.StepZoom(0)
	assert.Equal(t, coords.Levels[4].MsPerPixel, c.Canvas().MsPerPixel())
}

func TestClose_CancelsAnimation(t *testing.T) {
	c := newTestController()
	c.Canvas().SetMsPerPixel(50000)
	c.Snap()
	c.Close()

	assert.False(t, c.Tick(FrameInterval))
	assert.Equal(t, 50000.0, c.Canvas().MsPerPixel())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "panning", Panning.String())
	assert.Equal(t, "pinching", Pinching.String())
	assert.Equal(t, "unknown", State(9).String())
}
