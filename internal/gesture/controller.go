// Package gesture turns raw pointer, touch and wheel input into pan, vertical
// scroll and zoom changes on a canvas.State.
package gesture

import (
	"math"
	"time"

	"github.com/runnerr0/momentline/internal/canvas"
	"github.com/runnerr0/momentline/internal/coords"
	"github.com/runnerr0/momentline/internal/logging"
)

// DirectionRatio is how much one axis must dominate the other for a touch
// move to count as a horizontal pan or a vertical scroll.
const DirectionRatio = 1.5

// WheelZoomRate converts wheel delta units into a zoom exponent.
const WheelZoomRate = 0.01

// State is the controller's gesture state.
type State int

const (
	Idle State = iota
	Panning
	Pinching
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Panning:
		return "panning"
	case Pinching:
		return "pinching"
	}
	return "unknown"
}

// PointerKind distinguishes mouse from touch input.
type PointerKind int

const (
	Mouse PointerKind = iota
	Touch
)

// Point is a screen position in pixels.
type Point struct {
	X, Y float64
}

// PointerEvent carries every active contact point: the cursor for a mouse,
// all current touches for touch input.
type PointerEvent struct {
	Kind   PointerKind
	Points []Point
}

// WheelEvent is a wheel or trackpad scroll. Zoom is set when the zoom
// modifier is held.
type WheelEvent struct {
	DeltaX float64
	DeltaY float64
	Zoom   bool
}

// Controller is the gesture state machine. It is the only input-driven
// writer of its canvas state and is not safe for concurrent use.
type Controller struct {
	canvas *canvas.State
	state  State
	kind   PointerKind

	panStart    Point
	panCenter   time.Time
	lastPoint   Point
	pinchDist   float64
	pinchMsPerP float64

	settle           Settle
	onVerticalScroll func(dy float64)
}

// Option configures a Controller.
type Option func(*Controller)

// OnVerticalScroll registers the callback for vertical-dominant touch
// moves. It receives -dy so content follows natural scrolling.
func OnVerticalScroll(fn func(dy float64)) Option {
	return func(c *Controller) { c.onVerticalScroll = fn }
}

// NewController drives cs.
func NewController(cs *canvas.State, opts ...Option) *Controller {
	c := &Controller{canvas: cs}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current gesture state.
func (c *Controller) State() State { return c.state }

// Canvas returns the driven canvas state.
func (c *Controller) Canvas() *canvas.State { return c.canvas }

// Settling reports whether the post-pinch zoom animation is running.
func (c *Controller) Settling() bool { return c.settle.Active() }

// SettleTarget is the table value the running settle converges on.
func (c *Controller) SettleTarget() float64 { return c.settle.Target() }

// suppressed reports whether a card resize owns the pointer. A pinch cut
// short this way still settles so the zoom comes to rest on a table entry.
func (c *Controller) suppressed() bool {
	if !c.canvas.Resizing() {
		return false
	}
	if c.state != Idle {
		c.reset()
	}
	return true
}

// PointerDown starts a pan (one contact) or a pinch (two touches).
func (c *Controller) PointerDown(ev PointerEvent) {
	if c.suppressed() {
		return
	}
	switch {
	case ev.Kind == Touch && len(ev.Points) == 2:
		c.beginPinch(ev.Points[0], ev.Points[1])
	case len(ev.Points) == 1:
		if c.state == Pinching {
			c.reset()
		}
		c.beginPan(ev.Kind, ev.Points[0])
	default:
		c.reset()
	}
}

// PointerMove applies a pan, vertical scroll or pinch step.
func (c *Controller) PointerMove(ev PointerEvent) {
	if c.suppressed() {
		return
	}
	switch c.state {
	case Panning:
		switch {
		case ev.Kind == Touch && len(ev.Points) == 2:
			c.beginPinch(ev.Points[0], ev.Points[1])
		case len(ev.Points) == 1:
			c.pan(ev.Points[0])
		default:
			c.reset()
		}
	case Pinching:
		if len(ev.Points) != 2 {
			c.reset()
			return
		}
		c.pinch(ev.Points[0], ev.Points[1])
	}
}

// PointerUp ends the current gesture. Ending a pinch starts the settle.
func (c *Controller) PointerUp(PointerEvent) {
	if c.suppressed() {
		return
	}
	c.reset()
}

// Wheel zooms directly (no settle) when ev.Zoom is set and pans
// horizontally otherwise. A purely vertical wheel pans too.
func (c *Controller) Wheel(ev WheelEvent) {
	if c.suppressed() {
		return
	}
	if ev.Zoom {
		c.settle.Cancel()
		scale := math.Exp(-ev.DeltaY * WheelZoomRate)
		c.canvas.SetMsPerPixel(c.canvas.MsPerPixel() / scale)
		return
	}
	d := ev.DeltaX
	if d == 0 {
		d = ev.DeltaY
	}
	c.canvas.PanPixels(-d)
}

// StepZoom snaps to the adjacent zoom table entry, as zoom buttons do.
// Any running settle is cancelled first.
func (c *Controller) StepZoom(dir int) {
	c.settle.Cancel()
	if dir < 0 {
		c.canvas.ZoomIn()
	} else if dir > 0 {
		c.canvas.ZoomOut()
	}
}

// Snap starts a settle from the current zoom to its table entry.
func (c *Controller) Snap() {
	cur := c.canvas.MsPerPixel()
	c.settle.Start(cur, coords.SnapZoom(cur))
}

// Tick advances the settle animation by one host frame of length dt and
// reports whether another frame is needed.
func (c *Controller) Tick(dt time.Duration) bool {
	if !c.settle.Active() {
		return false
	}
	v, running := c.settle.Tick(dt)
	c.canvas.SetMsPerPixel(v)
	return running
}

// Close cancels any animation; call it on view teardown.
func (c *Controller) Close() {
	c.settle.Cancel()
	c.state = Idle
}

func (c *Controller) beginPan(kind PointerKind, p Point) {
	c.state = Panning
	c.kind = kind
	c.panStart = p
	c.lastPoint = p
	c.panCenter = c.canvas.Center()
}

func (c *Controller) pan(p Point) {
	if c.kind == Mouse {
		// Mouse pans are horizontal only and measured from the press.
		dx := p.X - c.panStart.X
		c.canvas.SetCenter(c.panCenter.Add(-coords.Milliseconds(dx * c.canvas.MsPerPixel())))
		c.lastPoint = p
		return
	}

	dx := p.X - c.lastPoint.X
	dy := p.Y - c.lastPoint.Y
	c.lastPoint = p

	switch {
	case math.Abs(dx) > DirectionRatio*math.Abs(dy):
		c.canvas.PanPixels(dx)
	case math.Abs(dy) > DirectionRatio*math.Abs(dx):
		if c.onVerticalScroll != nil {
			c.onVerticalScroll(-dy)
		}
	}
}

func distance(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

func (c *Controller) beginPinch(a, b Point) {
	c.settle.Cancel()
	c.state = Pinching
	c.pinchDist = distance(a, b)
	c.pinchMsPerP = c.canvas.MsPerPixel()
	logging.Debugf("gesture: pinch start dist=%.1f ms/px=%.0f", c.pinchDist, c.pinchMsPerP)
}

func (c *Controller) pinch(a, b Point) {
	dist := distance(a, b)
	if dist > 0 && c.pinchDist > 0 {
		scale := dist / c.pinchDist
		c.canvas.SetMsPerPixel(c.pinchMsPerP / scale)
	}
	// Rebase so the next step is relative to this frame.
	c.pinchDist = dist
	c.pinchMsPerP = c.canvas.MsPerPixel()
}

// reset returns to Idle. Leaving a pinch always starts a settle so the zoom
// comes to rest on a table entry.
func (c *Controller) reset() {
	if c.state == Pinching {
		c.Snap()
		logging.Debugf("gesture: pinch end, settling to %.0f ms/px", c.settle.Target())
	}
	c.state = Idle
}
