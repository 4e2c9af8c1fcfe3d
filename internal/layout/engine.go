// Package layout keeps time-anchored cards from overlapping vertically and
// enforces their size floors while they are dragged and resized.
package layout

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/runnerr0/momentline/internal/logging"
)

const (
	// PushMargin separates a pushed card from the card that pushed it.
	PushMargin = 4.0
	// OverlapWindow is the timestamp distance within which cards can collide.
	OverlapWindow = 2 * time.Hour
	MinHeight     = 40.0
	MinWidth      = 30.0
	// MinDuration is the shortest span a card may be resized to, in time.
	MinDuration = 5 * time.Minute
)

// Moment is the layout-relevant part of a timeline entry. Width and Height
// are zero when unset, in which case the card is measured from content.
type Moment struct {
	ID         string
	TimelineID string
	Timestamp  time.Time
	EndTime    *time.Time
	Title      string
	Note       string
	Y          float64
	Width      float64
	Height     float64
}

// Placement is a settled vertical position.
type Placement struct {
	ID string
	Y  float64
}

// Size is a card footprint in pixels.
type Size struct {
	Width  float64
	Height float64
}

// ResizeView carries the zoom-dependent inputs of a resize.
type ResizeView struct {
	MsPerPixel float64
	// AxisY is the axis line. Cards whose top is above it may not grow
	// across it.
	AxisY float64
}

// Persister receives every settled layout change. Failures are logged and
// never undo the in-memory layout.
type Persister interface {
	SavePlacements(ctx context.Context, placements []Placement) error
	SaveSize(ctx context.Context, id string, size Size) error
}

// Engine owns the moments of one view while they are dragged and resized.
type Engine struct {
	moments   map[string]*Moment
	order     []string
	measurer  Measurer
	persister Persister
}

// Option configures an Engine.
type Option func(*Engine)

// WithMeasurer replaces DefaultMeasurer.
func WithMeasurer(m Measurer) Option {
	return func(e *Engine) { e.measurer = m }
}

// WithPersister attaches a store for settled positions and sizes.
func WithPersister(p Persister) Option {
	return func(e *Engine) { e.persister = p }
}

// NewEngine creates an empty engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		moments:  make(map[string]*Moment),
		measurer: DefaultMeasurer,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Load replaces the engine's moments.
func (e *Engine) Load(moments []Moment) {
	e.moments = make(map[string]*Moment, len(moments))
	e.order = e.order[:0]
	for _, m := range moments {
		e.Upsert(m)
	}
}

// Upsert adds or replaces a moment.
func (e *Engine) Upsert(m Moment) {
	if _, ok := e.moments[m.ID]; !ok {
		e.order = append(e.order, m.ID)
	}
	cp := m
	e.moments[m.ID] = &cp
}

// Remove forgets a moment.
func (e *Engine) Remove(id string) {
	if _, ok := e.moments[id]; !ok {
		return
	}
	delete(e.moments, id)
	for i, oid := range e.order {
		if oid == id {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}
}

// Moment returns a copy of the moment with the given ID.
func (e *Engine) Moment(id string) (Moment, bool) {
	m, ok := e.moments[id]
	if !ok {
		return Moment{}, false
	}
	return *m, true
}

// Moments returns copies of all moments in load order.
func (e *Engine) Moments() []Moment {
	out := make([]Moment, 0, len(e.order))
	for _, id := range e.order {
		out = append(out, *e.moments[id])
	}
	return out
}

// SizeOf returns the effective footprint of a moment.
func (e *Engine) SizeOf(id string) (Size, error) {
	m, ok := e.moments[id]
	if !ok {
		return Size{}, fmt.Errorf("moment %s not found", id)
	}
	return e.size(m), nil
}

func (e *Engine) size(m *Moment) Size {
	w, h := m.Width, m.Height
	if (w <= 0 || h <= 0) && e.measurer != nil {
		mw, mh := e.measurer.Measure(*m)
		if w <= 0 {
			w = mw
		}
		if h <= 0 {
			h = mh
		}
	}
	return Size{Width: math.Max(MinWidth, w), Height: math.Max(MinHeight, h)}
}

// temporallyClose reports whether two moments can collide on screen. Cards
// far apart in time sit far apart on the x-axis whatever their y.
func temporallyClose(a, b *Moment) bool {
	d := a.Timestamp.Sub(b.Timestamp)
	if d < 0 {
		d = -d
	}
	return d <= OverlapWindow
}

func spansIntersect(aTop, aHeight, bTop, bHeight float64) bool {
	return aTop < bTop+bHeight && bTop < aTop+aHeight
}

// MoveTo places moment id at newY and pushes every temporally close card on
// the same timeline whose span it now intersects. Pushes are computed from
// the positions before the move, in one pass: three or more mutually close
// cards can keep a residual overlap.
//
// The returned placements hold the moved card first, then each pushed card.
func (e *Engine) MoveTo(ctx context.Context, id string, newY float64) ([]Placement, error) {
	moving, ok := e.moments[id]
	if !ok {
		return nil, fmt.Errorf("moment %s not found", id)
	}
	height := e.size(moving).Height
	top, bottom := newY, newY+height

	placements := []Placement{{ID: id, Y: newY}}
	for _, oid := range e.order {
		if oid == id {
			continue
		}
		other := e.moments[oid]
		if other.TimelineID != moving.TimelineID || !temporallyClose(moving, other) {
			continue
		}
		oh := e.size(other).Height
		if !spansIntersect(top, height, other.Y, oh) {
			continue
		}

		y := top - oh - PushMargin
		if newY < other.Y {
			y = bottom + PushMargin
		}
		placements = append(placements, Placement{ID: oid, Y: y})
	}

	for _, p := range placements {
		e.moments[p.ID].Y = p.Y
	}
	logging.Debugf("layout: moved %s to y=%.1f, pushed %d", id, newY, len(placements)-1)

	if e.persister != nil {
		if err := e.persister.SavePlacements(ctx, placements); err != nil {
			logging.Warnf("layout: persisting placements for %s failed: %v", id, err)
		}
	}
	return placements, nil
}

// MinWidthAt is the narrowest a card may be at the given zoom: five minutes
// of time, but never under MinWidth pixels.
func MinWidthAt(msPerPixel float64) float64 {
	if msPerPixel <= 0 {
		return MinWidth
	}
	return math.Max(MinWidth, float64(MinDuration.Milliseconds())/msPerPixel)
}

// Resize grows or shrinks a card by the given deltas. Width never drops
// below MinWidthAt(view.MsPerPixel) and height never below MinHeight. A card
// above the axis is additionally capped so it does not cross the axis line.
func (e *Engine) Resize(ctx context.Context, id string, deltaWidth, deltaHeight float64, view ResizeView) (Size, error) {
	m, ok := e.moments[id]
	if !ok {
		return Size{}, fmt.Errorf("moment %s not found", id)
	}
	cur := e.size(m)

	w := math.Max(MinWidthAt(view.MsPerPixel), cur.Width+deltaWidth)
	h := cur.Height + deltaHeight
	if m.Y < view.AxisY {
		h = math.Min(h, view.AxisY-m.Y)
	}
	h = math.Max(MinHeight, h)

	m.Width, m.Height = w, h
	size := Size{Width: w, Height: h}

	if e.persister != nil {
		if err := e.persister.SaveSize(ctx, id, size); err != nil {
			logging.Warnf("layout: persisting size for %s failed: %v", id, err)
		}
	}
	return size, nil
}

// Overlaps lists pairs of temporally close moments on the same timeline
// whose vertical spans intersect.
func (e *Engine) Overlaps() [][2]string {
	var out [][2]string
	for i, aid := range e.order {
		a := e.moments[aid]
		ah := e.size(a).Height
		for _, bid := range e.order[i+1:] {
			b := e.moments[bid]
			if a.TimelineID != b.TimelineID || !temporallyClose(a, b) {
				continue
			}
			if spansIntersect(a.Y, ah, b.Y, e.size(b).Height) {
				out = append(out, [2]string{aid, bid})
			}
		}
	}
	return out
}
