// Package canvas holds the single-writer view state of one timeline: the
// centre time, the zoom value and the active timeline.
package canvas

import (
	"time"

	"github.com/runnerr0/momentline/internal/coords"
)

// State is owned by one view. The gesture controller and explicit jump/zoom
// commands are its only writers; renderers read it through View.
type State struct {
	center     time.Time
	msPerPixel float64
	timelineID string
	width      float64
	resizing   bool
}

// New creates a state centred on center at the given zoom, clamped into
// the zoom table.
func New(timelineID string, center time.Time, msPerPixel, viewportWidth float64) *State {
	return &State{
		center:     center,
		msPerPixel: coords.ClampZoom(msPerPixel),
		timelineID: timelineID,
		width:      viewportWidth,
	}
}

func (s *State) Center() time.Time { return s.center }
func (s *State) MsPerPixel() float64 { return s.msPerPixel }
func (s *State) TimelineID() string { return s.timelineID }
func (s *State) ViewportWidth() float64 { return s.width }

// View returns the geometry for rendering and hit-testing.
func (s *State) View() coords.View {
	return coords.View{Center: s.center, MsPerPixel: s.msPerPixel, Width: s.width}
}

// Level is the zoom level currently in effect.
func (s *State) Level() coords.ZoomLevel {
	return coords.LevelFor(s.msPerPixel)
}

// SetCenter moves the view to t without changing zoom.
func (s *State) SetCenter(t time.Time) {
	s.center = t
}

// PanPixels shifts the centre by dx screen pixels; content follows the
// pointer, so a positive dx moves the centre back in time.
func (s *State) PanPixels(dx float64) {
	s.center = s.center.Add(-coords.Milliseconds(dx * s.msPerPixel))
}

// SetMsPerPixel applies a continuous zoom value. Out-of-range values are
// clamped, never rejected.
func (s *State) SetMsPerPixel(v float64) {
	s.msPerPixel = coords.ClampZoom(v)
}

// SetViewportWidth updates the width after a resize of the host surface.
func (s *State) SetViewportWidth(w float64) {
	if w > 0 {
		s.width = w
	}
}

// SetTimeline switches the active timeline.
func (s *State) SetTimeline(id string) {
	s.timelineID = id
}

// JumpTo centres the view on t.
func (s *State) JumpTo(t time.Time) {
	s.SetCenter(t)
}

// ZoomToLevel jumps to table entry idx; out-of-range indexes are clamped.
func (s *State) ZoomToLevel(idx int) {
	if idx < 0 {
		idx = 0
	}
	if idx >= len(coords.Levels) {
		idx = len(coords.Levels) - 1
	}
	s.msPerPixel = coords.Levels[idx].MsPerPixel
}

// ZoomIn snaps to the next finer table entry.
func (s *State) ZoomIn() {
	s.msPerPixel = coords.StepZoom(s.msPerPixel, -1)
}

// ZoomOut snaps to the next coarser table entry.
func (s *State) ZoomOut() {
	s.msPerPixel = coords.StepZoom(s.msPerPixel, 1)
}

// Resizing reports whether a moment resize handle is being dragged. While
// set, canvas gestures are ignored.
func (s *State) Resizing() bool { return s.resizing }

// SetResizing toggles the resize flag.
func (s *State) SetResizing(v bool) { s.resizing = v }

// Snapshot is the persisted form of a State.
type Snapshot struct {
	TimelineID string
	Center     time.Time
	MsPerPixel float64
}

// Snapshot captures the state for an external store. The zoom value is
// snapped so a snapshot taken mid-settle restores to a table entry.
func (s *State) Snapshot() Snapshot {
	return Snapshot{
		TimelineID: s.timelineID,
		Center:     s.center,
		MsPerPixel: coords.SnapZoom(s.msPerPixel),
	}
}

// Restore applies a snapshot, clamping its zoom value.
func (s *State) Restore(snap Snapshot) {
	if snap.TimelineID != "" {
		s.timelineID = snap.TimelineID
	}
	if !snap.Center.IsZero() {
		s.center = snap.Center
	}
	if snap.MsPerPixel > 0 {
		s.msPerPixel = coords.ClampZoom(snap.MsPerPixel)
	}
}
