package gesture

import (
	"math"
	"time"
)

const (
	// EaseFactor is the share of the remaining distance covered per frame.
	EaseFactor = 0.03
	// SettleEpsilon is the distance (ms/px) at which the settle snaps exactly.
	SettleEpsilon = 1.0
	// FrameInterval is the frame length EaseFactor is defined against.
	FrameInterval = time.Second / 60
)

// Settle eases a zoom value toward a target. It is driven by the host's
// frame loop through Tick and can be cancelled or restarted at any time.
type Settle struct {
	current float64
	target  float64
	active  bool
}

// Start begins (or retargets) the animation.
func (s *Settle) Start(from, to float64) {
	s.current, s.target, s.active = from, to, true
}

// Cancel stops the animation where it is.
func (s *Settle) Cancel() {
	s.active = false
}

// Active reports whether Tick still has work to do.
func (s *Settle) Active() bool { return s.active }

// Target is the value the animation converges on.
func (s *Settle) Target() float64 { return s.target }

// Current is the last value produced.
func (s *Settle) Current() float64 { return s.current }

// Tick advances the animation by dt and returns the new value and whether
// the animation is still running. One FrameInterval moves the value by
// EaseFactor of the remaining distance; other dt values are scaled so the
// wall-clock convergence speed does not depend on the frame rate. A
// non-positive dt counts as one frame.
func (s *Settle) Tick(dt time.Duration) (float64, bool) {
	if !s.active {
		return s.current, false
	}

	factor := EaseFactor
	if dt > 0 && dt != FrameInterval {
		factor = 1 - math.Pow(1-EaseFactor, float64(dt)/float64(FrameInterval))
	}
	s.current += (s.target - s.current) * factor

	if math.Abs(s.target-s.current) < SettleEpsilon {
		s.current = s.target
		s.active = false
	}
	return s.current, s.active
}
