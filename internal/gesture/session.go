package gesture

import (
	"time"

	"gonum.org/v1/gonum/spatial/r2"
)

// noHand marks an empty lock or an empty pick.
const noHand = -1

// ema is an exponential moving average seeded exactly by its first sample.
type ema struct {
	value float64
	ok    bool
}

func (e *ema) update(x, alpha float64) float64 {
	if !e.ok {
		e.value, e.ok = x, true
		return x
	}
	e.value += (x - e.value) * alpha
	return e.value
}

func (e *ema) reset() { *e = ema{} }

type emaVec struct {
	value r2.Vec
	ok    bool
}

func (e *emaVec) update(x r2.Vec, alpha float64) r2.Vec {
	if !e.ok {
		e.value, e.ok = x, true
		return x
	}
	e.value = lerp(e.value, x, alpha)
	return e.value
}

func (e *emaVec) reset() { *e = emaVec{} }

// Session is the mutable state of one drawing session. It is owned by a
// single goroutine and mutated only by Advance.
type Session struct {
	// active is set once any hand has been seen since the last hard reset.
	active bool

	lockedHand     int
	lockLostFrames int
	anchor         r2.Vec
	hasAnchor      bool
	anchorHold     int

	pinch    ema
	radius   ema
	position emaVec

	drawing      bool
	startCount   int
	stopCount    int
	stopCooldown int

	lastDot     r2.Vec
	hasLastDot  bool
	lastDotTime time.Time
	freeze      int
	pendingSeed bool

	clearArmed bool
}

// NewSession returns a session in its initial, idle state.
func NewSession() *Session {
	return &Session{lockedHand: noHand}
}

// Reset is the hard reset applied when tracking is lost: everything returns
// to the initial state, including lock, anchor and cooldown.
func (s *Session) Reset() {
	*s = Session{lockedHand: noHand}
}

// ResetForTarget drops stroke continuity when the drawing target changes
// (letter switch, redraw, clear) and arms the stop cooldown so a pinch that
// is still held does not immediately draw into the new target.
func (s *Session) ResetForTarget(cfg Config) {
	s.dropContinuity()
	s.pinch.reset()
	s.radius.reset()
	s.lastDotTime = time.Time{}
	s.freeze = 0
	s.stopCooldown = cfg.StopCooldownFrames
}

// Drawing reports the current draw intent.
func (s *Session) Drawing() bool { return s.drawing }

// State returns the pinch state machine state.
func (s *Session) State() State {
	if s.drawing {
		return Drawing
	}
	return Idle
}

// LockedHand returns the locked hand index, if any.
func (s *Session) LockedHand() (int, bool) {
	return s.lockedHand, s.lockedHand != noHand
}

// Cooldown returns the remaining stop-cooldown frames.
func (s *Session) Cooldown() int { return s.stopCooldown }

// Anchor returns the last chosen index-tip position while it is held.
func (s *Session) Anchor() (r2.Vec, bool) {
	return s.anchor, s.hasAnchor
}

// LastDot returns the rasterizer's continuity point in canvas pixels.
func (s *Session) LastDot() (r2.Vec, bool) {
	return s.lastDot, s.hasLastDot
}

// dropContinuity forces Idle and forgets where the stroke was, without
// arming the cooldown.
func (s *Session) dropContinuity() {
	s.drawing = false
	s.startCount, s.stopCount = 0, 0
	s.hasLastDot = false
	s.pendingSeed = false
	s.position.reset()
}

// stop is an immediate stop: continuity is dropped and the cooldown armed.
// When idle it only clears the debounce counters. It reports whether the
// session was drawing.
func (s *Session) stop(cfg Config) bool {
	if !s.drawing {
		s.startCount, s.stopCount = 0, 0
		return false
	}
	s.dropContinuity()
	s.freeze = 0
	s.stopCooldown = cfg.StopCooldownFrames
	return true
}
