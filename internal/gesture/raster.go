package gesture

import (
	"math"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/spatial/r2"
)

// randomPhase is the default animation phase source.
func randomPhase() float64 {
	return rand.Float64() * 2 * math.Pi
}

// brush is one accepted brush sample handed to the rasterizer.
type brush struct {
	pos   r2.Vec
	r     float64
	now   time.Time
	style Style
	order int // stroke length before this frame
	phase func() float64
}

func (b brush) dot(p r2.Vec, n int) Dot {
	return newDot(p, b.r, b.style, b.order+n, b.phase())
}

// fillSteps is the number of dots laid between two samples d pixels apart.
func fillSteps(cfg Config, d float64) int {
	steps := int(math.Floor(d / cfg.MinPointDist))
	if steps < 1 {
		steps = 1
	}
	if steps > cfg.MaxGapSteps {
		steps = cfg.MaxGapSteps
	}
	return steps
}

// rasterize turns one drawing sample into zero or more dots.
//
// A freeze after a jump only moves the continuity point. The first sample of
// a segment seeds a single dot. Beyond that, jumps and gaps move the
// continuity point without filling, and samples closer than MinPointDist or
// sooner than MinPointInterval are dropped.
func (s *Session) rasterize(cfg Config, b brush) []Dot {
	if s.freeze > 0 {
		s.freeze--
		s.moveLastDot(b.pos, b.now)
		return nil
	}

	if !s.hasLastDot || s.pendingSeed {
		s.pendingSeed = false
		s.moveLastDot(b.pos, b.now)
		return []Dot{b.dot(b.pos, 0)}
	}

	d := r2.Norm(r2.Sub(b.pos, s.lastDot))
	switch {
	case d > cfg.JumpResetDist:
		s.moveLastDot(b.pos, b.now)
		s.freeze = cfg.FreezeAfterJumpFrames
		s.pendingSeed = true
		return nil
	case d > cfg.MaxGapDist:
		s.moveLastDot(b.pos, b.now)
		return nil
	case d < cfg.MinPointDist:
		return nil
	case b.now.Sub(s.lastDotTime) < cfg.MinPointInterval:
		return nil
	}

	steps := fillSteps(cfg, d)
	dots := make([]Dot, 0, steps)
	from := s.lastDot
	for i := 1; i <= steps; i++ {
		dots = append(dots, b.dot(lerp(from, b.pos, float64(i)/float64(steps)), i-1))
	}
	s.moveLastDot(b.pos, b.now)
	return dots
}

func (s *Session) moveLastDot(p r2.Vec, now time.Time) {
	s.lastDot, s.hasLastDot = p, true
	s.lastDotTime = now
}
