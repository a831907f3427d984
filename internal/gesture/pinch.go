package gesture

import "github.com/ayusman/bubbletype/internal/detector"

// State is the draw-intent state of the pinch state machine.
type State int

const (
	// Idle means the brush is lifted.
	Idle State = iota
	// Drawing means dots are being laid down.
	Drawing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Drawing:
		return "drawing"
	default:
		return "unknown"
	}
}

// intent is the outcome of one pinch update.
type intent struct {
	want    bool // draw intent after this frame
	proceed bool // continue to motion and rasterization
	stopped bool // a drawing session ended this frame
	started bool // a drawing session began this frame
}

// otherFingerBlocks reports whether a middle, ring or pinky tip is pinching
// the thumb instead of the index tip.
func otherFingerBlocks(cfg Config, h *detector.HandLandmarks) bool {
	indexDist := h.PinchDistance()
	for _, tip := range [...]int{detector.MiddleTip, detector.RingTip, detector.PinkyTip} {
		d := h.ThumbDistance(tip)
		if d < cfg.OtherFingerBlock && d < indexDist {
			return true
		}
	}
	return false
}

// updatePinch runs the pinch state machine for the chosen hand. Stages run in
// a fixed order; each early return leaves the session Idle.
func (s *Session) updatePinch(cfg Config, h *detector.HandLandmarks) intent {
	if cfg.IndexOnly && otherFingerBlocks(cfg, h) {
		s.dropContinuity()
		return intent{}
	}

	raw := h.PinchDistance()
	smoothed := s.pinch.update(raw, cfg.PinchSmoothing)

	if raw < cfg.RawClose {
		return intent{stopped: s.stop(cfg)}
	}

	if s.stopCooldown > 0 {
		s.stopCooldown--
	}

	if smoothed < cfg.Close {
		return intent{stopped: s.stop(cfg)}
	}

	if smoothed < cfg.DeadZone {
		s.dropContinuity()
		return intent{}
	}

	return s.hysteresis(cfg, smoothed)
}

// hysteresis debounces the Idle/Drawing transition around DrawOn/DrawOff.
func (s *Session) hysteresis(cfg Config, d float64) intent {
	if !s.drawing {
		s.stopCount = 0
		if d > cfg.DrawOn && s.stopCooldown == 0 {
			s.startCount++
		} else {
			s.startCount = 0
		}
		if s.startCount >= cfg.StartConfirmFrames {
			s.startCount = 0
			return intent{want: true, proceed: true, started: true}
		}
		return intent{proceed: true}
	}

	s.startCount = 0
	if d < cfg.DrawOff {
		s.stopCount++
	} else {
		s.stopCount = 0
	}
	if s.stopCount >= cfg.StopConfirmFrames {
		return intent{stopped: s.stop(cfg)}
	}
	return intent{want: true, proceed: true}
}
