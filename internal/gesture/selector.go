package gesture

import (
	"math"

	"github.com/ayusman/bubbletype/internal/detector"
	"gonum.org/v1/gonum/spatial/r2"
)

// pickHand chooses the drawing hand for this frame, or noHand.
// While drawing, a present locked hand always wins. Otherwise each hand is
// scored by closeness to the anchor and to the start threshold; hands pinched
// tighter than the dead zone are disqualified.
func (s *Session) pickHand(cfg Config, hands []detector.HandLandmarks) int {
	if s.drawing && s.lockedHand != noHand && s.lockedHand < len(hands) {
		return s.lockedHand
	}

	best, bestScore := noHand, math.Inf(-1)
	for i := range hands {
		score := s.scoreHand(cfg, &hands[i])
		// Strict comparison: ties keep the lower index, and a frame where
		// every hand is disqualified yields no pick.
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	return best
}

func (s *Session) scoreHand(cfg Config, h *detector.HandLandmarks) float64 {
	pinch := h.PinchDistance()
	if pinch < cfg.DeadZone {
		return math.Inf(-1)
	}

	anchorScore := 0.0
	if s.hasAnchor {
		anchorScore = -r2.Norm(r2.Sub(h.Tip(detector.IndexTip), s.anchor))
	}
	pinchScore := -math.Abs(pinch - cfg.DrawOn)

	return cfg.AnchorWeight*anchorScore + cfg.PinchWeight*pinchScore
}

// decayAnchor ages the anchor by one frame.
func (s *Session) decayAnchor() {
	if s.anchorHold > 0 {
		s.anchorHold--
		return
	}
	s.hasAnchor = false
}

// trackPick refreshes the anchor on a pick and counts consecutive misses.
// The lock is released after LockLostFramesMax missed frames.
func (s *Session) trackPick(cfg Config, idx int, hands []detector.HandLandmarks) {
	if idx == noHand {
		s.lockLostFrames++
		if s.lockLostFrames > cfg.LockLostFramesMax {
			s.lockedHand = noHand
		}
		return
	}
	s.lockLostFrames = 0
	s.anchor = hands[idx].Tip(detector.IndexTip)
	s.hasAnchor = true
	s.anchorHold = cfg.AnchorHoldFrames
}

// settleLock binds the lock to the chosen hand while drawing and releases it
// otherwise.
func (s *Session) settleLock(idx int) {
	if s.drawing {
		s.lockedHand = idx
		return
	}
	s.lockedHand = noHand
}
