package gesture

import "github.com/ayusman/bubbletype/internal/detector"

// clearHand returns the hand watched for the clear gesture: the lowest-indexed
// hand that is not the drawing hand, or the second hand when none was picked.
func clearHand(n, drawing int) int {
	if drawing == noHand {
		return 1
	}
	for i := 0; i < n; i++ {
		if i != drawing {
			return i
		}
	}
	return noHand
}

// checkClear arms on an open pinch of the second hand and fires when that
// hand then closes. Fewer than two hands disarms it.
func (s *Session) checkClear(cfg Config, hands []detector.HandLandmarks, drawing int) bool {
	if len(hands) < 2 {
		s.clearArmed = false
		return false
	}

	d := hands[clearHand(len(hands), drawing)].PinchDistance()

	if d > cfg.ClearOpen {
		s.clearArmed = true
		return false
	}
	if s.clearArmed && d < cfg.ClearClose {
		s.clearArmed = false
		return true
	}
	return false
}
