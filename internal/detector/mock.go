package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	mu    sync.Mutex
	hands []HandLandmarks
	err   error
	calls int
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many times Detect was invoked.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// PinchLandmarks returns a right hand whose index tip sits at (x, y) and whose
// thumb tip sits pinch to the right of it. The middle, ring and pinky tips are
// curled well away from the thumb so the index-only guard never fires.
func PinchLandmarks(x, y, pinch float64) HandLandmarks {
	h := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	h.Points[Wrist] = Point3D{X: x + 0.02, Y: y + 0.30}

	h.Points[ThumbCMC] = Point3D{X: x + pinch*0.6, Y: y + 0.22}
	h.Points[ThumbMCP] = Point3D{X: x + pinch*0.8, Y: y + 0.14}
	h.Points[ThumbIP] = Point3D{X: x + pinch*0.9, Y: y + 0.06}
	h.Points[ThumbTip] = Point3D{X: x + pinch, Y: y}

	h.Points[IndexMCP] = Point3D{X: x - 0.01, Y: y + 0.16}
	h.Points[IndexPIP] = Point3D{X: x - 0.01, Y: y + 0.10}
	h.Points[IndexDIP] = Point3D{X: x, Y: y + 0.05}
	h.Points[IndexTip] = Point3D{X: x, Y: y}

	// Curled fingers: tips folded back toward the palm, far from the thumb.
	for i, dx := range [...]float64{-0.04, -0.07, -0.10} {
		base := MiddleMCP + i*4
		h.Points[base] = Point3D{X: x + dx, Y: y + 0.17}
		h.Points[base+1] = Point3D{X: x + dx, Y: y + 0.13}
		h.Points[base+2] = Point3D{X: x + dx, Y: y + 0.16}
		h.Points[base+3] = Point3D{X: x + dx, Y: y + 0.19}
	}

	return h
}

// MiddlePinchLandmarks returns a hand pinching thumb and middle finger while
// the index finger stays open by indexGap. Used to exercise the index-only guard.
func MiddlePinchLandmarks(x, y, indexGap float64) HandLandmarks {
	h := PinchLandmarks(x, y, indexGap)
	thumb := h.Points[ThumbTip]
	h.Points[MiddleTip] = Point3D{X: thumb.X - 0.01, Y: thumb.Y + 0.01}
	return h
}

// OpenPalmLandmarks returns a preset HandLandmarks representing an open palm gesture.
// All fingers are extended outward; thumb-index distance is well above any draw threshold.
func OpenPalmLandmarks() HandLandmarks {
	landmarks := HandLandmarks{
		Handedness: "Left",
		Score:      0.95,
	}

	landmarks.Points[Wrist] = Point3D{X: 0.5, Y: 0.8, Z: 0.0}

	landmarks.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.75, Z: 0.02}
	landmarks.Points[ThumbMCP] = Point3D{X: 0.62, Y: 0.70, Z: 0.03}
	landmarks.Points[ThumbIP] = Point3D{X: 0.68, Y: 0.65, Z: 0.03}
	landmarks.Points[ThumbTip] = Point3D{X: 0.73, Y: 0.60, Z: 0.03}

	landmarks.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.68, Z: 0.0}
	landmarks.Points[IndexPIP] = Point3D{X: 0.57, Y: 0.55, Z: 0.0}
	landmarks.Points[IndexDIP] = Point3D{X: 0.58, Y: 0.45, Z: 0.0}
	landmarks.Points[IndexTip] = Point3D{X: 0.58, Y: 0.35, Z: 0.0}

	landmarks.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.66, Z: 0.0}
	landmarks.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.52, Z: 0.0}
	landmarks.Points[MiddleDIP] = Point3D{X: 0.50, Y: 0.40, Z: 0.0}
	landmarks.Points[MiddleTip] = Point3D{X: 0.50, Y: 0.28, Z: 0.0}

	landmarks.Points[RingMCP] = Point3D{X: 0.45, Y: 0.68, Z: 0.0}
	landmarks.Points[RingPIP] = Point3D{X: 0.43, Y: 0.55, Z: 0.0}
	landmarks.Points[RingDIP] = Point3D{X: 0.42, Y: 0.45, Z: 0.0}
	landmarks.Points[RingTip] = Point3D{X: 0.42, Y: 0.35, Z: 0.0}

	landmarks.Points[PinkyMCP] = Point3D{X: 0.40, Y: 0.70, Z: 0.0}
	landmarks.Points[PinkyPIP] = Point3D{X: 0.37, Y: 0.60, Z: 0.0}
	landmarks.Points[PinkyDIP] = Point3D{X: 0.35, Y: 0.50, Z: 0.0}
	landmarks.Points[PinkyTip] = Point3D{X: 0.34, Y: 0.42, Z: 0.0}

	return landmarks
}
