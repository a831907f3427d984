// Package detector provides the hand-landmark record, frame validation and
// detector implementations feeding the drawing pipeline.
package detector

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// coordSlack is how far outside the normalized [0,1] plane a landmark may sit.
// MediaPipe reports slightly negative or >1 values for fingertips leaving the frame.
const coordSlack = 0.5

// ErrMalformedHand is returned by Validate for landmarks that cannot be used.
var ErrMalformedHand = errors.New("malformed hand landmarks")

// Point3D represents a landmark in normalized image coordinates.
// Z is relative depth; the drawing pipeline only uses X and Y.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// XY returns the point projected onto the image plane.
func (p Point3D) XY() r2.Vec {
	return r2.Vec{X: p.X, Y: p.Y}
}

// HandLandmarks represents the 21 hand landmarks detected by MediaPipe.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// Tip returns the 2-D position of landmark i.
func (h *HandLandmarks) Tip(i int) r2.Vec {
	return h.Points[i].XY()
}

// PinchDistance is the normalized-plane distance between thumb tip and index tip.
func (h *HandLandmarks) PinchDistance() float64 {
	return r2.Norm(r2.Sub(h.Tip(IndexTip), h.Tip(ThumbTip)))
}

// ThumbDistance is the normalized-plane distance between the thumb tip and landmark i.
func (h *HandLandmarks) ThumbDistance(i int) float64 {
	return r2.Norm(r2.Sub(h.Tip(i), h.Tip(ThumbTip)))
}

// Validate reports whether every landmark is finite and close to the image plane.
func (h *HandLandmarks) Validate() error {
	for i, p := range h.Points {
		for _, v := range [...]float64{p.X, p.Y, p.Z} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: landmark %d is not finite", ErrMalformedHand, i)
			}
		}
		if p.X < -coordSlack || p.X > 1+coordSlack || p.Y < -coordSlack || p.Y > 1+coordSlack {
			return fmt.Errorf("%w: landmark %d at (%.3f, %.3f) is off the image plane", ErrMalformedHand, i, p.X, p.Y)
		}
	}
	return nil
}
