package render

import (
	"math"

	"github.com/ayusman/bubbletype/internal/gesture"
	"gonum.org/v1/gonum/spatial/r2"
)

// Animation constants, in display frames.
const (
	BounceAmplitude  = 12.0
	BounceRate       = 0.06
	BeatAmplitude    = 0.18
	BeatRate         = 0.10
	AppearSpeed      = 1.6 // dots revealed per frame
	AppearHoldFrames = 24
)

// Placed is a dot after animation, ready to draw.
type Placed struct {
	Center      r2.Vec
	Radius      float64
	Fill        string
	Stroke      string
	StrokeWidth float64
}

// AppearVisible returns how many of n dots are visible t frames into the
// looping appear animation.
func AppearVisible(n int, t int64) int {
	if n == 0 {
		return 0
	}
	appearFrames := int64(math.Ceil(float64(n) / AppearSpeed))
	loop := appearFrames + AppearHoldFrames
	if t < 0 {
		t = 0
	}
	t %= loop
	visible := int(math.Floor(float64(t) * AppearSpeed))
	if visible > n {
		visible = n
	}
	return visible
}

// Animate applies mode at frame to dots. appearStart is the frame the appear
// loop was last restarted.
func Animate(dots []gesture.Dot, mode gesture.Mode, frame, appearStart uint64) []Placed {
	visible := len(dots)
	if mode == gesture.ModeAppear {
		visible = AppearVisible(len(dots), int64(frame)-int64(appearStart))
	}

	var bounce float64
	if mode == gesture.ModeBounce {
		bounce = math.Sin(float64(frame)*BounceRate) * BounceAmplitude
	}

	out := make([]Placed, 0, visible)
	for _, d := range dots[:visible] {
		scale := 1.0
		if mode == gesture.ModeBeat {
			scale = 1 + BeatAmplitude*math.Sin(float64(frame)*BeatRate+d.Phase)
		}
		out = append(out, Placed{
			Center:      r2.Vec{X: d.X, Y: d.Y + bounce},
			Radius:      d.R * scale / 2,
			Fill:        d.Fill,
			Stroke:      d.Stroke,
			StrokeWidth: d.StrokeWidth,
		})
	}
	return out
}
