package gesture

import (
	"github.com/ayusman/bubbletype/internal/detector"
	"gonum.org/v1/gonum/spatial/r2"
)

// Mapper converts normalized landmark coordinates to canvas pixels.
type Mapper interface {
	ToCanvas(p detector.Point3D) r2.Vec
}

func lerp(a, b r2.Vec, t float64) r2.Vec {
	return r2.Add(a, r2.Scale(t, r2.Sub(b, a)))
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// remap maps x from [inLo,inHi] to [outLo,outHi] without clamping.
func remap(x, inLo, inHi, outLo, outHi float64) float64 {
	return outLo + (x-inLo)*(outHi-outLo)/(inHi-inLo)
}

// blendWeight is how far the brush sits from the index tip toward the thumb
// tip. A barely open pinch stays near the index; a wide one moves toward the
// midpoint.
func blendWeight(cfg Config, smoothedPinch float64) float64 {
	w := remap(smoothedPinch, cfg.DeadZone, cfg.DrawOn, cfg.BlendMin, cfg.BlendMax)
	return clamp(w, cfg.BlendMin, cfg.BlendMax)
}

// brushRadius maps the pixel distance between index and thumb tips to a
// dot radius.
func brushRadius(cfg Config, pinchPx float64) float64 {
	d := clamp(pinchPx, cfg.RadiusMinDist, cfg.RadiusMaxDist)
	return remap(d, cfg.RadiusMinDist, cfg.RadiusMaxDist, cfg.RadiusMin, cfg.RadiusMax)
}

// updateBrush advances the position and radius filters for the chosen hand.
func (s *Session) updateBrush(cfg Config, m Mapper, h *detector.HandLandmarks) (r2.Vec, float64) {
	index := m.ToCanvas(h.Points[detector.IndexTip])
	thumb := m.ToCanvas(h.Points[detector.ThumbTip])

	w := blendWeight(cfg, s.pinch.value)
	pos := s.position.update(lerp(index, thumb, w), cfg.PositionSmoothing)

	r := s.radius.update(brushRadius(cfg, r2.Norm(r2.Sub(index, thumb))), cfg.RadiusSmoothing)
	return pos, r
}
