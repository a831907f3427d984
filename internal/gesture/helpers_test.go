package gesture

import (
	"testing"
	"time"

	"github.com/ayusman/bubbletype/internal/detector"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
)

const stageSize = 860

// squareMapper maps the normalized plane onto a square stage without cropping.
type squareMapper struct{ size float64 }

func (m squareMapper) ToCanvas(p detector.Point3D) r2.Vec {
	return r2.Vec{X: p.X * m.size, Y: p.Y * m.size}
}

var stage = squareMapper{size: stageSize}

func fixedPhase() float64 { return 1.5 }

// driver feeds frames through Advance and accumulates the stroke like a target.
type driver struct {
	t      *testing.T
	cfg    Config
	s      *Session
	style  Style
	mode   Mode
	now    time.Time
	stroke []Dot
}

func newDriver(t *testing.T, cfg Config) *driver {
	t.Helper()
	require.NoError(t, cfg.Validate())
	return &driver{
		t:     t,
		cfg:   cfg,
		s:     NewSession(),
		style: DefaultStyle(),
		mode:  ModeNone,
		now:   time.UnixMilli(1_700_000_000_000),
	}
}

func (d *driver) step(hands ...detector.HandLandmarks) Output {
	d.now = d.now.Add(16 * time.Millisecond)
	out := Advance(d.cfg, d.s, stage, Input{
		Hands:     hands,
		Now:       d.now,
		Style:     d.style,
		Mode:      d.mode,
		StrokeLen: len(d.stroke),
		Phase:     fixedPhase,
	})
	if out.Clear {
		d.stroke = nil
	}
	d.stroke = append(d.stroke, out.Dots...)
	return out
}

// startDrawing holds an open pinch at (x,y) until drawing begins.
func (d *driver) startDrawing(x, y float64) Output {
	d.t.Helper()
	for i := 0; i < d.cfg.StartConfirmFrames+d.cfg.StopCooldownFrames+1; i++ {
		out := d.step(detector.PinchLandmarks(x, y, 0.12))
		if out.Drawing {
			return out
		}
	}
	d.t.Fatal("drawing never started")
	return Output{}
}

// instantConfig disables pinch and position smoothing so each frame's raw
// value drives the state machine directly.
func instantConfig() Config {
	cfg := DefaultConfig()
	cfg.PinchSmoothing = 1
	cfg.PositionSmoothing = 1
	cfg.RadiusSmoothing = 1
	return cfg
}

// blended is the expected brush position for a PinchLandmarks hand with the
// blend weight saturated at BlendMax.
func blended(cfg Config, x, y, pinch float64) r2.Vec {
	index := r2.Vec{X: x * stageSize, Y: y * stageSize}
	thumb := r2.Vec{X: (x + pinch) * stageSize, Y: y * stageSize}
	return lerp(index, thumb, cfg.BlendMax)
}
