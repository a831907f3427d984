// Package gesture turns a per-frame hand-landmark stream into brush dots.
//
// A frame flows through five stages, all operating on one Session:
//
//  1. hand selection: pick the drawing hand, keep it locked while drawing
//  2. pinch state machine: hysteresis, debounce and cooldown on pinch distance
//  3. motion filter: smoothed brush position and radius
//  4. rasterizer: spacing, gap fill and jump rejection into Dots
//  5. clear gesture: a second hand opening then closing wipes the stroke
//
// Nothing in this package blocks, logs or returns errors for bad input;
// every degraded condition falls back to "not drawing".
package gesture

import (
	"errors"
	"fmt"
	"time"
)

// Config holds the tunables of the pipeline. Distances suffixed "normalized"
// are in the detector's [0,1] image plane; the rest are canvas pixels.
type Config struct {
	// Pinch thresholds (normalized).
	DrawOn   float64 `yaml:"draw_on"`
	DrawOff  float64 `yaml:"draw_off"`
	DeadZone float64 `yaml:"dead_zone"`
	Close    float64 `yaml:"close"`
	RawClose float64 `yaml:"raw_close"`

	PinchSmoothing     float64 `yaml:"pinch_smoothing"`
	StartConfirmFrames int     `yaml:"start_confirm_frames"`
	StopConfirmFrames  int     `yaml:"stop_confirm_frames"`
	StopCooldownFrames int     `yaml:"stop_cooldown_frames"`

	// Finger isolation: block drawing when a non-index fingertip is nearer
	// the thumb than the index tip and closer than OtherFingerBlock.
	IndexOnly        bool    `yaml:"index_only"`
	OtherFingerBlock float64 `yaml:"other_finger_block"`

	// Hand selection.
	AnchorWeight      float64 `yaml:"anchor_weight"`
	PinchWeight       float64 `yaml:"pinch_weight"`
	LockLostFramesMax int     `yaml:"lock_lost_frames_max"`
	AnchorHoldFrames  int     `yaml:"anchor_hold_frames"`

	// Brush position: blend from index tip toward thumb tip, then smoothing.
	BlendMin          float64 `yaml:"blend_min"`
	BlendMax          float64 `yaml:"blend_max"`
	PositionSmoothing float64 `yaml:"position_smoothing"`

	// Brush radius (pixels).
	RadiusMinDist   float64 `yaml:"radius_min_dist"`
	RadiusMaxDist   float64 `yaml:"radius_max_dist"`
	RadiusMin       float64 `yaml:"radius_min"`
	RadiusMax       float64 `yaml:"radius_max"`
	RadiusSmoothing float64 `yaml:"radius_smoothing"`

	// Rasterization (pixels).
	MinPointDist          float64       `yaml:"min_point_dist"`
	MinPointInterval      time.Duration `yaml:"min_point_interval"`
	MaxGapSteps           int           `yaml:"max_gap_steps"`
	JumpResetDist         float64       `yaml:"jump_reset_dist"`
	MaxGapDist            float64       `yaml:"max_gap_dist"`
	FreezeAfterJumpFrames int           `yaml:"freeze_after_jump_frames"`

	// Clear gesture (normalized).
	ClearOpen  float64 `yaml:"clear_open"`
	ClearClose float64 `yaml:"clear_close"`
}

// DefaultConfig returns the tuning used for a 860px square stage with a
// 30-60 FPS camera.
func DefaultConfig() Config {
	return Config{
		DrawOn:   0.095,
		DrawOff:  0.070,
		DeadZone: 0.065,
		Close:    0.060,
		RawClose: 0.058,

		PinchSmoothing:     0.18,
		StartConfirmFrames: 2,
		StopConfirmFrames:  2,
		StopCooldownFrames: 7,

		IndexOnly:        true,
		OtherFingerBlock: 0.060,

		AnchorWeight:      2.2,
		PinchWeight:       0.8,
		LockLostFramesMax: 8,
		AnchorHoldFrames:  10,

		BlendMin:          0.18,
		BlendMax:          0.48,
		PositionSmoothing: 0.35,

		RadiusMinDist:   90,
		RadiusMaxDist:   200,
		RadiusMin:       15,
		RadiusMax:       50,
		RadiusSmoothing: 0.22,

		MinPointDist:          14,
		MinPointInterval:      0,
		MaxGapSteps:           18,
		JumpResetDist:         120,
		MaxGapDist:            160,
		FreezeAfterJumpFrames: 2,

		ClearOpen:  0.10,
		ClearClose: 0.05,
	}
}

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("invalid gesture config")

// Validate checks that thresholds are ordered and factors are in range.
func (c Config) Validate() error {
	for name, f := range map[string]float64{
		"pinch_smoothing":    c.PinchSmoothing,
		"position_smoothing": c.PositionSmoothing,
		"radius_smoothing":   c.RadiusSmoothing,
	} {
		if f <= 0 || f > 1 {
			return fmt.Errorf("%w: %s must be in (0,1], got %v", ErrInvalidConfig, name, f)
		}
	}

	switch {
	case c.RawClose > c.Close:
		return fmt.Errorf("%w: raw_close %v above close %v", ErrInvalidConfig, c.RawClose, c.Close)
	case c.Close > c.DeadZone:
		return fmt.Errorf("%w: close %v above dead_zone %v", ErrInvalidConfig, c.Close, c.DeadZone)
	case c.DeadZone > c.DrawOff:
		return fmt.Errorf("%w: dead_zone %v above draw_off %v", ErrInvalidConfig, c.DeadZone, c.DrawOff)
	case c.DrawOff >= c.DrawOn:
		return fmt.Errorf("%w: draw_off %v must be below draw_on %v", ErrInvalidConfig, c.DrawOff, c.DrawOn)
	case c.StartConfirmFrames < 1 || c.StopConfirmFrames < 1:
		return fmt.Errorf("%w: confirm frames must be at least 1", ErrInvalidConfig)
	case c.StopCooldownFrames < 0 || c.FreezeAfterJumpFrames < 0:
		return fmt.Errorf("%w: frame counts must not be negative", ErrInvalidConfig)
	case c.LockLostFramesMax < 0 || c.AnchorHoldFrames < 0:
		return fmt.Errorf("%w: hold frames must not be negative", ErrInvalidConfig)
	case c.BlendMin < 0 || c.BlendMax > 1 || c.BlendMin > c.BlendMax:
		return fmt.Errorf("%w: blend range [%v,%v] outside [0,1]", ErrInvalidConfig, c.BlendMin, c.BlendMax)
	case c.RadiusMaxDist <= c.RadiusMinDist:
		return fmt.Errorf("%w: radius_max_dist must exceed radius_min_dist", ErrInvalidConfig)
	case c.RadiusMin <= 0 || c.RadiusMax < c.RadiusMin:
		return fmt.Errorf("%w: radius range [%v,%v] is empty", ErrInvalidConfig, c.RadiusMin, c.RadiusMax)
	case c.MinPointDist <= 0 || c.MaxGapSteps < 1:
		return fmt.Errorf("%w: min_point_dist and max_gap_steps must be positive", ErrInvalidConfig)
	case c.JumpResetDist <= 0 || c.MaxGapDist <= 0:
		return fmt.Errorf("%w: jump_reset_dist and max_gap_dist must be positive", ErrInvalidConfig)
	case c.MinPointInterval < 0:
		return fmt.Errorf("%w: min_point_interval must not be negative", ErrInvalidConfig)
	case c.ClearClose >= c.ClearOpen:
		return fmt.Errorf("%w: clear_close %v must be below clear_open %v", ErrInvalidConfig, c.ClearClose, c.ClearOpen)
	}
	return nil
}
