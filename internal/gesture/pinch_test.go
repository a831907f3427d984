package gesture

import (
	"testing"

	"github.com/ayusman/bubbletype/internal/detector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "drawing", Drawing.String())
	assert.Equal(t, "unknown", State(7).String())
}

func TestPinch_RawCloseStopsSameFrame(t *testing.T) {
	// Default smoothing: the smoothed distance lags well above the
	// close threshold, only the raw value is below it.
	d := newDriver(t, DefaultConfig())
	d.startDrawing(0.3, 0.5)
	require.Equal(t, Drawing, d.s.State())

	out := d.step(detector.PinchLandmarks(0.3, 0.5, 0.05))

	assert.False(t, out.Drawing)
	assert.True(t, out.Stopped)
	assert.Empty(t, out.Dots)
	assert.Equal(t, d.cfg.StopCooldownFrames, d.s.Cooldown())
	_, hasLast := d.s.LastDot()
	assert.False(t, hasLast)
}

func TestPinch_StartDebounce(t *testing.T) {
	t.Run("exactly N consecutive frames above on", func(t *testing.T) {
		cfg := instantConfig()
		cfg.StartConfirmFrames = 3
		d := newDriver(t, cfg)

		for i := 0; i < 2; i++ {
			out := d.step(detector.PinchLandmarks(0.3, 0.5, 0.12))
			assert.False(t, out.Drawing, "frame %d", i+1)
		}
		out := d.step(detector.PinchLandmarks(0.3, 0.5, 0.12))
		assert.True(t, out.Drawing)
		assert.True(t, out.Started)
	})

	t.Run("a frame below on resets the count", func(t *testing.T) {
		d := newDriver(t, instantConfig())

		assert.False(t, d.step(detector.PinchLandmarks(0.3, 0.5, 0.12)).Drawing)
		// Between off and on: no stop, but the start count resets.
		assert.False(t, d.step(detector.PinchLandmarks(0.3, 0.5, 0.08)).Drawing)
		assert.False(t, d.step(detector.PinchLandmarks(0.3, 0.5, 0.12)).Drawing)
		assert.True(t, d.step(detector.PinchLandmarks(0.3, 0.5, 0.12)).Drawing)
	})

	t.Run("a raw close frame resets the count", func(t *testing.T) {
		d := newDriver(t, instantConfig())

		assert.False(t, d.step(detector.PinchLandmarks(0.3, 0.5, 0.12)).Drawing)
		assert.False(t, d.step(detector.PinchLandmarks(0.3, 0.5, 0.05)).Drawing)
		assert.False(t, d.step(detector.PinchLandmarks(0.3, 0.5, 0.12)).Drawing)
		assert.Zero(t, d.s.Cooldown(), "stopping while idle must not arm the cooldown")
	})
}

func TestPinch_StopHysteresis(t *testing.T) {
	d := newDriver(t, instantConfig())
	d.startDrawing(0.3, 0.5)

	// Below on but above off keeps drawing.
	assert.True(t, d.step(detector.PinchLandmarks(0.3, 0.5, 0.08)).Drawing)

	// Below off needs StopConfirmFrames consecutive frames.
	assert.True(t, d.step(detector.PinchLandmarks(0.3, 0.5, 0.068)).Drawing)
	out := d.step(detector.PinchLandmarks(0.3, 0.5, 0.068))
	assert.False(t, out.Drawing)
	assert.True(t, out.Stopped)
	assert.Equal(t, d.cfg.StopCooldownFrames, d.s.Cooldown())

	_, hasLast := d.s.LastDot()
	assert.False(t, hasLast)
	assert.False(t, d.s.position.ok)
}

func TestPinch_HeldBelowOffStaysStopped(t *testing.T) {
	d := newDriver(t, instantConfig())
	d.startDrawing(0.3, 0.5)

	var stops int
	for i := 0; i < 6; i++ {
		out := d.step(detector.PinchLandmarks(0.3, 0.5, 0.068))
		if out.Stopped {
			stops++
		}
		if i == 0 {
			continue
		}
		// From the confirming frame on the brush stays lifted.
		assert.False(t, out.Drawing, "frame %d", i+1)
		assert.Empty(t, out.Dots, "frame %d", i+1)
		_, locked := d.s.LockedHand()
		assert.False(t, locked, "frame %d", i+1)
		assert.Equal(t, Idle, d.s.State())
	}
	assert.Equal(t, 1, stops, "one stop per stroke")
}

func TestPinch_CooldownBlocksRestart(t *testing.T) {
	d := newDriver(t, instantConfig())
	d.startDrawing(0.3, 0.5)

	require.True(t, d.step(detector.PinchLandmarks(0.3, 0.5, 0.05)).Stopped)
	require.Equal(t, 7, d.s.Cooldown())

	// The cooldown ticks on every frame that passes the hard stops. The
	// start count only begins once it reaches zero, so a restart needs
	// cooldown frames plus StartConfirmFrames-1 more.
	for i := 1; i <= 7; i++ {
		out := d.step(detector.PinchLandmarks(0.3, 0.5, 0.12))
		assert.False(t, out.Drawing, "frame %d of cooldown", i)
		assert.Equal(t, 7-i, d.s.Cooldown())
	}
	out := d.step(detector.PinchLandmarks(0.3, 0.5, 0.12))
	assert.True(t, out.Drawing)
}

func TestPinch_DeadZone(t *testing.T) {
	d := newDriver(t, instantConfig())
	d.startDrawing(0.3, 0.5)

	out := d.step(detector.PinchLandmarks(0.3, 0.5, 0.062))
	assert.False(t, out.Drawing)
	assert.False(t, out.Stopped, "dead zone is not a confirmed stop")
	assert.Zero(t, d.s.Cooldown())
	_, hasLast := d.s.LastDot()
	assert.False(t, hasLast)
}

func TestPinch_IndexOnlyGuard(t *testing.T) {
	t.Run("middle finger pinch never draws", func(t *testing.T) {
		d := newDriver(t, instantConfig())
		for i := 0; i < 10; i++ {
			out := d.step(detector.MiddlePinchLandmarks(0.3, 0.5, 0.12))
			assert.False(t, out.Drawing)
			assert.Empty(t, out.Dots)
		}
	})

	t.Run("guard interrupts drawing", func(t *testing.T) {
		d := newDriver(t, instantConfig())
		d.startDrawing(0.3, 0.5)

		out := d.step(detector.MiddlePinchLandmarks(0.3, 0.5, 0.12))
		assert.False(t, out.Drawing)
		assert.Zero(t, d.s.Cooldown())
		assert.False(t, d.s.position.ok)
	})

	t.Run("disabled guard allows drawing", func(t *testing.T) {
		cfg := instantConfig()
		cfg.IndexOnly = false
		d := newDriver(t, cfg)

		d.step(detector.MiddlePinchLandmarks(0.3, 0.5, 0.12))
		assert.True(t, d.step(detector.MiddlePinchLandmarks(0.3, 0.5, 0.12)).Drawing)
	})
}

func TestPinch_SmoothedCloseStops(t *testing.T) {
	cfg := instantConfig()
	d := newDriver(t, cfg)
	d.startDrawing(0.3, 0.5)

	// Raw 0.059 is above RawClose but below Close once smoothing is instant.
	out := d.step(detector.PinchLandmarks(0.3, 0.5, 0.059))
	assert.False(t, out.Drawing)
	assert.True(t, out.Stopped)
	assert.Equal(t, cfg.StopCooldownFrames, d.s.Cooldown())
}

func TestPinch_AppearRestartOnStop(t *testing.T) {
	d := newDriver(t, instantConfig())
	d.mode = ModeAppear
	d.startDrawing(0.3, 0.5)

	out := d.step(detector.PinchLandmarks(0.3, 0.5, 0.05))
	assert.True(t, out.AppearRestart)

	d2 := newDriver(t, instantConfig())
	d2.mode = ModeBeat
	d2.startDrawing(0.3, 0.5)
	assert.False(t, d2.step(detector.PinchLandmarks(0.3, 0.5, 0.05)).AppearRestart)
}
