package gesture

import (
	"testing"

	"github.com/ayusman/bubbletype/internal/detector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClearGesture(t *testing.T) {
	drawHand := detector.PinchLandmarks(0.3, 0.5, 0.12)
	open := detector.PinchLandmarks(0.7, 0.5, 0.2)
	closed := detector.PinchLandmarks(0.7, 0.5, 0.03)

	t.Run("open then close fires once", func(t *testing.T) {
		d := newDriver(t, instantConfig())
		d.mode = ModeBounce
		d.startDrawing(0.3, 0.5)
		d.step(drawHand, open)
		require.NotEmpty(t, d.stroke)

		out := d.step(drawHand, closed)
		assert.True(t, out.Clear)
		assert.Equal(t, ResetClear, out.Reset)
		assert.True(t, out.AppearRestart)
		assert.True(t, out.Stopped)
		assert.False(t, out.Drawing)
		assert.Empty(t, out.Dots)
		assert.Empty(t, d.stroke)
		assert.Equal(t, d.cfg.StopCooldownFrames, d.s.Cooldown())

		// Disarmed: staying closed does not fire again.
		assert.False(t, d.step(drawHand, closed).Clear)
	})

	t.Run("a single hand disarms", func(t *testing.T) {
		d := newDriver(t, instantConfig())
		d.step(drawHand, open)
		d.step(drawHand)
		assert.False(t, d.step(drawHand, closed).Clear)
	})

	t.Run("closing without opening first does nothing", func(t *testing.T) {
		d := newDriver(t, instantConfig())
		for i := 0; i < 3; i++ {
			assert.False(t, d.step(drawHand, closed).Clear)
		}
	})

	t.Run("the drawing hand is never the clear hand", func(t *testing.T) {
		// Drawing hand second in the list: the first hand is watched.
		d := newDriver(t, instantConfig())
		d.step(closed, drawHand)
		out := d.step(closed, drawHand)
		require.True(t, out.Drawing)
		require.Equal(t, 1, out.Hand)

		// Stopping the drawing hand with a tight pinch must not clear.
		out = d.step(closed, detector.PinchLandmarks(0.3, 0.5, 0.03))
		assert.False(t, out.Clear)
		assert.True(t, out.Stopped)
	})
}

func TestClearHand(t *testing.T) {
	assert.Equal(t, 1, clearHand(2, noHand))
	assert.Equal(t, 1, clearHand(2, 0))
	assert.Equal(t, 0, clearHand(2, 1))
	assert.Equal(t, 0, clearHand(3, 2))
}
