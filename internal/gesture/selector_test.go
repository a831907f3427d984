package gesture

import (
	"testing"

	"github.com/ayusman/bubbletype/internal/detector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelector_PickHand(t *testing.T) {
	cfg := DefaultConfig()

	t.Run("ties keep the lower index", func(t *testing.T) {
		s := NewSession()
		hands := []detector.HandLandmarks{
			detector.PinchLandmarks(0.3, 0.5, 0.1),
			detector.PinchLandmarks(0.3, 0.5, 0.1),
		}
		assert.Equal(t, 0, s.pickHand(cfg, hands))
	})

	t.Run("pinch closest to the on threshold wins without an anchor", func(t *testing.T) {
		s := NewSession()
		hands := []detector.HandLandmarks{
			detector.PinchLandmarks(0.3, 0.5, 0.2),
			detector.PinchLandmarks(0.6, 0.5, 0.1),
		}
		assert.Equal(t, 1, s.pickHand(cfg, hands))
	})

	t.Run("anchor proximity outweighs pinch", func(t *testing.T) {
		s := NewSession()
		s.trackPick(cfg, 0, []detector.HandLandmarks{detector.PinchLandmarks(0.3, 0.5, 0.2)})

		hands := []detector.HandLandmarks{
			detector.PinchLandmarks(0.6, 0.5, 0.095),
			detector.PinchLandmarks(0.3, 0.5, 0.2),
		}
		assert.Equal(t, 1, s.pickHand(cfg, hands))
	})

	t.Run("all hands in the dead zone yields no pick", func(t *testing.T) {
		s := NewSession()
		hands := []detector.HandLandmarks{
			detector.PinchLandmarks(0.3, 0.5, 0.03),
			detector.PinchLandmarks(0.6, 0.5, 0.05),
		}
		assert.Equal(t, noHand, s.pickHand(cfg, hands))
	})

	t.Run("disqualified hand is skipped", func(t *testing.T) {
		s := NewSession()
		hands := []detector.HandLandmarks{
			detector.PinchLandmarks(0.3, 0.5, 0.03),
			detector.PinchLandmarks(0.6, 0.5, 0.3),
		}
		assert.Equal(t, 1, s.pickHand(cfg, hands))
	})
}

func TestSelector_LockPersistsWhileDrawing(t *testing.T) {
	d := newDriver(t, instantConfig())
	a := detector.PinchLandmarks(0.3, 0.5, 0.2)

	d.step(a)
	out := d.step(a)
	require.True(t, out.Drawing)
	locked, ok := d.s.LockedHand()
	require.True(t, ok)
	require.Equal(t, 0, locked)

	// A second hand right on the anchor with an ideal pinch scores higher.
	b := detector.PinchLandmarks(0.3005, 0.5, 0.095)
	require.Greater(t, d.s.scoreHand(d.cfg, &b), d.s.scoreHand(d.cfg, &a))

	for i := 0; i < 3; i++ {
		out = d.step(a, b)
		assert.Equal(t, 0, out.Hand, "frame %d", i)
		assert.True(t, out.Drawing)
	}

	// Once drawing stops the lock is released and scoring decides again.
	closed := detector.PinchLandmarks(0.3, 0.5, 0.05)
	out = d.step(closed, b)
	assert.False(t, out.Drawing)
	_, ok = d.s.LockedHand()
	assert.False(t, ok)

	out = d.step(a, b)
	assert.Equal(t, 1, out.Hand)
}

func TestSelector_NoPickStopsDrawing(t *testing.T) {
	t.Run("idle with every hand in the dead zone", func(t *testing.T) {
		d := newDriver(t, instantConfig())

		out := d.step(detector.PinchLandmarks(0.3, 0.5, 0.03), detector.PinchLandmarks(0.7, 0.5, 0.03))
		assert.Equal(t, noHand, out.Hand)
		assert.False(t, out.Drawing)
		assert.False(t, out.Stopped)
		assert.Zero(t, d.s.Cooldown())
	})

	t.Run("locked hand out of range", func(t *testing.T) {
		d := newDriver(t, instantConfig())
		idle := detector.PinchLandmarks(0.3, 0.5, 0.03)
		draw := detector.PinchLandmarks(0.7, 0.5, 0.12)

		var out Output
		for i := 0; i < 10 && !out.Drawing; i++ {
			out = d.step(idle, draw)
		}
		require.True(t, out.Drawing)
		require.Equal(t, 1, out.Hand)

		// Only one hand left, and it is disqualified.
		out = d.step(idle)
		assert.Equal(t, noHand, out.Hand)
		assert.False(t, out.Drawing)
		assert.True(t, out.Stopped)
		assert.Equal(t, d.cfg.StopCooldownFrames, d.s.Cooldown())
	})

	t.Run("present locked hand is kept and raw close stops it", func(t *testing.T) {
		d := newDriver(t, instantConfig())
		d.startDrawing(0.3, 0.5)

		out := d.step(detector.PinchLandmarks(0.3, 0.5, 0.03))
		assert.Equal(t, 0, out.Hand)
		assert.False(t, out.Drawing)
		assert.True(t, out.Stopped)
		assert.Equal(t, d.cfg.StopCooldownFrames, d.s.Cooldown())
		_, locked := d.s.LockedHand()
		assert.False(t, locked)
	})
}

func TestSelector_LockGrace(t *testing.T) {
	cfg := DefaultConfig()
	s := NewSession()
	s.lockedHand = 0

	for i := 0; i < cfg.LockLostFramesMax; i++ {
		s.trackPick(cfg, noHand, nil)
	}
	_, ok := s.LockedHand()
	assert.True(t, ok, "lock survives LockLostFramesMax missed frames")

	s.trackPick(cfg, noHand, nil)
	_, ok = s.LockedHand()
	assert.False(t, ok)
}

func TestSelector_AnchorDecay(t *testing.T) {
	cfg := DefaultConfig()
	s := NewSession()
	s.trackPick(cfg, 0, []detector.HandLandmarks{detector.PinchLandmarks(0.3, 0.5, 0.1)})

	anchor, ok := s.Anchor()
	require.True(t, ok)
	assert.InDelta(t, 0.3, anchor.X, 1e-9)

	for i := 0; i < cfg.AnchorHoldFrames; i++ {
		s.decayAnchor()
		_, ok = s.Anchor()
		require.True(t, ok, "decay %d", i+1)
	}
	s.decayAnchor()
	_, ok = s.Anchor()
	assert.False(t, ok)
}
