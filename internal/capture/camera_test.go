package capture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCamera(t *testing.T) {
	tests := []struct {
		name       string
		opts       Options
		wantFPS    int
		wantWidth  int
		wantHeight int
	}{
		{
			name:       "zero options take defaults",
			opts:       Options{},
			wantFPS:    DefaultFPS,
			wantWidth:  DefaultWidth,
			wantHeight: DefaultHeight,
		},
		{
			name:       "explicit mode",
			opts:       Options{Device: 1, Width: 640, Height: 480, FPS: 15},
			wantFPS:    15,
			wantWidth:  640,
			wantHeight: 480,
		},
		{
			name:       "negative values take defaults",
			opts:       Options{Device: 2, Width: -1, Height: -1, FPS: -1},
			wantFPS:    DefaultFPS,
			wantWidth:  DefaultWidth,
			wantHeight: DefaultHeight,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := NewCamera(tt.opts, nil)
			require.NotNil(t, cam)

			assert.Equal(t, tt.wantFPS, cam.FPS())
			w, h := cam.Size()
			assert.Equal(t, tt.wantWidth, w)
			assert.Equal(t, tt.wantHeight, h)
			assert.False(t, cam.IsOpen(), "camera should not be running initially")
		})
	}
}

func TestCamera_SetFPS(t *testing.T) {
	cam := NewCamera(DefaultOptions(), nil)

	tests := []struct {
		name    string
		fps     int
		wantFPS int
	}{
		{"set to 10", 10, 10},
		{"set to 60", 60, 60},
		{"set to 1", 1, 1},
		{"set to 0 keeps previous", 0, 1},
		{"negative keeps previous", -5, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam.SetFPS(tt.fps)
			assert.Equal(t, tt.wantFPS, cam.FPS())
		})
	}
}

func TestCamera_NotOpened(t *testing.T) {
	cam := NewCamera(DefaultOptions(), nil)

	_, err := cam.ReadFrame()
	assert.ErrorIs(t, err, ErrCameraNotOpen)
	assert.NoError(t, cam.Close(), "closing an unopened camera is a no-op")
}

func TestCamera_OpenClose_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	cam := NewCamera(Options{Width: 640, Height: 480, FPS: 30}, nil)
	if err := cam.Open(); err != nil {
		t.Skipf("skipping test - camera not available: %v", err)
	}
	assert.True(t, cam.IsOpen())

	mat, err := cam.ReadFrame()
	if assert.NoError(t, err) {
		assert.False(t, mat.Empty())
		w, h := cam.Size()
		assert.Equal(t, mat.Cols(), w)
		assert.Equal(t, mat.Rows(), h)
		mat.Close()
	}

	require.NoError(t, cam.Close())
	assert.False(t, cam.IsOpen())
}
