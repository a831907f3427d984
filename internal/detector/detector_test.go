package detector

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandLandmarks_PinchDistance(t *testing.T) {
	tests := []struct {
		name  string
		pinch float64
	}{
		{name: "closed", pinch: 0.03},
		{name: "just opened", pinch: 0.095},
		{name: "wide", pinch: 0.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hand := PinchLandmarks(0.4, 0.5, tt.pinch)
			assert.InDelta(t, tt.pinch, hand.PinchDistance(), 1e-9)
		})
	}
}

func TestHandLandmarks_Validate(t *testing.T) {
	t.Run("fixture hands are valid", func(t *testing.T) {
		hand := PinchLandmarks(0.5, 0.5, 0.1)
		require.NoError(t, hand.Validate())

		palm := OpenPalmLandmarks()
		require.NoError(t, palm.Validate())
	})

	t.Run("NaN coordinate is rejected", func(t *testing.T) {
		hand := PinchLandmarks(0.5, 0.5, 0.1)
		hand.Points[IndexTip].X = math.NaN()

		err := hand.Validate()
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrMalformedHand))
	})

	t.Run("infinite depth is rejected", func(t *testing.T) {
		hand := PinchLandmarks(0.5, 0.5, 0.1)
		hand.Points[Wrist].Z = math.Inf(1)

		assert.ErrorIs(t, hand.Validate(), ErrMalformedHand)
	})

	t.Run("landmark far off the image plane is rejected", func(t *testing.T) {
		hand := PinchLandmarks(0.5, 0.5, 0.1)
		hand.Points[PinkyTip] = Point3D{X: 3, Y: 0.5}

		assert.ErrorIs(t, hand.Validate(), ErrMalformedHand)
	})

	t.Run("fingertip slightly outside the frame is kept", func(t *testing.T) {
		hand := PinchLandmarks(0.5, 0.5, 0.1)
		hand.Points[IndexTip] = Point3D{X: -0.05, Y: 1.05}

		assert.NoError(t, hand.Validate())
	})
}

func TestNewFrame(t *testing.T) {
	ts := time.UnixMilli(1_700_000_000_000)

	t.Run("no hands", func(t *testing.T) {
		f, rejected := NewFrame(nil, ts)
		assert.Empty(t, f.Hands)
		assert.Zero(t, rejected)
		assert.Equal(t, ts, f.Timestamp)
	})

	t.Run("malformed hands are dropped, order kept", func(t *testing.T) {
		bad := PinchLandmarks(0.5, 0.5, 0.1)
		bad.Points[ThumbTip].Y = math.NaN()

		a := PinchLandmarks(0.2, 0.5, 0.1)
		b := PinchLandmarks(0.7, 0.5, 0.1)

		f, rejected := NewFrame([]HandLandmarks{a, bad, b}, ts)
		require.Len(t, f.Hands, 2)
		assert.Equal(t, 1, rejected)
		assert.Equal(t, a, f.Hands[0])
		assert.Equal(t, b, f.Hands[1])
	})
}

func TestLatest(t *testing.T) {
	t.Run("empty slot", func(t *testing.T) {
		var l Latest
		_, ok := l.Load()
		assert.False(t, ok)
	})

	t.Run("last writer wins", func(t *testing.T) {
		var l Latest
		first, _ := NewFrame([]HandLandmarks{PinchLandmarks(0.1, 0.1, 0.1)}, time.Now())
		second, _ := NewFrame(nil, time.Now())

		l.Store(first)
		l.Store(second)

		got, ok := l.Load()
		require.True(t, ok)
		assert.Empty(t, got.Hands)
		assert.Equal(t, uint64(2), got.Seq)
	})

	t.Run("repeated loads return the same frame", func(t *testing.T) {
		var l Latest
		f, _ := NewFrame([]HandLandmarks{PinchLandmarks(0.1, 0.1, 0.1)}, time.Now())
		l.Store(f)

		a, _ := l.Load()
		b, _ := l.Load()
		assert.Equal(t, a.Seq, b.Seq)
	})

	t.Run("clear", func(t *testing.T) {
		var l Latest
		l.Store(Frame{})
		l.Clear()
		_, ok := l.Load()
		assert.False(t, ok)
	})

	t.Run("concurrent producers and consumer", func(t *testing.T) {
		var l Latest
		var wg sync.WaitGroup
		for i := 0; i < 4; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 100; j++ {
					l.Store(Frame{Timestamp: time.Now()})
				}
			}()
		}

		var last uint64
		for i := 0; i < 100; i++ {
			if f, ok := l.Load(); ok {
				assert.GreaterOrEqual(t, f.Seq, last)
				last = f.Seq
			}
		}
		wg.Wait()

		f, ok := l.Load()
		require.True(t, ok)
		assert.Equal(t, uint64(400), f.Seq)
	})
}

func TestRecording(t *testing.T) {
	t.Run("recorded frames replay with timestamps", func(t *testing.T) {
		var buf bytes.Buffer
		rec := NewRecorder(&buf)

		start := time.UnixMilli(1_700_000_000_000)
		for i := 0; i < 3; i++ {
			f, _ := NewFrame([]HandLandmarks{PinchLandmarks(0.3+float64(i)*0.01, 0.5, 0.1)}, start.Add(time.Duration(i)*33*time.Millisecond))
			require.NoError(t, rec.Write(f))
		}

		frames, err := ReadRecording(&buf)
		require.NoError(t, err)
		require.Len(t, frames, 3)
		assert.Equal(t, uint64(1), frames[0].Seq)
		assert.Equal(t, start.Add(66*time.Millisecond).UnixMilli(), frames[2].Timestamp.UnixMilli())
		assert.InDelta(t, 0.32, frames[2].Hands[0].Points[IndexTip].X, 1e-9)
	})

	t.Run("malformed hands in a recording are dropped", func(t *testing.T) {
		input := `{"t_ms": 10, "hands": [{"points": [{"x": 9, "y": 9}], "handedness": "Right"}]}` + "\n\n" +
			`{"t_ms": 20, "hands": []}` + "\n"

		frames, err := ReadRecording(strings.NewReader(input))
		require.NoError(t, err)
		require.Len(t, frames, 2)
		assert.Empty(t, frames[0].Hands)
	})

	t.Run("invalid JSON reports the line", func(t *testing.T) {
		_, err := ReadRecording(strings.NewReader("{}\nnot json\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "line 2")
	})
}

func TestDecodeResponse(t *testing.T) {
	t.Run("hands without 21 points are dropped", func(t *testing.T) {
		points := strings.Repeat(`{"x":0.5,"y":0.5,"z":0},`, NumLandmarks)
		points = points[:len(points)-1]
		line := `{"hands":[{"points":[` + points + `],"handedness":"Left","score":0.9},{"points":[{"x":1,"y":1,"z":0}]}]}`

		hands, err := decodeResponse([]byte(line))
		require.NoError(t, err)
		require.Len(t, hands, 1)
		assert.Equal(t, "Left", hands[0].Handedness)
		assert.Equal(t, 0.5, hands[0].Points[PinkyTip].X)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		_, err := decodeResponse([]byte("{"))
		assert.Error(t, err)
	})
}

func TestMockDetector(t *testing.T) {
	t.Run("returns empty hands by default", func(t *testing.T) {
		mock := NewMockDetector()

		hands, err := mock.Detect(nil)
		require.NoError(t, err)
		assert.Nil(t, hands)
		assert.Equal(t, 1, mock.Calls())
	})

	t.Run("returns configured hands", func(t *testing.T) {
		mock := NewMockDetector()
		mock.SetHands([]HandLandmarks{PinchLandmarks(0.5, 0.5, 0.1), OpenPalmLandmarks()})

		hands, err := mock.Detect(nil)
		require.NoError(t, err)
		assert.Len(t, hands, 2)
	})

	t.Run("returns configured error", func(t *testing.T) {
		mock := NewMockDetector()
		expectedErr := errors.New("detection failed")
		mock.SetError(expectedErr)

		hands, err := mock.Detect(nil)
		assert.Equal(t, expectedErr, err)
		assert.Nil(t, hands)
	})

	t.Run("implements Detector interface", func(t *testing.T) {
		var _ Detector = (*MockDetector)(nil)
		var _ Detector = (*MediaPipeDetector)(nil)
	})
}

func TestFixtures(t *testing.T) {
	t.Run("pinch fixture keeps other fingers away from the thumb", func(t *testing.T) {
		hand := PinchLandmarks(0.5, 0.5, 0.03)
		for _, tip := range []int{MiddleTip, RingTip, PinkyTip} {
			assert.Greater(t, hand.ThumbDistance(tip), 0.1)
		}
	})

	t.Run("middle pinch fixture puts the middle tip at the thumb", func(t *testing.T) {
		hand := MiddlePinchLandmarks(0.5, 0.5, 0.12)
		assert.Less(t, hand.ThumbDistance(MiddleTip), 0.02)
		assert.InDelta(t, 0.12, hand.PinchDistance(), 1e-9)
	})

	t.Run("open palm is wide open", func(t *testing.T) {
		palm := OpenPalmLandmarks()
		assert.Greater(t, palm.PinchDistance(), 0.2)
	})
}
