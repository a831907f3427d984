package app

import (
	"context"
	"errors"
	"time"

	"github.com/ayusman/bubbletype/internal/capture"
	"github.com/ayusman/bubbletype/internal/detector"
	"github.com/ayusman/bubbletype/internal/gesture"
	"go.uber.org/zap"
)

// captureLoop reads camera frames at the camera rate, runs hand detection
// and publishes the newest frame to the display loop.
func (a *App) captureLoop(ctx context.Context) {
	fps := a.camera.FPS()
	if fps <= 0 {
		fps = 30
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if err := a.captureOnce(now); err != nil && !errors.Is(err, capture.ErrNoFrame) {
				a.logger.Warn("capture failed", zap.Error(err))
			}
		}
	}
}

// captureOnce reads and processes a single camera frame. The frame is kept
// as the stage backdrop until the next one replaces it.
func (a *App) captureOnce(now time.Time) error {
	mat, err := a.camera.ReadFrame()
	if err != nil {
		return err
	}

	if a.mapper.update(a.stage.Size(), mat.Cols(), mat.Rows()) {
		a.logger.Info("video size changed",
			zap.Int("width", mat.Cols()),
			zap.Int("height", mat.Rows()))
	}

	var raw []detector.HandLandmarks
	if a.enabled.Load() {
		raw, err = a.detector.Detect(mat)
		if err != nil {
			// A failed detection counts as an empty frame.
			a.logger.Debug("detection failed", zap.Error(err))
			raw = nil
		}
	}

	frame, rejected := detector.NewFrame(raw, now)
	if rejected > 0 {
		a.logger.Debug("dropped malformed hands", zap.Int("count", rejected))
	}
	a.latest.Store(frame)

	if a.recorder != nil {
		if err := a.recorder.Write(frame); err != nil {
			a.logger.Warn("recording failed, stopping recorder", zap.Error(err))
			a.recorder = nil
		}
	}

	a.videoMu.Lock()
	if a.hasVideo {
		a.video.Close()
	}
	a.video = *mat
	a.hasVideo = true
	a.videoMu.Unlock()
	return nil
}

// displayLoop advances the animation clock and the gesture pipeline once per
// display frame.
func (a *App) displayLoop(ctx context.Context) {
	ticker := time.NewTicker(time.Second / time.Duration(a.settings.Stage.DisplayFPS))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			a.displayOnce(now)
		}
	}
}

// displayOnce runs one display frame. The newest detector frame is advanced
// even when it was already seen, which keeps the pinch debounce counting at
// display rate.
func (a *App) displayOnce(now time.Time) gesture.Output {
	a.book.Tick()

	f, ok := a.latest.Load()
	if !ok {
		return gesture.Output{Hand: -1}
	}

	out := a.pipeline.Advance(f, now)
	a.logOutput(out)
	return out
}

func (a *App) logOutput(out gesture.Output) {
	switch {
	case out.Started:
		a.logger.Debug("stroke started",
			zap.String("letter", a.book.Selected()),
			zap.Int("hand", out.Hand))
	case out.Stopped:
		a.logger.Debug("stroke stopped",
			zap.String("letter", a.book.Selected()),
			zap.Int("dots", a.book.Len()))
	}
	if out.Clear {
		a.logger.Info("clear gesture", zap.String("letter", a.book.Selected()))
	}
}
