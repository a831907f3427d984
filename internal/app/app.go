// Package app wires camera, detector, gesture pipeline, glyph book, store
// and plugins into the running bubbletype application.
package app

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/ayusman/bubbletype/internal/capture"
	"github.com/ayusman/bubbletype/internal/config"
	"github.com/ayusman/bubbletype/internal/detector"
	"github.com/ayusman/bubbletype/internal/gesture"
	"github.com/ayusman/bubbletype/internal/glyph"
	"github.com/ayusman/bubbletype/internal/plugin"
	"github.com/ayusman/bubbletype/internal/render"
	"github.com/ayusman/bubbletype/internal/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gocv.io/x/gocv"
)

// Config holds the collaborators of an App. Nil Camera and Detector are
// built from Settings; a nil Store disables persistence.
type Config struct {
	Settings config.Config
	Store    *store.Store
	Camera   capture.Camera
	Detector detector.Detector
	Recorder *detector.Recorder
	Logger   *zap.Logger
}

// App is the running drawing application.
type App struct {
	settings  config.Config
	logger    *zap.Logger
	sessionID string

	store    *store.Store
	camera   capture.Camera
	detector detector.Detector
	recorder *detector.Recorder

	book     *glyph.Book
	stage    *render.Stage
	mapper   *coverMapper
	pipeline *gesture.Pipeline
	latest   detector.Latest

	plugins    *plugin.Manager
	pluginExec *plugin.Executor

	enabled atomic.Bool

	videoMu  sync.Mutex
	video    gocv.Mat
	hasVideo bool
}

// New creates an App. It does not open the camera; see Run.
func New(cfg Config) (*App, error) {
	if err := cfg.Settings.Validate(); err != nil {
		return nil, fmt.Errorf("app config: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	s := cfg.Settings

	a := &App{
		settings:   s,
		logger:     logger,
		sessionID:  uuid.NewString(),
		store:      cfg.Store,
		camera:     cfg.Camera,
		detector:   cfg.Detector,
		recorder:   cfg.Recorder,
		book:       glyph.NewBook(),
		stage:      render.NewStage(s.Stage.Size, s.Stage.Mirror),
		plugins:    plugin.NewManager(s.Plugins.Dir, logger.Named("plugin")),
		pluginExec: plugin.NewExecutor(s.Plugins.Timeout.Duration, logger.Named("plugin")),
	}
	a.enabled.Store(true)

	if a.camera == nil {
		a.camera = capture.NewCamera(capture.Options{
			Device: s.Camera.Device,
			Width:  s.Camera.Width,
			Height: s.Camera.Height,
			FPS:    s.Camera.FPS,
		}, logger.Named("camera"))
	}

	if a.detector == nil {
		if mp, err := detector.NewMediaPipeDetector(s.Detector, logger); err == nil {
			a.detector = mp
			logger.Info("using MediaPipe hand detection")
		} else {
			logger.Warn("MediaPipe not available, using mock detector", zap.Error(err))
			a.detector = detector.NewMockDetector()
		}
	}

	vw, vh := a.camera.Size()
	a.mapper = newCoverMapper(a.stage.Cover(vw, vh))
	a.pipeline = gesture.NewPipeline(s.Gesture, a.mapper, a.book)
	a.pipeline.OnReset(a.logReset)

	if err := a.plugins.Discover(); err != nil {
		logger.Warn("plugin discovery failed", zap.String("dir", s.Plugins.Dir), zap.Error(err))
	}

	return a, nil
}

// Restore loads saved glyphs and the last selected letter from the store.
func (a *App) Restore() error {
	if a.store == nil {
		return nil
	}

	records, err := a.store.Glyphs().List()
	if err != nil {
		return fmt.Errorf("restore glyphs: %w", err)
	}
	for _, r := range records {
		if err := a.book.Restore(fromRecord(r)); err != nil {
			a.logger.Warn("skipping stored glyph", zap.String("letter", r.Letter), zap.Error(err))
		}
	}

	letter, err := a.store.Settings().Get(store.SettingSelectedLetter)
	switch {
	case err == nil:
		if err := a.book.Select(letter); err != nil {
			a.logger.Warn("ignoring stored selection", zap.String("letter", letter), zap.Error(err))
		}
	case err != store.ErrNotFound:
		return fmt.Errorf("restore selection: %w", err)
	}

	a.logger.Info("restored glyphs",
		zap.Int("saved", len(records)),
		zap.String("selected", a.book.Selected()))
	return nil
}

// Run opens the camera and runs the capture and display loops until ctx is
// cancelled. The camera and detector are closed on return.
func (a *App) Run(ctx context.Context) error {
	if err := a.camera.Open(); err != nil {
		return fmt.Errorf("start capture: %w", err)
	}
	defer a.shutdown()

	a.logger.Info("drawing session started",
		zap.String("session", a.sessionID),
		zap.Int("stage", a.stage.Size()),
		zap.Int("display_fps", a.settings.Stage.DisplayFPS))

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		a.captureLoop(ctx)
	}()
	go func() {
		defer wg.Done()
		a.displayLoop(ctx)
	}()
	wg.Wait()

	a.logger.Info("drawing session stopped", zap.String("session", a.sessionID))
	return nil
}

func (a *App) shutdown() {
	if err := a.camera.Close(); err != nil {
		a.logger.Warn("error closing camera", zap.Error(err))
	}
	if err := a.detector.Close(); err != nil {
		a.logger.Warn("error closing detector", zap.Error(err))
	}

	a.videoMu.Lock()
	if a.hasVideo {
		a.video.Close()
		a.hasVideo = false
	}
	a.videoMu.Unlock()
}

// Book returns the glyph book.
func (a *App) Book() *glyph.Book {
	return a.book
}

// Stage returns the stage renderer.
func (a *App) Stage() *render.Stage {
	return a.stage
}

// PluginManager returns the plugin manager.
func (a *App) PluginManager() *plugin.Manager {
	return a.plugins
}

// SessionID identifies this run in logs.
func (a *App) SessionID() string {
	return a.sessionID
}

func (a *App) logReset(reason gesture.ResetReason) {
	a.logger.Info("gesture session reset",
		zap.String("session", a.sessionID),
		zap.String("reason", string(reason)),
		zap.String("letter", a.book.Selected()))
}
