package app

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/ayusman/bubbletype/internal/gesture"
	"github.com/ayusman/bubbletype/internal/glyph"
	"github.com/ayusman/bubbletype/internal/render"
	"github.com/ayusman/bubbletype/internal/server"
	"github.com/ayusman/bubbletype/internal/server/api"
	"github.com/ayusman/bubbletype/internal/store"
	"go.uber.org/zap"
	"gocv.io/x/gocv"
)

var (
	_ api.Studio         = (*App)(nil)
	_ api.Exporter       = (*App)(nil)
	_ server.StageSource = (*App)(nil)
	_ server.DotSource   = (*App)(nil)
)

// FormatPNG is rendered in-process; every other format goes to a plugin.
const FormatPNG = "png"

// List summarizes all letters.
func (a *App) List() []glyph.Summary {
	return a.book.List()
}

// Current returns the selected letter with its live stroke.
func (a *App) Current() glyph.Glyph {
	return a.book.Current()
}

// Saved returns a letter's saved stroke.
func (a *App) Saved(letter string) (glyph.Glyph, error) {
	return a.book.Saved(letter)
}

// Drawing reports whether a stroke is in progress.
func (a *App) Drawing() bool {
	return a.pipeline.Drawing()
}

// Enabled reports whether hand input is being processed.
func (a *App) Enabled() bool {
	return a.enabled.Load()
}

// SetEnabled pauses or resumes hand input. While paused the capture loop
// publishes empty frames, so an in-progress stroke ends.
func (a *App) SetEnabled(enabled bool) {
	if a.enabled.Swap(enabled) != enabled {
		a.logger.Info("hand input toggled", zap.Bool("enabled", enabled))
	}
}

// Select switches the drawing target and remembers the choice.
func (a *App) Select(letter string) error {
	err := a.pipeline.Retarget(gesture.ResetTargetSwitch, func() error {
		return a.book.Select(letter)
	})
	if err != nil {
		return err
	}

	selected := a.book.Selected()
	if a.store != nil {
		if err := a.store.Settings().Set(store.SettingSelectedLetter, selected); err != nil {
			a.logger.Warn("failed to persist selection", zap.String("letter", selected), zap.Error(err))
		}
	}
	return nil
}

// Redraw wipes the selected letter, live and saved.
func (a *App) Redraw() error {
	_ = a.pipeline.Retarget(gesture.ResetRedraw, func() error {
		a.book.Redraw()
		return nil
	})

	if a.store == nil {
		return nil
	}
	letter := a.book.Selected()
	if err := a.store.Glyphs().Delete(letter); err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("redraw %s: %w", letter, err)
	}
	return nil
}

// ClearStroke drops the live stroke of the selected letter and keeps its
// saved copy.
func (a *App) ClearStroke() {
	_ = a.pipeline.Retarget(gesture.ResetClear, func() error {
		a.book.Clear()
		return nil
	})
}

// Save snapshots and persists the live stroke.
func (a *App) Save() (glyph.Glyph, error) {
	g, err := a.book.Save()
	if err != nil {
		return glyph.Glyph{}, err
	}
	if err := a.persist(g); err != nil {
		return glyph.Glyph{}, err
	}
	a.logger.Info("letter saved", zap.String("letter", g.Letter), zap.Int("dots", len(g.Dots)))
	return g, nil
}

// SetStyle restyles the selected letter after checking both colors.
func (a *App) SetStyle(style gesture.Style) error {
	if err := validateStyle(style); err != nil {
		return err
	}
	if !a.book.SetStyle(style) {
		return nil
	}
	g, err := a.book.Saved(a.book.Selected())
	if err != nil {
		return err
	}
	return a.persist(g)
}

// SetMode changes the selected letter's animation.
func (a *App) SetMode(mode gesture.Mode) error {
	if err := a.book.SetMode(mode); err != nil {
		return err
	}
	g, err := a.book.Saved(a.book.Selected())
	if errors.Is(err, glyph.ErrNotSaved) {
		return nil
	}
	if err != nil {
		return err
	}
	return a.persist(g)
}

func (a *App) persist(g glyph.Glyph) error {
	if a.store == nil {
		return nil
	}
	if err := a.store.Glyphs().Save(toRecord(g)); err != nil {
		return fmt.Errorf("persist %s: %w", g.Letter, err)
	}
	return nil
}

func validateStyle(s gesture.Style) error {
	if !s.FillNone {
		if _, err := render.ParseColor(s.Fill); err != nil {
			return fmt.Errorf("%w: fill: %v", glyph.ErrInvalidStyle, err)
		}
	}
	if !s.StrokeNone {
		if _, err := render.ParseColor(s.Stroke); err != nil {
			return fmt.Errorf("%w: stroke: %v", glyph.ErrInvalidStyle, err)
		}
	}
	return nil
}

// Formats lists export formats: png plus whatever the plugins offer.
func (a *App) Formats() []string {
	formats := append([]string{FormatPNG}, a.plugins.Formats()...)
	slices.Sort(formats)
	return slices.Compact(formats)
}

// Export encodes a letter. The live stroke is used when the letter is
// selected and has dots, otherwise its saved stroke.
func (a *App) Export(ctx context.Context, letter, format string, backdrop render.Backdrop) ([]byte, string, error) {
	g, err := a.exportGlyph(letter)
	if err != nil {
		return nil, "", err
	}

	if format == FormatPNG {
		a.videoMu.Lock()
		defer a.videoMu.Unlock()

		var video *gocv.Mat
		if a.hasVideo {
			video = &a.video
		}
		data, err := a.stage.ExportPNG(g, backdrop, video, a.book.Frame())
		if err != nil {
			return nil, "", err
		}
		return data, "image/png", nil
	}

	p, err := a.plugins.ForFormat(format)
	if err != nil {
		return nil, "", err
	}
	if len(g.Dots) == 0 {
		return nil, "", fmt.Errorf("export %s: %w", g.Letter, render.ErrNothingToExport)
	}
	a.logger.Debug("exporting via plugin",
		zap.String("letter", g.Letter),
		zap.String("format", format),
		zap.String("plugin", p.Manifest.Name))
	return a.pluginExec.Export(ctx, p, format, g, a.stage.Size())
}

func (a *App) exportGlyph(letter string) (glyph.Glyph, error) {
	i, err := glyph.ParseLetter(letter)
	if err != nil {
		return glyph.Glyph{}, err
	}
	current := a.book.Current()
	if current.Letter == glyph.Letters[i:i+1] && len(current.Dots) > 0 {
		return current, nil
	}
	return a.book.Saved(letter)
}

// ComposeStage renders the current stage over the newest camera frame.
func (a *App) ComposeStage() (gocv.Mat, error) {
	a.videoMu.Lock()
	defer a.videoMu.Unlock()

	var video *gocv.Mat
	if a.hasVideo {
		video = &a.video
	}
	return a.stage.Compose(video, a.book.Current(), a.book.Frame()), nil
}
