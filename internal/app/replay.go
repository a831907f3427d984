package app

import (
	"fmt"
	"math/rand/v2"

	"github.com/ayusman/bubbletype/internal/config"
	"github.com/ayusman/bubbletype/internal/detector"
	"github.com/ayusman/bubbletype/internal/gesture"
	"github.com/ayusman/bubbletype/internal/glyph"
	"github.com/ayusman/bubbletype/internal/render"
	"go.uber.org/zap"
)

// ReplayResult summarizes a replayed recording.
type ReplayResult struct {
	Glyph   glyph.Glyph
	Frames  int
	Strokes int
	Clears  int
	Resets  int
}

// Replay runs a landmark recording through a fresh pipeline drawing into
// letter, one Advance per recorded frame at its recorded time. Dot phases
// come from a fixed seed so the same recording gives the same glyph.
func Replay(frames []detector.Frame, cfg config.Config, letter string, logger *zap.Logger) (ReplayResult, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	book := glyph.NewBook()
	if err := book.Select(letter); err != nil {
		return ReplayResult{}, fmt.Errorf("replay: %w", err)
	}

	stage := render.NewStage(cfg.Stage.Size, cfg.Stage.Mirror)
	pipeline := gesture.NewPipeline(cfg.Gesture, stage.Cover(cfg.Camera.Width, cfg.Camera.Height), book)
	pipeline.SetPhaseSource(rand.New(rand.NewPCG(1, 2)).Float64)

	res := ReplayResult{Frames: len(frames)}
	pipeline.OnReset(func(reason gesture.ResetReason) {
		res.Resets++
		logger.Debug("replay reset", zap.String("reason", string(reason)))
	})

	for _, f := range frames {
		book.Tick()
		out := pipeline.Advance(f, f.Timestamp)
		if out.Started {
			res.Strokes++
		}
		if out.Clear {
			res.Clears++
		}
	}

	res.Glyph = book.Current()
	logger.Info("replay finished",
		zap.String("letter", res.Glyph.Letter),
		zap.Int("frames", res.Frames),
		zap.Int("strokes", res.Strokes),
		zap.Int("dots", len(res.Glyph.Dots)))
	return res, nil
}
