package main

import (
	"fmt"
	"os"

	"github.com/ayusman/bubbletype/internal/app"
	"github.com/ayusman/bubbletype/internal/config"
	"github.com/ayusman/bubbletype/internal/detector"
	"github.com/ayusman/bubbletype/internal/logging"
	"github.com/ayusman/bubbletype/internal/render"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func replayCommand() *cli.Command {
	return &cli.Command{
		Name:      "replay",
		Usage:     "Run a landmark recording through the gesture pipeline",
		ArgsUsage: "<recording.jsonl>",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{Name: "letter", Value: "A", Usage: "letter to draw into"},
			&cli.StringFlag{Name: "png", Usage: "write the resulting glyph to this PNG file"},
		},
		Action: replayAction,
	}
}

func replayAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("replay needs exactly one recording file", 2)
	}

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer logger.Sync()

	f, err := os.Open(c.Args().First())
	if err != nil {
		return fmt.Errorf("open recording: %w", err)
	}
	defer f.Close()

	frames, err := detector.ReadRecording(f)
	if err != nil {
		return err
	}

	res, err := app.Replay(frames, cfg, c.String("letter"), logger)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "%s: %d frames, %d strokes, %d clears, %d dots\n",
		res.Glyph.Letter, res.Frames, res.Strokes, res.Clears, len(res.Glyph.Dots))

	out := c.String("png")
	if out == "" {
		return nil
	}
	stage := render.NewStage(cfg.Stage.Size, cfg.Stage.Mirror)
	data, err := stage.ExportPNG(res.Glyph, render.BackdropType, nil, 0)
	if err != nil {
		return err
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write png: %w", err)
	}
	logger.Info("wrote glyph image", zap.String("path", out))
	return nil
}
