package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/ayusman/bubbletype/internal/app"
	"github.com/ayusman/bubbletype/internal/config"
	"github.com/ayusman/bubbletype/internal/detector"
	"github.com/ayusman/bubbletype/internal/logging"
	"github.com/ayusman/bubbletype/internal/server"
	"github.com/ayusman/bubbletype/internal/store"
	"github.com/ayusman/bubbletype/internal/tray"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the camera, gesture pipeline and studio web server",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{Name: "addr", Usage: "listen address, overrides server.addr"},
			&cli.BoolFlag{Name: "no-tray", Usage: "do not show the system tray menu"},
			&cli.StringFlag{Name: "record", Usage: "write detected landmarks to a JSON-lines file"},
		},
		Action: serveAction,
	}
}

func serveAction(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	if addr := c.String("addr"); addr != "" {
		cfg.Server.Addr = addr
	}
	if c.Bool("no-tray") {
		cfg.Tray.Enabled = false
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer logger.Sync()

	st, err := store.New(cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	var recorder *detector.Recorder
	if path := c.String("record"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("open recording: %w", err)
		}
		defer f.Close()
		recorder = detector.NewRecorder(f)
		logger.Info("recording landmarks", zap.String("path", path))
	}

	a, err := app.New(app.Config{
		Settings: cfg,
		Store:    st,
		Recorder: recorder,
		Logger:   logger,
	})
	if err != nil {
		return err
	}
	if err := a.Restore(); err != nil {
		return err
	}

	staticDir := cfg.Server.StaticDir
	if staticDir == "" {
		staticDir = findWebDir()
	}
	if staticDir != "" {
		logger.Info("serving static files", zap.String("dir", staticDir))
	}

	srv := server.New(server.Config{
		StaticDir:      staticDir,
		Studio:         a,
		Exporter:       a,
		Stage:          a,
		StreamInterval: cfg.Server.StreamInterval.Duration,
		DotInterval:    cfg.Server.DotInterval.Duration,
		Logger:         logger.Named("server"),
	})

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return a.Run(gctx) })
	g.Go(func() error { return srv.Run(gctx, cfg.Server.Addr) })

	if cfg.Tray.Enabled {
		t := tray.New(a, logger.Named("tray"))
		url := "http://" + cfg.Server.Addr
		t.OnSettings(func() {
			if err := openBrowser(url); err != nil {
				logger.Warn("cannot open browser", zap.String("url", url), zap.Error(err))
			}
		})
		t.OnQuit(cancel)
		// The tray owns the main goroutine until quit or shutdown.
		t.Run(gctx)
		cancel()
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("bubbletype stopped")
	return nil
}

// findWebDir looks for the studio UI next to the working directory, then in
// the data directory.
func findWebDir() string {
	for _, p := range []string{"web", "../web", "../../web"} {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if abs, err := filepath.Abs(p); err == nil {
				return abs
			}
			return p
		}
	}

	dir := filepath.Join(config.DataDir(), "web")
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		return dir
	}
	return ""
}

func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}
