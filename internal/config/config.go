// Package config loads the bubbletype YAML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/ayusman/bubbletype/internal/detector"
	"github.com/ayusman/bubbletype/internal/gesture"
	"github.com/ayusman/bubbletype/internal/logging"
	"gopkg.in/yaml.v3"
)

// Config is the full application configuration.
type Config struct {
	Camera   CameraConfig    `yaml:"camera"`
	Detector detector.Config `yaml:"detector"`
	Stage    StageConfig     `yaml:"stage"`
	Gesture  gesture.Config  `yaml:"gesture"`
	Server   ServerConfig    `yaml:"server"`
	Store    StoreConfig     `yaml:"store"`
	Plugins  PluginsConfig   `yaml:"plugins"`
	Log      logging.Config  `yaml:"log"`
	Tray     TrayConfig      `yaml:"tray"`
}

// CameraConfig selects the capture device and its requested mode.
type CameraConfig struct {
	Device int `yaml:"device"`
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	FPS    int `yaml:"fps"`
}

// StageConfig is the square drawing stage.
type StageConfig struct {
	Size       int  `yaml:"size"`
	DisplayFPS int  `yaml:"display_fps"`
	Mirror     bool `yaml:"mirror"`
}

// ServerConfig is the HTTP surface.
type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	StaticDir      string   `yaml:"static_dir"`
	StreamInterval Duration `yaml:"stream_interval"`
	DotInterval    Duration `yaml:"dot_interval"`
}

// StoreConfig is the glyph database.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// PluginsConfig is the exporter plugin directory.
type PluginsConfig struct {
	Dir     string   `yaml:"dir"`
	Timeout Duration `yaml:"timeout"`
}

// TrayConfig toggles the system tray.
type TrayConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Duration wraps time.Duration for YAML string parsing (e.g. "10s", "5m").
type Duration struct {
	time.Duration
}

// UnmarshalYAML parses a duration string like "10s" or "5m30s".
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

// MarshalYAML writes the duration in its string form.
func (d Duration) MarshalYAML() (any, error) {
	return d.Duration.String(), nil
}

// DataDir is where state lives by default: ~/.bubbletype.
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".bubbletype"
	}
	return filepath.Join(home, ".bubbletype")
}

// Default returns the configuration used when no file is given.
func Default() Config {
	dir := DataDir()
	return Config{
		Camera: CameraConfig{
			Device: 0,
			Width:  1280,
			Height: 720,
			FPS:    30,
		},
		Detector: detector.DefaultConfig(),
		Stage: StageConfig{
			Size:       860,
			DisplayFPS: 60,
			Mirror:     true,
		},
		Gesture: gesture.DefaultConfig(),
		Server: ServerConfig{
			Addr:           "127.0.0.1:8080",
			StreamInterval: Duration{66 * time.Millisecond},
			DotInterval:    Duration{33 * time.Millisecond},
		},
		Store: StoreConfig{
			Path: filepath.Join(dir, "bubbletype.db"),
		},
		Plugins: PluginsConfig{
			Dir:     filepath.Join(dir, "plugins"),
			Timeout: Duration{30 * time.Second},
		},
		Log:  logging.DefaultConfig(),
		Tray: TrayConfig{Enabled: true},
	}
}

// Load reads a YAML config file over the defaults, expands environment
// variables and validates the result. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("config file not found: %s", path)
		}
		return Config{}, fmt.Errorf("cannot read config file %q: %w", path, err)
	}

	if err := yaml.Unmarshal([]byte(ExpandEnv(string(data))), &cfg); err != nil {
		return Config{}, fmt.Errorf("invalid YAML in %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every section.
func (c Config) Validate() error {
	if c.Camera.Width <= 0 || c.Camera.Height <= 0 || c.Camera.FPS <= 0 {
		return fmt.Errorf("camera: width, height and fps must be positive")
	}
	if c.Detector.MaxHands < 1 {
		return fmt.Errorf("detector: max_hands must be at least 1")
	}
	for name, v := range map[string]float64{
		"min_confidence":          c.Detector.MinConfidence,
		"min_tracking_confidence": c.Detector.MinTrackingConf,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("detector: %s must be in [0,1], got %v", name, v)
		}
	}
	if c.Stage.Size <= 0 || c.Stage.DisplayFPS <= 0 {
		return fmt.Errorf("stage: size and display_fps must be positive")
	}
	if err := c.Gesture.Validate(); err != nil {
		return fmt.Errorf("gesture: %w", err)
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server: addr is required")
	}
	if c.Store.Path == "" {
		return fmt.Errorf("store: path is required")
	}
	if c.Plugins.Timeout.Duration <= 0 {
		return fmt.Errorf("plugins: timeout must be positive")
	}
	if err := c.Log.Validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	return nil
}

// envVarPattern matches ${VAR} and ${VAR:-default}.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-([^}]*))?\}`)

// ExpandEnv replaces ${VAR} and ${VAR:-default} with environment values.
// Unset variables without a default expand to the empty string.
func ExpandEnv(input string) string {
	return envVarPattern.ReplaceAllStringFunc(input, func(match string) string {
		groups := envVarPattern.FindStringSubmatch(match)
		if value, ok := os.LookupEnv(groups[1]); ok && value != "" {
			return value
		}
		return groups[2]
	})
}
