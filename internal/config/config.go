// Package config holds the viewer configuration and its YAML persistence.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds runtime configuration for the viewer.
// Fields may be loaded from a YAML file and overridden by command-line flags.
type Config struct {
	Viewer      ViewerConfig      `yaml:"viewer"`
	Measurement MeasurementConfig `yaml:"measurement"`
	Logging     LoggingConfig     `yaml:"logging"`
	Window      WindowConfig      `yaml:"window"`
}

// ViewerConfig tunes zooming, panning and point handling
type ViewerConfig struct {
	InitialScale         float64       `yaml:"initial_scale"`
	MinScale             float64       `yaml:"min_scale"`
	MaxScale             float64       `yaml:"max_scale"`
	ZoomStep             float64       `yaml:"zoom_step"`
	DragSuppression      time.Duration `yaml:"drag_suppression"`
	PointDragSuppression time.Duration `yaml:"point_drag_suppression"`
	HandleRadius         float64       `yaml:"handle_radius"`
	WatchFile            bool          `yaml:"watch_file"`
}

// MeasurementConfig controls how measurements are displayed
type MeasurementConfig struct {
	Unit          string  `yaml:"unit"`
	UnitsPerPixel float64 `yaml:"units_per_pixel"`
	Locale        string  `yaml:"locale"`
}

// LoggingConfig selects log level, format and optional rotating file output
type LoggingConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	File       string `yaml:"file"`
	MaxSize    int    `yaml:"max_size"` // Megabytes
	MaxBackups int    `yaml:"max_backups"`
	MaxAge     int    `yaml:"max_age"` // Days
}

// WindowConfig is the initial main window geometry
type WindowConfig struct {
	Title  string  `yaml:"title"`
	Width  float32 `yaml:"width"`
	Height float32 `yaml:"height"`
}

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	return &Config{
		Viewer: ViewerConfig{
			InitialScale:         0.4,
			MinScale:             0.1,
			MaxScale:             5.0,
			ZoomStep:             0.2,
			DragSuppression:      500 * time.Millisecond,
			PointDragSuppression: 50 * time.Millisecond,
			HandleRadius:         10,
			WatchFile:            true,
		},
		Measurement: MeasurementConfig{
			Unit:          "m",
			UnitsPerPixel: 1,
			Locale:        "en",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
		},
		Window: WindowConfig{
			Title:  "GoMap",
			Width:  1200,
			Height: 800,
		},
	}
}

// Validate clamps/normalizes values to safe ranges.
func (c *Config) Validate() error {
	d := DefaultConfig()

	v := &c.Viewer
	if v.MinScale <= 0 {
		v.MinScale = d.Viewer.MinScale
	}
	if v.MaxScale <= 0 || v.MaxScale < v.MinScale {
		v.MaxScale = v.MinScale + (d.Viewer.MaxScale - d.Viewer.MinScale)
	}
	if v.InitialScale <= 0 {
		v.InitialScale = d.Viewer.InitialScale
	}
	if v.InitialScale < v.MinScale {
		v.InitialScale = v.MinScale
	}
	if v.InitialScale > v.MaxScale {
		v.InitialScale = v.MaxScale
	}
	if v.ZoomStep <= 0 {
		v.ZoomStep = d.Viewer.ZoomStep
	}
	if v.DragSuppression < 0 {
		v.DragSuppression = d.Viewer.DragSuppression
	}
	if v.PointDragSuppression < 0 {
		v.PointDragSuppression = d.Viewer.PointDragSuppression
	}
	if v.HandleRadius <= 0 {
		v.HandleRadius = d.Viewer.HandleRadius
	}

	m := &c.Measurement
	if m.UnitsPerPixel <= 0 {
		m.UnitsPerPixel = d.Measurement.UnitsPerPixel
	}
	if m.Locale == "" {
		m.Locale = d.Measurement.Locale
	}

	l := &c.Logging
	switch l.Level {
	case "debug", "info", "warn", "error":
	case "":
		l.Level = d.Logging.Level
	default:
		return fmt.Errorf("invalid log level %q", l.Level)
	}
	switch l.Format {
	case "text", "json":
	case "":
		l.Format = d.Logging.Format
	default:
		return fmt.Errorf("invalid log format %q", l.Format)
	}
	if l.MaxSize <= 0 {
		l.MaxSize = d.Logging.MaxSize
	}

	w := &c.Window
	if w.Title == "" {
		w.Title = d.Window.Title
	}
	if w.Width <= 0 {
		w.Width = d.Window.Width
	}
	if w.Height <= 0 {
		w.Height = d.Window.Height
	}
	return nil
}

// Load reads configuration from the given YAML file. If path is empty or the
// file does not exist it returns DefaultConfig(). Keys missing from the file
// keep their default values.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return DefaultConfig(), fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration to the given path in YAML format.
func (c *Config) Save(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
