// Package config loads editor configuration from a YAML file with an
// environment overlay.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. STAVE_WINDOW_WIDTH.
const EnvPrefix = "STAVE"

// Config is the top-level editor configuration.
type Config struct {
	Window        Window         `yaml:"window"`
	Viewport      Viewport       `yaml:"viewport"`
	Input         Input          `yaml:"input"`
	Resize        Resize         `yaml:"resize"`
	Fonts         Fonts          `yaml:"fonts"`
	Palette       []PaletteEntry `yaml:"palette" ignored:"true"`
	ScreenshotDir string         `yaml:"screenshot_dir" split_words:"true"`
	LogLevel      string         `yaml:"log_level" split_words:"true"`
	Debug         bool           `yaml:"debug"`
}

// Window controls the editor window.
type Window struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	MinWidth   int    `yaml:"min_width" split_words:"true"`
	MinHeight  int    `yaml:"min_height" split_words:"true"`
	MaxWidth   int    `yaml:"max_width" split_words:"true"`  // 0 = unlimited
	MaxHeight  int    `yaml:"max_height" split_words:"true"` // 0 = unlimited
	Fullscreen bool   `yaml:"fullscreen"`
}

// Viewport controls zoom and scrolling.
type Viewport struct {
	MinZoom         float64 `yaml:"min_zoom" split_words:"true"`
	MaxZoom         float64 `yaml:"max_zoom" split_words:"true"`
	WheelZoomFactor float64 `yaml:"wheel_zoom_factor" split_words:"true"`
	ScrollStep      float64 `yaml:"scroll_step" split_words:"true"`
	// AutoInteraction is a pointer so an explicit false in YAML survives
	// defaulting.
	AutoInteraction *bool `yaml:"auto_interaction" split_words:"true"`
}

// Input controls event normalization.
type Input struct {
	DoubleClickInterval time.Duration `yaml:"double_click_interval" split_words:"true"`
	DoubleClickDistance float64       `yaml:"double_click_distance" split_words:"true"`
}

// Resize controls resize handles.
type Resize struct {
	HandleSize float64 `yaml:"handle_size" split_words:"true"`
	// Anchors names the handle positions: top-left, top, top-right, right,
	// bottom-right, bottom, bottom-left, left.
	Anchors []string `yaml:"anchors"`
}

// Fonts selects the text and music fonts.
type Fonts struct {
	// MusicPath is a TTF/OTF music font file. Empty uses the text font.
	MusicPath   string  `yaml:"music_path" split_words:"true"`
	MusicFamily string  `yaml:"music_family" split_words:"true"`
	Unit        float64 `yaml:"unit"`
	TextSize    float64 `yaml:"text_size" split_words:"true"`
}

// PaletteEntry binds a glyph to a key.
type PaletteEntry struct {
	Label string `yaml:"label"`
	Glyph string `yaml:"glyph"`
	Key   string `yaml:"key"`
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads the YAML file at path, overlays STAVE_* environment
// variables, then fills unset fields with defaults. A missing file is an
// error; an empty path skips the file.
func Load(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("config env: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Window.Title == "" {
		c.Window.Title = "stave"
	}
	if c.Window.Width <= 0 {
		c.Window.Width = 1024
	}
	if c.Window.Height <= 0 {
		c.Window.Height = 768
	}
	if c.Window.MinWidth <= 0 {
		c.Window.MinWidth = 320
	}
	if c.Window.MinHeight <= 0 {
		c.Window.MinHeight = 240
	}
	if c.Viewport.MinZoom <= 0 {
		c.Viewport.MinZoom = 0.5
	}
	if c.Viewport.MaxZoom <= 0 {
		c.Viewport.MaxZoom = 50
	}
	if c.Viewport.WheelZoomFactor <= 0 {
		c.Viewport.WheelZoomFactor = 0.9
	}
	if c.Viewport.ScrollStep <= 0 {
		c.Viewport.ScrollStep = 20
	}
	if c.Viewport.AutoInteraction == nil {
		on := true
		c.Viewport.AutoInteraction = &on
	}
	if c.Input.DoubleClickInterval <= 0 {
		c.Input.DoubleClickInterval = 400 * time.Millisecond
	}
	if c.Input.DoubleClickDistance <= 0 {
		c.Input.DoubleClickDistance = 4
	}
	if c.Resize.HandleSize <= 0 {
		c.Resize.HandleSize = 3
	}
	if len(c.Resize.Anchors) == 0 {
		c.Resize.Anchors = []string{"bottom-right"}
	}
	if c.Fonts.MusicFamily == "" {
		c.Fonts.MusicFamily = "music"
	}
	if c.Fonts.Unit <= 0 {
		c.Fonts.Unit = 8
	}
	if c.Fonts.TextSize <= 0 {
		c.Fonts.TextSize = 12
	}
	if len(c.Palette) == 0 {
		c.Palette = []PaletteEntry{
			{Label: "Treble clef", Glyph: "gClef", Key: "G"},
			{Label: "Bass clef", Glyph: "fClef", Key: "F"},
			{Label: "Quarter note", Glyph: "noteheadBlack", Key: "Q"},
			{Label: "Half note", Glyph: "noteheadHalf", Key: "H"},
			{Label: "Sharp", Glyph: "accidentalSharp", Key: "S"},
			{Label: "Flat", Glyph: "accidentalFlat", Key: "B"},
		}
	}
	if c.ScreenshotDir == "" {
		c.ScreenshotDir = "screenshots"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	if c.Viewport.MinZoom > c.Viewport.MaxZoom {
		return fmt.Errorf("%w: min_zoom %g above max_zoom %g", ErrInvalid, c.Viewport.MinZoom, c.Viewport.MaxZoom)
	}
	if c.Window.MaxWidth > 0 && c.Window.MaxWidth < c.Window.MinWidth {
		return fmt.Errorf("%w: max_width %d below min_width %d", ErrInvalid, c.Window.MaxWidth, c.Window.MinWidth)
	}
	if c.Window.MaxHeight > 0 && c.Window.MaxHeight < c.Window.MinHeight {
		return fmt.Errorf("%w: max_height %d below min_height %d", ErrInvalid, c.Window.MaxHeight, c.Window.MinHeight)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ParseLevel maps a level name (debug, info, warn, error) to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("%w: log_level %q", ErrInvalid, s)
	}
	return l, nil
}

// Logger returns a text logger writing to stderr at the configured level.
// Debug mode forces the debug level.
func (c *Config) Logger() *slog.Logger {
	level, err := ParseLevel(c.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	if c.Debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
