// Package config loads coverflow settings from a TOML file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/teranos/coverflow"
	"github.com/teranos/coverflow/deck"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// EnvPrefix prefixes environment overrides, e.g. COVERFLOW_GESTURE_MAX_DRAG.
const EnvPrefix = "COVERFLOW"

// Config holds application configuration.
type Config struct {
	Gesture  GestureConfig  `mapstructure:"gesture"`
	Layout   LayoutConfig   `mapstructure:"layout"`
	Fit      FitConfig      `mapstructure:"fit"`
	Log      LogConfig      `mapstructure:"log"`
	Terminal TerminalConfig `mapstructure:"terminal"`
	Frames   FramesConfig   `mapstructure:"frames"`
	Cards    []deck.Card    `mapstructure:"cards"`
}

// GestureConfig holds the drag constants, in gesture units.
type GestureConfig struct {
	MouseThreshold float64       `mapstructure:"mouse_threshold"`
	TouchThreshold float64       `mapstructure:"touch_threshold"`
	WheelThreshold float64       `mapstructure:"wheel_threshold"`
	MaxDrag        float64       `mapstructure:"max_drag"`
	WheelIdle      time.Duration `mapstructure:"wheel_idle"`
}

// LayoutConfig holds responsive layout settings.
type LayoutConfig struct {
	Breakpoints []BreakpointConfig `mapstructure:"breakpoints"`
	RefitDelay  time.Duration      `mapstructure:"refit_delay"`
}

// BreakpointConfig maps a minimum viewport width to a side card offset.
type BreakpointConfig struct {
	MinWidth   float64 `mapstructure:"min_width"`
	BaseOffset float64 `mapstructure:"base_offset"`
}

// FitConfig bounds quote autosizing.
type FitConfig struct {
	MinFontSize int `mapstructure:"min_font_size"`
	MaxFontSize int `mapstructure:"max_font_size"`
	Step        int `mapstructure:"step"`
}

// LogConfig holds logging settings. An empty File disables logging in the
// terminal host.
type LogConfig struct {
	Verbosity int    `mapstructure:"verbosity"`
	File      string `mapstructure:"file"`
}

// TerminalConfig holds terminal host settings.
type TerminalConfig struct {
	// CellWidth converts terminal columns into gesture units
	CellWidth    float64 `mapstructure:"cell_width"`
	MinCardWidth int     `mapstructure:"min_card_width"`
	MaxCardWidth int     `mapstructure:"max_card_width"`
	Mouse        bool    `mapstructure:"mouse"`
}

// FramesConfig holds raster frame settings.
type FramesConfig struct {
	Width     int     `mapstructure:"width"`
	Height    int     `mapstructure:"height"`
	OutputDir string  `mapstructure:"output_dir"`
	Tolerance float64 `mapstructure:"tolerance"`
}

// Default returns the built-in configuration.
func Default() Config {
	tracker := coverflow.DefaultTrackerConfig()
	fit := coverflow.QuoteFitOptions()

	var bps []BreakpointConfig
	for _, bp := range coverflow.DefaultBreakpoints() {
		bps = append(bps, BreakpointConfig{MinWidth: bp.MinWidth, BaseOffset: bp.BaseOffsetPercent})
	}

	return Config{
		Gesture: GestureConfig{
			MouseThreshold: tracker.MouseThreshold,
			TouchThreshold: tracker.TouchThreshold,
			WheelThreshold: tracker.WheelThreshold,
			MaxDrag:        tracker.MaxDrag,
			WheelIdle:      coverflow.DefaultWheelIdle,
		},
		Layout: LayoutConfig{
			Breakpoints: bps,
			RefitDelay:  coverflow.DefaultRefitDelay,
		},
		Fit: FitConfig{
			MinFontSize: fit.Min,
			MaxFontSize: fit.Max,
			Step:        fit.Step,
		},
		Terminal: TerminalConfig{
			CellWidth:    8,
			MinCardWidth: 16,
			MaxCardWidth: 48,
			Mouse:        true,
		},
		Frames: FramesConfig{
			Width:     960,
			Height:    400,
			OutputDir: "frames",
			Tolerance: 0.05,
		},
	}
}

// Load reads configuration from path, or from coverflow.toml in
// $HOME/.config/coverflow and the working directory when path is empty.
// A missing default file is not an error. Env vars override file values.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetConfigType("toml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "coverflow"))
		v.AddConfigPath(".")
		v.SetConfigName("coverflow")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("gesture.mouse_threshold", d.Gesture.MouseThreshold)
	v.SetDefault("gesture.touch_threshold", d.Gesture.TouchThreshold)
	v.SetDefault("gesture.wheel_threshold", d.Gesture.WheelThreshold)
	v.SetDefault("gesture.max_drag", d.Gesture.MaxDrag)
	v.SetDefault("gesture.wheel_idle", d.Gesture.WheelIdle)

	bps := make([]map[string]interface{}, 0, len(d.Layout.Breakpoints))
	for _, bp := range d.Layout.Breakpoints {
		bps = append(bps, map[string]interface{}{"min_width": bp.MinWidth, "base_offset": bp.BaseOffset})
	}
	v.SetDefault("layout.breakpoints", bps)
	v.SetDefault("layout.refit_delay", d.Layout.RefitDelay)

	v.SetDefault("fit.min_font_size", d.Fit.MinFontSize)
	v.SetDefault("fit.max_font_size", d.Fit.MaxFontSize)
	v.SetDefault("fit.step", d.Fit.Step)

	v.SetDefault("log.verbosity", d.Log.Verbosity)
	v.SetDefault("log.file", d.Log.File)

	v.SetDefault("terminal.cell_width", d.Terminal.CellWidth)
	v.SetDefault("terminal.min_card_width", d.Terminal.MinCardWidth)
	v.SetDefault("terminal.max_card_width", d.Terminal.MaxCardWidth)
	v.SetDefault("terminal.mouse", d.Terminal.Mouse)

	v.SetDefault("frames.width", d.Frames.Width)
	v.SetDefault("frames.height", d.Frames.Height)
	v.SetDefault("frames.output_dir", d.Frames.OutputDir)
	v.SetDefault("frames.tolerance", d.Frames.Tolerance)
}

// Validate checks value ranges.
func (c Config) Validate() error {
	switch {
	case c.Gesture.MouseThreshold <= 0 || c.Gesture.TouchThreshold <= 0 || c.Gesture.WheelThreshold <= 0:
		return fmt.Errorf("%w: gesture thresholds must be positive", ErrInvalidConfig)
	case c.Gesture.MaxDrag <= 0:
		return fmt.Errorf("%w: gesture.max_drag must be positive", ErrInvalidConfig)
	case c.Gesture.WheelIdle < 0:
		return fmt.Errorf("%w: gesture.wheel_idle %s is negative", ErrInvalidConfig, c.Gesture.WheelIdle)
	case c.Layout.RefitDelay < 0:
		return fmt.Errorf("%w: layout.refit_delay %s is negative", ErrInvalidConfig, c.Layout.RefitDelay)
	case c.Fit.MinFontSize <= 0 || c.Fit.MaxFontSize < c.Fit.MinFontSize:
		return fmt.Errorf("%w: fit range %d..%d", ErrInvalidConfig, c.Fit.MinFontSize, c.Fit.MaxFontSize)
	case c.Fit.Step < 0:
		return fmt.Errorf("%w: fit.step must not be negative", ErrInvalidConfig)
	case c.Terminal.CellWidth <= 0:
		return fmt.Errorf("%w: terminal.cell_width must be positive", ErrInvalidConfig)
	case c.Terminal.MinCardWidth <= 0 || c.Terminal.MaxCardWidth < c.Terminal.MinCardWidth:
		return fmt.Errorf("%w: terminal card width range %d..%d",
			ErrInvalidConfig, c.Terminal.MinCardWidth, c.Terminal.MaxCardWidth)
	case c.Frames.Width <= 0 || c.Frames.Height <= 0:
		return fmt.Errorf("%w: frames size %dx%d", ErrInvalidConfig, c.Frames.Width, c.Frames.Height)
	case c.Frames.Tolerance < 0 || c.Frames.Tolerance > 1:
		return fmt.Errorf("%w: frames.tolerance must be within 0..1", ErrInvalidConfig)
	}
	return nil
}

// TrackerConfig returns the gesture constants for the engine.
func (c Config) TrackerConfig() coverflow.TrackerConfig {
	return coverflow.TrackerConfig{
		MouseThreshold: c.Gesture.MouseThreshold,
		TouchThreshold: c.Gesture.TouchThreshold,
		WheelThreshold: c.Gesture.WheelThreshold,
		MaxDrag:        c.Gesture.MaxDrag,
	}
}

// Breakpoints returns the layout breakpoints for coverflow.BaseOffsetFor.
func (c Config) Breakpoints() []coverflow.Breakpoint {
	out := make([]coverflow.Breakpoint, 0, len(c.Layout.Breakpoints))
	for _, bp := range c.Layout.Breakpoints {
		out = append(out, coverflow.Breakpoint{MinWidth: bp.MinWidth, BaseOffsetPercent: bp.BaseOffset})
	}
	return out
}

// FitOptions returns the quote font size range.
func (c Config) FitOptions() coverflow.FitOptions {
	return coverflow.FitOptions{Min: c.Fit.MinFontSize, Max: c.Fit.MaxFontSize, Step: c.Fit.Step}
}

// EngineOptions returns the engine options implied by the configuration.
func (c Config) EngineOptions() []coverflow.Option {
	return []coverflow.Option{
		coverflow.WithTracker(c.TrackerConfig()),
		coverflow.WithWheelIdle(c.Gesture.WheelIdle),
		coverflow.WithRefitDelay(c.Layout.RefitDelay),
	}
}

// Deck returns the configured cards, or the sample deck when none are set.
func (c Config) Deck() []deck.Card {
	if len(c.Cards) == 0 {
		return deck.Sample()
	}
	return c.Cards
}
