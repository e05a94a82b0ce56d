// Package config loads and validates the immutable target configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"

	"github.com/resguard/resguard/internal/domain"
)

// Defaults: 4K @ 120 Hz, matching the most common sink-renegotiation victim.
const (
	DefaultWidth        = 3840
	DefaultHeight       = 2160
	DefaultColorDepth   = 32
	DefaultRefreshRate  = 120
	DefaultPollInterval = 5 * time.Second
	DefaultDebounce     = 2
	DefaultMaxFailures  = 3
	DefaultHotkey       = "ctrl+alt+d"

	// MinPollInterval guards against configs that would hammer the display API.
	MinPollInterval = 100 * time.Millisecond

	// EnvConfigPath overrides the config search path.
	EnvConfigPath = "RESGUARD_CONFIG"
)

// Config is the process-wide target configuration.
// Loaded once at startup and never mutated afterwards.
type Config struct {
	Target        domain.DisplayMode
	PollInterval  time.Duration
	DebounceCount int
	MaxFailures   int
	Hotkey        string
}

// Load reads configuration from path, or from the standard search locations
// when path is empty: $RESGUARD_CONFIG, ./resguard.toml,
// ~/.config/resguard/resguard.toml, /etc/resguard/resguard.toml.
// A missing file yields defaults; an invalid file or value is fatal.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("toml")

	v.SetDefault("display.width", DefaultWidth)
	v.SetDefault("display.height", DefaultHeight)
	v.SetDefault("display.color_depth", DefaultColorDepth)
	v.SetDefault("display.refresh_rate", DefaultRefreshRate)
	v.SetDefault("enforce.poll_interval", DefaultPollInterval.String())
	v.SetDefault("enforce.debounce_count", DefaultDebounce)
	v.SetDefault("enforce.max_failures", DefaultMaxFailures)
	v.SetDefault("hotkey.combination", DefaultHotkey)

	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, &domain.ConfigError{Field: "file", Reason: err.Error()}
		}
	} else {
		v.SetConfigName("resguard")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/resguard")
		v.AddConfigPath("/etc/resguard")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, &domain.ConfigError{Field: "file", Reason: err.Error()}
			}
			// No config file anywhere: run on defaults.
		}
	}

	cfg := &Config{
		Target: domain.DisplayMode{
			Width:          v.GetUint("display.width"),
			Height:         v.GetUint("display.height"),
			ColorDepthBits: v.GetUint("display.color_depth"),
			RefreshRateHz:  v.GetUint("display.refresh_rate"),
		},
		PollInterval:  v.GetDuration("enforce.poll_interval"),
		DebounceCount: v.GetInt("enforce.debounce_count"),
		MaxFailures:   v.GetInt("enforce.max_failures"),
		Hotkey:        v.GetString("hotkey.combination"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Target.Width == 0 {
		return &domain.ConfigError{Field: "display.width", Reason: "must be > 0"}
	}
	if c.Target.Height == 0 {
		return &domain.ConfigError{Field: "display.height", Reason: "must be > 0"}
	}
	switch c.Target.ColorDepthBits {
	case 8, 16, 24, 32:
	default:
		return &domain.ConfigError{
			Field:  "display.color_depth",
			Reason: fmt.Sprintf("unsupported depth %d (want 8, 16, 24 or 32)", c.Target.ColorDepthBits),
		}
	}
	if c.Target.RefreshRateHz == 0 {
		return &domain.ConfigError{Field: "display.refresh_rate", Reason: "must be > 0"}
	}
	if c.PollInterval < MinPollInterval {
		return &domain.ConfigError{
			Field:  "enforce.poll_interval",
			Reason: fmt.Sprintf("%s is below the %s minimum", c.PollInterval, MinPollInterval),
		}
	}
	if c.DebounceCount < 1 {
		return &domain.ConfigError{Field: "enforce.debounce_count", Reason: "must be >= 1"}
	}
	if c.MaxFailures < 1 {
		return &domain.ConfigError{Field: "enforce.max_failures", Reason: "must be >= 1"}
	}
	if c.Hotkey == "" {
		return &domain.ConfigError{Field: "hotkey.combination", Reason: "must not be empty"}
	}
	return nil
}
