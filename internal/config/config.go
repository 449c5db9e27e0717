package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Duration is a time.Duration written as a string ("20ms", "1.5s").
type Duration struct {
	time.Duration
}

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(b)))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Config holds every setting.
type Config struct {
	Log      LogConfig      `toml:"log"`
	Input    InputConfig    `toml:"input"`
	Audio    AudioConfig    `toml:"audio"`
	Progress ProgressConfig `toml:"progress"`
	Script   ScriptConfig   `toml:"script"`
	Watch    WatchConfig    `toml:"watch"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level"`

	// Format is console or json.
	Format string `toml:"format"`

	// File is the log destination. Empty means stderr.
	File string `toml:"file"`
}

// InputConfig controls key handling.
type InputConfig struct {
	// Throttle is the key-repeat window. Zero disables throttling.
	Throttle Duration `toml:"throttle"`
}

// AudioConfig controls audio playback.
type AudioConfig struct {
	// Tick is how often the player reports its position.
	Tick Duration `toml:"tick"`

	// Rate is the playback speed multiplier.
	Rate float64 `toml:"rate"`

	// Command is an argv template for an external player. Empty selects the
	// silent clock player.
	Command []string `toml:"command"`

	// CacheDir holds downloaded audio assets.
	CacheDir string `toml:"cache_dir"`
}

// ProgressConfig controls resume persistence.
type ProgressConfig struct {
	// Path is the SQLite database. Empty disables persistence.
	Path string `toml:"path"`

	// SaveDelay is the quiet period before the cursor offset is written.
	SaveDelay Duration `toml:"save_delay"`
}

// ScriptConfig controls Lua hooks.
type ScriptConfig struct {
	// Path is the hook script. Empty disables scripting.
	Path string `toml:"path"`
}

// WatchConfig controls exercise hot reload.
type WatchConfig struct {
	Enabled bool     `toml:"enabled"`
	Delay   Duration `toml:"delay"`
}

// Default returns the built-in settings.
func Default() Config {
	data := DataDir()
	return Config{
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Input: InputConfig{
			Throttle: Duration{20 * time.Millisecond},
		},
		Audio: AudioConfig{
			Tick:     Duration{50 * time.Millisecond},
			Rate:     1,
			CacheDir: filepath.Join(CacheDir(), "audio"),
		},
		Progress: ProgressConfig{
			Path:      filepath.Join(data, "progress.db"),
			SaveDelay: Duration{500 * time.Millisecond},
		},
		Watch: WatchConfig{
			Enabled: true,
			Delay:   Duration{150 * time.Millisecond},
		},
	}
}

var levels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Validate checks every setting and returns all problems joined.
func (c Config) Validate() error {
	var errs []error
	bad := func(field, reason string) {
		errs = append(errs, &FieldError{Field: field, Reason: reason})
	}

	if !levels[c.Log.Level] {
		bad("log.level", "unknown level "+quote(c.Log.Level))
	}
	if c.Log.Format != "console" && c.Log.Format != "json" {
		bad("log.format", "must be console or json")
	}
	for field, d := range map[string]Duration{
		"input.throttle":      c.Input.Throttle,
		"audio.tick":          c.Audio.Tick,
		"progress.save_delay": c.Progress.SaveDelay,
		"watch.delay":         c.Watch.Delay,
	} {
		if d.Duration < 0 {
			bad(field, "must not be negative")
		}
	}
	if c.Audio.Tick.Duration == 0 {
		bad("audio.tick", "must be positive")
	}
	if c.Audio.Rate <= 0 {
		bad("audio.rate", "must be positive")
	}
	return errors.Join(errs...)
}

// DefaultPath returns the config file location used when none is named.
func DefaultPath() string {
	return filepath.Join(xdg("XDG_CONFIG_HOME", ".config"), "sensetype", "config.toml")
}

// DataDir returns the directory for persistent state.
func DataDir() string {
	return filepath.Join(xdg("XDG_DATA_HOME", filepath.Join(".local", "share")), "sensetype")
}

// CacheDir returns the directory for disposable downloads.
func CacheDir() string {
	return filepath.Join(xdg("XDG_CACHE_HOME", ".cache"), "sensetype")
}

func xdg(env, fallback string) string {
	if dir := os.Getenv(env); dir != "" {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, fallback)
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

func quote(s string) string {
	return `"` + s + `"`
}
