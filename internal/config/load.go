package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// EnvPrefix starts every environment override.
const EnvPrefix = "SENSETYPE_"

// Load builds the configuration from defaults, the file at path and the
// environment. An empty path reads DefaultPath if it exists.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := decode(&cfg, path, data); err != nil {
			return Config{}, err
		}
	case errors.Is(err, os.ErrNotExist):
		if explicit {
			return Config{}, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
	default:
		return Config{}, err
	}

	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return Config{}, err
	}
	cfg.expand()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse decodes TOML over the defaults without consulting the file system
// or environment.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := decode(&cfg, "<input>", data); err != nil {
		return Config{}, err
	}
	cfg.expand()
	return cfg, cfg.Validate()
}

func decode(cfg *Config, source string, data []byte) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		perr := &ParseError{Source: source, Err: err}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			perr.Line, _ = derr.Position()
		}
		return perr
	}
	return nil
}

func (c *Config) expand() {
	c.Log.File = ExpandHome(c.Log.File)
	c.Audio.CacheDir = ExpandHome(c.Audio.CacheDir)
	c.Progress.Path = ExpandHome(c.Progress.Path)
	c.Script.Path = ExpandHome(c.Script.Path)
}

type envSetter func(c *Config, v string) error

var envOverrides = map[string]envSetter{
	"LOG_LEVEL":           func(c *Config, v string) error { c.Log.Level = strings.ToLower(v); return nil },
	"LOG_FORMAT":          func(c *Config, v string) error { c.Log.Format = strings.ToLower(v); return nil },
	"LOG_FILE":            func(c *Config, v string) error { c.Log.File = v; return nil },
	"INPUT_THROTTLE":      durationSetter(func(c *Config) *Duration { return &c.Input.Throttle }),
	"AUDIO_TICK":          durationSetter(func(c *Config) *Duration { return &c.Audio.Tick }),
	"AUDIO_RATE":          setRate,
	"AUDIO_COMMAND":       func(c *Config, v string) error { c.Audio.Command = strings.Fields(v); return nil },
	"AUDIO_CACHE_DIR":     func(c *Config, v string) error { c.Audio.CacheDir = v; return nil },
	"PROGRESS_PATH":       func(c *Config, v string) error { c.Progress.Path = v; return nil },
	"PROGRESS_SAVE_DELAY": durationSetter(func(c *Config) *Duration { return &c.Progress.SaveDelay }),
	"SCRIPT_PATH":         func(c *Config, v string) error { c.Script.Path = v; return nil },
	"WATCH_ENABLED":       setWatch,
	"WATCH_DELAY":         durationSetter(func(c *Config) *Duration { return &c.Watch.Delay }),
}

func durationSetter(field func(*Config) *Duration) envSetter {
	return func(c *Config, v string) error {
		return field(c).UnmarshalText([]byte(v))
	}
}

func setRate(c *Config, v string) error {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return err
	}
	c.Audio.Rate = f
	return nil
}

func setWatch(c *Config, v string) error {
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return err
	}
	c.Watch.Enabled = b
	return nil
}

// applyEnv overrides cfg from environment variables. Empty values count as
// set.
func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	for suffix, set := range envOverrides {
		name := EnvPrefix + suffix
		v, ok := lookup(name)
		if !ok {
			continue
		}
		if err := set(cfg, v); err != nil {
			return &ParseError{Source: name, Err: err}
		}
	}
	return nil
}
