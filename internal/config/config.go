// Package config loads the firmware's runtime configuration from a TOML
// file. Configuration is read once at startup; there is no live reload.
package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/MJD19994/macropad/internal/profile"
)

// Output sink selection values.
const (
	OutputNone   = "none"
	OutputUinput = "uinput"
)

// Config holds the runtime configuration.
type Config struct {
	// ProfilesDir is the folder scanned for profile descriptors.
	ProfilesDir string `toml:"profiles_dir"`

	// GameKey is the key index that starts the game when the game
	// launcher profile is active.
	GameKey int `toml:"game_key"`

	// GameName titles the game launcher's menu entry.
	GameName string `toml:"game_name"`

	// GameScript optionally replaces the built-in game script.
	GameScript string `toml:"game_script"`

	// LogLevel is the minimum log level: debug, info, warn or error.
	LogLevel string `toml:"log_level"`

	// LogFile is where log lines are written. Empty means stderr, which
	// interleaves with the simulator screen; point it at a file when
	// running interactively.
	LogFile string `toml:"log_file"`

	// Output selects where device actions are forwarded: "none" keeps
	// them in the simulator's action log only, "uinput" forwards to a
	// virtual input device (Linux only).
	Output string `toml:"output"`

	// SlotWidth is the display label width per key slot, in cells.
	SlotWidth int `toml:"slot_width"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		ProfilesDir: "macros",
		GameKey:     11,
		GameName:    "Dragon Drop",
		LogLevel:    "info",
		Output:      OutputNone,
		SlotWidth:   7,
	}
}

// Load reads configuration from path, merged over defaults. A missing
// file is not an error; defaults are returned.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks field ranges.
func (c *Config) Validate() error {
	if c.ProfilesDir == "" {
		return fmt.Errorf("profiles_dir must not be empty")
	}
	if c.GameKey < 0 || c.GameKey >= profile.MaxBindings {
		return fmt.Errorf("game_key %d out of range 0-%d", c.GameKey, profile.MaxBindings-1)
	}
	switch c.Output {
	case OutputNone, OutputUinput:
	default:
		return fmt.Errorf("unknown output %q", c.Output)
	}
	if c.SlotWidth < 1 {
		return fmt.Errorf("slot_width must be positive")
	}
	return nil
}
