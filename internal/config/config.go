// Package config loads and watches the editor engine configuration.
//
// Configuration comes from three layers, later layers overriding earlier
// ones: built-in defaults, a TOML file, and EDITKIT_-prefixed environment
// variables. A missing config file is not an error; the defaults apply.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/editkit/internal/engine"
)

// EnvPrefix is the prefix for environment variable overrides.
const EnvPrefix = "EDITKIT_"

// Config is the root configuration document.
type Config struct {
	Editor EditorConfig `toml:"editor"`
}

// EditorConfig configures the edit engine.
type EditorConfig struct {
	// TabWidth is the display width of a tab character.
	TabWidth int `toml:"tabWidth"`

	// IndentUnit is the whitespace string for one auto-indent level.
	IndentUnit string `toml:"indentUnit"`

	// AutoClosePairs enables bracket auto-closing and skip-over.
	AutoClosePairs bool `toml:"autoClosePairs"`

	// FlushDelayMS is the write-buffer debounce delay in milliseconds.
	FlushDelayMS int `toml:"flushDelayMs"`

	// MaxUndoEntries bounds the undo history.
	MaxUndoEntries int `toml:"maxUndoEntries"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Editor: EditorConfig{
			TabWidth:       4,
			IndentUnit:     engine.DefaultIndentUnit,
			AutoClosePairs: true,
			FlushDelayMS:   int(engine.DefaultFlushDelay / time.Millisecond),
			MaxUndoEntries: engine.DefaultMaxUndoEntries,
		},
	}
}

// Load reads the configuration file at path, layering it over the defaults
// and applying environment overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return cfg, fmt.Errorf("reading config file %s: %w", path, err)
		}
	} else if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parsing config file %s: %w", path, err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return Default(), err
	}
	return cfg, nil
}

// applyEnv overrides fields from EDITKIT_ environment variables.
func (c *Config) applyEnv() {
	if v, ok := envInt("TAB_WIDTH"); ok {
		c.Editor.TabWidth = v
	}
	if v, ok := os.LookupEnv(EnvPrefix + "INDENT_UNIT"); ok {
		c.Editor.IndentUnit = v
	}
	if v, ok := envBool("AUTO_CLOSE_PAIRS"); ok {
		c.Editor.AutoClosePairs = v
	}
	if v, ok := envInt("FLUSH_DELAY_MS"); ok {
		c.Editor.FlushDelayMS = v
	}
	if v, ok := envInt("MAX_UNDO_ENTRIES"); ok {
		c.Editor.MaxUndoEntries = v
	}
}

func envInt(name string) (int, bool) {
	v, ok := os.LookupEnv(EnvPrefix + name)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func envBool(name string) (bool, bool) {
	v, ok := os.LookupEnv(EnvPrefix + name)
	if !ok {
		return false, false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, false
	}
	return b, true
}

// Validate checks the configuration for out-of-range values.
func (c Config) Validate() error {
	if c.Editor.TabWidth < 1 || c.Editor.TabWidth > 16 {
		return fmt.Errorf("editor.tabWidth %d out of range [1,16]", c.Editor.TabWidth)
	}
	if c.Editor.FlushDelayMS < 0 {
		return fmt.Errorf("editor.flushDelayMs %d must not be negative", c.Editor.FlushDelayMS)
	}
	if c.Editor.MaxUndoEntries < 1 {
		return fmt.Errorf("editor.maxUndoEntries %d must be positive", c.Editor.MaxUndoEntries)
	}
	return nil
}

// FlushDelay returns the debounce delay as a duration.
func (c EditorConfig) FlushDelay() time.Duration {
	return time.Duration(c.FlushDelayMS) * time.Millisecond
}

// EngineOptions translates the configuration into engine options.
func (c Config) EngineOptions() []engine.Option {
	return []engine.Option{
		engine.WithIndentUnit(c.Editor.IndentUnit),
		engine.WithAutoClose(c.Editor.AutoClosePairs),
		engine.WithFlushDelay(c.Editor.FlushDelay()),
		engine.WithMaxUndoEntries(c.Editor.MaxUndoEntries),
	}
}
