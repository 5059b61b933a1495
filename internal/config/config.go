package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/textrope/internal/config/loader"
	"github.com/dshills/textrope/internal/engine"
	"github.com/dshills/textrope/internal/engine/buffer"
	"github.com/dshills/textrope/internal/engine/rope"
	plua "github.com/dshills/textrope/internal/plugin/lua"
)

// Config holds the settings shared by the textrope tools.
type Config struct {
	Rope    RopeConfig    `toml:"rope"`
	History HistoryConfig `toml:"history"`
	Log     LogConfig     `toml:"log"`
	Script  ScriptConfig  `toml:"script"`
	Input   InputConfig   `toml:"input"`
}

// RopeConfig configures tree construction.
type RopeConfig struct {
	// MaxLeafUnits is the leaf size, in UTF-16 code units, used when a
	// whole text is loaded.
	MaxLeafUnits int `toml:"max_leaf_units"`
}

// HistoryConfig configures undo history.
type HistoryConfig struct {
	MaxEntries int `toml:"max_entries"`
}

// LogConfig configures the slog handler.
type LogConfig struct {
	Level  string `toml:"level"`  // debug, info, warn or error
	Format string `toml:"format"` // text or json
}

// ScriptConfig configures the Lua sandbox.
type ScriptConfig struct {
	CallLimit int64    `toml:"call_limit"`
	Timeout   Duration `toml:"timeout"`
}

// InputConfig configures how files are read.
type InputConfig struct {
	Encoding   string `toml:"encoding"`
	LineEnding string `toml:"line_ending"`
}

// Duration is a time.Duration written as a string such as "5s".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Rope:    RopeConfig{MaxLeafUnits: engine.DefaultLeafUnits},
		History: HistoryConfig{MaxEntries: engine.DefaultMaxUndoEntries},
		Log:     LogConfig{Level: "info", Format: "text"},
		Script: ScriptConfig{
			CallLimit: plua.DefaultCallLimit,
			Timeout:   Duration(plua.DefaultExecutionTimeout),
		},
		Input: InputConfig{Encoding: "utf-8", LineEnding: "as-is"},
	}
}

// Load builds a Config from the defaults, the TOML file at path and the
// TEXTROPE_ environment, in increasing priority. A missing file is not an
// error and an empty path skips the file.
func Load(path string) (*Config, error) {
	return load(loader.NewTOMLLoader(path), loader.NewEnvLoader(loader.DefaultEnvPrefix))
}

func load(file *loader.TOMLLoader, env loader.Loader) (*Config, error) {
	cfg := Default()

	if file.Path() != "" {
		values, err := file.Load()
		if err != nil {
			return nil, err
		}
		if err := cfg.apply(file.Path(), values, true); err != nil {
			return nil, err
		}
	}

	values, err := env.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.apply("environment", values, false); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// apply decodes values over c. Keys c does not know are rejected when
// strict is set and ignored otherwise.
func (c *Config) apply(source string, values map[string]any, strict bool) error {
	if len(values) == 0 {
		return nil
	}

	data, err := toml.Marshal(values)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", source, err)
	}

	dec := toml.NewDecoder(bytes.NewReader(data))
	if strict {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(c); err != nil {
		pe := loader.NewParseError(source, err)
		// Positions refer to the merged document, not the user's file.
		pe.Line, pe.Column = 0, 0
		return pe
	}
	return nil
}

// Validate reports every invalid setting, joined into one error wrapping
// ErrInvalidConfig.
func (c *Config) Validate() error {
	var errs []error
	if c.Rope.MaxLeafUnits < rope.MinLeafUnits {
		errs = append(errs, fmt.Errorf("rope.max_leaf_units must be at least %d, got %d", rope.MinLeafUnits, c.Rope.MaxLeafUnits))
	}
	if c.History.MaxEntries < 1 {
		errs = append(errs, fmt.Errorf("history.max_entries must be positive, got %d", c.History.MaxEntries))
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if f := strings.ToLower(c.Log.Format); f != "text" && f != "json" {
		errs = append(errs, fmt.Errorf("log.format must be text or json, got %q", c.Log.Format))
	}
	if c.Script.CallLimit < 0 {
		errs = append(errs, fmt.Errorf("script.call_limit must not be negative, got %d", c.Script.CallLimit))
	}
	if c.Script.Timeout < 0 {
		errs = append(errs, fmt.Errorf("script.timeout must not be negative, got %s", time.Duration(c.Script.Timeout)))
	}
	if _, err := buffer.ParseEncoding(c.Input.Encoding); err != nil {
		errs = append(errs, fmt.Errorf("input.encoding: %w", err))
	}
	if _, err := buffer.ParseLineEnding(c.Input.LineEnding); err != nil {
		errs = append(errs, fmt.Errorf("input.line_ending: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// ParseLevel parses a log level name.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log.level: unknown level %q", name)
	}
	return level, nil
}

// NewLogger returns a logger writing to w in the configured format and
// level.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	level, err := ParseLevel(c.Log.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if strings.EqualFold(c.Log.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Encoding returns the configured input encoding.
func (c *Config) Encoding() buffer.Encoding {
	enc, _ := buffer.ParseEncoding(c.Input.Encoding)
	return enc
}

// EngineOptions returns the engine options for this configuration.
func (c *Config) EngineOptions(logger *slog.Logger) []engine.Option {
	le, _ := buffer.ParseLineEnding(c.Input.LineEnding)
	return []engine.Option{
		engine.WithLeafUnits(c.Rope.MaxLeafUnits),
		engine.WithMaxUndoEntries(c.History.MaxEntries),
		engine.WithLineEnding(le),
		engine.WithLogger(logger),
	}
}

// StateOptions returns the Lua state options for this configuration.
func (c *Config) StateOptions(logger *slog.Logger) []plua.StateOption {
	return []plua.StateOption{
		plua.WithCallLimit(c.Script.CallLimit),
		plua.WithExecutionTimeout(time.Duration(c.Script.Timeout)),
		plua.WithLogger(logger),
	}
}
