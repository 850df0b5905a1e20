package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of every environment override.
const EnvPrefix = "MODSTUDIO_"

// DefaultMaxHistorySize is the history bound used when nothing overrides it.
const DefaultMaxHistorySize = 100

// Config holds all modstudio settings.
type Config struct {
	Undo    UndoConfig    `toml:"undo" yaml:"undo" envPrefix:"UNDO_"`
	Log     LogConfig     `toml:"log" yaml:"log" envPrefix:"LOG_"`
	Metrics MetricsConfig `toml:"metrics" yaml:"metrics" envPrefix:"METRICS_"`
}

// UndoConfig configures undo areas.
type UndoConfig struct {
	// MaxHistorySize bounds the visible history of every area. Zero means
	// unbounded.
	MaxHistorySize int `toml:"max_history_size" yaml:"max_history_size" env:"MAX_HISTORY_SIZE"`

	// Areas holds per-area overrides keyed by area name.
	Areas map[string]AreaConfig `toml:"areas" yaml:"areas"`
}

// AreaConfig overrides settings for one area.
type AreaConfig struct {
	MaxHistorySize int `toml:"max_history_size" yaml:"max_history_size"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	// Level is one of debug, info, warn or error.
	Level string `toml:"level" yaml:"level" env:"LEVEL"`

	// Format is text or json.
	Format string `toml:"format" yaml:"format" env:"FORMAT"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `toml:"enabled" yaml:"enabled" env:"ENABLED"`
	Addr    string `toml:"addr" yaml:"addr" env:"ADDR"`
}

var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"text", "json"}
)

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Undo: UndoConfig{
			MaxHistorySize: DefaultMaxHistorySize,
			Areas:          make(map[string]AreaConfig),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Addr: ":9090",
		},
	}
}

// HistorySizeFor returns the history bound of the named area.
func (c *Config) HistorySizeFor(area string) int {
	if a, ok := c.Undo.Areas[area]; ok {
		return a.MaxHistorySize
	}
	return c.Undo.MaxHistorySize
}

// LogLevel returns the configured slog level.
func (c *Config) LogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// Validate checks every setting against its domain.
func (c *Config) Validate() error {
	var errs []error
	if c.Undo.MaxHistorySize < 0 {
		errs = append(errs, invalid("undo.max_history_size", c.Undo.MaxHistorySize))
	}
	for name, a := range c.Undo.Areas {
		if a.MaxHistorySize < 0 {
			errs = append(errs, invalid("undo.areas."+name+".max_history_size", a.MaxHistorySize))
		}
	}
	if !slices.Contains(logLevels, strings.ToLower(c.Log.Level)) {
		errs = append(errs, invalid("log.level", c.Log.Level))
	}
	if !slices.Contains(logFormats, strings.ToLower(c.Log.Format)) {
		errs = append(errs, invalid("log.format", c.Log.Format))
	}
	if c.Metrics.Enabled && c.Metrics.Addr == "" {
		errs = append(errs, invalid("metrics.addr", `""`))
	}
	return errors.Join(errs...)
}

// Option configures Load.
type Option func(*loadOptions)

type loadOptions struct {
	fsys    fs.FS
	environ map[string]string
}

// WithFS reads the configuration file from fsys instead of the OS.
func WithFS(fsys fs.FS) Option {
	return func(o *loadOptions) {
		o.fsys = fsys
	}
}

// WithEnvironment replaces the process environment used for overrides.
func WithEnvironment(environ map[string]string) Option {
	return func(o *loadOptions) {
		o.environ = environ
	}
}

// Load builds the effective configuration from defaults, the file at path
// (skipped when path is empty or the file does not exist) and the
// environment. The result is validated.
func Load(path string, opts ...Option) (*Config, error) {
	var o loadOptions
	for _, opt := range opts {
		opt(&o)
	}

	cfg := Default()
	if path != "" {
		if err := decodeFile(cfg, o.fsys, path); err != nil {
			return nil, err
		}
	}

	envOpts := env.Options{Prefix: EnvPrefix}
	if o.environ != nil {
		envOpts.Environment = o.environ
	}
	if err := env.ParseWithOptions(cfg, envOpts); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decodeFile(cfg *Config, fsys fs.FS, path string) error {
	var (
		data []byte
		err  error
	)
	if fsys != nil {
		data, err = fs.ReadFile(fsys, path)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading config file %s: %w", path, err)
	}
	return Decode(cfg, path, data)
}

// Decode parses data into cfg. The format is chosen from the extension of
// path. Unknown keys are rejected.
func Decode(cfg *Config, path string, data []byte) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		return decodeTOML(cfg, path, data)
	case ".yaml", ".yml":
		return decodeYAML(cfg, path, data)
	default:
		return fmt.Errorf("%s: %w %q", path, ErrUnsupportedFormat, ext)
	}
}

func decodeTOML(cfg *Config, path string, data []byte) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		perr := &ParseError{Path: path, Err: err}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			perr.Line, perr.Column = derr.Position()
		}
		return perr
	}
	return nil
}

func decodeYAML(cfg *Config, path string, data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return &ParseError{Path: path, Err: err}
	}
	return nil
}

// Encode writes cfg as TOML.
func Encode(w io.Writer, cfg *Config) error {
	enc := toml.NewEncoder(w)
	enc.SetIndentTables(true)
	return enc.Encode(cfg)
}
