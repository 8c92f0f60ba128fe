// Package config loads the YAML settings shared by the qubit commands.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/zephyrtronium/qubit"
	"github.com/zephyrtronium/qubit/internal/logger"
)

// Config holds every setting.
type Config struct {
	Format FormatConfig `yaml:"format"`
	Log    LogConfig    `yaml:"log"`
	REPL   REPLConfig   `yaml:"repl"`
	TUI    TUIConfig    `yaml:"tui"`
}

// FormatConfig controls result rendering.
type FormatConfig struct {
	Precision   int    `yaml:"precision"`
	NaN         string `yaml:"nan"`
	GroupDigits bool   `yaml:"group_digits"`
}

// LogConfig selects the log level and destination. An empty File discards
// log output.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

type REPLConfig struct {
	// History is the line-editing history file. Empty means a file in the
	// temporary directory.
	History string `yaml:"history"`
	Prompt  string `yaml:"prompt"`
}

type TUIConfig struct {
	Placeholder string `yaml:"placeholder"`
}

// Defaults returns the configuration used when no file exists.
func Defaults() *Config {
	return &Config{
		Format: FormatConfig{
			Precision: qubit.DefaultFormat.Precision,
			NaN:       qubit.DefaultFormat.NaN,
		},
		Log: LogConfig{
			Level: "info",
		},
		REPL: REPLConfig{
			Prompt: "> ",
		},
		TUI: TUIConfig{
			Placeholder: "12 MASS::KILOGRAM to MASS::POUND",
		},
	}
}

// QubitFormat converts the format section for the calculator.
func (c *Config) QubitFormat() qubit.Format {
	return qubit.Format{
		Precision:   c.Format.Precision,
		NaN:         c.Format.NaN,
		GroupDigits: c.Format.GroupDigits,
	}
}

// LogLevel returns the configured log level.
func (c *Config) LogLevel() logger.Level {
	return logger.ParseLevel(c.Log.Level)
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Format.Precision < 1 || c.Format.Precision > 17 {
		return fmt.Errorf("format.precision must be between 1 and 17, got %d", c.Format.Precision)
	}
	if _, ok := logger.LookupLevel(c.Log.Level); !ok {
		return fmt.Errorf("log.level: unknown level %q", c.Log.Level)
	}
	return nil
}

// Load reads the configuration at path on top of Defaults, expanding ${VAR}
// and ${VAR:-default} from getenv. An empty path means the default location,
// and then a missing file gives the defaults. A missing explicit file is an
// error.
func Load(path string, getenv func(string) string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath(getenv)
		if path == "" {
			return Defaults(), nil
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return Defaults(), nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	cfg, err := Parse(data, getenv)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML configuration data on top of Defaults and validates it.
// Unknown keys are errors.
func Parse(data []byte, getenv func(string) string) (*Config, error) {
	data = interpolateEnv(data, getenv)
	cfg := Defaults()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultPath returns $QUBIT_CONFIG if set, otherwise config.yaml under
// $XDG_CONFIG_HOME/qubit or ~/.config/qubit. It returns "" if no home
// directory is known.
func DefaultPath(getenv func(string) string) string {
	if p := getenv("QUBIT_CONFIG"); p != "" {
		return p
	}
	if dir := getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "qubit", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "qubit", "config.yaml")
}

// envPattern matches ${VAR} or ${VAR:-default}.
var envPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func interpolateEnv(data []byte, getenv func(string) string) []byte {
	return envPattern.ReplaceAllFunc(data, func(match []byte) []byte {
		parts := envPattern.FindSubmatch(match)
		v := getenv(string(parts[1]))
		if v == "" && len(parts[2]) > 0 {
			v = string(parts[2])
		}
		return []byte(v)
	})
}
