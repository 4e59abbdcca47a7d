// Package config provides configuration management for jsonsort.
//
// Configuration is loaded from three sources with the following precedence
// (highest to lowest):
//  1. CLI flags
//  2. Environment variables (JSONSORT_ prefix)
//  3. Config file (.jsonsort.yaml)
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hupe1980/jsonsort/internal/canon"
	"github.com/hupe1980/jsonsort/internal/lineending"
)

// Supported log levels.
const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

// Supported log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Default indentation widths when indent-count is 0.
const (
	DefaultSpaceIndent = 2
	DefaultTabIndent   = 1
)

// Config represents the global configuration for jsonsort.
type Config struct {
	// LogLevel controls the verbosity of log output.
	// Valid values: debug, info, warn, error.
	LogLevel string `mapstructure:"log-level" json:"logLevel" yaml:"log-level"`

	// LogFormat controls the format of log output.
	// Valid values: text, json.
	LogFormat string `mapstructure:"log-format" json:"logFormat" yaml:"log-format"`

	// NoColor disables colored output.
	NoColor bool `mapstructure:"no-color" json:"noColor" yaml:"no-color"`

	// Quiet suppresses report lines and all log output below error level.
	Quiet bool `mapstructure:"quiet" json:"quiet" yaml:"quiet"`

	// Verbose forces debug logging and overrides Quiet.
	Verbose bool `mapstructure:"verbose" json:"verbose" yaml:"verbose"`

	// Arrays also sorts arrays whose elements are all strings.
	Arrays bool `mapstructure:"arrays" json:"arrays" yaml:"arrays"`

	// Spaces indents with spaces instead of tabs.
	Spaces bool `mapstructure:"spaces" json:"spaces" yaml:"spaces"`

	// IndentCount is the number of indent characters per level.
	// 0 selects 2 for spaces and 1 for tabs.
	IndentCount int `mapstructure:"indent-count" json:"indentCount" yaml:"indent-count"`

	// LineEnding is one of auto, cr, lf, crlf.
	LineEnding string `mapstructure:"line-ending" json:"lineEnding" yaml:"line-ending"`

	// DryRun reports what would change without writing.
	DryRun bool `mapstructure:"dry-run" json:"dryRun" yaml:"dry-run"`

	// Ignore lists extra path substrings skipped in addition to the built-in
	// ignore table.
	Ignore []string `mapstructure:"ignore" json:"ignore,omitempty" yaml:"ignore,omitempty"`

	// Exclude lists doublestar glob patterns of paths to skip.
	Exclude []string `mapstructure:"exclude" json:"exclude,omitempty" yaml:"exclude,omitempty"`

	// RequiredVersion is a semver constraint the binary must satisfy.
	RequiredVersion string `mapstructure:"required-version" json:"requiredVersion,omitempty" yaml:"required-version,omitempty"`

	// ConfigFile is the resolved path to the config file used.
	// Set by Load, never read from the config itself.
	ConfigFile string `mapstructure:"-" json:"-" yaml:"-"`
}

// Default returns a Config with the default values.
func Default() *Config {
	return &Config{
		LogLevel:   LogLevelInfo,
		LogFormat:  LogFormatText,
		LineEnding: lineending.SystemDefault.String(),
	}
}

// Validate checks that all config values are valid.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		// valid
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", c.LogLevel)
	}

	switch c.LogFormat {
	case LogFormatText, LogFormatJSON:
		// valid
	default:
		return fmt.Errorf("invalid log format %q: must be one of text, json", c.LogFormat)
	}

	if c.IndentCount < 0 {
		return fmt.Errorf("invalid indent count %d: must not be negative", c.IndentCount)
	}

	if _, err := lineending.Parse(c.LineEnding); err != nil {
		return err
	}

	return nil
}

// EffectiveLogLevel returns the log level to use. Verbose forces "debug";
// otherwise Quiet forces "error".
func (c *Config) EffectiveLogLevel() string {
	switch {
	case c.Verbose:
		return LogLevelDebug
	case c.Quiet:
		return LogLevelError
	default:
		return c.LogLevel
	}
}

// ReportQuiet reports whether per-file report lines are suppressed.
func (c *Config) ReportQuiet() bool {
	return c.Quiet && !c.Verbose
}

// FormatConfig derives the formatting configuration.
func (c *Config) FormatConfig() (canon.FormatConfig, error) {
	le, err := lineending.Parse(c.LineEnding)
	if err != nil {
		return canon.FormatConfig{}, err
	}

	fc := canon.FormatConfig{
		IndentChar:  '\t',
		IndentCount: c.IndentCount,
		SortArrays:  c.Arrays,
		LineEnding:  le,
	}

	if c.Spaces {
		fc.IndentChar = ' '
	}

	if fc.IndentCount == 0 {
		fc.IndentCount = DefaultTabIndent
		if c.Spaces {
			fc.IndentCount = DefaultSpaceIndent
		}
	}

	if err := fc.Validate(); err != nil {
		return canon.FormatConfig{}, err
	}

	return fc, nil
}

// Load initialises configuration from flags, environment variables, and an
// optional config file. A fresh viper instance is used on every call so that
// Load is safe for concurrent tests.
func Load(cmd *cobra.Command, configFile string) (*Config, error) {
	v := viper.New()

	setDefaults(v)
	configureEnv(v)

	if err := configureFile(v, configFile); err != nil {
		return nil, err
	}

	if err := bindFlags(v, cmd); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.ConfigFile = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults registers default values in viper.
func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("log-level", d.LogLevel)
	v.SetDefault("log-format", d.LogFormat)
	v.SetDefault("no-color", false)
	v.SetDefault("quiet", false)
	v.SetDefault("verbose", false)
	v.SetDefault("arrays", false)
	v.SetDefault("spaces", false)
	v.SetDefault("indent-count", 0)
	v.SetDefault("line-ending", d.LineEnding)
	v.SetDefault("dry-run", false)
	v.SetDefault("ignore", []string{})
	v.SetDefault("exclude", []string{})
	v.SetDefault("required-version", "")
}

// configureEnv sets up environment variable support.
func configureEnv(v *viper.Viper) {
	v.SetEnvPrefix("JSONSORT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
}

// configureFile sets up the config file source.
func configureFile(v *viper.Viper, configFile string) error {
	if configFile != "" {
		v.SetConfigFile(configFile)

		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %q: %w", configFile, err)
		}

		return nil
	}

	// Auto-discovery mode.
	v.SetConfigName(".jsonsort")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "jsonsort"))
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}

		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// bindFlags walks from cmd up to the root and binds all PersistentFlags.
func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	if cmd == nil {
		return nil
	}

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}

	for c := cmd; c != nil; c = c.Parent() {
		if err := v.BindPFlags(c.PersistentFlags()); err != nil {
			return fmt.Errorf("binding persistent flags: %w", err)
		}
	}

	return nil
}

// ---------------------------------------------------------------------------
// Context helpers
// ---------------------------------------------------------------------------

type ctxKey struct{}

// NewContext returns a child context carrying cfg.
func NewContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, ctxKey{}, cfg)
}

// FromContext extracts a Config from ctx, falling back to Default().
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(ctxKey{}).(*Config); ok {
		return cfg
	}

	return Default()
}
