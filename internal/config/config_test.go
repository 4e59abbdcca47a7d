package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/jsonsort/internal/lineending"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// newTestRootCmd creates a cobra.Command with the same persistent flags as the
// real root command so that Load can bind them during tests.
func newTestRootCmd() *cobra.Command {
	cmd := &cobra.Command{}
	pf := cmd.PersistentFlags()
	pf.String("config", "", "")
	pf.String("log-level", "info", "")
	pf.String("log-format", "text", "")
	pf.Bool("no-color", false, "")
	pf.BoolP("quiet", "q", false, "")
	pf.BoolP("verbose", "v", false, "")
	pf.BoolP("arrays", "a", false, "")
	pf.BoolP("spaces", "s", false, "")
	pf.IntP("indent-count", "i", 0, "")
	pf.StringP("line-ending", "l", "auto", "")
	pf.StringSlice("exclude", nil, "")

	return cmd
}

// writeTempConfig writes a YAML string to a temporary file and returns the path.
func writeTempConfig(t *testing.T, content string) string {
	t.Helper()

	dir := t.TempDir()
	p := filepath.Join(dir, "cfg.yaml")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))

	return p
}

// ---------------------------------------------------------------------------
// Default
// ---------------------------------------------------------------------------

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, LogLevelInfo, cfg.LogLevel)
	assert.Equal(t, LogFormatText, cfg.LogFormat)
	assert.Equal(t, "auto", cfg.LineEnding)
	assert.False(t, cfg.NoColor)
	assert.False(t, cfg.Quiet)
	assert.False(t, cfg.Spaces)
	assert.Zero(t, cfg.IndentCount)
}

// ---------------------------------------------------------------------------
// Validate
// ---------------------------------------------------------------------------

func TestValidate_ValidValues(t *testing.T) {
	for _, lvl := range []string{"debug", "info", "warn", "error"} {
		cfg := Default()
		cfg.LogLevel = lvl
		assert.NoError(t, cfg.Validate(), "level=%s", lvl)
	}

	for _, format := range []string{"text", "json"} {
		cfg := Default()
		cfg.LogFormat = format
		assert.NoError(t, cfg.Validate(), "format=%s", format)
	}

	for _, le := range []string{"", "auto", "CR", "lf", "CrLf"} {
		cfg := Default()
		cfg.LineEnding = le
		assert.NoError(t, cfg.Validate(), "line ending=%s", le)
	}
}

func TestValidate_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"log level", func(c *Config) { c.LogLevel = "verbose" }, "invalid log level"},
		{"log format", func(c *Config) { c.LogFormat = "xml" }, "invalid log format"},
		{"indent count", func(c *Config) { c.IndentCount = -1 }, "invalid indent count"},
		{"line ending", func(c *Config) { c.LineEnding = "unix" }, "invalid line ending"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.want)
		})
	}
}

// ---------------------------------------------------------------------------
// EffectiveLogLevel
// ---------------------------------------------------------------------------

func TestEffectiveLogLevel(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"normal", Config{LogLevel: "warn"}, "warn"},
		{"quiet", Config{LogLevel: "debug", Quiet: true}, "error"},
		{"verbose", Config{LogLevel: "warn", Verbose: true}, "debug"},
		{"verbose overrides quiet", Config{LogLevel: "info", Quiet: true, Verbose: true}, "debug"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.EffectiveLogLevel())
		})
	}
}

func TestReportQuiet(t *testing.T) {
	assert.False(t, (&Config{}).ReportQuiet())
	assert.True(t, (&Config{Quiet: true}).ReportQuiet())
	assert.False(t, (&Config{Quiet: true, Verbose: true}).ReportQuiet())
}

// ---------------------------------------------------------------------------
// FormatConfig
// ---------------------------------------------------------------------------

func TestFormatConfig(t *testing.T) {
	tests := []struct {
		name      string
		cfg       Config
		wantChar  rune
		wantCount int
		wantLE    lineending.LineEnding
	}{
		{"tabs default", Config{}, '\t', 1, lineending.SystemDefault},
		{"spaces default", Config{Spaces: true}, ' ', 2, lineending.SystemDefault},
		{"explicit tabs", Config{IndentCount: 3}, '\t', 3, lineending.SystemDefault},
		{"explicit spaces", Config{Spaces: true, IndentCount: 4}, ' ', 4, lineending.SystemDefault},
		{"crlf", Config{LineEnding: "CRLF"}, '\t', 1, lineending.CRLF},
		{"cr", Config{LineEnding: "cr"}, '\t', 1, lineending.CR},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc, err := tt.cfg.FormatConfig()
			require.NoError(t, err)
			assert.Equal(t, tt.wantChar, fc.IndentChar)
			assert.Equal(t, tt.wantCount, fc.IndentCount)
			assert.Equal(t, tt.wantLE, fc.LineEnding)
		})
	}
}

func TestFormatConfig_Arrays(t *testing.T) {
	fc, err := (&Config{Arrays: true}).FormatConfig()
	require.NoError(t, err)
	assert.True(t, fc.SortArrays)
}

func TestFormatConfig_InvalidLineEnding(t *testing.T) {
	_, err := (&Config{LineEnding: "mac"}).FormatConfig()
	assert.ErrorContains(t, err, "invalid line ending")
}

// ---------------------------------------------------------------------------
// Load: defaults only
// ---------------------------------------------------------------------------

func TestLoad_DefaultsOnly(t *testing.T) {
	testChdir(t, t.TempDir())

	cfg, err := Load(nil, "")
	require.NoError(t, err)
	assert.Equal(t, LogLevelInfo, cfg.LogLevel)
	assert.Equal(t, LogFormatText, cfg.LogFormat)
	assert.Equal(t, "auto", cfg.LineEnding)
	assert.False(t, cfg.NoColor)
	assert.False(t, cfg.Quiet)
	assert.Empty(t, cfg.Exclude)
}

// ---------------------------------------------------------------------------
// Load: environment variables
// ---------------------------------------------------------------------------

func TestLoad_EnvOverridesDefault(t *testing.T) {
	t.Setenv("JSONSORT_LOG_LEVEL", "debug")
	t.Setenv("JSONSORT_INDENT_COUNT", "4")
	t.Setenv("JSONSORT_LINE_ENDING", "crlf")

	cfg, err := Load(nil, "")
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 4, cfg.IndentCount)
	assert.Equal(t, "crlf", cfg.LineEnding)
}

func TestLoad_EnvBooleans(t *testing.T) {
	t.Setenv("JSONSORT_NO_COLOR", "true")
	t.Setenv("JSONSORT_QUIET", "true")
	t.Setenv("JSONSORT_SPACES", "true")
	t.Setenv("JSONSORT_ARRAYS", "true")

	cfg, err := Load(nil, "")
	require.NoError(t, err)
	assert.True(t, cfg.NoColor)
	assert.True(t, cfg.Quiet)
	assert.True(t, cfg.Spaces)
	assert.True(t, cfg.Arrays)
}

// ---------------------------------------------------------------------------
// Load: config file
// ---------------------------------------------------------------------------

func TestLoad_ConfigFile(t *testing.T) {
	p := writeTempConfig(t, `log-level: warn
log-format: json
spaces: true
indent-count: 4
arrays: true
ignore:
  - vendor
exclude:
  - "testdata/**"
required-version: ">= 0.1.0"
`)

	cfg, err := Load(nil, p)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.True(t, cfg.Spaces)
	assert.True(t, cfg.Arrays)
	assert.Equal(t, 4, cfg.IndentCount)
	assert.Equal(t, []string{"vendor"}, cfg.Ignore)
	assert.Equal(t, []string{"testdata/**"}, cfg.Exclude)
	assert.Equal(t, ">= 0.1.0", cfg.RequiredVersion)
	assert.Equal(t, p, cfg.ConfigFile)
}

func TestLoad_AutoDiscoversDotfile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".jsonsort.yaml"), []byte("spaces: true\n"), 0o600))
	testChdir(t, dir)

	cfg, err := Load(nil, "")
	require.NoError(t, err)
	assert.True(t, cfg.Spaces)
	assert.NotEmpty(t, cfg.ConfigFile)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(nil, filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestLoad_MalformedFile(t *testing.T) {
	p := writeTempConfig(t, ": invalid yaml :")

	_, err := Load(nil, p)
	require.Error(t, err)
}

func TestLoad_MissingAutoDiscoverFile(t *testing.T) {
	testChdir(t, t.TempDir())

	cfg, err := Load(nil, "")
	require.NoError(t, err)
	assert.Equal(t, LogLevelInfo, cfg.LogLevel)
	assert.Empty(t, cfg.ConfigFile)
}

// ---------------------------------------------------------------------------
// Load: flag precedence
// ---------------------------------------------------------------------------

func TestLoad_FlagOverridesDefault(t *testing.T) {
	cmd := newTestRootCmd()
	require.NoError(t, cmd.PersistentFlags().Set("log-level", "error"))
	require.NoError(t, cmd.PersistentFlags().Set("spaces", "true"))
	require.NoError(t, cmd.PersistentFlags().Set("exclude", "a/**,b/**"))

	cfg, err := Load(cmd, "")
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.LogLevel)
	assert.True(t, cfg.Spaces)
	assert.Equal(t, []string{"a/**", "b/**"}, cfg.Exclude)
}

func TestLoad_FlagOverridesEnv(t *testing.T) {
	t.Setenv("JSONSORT_LOG_LEVEL", "debug")

	cmd := newTestRootCmd()
	require.NoError(t, cmd.PersistentFlags().Set("log-level", "error"))

	cfg, err := Load(cmd, "")
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.LogLevel)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("JSONSORT_LOG_LEVEL", "debug")
	p := writeTempConfig(t, "log-level: warn\n")

	cfg, err := Load(nil, p)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_FlagOverridesAll(t *testing.T) {
	t.Setenv("JSONSORT_INDENT_COUNT", "3")
	p := writeTempConfig(t, "indent-count: 4\n")

	cmd := newTestRootCmd()
	require.NoError(t, cmd.PersistentFlags().Set("indent-count", "8"))

	cfg, err := Load(cmd, p)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.IndentCount)
}

func TestLoad_UnsetFlagDoesNotMaskFile(t *testing.T) {
	p := writeTempConfig(t, "line-ending: crlf\n")

	cfg, err := Load(newTestRootCmd(), p)
	require.NoError(t, err)
	assert.Equal(t, "crlf", cfg.LineEnding)
}

// ---------------------------------------------------------------------------
// Load: validation on loaded values
// ---------------------------------------------------------------------------

func TestLoad_InvalidLogLevelFromEnv(t *testing.T) {
	t.Setenv("JSONSORT_LOG_LEVEL", "verbose")

	_, err := Load(nil, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestLoad_InvalidLineEndingFromFile(t *testing.T) {
	p := writeTempConfig(t, "line-ending: unix\n")

	_, err := Load(nil, p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid line ending")
}

// ---------------------------------------------------------------------------
// Context helpers
// ---------------------------------------------------------------------------

func TestContext_RoundTrip(t *testing.T) {
	cfg := &Config{LogLevel: "debug", LogFormat: "json"}
	ctx := NewContext(context.Background(), cfg)
	assert.Equal(t, cfg, FromContext(ctx))
}

func TestFromContext_FallbackToDefault(t *testing.T) {
	assert.Equal(t, Default(), FromContext(context.Background()))
}
