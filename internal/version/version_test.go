package version

import (
	"encoding/json"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetInfo(t *testing.T) {
	info := GetInfo()

	assert.Equal(t, "dev", info.Version)
	assert.Equal(t, "none", info.GitCommit)
	assert.Equal(t, "unknown", info.BuildDate)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info.Platform)
}

func TestInfoString(t *testing.T) {
	info := GetInfo()
	s := info.String()

	assert.Contains(t, s, "jsonsort")
	assert.Contains(t, s, info.Version)
	assert.Contains(t, s, info.GoVersion)
	assert.Contains(t, s, info.Platform)
}

func TestInfoJSON(t *testing.T) {
	info := GetInfo()

	jsonStr, err := info.JSON()
	require.NoError(t, err)

	var parsed Info
	require.NoError(t, json.Unmarshal([]byte(jsonStr), &parsed))

	assert.Equal(t, info.Version, parsed.Version)
	assert.Equal(t, info.GitCommit, parsed.GitCommit)
	assert.Equal(t, info.BuildDate, parsed.BuildDate)
	assert.Equal(t, info.GoVersion, parsed.GoVersion)
	assert.Equal(t, info.Platform, parsed.Platform)
}

func TestShortCommit(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"long SHA truncated", "abc1234def5678", "abc1234"},
		{"exact 7 unchanged", "abc1234", "abc1234"},
		{"short unchanged", "abc", "abc"},
		{"empty unchanged", "", ""},
		{"none unchanged", "none", "none"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, shortCommit(tt.input))
		})
	}
}

func TestInfo_Satisfies(t *testing.T) {
	tests := []struct {
		name       string
		version    string
		constraint string
		want       bool
	}{
		{"empty constraint", "1.0.0", "", true},
		{"blank constraint", "1.0.0", "  ", true},
		{"dev always satisfies", "dev", ">= 9.0.0", true},
		{"range met", "1.4.2", ">= 1.2, < 2", true},
		{"range missed", "2.0.0", ">= 1.2, < 2", false},
		{"caret", "v0.3.1", "^0.3.0", true},
		{"tilde missed", "0.4.0", "~0.3.0", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Info{Version: tt.version}.Satisfies(tt.constraint)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInfo_SatisfiesInvalidConstraint(t *testing.T) {
	_, err := Info{Version: "1.0.0"}.Satisfies("not a constraint!")
	assert.ErrorContains(t, err, "invalid required-version")

	_, err = Info{Version: "dev"}.Satisfies("not a constraint!")
	assert.Error(t, err, "constraints are validated even for development builds")
}

func TestInfo_SatisfiesInvalidVersion(t *testing.T) {
	_, err := Info{Version: "nightly"}.Satisfies(">= 1.0.0")
	assert.ErrorContains(t, err, "invalid binary version")
}

func TestInfo_IsDev(t *testing.T) {
	assert.True(t, Info{Version: "dev"}.IsDev())
	assert.True(t, Info{}.IsDev())
	assert.False(t, Info{Version: "1.0.0"}.IsDev())
}
