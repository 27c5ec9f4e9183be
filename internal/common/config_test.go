package common

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"MATRIXGEN_LOG_LEVEL", "MATRIXGEN_LOG_OUTPUT", "MATRIXGEN_OUTPUT_FORMAT", "GITHUB_OUTPUT"} {
		t.Setenv(key, "")
	}
}

func TestNewDefaultConfig(t *testing.T) {
	config := NewDefaultConfig()

	assert.Equal(t, "warn", config.Logging.Level)
	assert.Equal(t, []string{"console"}, config.Logging.Output)
	assert.Equal(t, OutputFormatSetOutput, config.Output.Format)
	assert.Empty(t, config.Toolchain.Targets)
}

func TestLoadFromFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
[toolchain]
targets = ["x86_64-pc-windows-msvc", "aarch64-linux-android", "x86_64-apple-darwin"]
profile = "release"

[package]
name = "kmagick"
`)

	config, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"x86_64-pc-windows-msvc", "aarch64-linux-android", "x86_64-apple-darwin"}, config.Toolchain.Targets)
	assert.Equal(t, "release", config.Toolchain.Profile)
	assert.Equal(t, "warn", config.Logging.Level)
	assert.Equal(t, OutputFormatSetOutput, config.Output.Format)
}

func TestLoadFromFile_EmptyTargets(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
[toolchain]
targets = []
profile = "debug"
`)

	config, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Empty(t, config.Toolchain.Targets)
	assert.Equal(t, "debug", config.Toolchain.Profile)
}

func TestLoadFromFile_GeneratorSettings(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
[toolchain]
targets = ["x86_64-unknown-linux-gnu"]
profile = "release"

[logging]
level = "debug"
output = ["file"]

[output]
format = "github-output"
github_output_path = "/tmp/out"
`)

	config, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", config.Logging.Level)
	assert.Equal(t, []string{"file"}, config.Logging.Output)
	assert.Equal(t, OutputFormatGitHubOutput, config.Output.Format)
	assert.Equal(t, "/tmp/out", config.Output.GitHubOutputPath)
}

func TestLoadFromFile_ParseErrors(t *testing.T) {
	clearEnv(t)

	tests := []struct {
		name string
		path func(t *testing.T) string
	}{
		{
			name: "missing file",
			path: func(t *testing.T) string { return filepath.Join(t.TempDir(), "missing.toml") },
		},
		{
			name: "invalid syntax",
			path: func(t *testing.T) string { return writeConfig(t, "[toolchain\ntargets = [") },
		},
		{
			name: "duplicate key",
			path: func(t *testing.T) string {
				return writeConfig(t, "[toolchain]\nprofile = \"a\"\nprofile = \"b\"\n")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := tt.path(t)
			config, err := LoadFromFile(path)
			require.Error(t, err)
			assert.Nil(t, config)

			var parseErr *ConfigParseError
			require.True(t, errors.As(err, &parseErr), "expected ConfigParseError, got %T: %v", err, err)
			assert.Equal(t, path, parseErr.Path)
			assert.Contains(t, err.Error(), path)
		})
	}
}

func TestLoadFromFile_MissingFileUnwraps(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.toml"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadFromFile_ShapeErrors(t *testing.T) {
	clearEnv(t)

	tests := []struct {
		name    string
		content string
		wantKey string
	}{
		{"missing toolchain table", "[package]\nname = \"kmagick\"\n", "toolchain"},
		{"toolchain not a table", "toolchain = \"stable\"\n", "toolchain"},
		{"missing targets", "[toolchain]\nprofile = \"release\"\n", "toolchain.targets"},
		{"missing profile", "[toolchain]\ntargets = [\"x86_64-pc-windows-msvc\"]\n", "toolchain.profile"},
		{"targets wrong type", "[toolchain]\ntargets = 5\nprofile = \"release\"\n", ""},
		{"targets non-string entry", "[toolchain]\ntargets = [\"a\", 1]\nprofile = \"release\"\n", ""},
		{"profile wrong type", "[toolchain]\ntargets = []\nprofile = 3\n", ""},
		{"unknown log level", "[toolchain]\ntargets = []\nprofile = \"r\"\n[logging]\nlevel = \"loud\"\n", ""},
		{"unknown output format", "[toolchain]\ntargets = []\nprofile = \"r\"\n[output]\nformat = \"xml\"\n", ""},
		{"unknown log output", "[toolchain]\ntargets = []\nprofile = \"r\"\n[logging]\noutput = [\"syslog\"]\n", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			config, err := LoadFromFile(path)
			require.Error(t, err)
			assert.Nil(t, config)

			var shapeErr *ConfigShapeError
			require.True(t, errors.As(err, &shapeErr), "expected ConfigShapeError, got %T: %v", err, err)
			assert.Equal(t, path, shapeErr.Path)
			assert.Equal(t, tt.wantKey, shapeErr.Key)

			var parseErr *ConfigParseError
			assert.False(t, errors.As(err, &parseErr))
		})
	}
}

func TestLoadFromFile_LogLevelCaseInsensitive(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "[toolchain]\ntargets = []\nprofile = \"release\"\n[logging]\nlevel = \"WARN\"\n")

	config, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "warn", config.Logging.Level)
}

func TestLoadFromFile_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("MATRIXGEN_LOG_LEVEL", "DEBUG")
	t.Setenv("MATRIXGEN_LOG_OUTPUT", "console, file")
	t.Setenv("MATRIXGEN_OUTPUT_FORMAT", "yaml")
	t.Setenv("GITHUB_OUTPUT", "/runner/output")

	path := writeConfig(t, "[toolchain]\ntargets = []\nprofile = \"release\"\n")

	config, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", config.Logging.Level)
	assert.Equal(t, []string{"console", "file"}, config.Logging.Output)
	assert.Equal(t, OutputFormatYAML, config.Output.Format)
	assert.Equal(t, "/runner/output", config.Output.GitHubOutputPath)
}

func TestLoadFromFile_ConfiguredPathWinsOverGitHubOutputEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("GITHUB_OUTPUT", "/runner/output")

	path := writeConfig(t, "[toolchain]\ntargets = []\nprofile = \"release\"\n[output]\ngithub_output_path = \"matrix.env\"\n")

	config, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "matrix.env", config.Output.GitHubOutputPath)
}

func TestApplyFlagOverrides(t *testing.T) {
	config := NewDefaultConfig()

	ApplyFlagOverrides(config, "", "", "")
	assert.Equal(t, OutputFormatSetOutput, config.Output.Format)
	assert.Equal(t, "warn", config.Logging.Level)

	ApplyFlagOverrides(config, "yaml", "", "INFO")
	assert.Equal(t, OutputFormatYAML, config.Output.Format)
	assert.Equal(t, "info", config.Logging.Level)

	// --github-output implies the github-output format
	ApplyFlagOverrides(config, "yaml", "/tmp/gh", "")
	assert.Equal(t, OutputFormatGitHubOutput, config.Output.Format)
	assert.Equal(t, "/tmp/gh", config.Output.GitHubOutputPath)
}

func TestConfig_Validate(t *testing.T) {
	config := NewDefaultConfig()
	assert.NoError(t, config.Validate())

	config.Output.Format = "xml"
	assert.Error(t, config.Validate())
}

func TestNewRunID(t *testing.T) {
	a := NewRunID()
	b := NewRunID()

	assert.NotEqual(t, a, b)
	assert.Regexp(t, `^run_[0-9a-f-]{36}$`, a)
}
