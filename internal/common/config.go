package common

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Output formats
const (
	OutputFormatSetOutput    = "set-output"    // ::set-output workflow command on stdout
	OutputFormatGitHubOutput = "github-output" // matrix=<json> appended to $GITHUB_OUTPUT
	OutputFormatYAML         = "yaml"          // human readable matrix on stdout
)

// Config represents the build configuration document plus optional generator settings
type Config struct {
	Toolchain ToolchainConfig `toml:"toolchain"`
	Logging   LoggingConfig   `toml:"logging"`
	Output    OutputConfig    `toml:"output"`
}

// ToolchainConfig declares the targets to build and the profile carried into every matrix entry
type ToolchainConfig struct {
	Targets []string `toml:"targets"` // Target triples in declaration order
	Profile string   `toml:"profile"` // Build profile, copied verbatim
}

type LoggingConfig struct {
	Level  string   `toml:"level" validate:"oneof=debug info warn error"`
	Output []string `toml:"output" validate:"dive,oneof=console stdout file"`
}

// OutputConfig controls where the matrix is announced
type OutputConfig struct {
	Format           string `toml:"format" validate:"oneof=set-output github-output yaml"`
	GitHubOutputPath string `toml:"github_output_path"` // Defaults to $GITHUB_OUTPUT for the github-output format
}

// requiredKeys are checked on the generic document before typed decoding
var requiredKeys = []string{"targets", "profile"}

// NewDefaultConfig creates a configuration with default values.
// Logging defaults to warn so a successful run prints only the matrix.
func NewDefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "warn",
			Output: []string{"console"},
		},
		Output: OutputConfig{
			Format: OutputFormatSetOutput,
		},
	}
}

// LoadFromFile loads configuration with priority: default -> file -> env
// Read and syntax failures return *ConfigParseError, missing keys and type mismatches *ConfigShapeError.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigParseError{Path: path, Err: err}
	}
	return Parse(path, data)
}

// Parse decodes configuration content; path is only used in error messages
func Parse(path string, data []byte) (*Config, error) {
	// Step 1: Parse TOML syntax
	var raw map[string]interface{}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, &ConfigParseError{Path: path, Err: err}
	}

	// Step 2: Check required keys on the generic document
	if err := checkShape(path, raw); err != nil {
		return nil, err
	}

	// Step 3: Typed decode on top of defaults (catches type mismatches)
	config := NewDefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, &ConfigShapeError{Path: path, Err: err}
	}

	config.Logging.Level = strings.ToLower(config.Logging.Level)

	// Apply environment variables before validation so overrides are checked too
	applyEnvOverrides(config)

	// Step 4: Validate optional generator settings
	if err := validator.New().Struct(config); err != nil {
		return nil, &ConfigShapeError{Path: path, Err: err}
	}

	return config, nil
}

func checkShape(path string, raw map[string]interface{}) error {
	section, ok := raw["toolchain"]
	if !ok {
		return &ConfigShapeError{Path: path, Key: "toolchain", Err: errors.New("missing table")}
	}
	toolchain, ok := section.(map[string]interface{})
	if !ok {
		return &ConfigShapeError{Path: path, Key: "toolchain", Err: fmt.Errorf("expected table, got %T", section)}
	}
	for _, key := range requiredKeys {
		if _, ok := toolchain[key]; !ok {
			return &ConfigShapeError{Path: path, Key: "toolchain." + key, Err: errors.New("missing key")}
		}
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if level := os.Getenv("MATRIXGEN_LOG_LEVEL"); level != "" {
		config.Logging.Level = strings.ToLower(level)
	}

	if output := os.Getenv("MATRIXGEN_LOG_OUTPUT"); output != "" {
		config.Logging.Output = splitString(output, ",")
	}

	if format := os.Getenv("MATRIXGEN_OUTPUT_FORMAT"); format != "" {
		config.Output.Format = format
	}

	// GITHUB_OUTPUT is only a fallback, an explicit path in the file wins
	if config.Output.GitHubOutputPath == "" {
		config.Output.GitHubOutputPath = os.Getenv("GITHUB_OUTPUT")
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config
func ApplyFlagOverrides(config *Config, format, githubOutput, logLevel string) {
	// Command-line flags have highest priority
	if format != "" {
		config.Output.Format = format
	}
	if githubOutput != "" {
		config.Output.Format = OutputFormatGitHubOutput
		config.Output.GitHubOutputPath = githubOutput
	}
	if logLevel != "" {
		config.Logging.Level = strings.ToLower(logLevel)
	}
}

// Validate re-checks generator settings after flag overrides
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	return nil
}

// splitString splits a comma-separated list and drops empty entries
func splitString(s, sep string) []string {
	var result []string
	for _, part := range strings.Split(s, sep) {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
