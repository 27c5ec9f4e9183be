package common

import "fmt"

// ConfigParseError reports a configuration file that could not be read or is not valid TOML
type ConfigParseError struct {
	Path string
	Err  error
}

func (e *ConfigParseError) Error() string {
	return fmt.Sprintf("failed to parse config file %s: %v", e.Path, e.Err)
}

func (e *ConfigParseError) Unwrap() error {
	return e.Err
}

// ConfigShapeError reports a configuration document missing required keys or holding values of the wrong type
type ConfigShapeError struct {
	Path string
	Key  string
	Err  error
}

func (e *ConfigShapeError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("invalid config file %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("invalid config file %s: %s: %v", e.Path, e.Key, e.Err)
}

func (e *ConfigShapeError) Unwrap() error {
	return e.Err
}
