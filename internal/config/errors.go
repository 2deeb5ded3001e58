package config

import (
	"fmt"
)

type InvalidYAMLError struct {
	Path    string
	Wrapped error
}

func (e *InvalidYAMLError) Error() string {
	return fmt.Sprintf("%s is not a valid yaml document: %v", e.Path, e.Wrapped)
}

func (e *InvalidYAMLError) Unwrap() error {
	return e.Wrapped
}

// InvalidConfigError is returned when the config document does not match the config schema.
type InvalidConfigError struct {
	Path    string
	Wrapped error
}

func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("%s is not a valid gdcheck configuration: %v", e.Path, e.Wrapped)
}

func (e *InvalidConfigError) Unwrap() error {
	return e.Wrapped
}

type UnknownToolError struct {
	Tool ToolName
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("unknown tool '%s' (supported: %s, %s)", e.Tool, ToolFormat, ToolLint)
}

type MissingConfigError struct {
	Path string
}

func (e *MissingConfigError) Error() string {
	return fmt.Sprintf("config file not found: %s", e.Path)
}

type ConfigExistsError struct {
	Path string
}

func (e *ConfigExistsError) Error() string {
	return fmt.Sprintf("config file already exists: %s", e.Path)
}
