package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/andyballingall/gdcheck/internal/check"
)

// ConfigFile is the optional per-project configuration file, read from the checked directory.
const ConfigFile = ".gdcheck.yml"

// ConfigEnvVar names an explicit config file when --config is not given.
const ConfigEnvVar = "GDCHECK_CONFIG"

const DefaultConfigContent = `# gdcheck configuration
#
# gdcheck runs an external GDScript tool over the top-level entries of a project
# directory, one entry at a time, and stops at the first entry that fails.
#
# An entry is checked unless:
# - its name is listed under "ignore"
# - it is a regular file with no '.' in its name and skipExtensionlessFiles is true
# - its name contains a '.' but does not end in .gd
#
# So directories without a '.' in their name (e.g. "src") are handed to the tool
# as a whole, while "addons" is skipped by default.
#
# In "args", {file} is replaced with the entry name. If no argument contains
# {file}, the entry name is appended. Commands are never run through a shell.

tools:
  format:
    command: gdformat
    args: ["--check", "{file}"]
    ignore:
      - addons
      - script_templates
    skipExtensionlessFiles: true

  lint:
    command: gdlint
    args: ["{file}"]
    ignore:
      - addons
    skipExtensionlessFiles: true
`

type ToolName string

const (
	ToolFormat ToolName = "format"
	ToolLint   ToolName = "lint"
)

// ToolNames returns the supported tools in the order `gdcheck all` runs them.
func ToolNames() []ToolName {
	return []ToolName{ToolFormat, ToolLint}
}

// NewToolName validates s as a supported tool name.
func NewToolName(s string) (ToolName, error) {
	switch ToolName(s) {
	case ToolFormat, ToolLint:
		return ToolName(s), nil
	default:
		return "", &UnknownToolError{Tool: ToolName(s)}
	}
}

// ToolConfig describes how one external tool is invoked and which entries it receives.
type ToolConfig struct {
	Command                string   `yaml:"command"`
	Args                   []string `yaml:"args"`
	Ignore                 []string `yaml:"ignore"`
	SkipExtensionlessFiles *bool    `yaml:"skipExtensionlessFiles"`
}

type Config struct {
	Tools map[ToolName]*ToolConfig `yaml:"tools"`
	Path  string                   `yaml:"-"` // empty when only built-in defaults are in use
}

// Default returns the built-in configuration.
func Default() *Config {
	skip := true
	return &Config{
		Tools: map[ToolName]*ToolConfig{
			ToolFormat: {
				Command:                "gdformat",
				Args:                   []string{"--check", check.FilePlaceholder},
				Ignore:                 []string{"addons", "script_templates"},
				SkipExtensionlessFiles: &skip,
			},
			ToolLint: {
				Command:                "gdlint",
				Args:                   []string{check.FilePlaceholder},
				Ignore:                 []string{"addons"},
				SkipExtensionlessFiles: &skip,
			},
		},
	}
}

// Load reads the config file at path and merges it over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &MissingConfigError{Path: path}
		}
		return nil, err
	}
	return Parse(path, data)
}

// LoadDir loads the ConfigFile in dir, falling back to the defaults if there isn't one.
func LoadDir(dir string) (*Config, error) {
	cfg, err := Load(filepath.Join(dir, ConfigFile))
	var missing *MissingConfigError
	if errors.As(err, &missing) {
		return Default(), nil
	}
	return cfg, err
}

// Parse decodes a config document, validates it and merges it over the defaults.
// path is only used for error messages.
func Parse(path string, data []byte) (*Config, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &InvalidYAMLError{Path: path, Wrapped: err}
	}

	cfg := Default()
	cfg.Path = path

	// an empty or comment-only file
	if doc == nil {
		return cfg, nil
	}

	if err := validateDocument(doc); err != nil {
		return nil, &InvalidConfigError{Path: path, Wrapped: err}
	}

	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, &InvalidYAMLError{Path: path, Wrapped: err}
	}

	cfg.merge(&file)
	return cfg, nil
}

// merge overrides c field by field with the values set in other.
func (c *Config) merge(other *Config) {
	for name, tc := range other.Tools {
		if tc == nil {
			continue
		}
		base, ok := c.Tools[name]
		if !ok {
			c.Tools[name] = tc
			continue
		}
		if tc.Command != "" {
			base.Command = tc.Command
		}
		if tc.Args != nil {
			base.Args = tc.Args
		}
		if tc.Ignore != nil {
			base.Ignore = tc.Ignore
		}
		if tc.SkipExtensionlessFiles != nil {
			base.SkipExtensionlessFiles = tc.SkipExtensionlessFiles
		}
	}
}

// Tool returns the configuration for the named tool.
func (c *Config) Tool(name ToolName) (*ToolConfig, error) {
	tc, ok := c.Tools[name]
	if !ok {
		return nil, &UnknownToolError{Tool: name}
	}
	return tc, nil
}

// CheckCommand returns the command template for the tool.
func (t *ToolConfig) CheckCommand(name ToolName) check.Command {
	return check.Command{
		Tool: string(name),
		Name: t.Command,
		Args: t.Args,
	}
}

// Policy returns the inclusion policy for the tool.
func (t *ToolConfig) Policy() check.Policy {
	return check.Policy{
		Ignore:                 check.NewIgnoreSet(t.Ignore...),
		SkipExtensionlessFiles: t.SkipExtensionlessFiles != nil && *t.SkipExtensionlessFiles,
	}
}

// WriteDefault writes DefaultConfigContent to dir and returns the path written.
// It refuses to overwrite an existing file.
func WriteDefault(dir string) (string, error) {
	path := filepath.Join(dir, ConfigFile)
	if _, err := os.Stat(path); err == nil {
		return "", &ConfigExistsError{Path: path}
	}

	if err := os.WriteFile(path, []byte(DefaultConfigContent), 0o600); err != nil {
		return "", fmt.Errorf("failed to write configuration file: %w", err)
	}
	return path, nil
}
