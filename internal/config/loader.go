package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".regionreport"

// xdgConfigFile is the configuration file name inside XDGConfigDir.
const xdgConfigFile = "config.yaml"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File represents the structure of the .regionreport configuration file.
// Empty strings and nil pointers mean "not set" and leave the current
// value untouched when the file is applied.
type File struct {
	// Input is the CSV file to aggregate.
	Input string `yaml:"input,omitempty"`

	// Output is the CSV report to write.
	Output string `yaml:"output,omitempty"`

	// Encoding is the character encoding of the input.
	Encoding string `yaml:"encoding,omitempty"`

	// Markdown is the optional Markdown summary path.
	Markdown string `yaml:"markdown,omitempty"`

	// JSON is the optional JSON document path.
	JSON string `yaml:"json,omitempty"`

	// XLSX is the optional Excel workbook path.
	XLSX string `yaml:"xlsx,omitempty"`

	// History enables the run history database.
	History *bool `yaml:"history,omitempty"`

	// DBDir is the history database directory.
	DBDir string `yaml:"db_dir,omitempty"`

	// Verbose enables debug logging.
	Verbose *bool `yaml:"verbose,omitempty"`

	// LogFormat is "text" or "json".
	LogFormat string `yaml:"log_format,omitempty"`
}

// LoadConfigFile loads settings from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound.
// Callers should handle this error appropriately based on whether
// the config file path was explicitly specified by the user.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return &cf, nil
}

// Apply copies every value set in the file onto c.
func (cf *File) Apply(c *Config) {
	setString(&c.InputPath, cf.Input)
	setString(&c.OutputPath, cf.Output)
	setString(&c.Encoding, cf.Encoding)
	setString(&c.MarkdownPath, cf.Markdown)
	setString(&c.JSONPath, cf.JSON)
	setString(&c.XLSXPath, cf.XLSX)
	setString(&c.DBDir, cf.DBDir)
	setString(&c.LogFormat, cf.LogFormat)

	if cf.History != nil {
		c.SaveHistory = *cf.History
	}
	if cf.Verbose != nil {
		c.Verbose = *cf.Verbose
	}
}

// setString assigns value to dst unless value is empty.
func setString(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .regionreport in the current directory
// 3. Look for config.yaml in the XDG config directory
// 4. Look for .regionreport in the user's home directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	// If explicit path is provided, use it
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	candidates := make([]string, 0, 3)

	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, DefaultConfigFile))
	}

	candidates = append(candidates, filepath.Join(XDGConfigDir(), xdgConfigFile))

	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, DefaultConfigFile))
	}

	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}

	return ""
}
