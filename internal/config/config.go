package config

import (
	"fmt"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/nao1215/regionreport/internal/loader"
	applog "github.com/nao1215/regionreport/internal/log"
)

// Default configuration values.
// The input and output paths match the layout the report was historically
// produced with, so running without arguments from the project directory
// keeps working.
const (
	// DefaultInputPath is the CSV file read when no input is given.
	DefaultInputPath = "src/Diffusione.csv"

	// DefaultOutputPath is the CSV report written when no output is given.
	DefaultOutputPath = "report.csv"

	// DefaultEncoding is the character encoding of the input file.
	DefaultEncoding = loader.DefaultEncoding

	// DefaultLogFormat is the log output format.
	DefaultLogFormat = applog.FormatText

	// AppName is the application name used for XDG directory paths.
	AppName = "regionreport"
)

// Config holds all configuration options for regionreport.
// This struct is designed to be populated from the config file, the
// environment and CLI flags, and passed through the application via
// dependency injection rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs.
// The number of options is small, and nesting would add complexity
// without benefit.
type Config struct {
	// InputPath is the semicolon separated file to aggregate.
	InputPath string

	// OutputPath is the CSV report to create or overwrite.
	OutputPath string

	// Encoding is the character encoding of the input file
	// (for example "utf-8" or "windows-1252").
	Encoding string

	// MarkdownPath, when set, receives a Markdown summary of the run.
	MarkdownPath string

	// JSONPath, when set, receives the run as a JSON document.
	JSONPath string

	// XLSXPath, when set, receives the report as an Excel workbook.
	XLSXPath string

	// SaveHistory stores each run in the SQLite history database.
	// Off by default, so a plain run only writes the report files.
	SaveHistory bool

	// DBDir is the directory holding the history database.
	// Defaults to XDG data directory (~/.local/share/regionreport on Linux).
	DBDir string

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// LogFormat is "text" or "json".
	LogFormat string

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches the usual locations (see FindConfigFile).
	ConfigFilePath string
}

// NewConfig creates a new Config with default values.
//
// Design decision: We use a constructor function instead of relying on
// zero values because several defaults are non-zero. This also serves as
// documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		InputPath:  DefaultInputPath,
		OutputPath: DefaultOutputPath,
		Encoding:   DefaultEncoding,
		DBDir:      XDGDataDir(),
		LogFormat:  DefaultLogFormat,
	}
}

// XDGDataDir returns the XDG data directory for regionreport.
// On Linux: ~/.local/share/regionreport
// On macOS: ~/Library/Application Support/regionreport
// On Windows: %LOCALAPPDATA%\regionreport
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for regionreport.
// On Linux: ~/.config/regionreport
// On macOS: ~/Library/Application Support/regionreport
// On Windows: %APPDATA%\regionreport
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after all layers are applied, before any file is read.
func (c *Config) Validate() error {
	if c.InputPath == "" {
		return ErrNoInput
	}

	if c.OutputPath == "" {
		return ErrNoOutput
	}

	if samePath(c.InputPath, c.OutputPath) {
		return ErrSamePath
	}

	// Every configured output must be distinct, and none may be the input
	outputs := []string{c.OutputPath}
	for _, extra := range []string{c.MarkdownPath, c.JSONPath, c.XLSXPath} {
		if extra == "" {
			continue
		}
		if samePath(extra, c.InputPath) {
			return ErrSamePath
		}
		for _, seen := range outputs {
			if samePath(extra, seen) {
				return ErrConflictingOutputs
			}
		}
		outputs = append(outputs, extra)
	}

	if _, err := loader.LookupEncoding(c.Encoding); err != nil {
		return fmt.Errorf("%w: %q", ErrUnknownEncoding, c.Encoding)
	}

	if c.LogFormat != applog.FormatText && c.LogFormat != applog.FormatJSON {
		return ErrInvalidLogFormat
	}

	if c.SaveHistory && c.DBDir == "" {
		return ErrNoDBDir
	}

	return nil
}

// samePath reports whether a and b name the same file after cleaning.
// Symlinks are not resolved.
func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
