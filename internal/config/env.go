package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the prefix of every environment variable read by ApplyEnv.
// For example REGIONREPORT_INPUT overrides the input path.
const EnvPrefix = "REGIONREPORT"

// envOverrides lists the settings that can come from the environment.
// Field names map to variable names through split_words, so DBDir is read
// from REGIONREPORT_DB_DIR.
type envOverrides struct {
	Input     string `split_words:"true"`
	Output    string `split_words:"true"`
	Encoding  string `split_words:"true"`
	Markdown  string `split_words:"true"`
	JSON      string `split_words:"true"`
	XLSX      string `split_words:"true"`
	History   bool   `split_words:"true"`
	DBDir     string `split_words:"true"`
	Verbose   bool   `split_words:"true"`
	LogFormat string `split_words:"true"`
}

// ApplyEnv overrides fields of c with REGIONREPORT_* environment variables.
// Variables that are not set leave the current value in place. A variable
// that is set but cannot be parsed (for example REGIONREPORT_HISTORY=maybe)
// is an error.
func ApplyEnv(c *Config) error {
	env := envOverrides{
		Input:     c.InputPath,
		Output:    c.OutputPath,
		Encoding:  c.Encoding,
		Markdown:  c.MarkdownPath,
		JSON:      c.JSONPath,
		XLSX:      c.XLSXPath,
		History:   c.SaveHistory,
		DBDir:     c.DBDir,
		Verbose:   c.Verbose,
		LogFormat: c.LogFormat,
	}

	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return fmt.Errorf("failed to load config from env: %w", err)
	}

	c.InputPath = env.Input
	c.OutputPath = env.Output
	c.Encoding = env.Encoding
	c.MarkdownPath = env.Markdown
	c.JSONPath = env.JSON
	c.XLSXPath = env.XLSX
	c.SaveHistory = env.History
	c.DBDir = env.DBDir
	c.Verbose = env.Verbose
	c.LogFormat = env.LogFormat

	return nil
}
