package main

import (
	"fmt"

	"github.com/nao1215/regionreport/internal/config"
	"github.com/spf13/cobra"
)

// loadConfig builds a Config from the defaults, the configuration file and
// the REGIONREPORT_* environment variables. Command flags are applied by
// the caller afterwards, because each command defines its own set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently keep the defaults if no file found.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		file.Apply(cfg)
	} else if explicitConfigPath {
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	if err := config.ApplyEnv(cfg); err != nil {
		return nil, err
	}

	// Global flags. Looked up through cmd.Flags() so that they are found
	// both on the root command and when a subcommand runs on its own.
	if err := stringFlag(cmd, "log-format", &cfg.LogFormat); err != nil {
		return nil, err
	}
	if err := boolFlag(cmd, "verbose", &cfg.Verbose); err != nil {
		return nil, err
	}

	return cfg, nil
}

// stringFlag copies the named flag into dst when the user set it.
// Flag defaults never override values from the file or the environment.
func stringFlag(cmd *cobra.Command, name string, dst *string) error {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, err := cmd.Flags().GetString(name)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

// boolFlag copies the named flag into dst when the user set it.
func boolFlag(cmd *cobra.Command, name string, dst *bool) error {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}
