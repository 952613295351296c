package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/nao1215/regionreport/internal/config"
	"github.com/nao1215/regionreport/internal/database"
	"github.com/nao1215/regionreport/internal/loader"
	applog "github.com/nao1215/regionreport/internal/log"
	"github.com/nao1215/regionreport/internal/model"
	"github.com/nao1215/regionreport/internal/pipeline"
	"github.com/spf13/cobra"
)

// NewRunCmd creates the run command.
func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Aggregate the input file and write the report",
		Long: `Run loads the input file, aggregates the values per region and writes the
CSV report.

The input is a semicolon separated file whose first line is a header. Each
following line holds a year, a region and a value with a decimal comma. Lines
with fewer than three fields are skipped. Any other malformed line stops the
run with an error.

The report has one row per region, sorted by name:
  Regione;Totale;2003;2004;2005;2006;2007;Media

Examples:
  # Read src/Diffusione.csv and write report.csv
  regionreport run

  # Use other paths
  regionreport run -i data/values.csv -o out/report.csv

  # Read a file exported with a Windows code page
  regionreport run -e windows-1252

  # Also write a Markdown summary and an Excel workbook
  regionreport run -m report.md -x report.xlsx

  # Record the run in the history database
  regionreport run --history

Settings are read from the configuration file (.regionreport), then from
REGIONREPORT_* environment variables, then from flags.`,
		Args: cobra.NoArgs,
		RunE: runRunCmd,
	}

	// Input and output flags
	cmd.Flags().StringP("input", "i", config.DefaultInputPath,
		"Input CSV file")
	cmd.Flags().StringP("output", "o", config.DefaultOutputPath,
		"Output CSV report (created or overwritten)")
	cmd.Flags().StringP("encoding", "e", config.DefaultEncoding,
		"Character encoding of the input (e.g. utf-8, windows-1252, iso-8859-1)")

	// Additional output flags
	cmd.Flags().StringP("markdown", "m", "",
		"Also write a Markdown summary to the specified file")
	cmd.Flags().StringP("json", "j", "",
		"Also write the run as JSON to the specified file")
	cmd.Flags().StringP("xlsx", "x", "",
		"Also write an Excel workbook to the specified file")

	// History flags
	cmd.Flags().Bool("history", false,
		"Save the run to the history database")
	cmd.Flags().String("db-dir", "",
		"History database directory (default: XDG data directory)")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .regionreport in current or home directory)")

	return cmd
}

// runRunCmd executes the run command.
func runRunCmd(cmd *cobra.Command, _ []string) error {
	// Build config from file, environment and flags
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging
	logger, err := applog.NewLogger(cmd.ErrOrStderr(), cfg.LogFormat, cfg.Verbose)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	slog.SetDefault(logger)

	// Cancel the run on interrupt. The pipeline stops before its next step
	// and the loader stops between lines.
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runReport(ctx, cmd.OutOrStdout(), cfg, logger)
}

// buildConfig creates a Config for the run command.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	stringFlags := []struct {
		name string
		dst  *string
	}{
		{name: "input", dst: &cfg.InputPath},
		{name: "output", dst: &cfg.OutputPath},
		{name: "encoding", dst: &cfg.Encoding},
		{name: "markdown", dst: &cfg.MarkdownPath},
		{name: "json", dst: &cfg.JSONPath},
		{name: "xlsx", dst: &cfg.XLSXPath},
		{name: "db-dir", dst: &cfg.DBDir},
	}
	for _, f := range stringFlags {
		if err := stringFlag(cmd, f.name, f.dst); err != nil {
			return nil, err
		}
	}

	if err := boolFlag(cmd, "history", &cfg.SaveHistory); err != nil {
		return nil, err
	}

	return cfg, nil
}

// runReport executes the pipeline for a validated configuration.
// Progress messages go to out, logs go to logger.
func runReport(ctx context.Context, out io.Writer, cfg *config.Config, logger *slog.Logger) error {
	enc, err := loader.LookupEncoding(cfg.Encoding)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	run := model.NewRun(cfg.InputPath, cfg.OutputPath)
	ctx = applog.WithRunID(ctx, run.ID)

	logger.InfoContext(ctx, "starting run",
		"input_path", cfg.InputPath,
		"output_path", cfg.OutputPath,
		"encoding", cfg.Encoding,
		"save_history", cfg.SaveHistory,
	)

	configOpts := []pipeline.DefaultPipelineOption{
		pipeline.WithPipelineLoader(loader.New(
			loader.WithEncoding(enc),
			loader.WithLogger(logger),
		)),
		pipeline.WithPipelineMarkdown(cfg.MarkdownPath),
		pipeline.WithPipelineJSON(cfg.JSONPath),
		pipeline.WithPipelineXLSX(cfg.XLSXPath),
	}

	// Open database connection if history is enabled
	if cfg.SaveHistory {
		db, err := database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.DebugContext(ctx, "database opened", "path", db.Path())
		configOpts = append(configOpts, pipeline.WithPipelineHistory(db))
	}

	p := pipeline.DefaultPipeline(
		[]pipeline.Option{
			pipeline.WithLogger(logger),
			pipeline.WithAfterStep(progressPrinter(out)),
		},
		configOpts...,
	)

	return p.Execute(ctx, run)
}

// progressPrinter returns a callback that reports each finished step
// to the user.
func progressPrinter(out io.Writer) pipeline.StepFunc {
	return func(step pipeline.Step, run *model.Run) {
		switch step.Name() {
		case pipeline.StepLoad:
			fmt.Fprintf(out, "Loaded %d records\n", run.RecordCount())
		case pipeline.StepAggregate:
			fmt.Fprintf(out, "Report generated for %d regions\n", run.RegionCount())
		case pipeline.StepWriteCSV:
			fmt.Fprintf(out, "Report written successfully: %s\n", run.OutputPath)
		case pipeline.StepMarkdown, pipeline.StepJSON, pipeline.StepXLSX:
			if len(run.Outputs) > 0 {
				fmt.Fprintf(out, "Written: %s\n", run.Outputs[len(run.Outputs)-1])
			}
		case pipeline.StepHistory:
			fmt.Fprintf(out, "Run saved to history: %s\n", run.ID)
		}
	}
}
