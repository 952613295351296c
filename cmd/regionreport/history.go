package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/regionreport/internal/database"
	"github.com/nao1215/regionreport/internal/report"
	"github.com/spf13/cobra"
)

// defaultHistoryLimit is the number of runs listed when --limit is not given.
const defaultHistoryLimit = 20

// historyTimeLayout is how run start times are shown.
const historyTimeLayout = "2006-01-02 15:04:05"

// errRunNotFound is returned when the requested run ID is not in the database.
var errRunNotFound = errors.New("run not found")

// NewHistoryCmd creates the history command.
// This command shows runs stored with run --history.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "Show runs stored in the history database",
		Long: `History lists the runs saved with 'regionreport run --history', newest first.

When a run ID is given, the stored report of that run is printed in the same
layout as the CSV report.

Examples:
  # List the latest runs
  regionreport history

  # List every stored run
  regionreport history --limit 0

  # Print the report of one run
  regionreport history 7f1c0c3e-5d7a-4b8e-9a55-0d1d2f0b6b1e`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", defaultHistoryLimit,
		"Maximum number of runs to list (0 lists all)")
	cmd.Flags().String("db-dir", "",
		"History database directory (default: XDG data directory)")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .regionreport in current or home directory)")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := stringFlag(cmd, "db-dir", &cfg.DBDir); err != nil {
		return err
	}

	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	// Reading history never creates the database.
	db, err := database.Open(cfg.DBDir, database.ReadOnlyOptions())
	if errors.Is(err, database.ErrNotFound) {
		fmt.Fprintln(out, "No run history found.")
		fmt.Fprintf(out, "\nUse '%s run --history' to record runs.\n", cmdName)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	if len(args) == 1 {
		return showRun(ctx, out, db, args[0])
	}
	return listRuns(ctx, out, db, limit)
}

// listRuns prints the stored runs, newest first.
func listRuns(ctx context.Context, out io.Writer, db *database.HistoryDB, limit int) error {
	runs, err := db.ListRuns(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs found in the history database.")
		return nil
	}

	fmt.Fprintf(out, "Runs (%d):\n\n", len(runs))
	fmt.Fprintf(out, "  %-36s  %-19s  %7s  %7s  %s\n", "ID", "Started", "Records", "Regions", "Input")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 90))

	for _, r := range runs {
		fmt.Fprintf(out, "  %-36s  %-19s  %7d  %7d  %s\n",
			r.ID,
			r.StartedAt.Local().Format(historyTimeLayout),
			r.RecordCount,
			r.RegionCount,
			r.InputPath,
		)
	}

	fmt.Fprintf(out, "\nUse '%s history <run-id>' to print the report of a run.\n", cmdName)
	return nil
}

// showRun prints the summary and the stored report rows of one run.
func showRun(ctx context.Context, out io.Writer, db *database.HistoryDB, id string) error {
	rec, err := db.GetRun(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get run: %w", err)
	}
	if rec == nil {
		return fmt.Errorf("%w: %s", errRunNotFound, id)
	}

	reports, err := db.GetRegionReports(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get region reports: %w", err)
	}

	fmt.Fprintf(out, "Run %s\n", rec.ID)
	fmt.Fprintf(out, "  started: %s\n", rec.StartedAt.Local().Format(historyTimeLayout))
	fmt.Fprintf(out, "  input:   %s\n", rec.InputPath)
	fmt.Fprintf(out, "  output:  %s\n", rec.OutputPath)
	fmt.Fprintf(out, "  records: %d (skipped lines: %d)\n", rec.RecordCount, rec.SkippedLines)
	if len(rec.Outputs) > 0 {
		fmt.Fprintf(out, "  files:   %s\n", strings.Join(rec.Outputs, ", "))
	}
	fmt.Fprintln(out)

	if _, err := report.NewCSVWriter(out).WriteReports(reports); err != nil {
		return fmt.Errorf("failed to print report: %w", err)
	}
	return nil
}
