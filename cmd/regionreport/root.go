package main

import (
	"fmt"
	"os"

	"github.com/nao1215/regionreport/internal/config"
	"github.com/spf13/cobra"
)

// cmdName is the name of the binary as shown in help and version output.
const cmdName = "regionreport"

// NewRootCmd creates the root command for regionreport.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   cmdName,
		Short: "Aggregate yearly regional values into a CSV report",
		Long: `regionreport reads a semicolon separated file with one value per year and
region (decimal comma, e.g. "2005;Umbria;12,5"), groups the rows by region and
writes a report with the values for 2003 to 2007, the total and the average.

The CSV report is always written. A Markdown summary, a JSON document, an
Excel workbook and a run history database can be enabled on demand.

Running without a subcommand only prints this help. Use 'regionreport run'
to produce the report; with no flags it reads src/Diffusione.csv and writes
report.csv.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().String("log-format", config.DefaultLogFormat,
		"Log output format (text or json)")

	// Add subcommands
	cmd.AddCommand(NewRunCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
