package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/farolescolar/farol/core"
	"github.com/farolescolar/farol/internal/contract"
	"github.com/spf13/cobra"
)

// exportCmd flattens classified records into an export run.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export every classified record of the period.",
	Long: `Classify each raw record in scope and write it as one export row with its type,
regional, school, period, value, color and details.

Every run gets a unique run id. With --output parquet the rows go to the file given
by --output-file and a run summary goes next to it.

With --schedule the command keeps running and exports on every cron tick, stamping
each output file with the run time, until interrupted.

Examples:
  # One-off CSV export
  farol export --year 2024 --output csv --output-file export.csv

  # Columnar export for analytics
  farol export --output parquet --output-file export.parquet

  # Every Monday at 06:00
  farol export --schedule "0 6 * * 1" --output csv --output-file export.csv`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		ctx, stop := signal.NotifyContext(rootCtx, os.Interrupt, syscall.SIGTERM)
		defer stop()
		if err := core.ExecuteExport(ctx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot export records", err)
		}
	},
}
