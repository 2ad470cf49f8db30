package cmd

import (
	"github.com/farolescolar/farol/core"
	"github.com/farolescolar/farol/internal/contract"
	"github.com/spf13/cobra"
)

// checkCmd focused on scheduled or CI gating of the red budget.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Fail when any metric has more red cells than allowed",
	Long: `Build the matrix and count the red cells of each checked metric. Exits with a
non-zero code when any metric exceeds --max-red.

A checked metric whose records are unavailable fails the check, because its red
cells cannot be counted.

Examples:
  # No red cells allowed anywhere
  farol check --year 2024 --month 3

  # Allow up to 5 red cells for quality and infrastructure only
  farol check --max-red 5 --check-metrics qualidade,infra`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteCheck(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Red budget check failed", err)
		}
	},
}
