package cmd

import (
	"github.com/farolescolar/farol/core"
	"github.com/farolescolar/farol/internal/contract"
	"github.com/spf13/cobra"
)

// rankingCmd ranks schools by target gap.
var rankingCmd = &cobra.Command{
	Use:   "ranking",
	Short: "Rank schools by the gap between result and target.",
	Long: `Rank the schools in scope by result minus target for a targeted metric
(freq or nps). Schools without a result or target are left out.

The default ascending order puts the largest shortfall first.

Examples:
  # Worst attendance gaps first
  farol ranking --metric freq --limit 10

  # Best NPS performers of one regional
  farol ranking --metric nps --order desc --regional r1`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteRanking(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot rank schools", err)
		}
	},
}

// regionalRankingCmd ranks regionals by target gap.
var regionalRankingCmd = &cobra.Command{
	Use:   "regional-ranking",
	Short: "Rank regionals by the gap between mean result and mean target.",
	Long: `Rank every regional owning a school in scope by the mean result of its schools
minus the mean of their targets.

Examples:
  farol regional-ranking --metric freq
  farol regional-ranking --metric nps --order desc --output csv`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteRegionalRanking(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot rank regionals", err)
		}
	},
}
