package cmd

import (
	"github.com/farolescolar/farol/core"
	"github.com/farolescolar/farol/internal/contract"
	"github.com/spf13/cobra"
)

// matrixCmd prints the farol matrix.
var matrixCmd = &cobra.Command{
	Use:   "matrix",
	Short: "Show every school and metric as a green, yellow or red cell.",
	Long: `Classify the records of every school in scope and print one row per school
with one cell per metric.

Each cell carries the aggregated value, its color and a short hint. A metric whose
records could not be read is shown as unavailable for that row instead of red.

Examples:
  # Whole-year matrix for the current year
  farol matrix

  # March of 2024, restricted to one regional
  farol matrix --year 2024 --month 3 --regional r1

  # Second fortnight, exported as JSON
  farol matrix --fortnight 2 --output json --output-file matriz.json`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteMatrix(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot build matrix", err)
		}
	},
}

// attentionCmd lists schools needing attention.
var attentionCmd = &cobra.Command{
	Use:   "attention",
	Short: "List schools with open classes, low teacher attendance or low quality.",
	Long: `Print the schools whose open class, teacher attendance or quality cell is red,
with one line per problem.

Examples:
  farol attention --year 2024 --month 5
  farol attention --regional r2 --output csv`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteAttention(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot build attention list", err)
		}
	},
}

// seriesCmd prints per-period series.
var seriesCmd = &cobra.Command{
	Use:   "series",
	Short: "Aggregate each metric per month or fortnight of the year.",
	Long: `Print one series per metric over the periods of the reference year. Monthly
metrics produce twelve points and fortnightly metrics produce two.

Examples:
  farol series --year 2024
  farol series --school e1 --output json`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSeries(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot build series", err)
		}
	},
}

// distributionCmd counts colors across the matrix.
var distributionCmd = &cobra.Command{
	Use:   "distribution",
	Short: "Count green, yellow and red cells of the matrix.",
	Long: `Summarize the matrix as counts of green, yellow and red cells, plus the number
of cells left out because their metric was unavailable.

Examples:
  farol distribution --year 2024 --month 3`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteDistribution(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot build distribution", err)
		}
	},
}

// rulesCmd shows the classifier thresholds. It needs no record store.
var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Describe the thresholds each metric uses to pick its color.",
	Long: `Print the classification table: the inputs of every metric, its green,
yellow and red branches, its no-data behavior and how records are aggregated.

Examples:
  farol rules
  farol rules --output json`,
	PreRunE: configSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteRules(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot print rules", err)
		}
	},
}
