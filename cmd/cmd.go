// Package cmd defines the command-line interface for farol.
package cmd

import (
	"github.com/farolescolar/farol/internal/contract"
	"github.com/farolescolar/farol/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(matrixCmd)
	rootCmd.AddCommand(rankingCmd)
	rootCmd.AddCommand(regionalRankingCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(attentionCmd)
	rootCmd.AddCommand(seriesCmd)
	rootCmd.AddCommand(distributionCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(storeCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the store subcommands to the parent store command
	storeCmd.AddCommand(storeMigrateCmd)
	storeCmd.AddCommand(storeStatusCmd)
	storeCmd.AddCommand(storeClearCmd)
	storeCmd.AddCommand(storeImportCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().IntP("year", "y", 0, "Reference year (defaults to the current year)")
	rootCmd.PersistentFlags().IntP("month", "m", 0, "Month 1-12 narrowing monthly metrics (0 = whole year)")
	rootCmd.PersistentFlags().Int("fortnight", 0, "Fortnight 1-2 narrowing fortnightly metrics (0 = whole year)")
	rootCmd.PersistentFlags().StringP("regional", "r", "", "Restrict results to one regional id")
	rootCmd.PersistentFlags().StringP("school", "s", "", "Restrict results to one school id")
	rootCmd.PersistentFlags().String("metric", string(schema.FrequencyMetric), "Targeted metric for gap rankings: freq or nps")
	rootCmd.PersistentFlags().String("order", string(schema.AscendingOrder), "Ranking order: asc (largest shortfall first) or desc")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of ranking entries to display")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("db-backend", string(schema.SQLiteBackend), "Record store backend: sqlite or mysql or postgresql")
	rootCmd.PersistentFlags().String("db-connect", "", "Database connection string (SQLite file path, or e.g. user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("log-level", "info", "Diagnostics log level: debug or info or warn or error")
	rootCmd.PersistentFlags().String("log-format", contract.ConsoleLogFormat, "Diagnostics log format: console or json")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of checkCmd to Viper
	checkCmd.Flags().Int("max-red", contract.DefaultMaxRed, "Maximum red cells allowed per metric")
	checkCmd.Flags().String("check-metrics", "", "Comma-separated metric keys to check (empty = all)")
	if err := viper.BindPFlags(checkCmd.Flags()); err != nil {
		contract.LogFatal("Error binding check flags", err)
	}

	// Bind all flags of exportCmd to Viper
	exportCmd.Flags().String("schedule", "", "Cron expression; keeps exporting on every tick until interrupted")
	if err := viper.BindPFlags(exportCmd.Flags()); err != nil {
		contract.LogFatal("Error binding export flags", err)
	}

	// Bind all flags of storeMigrateCmd to Viper
	storeMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(storeMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding store migrate flags", err)
	}
}
