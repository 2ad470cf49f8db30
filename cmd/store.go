package cmd

import (
	"fmt"

	"github.com/farolescolar/farol/core"
	"github.com/farolescolar/farol/internal/contract"
	"github.com/farolescolar/farol/internal/store"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// storeCmd focused on record store management.
//
// Note: store migrate only loads configuration. Opening the store migrates it
// to the latest version, which would defeat a rollback.
var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the record store that feeds every report",
	Long: `Manage the SQL record store holding regionals, schools, raw records and targets.

Supported backends: SQLite (default), MySQL, PostgreSQL

Subcommands:
  migrate - Move the schema to a given version
  status  - Show schema version, table sizes and the last import
  clear   - Remove all stored data, keeping the schema
  import  - Load a YAML or JSON dataset file as one batch

Examples:
  # Load the monthly dataset
  farol store import dados-2024-03.yaml

  # Check what is stored
  farol store status`,
}

// storeMigrateCmd runs schema migrations.
var storeMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage schema versions of the record store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  farol store migrate

  # Migrate to specific version
  farol store migrate --target-version 1

  # Rollback every migration
  farol store migrate --target-version 0

  # Migrate a PostgreSQL store (set connection string via env variable)
  FAROL_DB_BACKEND=postgresql FAROL_DB_CONNECT="host=... dbname=..." farol store migrate`,
	PreRunE: configSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		result, err := store.Migrate(cfg.StoreBackend, cfg.StoreDBConnect, targetVersion)
		if err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
		if !result.Changed {
			fmt.Printf("Schema already at version %d.\n", result.To)
			return
		}
		fmt.Printf("Schema migrated from version %d to %d.\n", result.From, result.To)
	},
}

// storeStatusCmd shows store status.
var storeStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display record store statistics and connection details",
	Long: `Show detailed information about the record store.

Displays:
- Backend type and connection status
- Schema version and dirty flag
- Row count of every table
- Number of import batches and the most recent one

Examples:
  farol store status
  farol store status --output json`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteStoreStatus(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Failed to get store status", err)
		}
	},
}

// storeClearCmd clears the store.
var storeClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all stored entities, records and targets",
	Long: `Delete every regional, school, record, target and import batch from the
configured backend. The schema and its migration version are kept.

Examples:
  farol store clear

  # Clear a MySQL store (set connection string via env variable)
  FAROL_DB_BACKEND=mysql FAROL_DB_CONNECT="..." farol store clear`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ClearStore(rootCtx, storeManager); err != nil {
			contract.LogFatal("Failed to clear store", err)
		}
		fmt.Println("Record store cleared successfully.")
	},
}

// storeImportCmd loads a dataset file.
var storeImportCmd = &cobra.Command{
	Use:   "import <dataset-file>",
	Short: "Load a YAML or JSON dataset file as one batch",
	Long: `Validate a dataset file and write it to the record store in one transaction.

Regionals and schools are upserted by id. Records and targets are appended and
tagged with the batch id. The whole batch is rejected when any entry fails
validation or references an unknown school or regional.

Examples:
  farol store import dados.yaml
  farol store import dados.json --db-backend mysql`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		batch, err := core.ImportDataset(rootCtx, storeManager, args[0])
		if err != nil {
			contract.LogFatal("Failed to import dataset", err)
		}
		fmt.Printf("Imported %d records from %s (batch %s).\n", batch.RecordCount, batch.Source, batch.BatchID)
	},
}
