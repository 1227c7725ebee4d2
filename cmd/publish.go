package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/huangsam/metacount/core"
	"github.com/huangsam/metacount/internal/contract"
	"github.com/huangsam/metacount/internal/publish"
	"github.com/huangsam/metacount/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// publishStoreConfig reads the backend settings without touching the project on disk.
func publishStoreConfig() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backendStr := strings.ToLower(viper.GetString("publish-backend"))
	connStr := viper.GetString("publish-db-connect")

	backend := schema.DatabaseBackend(backendStr)
	if backendStr == "" {
		backend = schema.NoneBackend
	}
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return fmt.Errorf("invalid publish backend '%s'. must be sqlite, mysql, postgresql, none", backendStr)
	}
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.PublishBackend = backend
	cfg.PublishDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")
	return nil
}

// publishStoreSetup loads minimal configuration and opens the publish store.
// This is used by publish subcommands that never scan a project.
func publishStoreSetup(_ *cobra.Command, _ []string) error {
	if err := publishStoreConfig(); err != nil {
		return err
	}
	if err := publish.InitStore(cfg.PublishBackend, cfg.PublishDBConnect); err != nil {
		return fmt.Errorf("failed to initialize publish store: %w", err)
	}
	return nil
}

// publishMigrateSetup loads the backend settings but does NOT open the store,
// so migrations can run on a fresh database.
func publishMigrateSetup(_ *cobra.Command, _ []string) error {
	return publishStoreConfig()
}

// publishCmd scans the project and stores its counts.
//
// Note: publish subcommands use minimal initialization (publishStoreSetup) instead of
// the full sharedSetup. They never need a Salesforce project on disk.
var publishCmd = &cobra.Command{
	Use:   "publish [project-path...]",
	Short: "Scan the project and store its counts in a database",
	Long: `Scan the located project and record the per-type counts in the publish store.

Each source root keeps only its latest counts: publishing again replaces the
previous rows. Dashboards and other tools can then read the numbers for many
projects from one place.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show what has been published
  export  - Export published counts to Parquet
  clear   - Remove all published data
  migrate - Run database schema migrations

Examples:
  # Publish to the local SQLite file
  metacount publish

  # Publish to a shared PostgreSQL database
  METACOUNT_PUBLISH_DB_CONNECT="host=db user=ci dbname=metrics" \
    metacount publish --publish-backend postgresql`,
	PreRunE: publishSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecutePublish(rootCtx, cfg, publishManager); err != nil {
			contract.LogFatal("Cannot publish metadata report", err)
		}
	},
}

// publishStatusCmd shows what the store holds.
var publishStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display publish store statistics and connection details",
	Long: `Show the publish backend, whether it is reachable, and the latest total
published for every source root.

Examples:
  # Check the default SQLite store
  metacount publish status`,
	PreRunE: publishStoreSetup,
	Run: func(_ *cobra.Command, _ []string) {
		store := publishManager.GetReportStore()
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get publish status", err)
		}
		var summaries []schema.PublishedSummary
		if status.Connected {
			if summaries, err = store.GetSummaries(); err != nil {
				contract.LogFatal("Failed to read published summaries", err)
			}
		}
		publish.PrintPublishStatus(os.Stdout, status, summaries)
	},
}

// publishClearCmd removes published data.
var publishClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all published counts",
	Long: `Delete everything in the publish store.

For SQLite the database file is removed. For MySQL and PostgreSQL the
publish tables are dropped; run publish or migrate to recreate them.

Examples:
  # Start over with a clean local store
  metacount publish clear`,
	PreRunE: publishMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := publish.ClearPublished(cfg.PublishBackend, publish.GetPublishDBFilePath(), cfg.PublishDBConnect); err != nil {
			contract.LogFatal("Failed to clear published data", err)
		}
		fmt.Println("Published data cleared successfully.")
	},
}

// publishExportCmd exports published counts to Parquet.
var publishExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export published counts to Parquet for BI tools and analytics",
	Long: `Write every published type count to a Parquet file.

Each row holds the source root, the metadata type, its count and the time it
was scanned, ready for DuckDB, pandas or a BI tool.

Requires: --output-file parameter

Examples:
  # Export all published projects
  metacount publish export --output-file counts.parquet`,
	PreRunE: publishStoreSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := publish.ExecuteExport(os.Stdout, publishManager, cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export published data", err)
		}
	},
}

// publishMigrateCmd runs database migrations for the publish store.
var publishMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the publish store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  metacount publish migrate

  # Migrate to specific version
  metacount publish migrate --target-version 1

  # Rollback everything
  metacount publish migrate --target-version 0`,
	PreRunE: publishMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := publish.Migrate(os.Stdout, cfg.PublishBackend, cfg.PublishDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
