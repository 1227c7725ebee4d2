// Package cmd defines the command-line interface for metacount.
package cmd

import (
	"github.com/huangsam/metacount/internal/contract"
	"github.com/huangsam/metacount/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(countCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(locateCmd)
	rootCmd.AddCommand(typesCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(publishCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the publish subcommands to the parent publish command
	publishCmd.AddCommand(publishStatusCmd)
	publishCmd.AddCommand(publishClearCmd)
	publishCmd.AddCommand(publishExportCmd)
	publishCmd.AddCommand(publishMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("exclude", "", "Comma-separated list of glob patterns to ignore, relative to the source root")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent workers")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("publish-backend", string(schema.SQLiteBackend), "Publish backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("publish-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("emoji", "yes", "Enable emojis in output headers (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of watchCmd to Viper
	watchCmd.Flags().Bool("show-summary", true, "Print a summary line after every scan")
	watchCmd.Flags().Bool("auto-refresh", true, "Rescan when files under the source root change")
	watchCmd.Flags().String("debounce", contract.DefaultDebounce.String(), "Quiet period after the last file change before rescanning")
	watchCmd.Flags().String("watch-glob", contract.DefaultWatchGlob, "Glob of source-root relative paths that trigger a rescan")
	if err := viper.BindPFlags(watchCmd.Flags()); err != nil {
		contract.LogFatal("Error binding watch flags", err)
	}

	// Bind all flags of publishMigrateCmd to Viper
	publishMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(publishMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding publish migrate flags", err)
	}
}
