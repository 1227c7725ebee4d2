package cmd

import (
	"github.com/huangsam/metacount/core"
	"github.com/spf13/cobra"
)

// reportCmd prints the per-type breakdown.
var reportCmd = &cobra.Command{
	Use:   "report [project-path...]",
	Short: "Break down metadata components by type",
	Long: `Scan the located source directory and list every metadata type with its
component count, sorted by type name.

The report also shows how many files were inspected and how long the scan
took. Types can be added or renamed with the types and object-children
tables in .metacount.yaml.

Examples:
  # Show the breakdown as a table
  metacount report

  # Write the breakdown to a Parquet file
  metacount report --output parquet --output-file metadata.parquet

  # Ignore generated folders
  metacount report --exclude "staticresources/**"`,
	PreRunE: sharedSetupWrapper,
	Run:     runExecutor("Cannot build metadata report", core.ExecuteReport),
}
