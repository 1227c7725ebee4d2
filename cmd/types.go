package cmd

import (
	"github.com/huangsam/metacount/core"
	"github.com/spf13/cobra"
)

// typesCmd lists the classification table.
var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "List the rules that map files and folders to metadata types",
	Long: `Print the classification table used by count and report, including any
overrides from the config file.

Rule kinds:
- suffix: the token before -meta.xml, such as layout in A.layout-meta.xml
- unit: source files paired with a descriptor, such as .cls and .trigger
- bundle: folders whose sub-folders are single components, such as lwc
- object-child: folders under objects/<Name>/, such as fields

No scan is performed.

Examples:
  # Show the built-in table
  metacount types

  # Export it for a spreadsheet
  metacount types --output csv --output-file types.csv`,
	PreRunE: sharedSetupWrapper,
	Run:     runExecutor("Cannot list metadata types", core.ExecuteTypes),
}
