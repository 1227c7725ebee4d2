package cmd

import (
	"github.com/huangsam/metacount/core"
	"github.com/spf13/cobra"
)

// countCmd prints the total number of metadata components.
var countCmd = &cobra.Command{
	Use:   "count [project-path...]",
	Short: "Print the total number of metadata components in a Salesforce project",
	Long: `Locate the Salesforce project and print how many metadata components it holds.

Without arguments, the current directory is tried first and then the root of
the Git repository that contains it. Each path given on the command line is
tried in order instead, and the first one that looks like a Salesforce
project wins.

A component is one deployable unit: an Apex class with its -meta.xml
descriptor counts once, as does a whole Lightning web component folder.

Examples:
  # Count the project you are standing in
  metacount count

  # Count a specific checkout and emit JSON
  metacount count ~/work/my-org --output json`,
	PreRunE: sharedSetupWrapper,
	Run:     runExecutor("Cannot count metadata", core.ExecuteCount),
}
