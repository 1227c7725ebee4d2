package cmd

import (
	"github.com/huangsam/metacount/core"
	"github.com/spf13/cobra"
)

// locateCmd shows which project and source directory would be scanned.
var locateCmd = &cobra.Command{
	Use:   "locate [project-path...]",
	Short: "Show the Salesforce project root and source directory",
	Long: `Find the Salesforce project without scanning it.

A directory qualifies as a project when it contains sfdx-project.json,
force-app/main/default, src/package.xml or .forceignore. The source directory
is force-app/main/default for source-format projects and src for the
metadata API layout.

Examples:
  # Where would metacount look?
  metacount locate

  # Check several candidates, first match wins
  metacount locate ./app ./legacy`,
	PreRunE: sharedSetupWrapper,
	Run:     runExecutor("Cannot locate project", core.ExecuteLocate),
}
