package cmd

import (
	"github.com/huangsam/metacount/internal/contract"
	"github.com/huangsam/metacount/internal/mcp"
	"github.com/huangsam/metacount/internal/publish"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp [project-path...]",
	Short: "Start the metacount MCP server",
	Long: `Launch an MCP server on stdio so AI agents can locate Salesforce projects,
count their metadata and read published counts through standard tools.

Paths given here become the default candidates. Every tool also accepts a
project_path argument that overrides them.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if err := sharedSetup(rootCtx, cmd, args); err != nil {
			return err
		}
		// A missing store only disables the published_summaries tool
		if err := publish.InitStore(cfg.PublishBackend, cfg.PublishDBConnect); err != nil {
			contract.LogWarn("Publish store unavailable", err)
		}
		return nil
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, publishManager)
	},
}
