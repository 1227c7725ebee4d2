package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/huangsam/metacount/core"
	"github.com/huangsam/metacount/internal/contract"
	"github.com/spf13/cobra"
)

// watchCmd keeps the count current while the project is edited.
var watchCmd = &cobra.Command{
	Use:   "watch [project-path...]",
	Short: "Keep the metadata count up to date while you work",
	Long: `Scan the project once, then rescan whenever files change or you press Enter.

Changes are batched: a rescan starts after the debounce period passes with no
further edits under the source directory. Only paths matching --watch-glob
count as changes. Each rescan prints the types whose counts moved; nothing is
printed when the counts stay the same.

Press Ctrl+C to stop.

Examples:
  # Watch the current project
  metacount watch

  # Manual refresh only
  metacount watch --auto-refresh=false

  # React faster, but only to descriptor changes
  metacount watch --debounce 500ms --watch-glob "**/*-meta.xml"`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := runWatch(); err != nil {
			contract.LogFatal("Cannot watch project", err)
		}
	},
}

func runWatch() error {
	ctx, stop := signal.NotifyContext(rootCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return core.ExecuteWatch(ctx, cfg, os.Stdin)
}
