// main is the entry point for the metacount CLI.
package main

import (
	"github.com/huangsam/metacount/cmd"
	"github.com/huangsam/metacount/internal/contract"
	"github.com/huangsam/metacount/internal/publish"
)

func main() {
	cmd.SetPublishManager(publish.Manager)

	err := cmd.Execute()
	if stopErr := cmd.StopProfiling(); stopErr != nil {
		contract.LogWarn("Failed to stop profiling", stopErr)
	}
	publish.CloseStore()

	if err != nil {
		contract.LogFatal("Command failed", err)
	}
}
