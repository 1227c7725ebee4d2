// Package outwriter has output and writer logic.
package outwriter

import (
	"io"
	"os"
	"time"

	"github.com/huangsam/metacount/internal/contract"
	"github.com/huangsam/metacount/schema"
	"golang.org/x/term"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteReport prints the per-type breakdown using the configured output format.
func (ow *OutWriter) WriteReport(report schema.MetadataReport, cfg *contract.Config, duration time.Duration) error {
	return PrintReport(report, cfg, duration)
}

// WriteCount prints the summary indicator using the configured output format.
func (ow *OutWriter) WriteCount(report schema.MetadataReport, cfg *contract.Config) error {
	return PrintCount(report, cfg)
}

// WriteLocate prints the located source root using the configured output format.
func (ow *OutWriter) WriteLocate(root schema.SourceRoot, cfg *contract.Config) error {
	return PrintLocate(root, cfg)
}

// WriteTypes prints the active classification tables using the configured output format.
func (ow *OutWriter) WriteTypes(rules []schema.TypeRule, cfg *contract.Config) error {
	return PrintTypes(rules, cfg)
}

// WriteChange prints a watch notification for a report that differs from its predecessor.
func (ow *OutWriter) WriteChange(w io.Writer, prev, next schema.MetadataReport, cfg *contract.Config) {
	PrintChange(w, prev, next, cfg)
}

// WriteSummaryLine prints the one-line summary shown after each watch scan.
func (ow *OutWriter) WriteSummaryLine(w io.Writer, report schema.MetadataReport, cfg *contract.Config) {
	PrintSummaryLine(w, report, cfg)
}

// GetMaxTablePathWidth calculates the maximum width for paths in table output
// based on terminal width and table configuration.
func GetMaxTablePathWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Label column plus borders/padding
	baseWidth := 20

	available := termWidth - baseWidth
	if available < 15 {
		return 15
	}
	if available > 100 {
		return 100
	}
	return available
}
