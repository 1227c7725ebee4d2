package outwriter

import (
	"fmt"
	"io"
	"time"

	"github.com/huangsam/metacount/internal/contract"
	"github.com/huangsam/metacount/schema"
)

// PrintChange writes a notification for a changed report. The first report of
// a session has a zero ScannedAt predecessor and is announced without deltas.
func PrintChange(w io.Writer, prev, next schema.MetadataReport, cfg *contract.Config) {
	if prev.ScannedAt.IsZero() {
		_, _ = fmt.Fprintf(w, "%sMetadata: %s components in %d types\n",
			headerPrefix("🔔", cfg), contract.ColorTotal(next.Total, cfg.UseColors), len(next.Counts))
		return
	}

	_, _ = fmt.Fprintf(w, "%sMetadata changed: %d -> %s (%s)\n",
		headerPrefix("🔔", cfg), prev.Total,
		contract.ColorTotal(next.Total, cfg.UseColors),
		contract.ColorDelta(next.Total-prev.Total, cfg.UseColors))
	for _, d := range schema.DiffCounts(prev, next) {
		_, _ = fmt.Fprintf(w, "  %s %d -> %d (%s)\n", d.Type, d.Before, d.After, contract.ColorDelta(d.Change(), cfg.UseColors))
	}
}

// PrintSummaryLine writes the continuously shown total.
func PrintSummaryLine(w io.Writer, report schema.MetadataReport, cfg *contract.Config) {
	stamp := report.ScannedAt
	if stamp.IsZero() {
		stamp = time.Now()
	}
	clock := "[" + stamp.Format(time.TimeOnly) + "]"
	if cfg.UseColors {
		clock = contract.MutedColor.Sprint(clock)
	}
	_, _ = fmt.Fprintf(w, "%s %s Metadata (files scanned: %d)\n", clock,
		contract.ColorTotal(report.Total, cfg.UseColors), report.FilesScanned)
}
