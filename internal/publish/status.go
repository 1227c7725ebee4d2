package publish

import (
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/metacount/internal/contract"
	"github.com/huangsam/metacount/internal/parquet"
	"github.com/huangsam/metacount/schema"
)

// PrintPublishStatus prints publish store status information.
func PrintPublishStatus(w io.Writer, status schema.PublishStatus, summaries []schema.PublishedSummary) {
	_, _ = fmt.Fprintf(w, "Publish Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Source Roots: %d\n", status.TotalRoots)
	_, _ = fmt.Fprintf(w, "Type Rows: %d\n", status.TotalRows)
	if status.TotalRoots > 0 {
		_, _ = fmt.Fprintf(w, "Last Publish: %s\n", status.LastPublishTime.Local().Format("2006-01-02 15:04:05"))
	}
	for _, s := range summaries {
		_, _ = fmt.Fprintf(w, "  %s: %d components (files scanned: %d, at %s)\n",
			s.SourceRoot, s.Total, s.FilesScanned, s.ScannedAt.Local().Format("2006-01-02 15:04:05"))
	}
}

// ExecuteExport writes every published type count to a Parquet file.
func ExecuteExport(w io.Writer, mgr contract.PublishManager, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	store := mgr.GetReportStore()
	if store == nil {
		return errors.New("publish store is not initialized")
	}

	records, err := store.GetAllCounts()
	if err != nil {
		return fmt.Errorf("failed to retrieve published counts: %w", err)
	}
	if len(records) == 0 {
		return errors.New("no published data found to export")
	}

	rows := parquet.ConvertPublishedCounts(records)
	if err := parquet.WriteTypeCountsParquet(rows, outputFile); err != nil {
		return fmt.Errorf("failed to write published counts: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d type count rows to: %s\n", len(rows), outputFile)
	return nil
}
