package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/huangsam/metacount/internal/contract"
	"github.com/huangsam/metacount/internal/parquet"
	"github.com/huangsam/metacount/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintReport outputs the breakdown, dispatching based on the output format configured.
func PrintReport(report schema.MetadataReport, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSONReport(w, report)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVReport(w, report)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := parquet.WriteReportParquet(report, cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		fmt.Fprintf(os.Stderr, "💾 Wrote Parquet to %s\n", cfg.OutputFile)
	default:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return printReportTable(w, report, cfg, duration)
		}, "Wrote text"); err != nil {
			return fmt.Errorf("error writing table output: %w", err)
		}
	}
	return nil
}

// printReportTable renders the sorted breakdown with the tablewriter API.
func printReportTable(w io.Writer, report schema.MetadataReport, cfg *contract.Config, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Type", "Count"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.PerColumn = []tw.Align{tw.AlignLeft, tw.AlignRight}
	})

	var data [][]string
	for _, e := range report.Entries() {
		data = append(data, []string{e.Type, strconv.Itoa(e.Count)})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if cfg.ShowSummary {
		if _, err := fmt.Fprintf(w, "%sTotal: %s components in %d types (files scanned: %d)\n",
			headerPrefix("📦", cfg), contract.ColorTotal(report.Total, cfg.UseColors), len(report.Counts), report.FilesScanned); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "Scan completed in %v with %d workers.\n", duration.Round(time.Millisecond), cfg.Workers)
	return err
}

// writeJSONReport writes the report in its serialized form.
func writeJSONReport(w io.Writer, report schema.MetadataReport) error {
	return writeJSON(w, schema.NewReportOutput(report, contract.DateTimeFormat))
}

// writeCSVReport writes one row per type, sorted by type name.
func writeCSVReport(w io.Writer, report schema.MetadataReport) error {
	return writeCSVWithHeader(w, []string{"type", "count"}, func(cw *csv.Writer) error {
		for _, e := range report.Entries() {
			if err := cw.Write([]string{e.Type, strconv.Itoa(e.Count)}); err != nil {
				return fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
		return nil
	})
}
