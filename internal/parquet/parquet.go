// Package parquet provides data structures and functions for exporting metadata
// counts to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/metacount/schema"
	"github.com/parquet-go/parquet-go"
)

// TypeCountRow represents the count of one component type in one scan.
// This struct maps to the metacount_type_counts database table.
type TypeCountRow struct {
	// SourceRoot is the absolute path of the scanned source directory
	SourceRoot string `parquet:"source_root,snappy"`

	// TypeName is the component type, e.g. ApexClass
	TypeName string `parquet:"type_name,snappy"`

	// ComponentCount is the number of components of this type
	ComponentCount int32 `parquet:"component_count,snappy"`

	// ScannedAt is when the scan finished (nullable for reports that were never timestamped)
	ScannedAt *time.Time `parquet:"scanned_at,optional,snappy"`
}

// ReportRows flattens a report into rows sorted by type name.
func ReportRows(report schema.MetadataReport) []TypeCountRow {
	var scannedAt *time.Time
	if !report.ScannedAt.IsZero() {
		ts := report.ScannedAt
		scannedAt = &ts
	}
	entries := report.Entries()
	rows := make([]TypeCountRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, TypeCountRow{
			SourceRoot:     report.SourceRoot,
			TypeName:       e.Type,
			ComponentCount: int32(e.Count),
			ScannedAt:      scannedAt,
		})
	}
	return rows
}

// ConvertPublishedCounts converts rows read from the publish store.
func ConvertPublishedCounts(records []schema.PublishedCount) []TypeCountRow {
	rows := make([]TypeCountRow, 0, len(records))
	for _, r := range records {
		row := TypeCountRow{
			SourceRoot:     r.SourceRoot,
			TypeName:       r.TypeName,
			ComponentCount: int32(r.Count),
		}
		if !r.ScannedAt.IsZero() {
			ts := r.ScannedAt
			row.ScannedAt = &ts
		}
		rows = append(rows, row)
	}
	return rows
}

// WriteTypeCounts writes rows to w in Parquet format.
func WriteTypeCounts(w io.Writer, data []TypeCountRow) error {
	writer := parquet.NewGenericWriter[TypeCountRow](w)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteTypeCountsParquet writes a slice of TypeCountRow structs to a Parquet file.
func WriteTypeCountsParquet(data []TypeCountRow, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return WriteTypeCounts(file, data)
}

// WriteReportParquet writes one report to a Parquet file.
func WriteReportParquet(report schema.MetadataReport, outputPath string) error {
	return WriteTypeCountsParquet(ReportRows(report), outputPath)
}
