// Package schema defines the data types shared by the locator, engine and output layers.
package schema

import (
	"maps"
	"sort"
	"time"
)

// SourceRoot is the directory whose contents are classified during a run.
type SourceRoot struct {
	ProjectRoot string `json:"project_root"` // Directory carrying the project markers
	Path        string `json:"source_root"`  // Absolute path of the source directory
	Layout      Layout `json:"layout"`
}

// CandidateFile is a file discovered beneath a source root.
type CandidateFile struct {
	Path string // Absolute path on disk
	Rel  string // Forward-slash path relative to the source root
}

// ComponentKey identifies one logical component. Files sharing a key are counted once.
type ComponentKey string

// TypeCount is a single row of a metadata report.
type TypeCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// TypeRule describes one entry of the active classification tables.
type TypeRule struct {
	Kind RuleKind `json:"kind"`
	Key  string   `json:"key"`
	Type string   `json:"type"`
}

// MetadataReport is the outcome of a single scan.
// Total always equals the sum of Counts, and Counts never holds a zero entry.
type MetadataReport struct {
	SourceRoot   string         `json:"source_root"`
	Counts       map[string]int `json:"counts"`
	Total        int            `json:"total"`
	FilesScanned int            `json:"files_scanned"`
	ScannedAt    time.Time      `json:"scanned_at"`
}

// NewMetadataReport builds a report from raw counters, dropping empty entries
// and deriving the total.
func NewMetadataReport(sourceRoot string, counts map[string]int, filesScanned int) MetadataReport {
	clean := make(map[string]int, len(counts))
	total := 0
	for name, n := range counts {
		if n <= 0 {
			continue
		}
		clean[name] = n
		total += n
	}
	return MetadataReport{
		SourceRoot:   sourceRoot,
		Counts:       clean,
		Total:        total,
		FilesScanned: filesScanned,
	}
}

// Entries returns the report rows sorted alphabetically by type name.
func (r MetadataReport) Entries() []TypeCount {
	entries := make([]TypeCount, 0, len(r.Counts))
	for name, n := range r.Counts {
		entries = append(entries, TypeCount{Type: name, Count: n})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Type < entries[j].Type
	})
	return entries
}

// SameCounts reports whether two reports carry identical counters.
func (r MetadataReport) SameCounts(other MetadataReport) bool {
	return r.Total == other.Total && maps.Equal(r.Counts, other.Counts)
}
