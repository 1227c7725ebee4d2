package schema

import "sort"

// ReportOutput is the serialized form of a report used by JSON writers and tool responses.
type ReportOutput struct {
	SourceRoot   string      `json:"source_root"`
	Total        int         `json:"total"`
	FilesScanned int         `json:"files_scanned"`
	ScannedAt    string      `json:"scanned_at,omitempty"`
	Types        []TypeCount `json:"types"`
}

// CountOutput is the serialized form of the summary indicator.
type CountOutput struct {
	SourceRoot string `json:"source_root"`
	Total      int    `json:"total"`
}

// TypeDelta records how the count of one type moved between two reports.
type TypeDelta struct {
	Type   string `json:"type"`
	Before int    `json:"before"`
	After  int    `json:"after"`
}

// Change returns the signed difference for the type.
func (d TypeDelta) Change() int {
	return d.After - d.Before
}

// NewReportOutput converts a report into its serialized form.
func NewReportOutput(r MetadataReport, timeFormat string) ReportOutput {
	out := ReportOutput{
		SourceRoot:   r.SourceRoot,
		Total:        r.Total,
		FilesScanned: r.FilesScanned,
		Types:        r.Entries(),
	}
	if !r.ScannedAt.IsZero() {
		out.ScannedAt = r.ScannedAt.Format(timeFormat)
	}
	return out
}

// DiffCounts lists every type whose count differs between before and after, sorted by type.
func DiffCounts(before, after MetadataReport) []TypeDelta {
	seen := make(map[string]struct{}, len(before.Counts)+len(after.Counts))
	for name := range before.Counts {
		seen[name] = struct{}{}
	}
	for name := range after.Counts {
		seen[name] = struct{}{}
	}

	var deltas []TypeDelta
	for name := range seen {
		b, a := before.Counts[name], after.Counts[name]
		if a != b {
			deltas = append(deltas, TypeDelta{Type: name, Before: b, After: a})
		}
	}
	sort.Slice(deltas, func(i, j int) bool {
		return deltas[i].Type < deltas[j].Type
	})
	return deltas
}
