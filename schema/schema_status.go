package schema

import "time"

// PublishStatus represents the status of the publish store.
type PublishStatus struct {
	Backend         string    `json:"backend"`
	Connected       bool      `json:"connected"`
	TotalRoots      int       `json:"total_roots"`
	TotalRows       int       `json:"total_rows"`
	LastPublishTime time.Time `json:"last_publish_time"`
}

// PublishedSummary is one row of the publish summary table.
type PublishedSummary struct {
	SourceRoot   string    `json:"source_root"`
	Total        int       `json:"total"`
	FilesScanned int       `json:"files_scanned"`
	ScannedAt    time.Time `json:"scanned_at"`
}

// PublishedCount is one row of the published type counts table.
type PublishedCount struct {
	SourceRoot string    `json:"source_root"`
	TypeName   string    `json:"type_name"`
	Count      int       `json:"count"`
	ScannedAt  time.Time `json:"scanned_at"`
}
