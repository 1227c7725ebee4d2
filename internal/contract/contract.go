// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"

	"github.com/huangsam/metacount/schema"
)

// GitClient defines the Git operations used while discovering project candidates.
// This allows candidate resolution to be tested without needing a real git executable.
type GitClient interface {
	// Run executes a git command and returns its output.
	Run(ctx context.Context, repoPath string, args ...string) ([]byte, error)

	// GetRepoRoot returns the absolute path to the root of the Git repository
	// containing the given context path.
	GetRepoRoot(ctx context.Context, contextPath string) (string, error)
}

// PublishManager defines the interface for reaching the publish store.
// This allows the publish layer to be mocked for testing.
type PublishManager interface {
	GetReportStore() ReportStore
}

// ReportStore defines the interface for persisting the latest report per source root.
type ReportStore interface {
	// Publish replaces every stored row for the report's source root with the report's counters.
	Publish(report schema.MetadataReport) error

	// GetCounts returns the stored counters for a source root.
	GetCounts(sourceRoot string) (map[string]int, error)

	// GetSummaries returns one summary row per published source root.
	GetSummaries() ([]schema.PublishedSummary, error)

	// GetAllCounts returns every stored type count, ordered by source root and type.
	GetAllCounts() ([]schema.PublishedCount, error)

	// GetStatus returns status information about the store.
	GetStatus() (schema.PublishStatus, error)

	// Close closes the underlying connection.
	Close() error
}
