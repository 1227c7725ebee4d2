package schema

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewMetadataReport(t *testing.T) {
	tests := []struct {
		name      string
		counts    map[string]int
		wantTotal int
		wantTypes int
	}{
		{"empty", map[string]int{}, 0, 0},
		{"nil counters", nil, 0, 0},
		{"drops zeros", map[string]int{"ApexClass": 2, "Layout": 0}, 2, 1},
		{"drops negatives", map[string]int{"ApexClass": 2, "Layout": -1}, 2, 1},
		{"sums all", map[string]int{"ApexClass": 2, "Layout": 3, "Flow": 1}, 6, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewMetadataReport("/tmp/src", tt.counts, 7)
			assert.Equal(t, tt.wantTotal, r.Total)
			assert.Len(t, r.Counts, tt.wantTypes)
			assert.Equal(t, 7, r.FilesScanned)
			for _, n := range r.Counts {
				assert.Positive(t, n)
			}
		})
	}
}

func TestMetadataReportEntriesSorted(t *testing.T) {
	r := NewMetadataReport("", map[string]int{"Profile": 1, "ApexClass": 4, "Layout": 2}, 0)
	assert.Equal(t, []TypeCount{
		{Type: "ApexClass", Count: 4},
		{Type: "Layout", Count: 2},
		{Type: "Profile", Count: 1},
	}, r.Entries())
}

func TestMetadataReportSameCounts(t *testing.T) {
	a := NewMetadataReport("a", map[string]int{"ApexClass": 1}, 1)
	b := NewMetadataReport("b", map[string]int{"ApexClass": 1}, 9)
	b.ScannedAt = time.Now()
	c := NewMetadataReport("a", map[string]int{"ApexClass": 2}, 1)

	assert.True(t, a.SameCounts(b))
	assert.False(t, a.SameCounts(c))
}

func TestDiffCounts(t *testing.T) {
	before := NewMetadataReport("", map[string]int{"ApexClass": 2, "Layout": 1, "Flow": 3}, 0)
	after := NewMetadataReport("", map[string]int{"ApexClass": 3, "Flow": 3, "Profile": 1}, 0)

	deltas := DiffCounts(before, after)
	assert.Equal(t, []TypeDelta{
		{Type: "ApexClass", Before: 2, After: 3},
		{Type: "Layout", Before: 1, After: 0},
		{Type: "Profile", Before: 0, After: 1},
	}, deltas)
	assert.Equal(t, 1, deltas[0].Change())
	assert.Equal(t, -1, deltas[1].Change())
	assert.Empty(t, DiffCounts(after, after))
}

func TestNewReportOutput(t *testing.T) {
	r := NewMetadataReport("/p/src", map[string]int{"Layout": 2, "ApexClass": 1}, 5)
	out := NewReportOutput(r, time.RFC3339)
	assert.Equal(t, 3, out.Total)
	assert.Empty(t, out.ScannedAt)
	assert.Equal(t, "ApexClass", out.Types[0].Type)

	r.ScannedAt = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	out = NewReportOutput(r, time.RFC3339)
	assert.Equal(t, "2025-01-02T03:04:05Z", out.ScannedAt)
}
