package core

import (
	"context"
	"time"

	"github.com/huangsam/metacount/schema"
)

// ClassifyOptions controls a single scan.
type ClassifyOptions struct {
	Workers  int
	Excludes []string
	TypeMap  *TypeMap // nil selects DefaultTypeMap
}

// Classify enumerates the source root and folds every candidate into a report.
// A traversal failure yields a *ScanError and no report.
func Classify(ctx context.Context, root schema.SourceRoot, opts ClassifyOptions) (schema.MetadataReport, error) {
	types := opts.TypeMap
	if types == nil {
		var err error
		if types, err = DefaultTypeMap(); err != nil {
			return schema.MetadataReport{}, err
		}
	}
	files, err := Enumerate(ctx, root.Path, opts.Workers, opts.Excludes)
	if err != nil {
		return schema.MetadataReport{}, err
	}
	report := ClassifyFiles(root, files, types)
	report.ScannedAt = time.Now()
	return report, nil
}

// ClassifyFiles is the pure fold from a file list to a report. Every component
// key increments its type once, so the result does not depend on file order.
func ClassifyFiles(root schema.SourceRoot, files []schema.CandidateFile, types *TypeMap) schema.MetadataReport {
	parsed := make([]parsedPath, len(files))
	for i, f := range files {
		parsed[i] = parsePath(f.Rel)
	}
	c := newClassifier(types, parsed)

	consumed := make(map[schema.ComponentKey]struct{})
	counts := make(map[string]int)
	scanned := 0
	for _, p := range parsed {
		if !c.isCandidate(p) {
			continue
		}
		scanned++
		d, _, ok := c.classify(p)
		if !ok {
			continue
		}
		if _, seen := consumed[d.Key]; seen {
			continue
		}
		consumed[d.Key] = struct{}{}
		counts[d.Type]++
	}
	return schema.NewMetadataReport(root.Path, counts, scanned)
}
