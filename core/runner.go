package core

import (
	"context"
	"slices"
	"sync"

	"github.com/huangsam/metacount/schema"
	"golang.org/x/sync/singleflight"
)

// ScanFunc produces a fresh report.
type ScanFunc func(ctx context.Context) (schema.MetadataReport, error)

// ChangeFunc is called with the previous and the new report. prev is the zero
// report on the first successful scan.
type ChangeFunc func(prev, next schema.MetadataReport)

// Runner owns the live report of a watch session. Overlapping refreshes share
// one scan, and a failed scan keeps the last good report.
type Runner struct {
	scan  ScanFunc
	group singleflight.Group

	mu        sync.RWMutex
	last      schema.MetadataReport
	hasLast   bool
	listeners []ChangeFunc
}

// NewRunner returns a Runner driven by scan.
func NewRunner(scan ScanFunc) *Runner {
	return &Runner{scan: scan}
}

// OnChange registers fn for reports that differ from their predecessor.
func (r *Runner) OnChange(fn ChangeFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, fn)
}

// Last returns the most recent successful report.
func (r *Runner) Last() (schema.MetadataReport, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.last, r.hasLast
}

// Refresh scans once. Callers arriving while a scan is in flight wait for and
// receive that scan's result. On failure the last good report is returned with the error.
// The shared scan is detached from the caller's cancellation; a canceled caller
// stops waiting and gets its context error.
func (r *Runner) Refresh(ctx context.Context) (schema.MetadataReport, error) {
	scanCtx := context.WithoutCancel(ctx)
	ch := r.group.DoChan("scan", func() (any, error) {
		report, err := r.scan(scanCtx)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		prev, had := r.last, r.hasLast
		r.last, r.hasLast = report, true
		listeners := slices.Clone(r.listeners)
		r.mu.Unlock()

		if !had || !prev.SameCounts(report) {
			for _, fn := range listeners {
				fn(prev, report)
			}
		}
		return report, nil
	})

	select {
	case <-ctx.Done():
		last, _ := r.Last()
		return last, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			last, _ := r.Last()
			return last, res.Err
		}
		return res.Val.(schema.MetadataReport), nil
	}
}
