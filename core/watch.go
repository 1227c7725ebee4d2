package core

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/huangsam/metacount/internal/contract"
	"github.com/huangsam/metacount/internal/outwriter"
	"github.com/huangsam/metacount/internal/watch"
	"github.com/huangsam/metacount/schema"
)

// ExecuteWatch scans once and then rescans whenever a line arrives on stdin or,
// with auto-refresh on, after a debounced burst of file changes. It returns when ctx is done.
func ExecuteWatch(ctx context.Context, cfg *contract.Config, stdin io.Reader) error {
	return runWatch(ctx, cfg, stdin, os.Stdout)
}

func runWatch(ctx context.Context, cfg *contract.Config, stdin io.Reader, w io.Writer) error {
	root, err := LocateSourceRoot(cfg.Candidates)
	if err != nil {
		return err
	}
	types, err := typeMapForConfig(cfg)
	if err != nil {
		return err
	}

	out := outwriter.NewOutWriter()
	runner := NewRunner(func(ctx context.Context) (schema.MetadataReport, error) {
		return Classify(ctx, root, ClassifyOptions{
			Workers:  cfg.Workers,
			Excludes: cfg.Excludes,
			TypeMap:  types,
		})
	})
	runner.OnChange(func(prev, next schema.MetadataReport) {
		out.WriteChange(w, prev, next, cfg)
	})

	refresh := func() {
		report, err := runner.Refresh(ctx)
		if err != nil {
			if ctx.Err() == nil {
				contract.LogWarn("Scan failed", err)
			}
			return
		}
		if cfg.ShowSummary {
			out.WriteSummaryLine(w, report, cfg)
		}
	}

	// One pending trigger is enough: a scan always reads the whole tree
	triggers := make(chan struct{}, 1)
	trigger := func() {
		select {
		case triggers <- struct{}{}:
		default:
		}
	}

	if !shouldSuppressHeader(ctx) {
		contract.LogScanHeader(w, cfg, root.Path)
	}
	refresh()

	if cfg.AutoRefresh {
		fw, err := startFileWatcher(ctx, cfg, root.Path, trigger)
		if err != nil {
			return err
		}
		defer func() { _ = fw.Stop() }()
	}
	if stdin != nil {
		go readTriggers(stdin, trigger)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-triggers:
			refresh()
		}
	}
}

func startFileWatcher(ctx context.Context, cfg *contract.Config, sourceRoot string, trigger func()) (*watch.FileWatcher, error) {
	fw, err := watch.NewFileWatcher(cfg.Debounce)
	if err != nil {
		return nil, err
	}
	fw.SetSkipDir(IsExcludedDir)
	fw.AddFilter(watch.GlobFilter(sourceRoot, cfg.WatchGlob))
	if len(cfg.Excludes) > 0 {
		fw.AddFilter(watch.ExcludeFilter(sourceRoot, cfg.Excludes))
	}
	fw.AddHandler(func([]watch.ChangeEvent) error {
		trigger()
		return nil
	})

	if err := fw.AddRecursive(sourceRoot); err != nil {
		_ = fw.Stop()
		return nil, fmt.Errorf("failed to watch %s: %w", sourceRoot, err)
	}
	if err := fw.Start(ctx); err != nil {
		_ = fw.Stop()
		return nil, err
	}
	return fw, nil
}

// readTriggers fires once per input line until the reader is exhausted.
func readTriggers(r io.Reader, trigger func()) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		trigger()
	}
}
