// Package core locates Salesforce projects and classifies their metadata files
// into per-type component counts.
package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/huangsam/metacount/internal/contract"
	"github.com/huangsam/metacount/internal/outwriter"
	"github.com/huangsam/metacount/schema"
)

// ExecutorFunc defines the function signature for executing different commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config) error

// typeMapForConfig merges the user's overrides into the embedded type table.
func typeMapForConfig(cfg *contract.Config) (*TypeMap, error) {
	types, err := DefaultTypeMap()
	if err != nil {
		return nil, err
	}
	return types.Merge(cfg.TypeOverrides, cfg.ObjectChildOverrides), nil
}

// ScanProject locates the source root among the configured candidates and classifies it.
func ScanProject(ctx context.Context, cfg *contract.Config) (schema.SourceRoot, schema.MetadataReport, error) {
	root, err := LocateSourceRoot(cfg.Candidates)
	if err != nil {
		return schema.SourceRoot{}, schema.MetadataReport{}, err
	}
	types, err := typeMapForConfig(cfg)
	if err != nil {
		return root, schema.MetadataReport{}, err
	}

	if cfg.Output == schema.TextOut && !shouldSuppressHeader(ctx) {
		contract.LogScanHeader(os.Stdout, cfg, root.Path)
	}

	report, err := Classify(ctx, root, ClassifyOptions{
		Workers:  cfg.Workers,
		Excludes: cfg.Excludes,
		TypeMap:  types,
	})
	if err != nil {
		return root, schema.MetadataReport{}, err
	}
	return root, report, nil
}

// ExecuteCount prints the total component count for the located project.
func ExecuteCount(ctx context.Context, cfg *contract.Config) error {
	_, report, err := ScanProject(WithSuppressHeader(ctx), cfg)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteCount(report, cfg)
}

// ExecuteReport prints the per-type breakdown for the located project.
func ExecuteReport(ctx context.Context, cfg *contract.Config) error {
	start := time.Now()
	_, report, err := ScanProject(ctx, cfg)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteReport(report, cfg, time.Since(start))
}

// ExecuteLocate prints the project root, layout and source root without scanning.
func ExecuteLocate(_ context.Context, cfg *contract.Config) error {
	root, err := LocateSourceRoot(cfg.Candidates)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteLocate(root, cfg)
}

// ExecuteTypes prints the classification tables in effect for this configuration.
func ExecuteTypes(_ context.Context, cfg *contract.Config) error {
	types, err := typeMapForConfig(cfg)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteTypes(types.Rules(), cfg)
}

// ExecutePublish scans the located project and replaces its rows in the publish store.
func ExecutePublish(ctx context.Context, cfg *contract.Config, mgr contract.PublishManager) error {
	store := mgr.GetReportStore()
	if store == nil {
		return errors.New("publish store is not initialized")
	}

	_, report, err := ScanProject(ctx, cfg)
	if err != nil {
		return err
	}
	if err := store.Publish(report); err != nil {
		return fmt.Errorf("failed to publish report: %w", err)
	}

	fmt.Printf("Published %d components in %d types for %s (backend: %s)\n",
		report.Total, len(report.Counts), report.SourceRoot, cfg.PublishBackend)
	return nil
}
