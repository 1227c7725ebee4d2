package core

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/bmatcuk/doublestar"
	"github.com/huangsam/metacount/internal/contract"
	"github.com/huangsam/metacount/schema"
	"golang.org/x/sync/errgroup"
)

// excludedDirs are never descended into.
var excludedDirs = map[string]struct{}{
	"node_modules":     {},
	"bower_components": {},
	".git":             {},
	".sfdx":            {},
	".sf":              {},
	".localdevserver":  {},
}

// excludedFiles are base-name globs for manifests and tooling files.
var excludedFiles = []string{
	"package.xml",
	"jsconfig.json",
	"tsconfig.json",
	".eslintrc*",
	".prettierrc*",
	".forceignore",
	".DS_Store",
	"README*",
	"*.md",
	"LICENSE*",
}

// IsExcludedDir reports whether a directory name is never scanned or watched.
func IsExcludedDir(name string) bool {
	_, ok := excludedDirs[name]
	return ok
}

func isExcludedFile(base string) bool {
	for _, pattern := range excludedFiles {
		if ok, _ := doublestar.Match(pattern, base); ok {
			return true
		}
	}
	return false
}

// Enumerate lists every non-excluded file under root. Each top-level folder is
// walked by its own goroutine, bounded by workers. The result is sorted by Rel.
func Enumerate(ctx context.Context, root string, workers int, excludes []string) ([]schema.CandidateFile, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, &ScanError{Path: root, Err: err}
	}
	if workers <= 0 {
		workers = 1
	}

	var (
		mu    sync.Mutex
		files []schema.CandidateFile
	)
	collect := func(batch []schema.CandidateFile) {
		mu.Lock()
		files = append(files, batch...)
		mu.Unlock()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	var topFiles []schema.CandidateFile
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() {
			if isSymlinkToDir(filepath.Join(root, name), entry) {
				continue
			}
			if f, ok := candidateFor(root, filepath.Join(root, name), excludes); ok {
				topFiles = append(topFiles, f)
			}
			continue
		}
		if _, skip := excludedDirs[name]; skip || contract.ShouldIgnore(name, excludes) {
			continue
		}
		dir := filepath.Join(root, name)
		g.Go(func() error {
			batch, err := walkDir(gctx, root, dir, excludes)
			if err != nil {
				return err
			}
			collect(batch)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	files = append(files, topFiles...)

	sort.Slice(files, func(i, j int) bool {
		return files[i].Rel < files[j].Rel
	})
	return files, nil
}

// walkDir collects the files below one top-level folder.
func walkDir(ctx context.Context, root, dir string, excludes []string) ([]schema.CandidateFile, error) {
	var batch []schema.CandidateFile
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return &ScanError{Path: path, Err: err}
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() {
			if path == dir {
				return nil
			}
			if _, skip := excludedDirs[d.Name()]; skip {
				return filepath.SkipDir
			}
			if rel, err := filepath.Rel(root, path); err == nil && contract.ShouldIgnore(contract.ToSlash(rel), excludes) {
				return filepath.SkipDir
			}
			return nil
		}
		if isSymlinkToDir(path, d) {
			return nil
		}
		if f, ok := candidateFor(root, path, excludes); ok {
			batch = append(batch, f)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return batch, nil
}

// isSymlinkToDir reports whether the entry is a symlink resolving to a directory.
// Such links are not followed.
func isSymlinkToDir(path string, d fs.DirEntry) bool {
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func candidateFor(root, path string, excludes []string) (schema.CandidateFile, bool) {
	if isExcludedFile(filepath.Base(path)) {
		return schema.CandidateFile{}, false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return schema.CandidateFile{}, false
	}
	rel = contract.ToSlash(rel)
	if contract.ShouldIgnore(rel, excludes) {
		return schema.CandidateFile{}, false
	}
	return schema.CandidateFile{Path: path, Rel: rel}, true
}
