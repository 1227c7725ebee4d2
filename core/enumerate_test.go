package core

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/huangsam/metacount/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rels(files []schema.CandidateFile) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Rel
	}
	return out
}

func TestEnumerate(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root,
		"package.xml",
		"classes/Foo.cls",
		"classes/Foo.cls-meta.xml",
		"lwc/card/card.js",
		"lwc/card/README.md",
		"lwc/node_modules/dep/index.js",
		"lwc/jsconfig.json",
		"lwc/.eslintrc.json",
		".sfdx/cache.xml",
		"node_modules/x/x.xml",
		"staticresources/lib/inner.xml",
		"layouts/A.layout-meta.xml",
		"LICENSE.txt",
	)

	files, err := Enumerate(context.Background(), root, 2, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"classes/Foo.cls",
		"classes/Foo.cls-meta.xml",
		"layouts/A.layout-meta.xml",
		"lwc/card/card.js",
		"staticresources/lib/inner.xml",
	}, rels(files))
	assert.Equal(t, filepath.Join(root, "classes", "Foo.cls"), files[0].Path)
}

func TestEnumerateUserExcludes(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root,
		"classes/Foo.cls",
		"staticresources/lib/inner.xml",
		"layouts/A.layout-meta.xml",
		"layouts/B.layout-meta.xml",
	)

	files, err := Enumerate(context.Background(), root, 4, []string{"staticresources", "layouts/B.layout-meta.xml"})
	require.NoError(t, err)
	assert.Equal(t, []string{"classes/Foo.cls", "layouts/A.layout-meta.xml"}, rels(files))
}

func TestEnumerateWorkerCounts(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "a/1.xml", "b/2.xml", "c/3.xml", "d/e/4.xml", "top.xml")

	for _, workers := range []int{0, 1, 3, 16} {
		files, err := Enumerate(context.Background(), root, workers, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"a/1.xml", "b/2.xml", "c/3.xml", "d/e/4.xml", "top.xml"}, rels(files), "workers=%d", workers)
	}
}

func TestEnumerateMissingRoot(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "gone")
	_, err := Enumerate(context.Background(), missing, 1, nil)

	var scanErr *ScanError
	require.True(t, errors.As(err, &scanErr))
	assert.Equal(t, missing, scanErr.Path)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestEnumerateUnreadableDir(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced here")
	}
	root := t.TempDir()
	writeTree(t, root, "classes/Foo.cls", "locked/inner/A.xml")
	locked := filepath.Join(root, "locked", "inner")
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	_, err := Enumerate(context.Background(), root, 2, nil)
	var scanErr *ScanError
	require.True(t, errors.As(err, &scanErr))
	assert.Equal(t, locked, scanErr.Path)
	assert.True(t, errors.Is(err, fs.ErrPermission))
}

func TestEnumerateSkipsSymlinkedDirs(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	writeTree(t, root, "classes/Foo.cls", "classes/Foo.cls-meta.xml")
	writeTree(t, outside, "shared/Bar.cls", "Baz.flow-meta.xml")

	links := map[string]string{
		"linked":                  filepath.Join(outside, "shared"),
		"classes/nested":          filepath.Join(outside, "shared"),
		"flows/Baz.flow-meta.xml": filepath.Join(outside, "Baz.flow-meta.xml"),
	}
	require.NoError(t, os.MkdirAll(filepath.Join(root, "flows"), 0o755))
	for link, target := range links {
		if err := os.Symlink(target, filepath.Join(root, filepath.FromSlash(link))); err != nil {
			t.Skipf("symlinks unavailable: %v", err)
		}
	}

	files, err := Enumerate(context.Background(), root, 2, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"classes/Foo.cls",
		"classes/Foo.cls-meta.xml",
		"flows/Baz.flow-meta.xml",
	}, rels(files))
}

func TestEnumerateCanceled(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "a/1.xml", "b/2.xml")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Enumerate(ctx, root, 1, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClassifyOnDisk(t *testing.T) {
	project := t.TempDir()
	writeTree(t, project,
		"sfdx-project.json",
		"force-app/main/default/package.xml",
		"force-app/main/default/classes/Foo.cls",
		"force-app/main/default/classes/Foo.cls-meta.xml",
		"force-app/main/default/lwc/card/card.js",
		"force-app/main/default/lwc/card/card.html",
		"force-app/main/default/lwc/card/card.js-meta.xml",
		"force-app/main/default/objects/Account/fields/MyField__c.field-meta.xml",
		"force-app/main/default/objects/Account/package.xml",
	)

	root, err := LocateSourceRoot([]string{project})
	require.NoError(t, err)

	report, err := Classify(context.Background(), root, ClassifyOptions{Workers: 2})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{
		"ApexClass":                1,
		"LightningComponentBundle": 1,
		"CustomField":              1,
	}, report.Counts, "package.xml contributes nothing")
	assert.Equal(t, 3, report.Total)
	assert.Equal(t, 6, report.FilesScanned)
	assert.Equal(t, root.Path, report.SourceRoot)
	assert.False(t, report.ScannedAt.IsZero())
}

func TestClassifyEmptyTree(t *testing.T) {
	project := t.TempDir()
	writeTree(t, project, "src/")

	report, err := Classify(context.Background(), schema.SourceRoot{Path: filepath.Join(project, "src")}, ClassifyOptions{})
	require.NoError(t, err)
	assert.Equal(t, 0, report.Total)
	assert.Empty(t, report.Counts)
	assert.NotNil(t, report.Counts)
}

func TestClassifyScanError(t *testing.T) {
	_, err := Classify(context.Background(), schema.SourceRoot{Path: filepath.Join(t.TempDir(), "nope")}, ClassifyOptions{Workers: 1})
	var scanErr *ScanError
	assert.True(t, errors.As(err, &scanErr))
	assert.Contains(t, err.Error(), "scan failed at")
}
