package core

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/huangsam/metacount/schema"
)

// marker is a path whose presence directly under a directory flags a Salesforce project.
type marker struct {
	rel   string
	isDir bool
}

var projectMarkers = []marker{
	{rel: "sfdx-project.json"},
	{rel: filepath.Join("force-app", "main", "default"), isDir: true},
	{rel: filepath.Join("src", "package.xml")},
	{rel: ".forceignore"},
}

// sourceDirs are tried in order once a project root is chosen.
var sourceDirs = []struct {
	rel    string
	layout schema.Layout
}{
	{rel: filepath.Join("force-app", "main", "default"), layout: schema.ModernLayout},
	{rel: "src", layout: schema.LegacyLayout},
}

func exists(path string, wantDir bool) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	if wantDir {
		return info.IsDir()
	}
	return !info.IsDir()
}

// IsProjectRoot reports whether any project marker exists directly under dir.
func IsProjectRoot(dir string) bool {
	for _, m := range projectMarkers {
		if exists(filepath.Join(dir, m.rel), m.isDir) {
			return true
		}
	}
	return false
}

// LocateSourceRoot picks the first candidate that looks like a project and returns its source directory.
func LocateSourceRoot(candidates []string) (schema.SourceRoot, error) {
	for _, candidate := range candidates {
		root, err := filepath.Abs(candidate)
		if err != nil {
			root = filepath.Clean(candidate)
		}
		if !IsProjectRoot(root) {
			continue
		}
		for _, sd := range sourceDirs {
			path := filepath.Join(root, sd.rel)
			if exists(path, true) {
				return schema.SourceRoot{ProjectRoot: root, Path: path, Layout: sd.layout}, nil
			}
		}
		return schema.SourceRoot{}, fmt.Errorf("%w: %s", ErrSourceDirectoryNotFound, root)
	}
	if len(candidates) == 0 {
		return schema.SourceRoot{}, ErrProjectNotFound
	}
	return schema.SourceRoot{}, fmt.Errorf("%w (searched: %s)", ErrProjectNotFound, strings.Join(candidates, ", "))
}
