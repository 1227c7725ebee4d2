package contract

import (
	"strings"
	"testing"
)

// FuzzShouldIgnore fuzzes the ShouldIgnore function with random paths and exclude patterns.
func FuzzShouldIgnore(f *testing.F) {
	seeds := []struct {
		path     string
		excludes string // comma-separated
	}{
		{"classes/Foo.cls", "*.bak"},
		{"staticresources/lib/app.js", "staticresources/"},
		{"lwc/foo/__tests__/foo.test.js", "**/__tests__/"},
		{"pages/Home.page", "**/*.{page,component}"},
		{"", ""},
		{"objects/Account/fields/A__c.field-meta.xml", "[unclosed"},
	}
	for _, seed := range seeds {
		f.Add(seed.path, seed.excludes)
	}

	f.Fuzz(func(_ *testing.T, path string, excludesStr string) {
		excludes := []string{}
		if excludesStr != "" {
			for ex := range strings.SplitSeq(excludesStr, ",") {
				if trimmed := strings.TrimSpace(ex); trimmed != "" {
					excludes = append(excludes, trimmed)
				}
			}
		}
		_ = ShouldIgnore(path, excludes)
	})
}

// FuzzToSlash checks that normalized paths never carry backslashes or a leading "./".
func FuzzToSlash(f *testing.F) {
	for _, seed := range []string{"./a/b", `a\b\c`, "", "..", "a//b/"} {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, rel string) {
		got := ToSlash(rel)
		if strings.Contains(got, `\`) {
			t.Fatalf("backslash survived in %q", got)
		}
		if strings.HasPrefix(got, "./") {
			t.Fatalf("leading ./ survived in %q", got)
		}
	})
}
