package contract

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar"
	"github.com/fatih/color"
)

// Color variables for console output.
var (
	TotalColor   = color.New(color.FgCyan, color.Bold) // TotalColor highlights grand totals.
	AddedColor   = color.New(color.FgGreen)            // AddedColor marks counts that grew.
	RemovedColor = color.New(color.FgRed)              // RemovedColor marks counts that shrank.
	MutedColor   = color.New(color.FgHiBlack)          // MutedColor is for secondary details.
)

// ColorTotal returns the total formatted for console output.
func ColorTotal(total int, useColors bool) string {
	s := fmt.Sprintf("%d", total)
	if !useColors {
		return s
	}
	return TotalColor.Sprint(s)
}

// ColorDelta formats a signed change, e.g. "+2" or "-1", colored by direction.
func ColorDelta(change int, useColors bool) string {
	s := fmt.Sprintf("%+d", change)
	if !useColors {
		return s
	}
	if change < 0 {
		return RemovedColor.Sprint(s)
	}
	return AddedColor.Sprint(s)
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path selects os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// ValidatePattern reports a syntax error in a doublestar glob.
// A bad segment only surfaces when matching reaches it, so each plain segment is checked too.
func ValidatePattern(pattern string) error {
	if _, err := doublestar.Match(pattern, "x"); err != nil {
		return err
	}
	for seg := range strings.SplitSeq(pattern, "/") {
		if seg == "" || seg == "**" || strings.ContainsAny(seg, "{}") {
			continue
		}
		if _, err := doublestar.Match(seg, "x"); err != nil {
			return err
		}
	}
	return nil
}

// ShouldIgnore returns true if the given forward-slash path matches any of the exclude patterns.
// Patterns are doublestar globs matched against the full relative path and the base name.
// Patterns ending with '/' exclude everything below a matching directory.
// A user can provide patterns like "staticresources/", "**/__tests__/**", "*.bak".
func ShouldIgnore(path string, excludes []string) bool {
	base := path
	if i := strings.LastIndex(path, "/"); i >= 0 {
		base = path[i+1:]
	}
	for _, ex := range excludes {
		ex = strings.TrimSpace(ex)
		if ex == "" {
			continue
		}

		if strings.HasSuffix(ex, "/") {
			dir := strings.TrimSuffix(ex, "/")
			if strings.HasPrefix(path, dir+"/") {
				return true
			}
			if ok, err := doublestar.Match(dir+"/**", path); err == nil && ok {
				return true
			}
			continue
		}

		if ok, err := doublestar.Match(ex, path); err == nil && ok {
			return true
		}
		if ok, err := doublestar.Match(ex, base); err == nil && ok {
			return true
		}
	}
	return false
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// LogScanHeader prints the banner shown before a scan.
func LogScanHeader(w io.Writer, cfg *Config, sourceRoot string) {
	if cfg.UseEmojis {
		_, _ = fmt.Fprintf(w, "🔎 Scanning metadata in %s (workers: %d)\n", sourceRoot, cfg.Workers)
		return
	}
	_, _ = fmt.Fprintf(w, "Scanning metadata in %s (workers: %d)\n", sourceRoot, cfg.Workers)
}

// GetPublishDBFilePath returns the path to the SQLite DB file for published reports.
func GetPublishDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".metacount_publish.db"
	}
	return filepath.Join(homeDir, ".metacount_publish.db")
}

// ToSlash normalizes a relative path to forward slashes and strips a leading "./".
func ToSlash(rel string) string {
	normalized := filepath.ToSlash(filepath.Clean(strings.ReplaceAll(rel, `\`, "/")))
	return strings.TrimPrefix(normalized, "./")
}

// TruncatePath truncates a file path to a maximum width with ellipsis prefix.
// Requires maxWidth > 3 to ensure there's space for both the "..." prefix and at least one character of content.
func TruncatePath(path string, maxWidth int) string {
	runes := []rune(path)
	if len(runes) > maxWidth && maxWidth > 3 {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return path
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
