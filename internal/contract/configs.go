package contract

import (
	"context"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/huangsam/metacount/schema"
)

// Default values for configuration.
const (
	DefaultDebounce  = 2 * time.Second
	DefaultWatchGlob = "**/*.{xml,cls,trigger,js,html}"
	MinDebounce      = 100 * time.Millisecond
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// Config holds the runtime configuration for a scan.
// This struct remains the "final, validated" config.
type Config struct {
	Candidates []string // Candidate project roots, in priority order
	Workers    int
	Excludes   []string
	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)

	ShowSummary bool
	AutoRefresh bool
	Debounce    time.Duration
	WatchGlob   string

	// TypeOverrides maps a file suffix token to a component type, on top of the built-in table.
	TypeOverrides map[string]string

	// ObjectChildOverrides maps an object sub-folder to a component type, on top of the built-in table.
	ObjectChildOverrides map[string]string

	PublishBackend   schema.DatabaseBackend
	PublishDBConnect string // Please use env var as this is plaintext

	UseEmojis bool // Enable emojis in output headers
	UseColors bool // Enable colored output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	Paths []string

	// --- Fields from rootCmd.PersistentFlags() ---
	Workers          int    `mapstructure:"workers"`
	Exclude          string `mapstructure:"exclude"`
	Output           string `mapstructure:"output"`
	OutputFile       string `mapstructure:"output-file"`
	Width            int    `mapstructure:"width"`
	PublishBackend   string `mapstructure:"publish-backend"`
	PublishDBConnect string `mapstructure:"publish-db-connect"`
	Emoji            string `mapstructure:"emoji"`
	Color            string `mapstructure:"color"`
	ShowSummary      bool   `mapstructure:"show-summary"`

	// --- Fields from watchCmd.Flags() ---
	AutoRefresh bool   `mapstructure:"auto-refresh"`
	Debounce    string `mapstructure:"debounce"`
	WatchGlob   string `mapstructure:"watch-glob"`

	// --- Classification tables from config file ---
	Types          map[string]string `mapstructure:"types"`
	ObjectChildren map[string]string `mapstructure:"object-children"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Candidates != nil {
		clone.Candidates = make([]string, len(c.Candidates))
		copy(clone.Candidates, c.Candidates)
	}
	if c.Excludes != nil {
		clone.Excludes = make([]string, len(c.Excludes))
		copy(clone.Excludes, c.Excludes)
	}
	if c.TypeOverrides != nil {
		clone.TypeOverrides = maps.Clone(c.TypeOverrides)
	}
	if c.ObjectChildOverrides != nil {
		clone.ObjectChildOverrides = maps.Clone(c.ObjectChildOverrides)
	}
	return &clone
}

// WithCandidates returns a copy of the Config that searches only the given paths.
func (c *Config) WithCandidates(paths ...string) *Config {
	clone := c.Clone()
	clone.Candidates = dedupePaths(paths)
	return clone
}

// ProcessAndValidate performs all complex parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(ctx context.Context, cfg *Config, client GitClient, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processWatchOptions(cfg, input); err != nil {
		return err
	}
	if err := processTypeTables(cfg, input); err != nil {
		return err
	}
	return resolveCandidates(ctx, cfg, client, input)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("publish-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("publish-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateSimpleInputs processes and validates all non-path related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.ShowSummary = input.ShowSummary

	emojis, err := ParseBoolString(input.Emoji)
	if err != nil {
		return fmt.Errorf("invalid --emoji value: %w", err)
	}
	cfg.UseEmojis = emojis

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. Workers Validation ---
	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	// --- 2. Output Validation ---
	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	// --- 3. Backend Validation ---
	cfg.PublishBackend = schema.DatabaseBackend(strings.ToLower(input.PublishBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.PublishBackend]; !ok {
		return fmt.Errorf("invalid publish backend '%s'. must be sqlite, mysql, postgresql, none", input.PublishBackend)
	}
	cfg.PublishDBConnect = input.PublishDBConnect
	if err := ValidateDatabaseConnectionString(cfg.PublishBackend, cfg.PublishDBConnect); err != nil {
		return err
	}

	// --- 4. Excludes Processing ---
	cfg.Excludes = nil
	if input.Exclude != "" {
		for p := range strings.SplitSeq(input.Exclude, ",") {
			trimmed := strings.TrimSpace(p)
			if trimmed == "" {
				continue
			}
			if err := ValidatePattern(trimmed); err != nil {
				return fmt.Errorf("invalid exclude pattern %q: %w", trimmed, err)
			}
			cfg.Excludes = append(cfg.Excludes, trimmed)
		}
	}

	return nil
}

// processWatchOptions handles the auto-refresh trigger settings.
func processWatchOptions(cfg *Config, input *ConfigRawInput) error {
	cfg.AutoRefresh = input.AutoRefresh

	cfg.Debounce = DefaultDebounce
	if s := strings.TrimSpace(input.Debounce); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid debounce '%s': %w", input.Debounce, err)
		}
		if d < MinDebounce {
			return fmt.Errorf("debounce must be at least %s (received %s)", MinDebounce, d)
		}
		cfg.Debounce = d
	}

	cfg.WatchGlob = DefaultWatchGlob
	if g := strings.TrimSpace(input.WatchGlob); g != "" {
		if err := ValidatePattern(g); err != nil {
			return fmt.Errorf("invalid watch-glob %q: %w", g, err)
		}
		cfg.WatchGlob = g
	}
	return nil
}

// processTypeTables copies the user's classification overrides after checking them.
func processTypeTables(cfg *Config, input *ConfigRawInput) error {
	check := func(table string, m map[string]string) (map[string]string, error) {
		if len(m) == 0 {
			return nil, nil
		}
		out := make(map[string]string, len(m))
		for k, v := range m {
			k, v = strings.TrimSpace(k), strings.TrimSpace(v)
			if k == "" || v == "" {
				return nil, fmt.Errorf("%s entries need a non-empty key and type (got %q: %q)", table, k, v)
			}
			out[k] = v
		}
		return out, nil
	}

	var err error
	if cfg.TypeOverrides, err = check("types", input.Types); err != nil {
		return err
	}
	if cfg.ObjectChildOverrides, err = check("object-children", input.ObjectChildren); err != nil {
		return err
	}
	return nil
}

// resolveCandidates builds the ordered list of directories the locator inspects.
// Without explicit paths it tries the working directory, then its Git repository root.
func resolveCandidates(ctx context.Context, cfg *Config, client GitClient, input *ConfigRawInput) error {
	if len(input.Paths) > 0 {
		for _, p := range input.Paths {
			if _, err := os.Stat(p); err != nil {
				return fmt.Errorf("cannot access path %q: %w", p, err)
			}
		}
		cfg.Candidates = dedupePaths(input.Paths)
		return nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("cannot determine working directory: %w", err)
	}
	candidates := []string{wd}
	if client != nil {
		if root, err := client.GetRepoRoot(ctx, wd); err == nil && root != "" {
			candidates = append(candidates, root)
		}
	}
	cfg.Candidates = dedupePaths(candidates)
	return nil
}

// dedupePaths makes every path absolute and drops repeats while keeping order.
func dedupePaths(paths []string) []string {
	seen := make(map[string]struct{}, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = filepath.Clean(p)
		}
		if _, ok := seen[abs]; ok {
			continue
		}
		seen[abs] = struct{}{}
		out = append(out, abs)
	}
	return out
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}
