package contract

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/metacount/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// baseInput returns a raw input that passes validation.
func baseInput() *ConfigRawInput {
	return &ConfigRawInput{
		Workers:        4,
		Output:         "text",
		PublishBackend: "sqlite",
		Emoji:          "no",
		Color:          "no",
		ShowSummary:    true,
		AutoRefresh:    true,
	}
}

func TestProcessAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*ConfigRawInput)
		expectError string
	}{
		{name: "valid minimal config", mutate: func(*ConfigRawInput) {}},
		{name: "zero workers", mutate: func(in *ConfigRawInput) { in.Workers = 0 }, expectError: "workers must be greater than 0"},
		{name: "invalid output", mutate: func(in *ConfigRawInput) { in.Output = "xml" }, expectError: "invalid output format"},
		{name: "parquet without file", mutate: func(in *ConfigRawInput) { in.Output = "parquet" }, expectError: "parquet output requires"},
		{name: "parquet with file", mutate: func(in *ConfigRawInput) { in.Output = "parquet"; in.OutputFile = "out.parquet" }},
		{name: "invalid backend", mutate: func(in *ConfigRawInput) { in.PublishBackend = "redis" }, expectError: "invalid publish backend"},
		{name: "mysql without connect", mutate: func(in *ConfigRawInput) { in.PublishBackend = "mysql" }, expectError: "publish-db-connect is required"},
		{name: "invalid emoji", mutate: func(in *ConfigRawInput) { in.Emoji = "maybe" }, expectError: "invalid --emoji value"},
		{name: "invalid color", mutate: func(in *ConfigRawInput) { in.Color = "maybe" }, expectError: "invalid --color value"},
		{name: "invalid debounce", mutate: func(in *ConfigRawInput) { in.Debounce = "soon" }, expectError: "invalid debounce"},
		{name: "debounce too small", mutate: func(in *ConfigRawInput) { in.Debounce = "1ms" }, expectError: "debounce must be at least"},
		{name: "empty type override", mutate: func(in *ConfigRawInput) { in.Types = map[string]string{"foo": ""} }, expectError: "types entries need"},
		{name: "malformed exclude", mutate: func(in *ConfigRawInput) { in.Exclude = "classes/**, [abc" }, expectError: "invalid exclude pattern"},
		{name: "malformed nested exclude", mutate: func(in *ConfigRawInput) { in.Exclude = "lwc/[abc/x" }, expectError: "invalid exclude pattern"},
		{name: "valid excludes", mutate: func(in *ConfigRawInput) { in.Exclude = "staticresources/, **/__tests__, *.{js,html}" }},
		{name: "malformed watch glob", mutate: func(in *ConfigRawInput) { in.WatchGlob = "**/[abc" }, expectError: "invalid watch-glob"},
		{name: "missing path", mutate: func(in *ConfigRawInput) { in.Paths = []string{"/definitely/not/here"} }, expectError: "cannot access path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := baseInput()
			tt.mutate(input)

			client := new(MockGitClient)
			client.On("GetRepoRoot", mock.Anything, mock.Anything).Return("", assert.AnError).Maybe()

			cfg := &Config{}
			err := ProcessAndValidate(context.Background(), cfg, client, input)
			if tt.expectError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectError)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestProcessAndValidateDefaults(t *testing.T) {
	client := new(MockGitClient)
	client.On("GetRepoRoot", mock.Anything, mock.Anything).Return("", assert.AnError)

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(context.Background(), cfg, client, baseInput()))

	assert.Equal(t, DefaultDebounce, cfg.Debounce)
	assert.Equal(t, DefaultWatchGlob, cfg.WatchGlob)
	assert.Equal(t, schema.TextOut, cfg.Output)
	assert.Equal(t, schema.SQLiteBackend, cfg.PublishBackend)
	assert.True(t, cfg.ShowSummary)
	assert.True(t, cfg.AutoRefresh)
	assert.Nil(t, cfg.TypeOverrides)
}

func TestProcessAndValidateWatchAndTables(t *testing.T) {
	input := baseInput()
	input.Debounce = "500ms"
	input.WatchGlob = "**/*.xml"
	input.Exclude = " staticresources/ , *.bak ,,"
	input.Types = map[string]string{" duplicateRule ": " DuplicateRule "}
	input.ObjectChildren = map[string]string{"sharingReasons": "SharingReason"}

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(context.Background(), cfg, nil, input))

	assert.Equal(t, 500*time.Millisecond, cfg.Debounce)
	assert.Equal(t, "**/*.xml", cfg.WatchGlob)
	assert.Equal(t, []string{"staticresources/", "*.bak"}, cfg.Excludes)
	assert.Equal(t, map[string]string{"duplicateRule": "DuplicateRule"}, cfg.TypeOverrides)
	assert.Equal(t, map[string]string{"sharingReasons": "SharingReason"}, cfg.ObjectChildOverrides)
}

func TestResolveCandidates(t *testing.T) {
	t.Run("explicit paths keep order and drop duplicates", func(t *testing.T) {
		a, b := t.TempDir(), t.TempDir()
		input := baseInput()
		input.Paths = []string{b, a, b}

		cfg := &Config{}
		require.NoError(t, ProcessAndValidate(context.Background(), cfg, nil, input))
		assert.Equal(t, []string{b, a}, cfg.Candidates)
	})

	t.Run("working directory then git root", func(t *testing.T) {
		wd, err := os.Getwd()
		require.NoError(t, err)

		client := new(MockGitClient)
		client.On("GetRepoRoot", mock.Anything, wd).Return("/mock/repo/root", nil).Once()

		cfg := &Config{}
		require.NoError(t, ProcessAndValidate(context.Background(), cfg, client, baseInput()))
		assert.Equal(t, []string{wd, filepath.Clean("/mock/repo/root")}, cfg.Candidates)
		client.AssertExpectations(t)
	})

	t.Run("git root equal to working directory is not repeated", func(t *testing.T) {
		wd, err := os.Getwd()
		require.NoError(t, err)

		client := new(MockGitClient)
		client.On("GetRepoRoot", mock.Anything, wd).Return(wd, nil).Once()

		cfg := &Config{}
		require.NoError(t, ProcessAndValidate(context.Background(), cfg, client, baseInput()))
		assert.Equal(t, []string{wd}, cfg.Candidates)
	})
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		name    string
		backend schema.DatabaseBackend
		conn    string
		wantErr bool
	}{
		{"sqlite empty", schema.SQLiteBackend, "", false},
		{"none empty", schema.NoneBackend, "", false},
		{"mysql valid", schema.MySQLBackend, "root:pw@tcp(localhost:3306)/metacount", false},
		{"mysql missing tcp", schema.MySQLBackend, "root:pw@localhost/metacount", true},
		{"postgres valid", schema.PostgreSQLBackend, "host=localhost dbname=metacount", false},
		{"postgres missing dbname", schema.PostgreSQLBackend, "host=localhost", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatabaseConnectionString(tt.backend, tt.conn)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfigClone(t *testing.T) {
	cfg := &Config{
		Candidates:    []string{"/a"},
		Excludes:      []string{"*.bak"},
		TypeOverrides: map[string]string{"x": "X"},
	}
	clone := cfg.Clone()
	clone.Candidates[0] = "/b"
	clone.Excludes[0] = "*.tmp"
	clone.TypeOverrides["x"] = "Y"

	assert.Equal(t, "/a", cfg.Candidates[0])
	assert.Equal(t, "*.bak", cfg.Excludes[0])
	assert.Equal(t, "X", cfg.TypeOverrides["x"])

	scoped := cfg.WithCandidates("/p", "/p")
	assert.Equal(t, []string{filepath.Clean("/p")}, scoped.Candidates)
	assert.Equal(t, []string{"/a"}, cfg.Candidates)
}

func TestProcessProfilingConfig(t *testing.T) {
	profile := &ProfileConfig{}
	require.NoError(t, ProcessProfilingConfig(profile, ""))
	assert.False(t, profile.Enabled)

	require.NoError(t, ProcessProfilingConfig(profile, "metacount"))
	assert.True(t, profile.Enabled)
	assert.Equal(t, "metacount", profile.Prefix)
}
