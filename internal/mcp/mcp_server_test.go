package mcp_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/metacount/internal/contract"
	mcp_internal "github.com/huangsam/metacount/internal/mcp"
	"github.com/huangsam/metacount/internal/publish"
	"github.com/huangsam/metacount/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProject(t *testing.T) string {
	t.Helper()
	project := t.TempDir()
	files := []string{
		"sfdx-project.json",
		"force-app/main/default/classes/Foo.cls",
		"force-app/main/default/classes/Foo.cls-meta.xml",
		"force-app/main/default/lwc/card/card.js",
		"force-app/main/default/layouts/A.layout-meta.xml",
	}
	for _, f := range files {
		full := filepath.Join(project, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte("x"), 0o644))
	}
	return project
}

func callTool(t *testing.T, mgr contract.PublishManager, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	baseCfg := &contract.Config{
		Candidates: []string{t.TempDir()},
		Workers:    2,
		Output:     schema.JSONOut,
	}
	s := mcp_internal.NewMCPServer(baseCfg, mgr)
	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	}
	res, err := tool.Handler(context.Background(), req)
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	return res
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestCountMetadata(t *testing.T) {
	project := newProject(t)
	res := callTool(t, nil, "count_metadata", map[string]any{"project_path": project})
	require.False(t, res.IsError, resultText(t, res))

	var out schema.CountOutput
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &out))
	assert.Equal(t, 3, out.Total)
	assert.Equal(t, filepath.Join(project, "force-app", "main", "default"), out.SourceRoot)
}

func TestMetadataReport(t *testing.T) {
	res := callTool(t, nil, "metadata_report", map[string]any{"project_path": newProject(t)})
	require.False(t, res.IsError, resultText(t, res))

	var out schema.ReportOutput
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &out))
	assert.Equal(t, []schema.TypeCount{
		{Type: "ApexClass", Count: 1},
		{Type: "Layout", Count: 1},
		{Type: "LightningComponentBundle", Count: 1},
	}, out.Types)
	assert.Equal(t, 4, out.FilesScanned)
	assert.NotEmpty(t, out.ScannedAt)
}

func TestLocateProject(t *testing.T) {
	project := newProject(t)
	res := callTool(t, nil, "locate_project", map[string]any{"project_path": project})
	require.False(t, res.IsError, resultText(t, res))

	var root schema.SourceRoot
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &root))
	assert.Equal(t, project, root.ProjectRoot)
	assert.Equal(t, schema.ModernLayout, root.Layout)
}

func TestToolErrors(t *testing.T) {
	for _, name := range []string{"count_metadata", "metadata_report", "locate_project"} {
		t.Run(name, func(t *testing.T) {
			// The base config points at an empty directory
			res := callTool(t, nil, name, nil)
			assert.True(t, res.IsError, "The response should indicate an error state")
			assert.Contains(t, resultText(t, res), "no Salesforce project found")
		})
	}
}

func TestListMetadataTypes(t *testing.T) {
	res := callTool(t, nil, "list_metadata_types", map[string]any{"kind": "bundle"})
	require.False(t, res.IsError)

	var rules []schema.TypeRule
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &rules))
	assert.Equal(t, []schema.TypeRule{
		{Kind: schema.BundleRule, Key: "aura", Type: "AuraDefinitionBundle"},
		{Kind: schema.BundleRule, Key: "lwc", Type: "LightningComponentBundle"},
	}, rules)

	all := callTool(t, nil, "list_metadata_types", nil)
	require.NoError(t, json.Unmarshal([]byte(resultText(t, all)), &rules))
	assert.Greater(t, len(rules), 50)
}

func TestPublishedSummaries(t *testing.T) {
	t.Run("no store", func(t *testing.T) {
		res := callTool(t, nil, "published_summaries", nil)
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(t, res), "not initialized")
	})

	t.Run("store error", func(t *testing.T) {
		store := &publish.MockReportStore{}
		store.On("GetSummaries").Return(nil, errors.New("db locked"))
		mgr := &publish.MockPublishManager{}
		mgr.On("GetReportStore").Return(store)

		res := callTool(t, mgr, "published_summaries", nil)
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(t, res), "db locked")
	})

	t.Run("summaries", func(t *testing.T) {
		at := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)
		store := &publish.MockReportStore{}
		store.On("GetSummaries").Return([]schema.PublishedSummary{
			{SourceRoot: "/p/src", Total: 12, FilesScanned: 30, ScannedAt: at},
		}, nil)
		mgr := &publish.MockPublishManager{}
		mgr.On("GetReportStore").Return(store)

		res := callTool(t, mgr, "published_summaries", nil)
		require.False(t, res.IsError)
		assert.Contains(t, resultText(t, res), `"source_root": "/p/src"`)
		assert.Contains(t, resultText(t, res), `"total": 12`)
		store.AssertExpectations(t)
	})
}
