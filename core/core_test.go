package core

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/metacount/internal/contract"
	"github.com/huangsam/metacount/internal/publish"
	"github.com/huangsam/metacount/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// sampleProject builds a modern project with one class, one bundle and one field.
func sampleProject(t *testing.T) string {
	t.Helper()
	project := t.TempDir()
	writeTree(t, project,
		"sfdx-project.json",
		"force-app/main/default/classes/Foo.cls",
		"force-app/main/default/classes/Foo.cls-meta.xml",
		"force-app/main/default/lwc/card/card.js",
		"force-app/main/default/lwc/card/card.js-meta.xml",
		"force-app/main/default/objects/Account/fields/MyField__c.field-meta.xml",
		"force-app/main/default/widgets/G.widget-meta.xml",
	)
	return project
}

func testConfig(t *testing.T, project string, output schema.OutputMode) *contract.Config {
	t.Helper()
	return &contract.Config{
		Candidates: []string{project},
		Workers:    2,
		Output:     output,
		OutputFile: filepath.Join(t.TempDir(), "out"),
	}
}

func readOutput(t *testing.T, cfg *contract.Config) string {
	t.Helper()
	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	return string(data)
}

func TestScanProject(t *testing.T) {
	project := sampleProject(t)
	cfg := testConfig(t, project, schema.JSONOut)
	cfg.TypeOverrides = map[string]string{"widget": "Widget"}

	root, report, err := ScanProject(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, schema.ModernLayout, root.Layout)
	assert.Equal(t, map[string]int{
		"ApexClass":                1,
		"LightningComponentBundle": 1,
		"CustomField":              1,
		"Widget":                   1,
	}, report.Counts)
}

func TestScanProjectNotFound(t *testing.T) {
	cfg := testConfig(t, t.TempDir(), schema.JSONOut)
	_, _, err := ScanProject(context.Background(), cfg)
	assert.True(t, errors.Is(err, ErrProjectNotFound))
}

func TestExecuteCount(t *testing.T) {
	cfg := testConfig(t, sampleProject(t), schema.JSONOut)
	require.NoError(t, ExecuteCount(context.Background(), cfg))

	var out schema.CountOutput
	require.NoError(t, json.Unmarshal([]byte(readOutput(t, cfg)), &out))
	assert.Equal(t, 4, out.Total)
	assert.Contains(t, out.SourceRoot, filepath.Join("force-app", "main", "default"))
}

func TestExecuteReport(t *testing.T) {
	cfg := testConfig(t, sampleProject(t), schema.CSVOut)
	require.NoError(t, ExecuteReport(context.Background(), cfg))

	assert.Equal(t, "type,count\nApexClass,1\nCustomField,1\nLightningComponentBundle,1\nwidget,1\n", readOutput(t, cfg))
}

func TestExecuteReportScanError(t *testing.T) {
	cfg := testConfig(t, t.TempDir(), schema.TextOut)
	assert.Error(t, ExecuteReport(context.Background(), cfg))
}

func TestExecuteLocate(t *testing.T) {
	project := sampleProject(t)
	cfg := testConfig(t, project, schema.CSVOut)
	require.NoError(t, ExecuteLocate(context.Background(), cfg))

	expected := "project_root,source_root,layout\n" +
		project + "," + filepath.Join(project, "force-app", "main", "default") + ",modern\n"
	assert.Equal(t, expected, readOutput(t, cfg))

	missing := testConfig(t, t.TempDir(), schema.CSVOut)
	assert.True(t, errors.Is(ExecuteLocate(context.Background(), missing), ErrProjectNotFound))
}

func TestExecuteTypes(t *testing.T) {
	cfg := testConfig(t, "", schema.CSVOut)
	cfg.TypeOverrides = map[string]string{"widget": "Widget"}
	require.NoError(t, ExecuteTypes(context.Background(), cfg))

	out := readOutput(t, cfg)
	assert.Contains(t, out, "kind,key,type\n")
	assert.Contains(t, out, "bundle,lwc,LightningComponentBundle\n")
	assert.Contains(t, out, "object-child,fields,CustomField\n")
	assert.Contains(t, out, "suffix,widget,Widget\n")
	assert.Contains(t, out, "unit,cls,ApexClass\n")
}

func TestExecutePublish(t *testing.T) {
	project := sampleProject(t)

	t.Run("nil store", func(t *testing.T) {
		mgr := &publish.MockPublishManager{}
		mgr.On("GetReportStore").Return(nil)
		err := ExecutePublish(context.Background(), testConfig(t, project, schema.JSONOut), mgr)
		assert.ErrorContains(t, err, "not initialized")
	})

	t.Run("publishes the report", func(t *testing.T) {
		store := &publish.MockReportStore{}
		store.On("Publish", mock.MatchedBy(func(r schema.MetadataReport) bool {
			return r.Total == 4 && r.Counts["ApexClass"] == 1
		})).Return(nil)
		mgr := &publish.MockPublishManager{}
		mgr.On("GetReportStore").Return(store)

		require.NoError(t, ExecutePublish(context.Background(), testConfig(t, project, schema.JSONOut), mgr))
		store.AssertExpectations(t)
	})

	t.Run("store failure", func(t *testing.T) {
		store := &publish.MockReportStore{}
		store.On("Publish", mock.Anything).Return(errors.New("disk full"))
		mgr := &publish.MockPublishManager{}
		mgr.On("GetReportStore").Return(store)

		err := ExecutePublish(context.Background(), testConfig(t, project, schema.JSONOut), mgr)
		assert.ErrorContains(t, err, "failed to publish report: disk full")
	})

	t.Run("sqlite store", func(t *testing.T) {
		store, err := publish.NewReportStore(schema.SQLiteBackend, filepath.Join(t.TempDir(), "p.db"))
		require.NoError(t, err)
		defer func() { _ = store.Close() }()
		mgr := &publish.MockPublishManager{}
		mgr.On("GetReportStore").Return(store)

		require.NoError(t, ExecutePublish(context.Background(), testConfig(t, project, schema.JSONOut), mgr))
		summaries, err := store.GetSummaries()
		require.NoError(t, err)
		require.Len(t, summaries, 1)
		assert.Equal(t, 4, summaries[0].Total)
	})
}
