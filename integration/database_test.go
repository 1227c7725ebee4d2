//go:build database

package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestPublishWithMySQL tests the publish commands with a MySQL backend.
func TestPublishWithMySQL(t *testing.T) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "metacount",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(60 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/metacount?parseTime=true", host, port.Port())
	runPublishLifecycle(t, "mysql", connStr)
}

// TestPublishWithPostgres tests the publish commands with a PostgreSQL backend.
func TestPublishWithPostgres(t *testing.T) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()

	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres sslmode=disable", host, port.Port())
	runPublishLifecycle(t, "postgresql", connStr)
}

// runPublishLifecycle migrates, publishes twice and clears a server-backed store.
func runPublishLifecycle(t *testing.T, backend, connStr string) {
	t.Helper()
	project := sampleProject(t)
	env := []string{
		"METACOUNT_PUBLISH_BACKEND=" + backend,
		"METACOUNT_PUBLISH_DB_CONNECT=" + connStr,
	}

	out, err := runMetacount(t, project, env, "publish", "migrate")
	require.NoError(t, err)
	assert.NotEmpty(t, out)

	out, err = runMetacount(t, project, env, "publish")
	require.NoError(t, err)
	assert.Contains(t, out, "Published 5 components in 5 types")

	// Publishing again replaces the rows of the same source root
	_, err = runMetacount(t, project, env, "publish")
	require.NoError(t, err)

	out, err = runMetacount(t, project, env, "publish", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Connected: true")
	assert.Contains(t, out, "Source Roots: 1")
	assert.Contains(t, out, "Type Rows: 5")

	_, err = runMetacount(t, project, env, "publish", "clear")
	require.NoError(t, err)
}
