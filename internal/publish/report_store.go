package publish

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	"github.com/huangsam/metacount/internal/contract"
	"github.com/huangsam/metacount/schema"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

// Table names for published reports.
const (
	typeCountsTable  = "metacount_type_counts"
	scanSummaryTable = "metacount_scan_summary"
)

// ReportStoreImpl implements the ReportStore interface.
type ReportStoreImpl struct {
	db         *sql.DB
	backend    schema.DatabaseBackend
	driverName string
}

var _ contract.ReportStore = &ReportStoreImpl{} // Compile-time check

// driverFor maps a backend to its database/sql driver name.
func driverFor(backend schema.DatabaseBackend) (string, error) {
	switch backend {
	case schema.SQLiteBackend:
		return "sqlite", nil
	case schema.MySQLBackend:
		return "mysql", nil
	case schema.PostgreSQLBackend:
		return "pgx", nil
	default:
		return "", fmt.Errorf("unsupported backend: %s", backend)
	}
}

// openDB opens and pings the database behind a backend.
func openDB(backend schema.DatabaseBackend, connStr string) (*sql.DB, string, error) {
	driverName, err := driverFor(backend)
	if err != nil {
		return nil, "", err
	}
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = GetPublishDBFilePath()
	}

	db, err := sql.Open(driverName, connStr)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open %s database: %w", backend, err)
	}
	if backend == schema.SQLiteBackend {
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		var connDetail string
		switch backend {
		case schema.MySQLBackend:
			connDetail = "Check that MySQL is running and the connection string is correct. Ensure user/password are valid."
		case schema.PostgreSQLBackend:
			connDetail = "Check that PostgreSQL is running and the connection string is correct. Ensure user/password are valid."
		default:
			connDetail = "Verify the database file location is writable."
		}
		return nil, "", fmt.Errorf("failed to connect to %s database: %w. %s", backend, err, connDetail)
	}
	return db, driverName, nil
}

// NewReportStore creates a new ReportStore with the specified backend.
func NewReportStore(backend schema.DatabaseBackend, connStr string) (contract.ReportStore, error) {
	if backend == schema.NoneBackend {
		// Return a no-op store for disabled publishing
		return &ReportStoreImpl{backend: backend}, nil
	}

	db, driverName, err := openDB(backend, connStr)
	if err != nil {
		return nil, err
	}

	if err := createPublishTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create publish tables: %w", err)
	}

	return &ReportStoreImpl{
		db:         db,
		backend:    backend,
		driverName: driverName,
	}, nil
}

// createPublishTables creates the publish tables when migrations have not been run.
func createPublishTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{typeCountsTable, getCreateTypeCountsQuery(backend)},
		{scanSummaryTable, getCreateScanSummaryQuery(backend)},
	}

	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}
	return nil
}

// getCreateTypeCountsQuery returns the CREATE TABLE query for metacount_type_counts.
func getCreateTypeCountsQuery(backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				source_root VARCHAR(512) NOT NULL,
				type_name VARCHAR(255) NOT NULL,
				component_count INT NOT NULL,
				scanned_at VARCHAR(64) NOT NULL,
				PRIMARY KEY (source_root, type_name)
			);
		`, typeCountsTable)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				source_root TEXT NOT NULL,
				type_name TEXT NOT NULL,
				component_count INT NOT NULL,
				scanned_at TEXT NOT NULL,
				PRIMARY KEY (source_root, type_name)
			);
		`, typeCountsTable)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				source_root TEXT NOT NULL,
				type_name TEXT NOT NULL,
				component_count INTEGER NOT NULL,
				scanned_at TEXT NOT NULL,
				PRIMARY KEY (source_root, type_name)
			);
		`, typeCountsTable)
	}
}

// getCreateScanSummaryQuery returns the CREATE TABLE query for metacount_scan_summary.
func getCreateScanSummaryQuery(backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				source_root VARCHAR(512) NOT NULL PRIMARY KEY,
				total INT NOT NULL,
				files_scanned INT NOT NULL,
				scanned_at VARCHAR(64) NOT NULL
			);
		`, scanSummaryTable)

	default: // SQLite and PostgreSQL
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				source_root TEXT NOT NULL PRIMARY KEY,
				total INTEGER NOT NULL,
				files_scanned INTEGER NOT NULL,
				scanned_at TEXT NOT NULL
			);
		`, scanSummaryTable)
	}
}

// placeholders returns n bind parameters for the backend, e.g. "$1, $2" or "?, ?".
func (rs *ReportStoreImpl) placeholders(n int) []string {
	out := make([]string, n)
	for i := range n {
		if rs.backend == schema.PostgreSQLBackend {
			out[i] = fmt.Sprintf("$%d", i+1)
		} else {
			out[i] = "?"
		}
	}
	return out
}

// Publish replaces all rows of the report's source root inside one transaction.
func (rs *ReportStoreImpl) Publish(report schema.MetadataReport) error {
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil
	}

	scannedAt := report.ScannedAt
	if scannedAt.IsZero() {
		scannedAt = time.Now()
	}
	stamp := formatTime(scannedAt)

	tx, err := rs.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	p := rs.placeholders(4)
	for _, table := range []string{typeCountsTable, scanSummaryTable} {
		query := fmt.Sprintf("DELETE FROM %s WHERE source_root = %s", table, p[0])
		if _, err := tx.Exec(query, report.SourceRoot); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	insertCount := fmt.Sprintf("INSERT INTO %s (source_root, type_name, component_count, scanned_at) VALUES (%s, %s, %s, %s)",
		typeCountsTable, p[0], p[1], p[2], p[3])
	for _, e := range report.Entries() {
		if _, err := tx.Exec(insertCount, report.SourceRoot, e.Type, e.Count, stamp); err != nil {
			return fmt.Errorf("failed to insert count for %s: %w", e.Type, err)
		}
	}

	insertSummary := fmt.Sprintf("INSERT INTO %s (source_root, total, files_scanned, scanned_at) VALUES (%s, %s, %s, %s)",
		scanSummaryTable, p[0], p[1], p[2], p[3])
	if _, err := tx.Exec(insertSummary, report.SourceRoot, report.Total, report.FilesScanned, stamp); err != nil {
		return fmt.Errorf("failed to insert summary: %w", err)
	}

	return tx.Commit()
}

// GetCounts returns the stored counters for a source root.
func (rs *ReportStoreImpl) GetCounts(sourceRoot string) (map[string]int, error) {
	counts := map[string]int{}
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return counts, nil
	}

	query := fmt.Sprintf("SELECT type_name, component_count FROM %s WHERE source_root = %s",
		typeCountsTable, rs.placeholders(1)[0])
	rows, err := rs.db.Query(query, sourceRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to query counts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var name string
		var n int
		if err := rows.Scan(&name, &n); err != nil {
			return nil, fmt.Errorf("failed to scan count row: %w", err)
		}
		counts[name] = n
	}
	return counts, rows.Err()
}

// GetSummaries returns one row per published source root, newest first.
func (rs *ReportStoreImpl) GetSummaries() ([]schema.PublishedSummary, error) {
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf("SELECT source_root, total, files_scanned, scanned_at FROM %s ORDER BY scanned_at DESC, source_root ASC", scanSummaryTable)
	rows, err := rs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query summaries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []schema.PublishedSummary
	for rows.Next() {
		var s schema.PublishedSummary
		var stamp string
		if err := rows.Scan(&s.SourceRoot, &s.Total, &s.FilesScanned, &stamp); err != nil {
			return nil, fmt.Errorf("failed to scan summary row: %w", err)
		}
		s.ScannedAt = parseTime(stamp)
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetAllCounts returns every stored type count.
func (rs *ReportStoreImpl) GetAllCounts() ([]schema.PublishedCount, error) {
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf("SELECT source_root, type_name, component_count, scanned_at FROM %s ORDER BY source_root ASC, type_name ASC", typeCountsTable)
	rows, err := rs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query counts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []schema.PublishedCount
	for rows.Next() {
		var c schema.PublishedCount
		var stamp string
		if err := rows.Scan(&c.SourceRoot, &c.TypeName, &c.Count, &stamp); err != nil {
			return nil, fmt.Errorf("failed to scan count row: %w", err)
		}
		c.ScannedAt = parseTime(stamp)
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetStatus returns status information about the store.
func (rs *ReportStoreImpl) GetStatus() (schema.PublishStatus, error) {
	status := schema.PublishStatus{Backend: string(rs.backend)}
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return status, nil
	}

	if err := rs.db.Ping(); err != nil {
		return status, nil
	}
	status.Connected = true

	if err := rs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", scanSummaryTable)).Scan(&status.TotalRoots); err != nil {
		return status, fmt.Errorf("failed to count source roots: %w", err)
	}
	if err := rs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", typeCountsTable)).Scan(&status.TotalRows); err != nil {
		return status, fmt.Errorf("failed to count rows: %w", err)
	}

	if status.TotalRoots > 0 {
		var stamp string
		query := fmt.Sprintf("SELECT MAX(scanned_at) FROM %s", scanSummaryTable)
		if err := rs.db.QueryRow(query).Scan(&stamp); err != nil {
			return status, fmt.Errorf("failed to read last publish time: %w", err)
		}
		status.LastPublishTime = parseTime(stamp)
	}
	return status, nil
}

// Close closes the database connection.
func (rs *ReportStoreImpl) Close() error {
	if rs.db != nil {
		return rs.db.Close()
	}
	return nil
}

// storedTimeFormat is RFC3339 with a fixed-width fraction so stored values sort as text.
const storedTimeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// formatTime stores timestamps as UTC strings on every backend.
func formatTime(t time.Time) string {
	return t.UTC().Format(storedTimeFormat)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
