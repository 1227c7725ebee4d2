package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for publishing reports.
	DatabaseBackend string

	// Layout represents the source layout of a Salesforce project.
	Layout string

	// RuleKind names the table a type mapping comes from.
	RuleKind string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All publish backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All source layouts supported.
const (
	ModernLayout Layout = "modern" // force-app/main/default
	LegacyLayout Layout = "legacy" // src
)

// All type mapping kinds.
const (
	SuffixRule      RuleKind = "suffix"
	UnitRule        RuleKind = "unit"
	BundleRule      RuleKind = "bundle"
	ObjectChildRule RuleKind = "object-child"
)

// Well-known component type names produced outside the suffix table.
const (
	CustomObjectType = "CustomObject"
	ApexClassType    = "ApexClass"
	ApexTriggerType  = "ApexTrigger"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid publish backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}
