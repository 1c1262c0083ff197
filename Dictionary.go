package dbmigrate

// Dictionary defines the methods that a SQL Dialect Dictionary must implement.
// Every method returns the statement text used by SQLHistoryStore for the
// dialect.
type Dictionary interface {
	Dialect() Dialect

	CreateMigrationTableIfDoesNotExist() string
	CreateScriptTableIfDoesNotExist() string
	CountHistoryTables() string

	SelectAppliedMigrations() string
	InsertAppliedMigration() string
	DeleteAppliedMigration() string

	SelectLatestScript() string
	SelectScriptHistory() string
	InsertDeployedScript() string
}

// The names of the history tables managed by SQLHistoryStore.
const (
	MigrationTableName = "dbmigrate_migrations"
	ScriptTableName    = "dbmigrate_scripts"
)
