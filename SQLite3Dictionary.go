package dbmigrate

// SQLite3Dictionary is an implementation of Dictionary for use with SQLite3.
type SQLite3Dictionary struct{}

var _ Dictionary = &SQLite3Dictionary{}

// NewSQLite3Dictionary returns a new SQLite3Dictionary.
func NewSQLite3Dictionary() *SQLite3Dictionary {
	return &SQLite3Dictionary{}
}

// Dialect returns SQLite3.
func (d *SQLite3Dictionary) Dialect() Dialect {
	return SQLite3Dialect
}

// CreateMigrationTableIfDoesNotExist returns the SQLite3 version of this query.
func (d *SQLite3Dictionary) CreateMigrationTableIfDoesNotExist() string {
	return `
		CREATE TABLE IF NOT EXISTS ` + MigrationTableName + ` (
			identifier TEXT NOT NULL PRIMARY KEY,
			name TEXT NOT NULL,
			checksum TEXT NOT NULL,
			applied_at TIMESTAMP NOT NULL
		);
	`
}

// CreateScriptTableIfDoesNotExist returns the SQLite3 version of this query.
func (d *SQLite3Dictionary) CreateScriptTableIfDoesNotExist() string {
	return `
		CREATE TABLE IF NOT EXISTS ` + ScriptTableName + ` (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			fingerprint TEXT NOT NULL,
			deployed_at TIMESTAMP NOT NULL
		);
	`
}

// CountHistoryTables returns the SQLite3 version of this query.  It takes the
// two table names as arguments.
func (d *SQLite3Dictionary) CountHistoryTables() string {
	return `
		SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN (?, ?);
	`
}

// SelectAppliedMigrations returns the SQLite3 version of this query.
func (d *SQLite3Dictionary) SelectAppliedMigrations() string {
	return `
		SELECT identifier, name, checksum, applied_at FROM ` + MigrationTableName + `;
	`
}

// InsertAppliedMigration returns the SQLite3 version of this query.
func (d *SQLite3Dictionary) InsertAppliedMigration() string {
	return `
		INSERT INTO ` + MigrationTableName + ` (identifier, name, checksum, applied_at)
		VALUES (?, ?, ?, ?);
	`
}

// DeleteAppliedMigration returns the SQLite3 version of this query.
func (d *SQLite3Dictionary) DeleteAppliedMigration() string {
	return `
		DELETE FROM ` + MigrationTableName + ` WHERE identifier = ?;
	`
}

// SelectLatestScript returns the SQLite3 version of this query.
func (d *SQLite3Dictionary) SelectLatestScript() string {
	return `
		SELECT id, name, fingerprint, deployed_at FROM ` + ScriptTableName + `
		WHERE name = ? ORDER BY seq DESC LIMIT 1;
	`
}

// SelectScriptHistory returns the SQLite3 version of this query.
func (d *SQLite3Dictionary) SelectScriptHistory() string {
	return `
		SELECT id, name, fingerprint, deployed_at FROM ` + ScriptTableName + `
		WHERE name = ? ORDER BY seq ASC;
	`
}

// InsertDeployedScript returns the SQLite3 version of this query.
func (d *SQLite3Dictionary) InsertDeployedScript() string {
	return `
		INSERT INTO ` + ScriptTableName + ` (id, name, fingerprint, deployed_at)
		VALUES (?, ?, ?, ?);
	`
}
