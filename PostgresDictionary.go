package dbmigrate

// PostgresDictionary is an implementation of Dictionary for use with Postgres.
type PostgresDictionary struct{}

var _ Dictionary = &PostgresDictionary{}

// NewPostgresDictionary returns a new PostgresDictionary.
func NewPostgresDictionary() *PostgresDictionary {
	return &PostgresDictionary{}
}

// Dialect returns Postgres.
func (d *PostgresDictionary) Dialect() Dialect {
	return PostgresDialect
}

// CreateMigrationTableIfDoesNotExist returns the Postgres version of this
// query.
func (d *PostgresDictionary) CreateMigrationTableIfDoesNotExist() string {
	return `
		CREATE TABLE IF NOT EXISTS ` + MigrationTableName + ` (
			identifier VARCHAR(255) NOT NULL PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			checksum VARCHAR(64) NOT NULL,
			applied_at TIMESTAMPTZ NOT NULL
		);
	`
}

// CreateScriptTableIfDoesNotExist returns the Postgres version of this query.
func (d *PostgresDictionary) CreateScriptTableIfDoesNotExist() string {
	return `
		CREATE TABLE IF NOT EXISTS ` + ScriptTableName + ` (
			seq BIGSERIAL PRIMARY KEY,
			id UUID NOT NULL UNIQUE,
			name VARCHAR(255) NOT NULL,
			fingerprint VARCHAR(64) NOT NULL,
			deployed_at TIMESTAMPTZ NOT NULL
		);
	`
}

// CountHistoryTables returns the Postgres version of this query.  It takes the
// two table names as arguments.
func (d *PostgresDictionary) CountHistoryTables() string {
	return `
		SELECT COUNT(*) FROM information_schema.tables
		WHERE table_schema = current_schema() AND table_name IN ($1, $2);
	`
}

// SelectAppliedMigrations returns the Postgres version of this query.
func (d *PostgresDictionary) SelectAppliedMigrations() string {
	return `
		SELECT identifier, name, checksum, applied_at FROM ` + MigrationTableName + `;
	`
}

// InsertAppliedMigration returns the Postgres version of this query.
func (d *PostgresDictionary) InsertAppliedMigration() string {
	return `
		INSERT INTO ` + MigrationTableName + ` (identifier, name, checksum, applied_at)
		VALUES ($1, $2, $3, $4);
	`
}

// DeleteAppliedMigration returns the Postgres version of this query.
func (d *PostgresDictionary) DeleteAppliedMigration() string {
	return `
		DELETE FROM ` + MigrationTableName + ` WHERE identifier = $1;
	`
}

// SelectLatestScript returns the Postgres version of this query.
func (d *PostgresDictionary) SelectLatestScript() string {
	return `
		SELECT id, name, fingerprint, deployed_at FROM ` + ScriptTableName + `
		WHERE name = $1 ORDER BY seq DESC LIMIT 1;
	`
}

// SelectScriptHistory returns the Postgres version of this query.
func (d *PostgresDictionary) SelectScriptHistory() string {
	return `
		SELECT id, name, fingerprint, deployed_at FROM ` + ScriptTableName + `
		WHERE name = $1 ORDER BY seq ASC;
	`
}

// InsertDeployedScript returns the Postgres version of this query.
func (d *PostgresDictionary) InsertDeployedScript() string {
	return `
		INSERT INTO ` + ScriptTableName + ` (id, name, fingerprint, deployed_at)
		VALUES ($1, $2, $3, $4);
	`
}
