package dbmigrate

import (
	"context"
	"time"
)

// MigrationRecord records a classical migration that has been applied.
type MigrationRecord struct {
	Identifier string
	Name       string
	Checksum   Fingerprint
	AppliedAt  time.Time
}

// ScriptRecord records one deployment of a script.
type ScriptRecord struct {
	ID          string
	Name        string
	Fingerprint Fingerprint
	DeployedAt  time.Time
}

// HistoryStore is the durable record of what has been applied and deployed.
// Writes take the transaction of the artifact they describe so that the
// artifact and its record commit or roll back together.  Reads are never
// cached: a committed write is visible to the next read.
type HistoryStore interface {
	// Init creates the history tables if they do not exist.
	Init(ctx context.Context) error

	// AppliedMigrations returns every applied classical migration keyed by
	// identifier.
	AppliedMigrations(ctx context.Context) (map[string]MigrationRecord, error)
	RecordMigrationApplied(ctx context.Context, tx Tx, migration MigrationArtifact) error
	RemoveMigrationRecord(ctx context.Context, tx Tx, identifier string) error

	// LatestScriptRecord returns the most recent deployment of the named
	// script, or nil when it was never deployed.
	LatestScriptRecord(ctx context.Context, name string) (*ScriptRecord, error)
	RecordScriptDeployed(ctx context.Context, tx Tx, script ScriptArtifact) error

	// ScriptHistory returns every deployment of the named script, oldest
	// first.
	ScriptHistory(ctx context.Context, name string) ([]ScriptRecord, error)
}
