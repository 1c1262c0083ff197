package dbmigrate

import (
	"context"

	"github.com/ljpx/logging"
)

// Migrator defines the methods that any type capable of applying classical
// migrations must implement.  Pending returns the migrations not yet applied,
// in execution order.  Migrate applies them, each exactly once.  Rollback
// reverses one applied migration using its rollback statement.  Status
// reports every migration known to either the artifact set or the history.
type Migrator interface {
	Pending(ctx context.Context, migrations []MigrationArtifact) ([]MigrationArtifact, error)
	Migrate(ctx context.Context, migrations []MigrationArtifact) (*MigrateReport, error)
	Rollback(ctx context.Context, migrations []MigrationArtifact, identifier string, force bool) error
	Status(ctx context.Context, migrations []MigrationArtifact) ([]MigrationStatus, error)
}

// MigrateReport lists the names of the migrations applied by a run, and of
// applied migrations whose file no longer matches the recorded checksum.
type MigrateReport struct {
	Applied []string
	Drifted []string
	DryRun  bool
}

// MigrationStatus describes one migration.  Record is nil while the migration
// is pending.  Missing marks a record whose file is no longer present and
// Drifted a file that changed after it was applied.
type MigrationStatus struct {
	Identifier string
	Name       string
	Record     *MigrationRecord
	Missing    bool
	Drifted    bool
}

// NewMigrator returns a new migrator.  It is an alias of NewDefaultMigrator.
func NewMigrator(db Database, store HistoryStore, executor Executor, logger logging.Logger) Migrator {
	return NewDefaultMigrator(db, store, executor, logger)
}
