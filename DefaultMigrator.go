package dbmigrate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/ljpx/logging"
)

// DefaultMigrator is the default migrator in the package.  It is not thread
// safe.
type DefaultMigrator struct {
	db       Database
	store    HistoryStore
	executor Executor
	logger   logging.Logger

	dryRun bool
}

var _ Migrator = &DefaultMigrator{}

// NewDefaultMigrator creates a new DefaultMigrator that executes migrations
// against db through executor and records them in store.
func NewDefaultMigrator(db Database, store HistoryStore, executor Executor, logger logging.Logger) *DefaultMigrator {
	return &DefaultMigrator{
		db:       db,
		store:    store,
		executor: executor,
		logger:   loggerOrDiscard(logger),
	}
}

// SetDryRun makes every following migration or rollback roll back its
// transaction instead of committing it.  Each migration runs in its own
// transaction, so with an executor that runs statements a migration cannot see
// what an earlier one created and a dry run of dependent migrations fails.
// Pair it with a PrintingExecutor to preview a whole run.
func (m *DefaultMigrator) SetDryRun(dryRun bool) {
	m.dryRun = dryRun
}

// Pending returns the migrations that have not been applied, in execution
// order.
func (m *DefaultMigrator) Pending(ctx context.Context, migrations []MigrationArtifact) ([]MigrationArtifact, error) {
	pending, _, err := m.partition(ctx, migrations)
	return pending, err
}

// Migrate applies every pending migration in ascending identifier order.  The
// first failure stops the run; migrations applied before it stay recorded and
// nothing is reverted.
func (m *DefaultMigrator) Migrate(ctx context.Context, migrations []MigrationArtifact) (*MigrateReport, error) {
	report := &MigrateReport{DryRun: m.dryRun}

	pending, drifted, err := m.partition(ctx, migrations)
	if err != nil {
		m.logger.Printf("Refused to apply migrations: %v\n", err)
		return report, err
	}

	for _, migration := range drifted {
		m.logger.Printf("Warning: applied migration '%v' no longer matches its recorded checksum.\n", migration.Name)
		report.Drifted = append(report.Drifted, migration.Name)
	}

	for _, migration := range pending {
		if err := ctx.Err(); err != nil {
			return report, fmt.Errorf("migration stopped before '%v': %w", migration.Identifier, err)
		}

		err := m.apply(ctx, migration)
		if err != nil {
			m.logger.Printf("Failed to apply migration '%v': %v\n", migration.Name, err)
			return report, err
		}

		m.logger.Printf("Applied migration '%v' successfully.\n", migration.Name)
		report.Applied = append(report.Applied, migration.Name)
	}

	return report, nil
}

// Rollback executes the rollback statement of the applied migration with the
// provided identifier and removes its record.  Unless force is set it refuses
// when the migration file changed since it was applied.
func (m *DefaultMigrator) Rollback(ctx context.Context, migrations []MigrationArtifact, identifier string, force bool) error {
	var migration *MigrationArtifact
	for i := range migrations {
		if migrations[i].Identifier == identifier {
			migration = &migrations[i]
			break
		}
	}

	if migration == nil {
		return newError(ErrUnknownMigration, identifier, "no migration file has this identifier")
	}

	if !migration.HasRollback() {
		return newError(ErrNoRollback, identifier, "add a '-- %v:' line to '%v'", RollbackAnnotation, migration.Name)
	}

	applied, err := m.store.AppliedMigrations(ctx)
	if err != nil {
		return attribute(err, identifier)
	}

	record, ok := applied[identifier]
	if !ok {
		return newError(ErrNotApplied, identifier, "nothing to roll back")
	}

	if !force && record.Checksum != migration.Checksum() {
		return newError(ErrChecksumMismatch, identifier, "recorded %v, file has %v", record.Checksum, migration.Checksum())
	}

	ctx = context.WithoutCancel(ctx)
	err = underTransaction(ctx, m.db, !m.dryRun, func(tx *sql.Tx) error {
		err := m.executor.Execute(ctx, tx, migration.Rollback)
		if err != nil {
			return wrapError(ErrExecutionFailure, identifier, err)
		}

		return m.store.RemoveMigrationRecord(ctx, tx, identifier)
	})
	if err != nil {
		m.logger.Printf("Failed to roll back migration '%v': %v\n", migration.Name, err)
		return attribute(err, identifier)
	}

	m.logger.Printf("Rolled back migration '%v' successfully.\n", migration.Name)
	return nil
}

// Status describes every migration of the artifact set and every record
// without a file, ordered by identifier.
func (m *DefaultMigrator) Status(ctx context.Context, migrations []MigrationArtifact) ([]MigrationStatus, error) {
	sorted, err := sortedMigrations(migrations)
	if err != nil {
		return nil, err
	}

	applied, err := m.store.AppliedMigrations(ctx)
	if err != nil {
		return nil, err
	}

	statuses := make([]MigrationStatus, 0, len(sorted))
	for _, migration := range sorted {
		status := MigrationStatus{Identifier: migration.Identifier, Name: migration.Name}
		if record, ok := applied[migration.Identifier]; ok {
			status.Record = &record
			status.Drifted = record.Checksum != migration.Checksum()
			delete(applied, migration.Identifier)
		}

		statuses = append(statuses, status)
	}

	for _, record := range applied {
		statuses = append(statuses, MigrationStatus{
			Identifier: record.Identifier,
			Name:       record.Name,
			Record:     &record,
			Missing:    true,
		})
	}

	sort.SliceStable(statuses, func(i, j int) bool {
		return CompareIdentifiers(statuses[i].Identifier, statuses[j].Identifier) < 0
	})

	return statuses, nil
}

// partition splits migrations into the pending ones and the applied ones whose
// checksum drifted, both in execution order.
func (m *DefaultMigrator) partition(ctx context.Context, migrations []MigrationArtifact) ([]MigrationArtifact, []MigrationArtifact, error) {
	sorted, err := sortedMigrations(migrations)
	if err != nil {
		return nil, nil, err
	}

	applied, err := m.store.AppliedMigrations(ctx)
	if err != nil {
		return nil, nil, err
	}

	var pending, drifted []MigrationArtifact
	for _, migration := range sorted {
		record, ok := applied[migration.Identifier]
		if !ok {
			pending = append(pending, migration)
			continue
		}

		if record.Checksum != migration.Checksum() {
			drifted = append(drifted, migration)
		}
	}

	return pending, drifted, nil
}

// apply runs a single migration and its history record in one transaction.
// Cancelling ctx does not interrupt it.
func (m *DefaultMigrator) apply(ctx context.Context, migration MigrationArtifact) error {
	ctx = context.WithoutCancel(ctx)

	err := underTransaction(ctx, m.db, !m.dryRun, func(tx *sql.Tx) error {
		err := m.executor.Execute(ctx, tx, migration.Body)
		if err != nil {
			return wrapError(ErrExecutionFailure, migration.Identifier, err)
		}

		return m.store.RecordMigrationApplied(ctx, tx, migration)
	})
	if err != nil {
		return attribute(err, migration.Identifier)
	}

	return nil
}

// sortedMigrations returns a sorted copy of migrations after checking that no
// identifier is used twice.
func sortedMigrations(migrations []MigrationArtifact) ([]MigrationArtifact, error) {
	var errs []error
	seen := make(map[string]string, len(migrations))
	for _, migration := range migrations {
		if other, exists := seen[migration.Identifier]; exists {
			errs = append(errs, newError(ErrDuplicateIdentifier, migration.Identifier, "'%v' and '%v'", other, migration.Name))
			continue
		}

		seen[migration.Identifier] = migration.Name
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	sorted := make([]MigrationArtifact, len(migrations))
	copy(sorted, migrations)
	SortMigrations(sorted)

	return sorted, nil
}
