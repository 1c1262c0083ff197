package dbmigrate

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// The delay between attempts to initialise the history tables, and the maximum
// number of attempts to make.
const (
	InitAttemptDelay    = time.Second
	InitMaximumAttempts = 5
)

// SQLHistoryStore is the HistoryStore kept in two tables of the target
// database.  The statements come from the Dictionary of the target's dialect.
//
// A store that was never initialised reads missing tables as an empty history
// and creates them inside the transaction of its first write, so a rolled back
// write leaves the target untouched.
type SQLHistoryStore struct {
	db          Database
	dictionary  Dictionary
	now         func() time.Time
	initialized bool
}

var _ HistoryStore = &SQLHistoryStore{}

// NewSQLHistoryStore creates a new SQLHistoryStore for the provided database
// using the provided Dictionary.
func NewSQLHistoryStore(db Database, dictionary Dictionary) *SQLHistoryStore {
	return &SQLHistoryStore{
		db:         db,
		dictionary: dictionary,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Init creates both history tables in a single transaction, retrying on
// failure.
func (s *SQLHistoryStore) Init(ctx context.Context) error {
	createMigrationsSQL := s.dictionary.CreateMigrationTableIfDoesNotExist()
	createScriptsSQL := s.dictionary.CreateScriptTableIfDoesNotExist()

	err := retryUnderTransaction(ctx, s.db, InitAttemptDelay, InitMaximumAttempts, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, createMigrationsSQL)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, createScriptsSQL)
		return err
	})
	if err != nil {
		return storeError("create history tables", err)
	}

	s.initialized = true
	return nil
}

// AppliedMigrations returns every applied classical migration keyed by
// identifier.
func (s *SQLHistoryStore) AppliedMigrations(ctx context.Context) (map[string]MigrationRecord, error) {
	exists, err := s.exists(ctx)
	if err != nil {
		return nil, err
	}
	if !exists {
		return map[string]MigrationRecord{}, nil
	}

	rows, err := s.db.QueryContext(ctx, s.dictionary.SelectAppliedMigrations())
	if err != nil {
		return nil, storeError("query applied migrations", err)
	}
	defer rows.Close()

	applied := make(map[string]MigrationRecord)
	for rows.Next() {
		var record MigrationRecord
		var checksum string
		err := rows.Scan(&record.Identifier, &record.Name, &checksum, &record.AppliedAt)
		if err != nil {
			return nil, storeError("scan applied migration", err)
		}

		record.Checksum = Fingerprint(checksum)
		applied[record.Identifier] = record
	}

	if err := rows.Err(); err != nil {
		return nil, storeError("iterate applied migrations", err)
	}

	return applied, nil
}

// RecordMigrationApplied inserts the record of migration as part of tx.
func (s *SQLHistoryStore) RecordMigrationApplied(ctx context.Context, tx Tx, migration MigrationArtifact) error {
	if err := s.createIn(ctx, tx); err != nil {
		return err
	}

	_, err := tx.ExecContext(ctx, s.dictionary.InsertAppliedMigration(),
		migration.Identifier, migration.Name, migration.Checksum().String(), s.now())
	if err != nil {
		return storeError("record applied migration", err)
	}

	return nil
}

// RemoveMigrationRecord deletes the record of identifier as part of tx.
func (s *SQLHistoryStore) RemoveMigrationRecord(ctx context.Context, tx Tx, identifier string) error {
	if err := s.createIn(ctx, tx); err != nil {
		return err
	}

	result, err := tx.ExecContext(ctx, s.dictionary.DeleteAppliedMigration(), identifier)
	if err != nil {
		return storeError("remove migration record", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return storeError("remove migration record", err)
	}

	if affected != 1 {
		return newError(ErrHistoryStoreFailure, identifier, "expected to remove 1 record, removed %v", affected)
	}

	return nil
}

// LatestScriptRecord returns the most recent deployment of the named script,
// or nil when it was never deployed.
func (s *SQLHistoryStore) LatestScriptRecord(ctx context.Context, name string) (*ScriptRecord, error) {
	exists, err := s.exists(ctx)
	if err != nil || !exists {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, s.dictionary.SelectLatestScript(), name)

	record, err := scanScriptRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storeError("query latest script record", err)
	}

	return &record, nil
}

// RecordScriptDeployed appends a deployment record for script as part of tx.
func (s *SQLHistoryStore) RecordScriptDeployed(ctx context.Context, tx Tx, script ScriptArtifact) error {
	if err := s.createIn(ctx, tx); err != nil {
		return err
	}

	_, err := tx.ExecContext(ctx, s.dictionary.InsertDeployedScript(),
		uuid.NewString(), script.Name, script.Fingerprint().String(), s.now())
	if err != nil {
		return storeError("record deployed script", err)
	}

	return nil
}

// ScriptHistory returns every deployment of the named script, oldest first.
func (s *SQLHistoryStore) ScriptHistory(ctx context.Context, name string) ([]ScriptRecord, error) {
	exists, err := s.exists(ctx)
	if err != nil || !exists {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, s.dictionary.SelectScriptHistory(), name)
	if err != nil {
		return nil, storeError("query script history", err)
	}
	defer rows.Close()

	var history []ScriptRecord
	for rows.Next() {
		record, err := scanScriptRecord(rows)
		if err != nil {
			return nil, storeError("scan script history", err)
		}

		history = append(history, record)
	}

	if err := rows.Err(); err != nil {
		return nil, storeError("iterate script history", err)
	}

	return history, nil
}

// exists reports whether both history tables are present.
func (s *SQLHistoryStore) exists(ctx context.Context) (bool, error) {
	if s.initialized {
		return true, nil
	}

	var count int
	row := s.db.QueryRowContext(ctx, s.dictionary.CountHistoryTables(), MigrationTableName, ScriptTableName)
	if err := row.Scan(&count); err != nil {
		return false, storeError("look up history tables", err)
	}

	if count < 2 {
		return false, nil
	}

	s.initialized = true
	return true, nil
}

// createIn creates the history tables as part of tx unless the store knows
// they exist.
func (s *SQLHistoryStore) createIn(ctx context.Context, tx Tx) error {
	if s.initialized {
		return nil
	}

	statements := []string{
		s.dictionary.CreateMigrationTableIfDoesNotExist(),
		s.dictionary.CreateScriptTableIfDoesNotExist(),
	}
	for _, statement := range statements {
		if _, err := tx.ExecContext(ctx, statement); err != nil {
			return storeError("create history tables", err)
		}
	}

	return nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanScriptRecord(row scanner) (ScriptRecord, error) {
	var record ScriptRecord
	var fingerprint string

	err := row.Scan(&record.ID, &record.Name, &fingerprint, &record.DeployedAt)
	if err != nil {
		return ScriptRecord{}, err
	}

	record.Fingerprint = Fingerprint(fingerprint)
	return record, nil
}
