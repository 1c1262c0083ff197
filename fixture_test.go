package dbmigrate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ljpx/logging"
	"github.com/ljpx/test"
	_ "github.com/mattn/go-sqlite3"
)

type DatabaseFixture struct {
	db       *sql.DB
	store    *SQLHistoryStore
	executor *recordingExecutor
	logger   *logging.DummyLogger
}

func SetupDatabaseFixture(t *testing.T) *DatabaseFixture {
	databaseFileName := filepath.Join(t.TempDir(), "dbmigrate-test.db")
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%v", databaseFileName))
	test.That(t, err).IsNil()
	db.SetMaxOpenConns(1)

	store := NewSQLHistoryStore(db, NewSQLite3Dictionary())
	err = store.Init(context.Background())
	test.That(t, err).IsNil()

	return &DatabaseFixture{
		db:       db,
		store:    store,
		executor: &recordingExecutor{},
		logger:   logging.NewDummyLogger(),
	}
}

func TearDownDatabaseFixture(fixture *DatabaseFixture) {
	fixture.db.Close()
}

func (f *DatabaseFixture) count(t *testing.T, query string) int {
	var count int
	err := f.db.QueryRow(query).Scan(&count)
	test.That(t, err).IsNil()

	return count
}

// -----------------------------------------------------------------------------

var errInjected = errors.New("injected failure")

// recordingExecutor executes statements on the transaction and remembers them.
// Statements containing failOn fail without being executed.  onExecute runs
// before every statement.
type recordingExecutor struct {
	statements []string
	failOn     string
	onExecute  func()
}

var _ Executor = &recordingExecutor{}

func (e *recordingExecutor) Execute(ctx context.Context, tx Tx, statement string) error {
	if e.onExecute != nil {
		e.onExecute()
	}

	e.statements = append(e.statements, statement)
	if e.failOn != "" && strings.Contains(statement, e.failOn) {
		return errInjected
	}

	return NewTxExecutor().Execute(ctx, tx, statement)
}

func view(name string, dependencies string, selectSQL string) ScriptArtifact {
	body := fmt.Sprintf("DROP VIEW IF EXISTS %v;\nCREATE VIEW %v AS %v;\n", name, name, selectSQL)
	if dependencies != "" {
		body = fmt.Sprintf("-- depends: %v\n%v", dependencies, body)
	}

	script, err := ParseScript(RawArtifact{Name: name, Path: name + ".sql", Text: body})
	if err != nil {
		panic(err)
	}

	return script
}

func script(name string, dependencies ...string) ScriptArtifact {
	return ScriptArtifact{Name: name, Body: "SELECT 1;", Dependencies: dependencies}
}

func joined(names []string) string {
	return strings.Join(names, ",")
}
