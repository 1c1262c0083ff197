package dbmigrate

import (
	"context"
	"database/sql"
)

// Tx redefines the methods implemented on *sql.Tx that are used by this
// package.
type Tx interface {
	Commit() error
	Rollback() error

	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

var _ Tx = &sql.Tx{}
