package dbmigrate

import "fmt"

// Dialect is a simple string alias type that represents different SQL dialects
// e.g. "postgres" or "sqlite3".
type Dialect string

// The dbmigrate package provides support for two dialects by default:
// "postgres" and "sqlite3".
const (
	PostgresDialect Dialect = "postgres"
	SQLite3Dialect  Dialect = "sqlite3"
)

// DriverName returns the database/sql driver name registered for the dialect.
// The drivers themselves are imported by the binary, not by this package.
func (d Dialect) DriverName() string {
	switch d {
	case PostgresDialect:
		return "pgx"
	default:
		return string(d)
	}
}

// DictionaryFor returns the Dictionary for the provided dialect.
func DictionaryFor(dialect Dialect) (Dictionary, error) {
	switch dialect {
	case PostgresDialect:
		return NewPostgresDictionary(), nil
	case SQLite3Dialect:
		return NewSQLite3Dictionary(), nil
	}

	return nil, fmt.Errorf("unsupported dialect %q", dialect)
}
