package dbmigrate

import (
	"context"
	"database/sql"
	"time"
)

// underTransaction runs closure inside a transaction that is committed when
// commit is true and closure succeeds, and rolled back on every other path.
func underTransaction(ctx context.Context, db Database, commit bool, closure func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	didCommit := false
	defer func() {
		if !didCommit {
			tx.Rollback()
		}
	}()

	err = closure(tx)
	if err != nil {
		return err
	}

	if !commit {
		return nil
	}

	err = tx.Commit()
	if err != nil {
		return err
	}

	didCommit = true
	return nil
}

func retryUnderTransaction(ctx context.Context, db Database, delay time.Duration, totalAllowedAttempts uint, closure func(tx *sql.Tx) error) error {
	c := uint(0)

	for c < totalAllowedAttempts {
		err := underTransaction(ctx, db, true, closure)
		if err == nil {
			break
		}

		c++
		if c == totalAllowedAttempts {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	return nil
}
