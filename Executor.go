package dbmigrate

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// Executor is the SQL execution backend.  Execute runs statement as part of tx
// and returns the backend's reason on failure.
type Executor interface {
	Execute(ctx context.Context, tx Tx, statement string) error
}

// TxExecutor executes statements directly on the transaction.
type TxExecutor struct{}

var _ Executor = &TxExecutor{}

// NewTxExecutor returns a new TxExecutor.
func NewTxExecutor() *TxExecutor {
	return &TxExecutor{}
}

// Execute runs statement on tx.
func (e *TxExecutor) Execute(ctx context.Context, tx Tx, statement string) error {
	_, err := tx.ExecContext(ctx, statement)
	return err
}

// PrintingExecutor writes statements to a writer instead of executing them.
// Paired with dry run it shows what a run would do.
type PrintingExecutor struct {
	w io.Writer
}

var _ Executor = &PrintingExecutor{}

// NewPrintingExecutor returns a new PrintingExecutor writing to w.
func NewPrintingExecutor(w io.Writer) *PrintingExecutor {
	return &PrintingExecutor{w: w}
}

// Execute prints statement terminated by a blank line.
func (e *PrintingExecutor) Execute(ctx context.Context, tx Tx, statement string) error {
	_, err := fmt.Fprintf(e.w, "%v\n\n", strings.TrimSpace(statement))
	return err
}
