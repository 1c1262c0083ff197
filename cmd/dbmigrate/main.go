package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/ljpx/dbmigrate"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

func main() {
	// An interrupt stops the run between artifacts, never mid-statement.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := newRootCommand(os.Stdout, os.Stderr).ExecuteContext(ctx)
	if err != nil {
		if artifact, ok := dbmigrate.FailedArtifact(err); ok {
			fmt.Fprintf(os.Stderr, "failed artifact: %v\n", artifact)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
