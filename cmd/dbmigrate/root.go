package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/ljpx/dbmigrate"
	"github.com/ljpx/logging"
	"github.com/spf13/cobra"
)

type options struct {
	configPath string
	dialect    string
	dsn        string
	migrations string
	scripts    string
	dryRun     bool
	quiet      bool
}

// session is everything a command needs for one run against the target.
type session struct {
	config   dbmigrate.Config
	db       *sql.DB
	store    *dbmigrate.SQLHistoryStore
	executor dbmigrate.Executor
	logger   logging.Logger
	stdout   io.Writer
	dryRun   bool
}

func newRootCommand(stdout io.Writer, stderr io.Writer) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "dbmigrate",
		Short:         "Apply classical migrations and deploy re-appliable scripts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", dbmigrate.DefaultConfigPath, "configuration file")
	flags.StringVar(&opts.dialect, "dialect", "", "target dialect (sqlite3 or postgres)")
	flags.StringVar(&opts.dsn, "dsn", "", "target data source name")
	flags.StringVar(&opts.migrations, "migrations", "", "directory of classical migrations")
	flags.StringVar(&opts.scripts, "scripts", "", "directory of scripts")
	flags.BoolVar(&opts.dryRun, "dry-run", false, "print statements and roll back instead of committing")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "do not log progress")

	open := func(cmd *cobra.Command) (*session, error) {
		return openSession(cmd.Context(), opts, stdout, stderr)
	}

	root.AddCommand(
		newMigrateCommand(open),
		newDeployCommand(open),
		newRollbackCommand(open),
		newStatusCommand(open),
		newPlanCommand(open),
	)

	return root
}

func (o *options) config() (dbmigrate.Config, error) {
	config, err := dbmigrate.LoadConfig(o.configPath)
	if err != nil {
		return dbmigrate.Config{}, err
	}

	if o.dialect != "" {
		config.Dialect = dbmigrate.Dialect(o.dialect)
	}
	if o.dsn != "" {
		config.DSN = o.dsn
	}
	if o.migrations != "" {
		config.Migrations = o.migrations
	}
	if o.scripts != "" {
		config.Scripts = o.scripts
	}

	return config, config.Validate()
}

func openSession(ctx context.Context, opts *options, stdout io.Writer, stderr io.Writer) (*session, error) {
	config, err := opts.config()
	if err != nil {
		return nil, err
	}

	dictionary, err := dbmigrate.DictionaryFor(config.Dialect)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(config.Dialect.DriverName(), config.DSN)
	if err != nil {
		return nil, fmt.Errorf("open %v database: %w", config.Dialect, err)
	}

	// A dry run leaves the history tables to the rolled back transactions.
	store := dbmigrate.NewSQLHistoryStore(db, dictionary)
	if !opts.dryRun {
		if err := store.Init(ctx); err != nil {
			db.Close()
			return nil, err
		}
	}

	var logger logging.Logger = log.New(stderr, "", log.LstdFlags)
	if opts.quiet {
		logger = log.New(io.Discard, "", 0)
	}

	var executor dbmigrate.Executor = dbmigrate.NewTxExecutor()
	if opts.dryRun {
		executor = dbmigrate.NewPrintingExecutor(stdout)
	}

	return &session{
		config:   config,
		db:       db,
		store:    store,
		executor: executor,
		logger:   logger,
		stdout:   stdout,
		dryRun:   opts.dryRun,
	}, nil
}

func (s *session) Close() error {
	return s.db.Close()
}

func (s *session) migrator() *dbmigrate.DefaultMigrator {
	migrator := dbmigrate.NewDefaultMigrator(s.db, s.store, s.executor, s.logger)
	migrator.SetDryRun(s.dryRun)
	return migrator
}

func (s *session) deployer() *dbmigrate.DefaultDeployer {
	deployer := dbmigrate.NewDefaultDeployer(s.db, s.store, s.executor, s.logger)
	deployer.SetDryRun(s.dryRun)
	return deployer
}

func (s *session) loadMigrations(ctx context.Context) ([]dbmigrate.MigrationArtifact, error) {
	raws, err := dbmigrate.NewDirectorySource(os.DirFS(s.config.Migrations), ".").Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load migrations from %v: %w", s.config.Migrations, err)
	}

	return dbmigrate.ParseMigrations(raws)
}

func (s *session) loadScripts(ctx context.Context) ([]dbmigrate.ScriptArtifact, error) {
	raws, err := dbmigrate.NewDirectorySource(os.DirFS(s.config.Scripts), ".").Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load scripts from %v: %w", s.config.Scripts, err)
	}

	return dbmigrate.ParseScripts(raws)
}
