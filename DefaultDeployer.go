package dbmigrate

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ljpx/logging"
)

// DefaultDeployer is the default deployer in the package.  It is not thread
// safe.
type DefaultDeployer struct {
	db       Database
	store    HistoryStore
	executor Executor
	logger   logging.Logger

	dryRun bool
}

var _ Deployer = &DefaultDeployer{}

// NewDefaultDeployer creates a new DefaultDeployer that executes scripts
// against db through executor and records them in store.
func NewDefaultDeployer(db Database, store HistoryStore, executor Executor, logger logging.Logger) *DefaultDeployer {
	return &DefaultDeployer{
		db:       db,
		store:    store,
		executor: executor,
		logger:   loggerOrDiscard(logger),
	}
}

// SetDryRun makes every following deployment roll back its transaction instead
// of committing it.  Each script runs in its own transaction, so with an
// executor that runs statements a script cannot see what an earlier one created
// and a dry run of dependent scripts fails.  Pair it with a PrintingExecutor to
// preview a whole run.
func (d *DefaultDeployer) SetDryRun(dryRun bool) {
	d.dryRun = dryRun
}

// ScheduleScripts builds the dependency graph of scripts and orders it.
func ScheduleScripts(scripts []ScriptArtifact) (*Schedule, error) {
	graph, err := BuildDependencyGraph(scripts)
	if err != nil {
		return nil, err
	}

	return NewSchedule(graph)
}

// Plan reports the change status of every script in deployment order.
func (d *DefaultDeployer) Plan(ctx context.Context, scripts []ScriptArtifact) ([]PlannedScript, error) {
	schedule, err := ScheduleScripts(scripts)
	if err != nil {
		return nil, err
	}

	plan := make([]PlannedScript, 0, schedule.Len())
	for _, script := range schedule.All() {
		latest, err := d.store.LatestScriptRecord(ctx, script.Name)
		if err != nil {
			return nil, attribute(err, script.Name)
		}

		plan = append(plan, PlannedScript{
			Script: script,
			Status: DetectChange(script, latest),
			Latest: latest,
		})
	}

	return plan, nil
}

// Deploy executes every new or modified script in dependency order.  Unchanged
// scripts are skipped but still hold their place in the order.  The first
// failure stops the run; scripts deployed before it stay recorded.
func (d *DefaultDeployer) Deploy(ctx context.Context, scripts []ScriptArtifact) (*DeployReport, error) {
	report := &DeployReport{DryRun: d.dryRun}

	schedule, err := ScheduleScripts(scripts)
	if err != nil {
		d.logger.Printf("Refused to deploy scripts: %v\n", err)
		return report, err
	}

	for _, script := range schedule.All() {
		if err := ctx.Err(); err != nil {
			return report, fmt.Errorf("deployment stopped before '%v': %w", script.Name, err)
		}

		latest, err := d.store.LatestScriptRecord(ctx, script.Name)
		if err != nil {
			return report, attribute(err, script.Name)
		}

		status := DetectChange(script, latest)
		if !status.NeedsDeployment() {
			d.logger.Printf("Skipped unchanged script '%v'.\n", script.Name)
			report.Unchanged = append(report.Unchanged, script.Name)
			continue
		}

		err = d.deploy(ctx, script)
		if err != nil {
			d.logger.Printf("Failed to deploy script '%v': %v\n", script.Name, err)
			return report, err
		}

		d.logger.Printf("Deployed %v script '%v' successfully.\n", status, script.Name)
		report.Deployed = append(report.Deployed, script.Name)
	}

	return report, nil
}

// deploy runs a single script and its history record in one transaction.
// Cancelling ctx does not interrupt it.
func (d *DefaultDeployer) deploy(ctx context.Context, script ScriptArtifact) error {
	ctx = context.WithoutCancel(ctx)

	err := underTransaction(ctx, d.db, !d.dryRun, func(tx *sql.Tx) error {
		err := d.executor.Execute(ctx, tx, script.Body)
		if err != nil {
			return wrapError(ErrExecutionFailure, script.Name, err)
		}

		return d.store.RecordScriptDeployed(ctx, tx, script)
	})
	if err != nil {
		return attribute(err, script.Name)
	}

	return nil
}
