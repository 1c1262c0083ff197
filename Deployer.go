package dbmigrate

import (
	"context"

	"github.com/ljpx/logging"
)

// Deployer defines the methods that any type capable of deploying script
// artifacts must implement.  Plan reports, in deployment order, what Deploy
// would do with the provided scripts.  Deploy executes every new or modified
// script in dependency order and records it.  Both validate the complete
// script set before touching the database.
type Deployer interface {
	Plan(ctx context.Context, scripts []ScriptArtifact) ([]PlannedScript, error)
	Deploy(ctx context.Context, scripts []ScriptArtifact) (*DeployReport, error)
}

// PlannedScript is one entry of a deployment plan.  Latest is nil for a script
// that was never deployed.
type PlannedScript struct {
	Script ScriptArtifact
	Status ChangeStatus
	Latest *ScriptRecord
}

// DeployReport lists the scripts of a run that were deployed and the ones
// skipped as unchanged, each in deployment order.  When DryRun is set nothing
// was committed and Deployed lists what would have been deployed.
type DeployReport struct {
	Deployed  []string
	Unchanged []string
	DryRun    bool
}

// NewDeployer returns a new deployer.  It is an alias of NewDefaultDeployer.
func NewDeployer(db Database, store HistoryStore, executor Executor, logger logging.Logger) Deployer {
	return NewDefaultDeployer(db, store, executor, logger)
}
