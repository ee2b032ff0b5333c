package usecase

import (
	"context"
	"fmt"

	"github.com/trebuchet-org/treb-migrate/internal/domain"
	"github.com/trebuchet-org/treb-migrate/internal/domain/config"
)

// VerifyDeploymentsParams contains parameters for verifying recorded deployments
type VerifyDeploymentsParams struct {
	Migration int // Only check deployments of this migration (0 = all)
}

// DeploymentCheck is the on-chain state of one recorded deployment
type DeploymentCheck struct {
	Deployment  *domain.Deployment
	CodeExists  bool
	TxExists    bool
	BlockNumber uint64
	Reason      string
}

// OK reports whether the deployment is present on chain
func (c *DeploymentCheck) OK() bool {
	return c.CodeExists && c.Reason == ""
}

// VerifyDeploymentsResult contains one check per recorded deployment
type VerifyDeploymentsResult struct {
	Network *config.Network
	Checks  []*DeploymentCheck
}

// Failed returns the number of deployments that could not be found on chain
func (r *VerifyDeploymentsResult) Failed() int {
	failed := 0
	for _, check := range r.Checks {
		if !check.OK() {
			failed++
		}
	}
	return failed
}

// VerifyDeployments checks that deployments recorded in the journal exist on chain
type VerifyDeployments struct {
	config   *config.RuntimeConfig
	journals JournalStore
	checker  DeploymentChecker
	progress ProgressSink
}

// NewVerifyDeployments creates a new VerifyDeployments use case
func NewVerifyDeployments(
	cfg *config.RuntimeConfig,
	journals JournalStore,
	checker DeploymentChecker,
	progress ProgressSink,
) *VerifyDeployments {
	return &VerifyDeployments{
		config:   cfg,
		journals: journals,
		checker:  checker,
		progress: progress,
	}
}

// Run executes the use case
func (uc *VerifyDeployments) Run(ctx context.Context, params VerifyDeploymentsParams) (*VerifyDeploymentsResult, error) {
	network := uc.config.Network
	if network == nil {
		return nil, fmt.Errorf("%w: use --network or set project.default_network", domain.ErrNoNetwork)
	}

	journal, err := uc.journals.Load(ctx, network.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to load journal for %s: %w", network.Name, err)
	}

	var deployments []*domain.Deployment
	for _, dep := range journal.DeploymentsByMigration() {
		if params.Migration == 0 || dep.Migration == params.Migration {
			deployments = append(deployments, dep)
		}
	}

	result := &VerifyDeploymentsResult{Network: network}
	if len(deployments) == 0 {
		return result, nil
	}

	if err := uc.checker.Connect(ctx, network); err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", network.Name, err)
	}

	for i, dep := range deployments {
		uc.progress.OnProgress(ctx, ProgressEvent{
			Stage:   StageChecking,
			Current: i + 1,
			Total:   len(deployments),
			Message: fmt.Sprintf("Checking %s at %s", dep.Artifact, dep.Address),
			Spinner: true,
		})

		check := &DeploymentCheck{Deployment: dep}
		exists, reason, err := uc.checker.CheckDeploymentExists(ctx, dep.Address)
		if err != nil {
			return nil, fmt.Errorf("failed to check %s: %w", dep.Address, err)
		}
		check.CodeExists = exists
		check.Reason = reason

		if dep.TxHash != "" {
			txExists, block, txReason, err := uc.checker.CheckTransactionExists(ctx, dep.TxHash)
			if err != nil {
				return nil, fmt.Errorf("failed to check transaction %s: %w", dep.TxHash, err)
			}
			check.TxExists = txExists
			check.BlockNumber = block
			if check.Reason == "" {
				check.Reason = txReason
			}
		}

		result.Checks = append(result.Checks, check)
	}

	uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageCompleted})
	return result, nil
}
