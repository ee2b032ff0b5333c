package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/trebuchet-org/treb-migrate/internal/domain"
	"github.com/trebuchet-org/treb-migrate/internal/domain/config"
)

// RunMigrationsParams contains parameters for running migrations
type RunMigrationsParams struct {
	Reset     bool // Run every migration again from the first one
	To        int  // Stop after this migration number (0 = all)
	DryRun    bool // Resolve artifacts only
	AssumeYes bool // Skip the confirmation prompt
}

// MigrationOutcome is the result of one migration file
type MigrationOutcome struct {
	Migration *domain.Migration
	Results   []*domain.DeployResult
	Artifacts []*domain.Artifact // dry run only
	Err       error
}

// Succeeded reports whether every step of the migration was deployed
func (o *MigrationOutcome) Succeeded() bool {
	return o.Err == nil
}

// RunMigrationsResult contains the result of running migrations
type RunMigrationsResult struct {
	RunID    string // shared by every journal record this run writes
	Network  *config.Network
	DryRun   bool
	Pending  []*domain.Migration
	Outcomes []*MigrationOutcome
	Journal  *domain.Journal
}

// Success reports whether every attempted migration completed
func (r *RunMigrationsResult) Success() bool {
	return lo.EveryBy(r.Outcomes, func(o *MigrationOutcome) bool { return o.Succeeded() })
}

// Deployments returns every deployment made during this run, in order
func (r *RunMigrationsResult) Deployments() []*domain.Deployment {
	var deps []*domain.Deployment
	for _, outcome := range r.Outcomes {
		for _, res := range outcome.Results {
			if res.Succeeded() {
				deps = append(deps, res.Deployment)
			}
		}
	}
	return deps
}

// RunMigrations runs pending migration files against the selected network.
// Each file is handed to the Sequencer as one run.
type RunMigrations struct {
	config    *config.RuntimeConfig
	loader    MigrationLoader
	journals  JournalStore
	sequencer *Sequencer
	confirmer Confirmer
	progress  ProgressSink
	log       *slog.Logger
	now       func() time.Time
}

// NewRunMigrations creates a new RunMigrations use case
func NewRunMigrations(
	cfg *config.RuntimeConfig,
	loader MigrationLoader,
	journals JournalStore,
	sequencer *Sequencer,
	confirmer Confirmer,
	progress ProgressSink,
	log *slog.Logger,
) *RunMigrations {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &RunMigrations{
		config:    cfg,
		loader:    loader,
		journals:  journals,
		sequencer: sequencer,
		confirmer: confirmer,
		progress:  progress,
		log:       log,
		now:       time.Now,
	}
}

// Run executes the use case
func (uc *RunMigrations) Run(ctx context.Context, params RunMigrationsParams) (*RunMigrationsResult, error) {
	network := uc.config.Network
	if network == nil {
		return nil, fmt.Errorf("%w: use --network or set project.default_network", domain.ErrNoNetwork)
	}

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   StageLoading,
		Message: "Loading migrations",
		Spinner: true,
	})

	migrations, err := uc.loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load migrations: %w", err)
	}
	for _, m := range migrations {
		if m.Number < 1 {
			return nil, fmt.Errorf("failed to load migrations: migration numbers start at 1, got %d_%s", m.Number, m.Name)
		}
	}

	journal, err := uc.journals.Load(ctx, network.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to load journal for %s: %w", network.Name, err)
	}

	pending := pendingMigrations(migrations, journal, params)
	result := &RunMigrationsResult{
		Network: network,
		DryRun:  params.DryRun,
		Pending: pending,
		Journal: journal,
	}

	if len(pending) == 0 {
		uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageCompleted, Message: "Nothing to migrate"})
		return result, nil
	}

	if params.DryRun {
		for _, m := range pending {
			artifacts, err := uc.sequencer.Plan(ctx, m.Steps)
			outcome := &MigrationOutcome{Migration: m, Artifacts: artifacts, Err: err}
			result.Outcomes = append(result.Outcomes, outcome)
			if err != nil {
				break
			}
		}
		uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageCompleted})
		return result, nil
	}

	if err := uc.confirm(ctx, network, pending, params); err != nil {
		return nil, err
	}

	result.RunID = uuid.NewString()
	log := uc.log.With("run", result.RunID, "network", network.Name)

	if params.Reset {
		log.Debug("resetting journal")
		if err := uc.journals.Delete(ctx, network.Name); err != nil {
			return nil, fmt.Errorf("failed to reset journal for %s: %w", network.Name, err)
		}
		journal.Reset()
	}

	for i, m := range pending {
		uc.progress.OnProgress(ctx, ProgressEvent{
			Stage:   StageMigrationStarting,
			Current: i + 1,
			Total:   len(pending),
			Message: fmt.Sprintf("Running %d_%s", m.Number, m.Name),
		})

		results, runErr := uc.sequencer.Run(ctx, m.Steps)
		outcome := &MigrationOutcome{Migration: m, Results: results, Err: runErr}
		result.Outcomes = append(result.Outcomes, outcome)

		if chainID := journalChainID(network, results); chainID != 0 {
			journal.ChainID = chainID
		}
		journal.Record(m, results, runErr, uc.now())
		journal.Migrations[m.Number].RunID = result.RunID
		if err := uc.journals.Save(ctx, journal); err != nil {
			return result, fmt.Errorf("failed to save journal: %w", err)
		}

		uc.progress.OnProgress(ctx, ProgressEvent{
			Stage:    StageMigrationCompleted,
			Current:  i + 1,
			Total:    len(pending),
			Metadata: outcome,
		})

		if runErr != nil {
			log.Debug("migration failed", "migration", m.Number, "error", runErr)
			break
		}
	}

	uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageCompleted})
	return result, nil
}

// journalChainID prefers the configured chain ID and falls back to the one
// the backend reported for the first deployment
func journalChainID(network *config.Network, results []*domain.DeployResult) uint64 {
	if network.ChainID != 0 {
		return network.ChainID
	}
	for _, res := range results {
		if res.Succeeded() && res.Deployment.ChainID != 0 {
			return res.Deployment.ChainID
		}
	}
	return 0
}

func (uc *RunMigrations) confirm(ctx context.Context, network *config.Network, pending []*domain.Migration, params RunMigrationsParams) error {
	if network.Local || params.AssumeYes || uc.config.NonInteractive {
		return nil
	}

	steps := lo.SumBy(pending, func(m *domain.Migration) int { return len(m.Steps) })
	uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageCompleted})
	ok, err := uc.confirmer.Confirm(ctx, fmt.Sprintf(
		"Deploy %d contract(s) from %d migration(s) to %s", steps, len(pending), network.Name,
	))
	if err != nil {
		return fmt.Errorf("confirmation failed: %w", err)
	}
	if !ok {
		return domain.ErrDeclined
	}
	return nil
}

// pendingMigrations selects the migrations a run should execute, in order
func pendingMigrations(migrations []*domain.Migration, journal *domain.Journal, params RunMigrationsParams) []*domain.Migration {
	last := journal.LastCompleted()
	if params.Reset {
		last = 0
	}
	return lo.Filter(migrations, func(m *domain.Migration, _ int) bool {
		if params.To > 0 && m.Number > params.To {
			return false
		}
		return m.Number > last
	})
}
