package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/trebuchet-org/treb-migrate/internal/domain"
	"github.com/trebuchet-org/treb-migrate/internal/domain/config"
)

// MigrationStatusParams contains parameters for the status command
type MigrationStatusParams struct{}

// MigrationStatusEntry is one declared migration and its journal state
type MigrationStatusEntry struct {
	Migration *domain.Migration
	State     domain.MigrationState
	Record    *domain.MigrationRecord
}

// MigrationStatusResult contains declared migrations with their state on a network
type MigrationStatusResult struct {
	Network     *config.Network
	Entries     []MigrationStatusEntry
	Deployments []*domain.Deployment
	// Orphaned are journal records whose declaration file no longer exists
	Orphaned []*domain.MigrationRecord
}

// PendingCount returns the number of migrations a migrate run would execute
func (r *MigrationStatusResult) PendingCount() int {
	count := 0
	for _, entry := range r.Entries {
		if entry.State != domain.MigrationCompleted {
			count++
		}
	}
	return count
}

// MigrationStatus reports which migrations have run on the selected network
type MigrationStatus struct {
	config   *config.RuntimeConfig
	loader   MigrationLoader
	journals JournalStore
}

// NewMigrationStatus creates a new MigrationStatus use case
func NewMigrationStatus(cfg *config.RuntimeConfig, loader MigrationLoader, journals JournalStore) *MigrationStatus {
	return &MigrationStatus{
		config:   cfg,
		loader:   loader,
		journals: journals,
	}
}

// Run executes the use case
func (uc *MigrationStatus) Run(ctx context.Context, params MigrationStatusParams) (*MigrationStatusResult, error) {
	network := uc.config.Network
	if network == nil {
		return nil, fmt.Errorf("%w: use --network or set project.default_network", domain.ErrNoNetwork)
	}

	migrations, err := uc.loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load migrations: %w", err)
	}

	journal, err := uc.journals.Load(ctx, network.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to load journal for %s: %w", network.Name, err)
	}

	result := &MigrationStatusResult{
		Network:     network,
		Entries:     make([]MigrationStatusEntry, 0, len(migrations)),
		Deployments: journal.DeploymentsByMigration(),
	}

	declared := make(map[int]bool, len(migrations))
	for _, m := range migrations {
		declared[m.Number] = true
		result.Entries = append(result.Entries, MigrationStatusEntry{
			Migration: m,
			State:     journal.State(m.Number),
			Record:    journal.Migrations[m.Number],
		})
	}

	for number, record := range journal.Migrations {
		if !declared[number] {
			result.Orphaned = append(result.Orphaned, record)
		}
	}
	sort.Slice(result.Orphaned, func(i, j int) bool {
		return result.Orphaned[i].Number < result.Orphaned[j].Number
	})

	return result, nil
}
