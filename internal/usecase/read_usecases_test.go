package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/treb-migrate/internal/domain"
	"github.com/trebuchet-org/treb-migrate/internal/domain/config"
	"github.com/trebuchet-org/treb-migrate/internal/usecase"
)

func TestMigrationStatus(t *testing.T) {
	ctx := context.Background()
	network := &config.Network{Name: "anvil", Local: true}

	t.Run("reports state per declared migration", func(t *testing.T) {
		journal := domain.NewJournal("anvil")
		first := migration(1, "owners", "CIDsOwners")
		journal.Record(first, []*domain.DeployResult{{
			Index:      1,
			Status:     domain.StepSucceeded,
			Deployment: &domain.Deployment{Artifact: "CIDsOwners", Address: ownersAddr},
		}}, nil, time.Now())
		journal.Record(migration(2, "files"), nil, errors.New("boom"), time.Now())
		journal.Record(migration(7, "removed"), nil, nil, time.Now())

		loader := new(MockMigrationLoader)
		loader.On("Load", mock.Anything).Return([]*domain.Migration{
			first,
			migration(2, "files", "IPFSUploadedFiles"),
			migration(3, "later", "Other"),
		}, nil)
		journals := new(MockJournalStore)
		journals.On("Load", mock.Anything, "anvil").Return(journal, nil)

		uc := usecase.NewMigrationStatus(&config.RuntimeConfig{Network: network}, loader, journals)
		result, err := uc.Run(ctx, usecase.MigrationStatusParams{})

		require.NoError(t, err)
		require.Len(t, result.Entries, 3)
		assert.Equal(t, domain.MigrationCompleted, result.Entries[0].State)
		assert.Equal(t, domain.MigrationFailed, result.Entries[1].State)
		assert.Equal(t, "boom", result.Entries[1].Record.Error)
		assert.Equal(t, domain.MigrationPending, result.Entries[2].State)
		assert.Nil(t, result.Entries[2].Record)
		assert.Equal(t, 2, result.PendingCount())

		require.Len(t, result.Deployments, 1)
		assert.Equal(t, 1, result.Deployments[0].Migration)
		require.Len(t, result.Orphaned, 1)
		assert.Equal(t, 7, result.Orphaned[0].Number)
	})

	t.Run("requires a network", func(t *testing.T) {
		uc := usecase.NewMigrationStatus(&config.RuntimeConfig{}, new(MockMigrationLoader), new(MockJournalStore))
		_, err := uc.Run(ctx, usecase.MigrationStatusParams{})
		assert.ErrorIs(t, err, domain.ErrNoNetwork)
	})
}

func TestListArtifacts(t *testing.T) {
	ctx := context.Background()

	iface := &domain.Artifact{Name: "ICIDsOwners", Bytecode: "0x"}
	registry := new(MockArtifactRegistry)
	registry.On("List", mock.Anything).Return([]*domain.Artifact{
		testArtifact("IPFSUploadedFiles"),
		iface,
		testArtifact("CIDsOwners"),
	}, nil)

	tests := []struct {
		name     string
		params   usecase.ListArtifactsParams
		expected []string
	}{
		{
			name:     "all sorted by name",
			params:   usecase.ListArtifactsParams{},
			expected: []string{"CIDsOwners", "ICIDsOwners", "IPFSUploadedFiles"},
		},
		{
			name:     "deployable only",
			params:   usecase.ListArtifactsParams{DeployableOnly: true},
			expected: []string{"CIDsOwners", "IPFSUploadedFiles"},
		},
		{
			name:     "case insensitive filter",
			params:   usecase.ListArtifactsParams{Filter: "cids"},
			expected: []string{"CIDsOwners", "ICIDsOwners"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := usecase.NewListArtifacts(registry).Run(ctx, tt.params)
			require.NoError(t, err)

			names := make([]string, 0, len(result.Artifacts))
			for _, a := range result.Artifacts {
				names = append(names, a.Name)
			}
			assert.Equal(t, tt.expected, names)
		})
	}
}

func TestListNetworks(t *testing.T) {
	ctx := context.Background()

	resolver := new(MockNetworkResolver)
	resolver.On("GetNetworks", mock.Anything).Return([]string{"sepolia", "anvil", "broken"})
	resolver.On("ResolveNetwork", mock.Anything, "anvil").Return(&config.Network{
		Name: "anvil", Backend: config.BackendRPC, RPCURL: "http://localhost:8545", ChainID: 31337, Local: true,
	}, nil)
	resolver.On("ResolveNetwork", mock.Anything, "sepolia").Return(&config.Network{
		Name: "sepolia", Backend: config.BackendEthconnect, URL: "http://localhost:5102", ChainID: 11155111,
	}, nil)
	resolver.On("ResolveNetwork", mock.Anything, "broken").Return(nil, domain.NewConfigError("networks.broken.rpc_url", "missing"))

	cfg := &config.RuntimeConfig{Network: &config.Network{Name: "anvil"}}
	result, err := usecase.NewListNetworks(resolver, cfg).Run(ctx, usecase.ListNetworksParams{})

	require.NoError(t, err)
	require.Len(t, result.Networks, 3)
	assert.Equal(t, "anvil", result.Selected)

	assert.Equal(t, "anvil", result.Networks[0].Name)
	assert.Equal(t, "http://localhost:8545", result.Networks[0].Endpoint)
	assert.True(t, result.Networks[0].Local)

	assert.Equal(t, "broken", result.Networks[1].Name)
	assert.ErrorIs(t, result.Networks[1].Error, domain.ErrInvalidConfig)

	assert.Equal(t, "sepolia", result.Networks[2].Name)
	assert.Equal(t, config.BackendEthconnect, result.Networks[2].Backend)
	assert.Equal(t, "http://localhost:5102", result.Networks[2].Endpoint)
}

func TestVerifyDeployments(t *testing.T) {
	ctx := context.Background()
	network := &config.Network{Name: "anvil", RPCURL: "http://localhost:8545"}

	journal := domain.NewJournal("anvil")
	journal.Deployments = []*domain.Deployment{
		{Artifact: "IPFSUploadedFiles", Address: filesAddr, TxHash: "0xbbb", Migration: 2},
		{Artifact: "CIDsOwners", Address: ownersAddr, TxHash: "0xaaa", Migration: 1},
	}

	newUseCase := func() (*usecase.VerifyDeployments, *MockDeploymentChecker) {
		journals := new(MockJournalStore)
		journals.On("Load", mock.Anything, "anvil").Return(journal, nil)
		checker := new(MockDeploymentChecker)
		checker.On("Connect", mock.Anything, network).Return(nil)
		checker.On("CheckDeploymentExists", mock.Anything, ownersAddr).Return(true, "", nil)
		checker.On("CheckDeploymentExists", mock.Anything, filesAddr).Return(false, "no code at address", nil)
		checker.On("CheckTransactionExists", mock.Anything, "0xaaa").Return(true, uint64(12), "", nil)
		checker.On("CheckTransactionExists", mock.Anything, "0xbbb").Return(false, uint64(0), "transaction not found on-chain", nil)
		cfg := &config.RuntimeConfig{Network: network}
		return usecase.NewVerifyDeployments(cfg, journals, checker, usecase.NopProgress{}), checker
	}

	t.Run("checks every recorded deployment", func(t *testing.T) {
		uc, checker := newUseCase()
		result, err := uc.Run(ctx, usecase.VerifyDeploymentsParams{})

		require.NoError(t, err)
		require.Len(t, result.Checks, 2)
		assert.Equal(t, "CIDsOwners", result.Checks[0].Deployment.Artifact)
		assert.True(t, result.Checks[0].OK())
		assert.Equal(t, uint64(12), result.Checks[0].BlockNumber)
		assert.False(t, result.Checks[1].OK())
		assert.Equal(t, "no code at address", result.Checks[1].Reason)
		assert.Equal(t, 1, result.Failed())
		checker.AssertExpectations(t)
	})

	t.Run("filters by migration", func(t *testing.T) {
		uc, checker := newUseCase()
		result, err := uc.Run(ctx, usecase.VerifyDeploymentsParams{Migration: 1})

		require.NoError(t, err)
		require.Len(t, result.Checks, 1)
		assert.Equal(t, 0, result.Failed())
		checker.AssertNotCalled(t, "CheckDeploymentExists", mock.Anything, filesAddr)
	})
}
