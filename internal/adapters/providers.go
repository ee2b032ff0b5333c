package adapters

import (
	"log/slog"

	"github.com/google/wire"

	"github.com/trebuchet-org/treb-migrate/internal/adapters/artifacts"
	"github.com/trebuchet-org/treb-migrate/internal/adapters/backend/ethconnect"
	"github.com/trebuchet-org/treb-migrate/internal/adapters/backend/rpc"
	"github.com/trebuchet-org/treb-migrate/internal/adapters/blockchain"
	"github.com/trebuchet-org/treb-migrate/internal/adapters/fs"
	"github.com/trebuchet-org/treb-migrate/internal/adapters/interactive"
	"github.com/trebuchet-org/treb-migrate/internal/adapters/migrations"
	"github.com/trebuchet-org/treb-migrate/internal/adapters/network"
	"github.com/trebuchet-org/treb-migrate/internal/domain/config"
	"github.com/trebuchet-org/treb-migrate/internal/usecase"
)

// ProvideDeploymentBackend picks the backend configured for the selected
// network. Without a network the rpc backend is returned and rejects
// every deploy with domain.ErrNoNetwork.
func ProvideDeploymentBackend(cfg *config.RuntimeConfig, log *slog.Logger) usecase.DeploymentBackend {
	if cfg.Network != nil && cfg.Network.Backend == config.BackendEthconnect {
		return ethconnect.NewBackend(cfg, log)
	}
	return rpc.NewBackend(cfg, log)
}

// FSSet provides filesystem-based implementations
var FSSet = wire.NewSet(
	fs.NewJournalStoreAdapter,
	wire.Bind(new(usecase.JournalStore), new(*fs.JournalStoreAdapter)),

	fs.NewLocalConfigStoreAdapter,
	wire.Bind(new(usecase.LocalConfigStore), new(*fs.LocalConfigStoreAdapter)),

	fs.NewFileWriterAdapter,
	wire.Bind(new(usecase.FileWriter), new(*fs.FileWriterAdapter)),
)

// ProjectSet provides build artifacts and migration declarations
var ProjectSet = wire.NewSet(
	artifacts.NewRegistry,
	wire.Bind(new(usecase.ArtifactRegistry), new(*artifacts.Registry)),

	migrations.NewLoader,
	wire.Bind(new(usecase.MigrationLoader), new(*migrations.Loader)),
)

// BackendSet provides the deployment backend
var BackendSet = wire.NewSet(
	ProvideDeploymentBackend,
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewSelectorAdapter,
	wire.Bind(new(usecase.Confirmer), new(*interactive.SelectorAdapter)),
)

// NetworkSet provides network resolution
var NetworkSet = wire.NewSet(
	network.NewResolverAdapter,
	wire.Bind(new(usecase.NetworkResolver), new(*network.ResolverAdapter)),
)

// BlockchainSet provides blockchain-based implementations
var BlockchainSet = wire.NewSet(
	blockchain.NewCheckerAdapter,
	wire.Bind(new(usecase.DeploymentChecker), new(*blockchain.CheckerAdapter)),
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	FSSet,
	ProjectSet,
	BackendSet,
	InteractiveSet,
	NetworkSet,
	BlockchainSet,
)
