//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"

	"github.com/trebuchet-org/treb-migrate/internal/adapters"
	"github.com/trebuchet-org/treb-migrate/internal/config"
	"github.com/trebuchet-org/treb-migrate/internal/logging"
	"github.com/trebuchet-org/treb-migrate/internal/usecase"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper, sink usecase.ProgressSink) (*App, error) {
	wire.Build(
		// Configuration
		config.Provider,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewSequencer,
		usecase.NewRunMigrations,
		usecase.NewMigrationStatus,
		usecase.NewListArtifacts,
		usecase.NewListNetworks,
		usecase.NewVerifyDeployments,
		usecase.NewShowConfig,
		usecase.NewSetConfig,
		usecase.NewRemoveConfig,

		// App
		NewApp,
	)
	return nil, nil
}
