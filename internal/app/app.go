package app

import (
	"github.com/trebuchet-org/treb-migrate/internal/domain/config"
	"github.com/trebuchet-org/treb-migrate/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig

	// Use cases
	RunMigrations     *usecase.RunMigrations
	MigrationStatus   *usecase.MigrationStatus
	ListArtifacts     *usecase.ListArtifacts
	ListNetworks      *usecase.ListNetworks
	VerifyDeployments *usecase.VerifyDeployments
	ShowConfig        *usecase.ShowConfig
	SetConfig         *usecase.SetConfig
	RemoveConfig      *usecase.RemoveConfig
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	runMigrations *usecase.RunMigrations,
	migrationStatus *usecase.MigrationStatus,
	listArtifacts *usecase.ListArtifacts,
	listNetworks *usecase.ListNetworks,
	verifyDeployments *usecase.VerifyDeployments,
	showConfig *usecase.ShowConfig,
	setConfig *usecase.SetConfig,
	removeConfig *usecase.RemoveConfig,
) (*App, error) {
	return &App{
		Config:            cfg,
		RunMigrations:     runMigrations,
		MigrationStatus:   migrationStatus,
		ListArtifacts:     listArtifacts,
		ListNetworks:      listNetworks,
		VerifyDeployments: verifyDeployments,
		ShowConfig:        showConfig,
		SetConfig:         setConfig,
		RemoveConfig:      removeConfig,
	}, nil
}
