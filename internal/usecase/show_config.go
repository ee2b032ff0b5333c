package usecase

import (
	"context"

	"github.com/trebuchet-org/treb-migrate/internal/domain/config"
)

// ShowConfigResult contains the result of showing configuration
type ShowConfigResult struct {
	Config     *config.LocalConfig
	ConfigPath string
	Exists     bool
	// Effective is the network selected for this invocation, which flags
	// and environment can override
	Effective *config.Network
}

// ShowConfig is a use case for showing configuration
type ShowConfig struct {
	store  LocalConfigStore
	config *config.RuntimeConfig
}

// NewShowConfig creates a new ShowConfig use case
func NewShowConfig(store LocalConfigStore, cfg *config.RuntimeConfig) *ShowConfig {
	return &ShowConfig{
		store:  store,
		config: cfg,
	}
}

// Run executes the show config use case
func (uc *ShowConfig) Run(ctx context.Context) (*ShowConfigResult, error) {
	localConfig, err := uc.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	return &ShowConfigResult{
		Config:     localConfig,
		ConfigPath: uc.store.GetPath(),
		Exists:     uc.store.Exists(),
		Effective:  uc.config.Network,
	}, nil
}
