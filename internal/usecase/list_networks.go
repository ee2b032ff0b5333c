package usecase

import (
	"context"
	"sort"

	"github.com/trebuchet-org/treb-migrate/internal/domain/config"
)

// ListNetworksParams contains parameters for listing networks
type ListNetworksParams struct {
	// Currently no parameters, but we keep the struct for future extensibility
}

// ListNetworksResult contains the result of listing networks
type ListNetworksResult struct {
	Networks []NetworkStatus
	Selected string
}

// NetworkStatus represents the status of a network
type NetworkStatus struct {
	Name     string
	Backend  config.BackendKind
	Endpoint string
	ChainID  uint64
	Local    bool
	Error    error
}

// ListNetworks is a use case for listing available networks
type ListNetworks struct {
	resolver NetworkResolver
	config   *config.RuntimeConfig
}

// NewListNetworks creates a new ListNetworks use case
func NewListNetworks(resolver NetworkResolver, cfg *config.RuntimeConfig) *ListNetworks {
	return &ListNetworks{
		resolver: resolver,
		config:   cfg,
	}
}

// Run executes the use case
func (uc *ListNetworks) Run(ctx context.Context, params ListNetworksParams) (*ListNetworksResult, error) {
	networkNames := uc.resolver.GetNetworks(ctx)
	sort.Strings(networkNames)

	networks := make([]NetworkStatus, 0, len(networkNames))
	for _, name := range networkNames {
		status := NetworkStatus{
			Name: name,
		}

		info, err := uc.resolver.ResolveNetwork(ctx, name)
		if err != nil {
			status.Error = err
		} else {
			status.Backend = info.Backend
			status.Endpoint = info.Endpoint()
			status.ChainID = info.ChainID
			status.Local = info.Local
		}

		networks = append(networks, status)
	}

	result := &ListNetworksResult{
		Networks: networks,
	}
	if uc.config != nil && uc.config.Network != nil {
		result.Selected = uc.config.Network.Name
	}
	return result, nil
}
