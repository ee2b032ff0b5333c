package network

import (
	"context"

	"github.com/trebuchet-org/treb-migrate/internal/config"
	domainconfig "github.com/trebuchet-org/treb-migrate/internal/domain/config"
	"github.com/trebuchet-org/treb-migrate/internal/usecase"
)

// ResolverAdapter exposes the migrate.toml networks to use cases
type ResolverAdapter struct {
	resolver *config.NetworkResolver
}

// NewResolverAdapter creates a resolver over the project's networks
func NewResolverAdapter(cfg *domainconfig.RuntimeConfig) *ResolverAdapter {
	return &ResolverAdapter{resolver: config.NewNetworkResolver(cfg.Project)}
}

// GetNetworks returns the names of all resolvable networks
func (r *ResolverAdapter) GetNetworks(ctx context.Context) []string {
	return r.resolver.Names()
}

// ResolveNetwork resolves a network by name
func (r *ResolverAdapter) ResolveNetwork(ctx context.Context, name string) (*domainconfig.Network, error) {
	return r.resolver.Resolve(name)
}

// Ensure the adapter implements the interface
var _ usecase.NetworkResolver = (*ResolverAdapter)(nil)
