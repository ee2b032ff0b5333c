package config

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/trebuchet-org/treb-migrate/internal/domain/config"
)

// Well-known development nodes, available without configuration.
// Entries in migrate.toml with the same name replace them.
var defaultNetworks = map[string]config.NetworkConfig{
	"localhost":   {Backend: config.BackendRPC, RPCURL: "http://localhost:8545"},
	"anvil":       {Backend: config.BackendRPC, RPCURL: "http://127.0.0.1:8545", ChainID: 31337},
	"development": {Backend: config.BackendRPC, RPCURL: "http://127.0.0.1:7545", ChainID: 1337},
}

// NetworkResolver resolves network names from migrate.toml
type NetworkResolver struct {
	networks map[string]config.NetworkConfig
}

// NewNetworkResolver creates a resolver over the configured and default networks
func NewNetworkResolver(project *config.ProjectConfig) *NetworkResolver {
	networks := make(map[string]config.NetworkConfig, len(defaultNetworks))
	for name, network := range defaultNetworks {
		networks[name] = network
	}
	if project != nil {
		for name, network := range project.Networks {
			networks[name] = network
		}
	}
	return &NetworkResolver{networks: networks}
}

// Names returns every resolvable network name, sorted
func (r *NetworkResolver) Names() []string {
	names := lo.Keys(r.networks)
	sort.Strings(names)
	return names
}

// Resolve resolves a network name to its configuration. Names match
// case-insensitively.
func (r *NetworkResolver) Resolve(networkName string) (*config.Network, error) {
	if networkName == "" {
		return nil, fmt.Errorf("network not specified")
	}

	name := networkName
	raw, ok := r.networks[name]
	if !ok {
		name, ok = lo.Find(r.Names(), func(n string) bool {
			return strings.EqualFold(n, networkName)
		})
		if !ok {
			return nil, fmt.Errorf("network '%s' not found in %s [networks] (available: %s)",
				networkName, ProjectFile, strings.Join(r.Names(), ", "))
		}
		raw = r.networks[name]
	}

	backend := raw.Backend
	if backend == "" {
		backend = config.BackendRPC
	}

	network := &config.Network{
		Name:    name,
		Backend: backend,
		ChainID: raw.ChainID,
		RPCURL:  raw.RPCURL,
		URL:     raw.URL,
		From:    raw.From,
	}
	if raw.Local != nil {
		network.Local = *raw.Local
	} else {
		network.Local = isLocalEndpoint(network.Endpoint())
	}
	return network, nil
}

// isLocalEndpoint reports whether the endpoint is served from this machine
func isLocalEndpoint(endpoint string) bool {
	u, err := url.Parse(endpoint)
	if err != nil {
		return false
	}
	switch strings.ToLower(u.Hostname()) {
	case "localhost", "127.0.0.1", "::1", "0.0.0.0":
		return true
	}
	return false
}
