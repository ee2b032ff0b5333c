package config

import (
	"time"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot string
	DataDir     string

	// Context settings
	Network *Network // nil if not specified

	// Execution settings
	Debug          bool
	NonInteractive bool
	Timeout        time.Duration

	// Resolved configurations
	Project *ProjectConfig
}

// BackendKind selects how deployments reach the network
type BackendKind string

const (
	// BackendRPC signs locally and submits through a JSON-RPC node
	BackendRPC BackendKind = "rpc"
	// BackendEthconnect submits through a FireFly ethconnect gateway
	BackendEthconnect BackendKind = "ethconnect"
)

// Network represents a resolved network configuration
type Network struct {
	Name    string      `json:"name"`
	Backend BackendKind `json:"backend"`
	ChainID uint64      `json:"chainId,omitempty"` // 0 means read it from the node
	RPCURL  string      `json:"rpcUrl,omitempty"`
	URL     string      `json:"url,omitempty"`  // ethconnect gateway
	From    string      `json:"from,omitempty"` // ethconnect signing account
	Local   bool        `json:"local"`
}

// Endpoint returns the URL deployments are sent to
func (n *Network) Endpoint() string {
	if n.Backend == BackendEthconnect {
		return n.URL
	}
	return n.RPCURL
}
