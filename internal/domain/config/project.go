package config

import "time"

// ProjectConfig represents migrate.toml after env expansion and defaults
type ProjectConfig struct {
	Project  ProjectSection           `toml:"project"`
	Deployer DeployerConfig           `toml:"deployer"`
	Networks map[string]NetworkConfig `toml:"networks"`
}

// ProjectSection holds the project layout
type ProjectSection struct {
	BuildDir       string `toml:"build_dir"`
	ArtifactFormat string `toml:"artifact_format"` // foundry, truffle or auto
	MigrationsDir  string `toml:"migrations_dir"`
	DefaultNetwork string `toml:"default_network"`
}

// DeployerConfig describes the account used by the rpc backend
type DeployerConfig struct {
	PrivateKey          string `toml:"private_key,omitempty"` //nolint:gosec // holds env var reference, not a literal secret
	Keystore            string `toml:"keystore,omitempty"`
	Password            string `toml:"password,omitempty"` //nolint:gosec // holds env var reference
	GasLimit            uint64 `toml:"gas_limit,omitempty"`
	ConfirmationTimeout string `toml:"confirmation_timeout,omitempty"`
}

// Timeout returns the parsed confirmation timeout, or def when unset
func (d DeployerConfig) Timeout(def time.Duration) time.Duration {
	if d.ConfirmationTimeout == "" {
		return def
	}
	timeout, err := time.ParseDuration(d.ConfirmationTimeout)
	if err != nil || timeout <= 0 {
		return def
	}
	return timeout
}

// NetworkConfig is a [networks.<name>] table
type NetworkConfig struct {
	Backend BackendKind `toml:"backend,omitempty"`
	RPCURL  string      `toml:"rpc_url,omitempty"`
	ChainID uint64      `toml:"chain_id,omitempty"`
	URL     string      `toml:"url,omitempty"`
	From    string      `toml:"from,omitempty"`
	Local   *bool       `toml:"local,omitempty"`
}
