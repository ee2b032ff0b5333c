package config

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/samber/lo"

	"github.com/trebuchet-org/treb-migrate/internal/domain"
	"github.com/trebuchet-org/treb-migrate/internal/domain/config"
)

var (
	rpcSchemes      = []string{"http", "https", "ws", "wss"}
	gatewaySchemes  = []string{"http", "https"}
	artifactFormats = []string{"auto", string(domain.FormatFoundry), string(domain.FormatTruffle)}
)

// ValidateProjectConfig checks values that would otherwise only fail once
// a deployment is under way
func ValidateProjectConfig(cfg *config.ProjectConfig) error {
	if !lo.Contains(artifactFormats, cfg.Project.ArtifactFormat) {
		return domain.NewConfigError("project.artifact_format",
			fmt.Sprintf("%q is not one of %s", cfg.Project.ArtifactFormat, strings.Join(artifactFormats, ", ")))
	}

	if cfg.Deployer.PrivateKey != "" {
		if err := ValidatePrivateKey("deployer.private_key", cfg.Deployer.PrivateKey); err != nil {
			return err
		}
	}

	names := lo.Keys(cfg.Networks)
	sort.Strings(names)
	for _, name := range names {
		if err := validateNetwork(name, cfg.Networks[name]); err != nil {
			return err
		}
	}
	return nil
}

func validateNetwork(name string, network config.NetworkConfig) error {
	prefix := "networks." + name
	switch network.Backend {
	case config.BackendRPC:
		if network.RPCURL != "" {
			return ValidateEndpoint(prefix+".rpc_url", network.RPCURL, rpcSchemes...)
		}
	case config.BackendEthconnect:
		if network.URL == "" {
			return domain.NewConfigError(prefix+".url", "required for the ethconnect backend")
		}
		if err := ValidateEndpoint(prefix+".url", network.URL, gatewaySchemes...); err != nil {
			return err
		}
		if network.From != "" && !common.IsHexAddress(network.From) {
			return domain.NewConfigError(prefix+".from", fmt.Sprintf("%q is not an Ethereum address", network.From))
		}
		if network.RPCURL != "" {
			return ValidateEndpoint(prefix+".rpc_url", network.RPCURL, rpcSchemes...)
		}
	default:
		return domain.NewConfigError(prefix+".backend",
			fmt.Sprintf("%q is not one of %s, %s", network.Backend, config.BackendRPC, config.BackendEthconnect))
	}
	return nil
}

// ValidateEndpoint checks that raw is an absolute URL with one of the
// allowed schemes and a host
func ValidateEndpoint(key, raw string, schemes ...string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return domain.NewConfigError(key, fmt.Sprintf("invalid URL: %v", err))
	}
	if u.Scheme == "" {
		return domain.NewConfigError(key, "no scheme provided")
	}
	if !lo.Contains(schemes, strings.ToLower(u.Scheme)) {
		return domain.NewConfigError(key, fmt.Sprintf("scheme %q not accepted, use one of %s", u.Scheme, strings.Join(schemes, ", ")))
	}
	if u.Hostname() == "" {
		return domain.NewConfigError(key, "no host provided")
	}
	return nil
}

// ValidatePrivateKey checks a hex encoded secp256k1 key, with or without 0x
func ValidatePrivateKey(key, raw string) error {
	hexKey := strings.TrimPrefix(strings.TrimSpace(raw), "0x")
	if _, err := crypto.HexToECDSA(hexKey); err != nil {
		return domain.NewConfigError(key, fmt.Sprintf("invalid format for Ethereum private key: %v", err))
	}
	return nil
}
