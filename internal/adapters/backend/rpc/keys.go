package rpc

import (
	"crypto/ecdsa"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/mitchellh/go-homedir"

	"github.com/trebuchet-org/treb-migrate/internal/domain"
	"github.com/trebuchet-org/treb-migrate/internal/domain/config"
)

// loadKey returns the deployer's signing key from a raw hex key or an
// encrypted keystore file. The raw key wins when both are set.
func loadKey(deployer config.DeployerConfig) (*ecdsa.PrivateKey, error) {
	if deployer.PrivateKey != "" {
		key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(deployer.PrivateKey), "0x"))
		if err != nil {
			return nil, domain.NewConfigError("deployer.private_key", err.Error())
		}
		return key, nil
	}

	if deployer.Keystore != "" {
		path, err := homedir.Expand(deployer.Keystore)
		if err != nil {
			return nil, domain.NewConfigError("deployer.keystore", err.Error())
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read keystore: %w", err)
		}
		key, err := keystore.DecryptKey(data, deployer.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to decrypt keystore %s: %w", path, err)
		}
		return key.PrivateKey, nil
	}

	return nil, domain.NewConfigError("deployer", "private_key or keystore is required for rpc networks")
}
