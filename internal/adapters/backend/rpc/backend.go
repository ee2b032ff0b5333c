package rpc

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/trebuchet-org/treb-migrate/internal/domain"
	"github.com/trebuchet-org/treb-migrate/internal/domain/config"
	"github.com/trebuchet-org/treb-migrate/internal/usecase"
)

// DefaultConfirmationTimeout bounds how long a deploy waits for its receipt
const DefaultConfirmationTimeout = 5 * time.Minute

// Client is the subset of ethclient.Client the backend uses
type Client interface {
	bind.ContractBackend
	bind.DeployBackend
	ChainID(ctx context.Context) (*big.Int, error)
}

// DialFunc opens a Client for an endpoint
type DialFunc func(ctx context.Context, url string) (Client, error)

// Backend signs deployment transactions locally and submits them to a
// JSON-RPC node. The connection and key are set up on first use.
type Backend struct {
	network  *config.Network
	deployer config.DeployerConfig
	timeout  time.Duration
	dial     DialFunc
	log      *slog.Logger

	mu      sync.Mutex
	client  Client
	key     *ecdsa.PrivateKey
	chainID *big.Int
}

// NewBackend creates a backend for the selected network
func NewBackend(cfg *config.RuntimeConfig, log *slog.Logger) *Backend {
	var deployer config.DeployerConfig
	if cfg.Project != nil {
		deployer = cfg.Project.Deployer
	}
	return newBackend(cfg.Network, deployer, dialEthclient, log)
}

func newBackend(network *config.Network, deployer config.DeployerConfig, dial DialFunc, log *slog.Logger) *Backend {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Backend{
		network:  network,
		deployer: deployer,
		timeout:  deployer.Timeout(DefaultConfirmationTimeout),
		dial:     dial,
		log:      log,
	}
}

func dialEthclient(ctx context.Context, url string) (Client, error) {
	client, err := ethclient.DialContext(ctx, url)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// Deploy publishes the artifact and waits for a successful receipt
func (b *Backend) Deploy(ctx context.Context, artifact *domain.Artifact, args []domain.Value) (*domain.Deployment, error) {
	if !artifact.Deployable() {
		return nil, fmt.Errorf("%s has no creation bytecode (interface or abstract contract?)", artifact.Name)
	}
	if artifact.NeedsLinking() {
		return nil, fmt.Errorf("%s requires library linking, which is not supported", artifact.Name)
	}

	parsed, err := abi.JSON(bytes.NewReader(artifact.ABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ABI of %s: %w", artifact.Name, err)
	}
	params, err := constructorArgs(parsed, args)
	if err != nil {
		return nil, err
	}

	client, key, chainID, err := b.connect(ctx)
	if err != nil {
		return nil, err
	}

	opts, err := bind.NewKeyedTransactorWithChainID(key, chainID)
	if err != nil {
		return nil, fmt.Errorf("failed to create transactor: %w", err)
	}
	opts.Context = ctx
	if b.deployer.GasLimit > 0 {
		opts.GasLimit = b.deployer.GasLimit
	}

	address, tx, _, err := bind.DeployContract(opts, parsed, common.FromHex(artifact.Bytecode), client, params...)
	if err != nil {
		return nil, fmt.Errorf("failed to send deployment of %s: %w", artifact.Name, err)
	}
	b.log.Debug("deployment sent", "artifact", artifact.Name, "tx", tx.Hash().Hex(), "address", address.Hex())

	waitCtx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	receipt, err := bind.WaitMined(waitCtx, client, tx)
	if err != nil {
		return nil, fmt.Errorf("deployment of %s (tx %s) not confirmed: %w", artifact.Name, tx.Hash().Hex(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, fmt.Errorf("deployment of %s reverted (tx %s)", artifact.Name, tx.Hash().Hex())
	}

	dep := &domain.Deployment{
		Artifact:   artifact.Name,
		Address:    address.Hex(),
		TxHash:     tx.Hash().Hex(),
		GasUsed:    receipt.GasUsed,
		ChainID:    chainID.Uint64(),
		Deployer:   opts.From.Hex(),
		DeployedAt: time.Now().UTC(),
	}
	if receipt.BlockNumber != nil {
		dep.BlockNumber = receipt.BlockNumber.Uint64()
	}
	return dep, nil
}

// connect dials the node, loads the key and checks the chain id once
func (b *Backend) connect(ctx context.Context) (Client, *ecdsa.PrivateKey, *big.Int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.client != nil {
		return b.client, b.key, b.chainID, nil
	}

	if b.network == nil {
		return nil, nil, nil, domain.ErrNoNetwork
	}
	if b.network.RPCURL == "" {
		return nil, nil, nil, domain.NewConfigError("networks."+b.network.Name+".rpc_url", "required for the rpc backend")
	}

	key, err := loadKey(b.deployer)
	if err != nil {
		return nil, nil, nil, err
	}

	client, err := b.dial(ctx, b.network.RPCURL)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to connect to RPC: %w", err)
	}

	chainID, err := client.ChainID(ctx)
	if err != nil {
		closeClient(client)
		return nil, nil, nil, fmt.Errorf("failed to get chain ID: %w", err)
	}
	if b.network.ChainID != 0 && chainID.Uint64() != b.network.ChainID {
		closeClient(client)
		return nil, nil, nil, fmt.Errorf("chain ID mismatch: expected %d, got %d", b.network.ChainID, chainID.Uint64())
	}

	b.log.Debug("connected", "network", b.network.Name, "chain_id", chainID,
		"deployer", crypto.PubkeyToAddress(key.PublicKey).Hex())

	b.client, b.key, b.chainID = client, key, chainID
	return client, key, chainID, nil
}

// closeClient releases a client that will not be cached. ethclient has a
// Close method, the simulated client does not.
func closeClient(client Client) {
	if c, ok := client.(interface{ Close() }); ok {
		c.Close()
	}
}

// Ensure the backend implements the interface
var _ usecase.DeploymentBackend = (*Backend)(nil)
