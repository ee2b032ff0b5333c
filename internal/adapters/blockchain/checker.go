package blockchain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/trebuchet-org/treb-migrate/internal/domain"
	"github.com/trebuchet-org/treb-migrate/internal/domain/config"
	"github.com/trebuchet-org/treb-migrate/internal/usecase"
)

const checkTimeout = 5 * time.Second

// Client is the subset of ethclient the checker reads from
type Client interface {
	ChainID(ctx context.Context) (*big.Int, error)
	CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error)
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// DialFunc opens a client for an RPC endpoint
type DialFunc func(ctx context.Context, url string) (Client, error)

func dialEthclient(ctx context.Context, url string) (Client, error) {
	return ethclient.DialContext(ctx, url)
}

// CheckerAdapter implements the DeploymentChecker interface using ethclient
type CheckerAdapter struct {
	dial    DialFunc
	client  Client
	chainID uint64
}

// NewCheckerAdapter creates a new blockchain checker adapter
func NewCheckerAdapter() *CheckerAdapter {
	return &CheckerAdapter{dial: dialEthclient}
}

// NewCheckerAdapterWithDialer creates a checker that opens clients through dial
func NewCheckerAdapterWithDialer(dial DialFunc) *CheckerAdapter {
	return &CheckerAdapter{dial: dial}
}

// Connect establishes connection to the network's RPC endpoint
func (c *CheckerAdapter) Connect(ctx context.Context, network *config.Network) error {
	if network == nil {
		return domain.ErrNoNetwork
	}
	if network.RPCURL == "" {
		return domain.NewConfigError("networks."+network.Name+".rpc_url", "required to check deployments on-chain")
	}

	client, err := c.dial(ctx, network.RPCURL)
	if err != nil {
		return fmt.Errorf("failed to connect to RPC: %w", err)
	}

	networkChainID, err := client.ChainID(ctx)
	if err != nil {
		return fmt.Errorf("failed to get chain ID: %w", err)
	}

	// A network without a chain id adopts the node's
	if network.ChainID != 0 && networkChainID.Uint64() != network.ChainID {
		return fmt.Errorf("chain ID mismatch: expected %d, got %d", network.ChainID, networkChainID.Uint64())
	}

	c.client = client
	c.chainID = networkChainID.Uint64()
	return nil
}

// ChainID returns the chain id of the connected node
func (c *CheckerAdapter) ChainID() uint64 {
	return c.chainID
}

// CheckDeploymentExists checks if a contract exists at the given address
func (c *CheckerAdapter) CheckDeploymentExists(ctx context.Context, address string) (exists bool, reason string, err error) {
	if c.client == nil {
		return false, "", fmt.Errorf("not connected to blockchain")
	}
	if !common.IsHexAddress(address) {
		return false, fmt.Sprintf("invalid address %q", address), nil
	}

	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	code, err := c.client.CodeAt(ctx, common.HexToAddress(address), nil)
	if err != nil {
		return false, fmt.Sprintf("failed to check code: %v", err), nil
	}

	if len(code) == 0 {
		return false, "no code at address", nil
	}

	return true, "", nil
}

// CheckTransactionExists checks if a transaction was mined
func (c *CheckerAdapter) CheckTransactionExists(ctx context.Context, txHash string) (exists bool, blockNumber uint64, reason string, err error) {
	if c.client == nil {
		return false, 0, "", fmt.Errorf("not connected to blockchain")
	}

	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	receipt, err := c.client.TransactionReceipt(ctx, common.HexToHash(txHash))
	if err != nil {
		if errors.Is(err, ethereum.NotFound) || strings.Contains(err.Error(), "not found") {
			return false, 0, "transaction not found on-chain", nil
		}
		return false, 0, "", fmt.Errorf("failed to get transaction receipt: %w", err)
	}

	if receipt.Status != types.ReceiptStatusSuccessful {
		return false, 0, "transaction reverted", nil
	}
	if receipt.BlockNumber != nil {
		return true, receipt.BlockNumber.Uint64(), "", nil
	}

	return true, 0, "", nil
}

// Ensure the adapter implements the interface
var _ usecase.DeploymentChecker = (*CheckerAdapter)(nil)
