package blockchain

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient/simulated"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trebuchet-org/treb-migrate/internal/domain"
	"github.com/trebuchet-org/treb-migrate/internal/domain/config"
)

// deploys runtime code that returns 42
var creationCode = common.FromHex("0x600a600c600039600a6000f3602a60005260206000f3")

func deployOnSim(t *testing.T) (*simulated.Backend, common.Address, common.Hash) {
	t.Helper()
	ctx := context.Background()

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	from := crypto.PubkeyToAddress(key.PublicKey)

	sim := simulated.NewBackend(types.GenesisAlloc{
		from: {Balance: big.NewInt(1e18)},
	})
	t.Cleanup(func() { _ = sim.Close() })
	client := sim.Client()

	chainID, err := client.ChainID(ctx)
	require.NoError(t, err)
	gasPrice, err := client.SuggestGasPrice(ctx)
	require.NoError(t, err)

	tx := types.NewContractCreation(0, big.NewInt(0), 200_000, gasPrice, creationCode)
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(chainID), key)
	require.NoError(t, err)
	require.NoError(t, client.SendTransaction(ctx, signed))
	sim.Commit()

	return sim, crypto.CreateAddress(from, 0), signed.Hash()
}

func TestCheckerAdapter(t *testing.T) {
	sim, deployed, txHash := deployOnSim(t)
	ctx := context.Background()

	checker := NewCheckerAdapterWithDialer(func(ctx context.Context, url string) (Client, error) {
		return sim.Client(), nil
	})
	network := &config.Network{Name: "sim", RPCURL: "http://simulated"}
	require.NoError(t, checker.Connect(ctx, network))
	assert.Equal(t, uint64(1337), checker.ChainID())

	t.Run("code at deployed address", func(t *testing.T) {
		exists, reason, err := checker.CheckDeploymentExists(ctx, deployed.Hex())
		require.NoError(t, err)
		assert.True(t, exists)
		assert.Empty(t, reason)
	})

	t.Run("no code at other address", func(t *testing.T) {
		exists, reason, err := checker.CheckDeploymentExists(ctx, "0x000000000000000000000000000000000000dEaD")
		require.NoError(t, err)
		assert.False(t, exists)
		assert.Equal(t, "no code at address", reason)
	})

	t.Run("malformed address", func(t *testing.T) {
		exists, reason, err := checker.CheckDeploymentExists(ctx, "0x1234")
		require.NoError(t, err)
		assert.False(t, exists)
		assert.Contains(t, reason, "invalid address")
	})

	t.Run("mined transaction", func(t *testing.T) {
		exists, block, reason, err := checker.CheckTransactionExists(ctx, txHash.Hex())
		require.NoError(t, err)
		assert.True(t, exists)
		assert.Equal(t, uint64(1), block)
		assert.Empty(t, reason)
	})

	t.Run("unknown transaction", func(t *testing.T) {
		exists, _, reason, err := checker.CheckTransactionExists(ctx, common.Hash{0x01}.Hex())
		require.NoError(t, err)
		assert.False(t, exists)
		assert.Equal(t, "transaction not found on-chain", reason)
	})
}

func TestCheckerAdapter_Connect(t *testing.T) {
	sim, _, _ := deployOnSim(t)
	ctx := context.Background()
	dial := func(ctx context.Context, url string) (Client, error) {
		return sim.Client(), nil
	}

	t.Run("no network", func(t *testing.T) {
		err := NewCheckerAdapterWithDialer(dial).Connect(ctx, nil)
		assert.ErrorIs(t, err, domain.ErrNoNetwork)
	})

	t.Run("ethconnect network without rpc url", func(t *testing.T) {
		err := NewCheckerAdapterWithDialer(dial).Connect(ctx, &config.Network{
			Name:    "firefly",
			Backend: config.BackendEthconnect,
			URL:     "http://localhost:5102",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidConfig)
		assert.Contains(t, err.Error(), "networks.firefly.rpc_url")
	})

	t.Run("chain id mismatch", func(t *testing.T) {
		err := NewCheckerAdapterWithDialer(dial).Connect(ctx, &config.Network{
			Name:    "mainnet",
			RPCURL:  "http://simulated",
			ChainID: 1,
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "chain ID mismatch: expected 1, got 1337")
	})

	t.Run("not connected", func(t *testing.T) {
		_, _, err := NewCheckerAdapter().CheckDeploymentExists(ctx, "0x000000000000000000000000000000000000dEaD")
		assert.Error(t, err)
	})
}
