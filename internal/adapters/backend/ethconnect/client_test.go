package ethconnect

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trebuchet-org/treb-migrate/internal/domain"
	"github.com/trebuchet-org/treb-migrate/internal/domain/config"
)

const (
	gatewayURL     = "http://localhost:5102"
	signer         = "0x2d5b58f2c5aa2b6a1ff38a8a6f1c4e0f4e2a1b3c"
	contractAddr   = "0x8389a2e4ff3a8e3d8b5ad9d1e2ff87c1c2b3a4d5"
	ownersBytecode = "0x6080604052"
)

func newTestBackend() *Backend {
	b := NewBackend(&config.RuntimeConfig{
		Network: &config.Network{
			Name:    "firefly",
			Backend: config.BackendEthconnect,
			URL:     gatewayURL,
			From:    signer,
			ChainID: 2021,
		},
	}, nil)
	b.pollInterval = time.Millisecond
	b.timeout = 2 * time.Second
	return b
}

func ownersArtifact() *domain.Artifact {
	return &domain.Artifact{
		Name:     "CIDsOwners",
		ABI:      json.RawMessage(`[{"type":"constructor","inputs":[{"name":"limit","type":"uint256"}]}]`),
		Bytecode: ownersBytecode,
	}
}

func TestBackend_Deploy(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	t.Run("sends the message and polls for the reply", func(t *testing.T) {
		httpmock.Reset()

		var sent MessageRequest
		httpmock.RegisterResponder("POST", gatewayURL,
			func(req *http.Request) (*http.Response, error) {
				if err := json.NewDecoder(req.Body).Decode(&sent); err != nil {
					return httpmock.NewStringResponse(400, err.Error()), nil
				}
				return httpmock.NewStringResponse(200, `{"sent":true,"id":"msg-1"}`), nil
			})

		// Not mined on the first poll
		httpmock.RegisterResponder("GET", gatewayURL+"/replies/msg-1",
			httpmock.NewStringResponder(404, `{"error":"not found"}`).Times(2).
				Then(httpmock.NewStringResponder(200, `{
					"_id": "msg-1",
					"headers": {"type": "TransactionSuccess", "requestId": "msg-1"},
					"contractAddress": "`+contractAddr+`",
					"transactionHash": "0xfeed",
					"blockNumber": "17",
					"gasUsed": "123456"
				}`)))

		dep, err := newTestBackend().Deploy(context.Background(), ownersArtifact(), []domain.Value{42})
		require.NoError(t, err)

		assert.Equal(t, contractAddr, dep.Address)
		assert.Equal(t, "0xfeed", dep.TxHash)
		assert.Equal(t, uint64(17), dep.BlockNumber)
		assert.Equal(t, uint64(123456), dep.GasUsed)
		assert.Equal(t, uint64(2021), dep.ChainID)
		assert.Equal(t, signer, dep.Deployer)

		assert.Equal(t, "DeployContract", sent.Headers.Type)
		assert.Equal(t, signer, sent.From)
		assert.Equal(t, "YIBgQFI=", sent.Compiled)
		assert.Equal(t, []domain.Value{float64(42)}, sent.Params)
		assert.JSONEq(t, string(ownersArtifact().ABI), string(sent.ABI))

		info := httpmock.GetCallCountInfo()
		assert.Equal(t, 1, info["POST "+gatewayURL])
		assert.Equal(t, 3, info["GET "+gatewayURL+"/replies/msg-1"])
	})

	t.Run("failure reply is rejected", func(t *testing.T) {
		httpmock.Reset()
		httpmock.RegisterResponder("POST", gatewayURL,
			httpmock.NewStringResponder(200, `{"sent":true,"id":"msg-2"}`))
		httpmock.RegisterResponder("GET", gatewayURL+"/replies/msg-2",
			httpmock.NewStringResponder(200, `{
				"headers": {"type": "Error"},
				"errorMessage": "execution reverted"
			}`))

		_, err := newTestBackend().Deploy(context.Background(), ownersArtifact(), []domain.Value{1})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "execution reverted")
	})

	t.Run("gateway error is not retried", func(t *testing.T) {
		httpmock.Reset()
		httpmock.RegisterResponder("POST", gatewayURL,
			httpmock.NewStringResponder(500, `{"error":"boom"}`))

		_, err := newTestBackend().Deploy(context.Background(), ownersArtifact(), []domain.Value{1})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "[500]")
		assert.Equal(t, 1, httpmock.GetTotalCallCount())
	})

	t.Run("gives up when no reply arrives", func(t *testing.T) {
		httpmock.Reset()
		httpmock.RegisterResponder("POST", gatewayURL,
			httpmock.NewStringResponder(200, `{"sent":true,"id":"msg-3"}`))
		httpmock.RegisterResponder("GET", gatewayURL+"/replies/msg-3",
			httpmock.NewStringResponder(404, `{}`))

		b := newTestBackend()
		b.timeout = 20 * time.Millisecond

		_, err := b.Deploy(context.Background(), ownersArtifact(), []domain.Value{1})
		require.Error(t, err)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestBackend_Validation(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	tests := []struct {
		name     string
		network  *config.Network
		artifact *domain.Artifact
		target   error
		errMsg   string
	}{
		{
			name:     "no network",
			artifact: ownersArtifact(),
			target:   domain.ErrNoNetwork,
		},
		{
			name:     "missing url",
			network:  &config.Network{Name: "firefly", From: signer},
			artifact: ownersArtifact(),
			target:   domain.ErrInvalidConfig,
			errMsg:   "networks.firefly.url",
		},
		{
			name:     "missing signer",
			network:  &config.Network{Name: "firefly", URL: gatewayURL},
			artifact: ownersArtifact(),
			target:   domain.ErrInvalidConfig,
			errMsg:   "networks.firefly.from",
		},
		{
			name:     "no bytecode",
			network:  &config.Network{Name: "firefly", URL: gatewayURL, From: signer},
			artifact: &domain.Artifact{Name: "ICIDsOwners", Bytecode: "0x"},
			errMsg:   "no creation bytecode",
		},
		{
			name:     "bad bytecode",
			network:  &config.Network{Name: "firefly", URL: gatewayURL, From: signer},
			artifact: &domain.Artifact{Name: "Broken", Bytecode: "0xzz"},
			errMsg:   "invalid bytecode",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBackend(&config.RuntimeConfig{Network: tt.network}, nil)
			_, err := b.Deploy(context.Background(), tt.artifact, nil)
			require.Error(t, err)
			if tt.target != nil {
				assert.ErrorIs(t, err, tt.target)
			}
			if tt.errMsg != "" {
				assert.Contains(t, err.Error(), tt.errMsg)
			}
		})
	}
	assert.Zero(t, httpmock.GetTotalCallCount())
}
