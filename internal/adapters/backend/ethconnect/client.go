package ethconnect

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/trebuchet-org/treb-migrate/internal/domain"
	"github.com/trebuchet-org/treb-migrate/internal/domain/config"
	"github.com/trebuchet-org/treb-migrate/internal/usecase"
)

const (
	defaultPollInterval = time.Second
	defaultTimeout      = 5 * time.Minute

	messageTypeDeploy  = "DeployContract"
	replyTypeSuccess   = "TransactionSuccess"
	requestTimeoutSecs = 30
)

var errReplyPending = errors.New("reply not available yet")

// MessageRequest is the body of an asynchronous ethconnect message
type MessageRequest struct {
	Headers  MessageHeaders  `json:"headers"`
	From     string          `json:"from"`
	ABI      json.RawMessage `json:"abi,omitempty"`
	Compiled string          `json:"compiled"`
	Params   []domain.Value  `json:"params"`
}

type MessageHeaders struct {
	Type string `json:"type,omitempty"`
	ID   string `json:"id,omitempty"`
}

type MessageResponse struct {
	Sent bool   `json:"sent,omitempty"`
	ID   string `json:"id,omitempty"`
}

// Reply is the receipt ethconnect stores once a message is mined or fails
type Reply struct {
	ID              string        `json:"_id,omitempty"`
	Headers         *ReplyHeaders `json:"headers,omitempty"`
	ContractAddress string        `json:"contractAddress,omitempty"`
	TransactionHash string        `json:"transactionHash,omitempty"`
	BlockNumber     string        `json:"blockNumber,omitempty"`
	GasUsed         string        `json:"gasUsed,omitempty"`
	ErrorCode       string        `json:"errorCode,omitempty"`
	ErrorMessage    string        `json:"errorMessage,omitempty"`
}

type ReplyHeaders struct {
	ID          string  `json:"id,omitempty"`
	RequestID   string  `json:"requestId,omitempty"`
	TimeElapsed float64 `json:"timeElapsed,omitempty"`
	Type        string  `json:"type,omitempty"`
}

// Backend deploys through a FireFly ethconnect gateway, which signs with
// a managed account and reports the outcome as a reply message.
type Backend struct {
	network      *config.Network
	client       *http.Client
	pollInterval time.Duration
	timeout      time.Duration
	log          *slog.Logger
}

// NewBackend creates an ethconnect backend for the selected network
func NewBackend(cfg *config.RuntimeConfig, log *slog.Logger) *Backend {
	timeout := defaultTimeout
	if cfg.Project != nil {
		timeout = cfg.Project.Deployer.Timeout(defaultTimeout)
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Backend{
		network:      cfg.Network,
		client:       &http.Client{Timeout: requestTimeoutSecs * time.Second},
		pollInterval: defaultPollInterval,
		timeout:      timeout,
		log:          log,
	}
}

// Deploy sends a DeployContract message and waits for its reply
func (b *Backend) Deploy(ctx context.Context, artifact *domain.Artifact, args []domain.Value) (*domain.Deployment, error) {
	if !artifact.Deployable() {
		return nil, fmt.Errorf("%s has no creation bytecode (interface or abstract contract?)", artifact.Name)
	}
	if artifact.NeedsLinking() {
		return nil, fmt.Errorf("%s requires library linking, which is not supported", artifact.Name)
	}
	if b.network == nil {
		return nil, domain.ErrNoNetwork
	}
	if b.network.URL == "" {
		return nil, domain.NewConfigError("networks."+b.network.Name+".url", "required for the ethconnect backend")
	}
	if b.network.From == "" {
		return nil, domain.NewConfigError("networks."+b.network.Name+".from", "required for the ethconnect backend")
	}

	code, err := hex.DecodeString(strings.TrimPrefix(artifact.Bytecode, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid bytecode for %s: %w", artifact.Name, err)
	}
	if args == nil {
		args = []domain.Value{}
	}

	request := &MessageRequest{
		Headers:  MessageHeaders{Type: messageTypeDeploy},
		From:     b.network.From,
		ABI:      artifact.ABI,
		Compiled: base64.StdEncoding.EncodeToString(code),
		Params:   args,
	}

	response := &MessageResponse{}
	if err := b.request(ctx, http.MethodPost, b.network.URL, request, response); err != nil {
		return nil, fmt.Errorf("failed to send deployment of %s: %w", artifact.Name, err)
	}
	if response.ID == "" {
		return nil, fmt.Errorf("ethconnect did not return a message id for %s", artifact.Name)
	}
	b.log.Debug("deployment sent", "artifact", artifact.Name, "id", response.ID)

	reply, err := b.waitForReply(ctx, response.ID)
	if err != nil {
		return nil, fmt.Errorf("deployment of %s (message %s) not confirmed: %w", artifact.Name, response.ID, err)
	}
	if reply.Headers == nil || reply.Headers.Type != replyTypeSuccess {
		msg := reply.ErrorMessage
		if msg == "" {
			msg = "transaction failed"
		}
		return nil, fmt.Errorf("deployment of %s failed: %s", artifact.Name, msg)
	}

	dep := &domain.Deployment{
		Artifact:   artifact.Name,
		Address:    reply.ContractAddress,
		TxHash:     reply.TransactionHash,
		ChainID:    b.network.ChainID,
		Deployer:   b.network.From,
		DeployedAt: time.Now().UTC(),
	}
	dep.BlockNumber, _ = strconv.ParseUint(reply.BlockNumber, 10, 64)
	dep.GasUsed, _ = strconv.ParseUint(reply.GasUsed, 10, 64)
	return dep, nil
}

func (b *Backend) waitForReply(ctx context.Context, id string) (*Reply, error) {
	u, err := url.Parse(b.network.URL)
	if err != nil {
		return nil, err
	}
	u, err = u.Parse(path.Join("replies", id))
	if err != nil {
		return nil, err
	}
	replyURL := u.String()

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	for {
		reply := &Reply{}
		err := b.request(ctx, http.MethodGet, replyURL, nil, reply)
		if err == nil {
			return reply, nil
		}
		if !errors.Is(err, errReplyPending) {
			return nil, err
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(b.pollInterval):
		}
	}
}

func (b *Backend) request(ctx context.Context, method, requestURL string, body, result interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, bodyReader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Request-Timeout", strconv.Itoa(requestTimeoutSecs))

	resp, err := b.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound && method == http.MethodGet {
		return errReplyPending
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		responseBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s [%d] %s", requestURL, resp.StatusCode, responseBytes)
	}

	if result == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(result)
}

// Ensure the backend implements the interface
var _ usecase.DeploymentBackend = (*Backend)(nil)
