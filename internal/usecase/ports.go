package usecase

import (
	"context"

	"github.com/trebuchet-org/treb-migrate/internal/domain"
	"github.com/trebuchet-org/treb-migrate/internal/domain/config"
)

// ArtifactRegistry resolves artifact names to compiled build output
type ArtifactRegistry interface {
	// Resolve returns the artifact for name, or an error wrapping domain.ErrArtifactNotFound
	Resolve(ctx context.Context, name string) (*domain.Artifact, error)
	// List returns every artifact the registry knows about
	List(ctx context.Context) ([]*domain.Artifact, error)
}

// DeploymentBackend publishes an artifact and waits for confirmation
type DeploymentBackend interface {
	Deploy(ctx context.Context, artifact *domain.Artifact, args []domain.Value) (*domain.Deployment, error)
}

// MigrationLoader reads migration declarations in execution order
type MigrationLoader interface {
	Load(ctx context.Context) ([]*domain.Migration, error)
}

// JournalStore persists which migrations ran on a network
type JournalStore interface {
	Load(ctx context.Context, network string) (*domain.Journal, error)
	Save(ctx context.Context, journal *domain.Journal) error
	Delete(ctx context.Context, network string) error
}

// DeploymentChecker checks on-chain state of recorded deployments
type DeploymentChecker interface {
	Connect(ctx context.Context, network *config.Network) error
	CheckDeploymentExists(ctx context.Context, address string) (exists bool, reason string, err error)
	CheckTransactionExists(ctx context.Context, txHash string) (exists bool, blockNumber uint64, reason string, err error)
}

// NetworkResolver looks up configured networks
type NetworkResolver interface {
	GetNetworks(ctx context.Context) []string
	ResolveNetwork(ctx context.Context, name string) (*config.Network, error)
}

// LocalConfigStore persists .treb/config.local.json
type LocalConfigStore interface {
	Exists() bool
	Load(ctx context.Context) (*config.LocalConfig, error)
	Save(ctx context.Context, cfg *config.LocalConfig) error
	GetPath() string
}

// FileWriter creates project scaffolding
type FileWriter interface {
	WriteFile(ctx context.Context, path string, content string) error
	FileExists(ctx context.Context, path string) (bool, error)
	EnsureDirectory(ctx context.Context, path string) error
}

// Confirmer asks the user before anything is published
type Confirmer interface {
	Confirm(ctx context.Context, message string) (bool, error)
}

// Progress tracking interfaces

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage    string
	Current  int
	Total    int
	Message  string
	Spinner  bool
	Metadata interface{}
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string)                               {}
func (NopProgress) Error(string)                              {}

// Progress stages emitted by the use cases
const (
	StageStepStarting       = "step_starting"
	StageStepCompleted      = "step_completed"
	StageStepFailed         = "step_failed"
	StageMigrationStarting  = "migration_starting"
	StageMigrationCompleted = "migration_completed"
	StageLoading            = "loading"
	StageChecking           = "checking"
	StageCompleted          = "completed"
)
