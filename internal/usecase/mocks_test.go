package usecase_test

import (
	"context"
	"fmt"

	"github.com/stretchr/testify/mock"
	"github.com/trebuchet-org/treb-migrate/internal/domain"
	"github.com/trebuchet-org/treb-migrate/internal/domain/config"
	"github.com/trebuchet-org/treb-migrate/internal/usecase"
)

// MockArtifactRegistry is a mock implementation of ArtifactRegistry
type MockArtifactRegistry struct {
	mock.Mock
}

func (m *MockArtifactRegistry) Resolve(ctx context.Context, name string) (*domain.Artifact, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Artifact), args.Error(1)
}

func (m *MockArtifactRegistry) List(ctx context.Context) ([]*domain.Artifact, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Artifact), args.Error(1)
}

// withArtifacts registers a resolvable artifact for every name
func (m *MockArtifactRegistry) withArtifacts(names ...string) *MockArtifactRegistry {
	for _, name := range names {
		m.On("Resolve", mock.Anything, name).Return(testArtifact(name), nil)
	}
	return m
}

// withMissing registers names that do not resolve
func (m *MockArtifactRegistry) withMissing(names ...string) *MockArtifactRegistry {
	for _, name := range names {
		m.On("Resolve", mock.Anything, name).Return(nil, fmt.Errorf("%w: %s", domain.ErrArtifactNotFound, name))
	}
	return m
}

// MockDeploymentBackend is a mock implementation of DeploymentBackend
type MockDeploymentBackend struct {
	mock.Mock
}

func (m *MockDeploymentBackend) Deploy(ctx context.Context, artifact *domain.Artifact, values []domain.Value) (*domain.Deployment, error) {
	args := m.Called(ctx, artifact, values)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	// Hand out a copy so repeated calls never share a handle
	dep := *args.Get(0).(*domain.Deployment)
	return &dep, args.Error(1)
}

// deployed returns artifact names in the order Deploy was called
func (m *MockDeploymentBackend) deployed() []string {
	var names []string
	for _, call := range m.Calls {
		if call.Method == "Deploy" {
			names = append(names, call.Arguments.Get(1).(*domain.Artifact).Name)
		}
	}
	return names
}

// expectDeploy makes Deploy of name succeed at address
func (m *MockDeploymentBackend) expectDeploy(name, address string) *mock.Call {
	return m.On("Deploy", mock.Anything, artifactNamed(name), mock.Anything).
		Return(&domain.Deployment{Address: address, TxHash: "0xtx" + name}, nil)
}

func artifactNamed(name string) interface{} {
	return mock.MatchedBy(func(a *domain.Artifact) bool { return a.Name == name })
}

// MockMigrationLoader is a mock implementation of MigrationLoader
type MockMigrationLoader struct {
	mock.Mock
}

func (m *MockMigrationLoader) Load(ctx context.Context) ([]*domain.Migration, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Migration), args.Error(1)
}

// MockJournalStore is a mock implementation of JournalStore
type MockJournalStore struct {
	mock.Mock
}

func (m *MockJournalStore) Load(ctx context.Context, network string) (*domain.Journal, error) {
	args := m.Called(ctx, network)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
}

func (m *MockJournalStore) Save(ctx context.Context, journal *domain.Journal) error {
	args := m.Called(ctx, journal)
	return args.Error(0)
}

func (m *MockJournalStore) Delete(ctx context.Context, network string) error {
	args := m.Called(ctx, network)
	return args.Error(0)
}

// MockConfirmer is a mock implementation of Confirmer
type MockConfirmer struct {
	mock.Mock
}

func (m *MockConfirmer) Confirm(ctx context.Context, message string) (bool, error) {
	args := m.Called(ctx, message)
	return args.Bool(0), args.Error(1)
}

// MockDeploymentChecker is a mock implementation of DeploymentChecker
type MockDeploymentChecker struct {
	mock.Mock
}

func (m *MockDeploymentChecker) Connect(ctx context.Context, network *config.Network) error {
	args := m.Called(ctx, network)
	return args.Error(0)
}

func (m *MockDeploymentChecker) CheckDeploymentExists(ctx context.Context, address string) (bool, string, error) {
	args := m.Called(ctx, address)
	return args.Bool(0), args.String(1), args.Error(2)
}

func (m *MockDeploymentChecker) CheckTransactionExists(ctx context.Context, txHash string) (bool, uint64, string, error) {
	args := m.Called(ctx, txHash)
	return args.Bool(0), args.Get(1).(uint64), args.String(2), args.Error(3)
}

// MockNetworkResolver is a mock implementation of NetworkResolver
type MockNetworkResolver struct {
	mock.Mock
}

func (m *MockNetworkResolver) GetNetworks(ctx context.Context) []string {
	args := m.Called(ctx)
	return args.Get(0).([]string)
}

func (m *MockNetworkResolver) ResolveNetwork(ctx context.Context, name string) (*config.Network, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*config.Network), args.Error(1)
}

// recordingSink collects progress events
type recordingSink struct {
	usecase.NopProgress
	events []usecase.ProgressEvent
}

func (s *recordingSink) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	s.events = append(s.events, event)
}

func (s *recordingSink) stages() []string {
	stages := make([]string, 0, len(s.events))
	for _, e := range s.events {
		stages = append(stages, e.Stage)
	}
	return stages
}

func testArtifact(name string) *domain.Artifact {
	return &domain.Artifact{
		Name:         name,
		ArtifactPath: "out/" + name + ".sol/" + name + ".json",
		Format:       domain.FormatFoundry,
		ABI:          []byte(`[]`),
		Bytecode:     "0x6080604052",
	}
}

func steps(names ...string) []domain.DeploymentStep {
	out := make([]domain.DeploymentStep, 0, len(names))
	for _, name := range names {
		out = append(out, domain.DeploymentStep{Artifact: name})
	}
	return out
}
