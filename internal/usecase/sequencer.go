package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/trebuchet-org/treb-migrate/internal/domain"
)

// Sequencer resolves each step's artifact and deploys it, one step at a
// time, in declaration order. The first failure stops the run.
type Sequencer struct {
	registry ArtifactRegistry
	backend  DeploymentBackend
	sink     ProgressSink
	log      *slog.Logger
}

// NewSequencer creates a new Sequencer
func NewSequencer(registry ArtifactRegistry, backend DeploymentBackend, sink ProgressSink, log *slog.Logger) *Sequencer {
	if sink == nil {
		sink = NopProgress{}
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Sequencer{
		registry: registry,
		backend:  backend,
		sink:     sink,
		log:      log,
	}
}

// Run executes steps in order and returns one result per executed step.
//
// An empty slice is a valid no-op run. A malformed declaration fails
// before any step runs. Otherwise the returned slice holds every step up
// to and including the one that failed, and the error is a
// *domain.StepError. The context is checked between steps only: a deploy
// call that has started is always allowed to finish.
func (s *Sequencer) Run(ctx context.Context, steps []domain.DeploymentStep) ([]*domain.DeployResult, error) {
	results := make([]*domain.DeployResult, 0, len(steps))
	if err := domain.ValidateSteps(steps); err != nil {
		return results, err
	}

	deployed := make(map[string]string, len(steps))
	for i, step := range steps {
		index := i + 1
		name := strings.TrimSpace(step.Artifact)

		if err := ctx.Err(); err != nil {
			s.log.Debug("run cancelled", "before_step", index, "artifact", name)
			return results, fmt.Errorf("run cancelled before step %d (%s): %w", index, name, err)
		}

		s.sink.OnProgress(ctx, ProgressEvent{
			Stage:   StageStepStarting,
			Current: index,
			Total:   len(steps),
			Message: fmt.Sprintf("Deploying %s", step.Key()),
			Spinner: true,
		})

		result := &domain.DeployResult{Index: index, Step: step}
		results = append(results, result)

		dep, err := s.runStep(ctx, name, step, deployed)
		if err != nil {
			result.Status = domain.StepFailed
			result.Err = err
			s.log.Debug("step failed", "step", index, "artifact", name, "error", err)
			s.sink.OnProgress(ctx, ProgressEvent{
				Stage:    StageStepFailed,
				Current:  index,
				Total:    len(steps),
				Message:  fmt.Sprintf("%s failed", step.Key()),
				Metadata: result,
			})
			return results, &domain.StepError{Index: index, Name: name, Err: err}
		}

		result.Status = domain.StepSucceeded
		result.Deployment = dep
		deployed[step.Key()] = dep.Address
		s.log.Debug("step deployed", "step", index, "artifact", name, "address", dep.Address)
		s.sink.OnProgress(ctx, ProgressEvent{
			Stage:    StageStepCompleted,
			Current:  index,
			Total:    len(steps),
			Message:  fmt.Sprintf("%s deployed at %s", step.Key(), dep.Address),
			Metadata: result,
		})
	}

	return results, nil
}

func (s *Sequencer) runStep(ctx context.Context, name string, step domain.DeploymentStep, deployed map[string]string) (*domain.Deployment, error) {
	artifact, err := s.registry.Resolve(ctx, name)
	if err != nil {
		if errors.Is(err, domain.ErrArtifactNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrArtifactNotFound, err)
	}

	args, err := resolveArgs(step.Args, deployed)
	if err != nil {
		return nil, err
	}

	dep, err := s.backend.Deploy(context.WithoutCancel(ctx), artifact, args)
	if err != nil {
		if errors.Is(err, domain.ErrDeploymentRejected) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrDeploymentRejected, err)
	}
	if dep == nil {
		return nil, fmt.Errorf("%w: backend returned no deployment", domain.ErrDeploymentRejected)
	}

	dep.Artifact = name
	dep.Label = strings.TrimSpace(step.Label)
	return dep, nil
}

// Plan validates steps and resolves every artifact without deploying.
func (s *Sequencer) Plan(ctx context.Context, steps []domain.DeploymentStep) ([]*domain.Artifact, error) {
	if err := domain.ValidateSteps(steps); err != nil {
		return nil, err
	}

	artifacts := make([]*domain.Artifact, 0, len(steps))
	for i, step := range steps {
		name := strings.TrimSpace(step.Artifact)
		artifact, err := s.registry.Resolve(ctx, name)
		if err != nil {
			return artifacts, &domain.StepError{Index: i + 1, Name: name, Err: err}
		}
		artifacts = append(artifacts, artifact)
	}
	return artifacts, nil
}

// resolveArgs replaces "@Key" references with addresses deployed earlier in the run
func resolveArgs(args []domain.Value, deployed map[string]string) ([]domain.Value, error) {
	if len(args) == 0 {
		return nil, nil
	}

	out := make([]domain.Value, len(args))
	for i, arg := range args {
		resolved, err := resolveArg(arg, deployed)
		if err != nil {
			return nil, err
		}
		out[i] = resolved
	}
	return out, nil
}

func resolveArg(arg domain.Value, deployed map[string]string) (domain.Value, error) {
	switch v := arg.(type) {
	case []domain.Value:
		return resolveArgs(v, deployed)
	case map[string]domain.Value:
		out := make(map[string]domain.Value, len(v))
		for key, field := range v {
			resolved, err := resolveArg(field, deployed)
			if err != nil {
				return nil, err
			}
			out[key] = resolved
		}
		return out, nil
	}

	ref, ok := domain.StepRef(arg)
	if !ok {
		return arg, nil
	}
	address, ok := deployed[ref]
	if !ok {
		return nil, fmt.Errorf("%w: %q does not name an earlier step", domain.ErrInvalidStepDeclaration, arg)
	}
	return address, nil
}
