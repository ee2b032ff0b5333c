package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/trebuchet-org/treb-migrate/internal/domain"
)

// ListArtifactsParams contains parameters for listing artifacts
type ListArtifactsParams struct {
	Filter         string // Substring match on artifact name
	DeployableOnly bool
}

// ListArtifactsResult contains the artifacts found in the build output
type ListArtifactsResult struct {
	Artifacts []*domain.Artifact
}

// ListArtifacts lists the build artifacts that steps can reference
type ListArtifacts struct {
	registry ArtifactRegistry
}

// NewListArtifacts creates a new ListArtifacts use case
func NewListArtifacts(registry ArtifactRegistry) *ListArtifacts {
	return &ListArtifacts{registry: registry}
}

// Run executes the use case
func (uc *ListArtifacts) Run(ctx context.Context, params ListArtifactsParams) (*ListArtifactsResult, error) {
	artifacts, err := uc.registry.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}

	filter := strings.ToLower(params.Filter)
	filtered := make([]*domain.Artifact, 0, len(artifacts))
	for _, artifact := range artifacts {
		if filter != "" && !strings.Contains(strings.ToLower(artifact.Name), filter) {
			continue
		}
		if params.DeployableOnly && !artifact.Deployable() {
			continue
		}
		filtered = append(filtered, artifact)
	}

	sort.Slice(filtered, func(i, j int) bool {
		if filtered[i].Name != filtered[j].Name {
			return filtered[i].Name < filtered[j].Name
		}
		return filtered[i].SourcePath < filtered[j].SourcePath
	})

	return &ListArtifactsResult{Artifacts: filtered}, nil
}
