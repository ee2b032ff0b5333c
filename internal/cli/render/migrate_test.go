package render

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/trebuchet-org/treb-migrate/internal/domain"
	"github.com/trebuchet-org/treb-migrate/internal/domain/config"
	"github.com/trebuchet-org/treb-migrate/internal/usecase"
)

func TestMigrateRenderer(t *testing.T) {
	color.NoColor = true
	network := &config.Network{Name: "sepolia"}

	owners := &domain.Migration{Number: 1, Name: "owners", Steps: []domain.DeploymentStep{{Artifact: "CIDsOwners"}}}
	files := &domain.Migration{Number: 2, Name: "files", Steps: []domain.DeploymentStep{
		{Artifact: "IPFSUploadedFiles", Label: "files", Args: []domain.Value{"@CIDsOwners", 42}},
	}}

	t.Run("up to date", func(t *testing.T) {
		var buf bytes.Buffer
		assert.NoError(t, NewMigrateRenderer(&buf).Render(&usecase.RunMigrationsResult{Network: network}))
		assert.Contains(t, buf.String(), "sepolia is up to date")
	})

	t.Run("dry run plan", func(t *testing.T) {
		var buf bytes.Buffer
		result := &usecase.RunMigrationsResult{
			Network: network,
			DryRun:  true,
			Pending: []*domain.Migration{files},
			Outcomes: []*usecase.MigrationOutcome{{
				Migration: files,
				Artifacts: []*domain.Artifact{{Name: "IPFSUploadedFiles", Format: domain.FormatTruffle}},
			}},
		}
		assert.NoError(t, NewMigrateRenderer(&buf).Render(result))
		out := buf.String()
		assert.Contains(t, out, "2_files")
		assert.Contains(t, out, "@CIDsOwners")
		assert.Contains(t, out, "(truffle)")
		assert.Contains(t, out, "nothing was deployed")
	})

	t.Run("failure names the step", func(t *testing.T) {
		var buf bytes.Buffer
		stepErr := &domain.StepError{Index: 1, Name: "IPFSUploadedFiles", Err: fmt.Errorf("%w: out of gas", domain.ErrDeploymentRejected)}
		third := &domain.Migration{Number: 3, Name: "later"}
		result := &usecase.RunMigrationsResult{
			RunID:   "run-1",
			Network: network,
			Pending: []*domain.Migration{owners, files, third},
			Outcomes: []*usecase.MigrationOutcome{
				{Migration: owners, Results: []*domain.DeployResult{{
					Index:      1,
					Status:     domain.StepSucceeded,
					Deployment: &domain.Deployment{Artifact: "CIDsOwners", Address: "0x5FbDB2315678afecb367f032d93F642f64180aa3", Migration: 1},
				}}},
				{Migration: files, Err: stepErr},
			},
		}
		assert.NoError(t, NewMigrateRenderer(&buf).Render(result))
		out := buf.String()
		assert.Contains(t, out, "0x5FbDB2315678afecb367f032d93F642f64180aa3")
		assert.Contains(t, out, "Migration 2_files failed")
		assert.Contains(t, out, "step 1 (IPFSUploadedFiles)")
		assert.Contains(t, out, "1 later migration(s) were not attempted")
	})
}

func TestFormatError(t *testing.T) {
	color.NoColor = true
	assert.Equal(t, "❌ Boom", FormatError(errors.New("wrapped: boom").Error()))
	assert.Equal(t, "✅ done", FormatSuccess("done"))
	assert.Equal(t, "0x1234…cdef", shortHash("0x1234567890abcdef"))
	assert.Equal(t, "0x12", shortHash("0x12"))
}
