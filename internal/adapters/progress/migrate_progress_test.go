package progress

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/trebuchet-org/treb-migrate/internal/domain"
	"github.com/trebuchet-org/treb-migrate/internal/usecase"
)

func TestMigrateProgress_NonInteractive(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	p := NewMigrateProgress(&buf, false)
	ctx := context.Background()

	owners := domain.DeploymentStep{Artifact: "CIDsOwners"}
	files := domain.DeploymentStep{Artifact: "IPFSUploadedFiles", Label: "files"}

	p.OnProgress(ctx, usecase.ProgressEvent{Stage: usecase.StageLoading, Message: "Loading migrations", Spinner: true})
	p.OnProgress(ctx, usecase.ProgressEvent{Stage: usecase.StageMigrationStarting, Current: 1, Total: 1, Message: "Running 1_initial"})
	p.OnProgress(ctx, usecase.ProgressEvent{Stage: usecase.StageStepStarting, Current: 1, Total: 2, Message: "Deploying CIDsOwners", Spinner: true})
	p.OnProgress(ctx, usecase.ProgressEvent{
		Stage:    usecase.StageStepCompleted,
		Metadata: &domain.DeployResult{Index: 1, Step: owners, Status: domain.StepSucceeded, Deployment: &domain.Deployment{Address: "0xabc"}},
	})
	p.OnProgress(ctx, usecase.ProgressEvent{Stage: usecase.StageStepStarting, Current: 2, Total: 2, Message: "Deploying files", Spinner: true})
	p.OnProgress(ctx, usecase.ProgressEvent{
		Stage:    usecase.StageStepFailed,
		Metadata: &domain.DeployResult{Index: 2, Step: files, Status: domain.StepFailed, Err: errors.New("out of gas")},
	})
	p.OnProgress(ctx, usecase.ProgressEvent{Stage: usecase.StageCompleted})

	out := buf.String()
	assert.Contains(t, out, "[1/1] Running 1_initial")
	assert.Contains(t, out, "(1/2) Deploying CIDsOwners")
	assert.Contains(t, out, "✓ CIDsOwners 0xabc")
	assert.Contains(t, out, "✗ files: out of gas")
	assert.NotContains(t, out, "Loading migrations")
}

func TestVerifyProgress_NonInteractive(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	v := NewVerifyProgress(&buf, false)

	v.OnProgress(context.Background(), usecase.ProgressEvent{Stage: usecase.StageChecking, Current: 1, Total: 3, Message: "Checking CIDsOwners at 0xabc"})
	v.OnProgress(context.Background(), usecase.ProgressEvent{Stage: usecase.StageCompleted})
	v.Error("boom")

	out := buf.String()
	assert.Contains(t, out, "[1/3] Checking CIDsOwners at 0xabc")
	assert.Contains(t, out, "Checked in")
	assert.Contains(t, out, "boom")
}
