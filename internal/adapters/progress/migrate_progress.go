package progress

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"github.com/trebuchet-org/treb-migrate/internal/domain"
	"github.com/trebuchet-org/treb-migrate/internal/usecase"
)

var (
	headerColor  = color.New(color.FgCyan, color.Bold)
	successColor = color.New(color.FgGreen)
	failColor    = color.New(color.FgRed)
	faintColor   = color.New(color.Faint)
)

// MigrateProgress reports migration runs step by step. In interactive
// mode a spinner runs while a deployment waits for confirmation.
type MigrateProgress struct {
	out         io.Writer
	interactive bool
	spinner     *lineSpinner
	stepStart   time.Time
}

// NewMigrateProgress creates a migrate progress reporter
func NewMigrateProgress(out io.Writer, interactive bool) *MigrateProgress {
	return &MigrateProgress{
		out:         out,
		interactive: interactive,
		spinner:     newLineSpinner(out),
	}
}

// OnProgress handles progress events
func (p *MigrateProgress) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	switch event.Stage {
	case usecase.StageLoading:
		if p.interactive && event.Spinner {
			p.spinner.start(event.Message)
		}

	case usecase.StageMigrationStarting:
		p.spinner.stop()
		headerColor.Fprintf(p.out, "\n[%d/%d] %s\n", event.Current, event.Total, event.Message)

	case usecase.StageStepStarting:
		p.stepStart = time.Now()
		message := fmt.Sprintf("(%d/%d) %s", event.Current, event.Total, event.Message)
		if p.interactive {
			p.spinner.start(message)
		} else {
			fmt.Fprintf(p.out, "  %s\n", message)
		}

	case usecase.StageStepCompleted:
		p.spinner.stop()
		if result, ok := event.Metadata.(*domain.DeployResult); ok && result.Deployment != nil {
			fmt.Fprintf(p.out, "  %s %s %s %s\n",
				successColor.Sprint("✓"),
				result.Step.Key(),
				successColor.Sprint(result.Deployment.Address),
				faintColor.Sprintf("(%s)", time.Since(p.stepStart).Round(time.Millisecond)))
			return
		}
		fmt.Fprintf(p.out, "  %s %s\n", successColor.Sprint("✓"), event.Message)

	case usecase.StageStepFailed:
		p.spinner.stop()
		if result, ok := event.Metadata.(*domain.DeployResult); ok && result.Err != nil {
			fmt.Fprintf(p.out, "  %s %s: %v\n", failColor.Sprint("✗"), result.Step.Key(), result.Err)
			return
		}
		fmt.Fprintf(p.out, "  %s %s\n", failColor.Sprint("✗"), event.Message)

	case usecase.StageMigrationCompleted, usecase.StageCompleted:
		p.spinner.stop()
		if event.Message != "" {
			fmt.Fprintln(p.out, event.Message)
		}
	}
}

// Info prints an info message
func (p *MigrateProgress) Info(message string) {
	p.spinner.println(color.New(color.FgCyan), message)
}

// Error prints an error message
func (p *MigrateProgress) Error(message string) {
	p.spinner.println(color.New(color.FgRed), message)
}

var _ usecase.ProgressSink = (*MigrateProgress)(nil)
