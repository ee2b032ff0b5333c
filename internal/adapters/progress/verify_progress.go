package progress

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"github.com/trebuchet-org/treb-migrate/internal/usecase"
)

// VerifyProgress implements progress reporting for deployment checks
type VerifyProgress struct {
	out         io.Writer
	interactive bool
	spinner     *lineSpinner
	startTime   time.Time
}

// NewVerifyProgress creates a new verification progress reporter
func NewVerifyProgress(out io.Writer, interactive bool) *VerifyProgress {
	return &VerifyProgress{
		out:         out,
		interactive: interactive,
		spinner:     newLineSpinner(out),
		startTime:   time.Now(),
	}
}

// OnProgress handles progress events
func (v *VerifyProgress) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	switch event.Stage {
	case usecase.StageChecking:
		if v.interactive {
			v.spinner.start(fmt.Sprintf("[%d/%d] %s", event.Current, event.Total, event.Message))
			return
		}
		fmt.Fprintf(v.out, "[%d/%d] %s\n", event.Current, event.Total, event.Message)

	case usecase.StageCompleted:
		v.spinner.stop()
		duration := time.Since(v.startTime)
		color.New(color.FgGreen).Fprintf(v.out, "Checked in %s\n", duration.Round(time.Millisecond))
	}
}

// Info prints an info message
func (v *VerifyProgress) Info(message string) {
	v.spinner.println(color.New(color.FgCyan), message)
}

// Error prints an error message
func (v *VerifyProgress) Error(message string) {
	v.spinner.println(color.New(color.FgRed), message)
}

var _ usecase.ProgressSink = (*VerifyProgress)(nil)
