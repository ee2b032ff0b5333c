package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/trebuchet-org/treb-migrate/internal/domain"
	"github.com/trebuchet-org/treb-migrate/internal/usecase"
)

// StatusRenderer renders migration state for one network
type StatusRenderer struct {
	out io.Writer
}

var _ Renderer[*usecase.MigrationStatusResult] = (*StatusRenderer)(nil)

// NewStatusRenderer creates a new status renderer
func NewStatusRenderer(out io.Writer) *StatusRenderer {
	return &StatusRenderer{out: out}
}

// Render writes the migration table followed by recorded deployments
func (r *StatusRenderer) Render(result *usecase.MigrationStatusResult) error {
	headerColor.Fprintf(r.out, "Network: %s", result.Network.Name)
	if result.Network.ChainID != 0 {
		fmt.Fprintf(r.out, " (chain %d)", result.Network.ChainID)
	}
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out)

	if len(result.Entries) == 0 {
		fmt.Fprintln(r.out, "No migrations found")
	} else {
		title := cases.Title(language.English)
		t := newTable(r.out, table.Row{"#", "Migration", "Steps", "State", "Ran At"})
		for _, entry := range result.Entries {
			ranAt := "-"
			if entry.Record != nil && !entry.Record.RanAt.IsZero() {
				ranAt = entry.Record.RanAt.Local().Format("2006-01-02 15:04:05")
			}
			state := stateColor(entry.State).Sprint(title.String(string(entry.State)))
			if entry.State == domain.MigrationFailed && entry.Record != nil && entry.Record.FailedStep > 0 {
				state += faintColor.Sprintf(" at step %d", entry.Record.FailedStep)
			}
			t.AppendRow(table.Row{entry.Migration.Number, entry.Migration.Name, len(entry.Migration.Steps), state, ranAt})
		}
		t.Render()
	}

	if pending := result.PendingCount(); pending > 0 {
		fmt.Fprintln(r.out)
		fmt.Fprintf(r.out, "%d migration(s) pending\n", pending)
	}

	for _, record := range result.Orphaned {
		fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf(
			"Migration %d_%s is recorded but its file no longer exists", record.Number, record.Name,
		)))
	}

	if len(result.Deployments) > 0 {
		fmt.Fprintln(r.out)
		headerColor.Fprintln(r.out, "Deployments")
		t := newTable(r.out, table.Row{"Migration", "Contract", "Address", "Block"})
		for _, dep := range result.Deployments {
			block := "-"
			if dep.BlockNumber > 0 {
				block = fmt.Sprintf("%d", dep.BlockNumber)
			}
			name := dep.Artifact
			if dep.Label != "" && dep.Label != dep.Artifact {
				name = fmt.Sprintf("%s (%s)", dep.Label, dep.Artifact)
			}
			t.AppendRow(table.Row{dep.Migration, name, dep.Address, block})
		}
		t.Render()
	}

	return nil
}

func stateColor(state domain.MigrationState) *color.Color {
	switch state {
	case domain.MigrationCompleted:
		return successColor
	case domain.MigrationFailed:
		return errorColor
	default:
		return warnColor
	}
}
