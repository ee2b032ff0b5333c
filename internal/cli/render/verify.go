package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/trebuchet-org/treb-migrate/internal/usecase"
)

// VerifyRenderer renders on-chain checks of recorded deployments
type VerifyRenderer struct {
	out io.Writer
}

var _ Renderer[*usecase.VerifyDeploymentsResult] = (*VerifyRenderer)(nil)

// NewVerifyRenderer creates a new verify renderer
func NewVerifyRenderer(out io.Writer) *VerifyRenderer {
	return &VerifyRenderer{out: out}
}

// Render writes one row per checked deployment and a summary line
func (r *VerifyRenderer) Render(result *usecase.VerifyDeploymentsResult) error {
	if len(result.Checks) == 0 {
		warnColor.Fprintf(r.out, "No deployments recorded for %s\n", result.Network.Name)
		return nil
	}

	t := newTable(r.out, table.Row{"", "Contract", "Address", "Block", "Note"})
	for _, check := range result.Checks {
		dep := check.Deployment
		icon := successColor.Sprint("✓")
		if !check.OK() {
			icon = errorColor.Sprint("✗")
		}
		block := "-"
		if check.BlockNumber > 0 {
			block = fmt.Sprintf("%d", check.BlockNumber)
		}
		note := check.Reason
		if note == "" && dep.TxHash == "" {
			note = faintColor.Sprint("no transaction recorded")
		}
		name := dep.Artifact
		if dep.Label != "" && dep.Label != dep.Artifact {
			name = fmt.Sprintf("%s (%s)", dep.Label, dep.Artifact)
		}
		t.AppendRow(table.Row{icon, name, dep.Address, block, note})
	}
	t.Render()
	fmt.Fprintln(r.out)

	if failed := result.Failed(); failed > 0 {
		fmt.Fprintln(r.out, errorColor.Sprintf("❌ %d of %d deployment(s) missing on %s", failed, len(result.Checks), result.Network.Name))
		return nil
	}
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("All %d deployment(s) found on %s", len(result.Checks), result.Network.Name)))
	return nil
}
