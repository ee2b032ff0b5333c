package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"

	"github.com/trebuchet-org/treb-migrate/internal/domain"
	"github.com/trebuchet-org/treb-migrate/internal/usecase"
)

// MigrateRenderer renders the result of a migrate run
type MigrateRenderer struct {
	out io.Writer
}

var _ Renderer[*usecase.RunMigrationsResult] = (*MigrateRenderer)(nil)

// NewMigrateRenderer creates a new migrate renderer
func NewMigrateRenderer(out io.Writer) *MigrateRenderer {
	return &MigrateRenderer{out: out}
}

// Render writes either the dry-run plan or the run summary
func (r *MigrateRenderer) Render(result *usecase.RunMigrationsResult) error {
	if len(result.Pending) == 0 {
		fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("%s is up to date", result.Network.Name)))
		return nil
	}

	if result.DryRun {
		return r.renderPlan(result)
	}
	return r.renderSummary(result)
}

func (r *MigrateRenderer) renderPlan(result *usecase.RunMigrationsResult) error {
	headerColor.Fprintf(r.out, "Migration plan for %s\n\n", result.Network.Name)

	for _, outcome := range result.Outcomes {
		m := outcome.Migration
		fmt.Fprintf(r.out, "%d_%s\n", m.Number, m.Name)
		if outcome.Err != nil {
			fmt.Fprintf(r.out, "  %s\n\n", FormatError(outcome.Err.Error()))
			continue
		}

		t := newTable(r.out, table.Row{"#", "Step", "Artifact", "Args"})
		for i, step := range m.Steps {
			format := ""
			if i < len(outcome.Artifacts) && outcome.Artifacts[i] != nil {
				format = string(outcome.Artifacts[i].Format)
			}
			artifact := step.Artifact
			if format != "" {
				artifact = fmt.Sprintf("%s %s", step.Artifact, faintColor.Sprintf("(%s)", format))
			}
			t.AppendRow(table.Row{i + 1, step.Key(), artifact, formatArgs(step.Args)})
		}
		t.Render()
		fmt.Fprintln(r.out)
	}

	fmt.Fprintln(r.out, faintColor.Sprint("Dry run: nothing was deployed"))
	return nil
}

func (r *MigrateRenderer) renderSummary(result *usecase.RunMigrationsResult) error {
	deployments := result.Deployments()
	if len(deployments) > 0 {
		fmt.Fprintln(r.out)
		t := newTable(r.out, table.Row{"Migration", "Contract", "Address", "Tx", "Gas"})
		for _, dep := range deployments {
			name := dep.Artifact
			if dep.Label != "" && dep.Label != dep.Artifact {
				name = fmt.Sprintf("%s (%s)", dep.Label, dep.Artifact)
			}
			t.AppendRow(table.Row{dep.Migration, name, dep.Address, shortHash(dep.TxHash), formatGas(dep.GasUsed)})
		}
		t.Render()
	}

	fmt.Fprintln(r.out)
	failed, ok := lo.Find(result.Outcomes, func(o *usecase.MigrationOutcome) bool { return !o.Succeeded() })
	if !ok {
		fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf(
			"Ran %d migration(s) on %s, %d contract(s) deployed",
			len(result.Outcomes), result.Network.Name, len(deployments),
		)))
		fmt.Fprintln(r.out, faintColor.Sprintf("run %s", result.RunID))
		return nil
	}

	fmt.Fprintln(r.out, errorColor.Sprintf("❌ Migration %d_%s failed", failed.Migration.Number, failed.Migration.Name))
	if stepErr, ok := lo.ErrorsAs[*domain.StepError](failed.Err); ok {
		fmt.Fprintf(r.out, "   step %d (%s): %v\n", stepErr.Index, stepErr.Name, stepErr.Err)
	} else {
		fmt.Fprintf(r.out, "   %v\n", failed.Err)
	}
	if skipped := len(result.Pending) - len(result.Outcomes); skipped > 0 {
		fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf("%d later migration(s) were not attempted", skipped)))
	}
	return nil
}

func formatArgs(args []domain.Value) string {
	if len(args) == 0 {
		return "-"
	}
	parts := lo.Map(args, func(arg domain.Value, _ int) string {
		if ref, ok := domain.StepRef(arg); ok {
			return warnColor.Sprintf("@%s", ref)
		}
		return fmt.Sprintf("%v", arg)
	})
	return fmt.Sprint(parts)
}

func formatGas(gas uint64) string {
	if gas == 0 {
		return "-"
	}
	return fmt.Sprintf("%d", gas)
}
