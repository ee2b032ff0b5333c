package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/trebuchet-org/treb-migrate/internal/usecase"
)

// InitRenderer renders init command results
type InitRenderer struct {
	out io.Writer
}

var _ Renderer[*usecase.InitProjectResult] = (*InitRenderer)(nil)

// NewInitRenderer creates a new init renderer
func NewInitRenderer(out io.Writer) *InitRenderer {
	return &InitRenderer{out: out}
}

// Render renders the init project result
func (r *InitRenderer) Render(result *usecase.InitProjectResult) error {
	for _, step := range result.Steps {
		if step.Success {
			successColor.Fprintf(r.out, "✅ %s", step.Name)
			if step.Message != "" {
				faintColor.Fprintf(r.out, " (%s)", step.Message)
			}
			fmt.Fprintln(r.out)
			continue
		}
		errorColor.Fprintf(r.out, "❌ %s\n", step.Name)
		if step.Error != nil {
			fmt.Fprintf(r.out, "   %s\n", step.Error.Error())
		}
	}

	for _, step := range result.Steps {
		if !step.Success {
			return nil
		}
	}

	fmt.Fprintln(r.out)
	if result.AlreadyInitialized {
		fmt.Fprintln(r.out, FormatWarning("migrate.toml already existed and was left untouched"))
	} else {
		color.New(color.FgGreen, color.Bold).Fprintln(r.out, "🎉 Project initialized!")
	}
	if result.BuildDir != "" {
		fmt.Fprintf(r.out, "Using build artifacts from %s\n", result.BuildDir)
	}

	fmt.Fprintln(r.out)
	headerColor.Fprintln(r.out, "📋 Next steps:")
	fmt.Fprintln(r.out, "1. Copy .env.example to .env and set DEPLOYER_PRIVATE_KEY")
	fmt.Fprintln(r.out, "2. Add your networks under [networks.<name>] in migrate.toml")
	fmt.Fprintln(r.out, "3. List the contracts steps can reference:")
	faintColor.Fprintln(r.out, "   treb-migrate artifacts --deployable")
	fmt.Fprintln(r.out, "4. Edit migrations/1_initial.yaml, then preview and run it:")
	faintColor.Fprintln(r.out, "   treb-migrate migrate --network anvil --dry-run")
	faintColor.Fprintln(r.out, "   treb-migrate migrate --network anvil")
	return nil
}
