package cli

import (
	"github.com/spf13/cobra"

	"github.com/trebuchet-org/treb-migrate/internal/adapters/fs"
	"github.com/trebuchet-org/treb-migrate/internal/cli/render"
	"github.com/trebuchet-org/treb-migrate/internal/usecase"
)

// NewInitCmd creates the init command. It runs before migrate.toml exists,
// so it builds its use case directly instead of going through the app.
func NewInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [dir]",
		Short: "Create migrate.toml and a first migration",
		Long: `Create migrate.toml, migrations/1_initial.yaml and .env.example in the
given directory (default: current directory). Existing files are kept.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := usecase.InitProjectParams{Dir: "."}
			if len(args) == 1 {
				params.Dir = args[0]
			}

			result, err := usecase.NewInitProject(fs.NewFileWriterAdapter()).Execute(cmd.Context(), params)
			if result != nil {
				if renderErr := render.NewInitRenderer(cmd.OutOrStdout()).Render(result); renderErr != nil && err == nil {
					err = renderErr
				}
			}
			return err
		},
	}
}
