package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/trebuchet-org/treb-migrate/internal/cli/render"
	"github.com/trebuchet-org/treb-migrate/internal/usecase"
)

// NewMigrateCmd creates the migrate command
func NewMigrateCmd() *cobra.Command {
	var params usecase.RunMigrationsParams

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run pending migrations on the selected network",
		Long: `Run every migration file that has not completed on the selected network,
in ascending numeric order. Steps inside a file are deployed one by one and
the run stops at the first failing step.

Examples:
  treb-migrate migrate --network anvil
  treb-migrate migrate --network sepolia --to 3
  treb-migrate migrate --network anvil --reset --yes
  treb-migrate migrate --network sepolia --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.RunMigrations.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			if err := render.NewMigrateRenderer(cmd.OutOrStdout()).Render(result); err != nil {
				return err
			}
			if !result.Success() {
				return fmt.Errorf("migration failed")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&params.Reset, "reset", false, "Run all migrations again from the first one")
	cmd.Flags().IntVar(&params.To, "to", 0, "Stop after this migration number")
	cmd.Flags().BoolVar(&params.DryRun, "dry-run", false, "Resolve artifacts and show the plan without deploying")
	cmd.Flags().BoolVarP(&params.AssumeYes, "yes", "y", false, "Skip the confirmation prompt for non-local networks")

	return cmd
}

// NewStatusCmd creates the status command
func NewStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show which migrations have run on the selected network",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.MigrationStatus.Run(cmd.Context(), usecase.MigrationStatusParams{})
			if err != nil {
				return err
			}

			return render.NewStatusRenderer(cmd.OutOrStdout()).Render(result)
		},
	}
}
