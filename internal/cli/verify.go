package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/trebuchet-org/treb-migrate/internal/cli/render"
	"github.com/trebuchet-org/treb-migrate/internal/usecase"
)

// NewVerifyCmd creates the verify command
func NewVerifyCmd() *cobra.Command {
	var params usecase.VerifyDeploymentsParams

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check that recorded deployments exist on chain",
		Long: `Check every deployment recorded for the selected network: the contract must
have code at its address and its creation transaction must be mined
successfully.

Examples:
  treb-migrate verify --network sepolia
  treb-migrate verify --network sepolia --migration 2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.VerifyDeployments.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			if err := render.NewVerifyRenderer(cmd.OutOrStdout()).Render(result); err != nil {
				return err
			}
			if failed := result.Failed(); failed > 0 {
				return fmt.Errorf("%d deployment(s) not found on chain", failed)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&params.Migration, "migration", 0, "Only check deployments made by this migration number")

	return cmd
}
