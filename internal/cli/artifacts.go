package cli

import (
	"github.com/spf13/cobra"

	"github.com/trebuchet-org/treb-migrate/internal/cli/render"
	"github.com/trebuchet-org/treb-migrate/internal/usecase"
)

// NewArtifactsCmd creates the artifacts command
func NewArtifactsCmd() *cobra.Command {
	var params usecase.ListArtifactsParams

	cmd := &cobra.Command{
		Use:   "artifacts",
		Short: "List compiled artifacts migration steps can reference",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ListArtifacts.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			return render.NewArtifactsRenderer(cmd.OutOrStdout()).Render(result)
		},
	}

	cmd.Flags().StringVar(&params.Filter, "filter", "", "Only show artifacts whose name contains this text")
	cmd.Flags().BoolVar(&params.DeployableOnly, "deployable", false, "Hide interfaces and abstract contracts")

	return cmd
}
