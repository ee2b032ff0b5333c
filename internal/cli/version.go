package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/trebuchet-org/treb-migrate/internal/config"
)

// NewVersionCmd creates the version command
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of treb-migrate",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "treb-migrate version %s\n", config.Version)
			fmt.Fprintf(cmd.OutOrStdout(), "commit: %s\n", config.Commit)
			fmt.Fprintf(cmd.OutOrStdout(), "built:  %s\n", config.Date)
		},
	}
}
