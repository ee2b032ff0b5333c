package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/trebuchet-org/treb-migrate/internal/adapters/interactive"
	"github.com/trebuchet-org/treb-migrate/internal/adapters/progress"
	"github.com/trebuchet-org/treb-migrate/internal/app"
	"github.com/trebuchet-org/treb-migrate/internal/config"
	domainconfig "github.com/trebuchet-org/treb-migrate/internal/domain/config"
	"github.com/trebuchet-org/treb-migrate/internal/usecase"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"
)

// commands that run without a project or an app instance
var standalone = map[string]bool{
	"version":    true,
	"help":       true,
	"completion": true,
	"init":       true,
}

// commands that prompt for a network when none is configured
var needsNetwork = map[string]bool{
	"migrate": true,
	"status":  true,
	"verify":  true,
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "treb-migrate",
		Short: "Run numbered contract migrations against EVM networks",
		Long: `treb-migrate publishes compiled contract artifacts in the order declared by
numbered migration files and records what ran on each network.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if standalone[cmd.Name()] {
				return nil
			}

			projectRoot, _ := cmd.Flags().GetString("project-root")
			if projectRoot == "" {
				root, err := config.FindProjectRoot()
				if err != nil {
					return err
				}
				projectRoot = root
			}

			v := config.SetupViper(projectRoot, cmd.Flags())

			if needsNetwork[cmd.Name()] {
				if err := promptForNetwork(cmd, v); err != nil {
					return err
				}
			}

			appInstance, err := app.InitApp(v, newProgressSink(cmd, v))
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}

			ctx := context.WithValue(cmd.Context(), appKey, appInstance)

			if appInstance.Config.Timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, appInstance.Config.Timeout)
				cmd.PostRun = func(cmd *cobra.Command, args []string) {
					cancel()
				}
			}

			cmd.SetContext(ctx)
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringP("network", "n", "", "Network to use (e.g., anvil, sepolia)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output")
	rootCmd.PersistentFlags().Bool("non-interactive", false, "Disable interactive prompts")
	rootCmd.PersistentFlags().String("project-root", "", "Project directory (defaults to the nearest parent with migrate.toml)")
	rootCmd.PersistentFlags().Duration("timeout", 0, "Abort the command after this long (default 10m)")

	rootCmd.AddGroup(&cobra.Group{
		ID:    "main",
		Title: "Main Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands",
	})

	for _, cmd := range []*cobra.Command{NewMigrateCmd(), NewStatusCmd(), NewVerifyCmd(), NewArtifactsCmd()} {
		cmd.GroupID = "main"
		rootCmd.AddCommand(cmd)
	}
	for _, cmd := range []*cobra.Command{NewNetworksCmd(), NewConfigCmd(), NewInitCmd()} {
		cmd.GroupID = "management"
		rootCmd.AddCommand(cmd)
	}
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// promptForNetwork asks for a network when neither flags, environment,
// local config nor migrate.toml select one
func promptForNetwork(cmd *cobra.Command, v *viper.Viper) error {
	if v.GetString("network") != "" || v.GetBool("non_interactive") || !isTerminal(os.Stdin) {
		return nil
	}

	project, err := config.LoadProjectConfig(v.GetString("project_root"))
	if err != nil {
		return err
	}
	if project.Project.DefaultNetwork != "" {
		return nil
	}

	selector := interactive.NewSelectorAdapter(&domainconfig.RuntimeConfig{})
	name, err := selector.SelectNetwork(cmd.Context(), config.NewNetworkResolver(project).Names())
	if err != nil {
		return err
	}
	v.Set("network", name)
	return nil
}

// newProgressSink picks the progress output for the command being run
func newProgressSink(cmd *cobra.Command, v *viper.Viper) usecase.ProgressSink {
	out := cmd.OutOrStdout()
	tty := !v.GetBool("non_interactive") && isTerminal(out)

	switch cmd.Name() {
	case "migrate":
		return progress.NewMigrateProgress(out, tty)
	case "verify":
		return progress.NewVerifyProgress(out, tty)
	default:
		return progress.NewNopSink()
	}
}

func isTerminal(w any) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	app, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return app, nil
}
