package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trebuchet-org/treb-migrate/internal/adapters/progress"
	"github.com/trebuchet-org/treb-migrate/internal/config"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestNewRootCmd(t *testing.T) {
	root := NewRootCmd()

	for _, name := range []string{"migrate", "status", "verify", "artifacts", "networks", "config", "init", "version"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}

	for _, flag := range []string{"network", "debug", "non-interactive", "project-root", "timeout"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), flag)
	}
	assert.Equal(t, "n", root.PersistentFlags().Lookup("network").Shorthand)

	migrate, _, err := root.Find([]string{"migrate"})
	require.NoError(t, err)
	for _, flag := range []string{"reset", "to", "dry-run", "yes"} {
		assert.NotNil(t, migrate.Flags().Lookup(flag), flag)
	}
}

func TestNewProgressSink(t *testing.T) {
	v := config.SetupViper("", nil)

	tests := []struct {
		command string
		want    any
	}{
		{"migrate", &progress.MigrateProgress{}},
		{"verify", &progress.VerifyProgress{}},
		{"status", &progress.NopSink{}},
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			cmd := &cobra.Command{Use: tt.command}
			cmd.SetOut(&bytes.Buffer{})
			assert.IsType(t, tt.want, newProgressSink(cmd, v))
		})
	}
}

func TestVersionCmd(t *testing.T) {
	config.SetBuildFlags("v1.2.3", "abc123", "2024-01-01")
	t.Cleanup(func() { config.SetBuildFlags("dev", "unknown", "unknown") })

	out, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "treb-migrate version v1.2.3")
	assert.Contains(t, out, "commit: abc123")
}

func TestProjectCommands(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "out"), 0755))

	out, err := runCLI(t, "init", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Project initialized")
	assert.Contains(t, out, "Using build artifacts from out")
	assert.FileExists(t, filepath.Join(dir, "migrate.toml"))
	assert.FileExists(t, filepath.Join(dir, "migrations", "1_initial.yaml"))

	t.Run("init again keeps files", func(t *testing.T) {
		out, err := runCLI(t, "init", dir)
		require.NoError(t, err)
		assert.Contains(t, out, "already exists")
	})

	t.Run("status on the default network", func(t *testing.T) {
		out, err := runCLI(t, "status", "--project-root", dir, "--non-interactive")
		require.NoError(t, err)
		assert.Contains(t, out, "Network: anvil")
		assert.Contains(t, out, "initial")
		assert.Contains(t, out, "Pending")
		assert.Contains(t, out, "1 migration(s) pending")
	})

	t.Run("networks marks the selected one", func(t *testing.T) {
		out, err := runCLI(t, "networks", "--project-root", dir, "--network", "sepolia")
		require.NoError(t, err)
		assert.Contains(t, out, "sepolia")
		assert.Contains(t, out, "11155111")
		assert.Contains(t, out, "*")
	})

	t.Run("config set and show", func(t *testing.T) {
		out, err := runCLI(t, "config", "set", "network", "Sepolia", "--project-root", dir)
		require.NoError(t, err)
		assert.Contains(t, out, "Set network to: sepolia")

		out, err = runCLI(t, "config", "--project-root", dir)
		require.NoError(t, err)
		assert.Contains(t, out, "Network:   sepolia")

		out, err = runCLI(t, "config", "remove", "network", "--project-root", dir)
		require.NoError(t, err)
		assert.Contains(t, out, "Removed network (was sepolia)")
	})

	t.Run("unknown network", func(t *testing.T) {
		_, err := runCLI(t, "status", "--project-root", dir, "--network", "goerli")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "goerli")
	})
}

func TestCommandsOutsideProject(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	_, err = runCLI(t, "status")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "migrate.toml not found")
}
