package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"

	"github.com/trebuchet-org/treb-migrate/internal/domain/config"
)

// ProjectFile is the project configuration file looked up from the working directory
const ProjectFile = "migrate.toml"

const (
	defaultArtifactFormat = "auto"
	defaultMigrationsDir  = "migrations"
)

// LoadProjectConfig reads migrate.toml from projectRoot. A missing file
// yields the defaults so a bare build directory can still be inspected.
func LoadProjectConfig(projectRoot string) (*config.ProjectConfig, error) {
	loadEnvFiles(projectRoot)

	cfg := &config.ProjectConfig{}
	path := filepath.Join(projectRoot, ProjectFile)
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to parse %s: %w", ProjectFile, err)
		}
	}

	expandProjectConfig(cfg)
	applyDefaults(cfg)

	if err := ValidateProjectConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadEnvFiles loads .env then .env.local. Variables already set in the
// environment are not overridden.
func loadEnvFiles(projectRoot string) {
	for _, name := range []string{".env", ".env.local"} {
		envFile := filepath.Join(projectRoot, name)
		if _, err := os.Stat(envFile); err != nil {
			continue
		}
		if err := godotenv.Load(envFile); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Failed to load %s: %v\n", envFile, err)
		}
	}
}

func expandProjectConfig(cfg *config.ProjectConfig) {
	cfg.Project.BuildDir = os.ExpandEnv(cfg.Project.BuildDir)
	cfg.Project.MigrationsDir = os.ExpandEnv(cfg.Project.MigrationsDir)
	cfg.Project.DefaultNetwork = os.ExpandEnv(cfg.Project.DefaultNetwork)

	cfg.Deployer.PrivateKey = os.ExpandEnv(cfg.Deployer.PrivateKey)
	cfg.Deployer.Keystore = os.ExpandEnv(cfg.Deployer.Keystore)
	cfg.Deployer.Password = os.ExpandEnv(cfg.Deployer.Password)
	cfg.Deployer.ConfirmationTimeout = os.ExpandEnv(cfg.Deployer.ConfirmationTimeout)
	if expanded, err := homedir.Expand(cfg.Deployer.Keystore); err == nil {
		cfg.Deployer.Keystore = expanded
	}

	for name, network := range cfg.Networks {
		network.RPCURL = os.ExpandEnv(network.RPCURL)
		network.URL = os.ExpandEnv(network.URL)
		network.From = os.ExpandEnv(network.From)
		cfg.Networks[name] = network
	}
}

func applyDefaults(cfg *config.ProjectConfig) {
	if cfg.Project.ArtifactFormat == "" {
		cfg.Project.ArtifactFormat = defaultArtifactFormat
	}
	if cfg.Project.MigrationsDir == "" {
		cfg.Project.MigrationsDir = defaultMigrationsDir
	}
	if cfg.Networks == nil {
		cfg.Networks = make(map[string]config.NetworkConfig)
	}
	for name, network := range cfg.Networks {
		if network.Backend == "" {
			network.Backend = config.BackendRPC
			cfg.Networks[name] = network
		}
	}
}
