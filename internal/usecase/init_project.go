package usecase

import (
	"context"
	"fmt"
	"path/filepath"
)

// InitProject scaffolds a migrate project in a directory
type InitProject struct {
	fileWriter FileWriter
}

// NewInitProject creates a new init project use case
func NewInitProject(fileWriter FileWriter) *InitProject {
	return &InitProject{
		fileWriter: fileWriter,
	}
}

// InitProjectParams selects where to initialize
type InitProjectParams struct {
	Dir string
}

// InitProjectResult contains the result of project initialization
type InitProjectResult struct {
	BuildDir           string
	AlreadyInitialized bool
	Steps              []InitStep
}

// InitStep represents a step in the initialization process
type InitStep struct {
	Name    string
	Success bool
	Message string
	Error   error
}

// Execute writes the files that are missing. Existing files are never
// overwritten.
func (i *InitProject) Execute(ctx context.Context, params InitProjectParams) (*InitProjectResult, error) {
	dir := params.Dir
	if dir == "" {
		dir = "."
	}
	result := &InitProjectResult{}

	result.BuildDir = i.detectBuildDir(ctx, dir)

	steps := []struct {
		name    string
		path    string
		content string
	}{
		{"Create migrate.toml", "migrate.toml", projectTemplate(result.BuildDir)},
		{"Create first migration", filepath.Join("migrations", "1_initial.yaml"), initialMigration},
		{"Create .env.example", ".env.example", envExample},
	}

	for _, s := range steps {
		step := i.writeIfMissing(ctx, s.name, filepath.Join(dir, s.path), s.content)
		result.Steps = append(result.Steps, step)
		if step.Error != nil {
			return result, step.Error
		}
		if s.path == "migrate.toml" && step.Message == "already exists" {
			result.AlreadyInitialized = true
		}
	}

	if err := i.fileWriter.EnsureDirectory(ctx, filepath.Join(dir, ".treb")); err != nil {
		step := InitStep{Name: "Create .treb", Error: fmt.Errorf("failed to create .treb directory: %w", err)}
		result.Steps = append(result.Steps, step)
		return result, step.Error
	}
	result.Steps = append(result.Steps, InitStep{Name: "Create .treb", Success: true, Message: "journal directory ready"})

	return result, nil
}

// detectBuildDir picks the first build layout present, preferring Foundry
func (i *InitProject) detectBuildDir(ctx context.Context, dir string) string {
	for _, candidate := range []string{"out", filepath.Join("build", "contracts")} {
		if ok, _ := i.fileWriter.FileExists(ctx, filepath.Join(dir, candidate)); ok {
			return filepath.ToSlash(candidate)
		}
	}
	return ""
}

func (i *InitProject) writeIfMissing(ctx context.Context, name, path, content string) InitStep {
	exists, err := i.fileWriter.FileExists(ctx, path)
	if err != nil {
		return InitStep{Name: name, Error: fmt.Errorf("failed to check %s: %w", path, err)}
	}
	if exists {
		return InitStep{Name: name, Success: true, Message: "already exists"}
	}
	if err := i.fileWriter.WriteFile(ctx, path, content); err != nil {
		return InitStep{Name: name, Error: fmt.Errorf("failed to create %s: %w", path, err)}
	}
	return InitStep{Name: name, Success: true, Message: "created " + filepath.Base(path)}
}

func projectTemplate(buildDir string) string {
	buildLine := `# build_dir = "out"          # detected from out/ or build/contracts/ when unset`
	if buildDir != "" {
		buildLine = fmt.Sprintf("build_dir = %q", buildDir)
	}
	return `# migrate.toml

[project]
` + buildLine + `
artifact_format = "auto"     # foundry, truffle or auto
migrations_dir = "migrations"
default_network = "anvil"

[deployer]
private_key = "${DEPLOYER_PRIVATE_KEY}"
# keystore = "~/.ethereum/keystore/deployer.json"
# password = "${DEPLOYER_PASSWORD}"
# confirmation_timeout = "5m"

[networks.anvil]
rpc_url = "http://127.0.0.1:8545"

[networks.sepolia]
rpc_url = "${SEPOLIA_RPC_URL}"
chain_id = 11155111

# A FireFly ethconnect gateway signs with its own managed account
# [networks.firefly]
# backend = "ethconnect"
# url = "http://127.0.0.1:5102"
# from = "0x..."
# rpc_url = "http://127.0.0.1:5100"   # used by verify
`
}

const initialMigration = `description: Initial deployment
steps:
  # - artifact: CIDsOwners
  # - artifact: IPFSUploadedFiles
  #   args: ["@CIDsOwners"]
`

const envExample = `# treb-migrate configuration

# Deployer key for the rpc backend
DEPLOYER_PRIVATE_KEY=

# RPC URLs
SEPOLIA_RPC_URL=

# Log level: debug, info, warn, error
TREB_MIGRATE_LOG_LEVEL=info
`
