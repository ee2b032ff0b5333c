package artifacts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/sahilm/fuzzy"
	"github.com/trebuchet-org/treb-migrate/internal/domain"
	"github.com/trebuchet-org/treb-migrate/internal/domain/config"
	"github.com/trebuchet-org/treb-migrate/internal/usecase"
)

const (
	foundryBuildDir = "out"
	truffleBuildDir = "build/contracts"
	maxSuggestions  = 3
)

// Registry indexes compiled artifacts from a Foundry out/ or Truffle
// build/contracts/ directory. The index is built on first use.
type Registry struct {
	projectRoot string
	buildDir    string
	format      string
	log         *slog.Logger

	mu        sync.RWMutex
	indexed   bool
	artifacts map[string]*domain.Artifact   // key: "path:Name" or "Name" if unique
	byName    map[string][]*domain.Artifact // key: contract name
	all       []*domain.Artifact
}

// NewRegistry creates a registry for the configured build output
func NewRegistry(cfg *config.RuntimeConfig, log *slog.Logger) *Registry {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	r := &Registry{
		projectRoot: cfg.ProjectRoot,
		format:      "auto",
		log:         log,
	}
	if cfg.Project != nil {
		r.buildDir = cfg.Project.Project.BuildDir
		if f := cfg.Project.Project.ArtifactFormat; f != "" {
			r.format = f
		}
	}
	return r
}

// Resolve returns the artifact for name ("Name" or "path/To.sol:Name")
func (r *Registry) Resolve(ctx context.Context, name string) (*domain.Artifact, error) {
	if err := r.ensureIndexed(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if artifact, ok := r.artifacts[name]; ok {
		return artifact, nil
	}

	if matches := r.byName[name]; len(matches) > 1 {
		paths := make([]string, 0, len(matches))
		for _, m := range matches {
			paths = append(paths, m.SourcePath+":"+m.Name)
		}
		sort.Strings(paths)
		return nil, fmt.Errorf("%w: %s is ambiguous, use one of %s",
			domain.ErrArtifactNotFound, name, strings.Join(paths, ", "))
	}

	if suggestions := r.suggest(name); len(suggestions) > 0 {
		return nil, fmt.Errorf("%w: %s (did you mean %s?)",
			domain.ErrArtifactNotFound, name, strings.Join(suggestions, ", "))
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrArtifactNotFound, name)
}

// List returns every indexed artifact
func (r *Registry) List(ctx context.Context) ([]*domain.Artifact, error) {
	if err := r.ensureIndexed(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Artifact, len(r.all))
	copy(out, r.all)
	return out, nil
}

func (r *Registry) suggest(name string) []string {
	names := make([]string, 0, len(r.byName))
	for n := range r.byName {
		names = append(names, n)
	}
	sort.Strings(names)

	matches := fuzzy.Find(name, names)
	suggestions := make([]string, 0, maxSuggestions)
	for _, match := range matches {
		if len(suggestions) == maxSuggestions {
			break
		}
		suggestions = append(suggestions, match.Str)
	}
	return suggestions
}

func (r *Registry) ensureIndexed() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexed {
		return nil
	}
	if err := r.index(); err != nil {
		return err
	}
	r.indexed = true
	return nil
}

// index walks the build directory. Callers hold the write lock.
func (r *Registry) index() error {
	r.artifacts = make(map[string]*domain.Artifact)
	r.byName = make(map[string][]*domain.Artifact)
	r.all = nil

	dir, err := r.locateBuildDir()
	if err != nil {
		return err
	}

	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == "build-info" {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".json" {
			return nil
		}

		artifact, err := r.readArtifact(path)
		if err != nil {
			return err
		}
		if artifact == nil {
			r.log.Debug("skipping non-artifact file", "path", path)
			return nil
		}
		r.add(artifact)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to index artifacts in %s: %w", dir, err)
	}

	r.log.Debug("indexed artifacts", "dir", dir, "count", len(r.all))
	return nil
}

func (r *Registry) locateBuildDir() (string, error) {
	var candidates []string
	switch {
	case r.buildDir != "":
		candidates = []string{r.buildDir}
	case r.format == string(domain.FormatFoundry):
		candidates = []string{foundryBuildDir}
	case r.format == string(domain.FormatTruffle):
		candidates = []string{truffleBuildDir}
	default:
		candidates = []string{foundryBuildDir, truffleBuildDir}
	}

	for _, candidate := range candidates {
		dir := candidate
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(r.projectRoot, dir)
		}
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir, nil
		}
	}
	return "", fmt.Errorf("%w: build output not found (looked for %s), compile the project first",
		domain.ErrArtifactNotFound, strings.Join(candidates, ", "))
}

// add indexes an artifact by "path:Name" and by bare name while unique
func (r *Registry) add(artifact *domain.Artifact) {
	r.all = append(r.all, artifact)

	if artifact.SourcePath != "" {
		r.artifacts[artifact.SourcePath+":"+artifact.Name] = artifact
	}

	if existing, ok := r.byName[artifact.Name]; ok {
		r.byName[artifact.Name] = append(existing, artifact)
		delete(r.artifacts, artifact.Name)
		return
	}
	r.byName[artifact.Name] = []*domain.Artifact{artifact}
	r.artifacts[artifact.Name] = artifact
}

// rawArtifact covers both layouts. Foundry nests bytecode in an object,
// Truffle stores it as a string next to contractName.
type rawArtifact struct {
	ABI          json.RawMessage `json:"abi"`
	Bytecode     json.RawMessage `json:"bytecode"`
	ContractName string          `json:"contractName"`
	SourcePath   string          `json:"sourcePath"`
	Metadata     json.RawMessage `json:"metadata"`
}

type foundryBytecode struct {
	Object         string         `json:"object"`
	LinkReferences map[string]any `json:"linkReferences"`
}

type foundryMetadata struct {
	Settings struct {
		CompilationTarget map[string]string `json:"compilationTarget"`
	} `json:"settings"`
}

// readArtifact returns nil for JSON files that are not contract artifacts
func (r *Registry) readArtifact(path string) (*domain.Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw rawArtifact
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil
	}
	if len(raw.ABI) == 0 || len(raw.Bytecode) == 0 {
		return nil, nil
	}

	relPath, err := filepath.Rel(r.projectRoot, path)
	if err != nil {
		relPath = path
	}

	artifact := &domain.Artifact{
		ArtifactPath: relPath,
		ABI:          raw.ABI,
	}

	trimmed := bytes.TrimSpace(raw.Bytecode)
	switch trimmed[0] {
	case '"':
		if err := json.Unmarshal(trimmed, &artifact.Bytecode); err != nil {
			return nil, nil
		}
		artifact.Format = domain.FormatTruffle
		artifact.Name = raw.ContractName
		artifact.SourcePath = truffleSource(raw.SourcePath, r.projectRoot)
	case '{':
		var code foundryBytecode
		if err := json.Unmarshal(trimmed, &code); err != nil {
			return nil, nil
		}
		artifact.Format = domain.FormatFoundry
		artifact.Bytecode = code.Object
		artifact.LinkReferences = code.LinkReferences
		artifact.Name, artifact.SourcePath = foundryTarget(raw.Metadata, path)
	default:
		return nil, nil
	}

	if artifact.Name == "" {
		artifact.Name = strings.TrimSuffix(filepath.Base(path), ".json")
	}
	return artifact, nil
}

// foundryTarget reads the compilation target, falling back to the out/<File.sol>/<Name>.json layout
func foundryTarget(metadata json.RawMessage, path string) (name, source string) {
	if len(metadata) > 0 && metadata[0] == '{' {
		var meta foundryMetadata
		if err := json.Unmarshal(metadata, &meta); err == nil {
			for src, contract := range meta.Settings.CompilationTarget {
				return contract, src
			}
		}
	}
	return strings.TrimSuffix(filepath.Base(path), ".json"), filepath.Base(filepath.Dir(path))
}

// truffleSource makes Truffle's absolute sourcePath relative to the project
func truffleSource(source, projectRoot string) string {
	if source == "" || !filepath.IsAbs(source) {
		return source
	}
	if rel, err := filepath.Rel(projectRoot, source); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return source
}

// Ensure the registry implements the interface
var _ usecase.ArtifactRegistry = (*Registry)(nil)
