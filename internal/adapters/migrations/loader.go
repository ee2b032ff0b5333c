package migrations

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/trebuchet-org/treb-migrate/internal/domain"
	"github.com/trebuchet-org/treb-migrate/internal/domain/config"
	"github.com/trebuchet-org/treb-migrate/internal/usecase"
)

// DefaultDir is where migration files live unless project.migrations_dir says otherwise
const DefaultDir = "migrations"

var fileNamePattern = regexp.MustCompile(`^(\d+)_(.+)\.ya?ml$`)

// File is the on-disk shape of a migration declaration
type File struct {
	Description string                  `yaml:"description"`
	Steps       []domain.DeploymentStep `yaml:"steps"`
}

// Loader reads <N>_<name>.yaml files from the migrations directory
type Loader struct {
	dir string
	log *slog.Logger
}

// NewLoader creates a loader for the configured migrations directory
func NewLoader(cfg *config.RuntimeConfig, log *slog.Logger) *Loader {
	dir := DefaultDir
	if cfg.Project != nil && cfg.Project.Project.MigrationsDir != "" {
		dir = cfg.Project.Project.MigrationsDir
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(cfg.ProjectRoot, dir)
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Loader{dir: dir, log: log}
}

// Dir returns the directory migrations are read from
func (l *Loader) Dir() string {
	return l.dir
}

// Load returns every migration ordered by number
func (l *Loader) Load(ctx context.Context) ([]*domain.Migration, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("migrations directory %s does not exist", l.dir)
		}
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var migrations []*domain.Migration
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		match := fileNamePattern.FindStringSubmatch(entry.Name())
		if match == nil {
			l.log.Debug("ignoring file without numeric prefix", "file", entry.Name())
			continue
		}

		number, err := strconv.Atoi(match[1])
		if err != nil {
			return nil, fmt.Errorf("invalid migration number in %s: %w", entry.Name(), err)
		}
		if number < 1 {
			return nil, fmt.Errorf("migration numbers start at 1: %s", entry.Name())
		}

		path := filepath.Join(l.dir, entry.Name())
		file, err := parseFile(path)
		if err != nil {
			return nil, err
		}

		migrations = append(migrations, &domain.Migration{
			Number:      number,
			Name:        match[2],
			Path:        path,
			Description: file.Description,
			Steps:       file.Steps,
		})
	}

	sort.SliceStable(migrations, func(i, j int) bool {
		if migrations[i].Number != migrations[j].Number {
			return migrations[i].Number < migrations[j].Number
		}
		return migrations[i].Name < migrations[j].Name
	})

	for i := 1; i < len(migrations); i++ {
		if migrations[i].Number == migrations[i-1].Number {
			return nil, fmt.Errorf("duplicate migration number %d: %s and %s",
				migrations[i].Number, filepath.Base(migrations[i-1].Path), filepath.Base(migrations[i].Path))
		}
	}

	return migrations, nil
}

func parseFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var file File
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}

	return &file, nil
}

// Ensure Loader implements MigrationLoader
var _ usecase.MigrationLoader = (*Loader)(nil)
