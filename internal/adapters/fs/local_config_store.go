package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/trebuchet-org/treb-migrate/internal/domain/config"
	"github.com/trebuchet-org/treb-migrate/internal/usecase"
)

const localConfigFile = "config.local.json"

// LocalConfigStoreAdapter keeps per-checkout overrides in the data
// directory. An override file with nothing set is removed rather than
// left behind as "{}".
type LocalConfigStoreAdapter struct {
	path string
	mu   sync.Mutex
}

// NewLocalConfigStoreAdapter creates a new LocalConfigStoreAdapter
func NewLocalConfigStoreAdapter(cfg *config.RuntimeConfig) *LocalConfigStoreAdapter {
	return &LocalConfigStoreAdapter{path: filepath.Join(cfg.DataDir, localConfigFile)}
}

// Exists reports whether an override file is present
func (s *LocalConfigStoreAdapter) Exists() bool {
	info, err := os.Stat(s.path)
	return err == nil && !info.IsDir()
}

// Load returns the overrides, or none when the file is missing
func (s *LocalConfigStoreAdapter) Load(_ context.Context) (*config.LocalConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	overrides := &config.LocalConfig{}
	data, err := os.ReadFile(s.path)
	switch {
	case os.IsNotExist(err):
		return overrides, nil
	case err != nil:
		return nil, fmt.Errorf("failed to read %s: %w", localConfigFile, err)
	}

	if err := json.Unmarshal(data, overrides); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", s.path, err)
	}
	overrides.Network = strings.ToLower(strings.TrimSpace(overrides.Network))
	return overrides, nil
}

// Save replaces the override file, or removes it when nothing is set
func (s *LocalConfigStoreAdapter) Save(_ context.Context, overrides *config.LocalConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if overrides == nil || *overrides == (config.LocalConfig{}) {
		if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove %s: %w", localConfigFile, err)
		}
		return nil
	}

	data, err := json.MarshalIndent(overrides, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal local config: %w", err)
	}
	if err := writeAtomic(s.path, append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write %s: %w", localConfigFile, err)
	}
	return nil
}

// GetPath returns the override file location
func (s *LocalConfigStoreAdapter) GetPath() string {
	return s.path
}

var _ usecase.LocalConfigStore = (*LocalConfigStoreAdapter)(nil)
