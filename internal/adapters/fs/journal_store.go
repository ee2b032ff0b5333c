package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/trebuchet-org/treb-migrate/internal/domain"
	"github.com/trebuchet-org/treb-migrate/internal/domain/config"
	"github.com/trebuchet-org/treb-migrate/internal/usecase"
)

// JournalStoreAdapter implements JournalStore with one JSON file per network
type JournalStoreAdapter struct {
	dir string
	mu  sync.Mutex
}

// NewJournalStoreAdapter creates a new JournalStoreAdapter
func NewJournalStoreAdapter(cfg *config.RuntimeConfig) *JournalStoreAdapter {
	return &JournalStoreAdapter{
		dir: filepath.Join(cfg.DataDir, "migrations"),
	}
}

// Path returns the journal file for a network
func (s *JournalStoreAdapter) Path(network string) string {
	return filepath.Join(s.dir, journalFileName(network))
}

// Load reads the journal for network. Returns an empty journal if the file does not exist.
func (s *JournalStoreAdapter) Load(_ context.Context, network string) (*domain.Journal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.Path(network))
	if err != nil {
		if os.IsNotExist(err) {
			return domain.NewJournal(network), nil
		}
		return nil, fmt.Errorf("failed to read journal file: %w", err)
	}

	var journal domain.Journal
	if err := json.Unmarshal(data, &journal); err != nil {
		return nil, fmt.Errorf("failed to parse journal file %s: %w", s.Path(network), err)
	}

	if journal.Migrations == nil {
		journal.Migrations = make(map[int]*domain.MigrationRecord)
	}
	if journal.Network == "" {
		journal.Network = network
	}

	return &journal, nil
}

// Save writes the journal to disk, creating the directory if needed.
// The file is replaced atomically so an interrupted write never truncates it.
func (s *JournalStoreAdapter) Save(_ context.Context, journal *domain.Journal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if journal.Network == "" {
		return fmt.Errorf("journal has no network")
	}

	data, err := json.MarshalIndent(journal, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal journal: %w", err)
	}

	if err := writeAtomic(s.Path(journal.Network), data); err != nil {
		return fmt.Errorf("failed to write journal file: %w", err)
	}
	return nil
}

// Delete removes the journal file of a network
func (s *JournalStoreAdapter) Delete(_ context.Context, network string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.Path(network))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete journal file: %w", err)
	}
	return nil
}

func journalFileName(network string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		default:
			return '_'
		}
	}, network)
	return name + ".json"
}

// Ensure JournalStoreAdapter implements JournalStore
var _ usecase.JournalStore = (*JournalStoreAdapter)(nil)
