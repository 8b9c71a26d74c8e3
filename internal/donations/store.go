package donations

import (
	"sync"

	"github.com/ogahribetzz/transparansi/internal/model"
)

// Store holds the process-wide AppConfig. Last write wins.
type Store struct {
	mu  sync.RWMutex
	cfg model.AppConfig
}

// NewStore returns a Store seeded with initial.
func NewStore(initial model.AppConfig) *Store {
	return &Store{cfg: initial}
}

// Get returns the current config.
func (s *Store) Get() model.AppConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Apply overlays patch on the current config and returns the result.
func (s *Store) Apply(patch model.ConfigPatch) model.AppConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = patch.Apply(s.cfg)
	return s.cfg
}
