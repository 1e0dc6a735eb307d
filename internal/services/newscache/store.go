package newscache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/marketlens/marketlens/internal/models"
)

// ErrNotFound is returned by a Store when no entry exists for a symbol.
var ErrNotFound = errors.New("news cache entry not found")

// Entry is one cached news lookup. Article is nil when the lookup came
// back empty or failed; the entry still counts as fresh so a failing
// endpoint is not hammered on every poll.
type Entry struct {
	Symbol    string              `json:"symbol"`
	Article   *models.NewsArticle `json:"article"`
	FetchedAt time.Time           `json:"fetchedAt"`
}

// Store is the key-value backing for the news cache. Implementations are
// process-local; the freshness contract lives in the Service, not here.
type Store interface {
	Get(ctx context.Context, symbol string) (*Entry, error)
	Set(ctx context.Context, symbol string, entry Entry) error
}

// MemoryStore is a mutex-guarded in-memory Store, used when no durable
// cache directory is configured and throughout the tests.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]Entry),
	}
}

// Get retrieves a cached entry by symbol.
func (s *MemoryStore) Get(ctx context.Context, symbol string) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[symbol]
	if !ok {
		return nil, ErrNotFound
	}
	return &entry, nil
}

// Set stores an entry, overwriting any prior one for the symbol.
func (s *MemoryStore) Set(ctx context.Context, symbol string, entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[symbol] = entry
	return nil
}
