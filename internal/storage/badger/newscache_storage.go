package badger

import (
	"context"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/marketlens/marketlens/internal/services/newscache"
)

// NewsCacheStorage implements the newscache.Store interface on Badger,
// so cached news survives process restarts.
type NewsCacheStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewNewsCacheStorage creates a new NewsCacheStorage instance
func NewNewsCacheStorage(db *BadgerDB, logger arbor.ILogger) newscache.Store {
	return &NewsCacheStorage{
		db:     db,
		logger: logger,
	}
}

// normalizeKey converts a symbol to uppercase for case-insensitive storage
func (s *NewsCacheStorage) normalizeKey(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// Get retrieves a cache entry by symbol (case-insensitive)
func (s *NewsCacheStorage) Get(ctx context.Context, symbol string) (*newscache.Entry, error) {
	key := s.normalizeKey(symbol)

	var entry newscache.Entry
	err := s.db.Store().Get(key, &entry)
	if err == badgerhold.ErrNotFound {
		return nil, newscache.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get news cache entry: %w", err)
	}

	return &entry, nil
}

// Set inserts or updates a cache entry (case-insensitive, last write wins)
func (s *NewsCacheStorage) Set(ctx context.Context, symbol string, entry newscache.Entry) error {
	key := s.normalizeKey(symbol)
	entry.Symbol = key

	if err := s.db.Store().Upsert(key, &entry); err != nil {
		return fmt.Errorf("failed to set news cache entry: %w", err)
	}

	return nil
}
