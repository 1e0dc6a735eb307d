// Package history persists the rolling daily snapshot of the universe's
// summed price, the single durable artifact behind the trend chart.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/marketlens/marketlens/internal/models"
)

// DefaultMaxPoints is the rolling window size.
const DefaultMaxPoints = 30

const dateLayout = "2006-01-02"

// document is the on-disk layout: a single JSON object wrapping the
// ordered point series.
type document struct {
	Data []models.HistoricalPoint `json:"data"`
}

// Store is a flat-file, append-only rolling window of daily points. All
// operations rewrite the whole document; writes go through a temp file
// and rename so a crash never leaves a half-written series.
type Store struct {
	path      string
	maxPoints int
	logger    arbor.ILogger
	mu        sync.Mutex
	now       func() time.Time
}

// Option configures the Store.
type Option func(*Store)

// WithMaxPoints overrides the rolling window size.
func WithMaxPoints(n int) Option {
	return func(s *Store) {
		s.maxPoints = n
	}
}

// WithClock overrides the wall clock, used by tests to control "today".
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates a snapshot store writing to the given path.
func NewStore(path string, logger arbor.ILogger, opts ...Option) *Store {
	s := &Store{
		path:      path,
		maxPoints: DefaultMaxPoints,
		logger:    logger,
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Append records today's value. If the series already ends with today's
// date the call is a no-op: at most one point per calendar date, first
// value wins for the day. Older points beyond the window are dropped.
func (s *Store) Append(value float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}

	today := s.now().Format(dateLayout)
	if n := len(doc.Data); n > 0 && doc.Data[n-1].Date == today {
		return nil
	}

	doc.Data = append(doc.Data, models.HistoricalPoint{Date: today, Value: value})
	if len(doc.Data) > s.maxPoints {
		doc.Data = doc.Data[len(doc.Data)-s.maxPoints:]
	}

	if err := s.persist(doc); err != nil {
		return err
	}

	s.logger.Debug().
		Str("date", today).
		Float64("value", value).
		Int("points", len(doc.Data)).
		Msg("Daily snapshot recorded")

	return nil
}

// Points returns the stored series in date order.
func (s *Store) Points() ([]models.HistoricalPoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	return doc.Data, nil
}

// Replace overwrites the whole series, keeping only the most recent
// window of points. Used by the import endpoint.
func (s *Store) Replace(points []models.HistoricalPoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(points) > s.maxPoints {
		points = points[len(points)-s.maxPoints:]
	}

	return s.persist(document{Data: points})
}

// load reads the document from disk. A missing file is an empty series.
func (s *Store) load() (document, error) {
	var doc document

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return doc, nil
	}
	if err != nil {
		return doc, fmt.Errorf("failed to read snapshot file: %w", err)
	}

	if err := json.Unmarshal(data, &doc); err != nil {
		return doc, fmt.Errorf("failed to parse snapshot file: %w", err)
	}

	return doc, nil
}

// persist writes the document atomically.
func (s *Store) persist(doc document) error {
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create snapshot directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot data: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot file: %w", err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace snapshot file: %w", err)
	}

	return nil
}
