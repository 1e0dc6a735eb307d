package badger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/marketlens/marketlens/internal/common"
	"github.com/marketlens/marketlens/internal/models"
	"github.com/marketlens/marketlens/internal/services/newscache"
)

func testDB(t *testing.T) *BadgerDB {
	t.Helper()

	db, err := NewBadgerDB(common.GetLogger(), &common.BadgerConfig{Path: t.TempDir()})
	if err != nil {
		t.Fatalf("NewBadgerDB() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}

func TestNewsCacheStorageRoundTrip(t *testing.T) {
	store := NewNewsCacheStorage(testDB(t), common.GetLogger())
	ctx := context.Background()

	fetched := time.Date(2024, 4, 15, 9, 0, 0, 0, time.UTC)
	entry := newscache.Entry{
		Symbol:    "NVDA",
		Article:   &models.NewsArticle{Title: "NVDA hits record data center revenue"},
		FetchedAt: fetched,
	}

	if err := store.Set(ctx, "nvda", entry); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	// Lookups are case-insensitive.
	got, err := store.Get(ctx, "NvDa")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Symbol != "NVDA" {
		t.Errorf("Symbol = %q, want NVDA", got.Symbol)
	}
	if got.Article == nil || got.Article.Title != entry.Article.Title {
		t.Errorf("Article = %+v, want %+v", got.Article, entry.Article)
	}
	if !got.FetchedAt.Equal(fetched) {
		t.Errorf("FetchedAt = %v, want %v", got.FetchedAt, fetched)
	}
}

func TestNewsCacheStorageMiss(t *testing.T) {
	store := NewNewsCacheStorage(testDB(t), common.GetLogger())

	_, err := store.Get(context.Background(), "AMD")
	if !errors.Is(err, newscache.ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestNewsCacheStorageNilArticle(t *testing.T) {
	// Failed fetches are cached as nil articles so the TTL still applies.
	store := NewNewsCacheStorage(testDB(t), common.GetLogger())
	ctx := context.Background()

	entry := newscache.Entry{Symbol: "INTC", FetchedAt: time.Now().UTC()}
	if err := store.Set(ctx, "INTC", entry); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := store.Get(ctx, "INTC")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Article != nil {
		t.Errorf("Article = %+v, want nil", got.Article)
	}
}

func TestNewsCacheStorageUpsert(t *testing.T) {
	store := NewNewsCacheStorage(testDB(t), common.GetLogger())
	ctx := context.Background()

	first := newscache.Entry{Symbol: "TSM", Article: &models.NewsArticle{Title: "old"}}
	second := newscache.Entry{Symbol: "TSM", Article: &models.NewsArticle{Title: "new"}}

	if err := store.Set(ctx, "TSM", first); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := store.Set(ctx, "TSM", second); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := store.Get(ctx, "TSM")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Article.Title != "new" {
		t.Errorf("Title = %q, want new", got.Article.Title)
	}
}
