package database

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nao1215/irasutoya/internal/fetcher"
)

// setupTestCache creates a temporary cache for testing.
func setupTestCache(t *testing.T) *PageCache {
	t.Helper()

	pc, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open cache: %v", err)
	}
	t.Cleanup(func() {
		_ = pc.Close()
	})
	return pc
}

func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database in new directory", func(t *testing.T) {
		t.Parallel()

		dbDir := filepath.Join(t.TempDir(), "newdir", "subdir")
		pc, err := Open(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open cache: %v", err)
		}
		defer pc.Close()

		if _, err := os.Stat(filepath.Join(dbDir, FileName)); os.IsNotExist(err) {
			t.Error("database file was not created")
		}
		if pc.Path() != filepath.Join(dbDir, FileName) {
			t.Errorf("Path() = %q", pc.Path())
		}
	})

	t.Run("CreateIfNotExists=false returns error when database does not exist", func(t *testing.T) {
		t.Parallel()

		_, err := Open(filepath.Join(t.TempDir(), "missing"), Options{EnableWAL: true})
		if err == nil {
			t.Fatal("expected error for missing database")
		}
	})

	t.Run("CreateIfNotExists=false opens existing database", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		pc, err := Open(dir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to create cache: %v", err)
		}
		_ = pc.Close()

		pc, err = Open(dir, Options{EnableWAL: true})
		if err != nil {
			t.Fatalf("failed to reopen cache: %v", err)
		}
		_ = pc.Close()
	})
}

func TestPageCacheGetPut(t *testing.T) {
	t.Parallel()

	t.Run("miss", func(t *testing.T) {
		t.Parallel()

		pc := setupTestCache(t)
		_, _, found, err := pc.Get(context.Background(), "https://example.test/")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if found {
			t.Error("found = true on empty cache")
		}
	})

	t.Run("round trip keeps body and time", func(t *testing.T) {
		t.Parallel()

		pc := setupTestCache(t)
		fixed := time.Date(2024, 4, 1, 9, 30, 0, 0, time.UTC)
		pc.now = func() time.Time { return fixed }

		body := []byte("<html>いらすと</html>")
		if err := pc.Put(context.Background(), "https://example.test/a", body); err != nil {
			t.Fatalf("Put() error = %v", err)
		}

		got, fetchedAt, found, err := pc.Get(context.Background(), "https://example.test/a")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if !found {
			t.Fatal("found = false after Put")
		}
		if string(got) != string(body) {
			t.Errorf("body = %q, want %q", got, body)
		}
		if !fetchedAt.Equal(fixed) {
			t.Errorf("fetchedAt = %v, want %v", fetchedAt, fixed)
		}
	})

	t.Run("put replaces the previous entry", func(t *testing.T) {
		t.Parallel()

		pc := setupTestCache(t)
		ctx := context.Background()
		_ = pc.Put(ctx, "https://example.test/a", []byte("old"))
		if err := pc.Put(ctx, "https://example.test/a", []byte("new")); err != nil {
			t.Fatalf("Put() error = %v", err)
		}

		got, _, _, err := pc.Get(ctx, "https://example.test/a")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if string(got) != "new" {
			t.Errorf("body = %q, want new", got)
		}

		stats, err := pc.Stats(ctx)
		if err != nil {
			t.Fatalf("Stats() error = %v", err)
		}
		if stats.Pages != 1 {
			t.Errorf("Pages = %d, want 1", stats.Pages)
		}
	})

	t.Run("corrupted body is reported", func(t *testing.T) {
		t.Parallel()

		pc := setupTestCache(t)
		ctx := context.Background()
		_ = pc.Put(ctx, "https://example.test/a", []byte("body"))
		if _, err := pc.db.ExecContext(ctx, `UPDATE pages SET body = ? WHERE url = ?`, []byte("tampered"), "https://example.test/a"); err != nil {
			t.Fatalf("failed to tamper: %v", err)
		}

		_, _, found, err := pc.Get(ctx, "https://example.test/a")
		if !errors.Is(err, ErrDigestMismatch) {
			t.Errorf("Get() error = %v, want ErrDigestMismatch", err)
		}
		if found {
			t.Error("found = true for corrupted entry")
		}
	})
}

func TestPageCacheStatsClearPrune(t *testing.T) {
	t.Parallel()

	pc := setupTestCache(t)
	ctx := context.Background()

	empty, err := pc.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if empty.Pages != 0 || !empty.Oldest.IsZero() {
		t.Errorf("empty stats = %+v", empty)
	}

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, u := range []string{"https://example.test/1", "https://example.test/2", "https://example.test/3"} {
		at := base.Add(time.Duration(i) * time.Hour)
		pc.now = func() time.Time { return at }
		if err := pc.Put(ctx, u, []byte("12345")); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
	}

	stats, err := pc.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.Pages != 3 || stats.Bytes != 15 {
		t.Errorf("stats = %+v, want 3 pages and 15 bytes", stats)
	}
	if !stats.Oldest.Equal(base) || !stats.Newest.Equal(base.Add(2*time.Hour)) {
		t.Errorf("oldest/newest = %v/%v", stats.Oldest, stats.Newest)
	}

	pruned, err := pc.Prune(ctx, base.Add(90*time.Minute))
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if pruned != 2 {
		t.Errorf("Prune() = %d, want 2", pruned)
	}

	cleared, err := pc.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if cleared != 1 {
		t.Errorf("Clear() = %d, want 1", cleared)
	}
}

func TestPageCacheBacksCachingFetcher(t *testing.T) {
	t.Parallel()

	pc := setupTestCache(t)
	calls := 0
	origin := fetcher.FetcherFunc(func(_ context.Context, rawURL string) ([]byte, error) {
		calls++
		return []byte("body of " + rawURL), nil
	})

	var store fetcher.Store = pc
	cf := fetcher.NewCachingFetcher(origin, store, time.Hour)

	for range 3 {
		body, err := cf.Fetch(context.Background(), "https://example.test/page")
		if err != nil {
			t.Fatalf("Fetch() error = %v", err)
		}
		if string(body) != "body of https://example.test/page" {
			t.Errorf("body = %q", body)
		}
	}
	if calls != 1 {
		t.Errorf("origin called %d times, want 1", calls)
	}
}

func TestCachingFetcherRepairsCorruptedEntry(t *testing.T) {
	t.Parallel()

	pc := setupTestCache(t)
	ctx := context.Background()
	const rawURL = "https://example.test/page"

	if err := pc.Put(ctx, rawURL, []byte("stored body")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if _, err := pc.db.ExecContext(ctx, `UPDATE pages SET digest = 'bad' WHERE url = ?`, rawURL); err != nil {
		t.Fatalf("failed to corrupt entry: %v", err)
	}
	if _, _, _, err := pc.Get(ctx, rawURL); !errors.Is(err, ErrDigestMismatch) {
		t.Fatalf("Get() error = %v, want ErrDigestMismatch", err)
	}

	calls := 0
	origin := fetcher.FetcherFunc(func(_ context.Context, _ string) ([]byte, error) {
		calls++
		return []byte("fresh body"), nil
	})
	cf := fetcher.NewCachingFetcher(origin, pc, time.Hour)

	body, err := cf.Fetch(ctx, rawURL)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if string(body) != "fresh body" || calls != 1 {
		t.Errorf("body = %q, origin calls = %d", body, calls)
	}

	stored, _, found, err := pc.Get(ctx, rawURL)
	if err != nil || !found || string(stored) != "fresh body" {
		t.Errorf("Get() after refetch = %q, %v, %v", stored, found, err)
	}
}
