package database

import (
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/crypto/sha3"
	_ "modernc.org/sqlite" // SQLite driver
)

// FileName is the name of the cache database inside its directory.
const FileName = "irasutoya.db"

// ErrDigestMismatch is returned by Get when a stored body no longer matches
// the digest recorded with it.
var ErrDigestMismatch = errors.New("cached body does not match its digest")

// PageCache stores page bodies in SQLite.
// It is safe for concurrent use.
type PageCache struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string

	// now returns the time recorded by Put.
	now func() time.Time
}

// Options configures PageCache behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Stats summarizes the cache content.
type Stats struct {
	// Pages is the number of stored bodies.
	Pages int64 `json:"pages"`

	// Bytes is the total size of the stored bodies.
	Bytes int64 `json:"bytes"`

	// Oldest and Newest are the fetch times of the oldest and newest entry.
	// Both are zero when the cache is empty.
	Oldest time.Time `json:"oldest"`
	Newest time.Time `json:"newest"`
}

// Open opens or creates a PageCache in dbDir.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*PageCache, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("cache database not found at %s", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a missing file.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	pc := &PageCache{
		db:     db,
		dbPath: dbPath,
		now:    time.Now,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := pc.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return pc, nil
}

// Close closes the database connection.
func (pc *PageCache) Close() error {
	return pc.db.Close()
}

// Path returns the path of the database file.
func (pc *PageCache) Path() string {
	return pc.dbPath
}

// createTables creates the database schema if it doesn't exist.
func (pc *PageCache) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS pages (
		url TEXT PRIMARY KEY,
		fetched_at INTEGER NOT NULL,
		digest TEXT NOT NULL,
		size INTEGER NOT NULL,
		body BLOB NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_pages_fetched_at ON pages(fetched_at);
	`

	_, err := pc.db.ExecContext(context.Background(), schema)
	return err
}

// Get returns the body stored for rawURL and the time it was fetched.
// found is false when rawURL is not cached.
func (pc *PageCache) Get(ctx context.Context, rawURL string) ([]byte, time.Time, bool, error) {
	var (
		fetchedAt int64
		digestHex string
		body      []byte
	)

	err := pc.db.QueryRowContext(ctx,
		`SELECT fetched_at, digest, body FROM pages WHERE url = ?`, rawURL,
	).Scan(&fetchedAt, &digestHex, &body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, time.Time{}, false, nil
	}
	if err != nil {
		return nil, time.Time{}, false, fmt.Errorf("failed to query page: %w", err)
	}

	if digest(body) != digestHex {
		return nil, time.Time{}, false, fmt.Errorf("%s: %w", rawURL, ErrDigestMismatch)
	}

	return body, time.Unix(0, fetchedAt), true, nil
}

// Put stores body for rawURL, replacing any previous entry.
func (pc *PageCache) Put(ctx context.Context, rawURL string, body []byte) error {
	query := `
	INSERT INTO pages (url, fetched_at, digest, size, body)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(url) DO UPDATE SET
		fetched_at = excluded.fetched_at,
		digest = excluded.digest,
		size = excluded.size,
		body = excluded.body
	`

	_, err := pc.db.ExecContext(ctx, query,
		rawURL,
		pc.now().UnixNano(),
		digest(body),
		len(body),
		body,
	)
	if err != nil {
		return fmt.Errorf("failed to store page: %w", err)
	}
	return nil
}

// Stats returns a summary of the cache content.
func (pc *PageCache) Stats(ctx context.Context) (Stats, error) {
	var (
		stats  Stats
		oldest sql.NullInt64
		newest sql.NullInt64
	)

	err := pc.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(size), 0), MIN(fetched_at), MAX(fetched_at) FROM pages`,
	).Scan(&stats.Pages, &stats.Bytes, &oldest, &newest)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to query cache stats: %w", err)
	}

	if oldest.Valid {
		stats.Oldest = time.Unix(0, oldest.Int64)
	}
	if newest.Valid {
		stats.Newest = time.Unix(0, newest.Int64)
	}
	return stats, nil
}

// Clear removes every entry and returns how many were removed.
func (pc *PageCache) Clear(ctx context.Context) (int64, error) {
	result, err := pc.db.ExecContext(ctx, `DELETE FROM pages`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear cache: %w", err)
	}
	return result.RowsAffected()
}

// Prune removes the entries fetched before cutoff and returns how many were removed.
func (pc *PageCache) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := pc.db.ExecContext(ctx, `DELETE FROM pages WHERE fetched_at < ?`, cutoff.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("failed to prune cache: %w", err)
	}
	return result.RowsAffected()
}

// digest returns the hex encoded SHA3-256 of body.
func digest(body []byte) string {
	sum := sha3.Sum256(body)
	return hex.EncodeToString(sum[:])
}
