package database

import (
	"context"
	"crypto/md5"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/tieubaoca/retriever-be/types"
)

// SQLiteCache is a disk-backed document cache with per-entry expiry. Keys are
// derived from a namespace tag plus a hash of the identifier, so identical
// queries collide deterministically and the "doc" and "search" namespaces
// never overlap. Reads treat expired or unreadable entries as misses; writes
// report success as a boolean. The retriever must stay correct when every
// cache operation fails.
type SQLiteCache struct {
	db       *sql.DB
	maxBytes int64
}

// NewSQLiteCache opens the cache database under cacheDir. maxSizeMB caps the
// total payload size; entries closest to expiry are evicted first when a
// write pushes the cache past the cap. A cap of 0 or less means unbounded.
func NewSQLiteCache(cacheDir string, maxSizeMB int) (*SQLiteCache, error) {
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	dbPath := filepath.Join(cacheDir, "documents.db")
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	const schema = `
CREATE TABLE IF NOT EXISTS cache_entries (
	key        TEXT PRIMARY KEY,
	payload    BLOB NOT NULL,
	expires_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_cache_expires ON cache_entries (expires_at);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize cache schema: %w", err)
	}

	return &SQLiteCache{db: db, maxBytes: int64(maxSizeMB) * 1024 * 1024}, nil
}

func (c *SQLiteCache) Close() error {
	return c.db.Close()
}

// cacheKey combines a namespace tag with a hash of the identifier.
func cacheKey(namespace, identifier string) string {
	return fmt.Sprintf("%s:%x", namespace, md5.Sum([]byte(identifier)))
}

func (c *SQLiteCache) GetDocument(ctx context.Context, documentID string) (*types.Document, bool) {
	payload, ok := c.get(ctx, cacheKey("doc", documentID))
	if !ok {
		return nil, false
	}
	var doc types.Document
	if err := json.Unmarshal(payload, &doc); err != nil {
		log.Printf("Error decoding cached document %s: %v", documentID, err)
		return nil, false
	}
	return &doc, true
}

func (c *SQLiteCache) SetDocument(ctx context.Context, doc *types.Document, ttl time.Duration) bool {
	payload, err := json.Marshal(doc)
	if err != nil {
		log.Printf("Error encoding document %s for cache: %v", doc.Metadata.ID, err)
		return false
	}
	return c.set(ctx, cacheKey("doc", doc.Metadata.ID), payload, ttl)
}

func (c *SQLiteCache) GetSearchResults(ctx context.Context, query string) ([]types.Document, bool) {
	payload, ok := c.get(ctx, cacheKey("search", query))
	if !ok {
		return nil, false
	}
	var docs []types.Document
	if err := json.Unmarshal(payload, &docs); err != nil {
		log.Printf("Error decoding cached search results for %q: %v", query, err)
		return nil, false
	}
	return docs, true
}

func (c *SQLiteCache) SetSearchResults(ctx context.Context, query string, docs []types.Document, ttl time.Duration) bool {
	payload, err := json.Marshal(docs)
	if err != nil {
		log.Printf("Error encoding search results for cache: %v", err)
		return false
	}
	return c.set(ctx, cacheKey("search", query), payload, ttl)
}

// Clear drops every entry, used for administrative reset.
func (c *SQLiteCache) Clear(ctx context.Context) error {
	_, err := c.db.ExecContext(ctx, "DELETE FROM cache_entries")
	return err
}

// Len counts unexpired entries.
func (c *SQLiteCache) Len(ctx context.Context) int {
	var count int
	err := c.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM cache_entries WHERE expires_at > ?",
		time.Now().UnixNano(),
	).Scan(&count)
	if err != nil {
		log.Printf("Error counting cache entries: %v", err)
		return 0
	}
	return count
}

func (c *SQLiteCache) get(ctx context.Context, key string) ([]byte, bool) {
	var payload []byte
	var expiresAt int64
	err := c.db.QueryRowContext(ctx,
		"SELECT payload, expires_at FROM cache_entries WHERE key = ?", key,
	).Scan(&payload, &expiresAt)
	if err == sql.ErrNoRows {
		return nil, false
	}
	if err != nil {
		log.Printf("Error reading cache entry: %v", err)
		return nil, false
	}
	if time.Now().UnixNano() >= expiresAt {
		// Expired entries are treated as absent; removal is best-effort.
		if _, err := c.db.ExecContext(ctx, "DELETE FROM cache_entries WHERE key = ?", key); err != nil {
			log.Printf("Error evicting expired cache entry: %v", err)
		}
		return nil, false
	}
	return payload, true
}

func (c *SQLiteCache) set(ctx context.Context, key string, payload []byte, ttl time.Duration) bool {
	expiresAt := time.Now().Add(ttl).UnixNano()
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO cache_entries (key, payload, expires_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, expires_at = excluded.expires_at`,
		key, payload, expiresAt,
	)
	if err != nil {
		log.Printf("Error writing cache entry: %v", err)
		return false
	}
	if c.maxBytes > 0 {
		c.enforceSizeLimit(ctx)
	}
	return true
}

// enforceSizeLimit evicts entries, soonest-to-expire first, until the total
// payload size fits under the configured cap. Eviction failures only shrink
// the cache less than intended, so they are logged and ignored.
func (c *SQLiteCache) enforceSizeLimit(ctx context.Context) {
	var total int64
	err := c.db.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(LENGTH(payload)), 0) FROM cache_entries",
	).Scan(&total)
	if err != nil {
		log.Printf("Error measuring cache size: %v", err)
		return
	}

	for total > c.maxBytes {
		var key string
		var size int64
		err := c.db.QueryRowContext(ctx,
			"SELECT key, LENGTH(payload) FROM cache_entries ORDER BY expires_at ASC LIMIT 1",
		).Scan(&key, &size)
		if err == sql.ErrNoRows {
			return
		}
		if err != nil {
			log.Printf("Error selecting cache entry for eviction: %v", err)
			return
		}
		if _, err := c.db.ExecContext(ctx, "DELETE FROM cache_entries WHERE key = ?", key); err != nil {
			log.Printf("Error evicting cache entry: %v", err)
			return
		}
		total -= size
	}
}
