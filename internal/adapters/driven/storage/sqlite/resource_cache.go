package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/docket-cli/internal/core/domain"
	"github.com/custodia-labs/docket-cli/internal/core/ports/driven"
)

var _ driven.ManagedCache = (*ResourceCache)(nil)

// ResourceCache implements driven.ResourceCache.
type ResourceCache struct {
	store *Store
}

// Get returns the resource cached under key.
func (c *ResourceCache) Get(ctx context.Context, key string) (*domain.Resource, error) {
	var res domain.Resource
	err := c.store.db.QueryRowContext(ctx,
		"SELECT data, extension FROM resources WHERE key = ?", key,
	).Scan(&res.Data, &res.Extension)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query resource: %w", err)
	}
	return &res, nil
}

// Put stores res under key, replacing any previous entry.
func (c *ResourceCache) Put(ctx context.Context, key string, res *domain.Resource) error {
	if res == nil {
		return fmt.Errorf("resource: %w", domain.ErrInvalidInput)
	}
	data := res.Data
	if data == nil {
		data = []byte{}
	}
	_, err := c.store.db.ExecContext(ctx, `
		INSERT INTO resources (key, data, extension, size, fetched_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			data = excluded.data,
			extension = excluded.extension,
			size = excluded.size,
			fetched_at = excluded.fetched_at
	`, key, data, res.Extension, len(data), c.store.now().Unix())
	if err != nil {
		return fmt.Errorf("store resource: %w", err)
	}
	return nil
}

// Stats returns the number of entries and their total size.
func (c *ResourceCache) Stats(ctx context.Context) (domain.CacheStats, error) {
	var stats domain.CacheStats
	err := c.store.db.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(SUM(size), 0) FROM resources",
	).Scan(&stats.Entries, &stats.Bytes)
	if err != nil {
		return domain.CacheStats{}, fmt.Errorf("query cache stats: %w", err)
	}
	return stats, nil
}

// Prune removes entries fetched more than maxAge ago. A zero maxAge removes
// everything. Returns the number of entries removed.
func (c *ResourceCache) Prune(ctx context.Context, maxAge time.Duration) (int64, error) {
	var (
		result sql.Result
		err    error
	)
	if maxAge <= 0 {
		result, err = c.store.db.ExecContext(ctx, "DELETE FROM resources")
	} else {
		cutoff := c.store.now().Add(-maxAge).Unix()
		result, err = c.store.db.ExecContext(ctx, "DELETE FROM resources WHERE fetched_at < ?", cutoff)
	}
	if err != nil {
		return 0, fmt.Errorf("prune resources: %w", err)
	}
	return result.RowsAffected()
}

// Path returns the database file path.
func (c *ResourceCache) Path() string {
	return c.store.Path()
}
