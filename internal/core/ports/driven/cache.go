package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/docket-cli/internal/core/domain"
)

// ResourceCache stores fetched resources keyed by their original reference.
type ResourceCache interface {
	// Get returns the cached resource for key.
	// Returns domain.ErrNotFound if the key is not cached.
	Get(ctx context.Context, key string) (*domain.Resource, error)

	// Put stores res under key, replacing any previous entry.
	Put(ctx context.Context, key string, res *domain.Resource) error
}

// ManagedCache is a ResourceCache that can report and drop its contents.
type ManagedCache interface {
	ResourceCache

	// Stats returns the number of entries and their total size.
	Stats(ctx context.Context) (domain.CacheStats, error)

	// Prune removes entries older than maxAge; zero removes everything.
	// Returns the number of entries removed.
	Prune(ctx context.Context, maxAge time.Duration) (int64, error)

	// Path returns where the cache is stored.
	Path() string
}
