package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/custodia-labs/docket-cli/internal/core/domain"
	"github.com/custodia-labs/docket-cli/internal/core/ports/driven"
)

var _ driven.ResourceCache = (*ResourceCache)(nil)

// ResourceCache keeps fetched resources for the lifetime of the process.
type ResourceCache struct {
	mu        sync.RWMutex
	resources map[string]domain.Resource
}

// NewResourceCache creates an empty cache.
func NewResourceCache() *ResourceCache {
	return &ResourceCache{resources: make(map[string]domain.Resource)}
}

// Get returns a copy of the resource cached under key.
func (c *ResourceCache) Get(_ context.Context, key string) (*domain.Resource, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	res, ok := c.resources[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	res.Data = slices.Clone(res.Data)
	return &res, nil
}

// Put stores a copy of res under key.
func (c *ResourceCache) Put(_ context.Context, key string, res *domain.Resource) error {
	if res == nil {
		return fmt.Errorf("resource: %w", domain.ErrInvalidInput)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.resources[key] = domain.Resource{Data: slices.Clone(res.Data), Extension: res.Extension}
	return nil
}

// Len returns the number of cached resources.
func (c *ResourceCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.resources)
}
