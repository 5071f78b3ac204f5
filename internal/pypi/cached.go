package pypi

import (
	"context"

	"github.com/spiffcs/maintkit/internal/cache"
	"github.com/spiffcs/maintkit/internal/log"
	"github.com/spiffcs/maintkit/internal/pyproject"
)

// CachedIndex wraps an Index with a release cache. Not-found answers and
// errors are never cached.
type CachedIndex struct {
	index  Index
	cache  cache.Cacher
	prefix string
}

var _ Index = (*CachedIndex)(nil)

// NewCachedIndex creates a CachedIndex. prefix separates entries from
// different index URLs.
func NewCachedIndex(index Index, c cache.Cacher, prefix string) *CachedIndex {
	return &CachedIndex{index: index, cache: c, prefix: prefix}
}

// Releases returns cached versions when fresh, otherwise queries the index.
func (c *CachedIndex) Releases(ctx context.Context, name string) ([]string, error) {
	key := c.prefix + "|" + pyproject.NormalizeName(name)
	if versions, ok := c.cache.Get(key); ok {
		log.Debug("release cache hit", "package", name)
		return versions, nil
	}

	versions, err := c.index.Releases(ctx, name)
	if err != nil {
		return nil, err
	}
	if err := c.cache.Set(key, versions); err != nil {
		log.Warn("failed to cache releases", "package", name, "error", err)
	}
	return versions, nil
}
