package productcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/scgursel/kakule-katalog/internal/db"
	"github.com/scgursel/kakule-katalog/internal/domain"
	"github.com/scgursel/kakule-katalog/internal/domain/product"
)

// DefaultTTL is how long a cached product list stays valid.
const DefaultTTL = 30 * time.Minute

// source is the wrapped product repository.
type source interface {
	GetAll(ctx context.Context) ([]product.Product, error)
}

// store is the consumer interface for the cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// Cache keeps the whole product list in one key with a TTL. Cache reads
// and writes never fail a request: errors are logged and the source is
// used instead.
type Cache struct {
	inner      source
	store      store
	key        string
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator. cacheTotal has label "result"
// (hit, miss, error) and may be nil.
func New(
	inner source,
	s store,
	prefix string,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *Cache {
	if prefix == "" {
		prefix = domain.KeyPrefix
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{
		inner:      inner,
		store:      s,
		key:        prefix + "products",
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Key returns the cache key.
func (c *Cache) Key() string { return c.key }

// GetAll returns the cached product list or loads and caches it.
func (c *Cache) GetAll(ctx context.Context) ([]product.Product, error) {
	if products, ok := c.getFromCache(ctx); ok {
		c.inc("hit")
		return products, nil
	}
	c.inc("miss")

	products, err := c.inner.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}

	c.putToCache(ctx, products)
	return products, nil
}

// Invalidate drops the cached list so the next read hits the source.
func (c *Cache) Invalidate(ctx context.Context) error {
	if err := c.store.Del(ctx, c.key); err != nil {
		return fmt.Errorf("invalidate %s: %w", c.key, err)
	}
	c.logger.Info("Product cache invalidated", zap.String("key", c.key))
	return nil
}

func (c *Cache) inc(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (c *Cache) getFromCache(ctx context.Context) ([]product.Product, bool) {
	data, err := c.store.Get(ctx, c.key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.inc("error")
			c.logger.Warn("Failed to read product cache", zap.String("key", c.key), zap.Error(err))
		}
		return nil, false
	}
	if len(data) == 0 {
		return nil, false
	}

	var products []product.Product
	if err := json.Unmarshal(data, &products); err != nil {
		c.inc("error")
		c.logger.Warn("Failed to decode product cache", zap.String("key", c.key), zap.Error(err))
		return nil, false
	}
	return products, true
}

func (c *Cache) putToCache(ctx context.Context, products []product.Product) {
	data, err := json.Marshal(products)
	if err != nil {
		c.logger.Warn("Failed to encode product cache", zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, c.key, data, c.ttl); err != nil {
		c.inc("error")
		c.logger.Warn("Failed to write product cache", zap.String("key", c.key), zap.Error(err))
	}
}
