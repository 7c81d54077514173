package kakule

import (
	"time"

	"go.uber.org/zap"

	"github.com/scgursel/kakule-katalog/internal/db"
	"github.com/scgursel/kakule-katalog/internal/domain/search/synonym"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	redisAddrs    []string
	redisPassword string
	postgresDSN   string
	sampleOnly    bool

	synonyms     *synonym.Table
	synonymsFile string

	cacheTTL    time.Duration
	keyPrefix   string
	noFallback  bool
	searchLimit int

	logger *zap.Logger

	store db.Store
}

// WithRedis reads products from Redis JSON documents and caches the
// product list there.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.redisAddrs = []string{addr}
		c.redisPassword = password
	})
}

// WithPostgres reads products from a PostgreSQL products table. Combined
// with WithRedis, Redis is used only as the list cache.
func WithPostgres(dsn string) Option {
	return optionFunc(func(c *clientConfig) {
		c.postgresDSN = dsn
	})
}

// WithSampleData serves the bundled demo catalog regardless of other
// sources. Seed still writes to the configured store.
func WithSampleData() Option {
	return optionFunc(func(c *clientConfig) {
		c.sampleOnly = true
	})
}

// WithSynonyms sets the term expansion table used by ranking.
func WithSynonyms(terms map[string][]string) Option {
	return optionFunc(func(c *clientConfig) {
		c.synonyms = synonym.FromMap(terms)
	})
}

// WithSynonymsFile loads the term expansion table from a YAML file.
func WithSynonymsFile(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.synonymsFile = path
	})
}

// WithCacheTTL sets how long the product list stays cached. Default 30m.
// A negative value disables caching.
func WithCacheTTL(ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheTTL = ttl
	})
}

// WithKeyPrefix overrides the "kakule:" storage key prefix.
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithoutFallback makes source failures surface as errors instead of
// serving the sample catalog.
func WithoutFallback() Option {
	return optionFunc(func(c *clientConfig) {
		c.noFallback = true
	})
}

// WithLogger enables structured logging. Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// withStore injects an already connected store.
func withStore(s db.Store) Option {
	return optionFunc(func(c *clientConfig) {
		c.store = s
	})
}
