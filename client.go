package kakule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/scgursel/kakule-katalog/internal/db"
	dbRedis "github.com/scgursel/kakule-katalog/internal/db/redis"
	"github.com/scgursel/kakule-katalog/internal/domain"
	"github.com/scgursel/kakule-katalog/internal/domain/search/filter"
	"github.com/scgursel/kakule-katalog/internal/domain/search/request"
	"github.com/scgursel/kakule-katalog/internal/domain/search/synonym"
	"github.com/scgursel/kakule-katalog/internal/metrics"
	"github.com/scgursel/kakule-katalog/internal/repository/fallback"
	"github.com/scgursel/kakule-katalog/internal/repository/pgproduct"
	productrepo "github.com/scgursel/kakule-katalog/internal/repository/product"
	"github.com/scgursel/kakule-katalog/internal/repository/productcache"
	"github.com/scgursel/kakule-katalog/internal/repository/sample"
	cataloguc "github.com/scgursel/kakule-katalog/internal/usecase/catalog"
	searchuc "github.com/scgursel/kakule-katalog/internal/usecase/search"
)

const defaultReadinessTimeout = 10 * time.Second

type source interface {
	cataloguc.Repository
	Ping(ctx context.Context) error
}

type writer interface {
	Put(ctx context.Context, p *Product) error
}

// Client is the kakule catalog entry point. It is safe for concurrent use.
type Client struct {
	store  db.Store
	pool   *pgxpool.Pool
	source source
	writer writer
	cache  *productcache.Cache

	catalog *cataloguc.Service
	search  *searchuc.Service
	logger  *zap.Logger
}

// New creates a Client. Without WithRedis or WithPostgres it serves the
// bundled sample catalog.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		cacheTTL:  productcache.DefaultTTL,
		keyPrefix: domain.KeyPrefix,
	}
	for _, o := range opts {
		o.apply(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}

	syn := cfg.synonyms
	if cfg.synonymsFile != "" {
		t, err := synonym.LoadFile(cfg.synonymsFile)
		if err != nil {
			return nil, fmt.Errorf("kakule: %w", err)
		}
		syn = t
	}

	c := &Client{store: cfg.store, logger: cfg.logger}
	if err := c.connect(cfg); err != nil {
		c.Close()
		return nil, err
	}
	c.wire(cfg, syn)
	return c, nil
}

func (c *Client) connect(cfg *clientConfig) error {
	ctx := context.Background()

	if c.store == nil && len(cfg.redisAddrs) > 0 {
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.redisAddrs,
			Password: cfg.redisPassword,
		})
		if err != nil {
			return fmt.Errorf("kakule: create redis store: %w", err)
		}
		c.store = s
		if err := s.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			return fmt.Errorf("kakule: redis not ready: %w", err)
		}
	}

	if cfg.postgresDSN != "" {
		pool, err := pgproduct.Connect(ctx, cfg.postgresDSN)
		if err != nil {
			return fmt.Errorf("kakule: %w", err)
		}
		c.pool = pool
	}
	return nil
}

func (c *Client) wire(cfg *clientConfig, syn *synonym.Table) {
	switch {
	case c.pool != nil:
		repo := pgproduct.New(c.pool)
		c.source, c.writer = repo, repo
	case c.store != nil:
		repo := productrepo.New(c.store, cfg.keyPrefix)
		c.source, c.writer = repo, repo
	default:
		c.source = sample.New()
	}

	var repo cataloguc.Repository = c.source
	if c.store != nil && cfg.cacheTTL > 0 {
		c.cache = productcache.New(c.source, c.store, cfg.keyPrefix, cfg.cacheTTL,
			metrics.CatalogCacheTotal, c.logger)
		repo = c.cache
	}
	switch {
	case cfg.sampleOnly:
		repo = sample.New()
	case c.writer != nil && !cfg.noFallback:
		repo = fallback.New(repo, sample.New(), metrics.CatalogFallbackTotal, c.logger)
	}

	var invalidator cataloguc.CacheInvalidator
	if c.cache != nil {
		invalidator = c.cache
	}
	c.catalog = cataloguc.New(repo, invalidator)
	c.search = searchuc.New(repo, searchuc.NewEngine(searchuc.WithSynonyms(syn)))
}

// Close releases all connections.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
	if c.pool != nil {
		c.pool.Close()
	}
}

// Ping checks the product source.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.source.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Search ranks the catalog against query. A blank query lists the products
// matching opts in catalog order.
func (c *Client) Search(ctx context.Context, query string, opts SearchOptions) ([]Hit, error) {
	req, err := request.New(query, filter.Set{
		Category:     opts.Category,
		Color:        opts.Color,
		Material:     opts.Material,
		Availability: opts.Availability,
		Featured:     opts.Featured,
	}, opts.Limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
	}

	results, err := c.search.Search(ctx, &req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	hits := make([]Hit, len(results))
	for i := range results {
		hits[i] = Hit{Product: results[i].Product(), Score: results[i].Score()}
	}
	return hits, nil
}

// Suggest completes a partial query from catalog tags.
func (c *Client) Suggest(ctx context.Context, partial string) ([]string, error) {
	tags, err := c.search.Suggest(ctx, partial)
	if err != nil {
		return nil, fmt.Errorf("suggest: %w", err)
	}
	return tags, nil
}

// PopularTags returns the limit most frequent tags; 0 means 10.
func (c *Client) PopularTags(ctx context.Context, limit int) ([]string, error) {
	if limit < 0 {
		return []string{}, nil
	}
	tags, err := c.search.PopularTags(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("popular tags: %w", err)
	}
	return tags, nil
}

// Product returns a product by id, or by product code when no id matches.
func (c *Client) Product(ctx context.Context, idOrCode string) (Product, error) {
	p, err := c.catalog.ByID(ctx, idOrCode)
	if errors.Is(err, domain.ErrNotFound) {
		p, err = c.catalog.ByCode(ctx, idOrCode)
	}
	if err != nil {
		return Product{}, fmt.Errorf("product %s: %w", idOrCode, err)
	}
	return p, nil
}

// Products lists a category, or the whole catalog when categoryID is "".
func (c *Client) Products(ctx context.Context, categoryID string) ([]Product, error) {
	var (
		ps  []Product
		err error
	)
	if categoryID == "" {
		ps, err = c.catalog.All(ctx)
	} else {
		ps, err = c.catalog.ByCategory(ctx, categoryID)
	}
	if err != nil {
		return nil, fmt.Errorf("products: %w", err)
	}
	return ps, nil
}

// Categories returns the fixed catalog sections.
func (c *Client) Categories() []Category {
	return c.catalog.Categories()
}

// Seed writes the sample catalog into the configured store and drops the
// cached product list. It returns the number of products written.
func (c *Client) Seed(ctx context.Context) (int, error) {
	if c.writer == nil {
		return 0, fmt.Errorf("%w: seed needs a redis or postgres source", domain.ErrInvalidRequest)
	}
	if c.pool != nil {
		if err := pgproduct.New(c.pool).EnsureSchema(ctx); err != nil {
			return 0, fmt.Errorf("seed: %w", err)
		}
	}

	products := sample.Products()
	for i := range products {
		if err := c.writer.Put(ctx, &products[i]); err != nil {
			return i, fmt.Errorf("seed: %w", err)
		}
	}
	c.logger.Info("Seeded sample catalog", zap.Int("products", len(products)))

	if err := c.catalog.InvalidateCache(ctx); err != nil {
		return len(products), fmt.Errorf("seed: %w", err)
	}
	return len(products), nil
}
