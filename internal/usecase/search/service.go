package search

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/scgursel/kakule-katalog/internal/domain/search/request"
	"github.com/scgursel/kakule-katalog/internal/domain/search/result"
	"github.com/scgursel/kakule-katalog/internal/logger"
	"github.com/scgursel/kakule-katalog/internal/metrics"
)

// DefaultPopularLimit is used when PopularTags is called with limit 0.
const DefaultPopularLimit = 10

const (
	opSearch  = "search"
	opSuggest = "suggest"
	opPopular = "popular"
)

// Service loads the catalog from a repository and ranks it with an Engine.
type Service struct {
	repo         Repository
	engine       *Engine
	popularLimit int
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithPopularLimit overrides DefaultPopularLimit.
func WithPopularLimit(n int) ServiceOption {
	return func(s *Service) {
		if n > 0 {
			s.popularLimit = n
		}
	}
}

// New creates a search service. A nil engine gets NewEngine().
func New(repo Repository, engine *Engine, opts ...ServiceOption) *Service {
	if engine == nil {
		engine = NewEngine()
	}
	s := &Service{repo: repo, engine: engine, popularLimit: DefaultPopularLimit}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Engine returns the ranking engine.
func (s *Service) Engine() *Engine { return s.engine }

// Search ranks the catalog for req and truncates to req.Limit().
func (s *Service) Search(ctx context.Context, req *request.Request) ([]result.Result, error) {
	start := time.Now()

	products, err := s.repo.GetAll(ctx)
	if err != nil {
		observe(opSearch, start, err)
		return nil, fmt.Errorf("load products: %w", err)
	}

	results := s.engine.Search(products, req.Query(), req.Filters())
	if len(results) > req.Limit() {
		results = results[:req.Limit()]
	}

	observe(opSearch, start, nil)
	metrics.SearchResults.Observe(float64(len(results)))
	logger.FromContext(ctx).Debug("Search completed",
		zap.String("query", req.Query()),
		zap.Int("catalog_size", len(products)),
		zap.Int("results", len(results)),
		zap.Duration("duration", time.Since(start)),
	)
	return results, nil
}

// Suggest returns tag completions for a partial query.
func (s *Service) Suggest(ctx context.Context, partial string) ([]string, error) {
	start := time.Now()

	products, err := s.repo.GetAll(ctx)
	if err != nil {
		observe(opSuggest, start, err)
		return nil, fmt.Errorf("load products: %w", err)
	}

	tags := s.engine.SuggestTags(products, partial)
	observe(opSuggest, start, nil)
	return tags, nil
}

// PopularTags returns the most frequent tags. limit 0 means the configured
// default; negative limits yield an empty list.
func (s *Service) PopularTags(ctx context.Context, limit int) ([]string, error) {
	start := time.Now()
	if limit == 0 {
		limit = s.popularLimit
	}

	products, err := s.repo.GetAll(ctx)
	if err != nil {
		observe(opPopular, start, err)
		return nil, fmt.Errorf("load products: %w", err)
	}

	tags := s.engine.PopularTags(products, limit)
	observe(opPopular, start, nil)
	return tags, nil
}

func observe(op string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.SearchRequestsTotal.WithLabelValues(op, status).Inc()
	metrics.SearchDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
