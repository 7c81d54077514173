package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/scgursel/kakule-katalog/internal/domain"
	"github.com/scgursel/kakule-katalog/internal/domain/category"
	"github.com/scgursel/kakule-katalog/internal/domain/product"
)

// Service answers catalog browsing queries over the repository's product list.
type Service struct {
	repo  Repository
	cache CacheInvalidator
}

// New creates a catalog service. cache may be nil when caching is off.
func New(repo Repository, cache CacheInvalidator) *Service {
	return &Service{repo: repo, cache: cache}
}

// All returns every product in repository order.
func (s *Service) All(ctx context.Context) ([]product.Product, error) {
	return s.where(ctx, nil)
}

// ByID returns the product with id.
func (s *Service) ByID(ctx context.Context, id string) (product.Product, error) {
	return s.first(ctx, func(p *product.Product) bool { return p.ID == id })
}

// ByCode returns the product whose product code equals code exactly.
func (s *Service) ByCode(ctx context.Context, code string) (product.Product, error) {
	return s.first(ctx, func(p *product.Product) bool { return p.ProductCode == code })
}

// ByCategory lists products in a category.
func (s *Service) ByCategory(ctx context.Context, categoryID string) ([]product.Product, error) {
	if _, err := category.Get(categoryID); err != nil {
		return nil, err //nolint:wrapcheck // already wraps ErrUnknownCategory
	}
	return s.where(ctx, func(p *product.Product) bool { return p.Category == categoryID })
}

// Featured lists products flagged as featured.
func (s *Service) Featured(ctx context.Context) ([]product.Product, error) {
	return s.where(ctx, func(p *product.Product) bool { return p.Featured })
}

// ByWidth lists products whose width spec is exactly mm millimetres.
func (s *Service) ByWidth(ctx context.Context, mm int) ([]product.Product, error) {
	if mm <= 0 {
		return nil, fmt.Errorf("%w: width must be positive, got %d", domain.ErrInvalidRequest, mm)
	}
	return s.where(ctx, func(p *product.Product) bool { return p.HasWidth(mm) })
}

// ByProfileType lists products with the given profile type (exact match).
func (s *Service) ByProfileType(ctx context.Context, profileType string) ([]product.Product, error) {
	return s.where(ctx, func(p *product.Product) bool { return p.Specs.ProfileType == profileType })
}

// ByColor lists products whose colour equals color, ignoring case.
func (s *Service) ByColor(ctx context.Context, color string) ([]product.Product, error) {
	want := strings.ToLower(color)
	return s.where(ctx, func(p *product.Product) bool {
		return p.Specs.Color != "" && strings.ToLower(p.Specs.Color) == want
	})
}

// Categories returns the category catalog.
func (s *Service) Categories() []category.Category {
	return category.All()
}

// InvalidateCache drops the cached product list. It is a no-op without a cache.
func (s *Service) InvalidateCache(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		return fmt.Errorf("invalidate cache: %w", err)
	}
	return nil
}

func (s *Service) where(ctx context.Context, keep func(*product.Product) bool) ([]product.Product, error) {
	products, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	out := make([]product.Product, 0, len(products))
	for i := range products {
		if keep == nil || keep(&products[i]) {
			out = append(out, products[i])
		}
	}
	return out, nil
}

func (s *Service) first(ctx context.Context, match func(*product.Product) bool) (product.Product, error) {
	products, err := s.repo.GetAll(ctx)
	if err != nil {
		return product.Product{}, fmt.Errorf("load products: %w", err)
	}
	for i := range products {
		if match(&products[i]) {
			return products[i], nil
		}
	}
	return product.Product{}, domain.ErrNotFound
}
