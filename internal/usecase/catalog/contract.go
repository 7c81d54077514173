package catalog

import (
	"context"

	"github.com/scgursel/kakule-katalog/internal/domain/product"
)

// Repository supplies the product list.
type Repository interface {
	GetAll(ctx context.Context) ([]product.Product, error)
}

// CacheInvalidator drops cached product data.
type CacheInvalidator interface {
	Invalidate(ctx context.Context) error
}
