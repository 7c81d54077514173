package search

import (
	"context"

	"github.com/scgursel/kakule-katalog/internal/domain/product"
)

// Repository supplies the full product list to rank.
type Repository interface {
	GetAll(ctx context.Context) ([]product.Product, error)
}
