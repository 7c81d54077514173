package kakule

import (
	"github.com/scgursel/kakule-katalog/internal/domain"
	"github.com/scgursel/kakule-katalog/internal/domain/category"
	"github.com/scgursel/kakule-katalog/internal/domain/product"
)

// Product is a catalog record.
type Product = product.Product

// Category is one of the fixed catalog sections.
type Category = category.Category

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound              = domain.ErrNotFound
	ErrUnknownCategory       = domain.ErrUnknownCategory
	ErrInvalidRequest        = domain.ErrInvalidRequest
	ErrRepositoryUnavailable = domain.ErrRepositoryUnavailable
)

// SearchOptions narrows a search. Zero values leave a dimension
// unconstrained.
type SearchOptions struct {
	Category     string
	Color        string
	Material     string
	Availability *bool
	Featured     bool
	// Limit caps the number of hits; 0 means 20, values above 100 are clamped.
	Limit int
}

// Hit is a ranked product. Score is 0 when the query was blank.
type Hit struct {
	Product Product `json:"product"`
	Score   int     `json:"score"`
}
