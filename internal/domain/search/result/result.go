package result

import (
	"slices"

	"github.com/scgursel/kakule-katalog/internal/domain/product"
)

// Result is a product paired with its relevance score.
type Result struct {
	product product.Product
	score   int
}

// New creates a search result. The product is copied, including its tag
// and image slices, so results never alias caller data.
func New(p product.Product, score int) Result {
	if score < 0 {
		score = 0
	}
	p.Tags = slices.Clone(p.Tags)
	p.Images = slices.Clone(p.Images)
	return Result{product: p, score: score}
}

// Product returns the matched product.
func (r *Result) Product() product.Product { return r.product }

// ID returns the product identifier.
func (r *Result) ID() string { return r.product.ID }

// Score returns the relevance score; 0 when the search was unscored.
func (r *Result) Score() int { return r.score }

// IDs collects result ids in order.
func IDs(results []Result) []string {
	ids := make([]string, len(results))
	for i := range results {
		ids[i] = results[i].ID()
	}
	return ids
}
