package request

import (
	"fmt"
	"unicode/utf8"

	"github.com/scgursel/kakule-katalog/internal/domain/search/filter"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed query length in characters.
	MaxQueryLength = 256
	DefaultLimit   = 20
	MaxLimit       = 100
)

// Request is a validated catalog search.
type Request struct {
	query   string
	filters filter.Set
	limit   int
}

// New validates search parameters. An empty query is allowed and means
// "filter only". limit <= 0 falls back to DefaultLimit; larger values are
// clamped to MaxLimit.
func New(query string, filters filter.Set, limit int) (Request, error) {
	if utf8.RuneCountInString(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("query too long (max %d chars)", MaxQueryLength)
	}
	if err := filters.Validate(); err != nil {
		return Request{}, err
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Request{query: query, filters: filters, limit: limit}, nil
}

// Query returns the raw query text.
func (r *Request) Query() string { return r.query }

// Filters returns the structural filters.
func (r *Request) Filters() filter.Set { return r.filters }

// Limit returns the maximum number of results.
func (r *Request) Limit() int { return r.limit }
