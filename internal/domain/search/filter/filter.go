package filter

import (
	"fmt"
	"strings"

	"github.com/scgursel/kakule-katalog/internal/domain"
	"github.com/scgursel/kakule-katalog/internal/domain/category"
	"github.com/scgursel/kakule-katalog/internal/domain/product"
)

// Set is a conjunctive group of exact-match constraints. An empty field
// (or nil Availability) means no constraint on that dimension.
type Set struct {
	Category     string `json:"category,omitempty"`
	Color        string `json:"color,omitempty"`
	Material     string `json:"material,omitempty"`
	Availability *bool  `json:"availability,omitempty"`
	Featured     bool   `json:"featured,omitempty"`
}

// IsEmpty reports whether the set constrains nothing.
func (s Set) IsEmpty() bool {
	return s.Category == "" && s.Color == "" && s.Material == "" &&
		s.Availability == nil && !s.Featured
}

// Validate rejects category ids outside the catalog.
func (s Set) Validate() error {
	if s.Category != "" && !category.IsValid(s.Category) {
		return fmt.Errorf("%w: %q", domain.ErrUnknownCategory, s.Category)
	}
	return nil
}

// Matches reports whether p satisfies every constraint in the set.
// Color and material compare case-insensitively and require equality;
// a missing spec never matches a constraint on it.
func (s Set) Matches(p *product.Product) bool {
	if s.Category != "" && p.Category != s.Category {
		return false
	}
	if s.Color != "" && !equalLower(p.Specs.Color, s.Color) {
		return false
	}
	if s.Material != "" && !equalLower(p.Specs.Material, s.Material) {
		return false
	}
	if s.Availability != nil && p.Availability != *s.Availability {
		return false
	}
	if s.Featured && !p.Featured {
		return false
	}
	return true
}

func equalLower(field, want string) bool {
	if field == "" {
		return false
	}
	return strings.ToLower(field) == strings.ToLower(want)
}

// Bool returns a pointer to b, for building Availability constraints.
func Bool(b bool) *bool { return &b }
