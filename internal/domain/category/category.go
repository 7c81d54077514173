package category

import (
	"fmt"

	"github.com/scgursel/kakule-katalog/internal/domain"
	"github.com/scgursel/kakule-katalog/internal/domain/product"
)

// Subcategory is a display grouping inside a category.
type Subcategory struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Category is one of the fixed catalog sections.
type Category struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Description   string        `json:"description"`
	Icon          string        `json:"icon"`
	Color         string        `json:"color"`
	Subcategories []Subcategory `json:"subcategories"`
}

var catalog = []Category{
	{
		ID:          product.CategoryFrames,
		Name:        "Çerçeveler",
		Description: "Modern ve klasik çerçeve çeşitleri",
		Icon:        "image-outline",
		Color:       "#2E7D32",
		Subcategories: []Subcategory{
			{ID: "ahşap", Name: "Ahşap Çerçeveler"},
			{ID: "metal", Name: "Metal Çerçeveler"},
			{ID: "plastik", Name: "Plastik Çerçeveler"},
		},
	},
	{
		ID:          product.CategoryMats,
		Name:        "Paspartolar",
		Description: "Rengarenk paspartu çeşitleri",
		Icon:        "layers-outline",
		Color:       "#8D6E63",
		Subcategories: []Subcategory{
			{ID: "renkli", Name: "Renkli Paspartolar"},
			{ID: "beyaz", Name: "Beyaz Paspartolar"},
			{ID: "tekstürlu", Name: "Tekstürlü Paspartolar"},
		},
	},
	{
		ID:          product.CategoryAccessories,
		Name:        "Aksesuarlar",
		Description: "Dekoratif aksesuarlar ve yedek parçalar",
		Icon:        "construct-outline",
		Color:       "#5D4037",
		Subcategories: []Subcategory{
			{ID: "askı", Name: "Askı Sistemleri"},
			{ID: "köşe", Name: "Köşe Koruyucular"},
			{ID: "cam", Name: "Camlar"},
		},
	},
}

// All returns the categories in display order. The slice is a copy.
func All() []Category {
	out := make([]Category, len(catalog))
	copy(out, catalog)
	return out
}

// Get returns the category with the given id.
func Get(id string) (Category, error) {
	for _, c := range catalog {
		if c.ID == id {
			return c, nil
		}
	}
	return Category{}, fmt.Errorf("%w: %q", domain.ErrUnknownCategory, id)
}

// IsValid reports whether id names a known category.
func IsValid(id string) bool {
	_, err := Get(id)
	return err == nil
}
