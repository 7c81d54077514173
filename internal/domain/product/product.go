// Package product defines the catalog product record as stored in the
// document store. Records are read-only to the search engine.
package product

import (
	"fmt"
	"strings"
)

// Category identifiers.
const (
	CategoryFrames      = "cerceveler"
	CategoryMats        = "paspartolar"
	CategoryAccessories = "aksesuarlar"
)

// Image is a product picture reference.
type Image struct {
	URL       string `json:"url"`
	Thumbnail string `json:"thumbnail,omitempty"`
	Alt       string `json:"alt,omitempty"`
	IsPrimary bool   `json:"isPrimary,omitempty"`
}

// Specs holds technical attributes. All fields are optional.
type Specs struct {
	Width          string `json:"width,omitempty"`
	Color          string `json:"color,omitempty"`
	Material       string `json:"material,omitempty"`
	ProfileType    string `json:"profileType,omitempty"`
	Finish         string `json:"finish,omitempty"`
	Thickness      string `json:"thickness,omitempty"`
	Dimensions     string `json:"dimensions,omitempty"`
	Weight         string `json:"weight,omitempty"`
	WeightCapacity string `json:"weightCapacity,omitempty"`
	Mounting       string `json:"mounting,omitempty"`
	AcidFree       bool   `json:"acidFree,omitempty"`
}

// Product is a catalog record.
type Product struct {
	ID               string   `json:"id"`
	ProductCode      string   `json:"productCode,omitempty"`
	Name             string   `json:"name"`
	Category         string   `json:"category"`
	Description      string   `json:"description,omitempty"`
	ShortDescription string   `json:"shortDescription,omitempty"`
	Tags             []string `json:"tags,omitempty"`
	Images           []Image  `json:"images,omitempty"`
	Specs            Specs    `json:"specs"`
	Availability     bool     `json:"availability"`
	Featured         bool     `json:"featured"`
	UnitType         string   `json:"unitType,omitempty"`
	CustomSizing     bool     `json:"customSizing,omitempty"`
	CreatedAt        string   `json:"createdAt,omitempty"`
	UpdatedAt        string   `json:"updatedAt,omitempty"`
}

// PrimaryImage returns the image flagged as primary, or the first one.
func (p *Product) PrimaryImage() (Image, bool) {
	for _, img := range p.Images {
		if img.IsPrimary {
			return img, true
		}
	}
	if len(p.Images) > 0 {
		return p.Images[0], true
	}
	return Image{}, false
}

// HasWidth reports whether the product width is exactly n millimetres.
func (p *Product) HasWidth(mm int) bool {
	return p.Specs.Width == WidthLabel(mm)
}

// WidthLabel formats a width in millimetres the way specs store it ("20mm").
func WidthLabel(mm int) string {
	return fmt.Sprintf("%dmm", mm)
}

// Validate checks the fields a stored record must carry.
func (p *Product) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("product id is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("product %s: name is required", p.ID)
	}
	return nil
}
