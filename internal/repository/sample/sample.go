// Package sample serves the bundled demo catalog. It backs the "sample"
// catalog source and the fallback used when the real source is down.
package sample

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/scgursel/kakule-katalog/internal/domain/product"
)

//go:embed products.json
var productsJSON []byte

var (
	parseOnce sync.Once
	parsed    []product.Product
	parseErr  error
)

func load() ([]product.Product, error) {
	parseOnce.Do(func() {
		if err := json.Unmarshal(productsJSON, &parsed); err != nil {
			parseErr = fmt.Errorf("decode sample products: %w", err)
		}
	})
	return parsed, parseErr
}

// Products returns a fresh copy of the sample catalog.
func Products() []product.Product {
	ps, err := load()
	if err != nil {
		// products.json is compiled in; a decode failure is a build defect.
		panic(err)
	}
	return clone(ps)
}

func clone(ps []product.Product) []product.Product {
	out := make([]product.Product, len(ps))
	for i := range ps {
		out[i] = ps[i]
		out[i].Tags = append([]string(nil), ps[i].Tags...)
		out[i].Images = append([]product.Image(nil), ps[i].Images...)
	}
	return out
}

// Repo is a read-only product source over the sample catalog.
type Repo struct{}

// New creates a sample repository.
func New() *Repo { return &Repo{} }

// GetAll returns the sample catalog.
func (r *Repo) GetAll(_ context.Context) ([]product.Product, error) {
	return Products(), nil
}

// Ping always succeeds.
func (r *Repo) Ping(_ context.Context) error { return nil }
