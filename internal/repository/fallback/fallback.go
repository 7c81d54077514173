// Package fallback serves a secondary product list when the primary
// source fails.
package fallback

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/scgursel/kakule-katalog/internal/domain/product"
)

type source interface {
	GetAll(ctx context.Context) ([]product.Product, error)
}

// Repo returns the secondary list whenever the primary errors. Wrap it
// around the cache, not inside it, so fallback data is never cached.
type Repo struct {
	primary   source
	secondary source
	total     prometheus.Counter
	logger    *zap.Logger
}

// New creates a fallback decorator. total may be nil.
func New(primary, secondary source, total prometheus.Counter, logger *zap.Logger) *Repo {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Repo{primary: primary, secondary: secondary, total: total, logger: logger}
}

// GetAll returns the primary list, or the secondary one if the primary fails.
func (r *Repo) GetAll(ctx context.Context) ([]product.Product, error) {
	products, err := r.primary.GetAll(ctx)
	if err == nil {
		return products, nil
	}

	r.logger.Warn("Product source failed, serving fallback catalog", zap.Error(err))
	if r.total != nil {
		r.total.Inc()
	}

	products, ferr := r.secondary.GetAll(ctx)
	if ferr != nil {
		return nil, fmt.Errorf("fallback after %w: %w", err, ferr)
	}
	return products, nil
}
