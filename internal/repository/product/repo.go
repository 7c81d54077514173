package product

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/scgursel/kakule-katalog/internal/db"
	"github.com/scgursel/kakule-katalog/internal/domain"
	domproduct "github.com/scgursel/kakule-katalog/internal/domain/product"
	"github.com/scgursel/kakule-katalog/internal/logger"
)

const rootPath = "$"

// store is the consumer interface for product documents (ISP).
type store interface {
	JSONSet(ctx context.Context, key, path string, data []byte) error
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
	JSONMGet(ctx context.Context, keys []string, path string) ([][]byte, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
	Del(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}

// Repo stores products as RedisJSON documents under <prefix>product:<id>.
type Repo struct {
	store  store
	prefix string
}

// New creates a product repository. An empty prefix means domain.KeyPrefix.
func New(s store, prefix string) *Repo {
	if prefix == "" {
		prefix = domain.KeyPrefix
	}
	return &Repo{store: s, prefix: prefix}
}

func (r *Repo) key(id string) string {
	return r.prefix + "product:" + id
}

// GetAll returns every stored product ordered by id. Documents that vanish
// between scan and read are skipped; undecodable documents are logged and
// skipped.
func (r *Repo) GetAll(ctx context.Context) ([]domproduct.Product, error) {
	keys, err := r.store.Scan(ctx, r.key("*"))
	if err != nil {
		return nil, fmt.Errorf("%w: scan products: %w", domain.ErrRepositoryUnavailable, err)
	}
	if len(keys) == 0 {
		return []domproduct.Product{}, nil
	}
	slices.Sort(keys)

	docs, err := r.store.JSONMGet(ctx, keys, rootPath)
	if err != nil {
		return nil, fmt.Errorf("%w: read products: %w", domain.ErrRepositoryUnavailable, err)
	}

	out := make([]domproduct.Product, 0, len(docs))
	for i, raw := range docs {
		if raw == nil {
			continue
		}
		p, err := decodeDoc(raw)
		if err != nil {
			logger.FromContext(ctx).Warn("Skipping malformed product document",
				zap.String("key", keys[i]), zap.Error(err))
			continue
		}
		if p.ID == "" {
			p.ID = strings.TrimPrefix(keys[i], r.key(""))
		}
		out = append(out, p)
	}
	return out, nil
}

// Get returns a product by id.
func (r *Repo) Get(ctx context.Context, id string) (domproduct.Product, error) {
	raw, err := r.store.JSONGet(ctx, r.key(id), rootPath)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domproduct.Product{}, domain.ErrNotFound
		}
		return domproduct.Product{}, fmt.Errorf("get product %s: %w", id, err)
	}
	p, err := decodeDoc(raw)
	if err != nil {
		return domproduct.Product{}, fmt.Errorf("decode product %s: %w", id, err)
	}
	return p, nil
}

// Put stores p, replacing any document with the same id.
func (r *Repo) Put(ctx context.Context, p *domproduct.Product) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
	}
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal product %s: %w", p.ID, err)
	}
	if err := r.store.JSONSet(ctx, r.key(p.ID), rootPath, data); err != nil {
		return fmt.Errorf("store product %s: %w", p.ID, err)
	}
	return nil
}

// Delete removes a product.
func (r *Repo) Delete(ctx context.Context, id string) error {
	if err := r.store.Del(ctx, r.key(id)); err != nil {
		return fmt.Errorf("delete product %s: %w", id, err)
	}
	return nil
}

// Ping checks the backing store.
func (r *Repo) Ping(ctx context.Context) error {
	return r.store.Ping(ctx) //nolint:wrapcheck // store errors carry their own context
}

// decodeDoc accepts both JSON.GET reply shapes: a bare object (legacy
// path ".") and a one-element array (JSONPath "$").
func decodeDoc(raw []byte) (domproduct.Product, error) {
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "[") {
		var arr []domproduct.Product
		if err := json.Unmarshal([]byte(trimmed), &arr); err != nil {
			return domproduct.Product{}, fmt.Errorf("decode document: %w", err)
		}
		if len(arr) == 0 {
			return domproduct.Product{}, errors.New("empty document")
		}
		return arr[0], nil
	}
	var p domproduct.Product
	if err := json.Unmarshal([]byte(trimmed), &p); err != nil {
		return domproduct.Product{}, fmt.Errorf("decode document: %w", err)
	}
	return p, nil
}
