// Package pgproduct reads catalog products from PostgreSQL. Each row holds
// the product document as jsonb, keyed by product id.
package pgproduct

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/scgursel/kakule-katalog/internal/domain"
	"github.com/scgursel/kakule-katalog/internal/domain/product"
	"github.com/scgursel/kakule-katalog/internal/logger"
)

const (
	schemaSQL = `
		CREATE TABLE IF NOT EXISTS products (
			id         text PRIMARY KEY,
			doc        jsonb NOT NULL,
			updated_at timestamptz NOT NULL DEFAULT now()
		)`

	selectAllSQL = `SELECT id, doc FROM products ORDER BY id`

	selectOneSQL = `SELECT id, doc FROM products WHERE id = $1`

	upsertSQL = `
		INSERT INTO products (id, doc, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc, updated_at = now()`
)

// querier is the subset of *pgxpool.Pool the repository uses.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Ping(ctx context.Context) error
}

// Repo implements the product source over a products table.
type Repo struct {
	db querier
}

// New creates a repository on an open pool.
func New(db querier) *Repo {
	return &Repo{db: db}
}

// EnsureSchema creates the products table if it does not exist.
func (r *Repo) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create products table: %w", err)
	}
	return nil
}

// GetAll returns every product ordered by id. Rows whose document does not
// decode are logged and skipped.
func (r *Repo) GetAll(ctx context.Context) ([]product.Product, error) {
	rows, err := r.db.Query(ctx, selectAllSQL)
	if err != nil {
		return nil, fmt.Errorf("%w: query products: %w", domain.ErrRepositoryUnavailable, err)
	}
	defer rows.Close()

	out := make([]product.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			logger.FromContext(ctx).Warn("Skipping malformed product row", zap.Error(err))
			continue
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: read products: %w", domain.ErrRepositoryUnavailable, err)
	}
	return out, nil
}

// Get returns a product by id.
func (r *Repo) Get(ctx context.Context, id string) (product.Product, error) {
	rows, err := r.db.Query(ctx, selectOneSQL, id)
	if err != nil {
		return product.Product{}, fmt.Errorf("query product %s: %w", id, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return product.Product{}, fmt.Errorf("read product %s: %w", id, err)
		}
		return product.Product{}, domain.ErrNotFound
	}
	return scanProduct(rows)
}

// Put inserts or replaces p.
func (r *Repo) Put(ctx context.Context, p *product.Product) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
	}
	doc, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal product %s: %w", p.ID, err)
	}
	if _, err := r.db.Exec(ctx, upsertSQL, p.ID, doc); err != nil {
		return fmt.Errorf("upsert product %s: %w", p.ID, err)
	}
	return nil
}

// Ping checks the database connection.
func (r *Repo) Ping(ctx context.Context) error {
	if err := r.db.Ping(ctx); err != nil {
		return fmt.Errorf("ping postgres: %w", err)
	}
	return nil
}

func scanProduct(rows pgx.Rows) (product.Product, error) {
	var (
		id  string
		doc []byte
	)
	if err := rows.Scan(&id, &doc); err != nil {
		return product.Product{}, fmt.Errorf("scan product row: %w", err)
	}
	if len(doc) == 0 {
		return product.Product{}, errors.New("product " + id + ": empty document")
	}

	var p product.Product
	if err := json.Unmarshal(doc, &p); err != nil {
		return product.Product{}, fmt.Errorf("decode product %s: %w", id, err)
	}
	if p.ID == "" {
		p.ID = id
	}
	return p, nil
}
