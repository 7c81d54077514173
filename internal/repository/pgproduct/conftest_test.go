package pgproduct

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type row struct {
	id  string
	doc string
}

// fakeRows is an in-memory pgx.Rows over (id, doc) pairs.
type fakeRows struct {
	rows   []row
	pos    int
	err    error
	closed bool
}

func (r *fakeRows) Close()                                       { r.closed = true }
func (r *fakeRows) Err() error                                   { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.NewCommandTag("SELECT") }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	if r.pos >= len(r.rows) {
		return false
	}
	r.pos++
	return true
}

func (r *fakeRows) Values() ([]any, error) {
	cur := r.rows[r.pos-1]
	return []any{cur.id, []byte(cur.doc)}, nil
}

func (r *fakeRows) Scan(dest ...any) error {
	if len(dest) != 2 {
		return fmt.Errorf("expected 2 scan targets, got %d", len(dest))
	}
	cur := r.rows[r.pos-1]
	id, ok := dest[0].(*string)
	if !ok {
		return errors.New("dest[0] must be *string")
	}
	doc, ok := dest[1].(*[]byte)
	if !ok {
		return errors.New("dest[1] must be *[]byte")
	}
	*id = cur.id
	*doc = []byte(cur.doc)
	return nil
}

type execCall struct {
	sql  string
	args []any
}

// fakeDB implements querier.
type fakeDB struct {
	rows     *fakeRows
	queryErr error
	execErr  error
	pingErr  error

	lastQuery     string
	lastQueryArgs []any
	execs         []execCall
}

func (f *fakeDB) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	f.lastQuery, f.lastQueryArgs = sql, args
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	if f.rows == nil {
		f.rows = &fakeRows{}
	}
	return f.rows, nil
}

func (f *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.execs = append(f.execs, execCall{sql: sql, args: args})
	if f.execErr != nil {
		return pgconn.CommandTag{}, f.execErr
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (f *fakeDB) Ping(_ context.Context) error { return f.pingErr }
