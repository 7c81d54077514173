package pgproduct

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/scgursel/kakule-katalog/internal/domain"
	"github.com/scgursel/kakule-katalog/internal/domain/product"
)

func TestGetAll(t *testing.T) {
	f := &fakeDB{rows: &fakeRows{rows: []row{
		{id: "20G-CEVIZ", doc: `{"id":"20G-CEVIZ","name":"20mm Ceviz","tags":["ceviz","20mm"]}`},
		{id: "47C-YESIL", doc: `{"name":"47mm Yeşil"}`},
	}}}

	got, err := New(f).GetAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 products, got %d", len(got))
	}
	if got[0].ID != "20G-CEVIZ" || len(got[0].Tags) != 2 {
		t.Errorf("unexpected first product: %+v", got[0])
	}
	if got[1].ID != "47C-YESIL" {
		t.Errorf("missing id should come from the row: %+v", got[1])
	}
	if !strings.Contains(f.lastQuery, "ORDER BY id") {
		t.Errorf("unexpected query: %s", f.lastQuery)
	}
	if !f.rows.closed {
		t.Error("rows must be closed")
	}
}

func TestGetAll_SkipsMalformedRows(t *testing.T) {
	f := &fakeDB{rows: &fakeRows{rows: []row{
		{id: "bad", doc: `{"id":`},
		{id: "empty", doc: ``},
		{id: "ok", doc: `{"id":"ok","name":"OK"}`},
	}}}

	got, err := New(f).GetAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "ok" {
		t.Fatalf("expected only ok, got %+v", got)
	}
}

func TestGetAll_Empty(t *testing.T) {
	got, err := New(&fakeDB{}).GetAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v", got)
	}
}

func TestGetAll_Errors(t *testing.T) {
	boom := errors.New("connection refused")
	if _, err := New(&fakeDB{queryErr: boom}).GetAll(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected query error, got %v", err)
	}
	if _, err := New(&fakeDB{queryErr: boom}).GetAll(context.Background()); !errors.Is(err, domain.ErrRepositoryUnavailable) {
		t.Fatalf("expected ErrRepositoryUnavailable, got %v", err)
	}

	f := &fakeDB{rows: &fakeRows{err: boom}}
	if _, err := New(f).GetAll(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected rows error, got %v", err)
	}
}

func TestGet(t *testing.T) {
	f := &fakeDB{rows: &fakeRows{rows: []row{{id: "a", doc: `{"id":"a","name":"A"}`}}}}
	p, err := New(f).Get(context.Background(), "a")
	if err != nil || p.Name != "A" {
		t.Fatalf("Get = %+v, %v", p, err)
	}
	if len(f.lastQueryArgs) != 1 || f.lastQueryArgs[0] != "a" {
		t.Errorf("unexpected args: %v", f.lastQueryArgs)
	}

	if _, err := New(&fakeDB{}).Get(context.Background(), "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPut(t *testing.T) {
	f := &fakeDB{}
	p := product.Product{ID: "a", Name: "Ceviz", Tags: []string{"ceviz"}}
	if err := New(f).Put(context.Background(), &p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.execs) != 1 {
		t.Fatalf("expected 1 exec, got %d", len(f.execs))
	}
	call := f.execs[0]
	if !strings.Contains(call.sql, "ON CONFLICT (id)") {
		t.Errorf("expected upsert, got %s", call.sql)
	}
	if call.args[0] != "a" {
		t.Errorf("id arg = %v", call.args[0])
	}
	var stored product.Product
	if err := json.Unmarshal(call.args[1].([]byte), &stored); err != nil || stored.Name != "Ceviz" {
		t.Errorf("unexpected doc arg: %v (%v)", call.args[1], err)
	}
}

func TestPut_Invalid(t *testing.T) {
	f := &fakeDB{}
	err := New(f).Put(context.Background(), &product.Product{Name: "no id"})
	if !errors.Is(err, domain.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
	if len(f.execs) != 0 {
		t.Error("invalid product must not be written")
	}
}

func TestEnsureSchemaAndPing(t *testing.T) {
	f := &fakeDB{}
	r := New(f)
	if err := r.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.execs) != 1 || !strings.Contains(f.execs[0].sql, "CREATE TABLE IF NOT EXISTS products") {
		t.Errorf("unexpected schema exec: %+v", f.execs)
	}

	f.execErr = errors.New("permission denied")
	if err := r.EnsureSchema(context.Background()); err == nil {
		t.Fatal("expected schema error")
	}

	f.pingErr = errors.New("down")
	if err := r.Ping(context.Background()); err == nil {
		t.Fatal("expected ping error")
	}
}
