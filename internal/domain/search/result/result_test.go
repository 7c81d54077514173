package result

import (
	"testing"

	"github.com/scgursel/kakule-katalog/internal/domain/product"
)

func TestNew(t *testing.T) {
	r := New(product.Product{ID: "A", Name: "Ceviz"}, 23)
	if r.ID() != "A" || r.Score() != 23 {
		t.Fatalf("unexpected result: id=%q score=%d", r.ID(), r.Score())
	}
	if r.Product().Name != "Ceviz" {
		t.Errorf("product name = %q", r.Product().Name)
	}
}

func TestNew_ClampsNegativeScore(t *testing.T) {
	r := New(product.Product{ID: "A"}, -4)
	if r.Score() != 0 {
		t.Fatalf("score = %d, want 0", r.Score())
	}
}

func TestIDs(t *testing.T) {
	rs := []Result{New(product.Product{ID: "b"}, 1), New(product.Product{ID: "a"}, 2)}
	ids := IDs(rs)
	if len(ids) != 2 || ids[0] != "b" || ids[1] != "a" {
		t.Fatalf("IDs = %v", ids)
	}
	if len(IDs(nil)) != 0 {
		t.Fatal("IDs(nil) should be empty")
	}
}

func TestNew_DoesNotAliasTags(t *testing.T) {
	p := product.Product{ID: "A", Tags: []string{"ceviz"}}
	r := New(p, 1)
	got := r.Product()
	got.Tags[0] = "changed"
	if p.Tags[0] != "ceviz" {
		t.Fatal("result shares the caller's tag slice")
	}
}
