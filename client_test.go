package kakule

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/redis/rueidis/mock"
	"go.uber.org/mock/gomock"

	dbRedis "github.com/scgursel/kakule-katalog/internal/db/redis"
)

func newSampleClient(t *testing.T, opts ...Option) *Client {
	t.Helper()
	c, err := New(opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

func TestNew_DefaultsToSample(t *testing.T) {
	c := newSampleClient(t)
	if err := c.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	ps, err := c.Products(context.Background(), "")
	if err != nil {
		t.Fatalf("Products: %v", err)
	}
	if len(ps) != 5 {
		t.Fatalf("products = %d, want 5", len(ps))
	}
}

func TestNew_BadSynonymsFile(t *testing.T) {
	_, err := New(WithSynonymsFile(filepath.Join(t.TempDir(), "missing.yaml")))
	if err == nil {
		t.Fatal("expected error for missing synonyms file")
	}
}

func TestNew_SynonymsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "synonyms.yaml")
	if err := os.WriteFile(path, []byte("ceviz: [ceviz]\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	c := newSampleClient(t, WithSynonymsFile(path))

	hits, err := c.Search(context.Background(), "ceviz", SearchOptions{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	plain := newSampleClient(t)
	base, _ := plain.Search(context.Background(), "ceviz", SearchOptions{})
	if len(hits) == 0 || len(base) == 0 || hits[0].Score != base[0].Score+5 {
		t.Fatalf("synonym bonus not applied: %+v vs %+v", hits, base)
	}
}

func TestSearch(t *testing.T) {
	c := newSampleClient(t)

	hits, err := c.Search(context.Background(), "ceviz", SearchOptions{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) == 0 || hits[0].Product.ID != "20G-CEVIZ" {
		t.Fatalf("hits = %+v", hits)
	}

	hits, err = c.Search(context.Background(), "", SearchOptions{Category: "paspartolar"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 1 || hits[0].Score != 0 {
		t.Fatalf("filter-only hits = %+v", hits)
	}

	hits, _ = c.Search(context.Background(), "", SearchOptions{Limit: 2})
	if len(hits) != 2 {
		t.Fatalf("limit: got %d hits", len(hits))
	}
}

func TestSearch_UnknownCategory(t *testing.T) {
	c := newSampleClient(t)
	_, err := c.Search(context.Background(), "x", SearchOptions{Category: "nope"})
	if !errors.Is(err, ErrUnknownCategory) || !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected unknown category error, got %v", err)
	}
}

func TestSuggestAndPopular(t *testing.T) {
	c := newSampleClient(t)
	ctx := context.Background()

	s, err := c.Suggest(ctx, "met")
	if err != nil || len(s) != 1 || s[0] != "metal" {
		t.Fatalf("Suggest = %v, %v", s, err)
	}

	tags, err := c.PopularTags(ctx, 1)
	if err != nil || len(tags) != 1 || tags[0] != "beyaz" {
		t.Fatalf("PopularTags = %v, %v", tags, err)
	}

	tags, _ = c.PopularTags(ctx, -1)
	if len(tags) != 0 {
		t.Fatalf("negative limit = %v", tags)
	}
}

func TestProduct(t *testing.T) {
	c := newSampleClient(t)
	ctx := context.Background()

	p, err := c.Product(ctx, "15A-BEYAZ")
	if err != nil || p.ProductCode != "15A BEYAZ" {
		t.Fatalf("by id: %+v, %v", p, err)
	}

	p, err = c.Product(ctx, "ASK-DUVAR-METAL")
	if err != nil || p.ID != "ask-sistem-001" {
		t.Fatalf("by code: %+v, %v", p, err)
	}

	if _, err := c.Product(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCategories(t *testing.T) {
	if n := len(newSampleClient(t).Categories()); n != 3 {
		t.Fatalf("categories = %d", n)
	}
}

func TestSeed_SampleSourceRejected(t *testing.T) {
	c := newSampleClient(t)
	if _, err := c.Seed(context.Background()); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestSeed_Redis(t *testing.T) {
	ctrl := gomock.NewController(t)
	rc := mock.NewClient(ctrl)

	gomock.InOrder(
		rc.EXPECT().Do(gomock.Any(), gomock.Any()).Return(mock.Result(mock.RedisString("OK"))).Times(5),
		rc.EXPECT().Do(gomock.Any(), mock.Match("DEL", "kakule:products")).Return(mock.Result(mock.RedisInt64(1))),
	)
	rc.EXPECT().Close().AnyTimes()

	c := newSampleClient(t, withStore(dbRedis.NewStoreForTest(rc)))
	n, err := c.Seed(context.Background())
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if n != 5 {
		t.Fatalf("seeded %d, want 5", n)
	}
}

func TestSearch_RedisDownFallsBackToSample(t *testing.T) {
	ctrl := gomock.NewController(t)
	rc := mock.NewClient(ctrl)
	rc.EXPECT().Do(gomock.Any(), gomock.Any()).Return(mock.ErrorResult(errors.New("connection refused"))).Times(2)
	rc.EXPECT().Close().AnyTimes()

	c := newSampleClient(t, withStore(dbRedis.NewStoreForTest(rc)))
	hits, err := c.Search(context.Background(), "ceviz", SearchOptions{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) == 0 || hits[0].Product.ID != "20G-CEVIZ" {
		t.Fatalf("hits = %+v", hits)
	}
}

func TestSearch_RedisDownWithoutFallback(t *testing.T) {
	ctrl := gomock.NewController(t)
	rc := mock.NewClient(ctrl)
	rc.EXPECT().Do(gomock.Any(), gomock.Any()).Return(mock.ErrorResult(errors.New("connection refused"))).Times(2)
	rc.EXPECT().Close().AnyTimes()

	c := newSampleClient(t, withStore(dbRedis.NewStoreForTest(rc)), WithoutFallback())
	_, err := c.Search(context.Background(), "ceviz", SearchOptions{})
	if !errors.Is(err, ErrRepositoryUnavailable) {
		t.Fatalf("expected ErrRepositoryUnavailable, got %v", err)
	}
}
