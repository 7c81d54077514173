package productcache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/scgursel/kakule-katalog/internal/domain/product"
)

func sampleList() []product.Product {
	return []product.Product{
		{ID: "a", Name: "Ceviz", Tags: []string{"ceviz"}},
		{ID: "b", Name: "Yeşil", Tags: []string{"yeşil"}},
	}
}

func TestGetAll_CacheMiss(t *testing.T) {
	src := &mockSource{products: sampleList()}
	c, ms, counter := newTestCache(t, src)

	var setKey string
	var setTTL time.Duration
	var setData []byte
	ms.setFn = func(_ context.Context, key string, value []byte, ttl time.Duration) error {
		setKey, setData, setTTL = key, value, ttl
		return nil
	}

	got, err := c.GetAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || src.calls != 1 {
		t.Fatalf("expected source products, got %d (calls=%d)", len(got), src.calls)
	}
	if setKey != "kakule:products" || setTTL != time.Minute {
		t.Errorf("cached under %q with ttl %v", setKey, setTTL)
	}
	var cached []product.Product
	if err := json.Unmarshal(setData, &cached); err != nil || len(cached) != 2 {
		t.Errorf("unexpected cached payload: %s", setData)
	}
	if v := testutil.ToFloat64(counter.WithLabelValues("miss")); v != 1 {
		t.Errorf("miss count = %v", v)
	}
}

func TestGetAll_CacheHit(t *testing.T) {
	src := &mockSource{products: []product.Product{{ID: "fresh"}}}
	c, ms, counter := newTestCache(t, src)

	payload, _ := json.Marshal(sampleList())
	ms.getFn = func(_ context.Context, _ string) ([]byte, error) { return payload, nil }

	got, err := c.GetAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].ID != "a" {
		t.Fatalf("expected cached products, got %+v", got)
	}
	if src.calls != 0 {
		t.Error("source must not be called on hit")
	}
	if v := testutil.ToFloat64(counter.WithLabelValues("hit")); v != 1 {
		t.Errorf("hit count = %v", v)
	}
}

func TestGetAll_CacheReadErrorFallsThrough(t *testing.T) {
	src := &mockSource{products: sampleList()}
	c, ms, counter := newTestCache(t, src)
	ms.getFn = func(_ context.Context, _ string) ([]byte, error) { return nil, errors.New("timeout") }

	got, err := c.GetAll(context.Background())
	if err != nil {
		t.Fatalf("cache errors must not fail the read: %v", err)
	}
	if len(got) != 2 || src.calls != 1 {
		t.Fatalf("expected source products, got %d", len(got))
	}
	if v := testutil.ToFloat64(counter.WithLabelValues("error")); v != 1 {
		t.Errorf("error count = %v", v)
	}
}

func TestGetAll_CorruptCacheFallsThrough(t *testing.T) {
	src := &mockSource{products: sampleList()}
	c, ms, _ := newTestCache(t, src)
	ms.getFn = func(_ context.Context, _ string) ([]byte, error) { return []byte("{not json"), nil }

	got, err := c.GetAll(context.Background())
	if err != nil || len(got) != 2 {
		t.Fatalf("expected source products, got %v, %v", got, err)
	}
}

func TestGetAll_CacheWriteErrorIgnored(t *testing.T) {
	src := &mockSource{products: sampleList()}
	c, ms, _ := newTestCache(t, src)
	ms.setFn = func(_ context.Context, _ string, _ []byte, _ time.Duration) error {
		return errors.New("READONLY")
	}

	if _, err := c.GetAll(context.Background()); err != nil {
		t.Fatalf("cache write errors must be ignored: %v", err)
	}
}

func TestGetAll_SourceErrorNotCached(t *testing.T) {
	boom := errors.New("source down")
	src := &mockSource{err: boom}
	c, ms, _ := newTestCache(t, src)

	setCalled := false
	ms.setFn = func(_ context.Context, _ string, _ []byte, _ time.Duration) error {
		setCalled = true
		return nil
	}

	if _, err := c.GetAll(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected source error, got %v", err)
	}
	if setCalled {
		t.Error("failed loads must not be cached")
	}
}

func TestInvalidate(t *testing.T) {
	c, ms, _ := newTestCache(t, &mockSource{})

	var deleted string
	ms.delFn = func(_ context.Context, key string) error {
		deleted = key
		return nil
	}
	if err := c.Invalidate(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted != c.Key() {
		t.Errorf("deleted %q, want %q", deleted, c.Key())
	}

	ms.delFn = func(_ context.Context, _ string) error { return errors.New("down") }
	if err := c.Invalidate(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestNew_Defaults(t *testing.T) {
	c := New(&mockSource{}, &mockKVStore{}, "", 0, nil, nil)
	if c.Key() != "kakule:products" {
		t.Errorf("key = %q", c.Key())
	}
	if c.ttl != DefaultTTL {
		t.Errorf("ttl = %v", c.ttl)
	}
	// nil counter and logger must be safe
	if _, err := c.GetAll(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
