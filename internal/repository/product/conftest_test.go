package product

import (
	"context"

	"github.com/scgursel/kakule-katalog/internal/db"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	docs map[string]string

	scanErr  error
	mgetErr  error
	setErr   error
	pingErr  error
	setCalls map[string]string
	deleted  []string
}

func newMockStore() *mockStore {
	return &mockStore{docs: map[string]string{}, setCalls: map[string]string{}}
}

func (m *mockStore) JSONSet(_ context.Context, key, _ string, data []byte) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.setCalls[key] = string(data)
	m.docs[key] = "[" + string(data) + "]"
	return nil
}

func (m *mockStore) JSONGet(_ context.Context, key string, _ ...string) ([]byte, error) {
	doc, ok := m.docs[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return []byte(doc), nil
}

func (m *mockStore) JSONMGet(_ context.Context, keys []string, _ string) ([][]byte, error) {
	if m.mgetErr != nil {
		return nil, m.mgetErr
	}
	out := make([][]byte, len(keys))
	for i, k := range keys {
		if doc, ok := m.docs[k]; ok {
			out[i] = []byte(doc)
		}
	}
	return out, nil
}

// Scan ignores the pattern beyond returning all keys; the repo only ever
// scans its own prefix.
func (m *mockStore) Scan(_ context.Context, _ string) ([]string, error) {
	if m.scanErr != nil {
		return nil, m.scanErr
	}
	keys := make([]string, 0, len(m.docs))
	for k := range m.docs {
		keys = append(keys, k)
	}
	return keys, nil
}

func (m *mockStore) Del(_ context.Context, key string) error {
	delete(m.docs, key)
	m.deleted = append(m.deleted, key)
	return nil
}

func (m *mockStore) Ping(_ context.Context) error { return m.pingErr }
