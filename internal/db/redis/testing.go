package redis

import "github.com/redis/rueidis"

// NewStoreForTest creates a Store around c, typically a rueidis mock client.
func NewStoreForTest(c rueidis.Client) *Store {
	return &Store{client: c}
}
