// Package store is the durable key-value boundary beneath the product, order
// and review collections. Each collection lives under one key as a serialized
// JSON array and is read and written whole.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
)

// Collection keys. They match the keys the browser storefront used so data
// exported from local storage can be imported as-is.
const (
	KeyProducts = "admin_products"
	KeyOrders   = "orders"
	KeyReviews  = "product_reviews"
	KeyUsers    = "users"
)

// Store is a key -> serialized collection store. Get reports false when the key
// has never been written.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Collection owns one key. It is loaded lazily on first access and flushed in
// full on every Replace. Collection is not safe for concurrent use; callers
// serialize access.
type Collection[T any] struct {
	store  Store
	key    string
	items  []T
	loaded bool
}

func NewCollection[T any](s Store, key string) *Collection[T] {
	return &Collection[T]{store: s, key: key}
}

func (c *Collection[T]) Key() string {
	return c.key
}

// Load reads the collection from the store, replacing any cached copy.
func (c *Collection[T]) Load(ctx context.Context) error {
	raw, ok, err := c.store.Get(ctx, c.key)
	if err != nil {
		return fmt.Errorf("load %s: %w", c.key, err)
	}

	items := make([]T, 0)
	if ok && len(raw) > 0 {
		if err := json.Unmarshal(raw, &items); err != nil {
			return fmt.Errorf("decode %s: %w", c.key, err)
		}
		if items == nil {
			items = make([]T, 0)
		}
	}

	c.items = items
	c.loaded = true
	return nil
}

// Items returns a copy of the cached collection, loading it first if needed.
func (c *Collection[T]) Items(ctx context.Context) ([]T, error) {
	if !c.loaded {
		if err := c.Load(ctx); err != nil {
			return nil, err
		}
	}
	return slices.Clone(c.items), nil
}

// Replace writes items as the new collection. The cache is updated only after
// the store accepted the write.
func (c *Collection[T]) Replace(ctx context.Context, items []T) error {
	if items == nil {
		items = make([]T, 0)
	}

	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.key, err)
	}

	if err := c.store.Set(ctx, c.key, data); err != nil {
		return fmt.Errorf("flush %s: %w", c.key, err)
	}

	c.items = items
	c.loaded = true
	return nil
}
