package kv

import (
	"context"
	"encoding/json"
	"fmt"
)

// Collection serializes a whole entity list as one JSON array under a single key.
type Collection[T any] struct {
	store Store
	key   string
}

func NewCollection[T any](store Store, key string) Collection[T] {
	return Collection[T]{store: store, key: key}
}

// Load returns nil without error when nothing was stored yet.
func (c Collection[T]) Load(ctx context.Context) ([]T, error) {
	raw, ok, err := c.store.Get(ctx, c.key)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", c.key, err)
	}
	return c.decode(raw, ok)
}

func (c Collection[T]) Save(ctx context.Context, items []T) error {
	data, err := c.encode(items)
	if err != nil {
		return err
	}
	if err := c.store.Set(ctx, c.key, data); err != nil {
		return fmt.Errorf("write %s: %w", c.key, err)
	}
	return nil
}

// Update loads the collection, applies fn and saves the result as a single
// store step, so concurrent updates of the same key never drop writes.
// fn may run more than once.
func (c Collection[T]) Update(ctx context.Context, fn func([]T) ([]T, error)) error {
	return c.store.Update(ctx, c.key, func(raw string, ok bool) (string, error) {
		items, err := c.decode(raw, ok)
		if err != nil {
			return "", err
		}
		items, err = fn(items)
		if err != nil {
			return "", err
		}
		return c.encode(items)
	})
}

func (c Collection[T]) decode(raw string, ok bool) ([]T, error) {
	if !ok || raw == "" {
		return nil, nil
	}
	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", c.key, err)
	}
	return items, nil
}

func (c Collection[T]) encode(items []T) (string, error) {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", c.key, err)
	}
	return string(data), nil
}
