// Package kv is the local fallback store: durable string values by key, used
// when no remote database is configured.
package kv

import "context"

// Keys for the persisted collections.
const (
	KeyProducts   = "fp_products"
	KeyOrders     = "fp_orders"
	KeyCategories = "fp_categories"
	KeyStaff      = "fp_staff"
	KeySettings   = "fp_settings"
	KeyCustomers  = "fp_customers"
)

// CartKey is the per-session cart key.
func CartKey(session string) string { return "fp_cart:" + session }

// WishlistKey is the per-session wishlist key.
func WishlistKey(session string) string { return "fp_wishlist:" + session }

// Store is a durable string key-value store.
type Store interface {
	// Get returns the value for key; ok is false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	// Update replaces the value of key with fn's result as one step. No other
	// write to key lands between the read and the write. fn may run more
	// than once and must not call back into the store.
	Update(ctx context.Context, key string, fn UpdateFunc) error
}

// UpdateFunc maps the current value (ok is false when absent) to the next one.
type UpdateFunc func(value string, ok bool) (string, error)
