package settings

import "context"

// Repository persists settings as individual key/value rows.
type Repository interface {
	List(ctx context.Context) ([]Entry, error)

	// Upsert writes one key; the key is the conflict target.
	Upsert(ctx context.Context, key, value string) error
}
