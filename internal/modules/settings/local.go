package settings

import (
	"context"

	"github.com/georgemunganga/freshpavilion-backend/internal/platform/kv"
)

type localRepo struct{ entries kv.Collection[Entry] }

// NewLocalRepository stores settings rows in the fallback store under fp_settings.
func NewLocalRepository(store kv.Store) Repository {
	return &localRepo{entries: kv.NewCollection[Entry](store, kv.KeySettings)}
}

func (r *localRepo) List(ctx context.Context) ([]Entry, error) {
	return r.entries.Load(ctx)
}

func (r *localRepo) Upsert(ctx context.Context, key, value string) error {
	return r.entries.Update(ctx, func(entries []Entry) ([]Entry, error) {
		for i := range entries {
			if entries[i].Key == key {
				entries[i].Value = value
				return entries, nil
			}
		}
		return append(entries, Entry{Key: key, Value: value}), nil
	})
}
