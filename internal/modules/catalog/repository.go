package catalog

import "context"

// Repository defines product storage.
type Repository interface {
	// List returns products newest first.
	List(ctx context.Context) ([]Product, error)
	Create(ctx context.Context, p Product) error
	Update(ctx context.Context, p Product) error
	Delete(ctx context.Context, id string) error
	// BulkInsert writes products that are not yet stored, keyed by id.
	BulkInsert(ctx context.Context, products []Product) error
}

// CategoryRepository defines category storage.
type CategoryRepository interface {
	List(ctx context.Context) ([]string, error)
	Add(ctx context.Context, name string) error
	Delete(ctx context.Context, name string) error
}
