package customer

import "context"

// Repository defines data access for customer aggregates.
type Repository interface {
	// List returns all customers ordered by total spent, highest first.
	List(ctx context.Context) ([]Customer, error)

	// Get returns the customer for phone, or apperr.ErrNotFound.
	Get(ctx context.Context, phone string) (Customer, error)

	// Upsert inserts or replaces the row keyed by phone.
	Upsert(ctx context.Context, c Customer) error

	// ReplaceAll swaps the whole table for customers.
	ReplaceAll(ctx context.Context, customers []Customer) error
}
