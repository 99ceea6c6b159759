package order

import "context"

// Repository defines data access for orders.
type Repository interface {
	// List returns all orders, newest first.
	List(ctx context.Context) ([]Order, error)

	// Get retrieves one order by id.
	Get(ctx context.Context, id string) (Order, error)

	// Create persists a new order with its item snapshots.
	Create(ctx context.Context, o Order) error

	// UpdateStatus changes only the status of an order.
	UpdateStatus(ctx context.Context, id string, status Status) error
}
