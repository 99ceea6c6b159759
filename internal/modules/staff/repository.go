package staff

import "context"

// Repository defines data access for staff members.
type Repository interface {
	List(ctx context.Context) ([]Member, error)
	Create(ctx context.Context, m Member) error
	Delete(ctx context.Context, id string) error

	// GetByUsername returns apperr.ErrNotFound when no member matches.
	GetByUsername(ctx context.Context, username string) (Member, error)
}
