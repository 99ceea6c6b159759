package order

import (
	"context"
	"sort"

	"github.com/georgemunganga/freshpavilion-backend/internal/platform/apperr"
	"github.com/georgemunganga/freshpavilion-backend/internal/platform/kv"
)

type localRepo struct{ orders kv.Collection[Order] }

// NewLocalRepository stores orders in the fallback store under fp_orders.
func NewLocalRepository(store kv.Store) Repository {
	return &localRepo{orders: kv.NewCollection[Order](store, kv.KeyOrders)}
}

func (r *localRepo) List(ctx context.Context) ([]Order, error) {
	orders, err := r.orders.Load(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

func (r *localRepo) Get(ctx context.Context, id string) (Order, error) {
	orders, err := r.orders.Load(ctx)
	if err != nil {
		return Order{}, err
	}
	for _, o := range orders {
		if o.ID == id {
			return o, nil
		}
	}
	return Order{}, apperr.ErrNotFound
}

func (r *localRepo) Create(ctx context.Context, o Order) error {
	return r.orders.Update(ctx, func(orders []Order) ([]Order, error) {
		for _, existing := range orders {
			if existing.ID == o.ID {
				return nil, ErrDuplicateID
			}
		}
		return append(orders, o), nil
	})
}

func (r *localRepo) UpdateStatus(ctx context.Context, id string, status Status) error {
	return r.orders.Update(ctx, func(orders []Order) ([]Order, error) {
		for i := range orders {
			if orders[i].ID == id {
				orders[i].Status = status
				return orders, nil
			}
		}
		return nil, apperr.ErrNotFound
	})
}
