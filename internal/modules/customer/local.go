package customer

import (
	"context"

	"github.com/georgemunganga/freshpavilion-backend/internal/platform/apperr"
	"github.com/georgemunganga/freshpavilion-backend/internal/platform/kv"
)

type localRepo struct{ customers kv.Collection[Customer] }

// NewLocalRepository stores customers in the fallback store under fp_customers.
func NewLocalRepository(store kv.Store) Repository {
	return &localRepo{customers: kv.NewCollection[Customer](store, kv.KeyCustomers)}
}

func (r *localRepo) List(ctx context.Context) ([]Customer, error) {
	customers, err := r.customers.Load(ctx)
	if err != nil {
		return nil, err
	}
	SortBySpent(customers)
	return customers, nil
}

func (r *localRepo) Get(ctx context.Context, phone string) (Customer, error) {
	customers, err := r.customers.Load(ctx)
	if err != nil {
		return Customer{}, err
	}
	for _, c := range customers {
		if c.Phone == phone {
			return c, nil
		}
	}
	return Customer{}, apperr.ErrNotFound
}

func (r *localRepo) Upsert(ctx context.Context, c Customer) error {
	return r.customers.Update(ctx, func(customers []Customer) ([]Customer, error) {
		for i := range customers {
			if customers[i].Phone == c.Phone {
				customers[i] = c
				return customers, nil
			}
		}
		return append(customers, c), nil
	})
}

func (r *localRepo) ReplaceAll(ctx context.Context, customers []Customer) error {
	return r.customers.Save(ctx, customers)
}
