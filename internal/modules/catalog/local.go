package catalog

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/georgemunganga/freshpavilion-backend/internal/platform/apperr"
	"github.com/georgemunganga/freshpavilion-backend/internal/platform/kv"
)

type localRepo struct{ products kv.Collection[Product] }

// NewLocalRepository stores products in the fallback store under fp_products.
func NewLocalRepository(store kv.Store) Repository {
	return &localRepo{products: kv.NewCollection[Product](store, kv.KeyProducts)}
}

func (r *localRepo) List(ctx context.Context) ([]Product, error) {
	products, err := r.products.Load(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(products, func(i, j int) bool {
		return products[i].CreatedAt.After(products[j].CreatedAt)
	})
	return products, nil
}

// working is the list a mutation applies to. Before the first product write
// the shop runs on the seed catalog, so that becomes the stored list, dated
// before the given time to keep it below anything created now.
func working(products []Product, before time.Time) []Product {
	if products != nil {
		return products
	}
	seed := SeedProducts()
	for i := range seed {
		seed[i].CreatedAt = before.Add(-time.Duration(i+1) * time.Second)
	}
	return seed
}

func (r *localRepo) Create(ctx context.Context, p Product) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	return r.products.Update(ctx, func(products []Product) ([]Product, error) {
		products = working(products, p.CreatedAt)
		for _, existing := range products {
			if existing.ID == p.ID {
				return nil, apperr.Validation(fmt.Sprintf("product %s already exists", p.ID))
			}
		}
		return append(products, p), nil
	})
}

func (r *localRepo) Update(ctx context.Context, p Product) error {
	return r.products.Update(ctx, func(products []Product) ([]Product, error) {
		products = working(products, time.Now().UTC())
		for i := range products {
			if products[i].ID == p.ID {
				p.CreatedAt = products[i].CreatedAt
				products[i] = p
				return products, nil
			}
		}
		return nil, apperr.ErrNotFound
	})
}

func (r *localRepo) Delete(ctx context.Context, id string) error {
	return r.products.Update(ctx, func(products []Product) ([]Product, error) {
		products = working(products, time.Now().UTC())
		for i := range products {
			if products[i].ID == id {
				return append(products[:i], products[i+1:]...), nil
			}
		}
		return nil, apperr.ErrNotFound
	})
}

func (r *localRepo) BulkInsert(ctx context.Context, incoming []Product) error {
	return r.products.Update(ctx, func(products []Product) ([]Product, error) {
		seen := make(map[string]bool, len(products))
		for _, p := range products {
			seen[p.ID] = true
		}
		now := time.Now().UTC()
		for i, p := range incoming {
			if seen[p.ID] {
				continue
			}
			p.CreatedAt = now.Add(-time.Duration(i) * time.Second)
			products = append(products, p)
			seen[p.ID] = true
		}
		return products, nil
	})
}

type categoryLocalRepo struct{ categories kv.Collection[string] }

// NewCategoryLocalRepository stores category names under fp_categories.
func NewCategoryLocalRepository(store kv.Store) CategoryRepository {
	return &categoryLocalRepo{categories: kv.NewCollection[string](store, kv.KeyCategories)}
}

func (r *categoryLocalRepo) List(ctx context.Context) ([]string, error) {
	return r.categories.Load(ctx)
}

func (r *categoryLocalRepo) Add(ctx context.Context, name string) error {
	return r.categories.Update(ctx, func(names []string) ([]string, error) {
		if names == nil {
			// first write materializes the defaults the shop started with
			names = DefaultCategories()
		}
		for _, n := range names {
			if n == name {
				return nil, apperr.Validation(fmt.Sprintf("category %q already exists", name))
			}
		}
		return append(names, name), nil
	})
}

func (r *categoryLocalRepo) Delete(ctx context.Context, name string) error {
	return r.categories.Update(ctx, func(names []string) ([]string, error) {
		if names == nil {
			names = DefaultCategories()
		}
		for i, n := range names {
			if n == name {
				return append(names[:i], names[i+1:]...), nil
			}
		}
		return nil, apperr.ErrNotFound
	})
}
