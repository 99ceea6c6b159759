package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/georgemunganga/freshpavilion-backend/internal/platform/apperr"
)

// Service defines catalog business logic.
type Service interface {
	ListProducts(ctx context.Context) ([]Product, error)
	CreateProduct(ctx context.Context, req ProductRequest) (Product, error)
	UpdateProduct(ctx context.Context, id string, req ProductRequest) (Product, error)
	DeleteProduct(ctx context.Context, id string) error
	// Seed writes the built-in catalog into the store; existing ids are kept.
	Seed(ctx context.Context) ([]Product, error)

	ListCategories(ctx context.Context) ([]string, error)
	AddCategory(ctx context.Context, name string) (string, error)
	// DeleteCategory removes the name only; products keep their category field.
	DeleteCategory(ctx context.Context, name string) error
}

type service struct {
	repo       Repository
	categories CategoryRepository
}

func NewService(repo Repository, categories CategoryRepository) Service {
	return &service{repo: repo, categories: categories}
}

// Validate checks a product form before any store call.
func Validate(req ProductRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return apperr.Validation("name is required")
	}
	if req.Price <= 0 {
		return apperr.Validation("price must be greater than 0")
	}
	if strings.TrimSpace(req.Image) == "" {
		return apperr.Validation("image is required")
	}
	if req.Stock < 0 {
		return apperr.Validation("stock cannot be negative")
	}
	if strings.TrimSpace(req.Category) == "" {
		return apperr.Validation("category is required")
	}
	return nil
}

func fromRequest(id string, req ProductRequest) Product {
	unit := strings.TrimSpace(req.Unit)
	if unit == "" {
		unit = DefaultUnit
	}
	return Product{
		ID:              id,
		Name:            strings.TrimSpace(req.Name),
		Price:           req.Price,
		Description:     req.Description,
		LongDescription: req.LongDescription,
		Image:           req.Image,
		Category:        strings.TrimSpace(req.Category),
		Stock:           req.Stock,
		Unit:            unit,
		IsFeatured:      req.IsFeatured,
		IsBestSelling:   req.IsBestSelling,
		IsNew:           req.IsNew,
	}
}

func (s *service) ListProducts(ctx context.Context) ([]Product, error) {
	return s.repo.List(ctx)
}

func (s *service) CreateProduct(ctx context.Context, req ProductRequest) (Product, error) {
	if err := Validate(req); err != nil {
		return Product{}, err
	}
	p := fromRequest(uuid.New().String(), req)
	if err := s.repo.Create(ctx, p); err != nil {
		return Product{}, fmt.Errorf("create product: %w", err)
	}
	return p, nil
}

func (s *service) UpdateProduct(ctx context.Context, id string, req ProductRequest) (Product, error) {
	if strings.TrimSpace(id) == "" {
		return Product{}, apperr.Validation("product id is required")
	}
	if err := Validate(req); err != nil {
		return Product{}, err
	}
	p := fromRequest(id, req)
	if err := s.repo.Update(ctx, p); err != nil {
		return Product{}, fmt.Errorf("update product %s: %w", id, err)
	}
	return p, nil
}

func (s *service) DeleteProduct(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product %s: %w", id, err)
	}
	return nil
}

func (s *service) Seed(ctx context.Context) ([]Product, error) {
	seed := SeedProducts()
	if err := s.repo.BulkInsert(ctx, seed); err != nil {
		return nil, fmt.Errorf("seed catalog: %w", err)
	}
	return seed, nil
}

func (s *service) ListCategories(ctx context.Context) ([]string, error) {
	return s.categories.List(ctx)
}

func (s *service) AddCategory(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperr.Validation("category name is required")
	}
	if name == AllCategories {
		return "", apperr.Validation(fmt.Sprintf("%q is reserved", AllCategories))
	}
	if err := s.categories.Add(ctx, name); err != nil {
		return "", fmt.Errorf("add category: %w", err)
	}
	return name, nil
}

func (s *service) DeleteCategory(ctx context.Context, name string) error {
	if err := s.categories.Delete(ctx, strings.TrimSpace(name)); err != nil {
		return fmt.Errorf("delete category %q: %w", name, err)
	}
	return nil
}
