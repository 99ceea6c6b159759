package customer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/georgemunganga/freshpavilion-backend/internal/modules/order"
	"github.com/georgemunganga/freshpavilion-backend/internal/platform/apperr"
)

// Service maintains customer aggregates.
type Service interface {
	// RecordOrder applies one new order to its customer's aggregate.
	RecordOrder(ctx context.Context, o order.Order) (Customer, error)

	// RebuildFrom recomputes every aggregate from the full order history.
	RebuildFrom(ctx context.Context, orders []order.Order) ([]Customer, error)

	List(ctx context.Context) ([]Customer, error)
}

type service struct {
	repo Repository

	// guards the read-apply-write of RecordOrder
	mu sync.Mutex
}

// NewService creates a new customer service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) RecordOrder(ctx context.Context, o order.Order) (Customer, error) {
	phone := strings.TrimSpace(o.CustomerPhone)
	if phone == "" {
		return Customer{}, apperr.Validation("order has no customer phone")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var existing *Customer
	c, err := s.repo.Get(ctx, phone)
	switch {
	case err == nil:
		existing = &c
	case errors.Is(err, apperr.ErrNotFound):
	default:
		return Customer{}, fmt.Errorf("lookup customer %s: %w", phone, err)
	}

	next := Apply(existing, o)
	if err := s.repo.Upsert(ctx, next); err != nil {
		return Customer{}, fmt.Errorf("upsert customer %s: %w", phone, err)
	}
	return next, nil
}

func (s *service) RebuildFrom(ctx context.Context, orders []order.Order) ([]Customer, error) {
	customers := Rebuild(orders)
	if err := s.repo.ReplaceAll(ctx, customers); err != nil {
		return nil, fmt.Errorf("replace customers: %w", err)
	}
	return customers, nil
}

func (s *service) List(ctx context.Context) ([]Customer, error) {
	return s.repo.List(ctx)
}
