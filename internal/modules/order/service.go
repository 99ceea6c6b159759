package order

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/georgemunganga/freshpavilion-backend/internal/platform/apperr"
)

// ErrDuplicateID is returned by repositories when the generated id is taken.
var ErrDuplicateID = errors.New("order id already exists")

const maxIDAttempts = 3

// Service defines the order business logic.
type Service interface {
	// Place validates the checkout form, freezes the total and persists a Pending order.
	Place(ctx context.Context, req PlaceRequest) (Order, error)

	// List returns all orders, newest first.
	List(ctx context.Context) ([]Order, error)

	// UpdateStatus sets any of the known statuses.
	UpdateStatus(ctx context.Context, id string, req UpdateStatusRequest) (Status, error)
}

type service struct {
	repo  Repository
	now   func() time.Time
	newID func() string
}

// NewService creates a new order service.
func NewService(repo Repository) Service {
	return &service{repo: repo, now: time.Now, newID: NewID}
}

// NewID returns a short random order tag such as "#FP-482913".
func NewID() string {
	return fmt.Sprintf("#FP-%d", rand.Intn(900000)+100000)
}

// Total sums price × quantity over items.
func Total(items []CartItem) float64 {
	sum := decimal.Zero
	for _, item := range items {
		line := decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
		sum = sum.Add(line)
	}
	return sum.InexactFloat64()
}

// ValidatePlace checks the checkout form. No store call happens before this passes.
func ValidatePlace(req PlaceRequest) error {
	if len(req.Items) == 0 {
		return apperr.Validation("cart is empty")
	}
	if strings.TrimSpace(req.CustomerName) == "" {
		return apperr.Validation("customer name is required")
	}
	if strings.TrimSpace(req.CustomerPhone) == "" {
		return apperr.Validation("customer phone is required")
	}
	if !req.Location.Valid() {
		return apperr.Validation(fmt.Sprintf("invalid delivery location %q", req.Location))
	}
	for _, item := range req.Items {
		if item.Quantity < 1 {
			return apperr.Validation(fmt.Sprintf("quantity must be at least 1 for product %s", item.ID))
		}
	}
	return nil
}

func (s *service) Place(ctx context.Context, req PlaceRequest) (Order, error) {
	if err := ValidatePlace(req); err != nil {
		return Order{}, err
	}

	items := make([]CartItem, len(req.Items))
	copy(items, req.Items)

	o := Order{
		CustomerName:  strings.TrimSpace(req.CustomerName),
		CustomerPhone: strings.TrimSpace(req.CustomerPhone),
		Location:      req.Location,
		Items:         items,
		TotalPrice:    Total(items),
		Status:        StatusPending,
		CreatedAt:     s.now().UTC(),
	}

	var err error
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		o.ID = s.newID()
		err = s.repo.Create(ctx, o)
		if !errors.Is(err, ErrDuplicateID) {
			break
		}
	}
	if err != nil {
		return Order{}, fmt.Errorf("failed to persist order: %w", err)
	}
	return o, nil
}

func (s *service) List(ctx context.Context) ([]Order, error) {
	return s.repo.List(ctx)
}

func (s *service) UpdateStatus(ctx context.Context, id string, req UpdateStatusRequest) (Status, error) {
	status := Status(strings.TrimSpace(req.Status))
	if !status.Valid() {
		return "", apperr.Validation(fmt.Sprintf("invalid status %q", req.Status))
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return "", fmt.Errorf("update order %s: %w", id, err)
	}
	return status, nil
}
