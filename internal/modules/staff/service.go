package staff

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/georgemunganga/freshpavilion-backend/internal/platform/apperr"
)

// ErrUsernameTaken is returned when a username already exists.
var ErrUsernameTaken = apperr.Validation("username already exists")

// Service defines the interface for staff account management.
type Service interface {
	Add(ctx context.Context, req AddRequest) (Member, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]Member, error)
	FindByUsername(ctx context.Context, username string) (Member, error)
}

type service struct {
	repo Repository
	cost int
}

// NewService creates a new staff service.
func NewService(repo Repository) Service {
	return &service{repo: repo, cost: bcrypt.DefaultCost}
}

func (s *service) Add(ctx context.Context, req AddRequest) (Member, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return Member{}, apperr.Validation("username is required")
	}
	if req.Password == "" {
		return Member{}, apperr.Validation("password is required")
	}
	role := req.Role
	if role == "" {
		role = RoleStaff
	}
	if !role.Valid() {
		return Member{}, apperr.Validation(fmt.Sprintf("invalid role %q", req.Role))
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return Member{}, err
	}

	m := Member{
		ID:           uuid.NewString(),
		Username:     username,
		Phone:        strings.TrimSpace(req.Phone),
		PasswordHash: string(hashedPassword),
		Role:         role,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return Member{}, fmt.Errorf("create member %s: %w", username, err)
	}
	return m, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *service) List(ctx context.Context) ([]Member, error) {
	return s.repo.List(ctx)
}

func (s *service) FindByUsername(ctx context.Context, username string) (Member, error) {
	return s.repo.GetByUsername(ctx, strings.TrimSpace(username))
}
