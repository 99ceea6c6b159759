package settings

import (
	"context"
	"fmt"
	"strings"
)

// Service reads and updates site settings.
type Service interface {
	// Get returns the defaults overlaid with every stored row.
	Get(ctx context.Context) (Settings, error)

	// Set validates and persists one key, returning the updated settings
	// derived from current.
	Set(ctx context.Context, current Settings, key, value string) (Settings, error)
}

type service struct {
	repo Repository
}

// NewService creates a new settings service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Get(ctx context.Context) (Settings, error) {
	entries, err := s.repo.List(ctx)
	if err != nil {
		return Defaults(), err
	}
	return Defaults().Apply(entries), nil
}

func (s *service) Set(ctx context.Context, current Settings, key, value string) (Settings, error) {
	key = strings.TrimSpace(key)
	next, err := current.Set(key, value)
	if err != nil {
		return current, err
	}
	if err := s.repo.Upsert(ctx, key, value); err != nil {
		return current, fmt.Errorf("save setting %s: %w", key, err)
	}
	return next, nil
}
