package staff

import (
	"context"

	"github.com/georgemunganga/freshpavilion-backend/internal/platform/apperr"
	"github.com/georgemunganga/freshpavilion-backend/internal/platform/kv"
)

type localRepo struct{ members kv.Collection[storedMember] }

// NewLocalRepository stores members in the fallback store under fp_staff.
func NewLocalRepository(store kv.Store) Repository {
	return &localRepo{members: kv.NewCollection[storedMember](store, kv.KeyStaff)}
}

func (r *localRepo) List(ctx context.Context) ([]Member, error) {
	stored, err := r.members.Load(ctx)
	if err != nil {
		return nil, err
	}
	members := make([]Member, 0, len(stored))
	for _, s := range stored {
		members = append(members, Member(s))
	}
	return members, nil
}

func (r *localRepo) Create(ctx context.Context, m Member) error {
	return r.members.Update(ctx, func(stored []storedMember) ([]storedMember, error) {
		for _, s := range stored {
			if s.Username == m.Username {
				return nil, ErrUsernameTaken
			}
		}
		return append(stored, storedMember(m)), nil
	})
}

func (r *localRepo) Delete(ctx context.Context, id string) error {
	return r.members.Update(ctx, func(stored []storedMember) ([]storedMember, error) {
		for i, s := range stored {
			if s.ID == id {
				return append(stored[:i], stored[i+1:]...), nil
			}
		}
		return nil, apperr.ErrNotFound
	})
}

func (r *localRepo) GetByUsername(ctx context.Context, username string) (Member, error) {
	stored, err := r.members.Load(ctx)
	if err != nil {
		return Member{}, err
	}
	for _, s := range stored {
		if s.Username == username {
			return Member(s), nil
		}
	}
	return Member{}, apperr.ErrNotFound
}
