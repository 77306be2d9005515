package service

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/moklab/auth-service/internal/core/domain"
	"github.com/moklab/auth-service/internal/core/ports"
)

// UserService implements account management on top of the user store.
type UserService struct {
	repo ports.UserRepository
}

func NewUserService(repo ports.UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.repo.FindByUsername(ctx, username)
}

// Update applies the non-nil fields of upd to the account. Usernames are
// immutable; changing the email re-checks uniqueness against other accounts.
func (s *UserService) Update(ctx context.Context, id string, upd ports.UserUpdate) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Email != nil && *upd.Email != user.Email {
		other, err := s.repo.FindByEmail(ctx, *upd.Email)
		if err != nil && err != domain.ErrUserNotFound {
			return nil, err
		}
		if other != nil && other.ID != user.ID {
			return nil, domain.ErrEmailTaken
		}
		user.Email = *upd.Email
	}

	if upd.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*upd.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}

	if upd.Role != nil {
		if !upd.Role.Valid() {
			return nil, domain.ErrInvalidCredentials
		}
		user.Role = *upd.Role
	}

	if upd.Enabled != nil {
		user.Enabled = *upd.Enabled
	}

	user.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes the account. The delete is hard: no tombstone is kept, and
// outstanding tokens for the username stop resolving immediately.
func (s *UserService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
