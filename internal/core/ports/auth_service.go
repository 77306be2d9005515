package ports

import (
	"context"

	"github.com/moklab/auth-service/internal/core/domain"
)

type AuthService interface {
	Register(ctx context.Context, username, password, email string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
}

// UserUpdate carries the mutable fields of an account; nil means unchanged.
type UserUpdate struct {
	Email    *string
	Password *string
	Role     *domain.Role
	Enabled  *bool
}

type UserService interface {
	Get(ctx context.Context, id string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Update(ctx context.Context, id string, upd UserUpdate) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}
