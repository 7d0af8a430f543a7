package ports

import (
	"context"

	"github.com/identity-platform/user-directory/internal/core/domain"
)

// UserRepository defines persistence operations over directory records.
// GetByID, Update and Delete return domain.ErrUserNotFound when no record
// matches; Create returns domain.ErrEmailTaken on a unique-index violation.
type UserRepository interface {
	GetAll(ctx context.Context) ([]*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetAllByRole(ctx context.Context, role string) ([]*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id int64) error
}
