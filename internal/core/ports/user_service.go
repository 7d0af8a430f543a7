package ports

import (
	"context"

	"github.com/identity-platform/user-directory/internal/core/domain"
)

// UserService is the read path plus the consumer-side apply contract.
// Reads are synchronous pass-throughs to the repository; Apply* methods are
// invoked by the queue consumer when a command is delivered.
type UserService interface {
	GetAll(ctx context.Context) ([]*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetAllByRole(ctx context.Context, role string) ([]*domain.User, error)

	ApplyCreate(ctx context.Context, cmd domain.CreateUserCommand) error
	ApplyUpdate(ctx context.Context, cmd domain.UpdateUserCommand) error
	ApplyDelete(ctx context.Context, cmd domain.DeleteUserCommand) error
}
