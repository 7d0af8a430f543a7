package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/identity-platform/user-directory/internal/core/domain"
	"github.com/identity-platform/user-directory/internal/core/ports"
	"github.com/identity-platform/user-directory/internal/pkg/passcode"
)

// UserService serves the synchronous read path and applies delivered
// commands on the consumer side.
type UserService struct {
	repo ports.UserRepository
	log  zerolog.Logger
	now  func() time.Time
}

func NewUserService(repo ports.UserRepository, log zerolog.Logger) *UserService {
	return &UserService{repo: repo, log: log, now: time.Now}
}

func (s *UserService) GetAll(ctx context.Context) ([]*domain.User, error) {
	return s.repo.GetAll(ctx)
}

func (s *UserService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *UserService) GetAllByRole(ctx context.Context, role string) ([]*domain.User, error) {
	return s.repo.GetAllByRole(ctx, role)
}

// ApplyCreate maps the command to a new record, encoding the password with
// the same transform the token exchange verifies against. The unique index
// on email is the authoritative duplicate guard; the producer-side scan is
// only advisory.
func (s *UserService) ApplyCreate(ctx context.Context, cmd domain.CreateUserCommand) error {
	user := &domain.User{
		Name:      cmd.Name,
		Email:     cmd.Email,
		Password:  passcode.Encode(cmd.Password),
		Role:      cmd.Role,
		CreatedAt: s.now().UTC(),
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return fmt.Errorf("apply create: %w", err)
	}

	s.log.Info().Int64("id", created.ID).Str("email", created.Email).Msg("user created")
	return nil
}

// ApplyUpdate merges the command into the stored record: nil fields keep the
// stored value, non-nil fields overwrite it. The merge is idempotent, so a
// redelivered update converges to the same state.
func (s *UserService) ApplyUpdate(ctx context.Context, cmd domain.UpdateUserCommand) error {
	user, err := s.repo.GetByID(ctx, cmd.ID)
	if err != nil {
		return fmt.Errorf("apply update: %w", err)
	}

	if cmd.Name != nil {
		user.Name = *cmd.Name
	}
	if cmd.Email != nil {
		user.Email = *cmd.Email
	}
	if cmd.Password != nil {
		user.Password = passcode.Encode(*cmd.Password)
	}
	if cmd.Role != nil {
		user.Role = *cmd.Role
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return fmt.Errorf("apply update: %w", err)
	}

	s.log.Info().Int64("id", user.ID).Msg("user updated")
	return nil
}

// ApplyDelete removes the record by id. Deleting an id that no longer exists
// is a no-op: under at-least-once delivery a redelivered delete must not fail
// the whole delivery.
func (s *UserService) ApplyDelete(ctx context.Context, cmd domain.DeleteUserCommand) error {
	if err := s.repo.Delete(ctx, cmd.ID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.log.Warn().Int64("id", cmd.ID).Msg("delete of missing user ignored")
			return nil
		}
		return fmt.Errorf("apply delete: %w", err)
	}

	s.log.Info().Int64("id", cmd.ID).Msg("user deleted")
	return nil
}
