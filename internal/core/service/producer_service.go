package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/identity-platform/user-directory/internal/core/domain"
	"github.com/identity-platform/user-directory/internal/core/ports"
)

// ProducerService validates mutation requests and publishes them as commands.
// It never writes to the store; the consumer owns all mutations.
type ProducerService struct {
	repo      ports.UserRepository
	publisher ports.CommandPublisher
	routes    domain.QueueRouting
	log       zerolog.Logger
	now       func() time.Time
	newKey    func() string
}

func NewProducerService(
	repo ports.UserRepository,
	publisher ports.CommandPublisher,
	routes domain.QueueRouting,
	log zerolog.Logger,
) *ProducerService {
	return &ProducerService{
		repo:      repo,
		publisher: publisher,
		routes:    routes,
		log:       log,
		now:       time.Now,
		newKey:    func() string { return uuid.NewString() },
	}
}

// SubmitCreate scans the current snapshot for the email before publishing.
// The check is non-atomic: two concurrent creates with the same email can
// both pass it, which is why the store keeps the unique index as the real
// guard.
func (s *ProducerService) SubmitCreate(ctx context.Context, cmd domain.CreateUserCommand) error {
	users, err := s.repo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("submit create: %w", err)
	}
	for _, u := range users {
		if u.Email == cmd.Email {
			return domain.ErrEmailTaken
		}
	}

	return s.dispatch(ctx, domain.CommandEnvelope{Kind: domain.KindCreateUser, Create: &cmd})
}

func (s *ProducerService) SubmitUpdate(ctx context.Context, cmd domain.UpdateUserCommand) error {
	return s.dispatch(ctx, domain.CommandEnvelope{Kind: domain.KindUpdateUser, Update: &cmd})
}

func (s *ProducerService) SubmitDelete(ctx context.Context, cmd domain.DeleteUserCommand) error {
	return s.dispatch(ctx, domain.CommandEnvelope{Kind: domain.KindDeleteUser, Delete: &cmd})
}

// dispatch stamps the envelope and publishes it to the queue resolved for its
// kind. Once the broker acknowledges, the command is considered dispatched;
// whether it is ever applied is not observable from here.
func (s *ProducerService) dispatch(ctx context.Context, env domain.CommandEnvelope) error {
	env.IdempotencyKey = s.newKey()
	env.DispatchedAt = s.now().UTC()

	queue, err := s.routes.Resolve(env.Kind)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrDispatchFailed, err)
	}

	if err := s.publisher.Publish(ctx, queue, env); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrDispatchFailed, err)
	}

	s.log.Info().
		Str("kind", string(env.Kind)).
		Str("queue", queue).
		Str("idempotency_key", env.IdempotencyKey).
		Msg("command dispatched")

	return nil
}
