package ports

import (
	"context"

	"github.com/identity-platform/user-directory/internal/core/domain"
)

// CommandPublisher places an envelope on a named queue. Implementations must
// return only after the broker has acknowledged receipt.
type CommandPublisher interface {
	Publish(ctx context.Context, queue string, env domain.CommandEnvelope) error
}

// ProducerService validates mutation requests and dispatches them as
// commands. Success means accepted for processing, not applied.
type ProducerService interface {
	SubmitCreate(ctx context.Context, cmd domain.CreateUserCommand) error
	SubmitUpdate(ctx context.Context, cmd domain.UpdateUserCommand) error
	SubmitDelete(ctx context.Context, cmd domain.DeleteUserCommand) error
}
