package domain

import (
	"errors"
	"fmt"
	"time"
)

// CommandKind identifies the mutation a command describes.
type CommandKind string

const (
	KindCreateUser CommandKind = "user.create"
	KindUpdateUser CommandKind = "user.update"
	KindDeleteUser CommandKind = "user.delete"
)

var ErrUnroutableCommand = errors.New("no queue configured for command kind")

// CreateUserCommand carries the payload for a new directory entry.
// Password arrives in plaintext and is encoded by the consumer at apply time.
type CreateUserCommand struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// UpdateUserCommand carries a partial mutation. Nil fields are left
// untouched at apply time; non-nil fields overwrite the stored value.
type UpdateUserCommand struct {
	ID       int64   `json:"id"`
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
	Role     *string `json:"role,omitempty"`
}

// DeleteUserCommand removes a directory entry by id.
type DeleteUserCommand struct {
	ID int64 `json:"id"`
}

// CommandEnvelope is the wire format placed on the broker. Exactly one of
// Create/Update/Delete is set, matching Kind. IdempotencyKey is stamped at
// produce time so the consumer can drop redeliveries of the same command.
type CommandEnvelope struct {
	Kind           CommandKind        `json:"kind"`
	IdempotencyKey string             `json:"idempotency_key"`
	DispatchedAt   time.Time          `json:"dispatched_at"`
	Create         *CreateUserCommand `json:"create,omitempty"`
	Update         *UpdateUserCommand `json:"update,omitempty"`
	Delete         *DeleteUserCommand `json:"delete,omitempty"`
}

// Validate checks that the envelope is internally consistent: a known kind,
// an idempotency key, and the payload matching the kind.
func (e CommandEnvelope) Validate() error {
	if e.IdempotencyKey == "" {
		return errors.New("envelope missing idempotency key")
	}
	switch e.Kind {
	case KindCreateUser:
		if e.Create == nil {
			return errors.New("create envelope missing payload")
		}
	case KindUpdateUser:
		if e.Update == nil {
			return errors.New("update envelope missing payload")
		}
	case KindDeleteUser:
		if e.Delete == nil {
			return errors.New("delete envelope missing payload")
		}
	default:
		return fmt.Errorf("unknown command kind %q", e.Kind)
	}
	return nil
}

// QueueRouting maps each command kind to its destination queue. It is built
// once at startup and rejects incomplete configuration instead of failing
// per-request.
type QueueRouting map[CommandKind]string

// NewQueueRouting builds the routing table, requiring a queue name for every
// command kind.
func NewQueueRouting(createQueue, updateQueue, deleteQueue string) (QueueRouting, error) {
	routes := QueueRouting{
		KindCreateUser: createQueue,
		KindUpdateUser: updateQueue,
		KindDeleteUser: deleteQueue,
	}
	for kind, queue := range routes {
		if queue == "" {
			return nil, fmt.Errorf("%w: %s", ErrUnroutableCommand, kind)
		}
	}
	return routes, nil
}

// Resolve returns the destination queue for kind.
func (r QueueRouting) Resolve(kind CommandKind) (string, error) {
	queue, ok := r[kind]
	if !ok || queue == "" {
		return "", fmt.Errorf("%w: %s", ErrUnroutableCommand, kind)
	}
	return queue, nil
}
