package domain

import (
	"errors"
	"testing"
	"time"
)

func TestNewQueueRouting_RequiresAllKinds(t *testing.T) {
	if _, err := NewQueueRouting("q.create", "", "q.delete"); !errors.Is(err, ErrUnroutableCommand) {
		t.Fatalf("expected ErrUnroutableCommand for missing update queue, got %v", err)
	}
	if _, err := NewQueueRouting("q.create", "q.update", "q.delete"); err != nil {
		t.Fatalf("complete routing must build: %v", err)
	}
}

func TestQueueRouting_Resolve(t *testing.T) {
	routes, err := NewQueueRouting("q.create", "q.update", "q.delete")
	if err != nil {
		t.Fatalf("routing: %v", err)
	}

	queue, err := routes.Resolve(KindUpdateUser)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if queue != "q.update" {
		t.Fatalf("wrong queue: %s", queue)
	}

	if _, err := routes.Resolve(CommandKind("user.rename")); !errors.Is(err, ErrUnroutableCommand) {
		t.Fatalf("expected ErrUnroutableCommand for unknown kind, got %v", err)
	}
}

func TestCommandEnvelope_Validate(t *testing.T) {
	create := &CreateUserCommand{Name: "A", Email: "a@x.com", Password: "pw", Role: RoleClient}
	base := CommandEnvelope{
		Kind:           KindCreateUser,
		IdempotencyKey: "k1",
		DispatchedAt:   time.Now().UTC(),
		Create:         create,
	}

	if err := base.Validate(); err != nil {
		t.Fatalf("valid envelope rejected: %v", err)
	}

	missingKey := base
	missingKey.IdempotencyKey = ""
	if err := missingKey.Validate(); err == nil {
		t.Fatalf("envelope without idempotency key must be invalid")
	}

	mismatched := base
	mismatched.Create = nil
	if err := mismatched.Validate(); err == nil {
		t.Fatalf("create envelope without payload must be invalid")
	}

	unknown := base
	unknown.Kind = CommandKind("user.rename")
	if err := unknown.Validate(); err == nil {
		t.Fatalf("unknown kind must be invalid")
	}
}
