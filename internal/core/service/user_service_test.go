package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/identity-platform/user-directory/internal/core/domain"
	"github.com/identity-platform/user-directory/internal/pkg/passcode"
)

func strPtr(s string) *string { return &s }

func TestUserService_ApplyCreate(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, zerolog.Nop())

	cmd := domain.CreateUserCommand{Name: "A", Email: "a@x.com", Password: "pw", Role: domain.RoleClient}
	if err := svc.ApplyCreate(context.Background(), cmd); err != nil {
		t.Fatalf("ApplyCreate returned error: %v", err)
	}

	user, err := svc.GetByID(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if user.Role != domain.RoleClient {
		t.Fatalf("unexpected role: %s", user.Role)
	}
	if user.Password != passcode.Encode("pw") {
		t.Fatalf("password not stored in encoded form: %s", user.Password)
	}
	if user.CreatedAt.IsZero() {
		t.Fatalf("creation timestamp not set")
	}
}

func TestUserService_ApplyCreate_DuplicateEmail(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, zerolog.Nop())

	cmd := domain.CreateUserCommand{Name: "A", Email: "a@x.com", Password: "pw", Role: domain.RoleClient}
	if err := svc.ApplyCreate(context.Background(), cmd); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	if err := svc.ApplyCreate(context.Background(), cmd); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken from store constraint, got %v", err)
	}
}

func TestUserService_ApplyUpdate_PartialMerge(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, zerolog.Nop())

	create := domain.CreateUserCommand{Name: "A", Email: "a@x.com", Password: "pw", Role: domain.RoleClient}
	if err := svc.ApplyCreate(context.Background(), create); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	before, _ := svc.GetByID(context.Background(), 1)

	update := domain.UpdateUserCommand{ID: 1, Role: strPtr(domain.RoleAdmin)}
	if err := svc.ApplyUpdate(context.Background(), update); err != nil {
		t.Fatalf("ApplyUpdate returned error: %v", err)
	}

	after, _ := svc.GetByID(context.Background(), 1)
	if after.Role != domain.RoleAdmin {
		t.Fatalf("role not updated: %s", after.Role)
	}
	if after.Name != before.Name || after.Email != before.Email || after.Password != before.Password {
		t.Fatalf("absent fields must be untouched: before=%+v after=%+v", before, after)
	}
}

func TestUserService_ApplyUpdate_Redelivery(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, zerolog.Nop())

	if err := svc.ApplyCreate(context.Background(), domain.CreateUserCommand{
		Name: "A", Email: "a@x.com", Password: "pw", Role: domain.RoleClient,
	}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	update := domain.UpdateUserCommand{ID: 1, Name: strPtr("B"), Password: strPtr("new")}
	if err := svc.ApplyUpdate(context.Background(), update); err != nil {
		t.Fatalf("first apply failed: %v", err)
	}
	first, _ := svc.GetByID(context.Background(), 1)

	// Simulated broker redelivery: the merge must converge to the same state.
	if err := svc.ApplyUpdate(context.Background(), update); err != nil {
		t.Fatalf("second apply failed: %v", err)
	}
	second, _ := svc.GetByID(context.Background(), 1)

	if *first != *second {
		t.Fatalf("redelivered update diverged: first=%+v second=%+v", first, second)
	}
}

func TestUserService_ApplyUpdate_MissingUser(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, zerolog.Nop())

	err := svc.ApplyUpdate(context.Background(), domain.UpdateUserCommand{ID: 42, Name: strPtr("B")})
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_ApplyDelete(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, zerolog.Nop())

	if err := svc.ApplyCreate(context.Background(), domain.CreateUserCommand{
		Name: "A", Email: "a@x.com", Password: "pw", Role: domain.RoleClient,
	}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := svc.ApplyDelete(context.Background(), domain.DeleteUserCommand{ID: 1}); err != nil {
		t.Fatalf("ApplyDelete returned error: %v", err)
	}
	if _, err := svc.GetByID(context.Background(), 1); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound after delete, got %v", err)
	}
}

func TestUserService_ApplyDelete_MissingIsNoop(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, zerolog.Nop())

	if err := svc.ApplyDelete(context.Background(), domain.DeleteUserCommand{ID: 99}); err != nil {
		t.Fatalf("delete of missing id must be a no-op, got %v", err)
	}
}

func TestUserService_EndToEndScenario(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, zerolog.Nop())
	ctx := context.Background()

	if err := svc.ApplyCreate(ctx, domain.CreateUserCommand{
		Name: "A", Email: "a@x.com", Password: "pw", Role: domain.RoleClient,
	}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	user, err := svc.GetByID(ctx, 1)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if user.Role != "CLIENTE" || user.Password != passcode.Encode("pw") {
		t.Fatalf("unexpected state after create: %+v", user)
	}

	if err := svc.ApplyUpdate(ctx, domain.UpdateUserCommand{ID: 1, Role: strPtr("ADMIN")}); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	user, _ = svc.GetByID(ctx, 1)
	if user.Role != "ADMIN" {
		t.Fatalf("role not promoted: %s", user.Role)
	}
	if user.Email != "a@x.com" || user.Password != passcode.Encode("pw") {
		t.Fatalf("email/password must be unchanged: %+v", user)
	}
}

func TestUserService_GetAllByRole(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, zerolog.Nop())
	ctx := context.Background()

	_ = svc.ApplyCreate(ctx, domain.CreateUserCommand{Name: "A", Email: "a@x.com", Password: "pw", Role: domain.RoleClient})
	_ = svc.ApplyCreate(ctx, domain.CreateUserCommand{Name: "B", Email: "b@x.com", Password: "pw", Role: domain.RoleAdmin})
	_ = svc.ApplyCreate(ctx, domain.CreateUserCommand{Name: "C", Email: "c@x.com", Password: "pw", Role: domain.RoleClient})

	clients, err := svc.GetAllByRole(ctx, domain.RoleClient)
	if err != nil {
		t.Fatalf("GetAllByRole failed: %v", err)
	}
	if len(clients) != 2 {
		t.Fatalf("expected 2 clients, got %d", len(clients))
	}
}

func TestUserService_ApplyCreate_StoreFailure(t *testing.T) {
	repo := newStubUserRepo()
	repo.createErr = errors.New("mongo: connection reset")
	svc := NewUserService(repo, zerolog.Nop())

	cmd := domain.CreateUserCommand{Name: "A", Email: "a@x.com", Password: "pw", Role: domain.RoleClient}
	err := svc.ApplyCreate(context.Background(), cmd)
	if err == nil {
		t.Fatal("expected error when the store rejects the write")
	}
	if !errors.Is(err, repo.createErr) {
		t.Fatalf("cause not surfaced: %v", err)
	}
}
