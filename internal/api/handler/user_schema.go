package handler

import "github.com/identity-platform/user-directory/internal/core/domain"

// Validation limits follow the directory's long-standing field constraints:
// name/email/password capped at 100 characters, role at 50.

type createUserRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=100"`
	Password string `json:"password" validate:"required,max=100"`
	Role     string `json:"role" validate:"required,max=50"`
}

type updateUserRequest struct {
	ID       int64   `json:"id" validate:"required,gt=0"`
	Name     *string `json:"name,omitempty" validate:"omitempty,max=100"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email,max=100"`
	Password *string `json:"password,omitempty" validate:"omitempty,max=100"`
	Role     *string `json:"role,omitempty" validate:"omitempty,max=50"`
}

type deleteUserRequest struct {
	ID int64 `json:"id" validate:"required,gt=0"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (r createUserRequest) toCommand() domain.CreateUserCommand {
	return domain.CreateUserCommand{
		Name:     r.Name,
		Email:    r.Email,
		Password: r.Password,
		Role:     r.Role,
	}
}

func (r updateUserRequest) toCommand() domain.UpdateUserCommand {
	return domain.UpdateUserCommand{
		ID:       r.ID,
		Name:     r.Name,
		Email:    r.Email,
		Password: r.Password,
		Role:     r.Role,
	}
}
