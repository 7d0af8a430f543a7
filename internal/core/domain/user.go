package domain

import (
	"errors"
	"time"
)

const (
	RoleAdmin  = "ADMIN"
	RoleClient = "CLIENTE"
)

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrUserNotFound = errors.New("user not found")
var ErrEmailTaken = errors.New("e-mail already registered")
var ErrDispatchFailed = errors.New("command dispatch failed")

// User is the directory record. Password holds the encoded form, never the
// plaintext; reads echo the stored representation.
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"password"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}
