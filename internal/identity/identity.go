// Package identity talks to the external identity provider that owns the
// accounts behind teacher, student and parent records. The local primary
// key of those records is the provider's user id: a roster row may only be
// created after the provider account exists.
package identity

import (
	"context"
	"errors"
)

// ErrNotFound is returned when the provider has no user for the given id.
// Delete flows treat it as success so removals stay idempotent.
var ErrNotFound = errors.New("identity: user not found")

// User is the provider-side account record.
type User struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

// CreateUserParams provisions a new account.
type CreateUserParams struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

// UpdateUserParams modifies an existing account. Password is only changed
// when non-empty.
type UpdateUserParams struct {
	Username  string `json:"username"`
	Password  string `json:"password,omitempty"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Provider is the consumed surface of the identity service.
type Provider interface {
	CreateUser(ctx context.Context, params CreateUserParams) (*User, error)
	UpdateUser(ctx context.Context, id string, params UpdateUserParams) (*User, error)
	GetUser(ctx context.Context, id string) (*User, error)
	DeleteUser(ctx context.Context, id string) error
}
