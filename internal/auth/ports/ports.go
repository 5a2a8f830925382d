// Package ports defines what the auth context needs from the user store.
// Adapters in other packages satisfy these interfaces.
package ports

import (
	"context"

	"github.com/google/uuid"
)

// Account is the subset of a user the login flow needs.
type Account struct {
	ID           uuid.UUID
	Email        string
	Role         string
	Active       bool
	PasswordHash string
}

// AccountProvider looks up accounts by email. A missing account is an
// apperr NotFound.
type AccountProvider interface {
	GetAccountByEmail(ctx context.Context, email string) (Account, error)
}

// AdminBootstrapper creates the initial administrator when it is missing.
type AdminBootstrapper interface {
	EnsureAdmin(ctx context.Context, email, password string) (bool, error)
}
