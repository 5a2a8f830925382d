// Package adapter bridges the users store to the ports the auth context
// defines, so auth never depends on user administration internals.
package adapter

import (
	"context"

	"presupuestos_backend/internal/auth/ports"
	usersrepo "presupuestos_backend/internal/users/repository"
)

// UserAccountAdapter implements ports.AccountProvider using the users repository.
type UserAccountAdapter struct {
	repo usersrepo.Reader
}

// NewUserAccountAdapter creates a new adapter.
func NewUserAccountAdapter(repo usersrepo.Reader) *UserAccountAdapter {
	return &UserAccountAdapter{repo: repo}
}

// GetAccountByEmail implements ports.AccountProvider.
func (a *UserAccountAdapter) GetAccountByEmail(ctx context.Context, email string) (ports.Account, error) {
	user, err := a.repo.GetByEmail(ctx, email)
	if err != nil {
		return ports.Account{}, err
	}

	return ports.Account{
		ID:           user.ID,
		Email:        user.Email,
		Role:         user.Role,
		Active:       user.Active,
		PasswordHash: user.PasswordHash,
	}, nil
}

// Ensure UserAccountAdapter implements ports.AccountProvider
var _ ports.AccountProvider = (*UserAccountAdapter)(nil)
