package service

import (
	"context"
	"strings"

	"presupuestos_backend/internal/auth/password"
	"presupuestos_backend/internal/auth/ports"
	"presupuestos_backend/internal/auth/token"
	"presupuestos_backend/internal/auth/transport"
	"presupuestos_backend/platform/apperr"
	"presupuestos_backend/platform/logger"
)

const (
	msgInvalidCredentials = "invalid credentials"
	msgInactiveUser       = "user is inactive"
	bearerTokenType       = "bearer"
)

type Service struct {
	accounts ports.AccountProvider
	signer   *token.Signer
	log      *logger.Logger
}

func New(accounts ports.AccountProvider, signer *token.Signer, log *logger.Logger) *Service {
	return &Service{accounts: accounts, signer: signer, log: log}
}

// Login verifies the credentials and issues an access token. Unknown emails
// and wrong passwords produce the same error.
func (s *Service) Login(ctx context.Context, email, plainPassword string) (*transport.LoginResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	log := s.log.WithContext(ctx)

	account, err := s.accounts.GetAccountByEmail(ctx, email)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			log.AuthEvent("login", email, false, "unknown email")
			return nil, apperr.Unauthorized(msgInvalidCredentials)
		}
		return nil, err
	}

	if err := password.Compare(account.PasswordHash, plainPassword); err != nil {
		log.AuthEvent("login", email, false, "password mismatch")
		return nil, apperr.Unauthorized(msgInvalidCredentials)
	}

	if !account.Active {
		log.AuthEvent("login", email, false, "inactive")
		return nil, apperr.Forbidden(msgInactiveUser)
	}

	accessToken, err := s.signer.Issue(account.ID, account.Email, account.Role)
	if err != nil {
		return nil, err
	}

	log.AuthEvent("login", email, true, "")
	return &transport.LoginResponse{
		AccessToken: accessToken,
		TokenType:   bearerTokenType,
		ExpiresIn:   int64(s.signer.TTL().Seconds()),
	}, nil
}

// BootstrapAdmin creates the configured administrator on first start. Empty
// credentials disable the bootstrap.
func BootstrapAdmin(ctx context.Context, users ports.AdminBootstrapper, email, plainPassword string, log *logger.Logger) error {
	if strings.TrimSpace(email) == "" || plainPassword == "" {
		return nil
	}

	created, err := users.EnsureAdmin(ctx, email, plainPassword)
	if err != nil {
		return err
	}
	if !created {
		log.Debug("admin user already present", "email", email)
	}
	return nil
}
