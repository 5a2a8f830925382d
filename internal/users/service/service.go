// Package service implements user administration. Every successful write
// produces one best-effort audit record.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	audittransport "presupuestos_backend/internal/audit/transport"
	"presupuestos_backend/internal/auth/password"
	"presupuestos_backend/internal/users/repository"
	"presupuestos_backend/internal/users/transport"
	"presupuestos_backend/platform/apperr"
	"presupuestos_backend/platform/httpkit"
	"presupuestos_backend/platform/logger"
	"presupuestos_backend/platform/sanitize"

	"github.com/google/uuid"
)

const (
	msgForbidden        = "not allowed to modify this user"
	msgRoleChangeDenied = "only administrators can change roles"
)

// AuditRecorder receives one entry per user write. Failures stay inside the recorder.
type AuditRecorder interface {
	RecordBestEffort(ctx context.Context, action, actorEmail, targetEmail, details string)
}

// Service handles user administration.
type Service struct {
	store repository.Store
	audit AuditRecorder
	log   *logger.Logger
	now   func() time.Time
}

// New creates a new users service.
func New(store repository.Store, audit AuditRecorder, log *logger.Logger) *Service {
	return &Service{store: store, audit: audit, log: log, now: time.Now}
}

// List returns a page of users.
func (s *Service) List(ctx context.Context, req transport.ListUsersRequest) ([]transport.UserResponse, error) {
	users, err := s.store.List(ctx, req.Skip, req.Limit)
	if err != nil {
		return nil, err
	}
	out := make([]transport.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toResponse(u))
	}
	return out, nil
}

// GetByID returns one user.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*transport.UserResponse, error) {
	u, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toResponse(u)
	return &resp, nil
}

// Create registers a new user on behalf of an administrator.
func (s *Service) Create(ctx context.Context, actor httpkit.Identity, req transport.CreateUserRequest) (*transport.UserResponse, error) {
	if !actor.IsAdmin() {
		return nil, apperr.Forbidden(msgForbidden)
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	now := s.now().UTC()
	u := repository.User{
		ID:           uuid.New(),
		Name:         sanitize.Name(req.Name),
		Surname:      sanitize.Name(req.Surname),
		Email:        normalizeEmail(req.Email),
		Role:         req.Role,
		Active:       active,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.Create(ctx, u); err != nil {
		return nil, err
	}

	s.audit.RecordBestEffort(ctx, audittransport.ActionCreateUser, actor.Email, u.Email, auditDetails(u.ID))

	resp := toResponse(u)
	return &resp, nil
}

// Update modifies a user. Users may edit themselves; administrators may edit
// anyone. Only administrators may change a role.
func (s *Service) Update(ctx context.Context, actor httpkit.Identity, id uuid.UUID, req transport.UpdateUserRequest) (*transport.UserResponse, error) {
	if actor.UserID != id && !actor.IsAdmin() {
		return nil, apperr.Forbidden(msgForbidden)
	}

	u, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Role != nil && *req.Role != u.Role {
		if !actor.IsAdmin() {
			return nil, apperr.Forbidden(msgRoleChangeDenied)
		}
		u.Role = *req.Role
	}
	if req.Active != nil && *req.Active != u.Active {
		if !actor.IsAdmin() {
			return nil, apperr.Forbidden(msgForbidden)
		}
		u.Active = *req.Active
	}
	if req.Name != nil {
		u.Name = sanitize.Name(*req.Name)
	}
	if req.Surname != nil {
		u.Surname = sanitize.Name(*req.Surname)
	}
	if req.Email != nil {
		u.Email = normalizeEmail(*req.Email)
	}
	if req.Password != nil {
		hash, err := password.Hash(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		u.PasswordHash = hash
	}
	u.UpdatedAt = s.now().UTC()

	if err := s.store.Update(ctx, u); err != nil {
		return nil, err
	}

	s.audit.RecordBestEffort(ctx, audittransport.ActionUpdateUser, actor.Email, u.Email, auditDetails(u.ID))

	resp := toResponse(u)
	return &resp, nil
}

// Delete removes a user on behalf of an administrator.
func (s *Service) Delete(ctx context.Context, actor httpkit.Identity, id uuid.UUID) error {
	if !actor.IsAdmin() {
		return apperr.Forbidden(msgForbidden)
	}

	u, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	s.audit.RecordBestEffort(ctx, audittransport.ActionDeleteUser, actor.Email, u.Email, auditDetails(u.ID))
	return nil
}

// EnsureAdmin creates an active administrator with the given credentials
// unless a user with that email already exists. It reports whether a user
// was created. Bootstrap writes are not audited.
func (s *Service) EnsureAdmin(ctx context.Context, email, plainPassword string) (bool, error) {
	email = normalizeEmail(email)
	_, err := s.store.GetByEmail(ctx, email)
	if err == nil {
		return false, nil
	}
	if !apperr.Is(err, apperr.KindNotFound) {
		return false, err
	}

	hash, err := password.Hash(plainPassword)
	if err != nil {
		return false, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now().UTC()
	err = s.store.Create(ctx, repository.User{
		ID:           uuid.New(),
		Name:         "Administrator",
		Email:        email,
		Role:         string(httpkit.RoleAdmin),
		Active:       true,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if apperr.Is(err, apperr.KindConflict) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	s.log.WithContext(ctx).Info("admin user bootstrapped", "email", email)
	return true, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func auditDetails(id uuid.UUID) string {
	return "id=" + id.String()
}

func toResponse(u repository.User) transport.UserResponse {
	return transport.UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Surname:   u.Surname,
		Email:     u.Email,
		Role:      u.Role,
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
