// Package repository persists application users.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"presupuestos_backend/platform/apperr"
	"presupuestos_backend/platform/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	userNotFoundMsg   = "user not found"
	emailTakenMsg     = "email already registered"
	userReferencedMsg = "user is referenced by existing quotes"
)

// User is a stored account.
type User struct {
	ID           uuid.UUID `db:"id"`
	Name         string    `db:"name"`
	Surname      string    `db:"surname"`
	Email        string    `db:"email"`
	Role         string    `db:"role"`
	Active       bool      `db:"active"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// Reader is the read side used outside user administration.
type Reader interface {
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
}

// Store is the full persistence surface for users.
type Store interface {
	Reader
	List(ctx context.Context, skip, limit int) ([]User, error)
	Create(ctx context.Context, u User) error
	Update(ctx context.Context, u User) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Repository implements Store on PostgreSQL.
type Repository struct {
	q db.Querier
}

// New creates a new users repository.
func New(q db.Querier) *Repository {
	return &Repository{q: q}
}

const userColumns = `id, name, surname, email, role, active, password_hash, created_at, updated_at`

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Surname, &u.Email, &u.Role, &u.Active, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// GetByID loads a user by id.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, apperr.NotFound(userNotFoundMsg)
		}
		return User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// GetByEmail loads a user by email, case-insensitively.
func (r *Repository) GetByEmail(ctx context.Context, email string) (User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, apperr.NotFound(userNotFoundMsg)
		}
		return User{}, fmt.Errorf("failed to get user by email: %w", err)
	}
	return u, nil
}

// List returns users ordered by email.
func (r *Repository) List(ctx context.Context, skip, limit int) ([]User, error) {
	rows, err := r.q.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY email LIMIT $1 OFFSET $2`, limit, skip)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	items := make([]User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		items = append(items, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}
	return items, nil
}

// Create inserts a user. A duplicate email is a Conflict.
func (r *Repository) Create(ctx context.Context, u User) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO users (id, name, surname, email, role, active, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		u.ID, u.Name, u.Surname, u.Email, u.Role, u.Active, u.PasswordHash, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return apperr.Conflict(emailTakenMsg)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// Update overwrites the mutable columns of a user.
func (r *Repository) Update(ctx context.Context, u User) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE users
		SET name = $2, surname = $3, email = $4, role = $5, active = $6, password_hash = $7, updated_at = $8
		WHERE id = $1`,
		u.ID, u.Name, u.Surname, u.Email, u.Role, u.Active, u.PasswordHash, u.UpdatedAt)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return apperr.Conflict(emailTakenMsg)
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(userNotFoundMsg)
	}
	return nil
}

// Delete removes a user. Users still referenced by quotes cannot be deleted.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		if _, ok := db.ForeignKeyViolation(err); ok {
			return apperr.Conflict(userReferencedMsg)
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(userNotFoundMsg)
	}
	return nil
}

var _ Store = (*Repository)(nil)
