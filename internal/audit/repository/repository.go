// Package repository stores the append-only audit trail. Records are inserted
// and read; nothing here updates or deletes them.
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

const recordNotFoundMsg = "audit record not found"

// Record is one audit entry.
type Record struct {
	ID          uuid.UUID `db:"id"`
	Action      string    `db:"action"`
	ActorEmail  string    `db:"actor_email"`
	TargetEmail string    `db:"target_email"`
	CreatedAt   time.Time `db:"created_at"`
	Details     string    `db:"details"`
}

// Filter narrows an audit listing. Zero values mean "no filter".
type Filter struct {
	ActorEmail  string
	TargetEmail string
	Action      string
	From        *time.Time
	To          *time.Time
	Skip        int
	Limit       int
}

// Store is the audit persistence surface.
type Store interface {
	Insert(ctx context.Context, rec Record) error
	List(ctx context.Context, f Filter) ([]Record, error)
	GetByID(ctx context.Context, id uuid.UUID) (Record, error)
}

// Repository implements Store on PostgreSQL.
type Repository struct {
	q db.Querier
}

// New creates a new audit repository.
func New(q db.Querier) *Repository {
	return &Repository{q: q}
}

// Insert appends one record in its own statement.
func (r *Repository) Insert(ctx context.Context, rec Record) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO audit_logs (id, action, actor_email, target_email, created_at, details)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		rec.ID, rec.Action, rec.ActorEmail, rec.TargetEmail, rec.CreatedAt, rec.Details)
	if err != nil {
		return fmt.Errorf("failed to insert audit record: %w", err)
	}
	return nil
}

// List returns matching records newest first.
func (r *Repository) List(ctx context.Context, f Filter) ([]Record, error) {
	query, args := buildListQuery(f)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit records: %w", err)
	}
	defer rows.Close()

	items := make([]Record, 0)
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.Action, &rec.ActorEmail, &rec.TargetEmail, &rec.CreatedAt, &rec.Details); err != nil {
			return nil, fmt.Errorf("failed to scan audit record: %w", err)
		}
		items = append(items, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate audit records: %w", err)
	}
	return items, nil
}

// GetByID loads one record.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Record, error) {
	var rec Record
	err := r.q.QueryRow(ctx, `
		SELECT id, action, actor_email, target_email, created_at, details
		FROM audit_logs
		WHERE id = $1`, id).
		Scan(&rec.ID, &rec.Action, &rec.ActorEmail, &rec.TargetEmail, &rec.CreatedAt, &rec.Details)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, apperr.NotFound(recordNotFoundMsg)
		}
		return Record{}, fmt.Errorf("failed to get audit record: %w", err)
	}
	return rec, nil
}

// buildListQuery assembles the WHERE clause from the non-empty filters.
func buildListQuery(f Filter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.ActorEmail != "" {
		add("actor_email = $%d", f.ActorEmail)
	}
	if f.TargetEmail != "" {
		add("target_email = $%d", f.TargetEmail)
	}
	if f.Action != "" {
		add("action = $%d", f.Action)
	}
	if f.From != nil {
		add("created_at >= $%d", *f.From)
	}
	if f.To != nil {
		add("created_at <= $%d", *f.To)
	}

	var b strings.Builder
	b.WriteString(`SELECT id, action, actor_email, target_email, created_at, details FROM audit_logs`)
	if len(conds) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(conds, " AND "))
	}

	args = append(args, f.Limit, f.Skip)
	fmt.Fprintf(&b, " ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	return b.String(), args
}
