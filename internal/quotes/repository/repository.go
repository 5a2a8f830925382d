package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"presupuestos_backend/platform/apperr"
	"presupuestos_backend/platform/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ── Domain Models ─────────────────────────────────────────────────────────────

// Quote is the database model for a quote header. Totals are never stored.
type Quote struct {
	ID                  uuid.UUID  `db:"id"`
	QuoteNumber         *string    `db:"quote_number"`
	QuoteDate           time.Time  `db:"quote_date"`
	DeliverySite        string     `db:"delivery_site"`
	ContactPerson       string     `db:"contact_person"`
	State               string     `db:"state"`
	ReviewDate          *time.Time `db:"review_date"`
	DenialReason        string     `db:"denial_reason"`
	PaymentTerms        string     `db:"payment_terms"`
	ValidityDays        int        `db:"validity_days"`
	PalletPrice         float64    `db:"pallet_price"`
	TruckConditions     string     `db:"truck_conditions"`
	UnloadingConditions string     `db:"unloading_conditions"`
	TaxConditions       string     `db:"tax_conditions"`
	Observations        string     `db:"observations"`
	ClientID            uuid.UUID  `db:"client_id"`
	CreatedBy           uuid.UUID  `db:"created_by"`
	ReviewedBy          *uuid.UUID `db:"reviewed_by"`
	CreatedAt           time.Time  `db:"created_at"`
	UpdatedAt           time.Time  `db:"updated_at"`
}

// QuoteLine is the database model for a quote line. It is owned by exactly one quote.
type QuoteLine struct {
	ID          uuid.UUID `db:"id"`
	QuoteID     uuid.UUID `db:"quote_id"`
	ArticleID   string    `db:"article_id"`
	Description string    `db:"description"`
	Quantity    float64   `db:"quantity"`
	UnitPrice   float64   `db:"unit_price"`
	DiscountPct float64   `db:"discount_pct"`
	Position    int       `db:"position"`
	CreatedAt   time.Time `db:"created_at"`
}

// ListParams contains parameters for listing quotes
type ListParams struct {
	ClientID *uuid.UUID
	Skip     int
	Limit    int
}

// ── Interfaces ────────────────────────────────────────────────────────────────

// UnitOfWork is the write surface available inside one transaction.
type UnitOfWork interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Quote, error)
	InsertQuote(ctx context.Context, quote *Quote) error
	UpdateQuote(ctx context.Context, quote *Quote) error
	DeleteQuote(ctx context.Context, id uuid.UUID) error
	InsertLines(ctx context.Context, lines []QuoteLine) error
	DeleteLines(ctx context.Context, quoteID uuid.UUID) error
}

// Reader is the read surface used outside transactions.
type Reader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Quote, error)
	List(ctx context.Context, params ListParams) ([]Quote, error)
	LinesByQuoteIDs(ctx context.Context, quoteIDs []uuid.UUID) (map[uuid.UUID][]QuoteLine, error)
}

// Store combines reads with transactional writes.
type Store interface {
	Reader
	// WithinTx runs fn in a single transaction; any error rolls everything back.
	WithinTx(ctx context.Context, fn func(uow UnitOfWork) error) error
}

// ── Repository ────────────────────────────────────────────────────────────────

const (
	quoteNotFoundMsg = "quote not found"

	constraintQuoteClient = "quotes_client_id_fkey"
	constraintLineArticle = "quote_lines_article_id_fkey"
)

const quoteColumns = `
	id, quote_number, quote_date, delivery_site, contact_person, state,
	review_date, denial_reason, payment_terms, validity_days, pallet_price,
	truck_conditions, unloading_conditions, tax_conditions, observations,
	client_id, created_by, reviewed_by, created_at, updated_at`

// Repository provides database operations for quotes
type Repository struct {
	pool *pgxpool.Pool
	queries
}

// New creates a new quotes repository
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool, queries: queries{q: pool}}
}

// WithinTx runs fn inside db.WithTx with a transaction-bound UnitOfWork.
func (r *Repository) WithinTx(ctx context.Context, fn func(uow UnitOfWork) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(queries{q: tx})
	})
}

// queries holds every statement; q is either the pool or a transaction.
type queries struct {
	q db.Querier
}

func scanQuote(row pgx.Row, q *Quote) error {
	return row.Scan(
		&q.ID, &q.QuoteNumber, &q.QuoteDate, &q.DeliverySite, &q.ContactPerson, &q.State,
		&q.ReviewDate, &q.DenialReason, &q.PaymentTerms, &q.ValidityDays, &q.PalletPrice,
		&q.TruckConditions, &q.UnloadingConditions, &q.TaxConditions, &q.Observations,
		&q.ClientID, &q.CreatedBy, &q.ReviewedBy, &q.CreatedAt, &q.UpdatedAt,
	)
}

// GetByID retrieves a quote header by its ID
func (r queries) GetByID(ctx context.Context, id uuid.UUID) (*Quote, error) {
	var q Quote
	err := scanQuote(r.q.QueryRow(ctx, `SELECT `+quoteColumns+` FROM quotes WHERE id = $1`, id), &q)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(quoteNotFoundMsg)
		}
		return nil, fmt.Errorf("failed to get quote: %w", err)
	}
	return &q, nil
}

// InsertQuote inserts a quote header.
func (r queries) InsertQuote(ctx context.Context, q *Quote) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO quotes (`+quoteColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`,
		q.ID, q.QuoteNumber, q.QuoteDate, q.DeliverySite, q.ContactPerson, q.State,
		q.ReviewDate, q.DenialReason, q.PaymentTerms, q.ValidityDays, q.PalletPrice,
		q.TruckConditions, q.UnloadingConditions, q.TaxConditions, q.Observations,
		q.ClientID, q.CreatedBy, q.ReviewedBy, q.CreatedAt, q.UpdatedAt,
	)
	if err != nil {
		if constraint, ok := db.ForeignKeyViolation(err); ok && constraint == constraintQuoteClient {
			return apperr.ReferenceNotFound("client", q.ClientID.String())
		}
		return fmt.Errorf("failed to insert quote: %w", err)
	}
	return nil
}

// UpdateQuote overwrites every mutable header column.
func (r queries) UpdateQuote(ctx context.Context, q *Quote) error {
	result, err := r.q.Exec(ctx, `
		UPDATE quotes SET
			quote_number = $2, quote_date = $3, delivery_site = $4, contact_person = $5, state = $6,
			review_date = $7, denial_reason = $8, payment_terms = $9, validity_days = $10, pallet_price = $11,
			truck_conditions = $12, unloading_conditions = $13, tax_conditions = $14, observations = $15,
			client_id = $16, reviewed_by = $17, updated_at = $18
		WHERE id = $1`,
		q.ID, q.QuoteNumber, q.QuoteDate, q.DeliverySite, q.ContactPerson, q.State,
		q.ReviewDate, q.DenialReason, q.PaymentTerms, q.ValidityDays, q.PalletPrice,
		q.TruckConditions, q.UnloadingConditions, q.TaxConditions, q.Observations,
		q.ClientID, q.ReviewedBy, q.UpdatedAt,
	)
	if err != nil {
		if constraint, ok := db.ForeignKeyViolation(err); ok && constraint == constraintQuoteClient {
			return apperr.ReferenceNotFound("client", q.ClientID.String())
		}
		return fmt.Errorf("failed to update quote: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(quoteNotFoundMsg)
	}
	return nil
}

// DeleteQuote removes a quote. Lines go with it through ON DELETE CASCADE,
// inside the same statement.
func (r queries) DeleteQuote(ctx context.Context, id uuid.UUID) error {
	result, err := r.q.Exec(ctx, `DELETE FROM quotes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete quote: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(quoteNotFoundMsg)
	}
	return nil
}

// InsertLines inserts lines in order.
func (r queries) InsertLines(ctx context.Context, lines []QuoteLine) error {
	const query = `
		INSERT INTO quote_lines (
			id, quote_id, article_id, description, quantity, unit_price, discount_pct, position, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	for _, l := range lines {
		if _, err := r.q.Exec(ctx, query,
			l.ID, l.QuoteID, l.ArticleID, l.Description, l.Quantity, l.UnitPrice, l.DiscountPct, l.Position, l.CreatedAt,
		); err != nil {
			if constraint, ok := db.ForeignKeyViolation(err); ok && constraint == constraintLineArticle {
				return apperr.ReferenceNotFound("article", l.ArticleID)
			}
			return fmt.Errorf("failed to insert quote line: %w", err)
		}
	}
	return nil
}

// DeleteLines removes every line of a quote.
func (r queries) DeleteLines(ctx context.Context, quoteID uuid.UUID) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM quote_lines WHERE quote_id = $1`, quoteID); err != nil {
		return fmt.Errorf("failed to delete quote lines: %w", err)
	}
	return nil
}

// List returns quote headers newest first, optionally restricted to one client.
func (r queries) List(ctx context.Context, params ListParams) ([]Quote, error) {
	var clientParam interface{}
	if params.ClientID != nil {
		clientParam = *params.ClientID
	}

	rows, err := r.q.Query(ctx, `
		SELECT `+quoteColumns+`
		FROM quotes
		WHERE ($1::uuid IS NULL OR client_id = $1)
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3`, clientParam, params.Limit, params.Skip)
	if err != nil {
		return nil, fmt.Errorf("failed to list quotes: %w", err)
	}
	defer rows.Close()

	items := make([]Quote, 0)
	for rows.Next() {
		var q Quote
		if err := scanQuote(rows, &q); err != nil {
			return nil, fmt.Errorf("failed to scan quote: %w", err)
		}
		items = append(items, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate quotes: %w", err)
	}
	return items, nil
}

// LinesByQuoteIDs loads the lines of several quotes with one query, grouped by quote.
func (r queries) LinesByQuoteIDs(ctx context.Context, quoteIDs []uuid.UUID) (map[uuid.UUID][]QuoteLine, error) {
	out := make(map[uuid.UUID][]QuoteLine, len(quoteIDs))
	if len(quoteIDs) == 0 {
		return out, nil
	}

	rows, err := r.q.Query(ctx, `
		SELECT id, quote_id, article_id, description, quantity, unit_price, discount_pct, position, created_at
		FROM quote_lines
		WHERE quote_id = ANY($1)
		ORDER BY quote_id, position ASC`, quoteIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query quote lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var l QuoteLine
		if err := rows.Scan(
			&l.ID, &l.QuoteID, &l.ArticleID, &l.Description, &l.Quantity, &l.UnitPrice, &l.DiscountPct, &l.Position, &l.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan quote line: %w", err)
		}
		out[l.QuoteID] = append(out[l.QuoteID], l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate quote lines: %w", err)
	}
	return out, nil
}
