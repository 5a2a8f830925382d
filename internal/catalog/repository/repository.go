// Package repository reads the client and article rows that quotes reference.
package repository

import (
	"context"
	"errors"
	"fmt"

	"presupuestos_backend/platform/apperr"
	"presupuestos_backend/platform/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	clientNotFoundMessage  = "client not found"
	articleNotFoundMessage = "article not found"
)

// Client is the subset of a client row quotes need.
type Client struct {
	ID       uuid.UUID
	Name     string
	TaxID    string
	Email    string
	Province string
	Address  string
}

// Article is a catalog entry. Description is snapshotted onto quote lines.
type Article struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Stock       float64 `json:"stock"`
}

// Reader is the read-only catalog surface.
// Both lookups return apperr.NotFound when the row does not exist.
type Reader interface {
	GetClient(ctx context.Context, id uuid.UUID) (Client, error)
	GetArticle(ctx context.Context, id string) (Article, error)
}

// Repo implements Reader on PostgreSQL.
type Repo struct {
	q db.Querier
}

// New creates a new catalog repository.
func New(q db.Querier) *Repo {
	return &Repo{q: q}
}

// GetClient loads a client by id.
func (r *Repo) GetClient(ctx context.Context, id uuid.UUID) (Client, error) {
	var c Client
	err := r.q.QueryRow(ctx, `
		SELECT id, name, tax_id, email, province, address
		FROM clients
		WHERE id = $1`, id).Scan(&c.ID, &c.Name, &c.TaxID, &c.Email, &c.Province, &c.Address)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Client{}, apperr.NotFound(clientNotFoundMessage)
		}
		return Client{}, fmt.Errorf("get client by id: %w", err)
	}
	return c, nil
}

// GetArticle loads an article by its code.
func (r *Repo) GetArticle(ctx context.Context, id string) (Article, error) {
	var a Article
	err := r.q.QueryRow(ctx, `
		SELECT id, name, description, category, price, stock
		FROM articles
		WHERE id = $1`, id).Scan(&a.ID, &a.Name, &a.Description, &a.Category, &a.Price, &a.Stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Article{}, apperr.NotFound(articleNotFoundMessage)
		}
		return Article{}, fmt.Errorf("get article by id: %w", err)
	}
	return a, nil
}
