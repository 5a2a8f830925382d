package service

import (
	"context"
	"errors"
	"io"
	"sort"

	catalogrepo "presupuestos_backend/internal/catalog/repository"
	"presupuestos_backend/internal/quotes/repository"
	"presupuestos_backend/platform/apperr"
	"presupuestos_backend/platform/logger"

	"github.com/google/uuid"
)

var errLineInsert = errors.New("line insert failed")

// memStore is an in-memory Store. WithinTx works on a copy and only swaps it
// in when fn succeeds, which is how a rolled back transaction looks from outside.
type memStore struct {
	quotes map[uuid.UUID]repository.Quote
	lines  map[uuid.UUID][]repository.QuoteLine
	// failLineAt makes InsertLines fail on that index; negative disables it.
	failLineAt int
}

func newMemStore() *memStore {
	return &memStore{
		quotes:     map[uuid.UUID]repository.Quote{},
		lines:      map[uuid.UUID][]repository.QuoteLine{},
		failLineAt: -1,
	}
}

func (s *memStore) WithinTx(_ context.Context, fn func(uow repository.UnitOfWork) error) error {
	uow := &memUoW{quotes: map[uuid.UUID]repository.Quote{}, lines: map[uuid.UUID][]repository.QuoteLine{}, failLineAt: s.failLineAt}
	for k, v := range s.quotes {
		uow.quotes[k] = v
	}
	for k, v := range s.lines {
		uow.lines[k] = append([]repository.QuoteLine(nil), v...)
	}
	if err := fn(uow); err != nil {
		return err
	}
	s.quotes, s.lines = uow.quotes, uow.lines
	return nil
}

func (s *memStore) GetByID(_ context.Context, id uuid.UUID) (*repository.Quote, error) {
	q, ok := s.quotes[id]
	if !ok {
		return nil, apperr.NotFound("quote not found")
	}
	return &q, nil
}

func (s *memStore) List(_ context.Context, params repository.ListParams) ([]repository.Quote, error) {
	all := make([]repository.Quote, 0, len(s.quotes))
	for _, q := range s.quotes {
		if params.ClientID != nil && q.ClientID != *params.ClientID {
			continue
		}
		all = append(all, q)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	if params.Skip >= len(all) {
		return []repository.Quote{}, nil
	}
	all = all[params.Skip:]
	if params.Limit < len(all) {
		all = all[:params.Limit]
	}
	return all, nil
}

func (s *memStore) LinesByQuoteIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID][]repository.QuoteLine, error) {
	out := make(map[uuid.UUID][]repository.QuoteLine, len(ids))
	for _, id := range ids {
		if lines, ok := s.lines[id]; ok && len(lines) > 0 {
			out[id] = append([]repository.QuoteLine(nil), lines...)
		}
	}
	return out, nil
}

func (s *memStore) lineCount() int {
	n := 0
	for _, l := range s.lines {
		n += len(l)
	}
	return n
}

type memUoW struct {
	quotes     map[uuid.UUID]repository.Quote
	lines      map[uuid.UUID][]repository.QuoteLine
	failLineAt int
}

func (u *memUoW) GetByID(_ context.Context, id uuid.UUID) (*repository.Quote, error) {
	q, ok := u.quotes[id]
	if !ok {
		return nil, apperr.NotFound("quote not found")
	}
	return &q, nil
}

func (u *memUoW) InsertQuote(_ context.Context, q *repository.Quote) error {
	u.quotes[q.ID] = *q
	return nil
}

func (u *memUoW) UpdateQuote(_ context.Context, q *repository.Quote) error {
	if _, ok := u.quotes[q.ID]; !ok {
		return apperr.NotFound("quote not found")
	}
	u.quotes[q.ID] = *q
	return nil
}

func (u *memUoW) DeleteQuote(_ context.Context, id uuid.UUID) error {
	if _, ok := u.quotes[id]; !ok {
		return apperr.NotFound("quote not found")
	}
	delete(u.quotes, id)
	delete(u.lines, id)
	return nil
}

func (u *memUoW) InsertLines(_ context.Context, lines []repository.QuoteLine) error {
	for i, l := range lines {
		if i == u.failLineAt {
			return errLineInsert
		}
		u.lines[l.QuoteID] = append(u.lines[l.QuoteID], l)
	}
	return nil
}

func (u *memUoW) DeleteLines(_ context.Context, quoteID uuid.UUID) error {
	delete(u.lines, quoteID)
	return nil
}

type memCatalog struct {
	clients  map[uuid.UUID]catalogrepo.Client
	articles map[string]catalogrepo.Article
}

func (c *memCatalog) GetClient(_ context.Context, id uuid.UUID) (catalogrepo.Client, error) {
	cl, ok := c.clients[id]
	if !ok {
		return catalogrepo.Client{}, apperr.NotFound("client not found")
	}
	return cl, nil
}

func (c *memCatalog) GetArticle(_ context.Context, id string) (catalogrepo.Article, error) {
	a, ok := c.articles[id]
	if !ok {
		return catalogrepo.Article{}, apperr.NotFound("article not found")
	}
	return a, nil
}

type countingRecorder struct {
	written map[string]int
	revoked int
}

func (r *countingRecorder) QuoteWritten(op string) {
	if r.written == nil {
		r.written = map[string]int{}
	}
	r.written[op]++
}

func (r *countingRecorder) ApprovalRevoked() { r.revoked++ }

type fixture struct {
	svc      *Service
	store    *memStore
	catalog  *memCatalog
	recorder *countingRecorder
	clientID uuid.UUID
	actorID  uuid.UUID
}

func newFixture() *fixture {
	clientID := uuid.New()
	store := newMemStore()
	catalog := &memCatalog{
		clients: map[uuid.UUID]catalogrepo.Client{clientID: {ID: clientID, Name: "Construcciones Ruiz"}},
		articles: map[string]catalogrepo.Article{
			"LAD-001": {ID: "LAD-001", Name: "Ladrillo", Description: "Ladrillo macizo 24x11"},
			"CEM-002": {ID: "CEM-002", Name: "Cemento", Description: "Cemento gris 25kg"},
			"ARE-003": {ID: "ARE-003", Name: "Arena", Description: "Arena de rio"},
		},
	}
	recorder := &countingRecorder{}
	log := logger.NewWithOptions(logger.Options{Env: "test", Writer: io.Discard})

	return &fixture{
		svc:      New(store, catalog, log, recorder),
		store:    store,
		catalog:  catalog,
		recorder: recorder,
		clientID: clientID,
		actorID:  uuid.New(),
	}
}
