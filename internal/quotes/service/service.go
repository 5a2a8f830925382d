package service

import (
	"context"
	"time"

	catalogrepo "presupuestos_backend/internal/catalog/repository"
	"presupuestos_backend/internal/quotes/repository"
	"presupuestos_backend/internal/quotes/transport"
	"presupuestos_backend/platform/apperr"
	"presupuestos_backend/platform/logger"

	"github.com/google/uuid"
)

const defaultValidityDays = 30

// Recorder receives quote write observations. *metrics.Registry implements it.
type Recorder interface {
	QuoteWritten(op string)
	ApprovalRevoked()
}

type noopRecorder struct{}

func (noopRecorder) QuoteWritten(string) {}
func (noopRecorder) ApprovalRevoked()    {}

// Service provides business logic for quotes
type Service struct {
	store   repository.Store
	catalog catalogrepo.Reader
	log     *logger.Logger
	metrics Recorder
	now     func() time.Time
}

// New creates a new quotes service. metrics may be nil.
func New(store repository.Store, catalog catalogrepo.Reader, log *logger.Logger, metrics Recorder) *Service {
	if metrics == nil {
		metrics = noopRecorder{}
	}
	return &Service{
		store:   store,
		catalog: catalog,
		log:     log,
		metrics: metrics,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Create validates every reference, then writes the header and all lines in a
// single transaction. Nothing is retained when any step fails.
func (s *Service) Create(ctx context.Context, actorID uuid.UUID, req transport.CreateQuoteRequest) (*transport.QuoteResponse, error) {
	now := s.now()

	quoteDate := truncateDay(now)
	if req.QuoteDate != nil {
		parsed, err := parseDate(*req.QuoteDate)
		if err != nil {
			return nil, err
		}
		quoteDate = parsed
	}

	descriptions, err := ValidateReferences(ctx, s.catalog, &req.ClientID, articleIDs(req.Lines))
	if err != nil {
		return nil, err
	}

	state, _ := ResolveState(transport.QuoteStateDraft, req.State)

	quote := repository.Quote{
		ID:                  uuid.New(),
		QuoteNumber:         req.QuoteNumber,
		QuoteDate:           quoteDate,
		DeliverySite:        req.DeliverySite,
		ContactPerson:       req.ContactPerson,
		State:               string(state),
		PaymentTerms:        req.PaymentTerms,
		ValidityDays:        defaultValidityDays,
		TruckConditions:     req.TruckConditions,
		UnloadingConditions: req.UnloadingConditions,
		TaxConditions:       req.TaxConditions,
		Observations:        req.Observations,
		ClientID:            req.ClientID,
		CreatedBy:           actorID,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if req.ValidityDays != nil {
		quote.ValidityDays = *req.ValidityDays
	}
	if req.PalletPrice != nil {
		quote.PalletPrice = *req.PalletPrice
	}
	if isReviewDecision(state) {
		quote.ReviewedBy = &actorID
		quote.ReviewDate = &quoteDate
	}

	lines := buildLines(quote.ID, req.Lines, descriptions, now)

	err = s.store.WithinTx(ctx, func(uow repository.UnitOfWork) error {
		if err := uow.InsertQuote(ctx, &quote); err != nil {
			return err
		}
		return uow.InsertLines(ctx, lines)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.QuoteWritten("create")
	resp := toResponse(quote, lines)
	return &resp, nil
}

// Update applies a partial header patch and, when lines are present, replaces
// the whole line set. Editing an approved quote revokes the approval.
func (s *Service) Update(ctx context.Context, id uuid.UUID, actorID uuid.UUID, req transport.UpdateQuoteRequest) (*transport.QuoteResponse, error) {
	patch, err := parsePatchDates(req)
	if err != nil {
		return nil, err
	}

	var lineIDs []string
	if req.Lines != nil {
		lineIDs = articleIDs(*req.Lines)
	}
	descriptions, err := ValidateReferences(ctx, s.catalog, req.ClientID, lineIDs)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var (
		quote   *repository.Quote
		revoked bool
	)
	err = s.store.WithinTx(ctx, func(uow repository.UnitOfWork) error {
		current, err := uow.GetByID(ctx, id)
		if err != nil {
			return err
		}

		applyPatch(current, req, patch)

		var next transport.QuoteState
		next, revoked = ResolveState(transport.QuoteState(current.State), req.State)
		if !revoked && req.State != nil && isReviewDecision(next) {
			current.ReviewedBy = &actorID
			if current.ReviewDate == nil {
				today := truncateDay(now)
				current.ReviewDate = &today
			}
		}
		current.State = string(next)
		current.UpdatedAt = now

		if err := uow.UpdateQuote(ctx, current); err != nil {
			return err
		}

		if req.Lines != nil {
			if err := uow.DeleteLines(ctx, current.ID); err != nil {
				return err
			}
			if err := uow.InsertLines(ctx, buildLines(current.ID, *req.Lines, descriptions, now)); err != nil {
				return err
			}
		}

		quote = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.QuoteWritten("update")
	if revoked {
		s.metrics.ApprovalRevoked()
		s.log.WithContext(ctx).ApprovalRevoked(id.String())
	}

	views, err := s.assemble(ctx, []repository.Quote{*quote})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// GetByID retrieves a quote with its lines and totals
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*transport.QuoteResponse, error) {
	quote, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	views, err := s.assemble(ctx, []repository.Quote{*quote})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// List returns a page of quotes, newest first
func (s *Service) List(ctx context.Context, req transport.ListQuotesRequest) ([]transport.QuoteResponse, error) {
	return s.list(ctx, repository.ListParams{Skip: req.Skip, Limit: req.Limit})
}

// ListByClient returns a page of one client's quotes, newest first
func (s *Service) ListByClient(ctx context.Context, clientID uuid.UUID, req transport.ListQuotesRequest) ([]transport.QuoteResponse, error) {
	return s.list(ctx, repository.ListParams{ClientID: &clientID, Skip: req.Skip, Limit: req.Limit})
}

func (s *Service) list(ctx context.Context, params repository.ListParams) ([]transport.QuoteResponse, error) {
	quotes, err := s.store.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return s.assemble(ctx, quotes)
}

// Delete removes a quote and all of its lines in one transaction
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.store.WithinTx(ctx, func(uow repository.UnitOfWork) error {
		if _, err := uow.GetByID(ctx, id); err != nil {
			return err
		}
		if err := uow.DeleteLines(ctx, id); err != nil {
			return err
		}
		return uow.DeleteQuote(ctx, id)
	})
	if err != nil {
		return err
	}

	s.metrics.QuoteWritten("delete")
	return nil
}

// ClientName returns the display name of a quote's client, used on documents.
func (s *Service) ClientName(ctx context.Context, clientID uuid.UUID) (string, error) {
	client, err := s.catalog.GetClient(ctx, clientID)
	if err != nil {
		return "", err
	}
	return client.Name, nil
}

// assemble loads the lines of every quote with one query and builds read views.
func (s *Service) assemble(ctx context.Context, quotes []repository.Quote) ([]transport.QuoteResponse, error) {
	ids := make([]uuid.UUID, len(quotes))
	for i, q := range quotes {
		ids[i] = q.ID
	}

	lines, err := s.store.LinesByQuoteIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]transport.QuoteResponse, len(quotes))
	for i, q := range quotes {
		out[i] = toResponse(q, lines[q.ID])
	}
	return out, nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

type patchDates struct {
	quoteDate  *time.Time
	reviewDate *time.Time
}

func parsePatchDates(req transport.UpdateQuoteRequest) (patchDates, error) {
	var p patchDates
	if req.QuoteDate != nil {
		d, err := parseDate(*req.QuoteDate)
		if err != nil {
			return p, err
		}
		p.quoteDate = &d
	}
	if req.ReviewDate != nil {
		d, err := parseDate(*req.ReviewDate)
		if err != nil {
			return p, err
		}
		p.reviewDate = &d
	}
	return p, nil
}

// applyPatch copies every present field onto q. State is left to ResolveState.
func applyPatch(q *repository.Quote, req transport.UpdateQuoteRequest, dates patchDates) {
	if req.ClientID != nil {
		q.ClientID = *req.ClientID
	}
	if req.QuoteNumber != nil {
		q.QuoteNumber = req.QuoteNumber
	}
	if dates.quoteDate != nil {
		q.QuoteDate = *dates.quoteDate
	}
	if dates.reviewDate != nil {
		q.ReviewDate = dates.reviewDate
	}
	if req.DeliverySite != nil {
		q.DeliverySite = *req.DeliverySite
	}
	if req.ContactPerson != nil {
		q.ContactPerson = *req.ContactPerson
	}
	if req.DenialReason != nil {
		q.DenialReason = *req.DenialReason
	}
	if req.PaymentTerms != nil {
		q.PaymentTerms = *req.PaymentTerms
	}
	if req.ValidityDays != nil {
		q.ValidityDays = *req.ValidityDays
	}
	if req.PalletPrice != nil {
		q.PalletPrice = *req.PalletPrice
	}
	if req.TruckConditions != nil {
		q.TruckConditions = *req.TruckConditions
	}
	if req.UnloadingConditions != nil {
		q.UnloadingConditions = *req.UnloadingConditions
	}
	if req.TaxConditions != nil {
		q.TaxConditions = *req.TaxConditions
	}
	if req.Observations != nil {
		q.Observations = *req.Observations
	}
}

func articleIDs(lines []transport.QuoteLineRequest) []string {
	ids := make([]string, len(lines))
	for i, l := range lines {
		ids[i] = l.ArticleID
	}
	return ids
}

// buildLines assigns fresh ids and positions. A caller-supplied description
// wins over the catalog snapshot.
func buildLines(quoteID uuid.UUID, reqLines []transport.QuoteLineRequest, descriptions map[string]string, now time.Time) []repository.QuoteLine {
	lines := make([]repository.QuoteLine, len(reqLines))
	for i, l := range reqLines {
		description := descriptions[l.ArticleID]
		if l.Description != nil {
			description = *l.Description
		}
		lines[i] = repository.QuoteLine{
			ID:          uuid.New(),
			QuoteID:     quoteID,
			ArticleID:   l.ArticleID,
			Description: description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			DiscountPct: l.DiscountPct,
			Position:    i,
			CreatedAt:   now,
		}
	}
	return lines
}

// toResponse converts a header and its lines into the read view, computing totals.
func toResponse(q repository.Quote, lines []repository.QuoteLine) transport.QuoteResponse {
	respLines := make([]transport.QuoteLineResponse, len(lines))
	amounts := make([]LineAmounts, len(lines))
	for i, l := range lines {
		amounts[i] = LineAmounts{Quantity: l.Quantity, UnitPrice: l.UnitPrice, DiscountPct: l.DiscountPct}
		respLines[i] = transport.QuoteLineResponse{
			ID:          l.ID,
			QuoteID:     l.QuoteID,
			ArticleID:   l.ArticleID,
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			DiscountPct: l.DiscountPct,
			LineTotal:   LineTotal(amounts[i]),
		}
	}
	totals := CalculateTotals(amounts)

	var reviewDate *string
	if q.ReviewDate != nil {
		formatted := q.ReviewDate.Format(transport.DateLayout)
		reviewDate = &formatted
	}

	return transport.QuoteResponse{
		ID:                  q.ID,
		QuoteNumber:         q.QuoteNumber,
		QuoteDate:           q.QuoteDate.Format(transport.DateLayout),
		DeliverySite:        q.DeliverySite,
		ContactPerson:       q.ContactPerson,
		State:               transport.QuoteState(q.State),
		ReviewDate:          reviewDate,
		DenialReason:        q.DenialReason,
		PaymentTerms:        q.PaymentTerms,
		ValidityDays:        q.ValidityDays,
		PalletPrice:         q.PalletPrice,
		TruckConditions:     q.TruckConditions,
		UnloadingConditions: q.UnloadingConditions,
		TaxConditions:       q.TaxConditions,
		Observations:        q.Observations,
		ClientID:            q.ClientID,
		CreatedBy:           q.CreatedBy,
		ReviewedBy:          q.ReviewedBy,
		CreatedAt:           q.CreatedAt,
		UpdatedAt:           q.UpdatedAt,
		Lines:               respLines,
		GrossTotal:          totals.Gross,
		DiscountTotal:       totals.Discount,
		NetTotal:            totals.Net,
	}
}

func parseDate(value string) (time.Time, error) {
	t, err := time.Parse(transport.DateLayout, value)
	if err != nil {
		return time.Time{}, apperr.Validation("invalid date, expected YYYY-MM-DD")
	}
	return t, nil
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
