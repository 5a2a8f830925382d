// Package service records and queries the audit trail.
package service

import (
	"context"
	"strings"
	"time"

	"presupuestos_backend/internal/audit/repository"
	"presupuestos_backend/internal/audit/transport"
	"presupuestos_backend/platform/apperr"
	"presupuestos_backend/platform/logger"

	"github.com/google/uuid"
)

const dateOnlyLayout = "2006-01-02"

// Metrics counts audit writes that were dropped.
type Metrics interface {
	AuditWriteFailed(action string)
}

type noopMetrics struct{}

func (noopMetrics) AuditWriteFailed(string) {}

// Service owns the audit trail.
type Service struct {
	store   repository.Store
	log     *logger.Logger
	metrics Metrics
	now     func() time.Time
}

// New creates an audit service. metrics may be nil.
func New(store repository.Store, log *logger.Logger, metrics Metrics) *Service {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &Service{store: store, log: log, metrics: metrics, now: time.Now}
}

// Record appends one audit entry.
func (s *Service) Record(ctx context.Context, action, actorEmail, targetEmail, details string) error {
	return s.store.Insert(ctx, repository.Record{
		ID:          uuid.New(),
		Action:      action,
		ActorEmail:  actorEmail,
		TargetEmail: targetEmail,
		CreatedAt:   s.now().UTC(),
		Details:     details,
	})
}

// RecordBestEffort appends one audit entry and swallows the failure. The
// business write the entry describes has already committed, so a failed
// audit write is logged and counted but never surfaced to the caller.
func (s *Service) RecordBestEffort(ctx context.Context, action, actorEmail, targetEmail, details string) {
	if err := s.Record(ctx, action, actorEmail, targetEmail, details); err != nil {
		s.log.WithContext(ctx).AuditDropped(action, targetEmail, err)
		s.metrics.AuditWriteFailed(action)
	}
}

// List returns audit entries newest first.
func (s *Service) List(ctx context.Context, req transport.ListAuditRequest) ([]transport.AuditRecordResponse, error) {
	from, err := parseBound(req.DateFrom, "dateFrom", false)
	if err != nil {
		return nil, err
	}
	to, err := parseBound(req.DateTo, "dateTo", true)
	if err != nil {
		return nil, err
	}

	records, err := s.store.List(ctx, repository.Filter{
		ActorEmail:  strings.TrimSpace(req.ActorEmail),
		TargetEmail: strings.TrimSpace(req.TargetEmail),
		Action:      strings.TrimSpace(req.Action),
		From:        from,
		To:          to,
		Skip:        req.Skip,
		Limit:       req.Limit,
	})
	if err != nil {
		return nil, err
	}

	out := make([]transport.AuditRecordResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, toResponse(rec))
	}
	return out, nil
}

// GetByID returns one audit entry.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*transport.AuditRecordResponse, error) {
	rec, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toResponse(rec)
	return &resp, nil
}

// parseBound accepts RFC 3339 or a bare date. A bare upper bound covers the
// whole day.
func parseBound(raw, field string, upper bool) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(dateOnlyLayout, raw)
	if err != nil {
		return nil, apperr.Validation(field + " must be RFC 3339 or YYYY-MM-DD")
	}
	if upper {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

func toResponse(rec repository.Record) transport.AuditRecordResponse {
	return transport.AuditRecordResponse{
		ID:          rec.ID,
		Action:      rec.Action,
		ActorEmail:  rec.ActorEmail,
		TargetEmail: rec.TargetEmail,
		CreatedAt:   rec.CreatedAt,
		Details:     rec.Details,
	}
}
