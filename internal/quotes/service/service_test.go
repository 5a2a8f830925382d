package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"presupuestos_backend/internal/quotes/repository"
	"presupuestos_backend/internal/quotes/transport"
	"presupuestos_backend/platform/apperr"

	"github.com/google/uuid"
)

func ptr[T any](v T) *T { return &v }

func exampleLines() []transport.QuoteLineRequest {
	return []transport.QuoteLineRequest{
		{ArticleID: "LAD-001", Quantity: 10, UnitPrice: 5, DiscountPct: 10},
		{ArticleID: "CEM-002", Quantity: 4, UnitPrice: 20, Description: ptr("Cemento especial")},
	}
}

func (f *fixture) seedQuote(t *testing.T, state transport.QuoteState, lines []transport.QuoteLineRequest) uuid.UUID {
	t.Helper()
	resp, err := f.svc.Create(context.Background(), f.actorID, transport.CreateQuoteRequest{
		ClientID: f.clientID,
		Lines:    lines,
	})
	if err != nil {
		t.Fatalf("seed create: %v", err)
	}
	q := f.store.quotes[resp.ID]
	q.State = string(state)
	f.store.quotes[resp.ID] = q
	return resp.ID
}

func TestCreateAssemblesQuoteWithTotals(t *testing.T) {
	f := newFixture()
	f.svc.now = func() time.Time { return time.Date(2026, 3, 14, 15, 4, 5, 0, time.UTC) }

	resp, err := f.svc.Create(context.Background(), f.actorID, transport.CreateQuoteRequest{
		ClientID:     f.clientID,
		DeliverySite: "Obra Calle Mayor 3",
		Lines:        exampleLines(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.State != transport.QuoteStateDraft {
		t.Fatalf("expected DRAFT, got %s", resp.State)
	}
	if resp.CreatedBy != f.actorID {
		t.Fatal("creator must be the caller")
	}
	if resp.QuoteDate != "2026-03-14" {
		t.Fatalf("expected quote date to default to today, got %s", resp.QuoteDate)
	}
	if resp.ValidityDays != defaultValidityDays {
		t.Fatalf("expected default validity, got %d", resp.ValidityDays)
	}
	if resp.GrossTotal != 130 || resp.DiscountTotal != 5 || resp.NetTotal != 125 {
		t.Fatalf("unexpected totals gross=%v discount=%v net=%v", resp.GrossTotal, resp.DiscountTotal, resp.NetTotal)
	}
	if len(resp.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(resp.Lines))
	}
	if resp.Lines[0].Description != "Ladrillo macizo 24x11" {
		t.Fatalf("expected catalog description snapshot, got %q", resp.Lines[0].Description)
	}
	if resp.Lines[1].Description != "Cemento especial" {
		t.Fatalf("expected caller description, got %q", resp.Lines[1].Description)
	}
	for _, l := range resp.Lines {
		if l.QuoteID != resp.ID {
			t.Fatal("lines must reference the new quote")
		}
	}
	if f.recorder.written["create"] != 1 {
		t.Fatalf("expected create to be counted, got %v", f.recorder.written)
	}
}

func TestCreateWithoutLinesHasEmptyLineSet(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.Create(context.Background(), f.actorID, transport.CreateQuoteRequest{ClientID: f.clientID})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Lines == nil || len(resp.Lines) != 0 {
		t.Fatalf("expected empty non-nil lines, got %#v", resp.Lines)
	}
	if resp.GrossTotal != 0 || resp.DiscountTotal != 0 || resp.NetTotal != 0 {
		t.Fatal("expected zero totals")
	}
}

func TestCreateHonoursRequestedState(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.Create(context.Background(), f.actorID, transport.CreateQuoteRequest{
		ClientID: f.clientID,
		State:    ptr(transport.QuoteStateSubmitted),
	})
	if err != nil {
		t.Fatal(err)
	}
	if resp.State != transport.QuoteStateSubmitted {
		t.Fatalf("expected SUBMITTED, got %s", resp.State)
	}
}

func TestCreateWithUnknownClientLeavesNoTrace(t *testing.T) {
	f := newFixture()
	missing := uuid.New()

	_, err := f.svc.Create(context.Background(), f.actorID, transport.CreateQuoteRequest{
		ClientID: missing,
		Lines:    exampleLines(),
	})
	if !apperr.Is(err, apperr.KindReferenceNotFound) {
		t.Fatalf("expected reference not found, got %v", err)
	}
	if len(f.store.quotes) != 0 || f.store.lineCount() != 0 {
		t.Fatalf("expected no rows, got %d quotes and %d lines", len(f.store.quotes), f.store.lineCount())
	}
}

func TestCreateWithOneUnknownArticleLeavesNoTrace(t *testing.T) {
	f := newFixture()
	lines := append(exampleLines(), transport.QuoteLineRequest{ArticleID: "NOPE-999", Quantity: 1, UnitPrice: 1})

	_, err := f.svc.Create(context.Background(), f.actorID, transport.CreateQuoteRequest{
		ClientID: f.clientID,
		Lines:    lines,
	})

	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindReferenceNotFound {
		t.Fatalf("expected reference not found, got %v", err)
	}
	if appErr.Message != "article NOPE-999 does not exist" {
		t.Fatalf("expected the missing article to be named, got %q", appErr.Message)
	}
	if len(f.store.quotes) != 0 || f.store.lineCount() != 0 {
		t.Fatal("valid lines must not be persisted either")
	}
}

func TestCreateRollsBackWhenLineInsertFails(t *testing.T) {
	f := newFixture()
	f.store.failLineAt = 1

	_, err := f.svc.Create(context.Background(), f.actorID, transport.CreateQuoteRequest{
		ClientID: f.clientID,
		Lines:    exampleLines(),
	})
	if !errors.Is(err, errLineInsert) {
		t.Fatalf("expected line insert error, got %v", err)
	}
	if len(f.store.quotes) != 0 || f.store.lineCount() != 0 {
		t.Fatal("header and first line must be rolled back")
	}
	if f.recorder.written["create"] != 0 {
		t.Fatal("failed create must not be counted")
	}
}

func TestUpdateApprovedQuoteIsForcedToSubmitted(t *testing.T) {
	f := newFixture()
	id := f.seedQuote(t, transport.QuoteStateApproved, exampleLines())

	resp, err := f.svc.Update(context.Background(), id, f.actorID, transport.UpdateQuoteRequest{
		State:        ptr(transport.QuoteStateApproved),
		Observations: ptr("precio revisado"),
	})
	if err != nil {
		t.Fatal(err)
	}

	if resp.State != transport.QuoteStateSubmitted {
		t.Fatalf("expected SUBMITTED in response, got %s", resp.State)
	}
	if got := f.store.quotes[id].State; got != string(transport.QuoteStateSubmitted) {
		t.Fatalf("expected persisted SUBMITTED, got %s", got)
	}
	if resp.Observations != "precio revisado" {
		t.Fatal("other fields of the patch must still apply")
	}
	if f.recorder.revoked != 1 {
		t.Fatalf("expected one revocation, got %d", f.recorder.revoked)
	}
}

func TestUpdateNonApprovedQuoteAcceptsApproval(t *testing.T) {
	for _, state := range []transport.QuoteState{transport.QuoteStateDraft, transport.QuoteStateSubmitted, transport.QuoteStateDenied} {
		t.Run(string(state), func(t *testing.T) {
			f := newFixture()
			id := f.seedQuote(t, state, nil)
			reviewer := uuid.New()

			resp, err := f.svc.Update(context.Background(), id, reviewer, transport.UpdateQuoteRequest{
				State: ptr(transport.QuoteStateApproved),
			})
			if err != nil {
				t.Fatal(err)
			}
			if got := f.store.quotes[id].State; got != string(transport.QuoteStateApproved) {
				t.Fatalf("expected persisted APPROVED, got %s", got)
			}
			if resp.ReviewedBy == nil || *resp.ReviewedBy != reviewer {
				t.Fatal("expected reviewer to be recorded")
			}
			if resp.ReviewDate == nil {
				t.Fatal("expected review date to be set")
			}
			if f.recorder.revoked != 0 {
				t.Fatal("no approval was revoked")
			}
		})
	}
}

func TestUpdateWithoutStateKeepsCurrentState(t *testing.T) {
	f := newFixture()
	id := f.seedQuote(t, transport.QuoteStateDenied, nil)

	resp, err := f.svc.Update(context.Background(), id, f.actorID, transport.UpdateQuoteRequest{
		DenialReason: ptr("fuera de plazo"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if resp.State != transport.QuoteStateDenied || resp.DenialReason != "fuera de plazo" {
		t.Fatalf("unexpected result %s %q", resp.State, resp.DenialReason)
	}
}

func TestUpdatePartialPatchLeavesOtherFieldsUntouched(t *testing.T) {
	f := newFixture()
	created, err := f.svc.Create(context.Background(), f.actorID, transport.CreateQuoteRequest{
		ClientID:      f.clientID,
		DeliverySite:  "Nave 4",
		ContactPerson: "Marta",
		PalletPrice:   ptr(12.5),
		Lines:         exampleLines(),
	})
	if err != nil {
		t.Fatal(err)
	}

	resp, err := f.svc.Update(context.Background(), created.ID, f.actorID, transport.UpdateQuoteRequest{
		ContactPerson: ptr("Luis"),
		QuoteDate:     ptr("2026-01-02"),
	})
	if err != nil {
		t.Fatal(err)
	}

	if resp.ContactPerson != "Luis" || resp.QuoteDate != "2026-01-02" {
		t.Fatalf("patch not applied: %q %s", resp.ContactPerson, resp.QuoteDate)
	}
	if resp.DeliverySite != "Nave 4" || resp.PalletPrice != 12.5 {
		t.Fatal("absent fields must be left untouched")
	}
	if len(resp.Lines) != 2 || resp.NetTotal != 125 {
		t.Fatalf("lines must survive a header-only patch, got %d lines net=%v", len(resp.Lines), resp.NetTotal)
	}
}

func TestUpdateReplacesEntireLineSet(t *testing.T) {
	f := newFixture()
	id := f.seedQuote(t, transport.QuoteStateDraft, exampleLines())
	oldIDs := map[uuid.UUID]bool{}
	for _, l := range f.store.lines[id] {
		oldIDs[l.ID] = true
	}

	replacement := []transport.QuoteLineRequest{
		{ArticleID: "ARE-003", Quantity: 2, UnitPrice: 30},
		{ArticleID: "ARE-003", Quantity: 1, UnitPrice: 30, DiscountPct: 50},
		{ArticleID: "LAD-001", Quantity: 100, UnitPrice: 0.5},
	}
	resp, err := f.svc.Update(context.Background(), id, f.actorID, transport.UpdateQuoteRequest{Lines: &replacement})
	if err != nil {
		t.Fatal(err)
	}

	persisted := f.store.lines[id]
	if len(persisted) != len(replacement) {
		t.Fatalf("expected %d lines, got %d", len(replacement), len(persisted))
	}
	for i, l := range persisted {
		if oldIDs[l.ID] {
			t.Fatalf("old line id %s survived replacement", l.ID)
		}
		if l.Position != i {
			t.Fatalf("expected position %d, got %d", i, l.Position)
		}
	}
	if resp.GrossTotal != 140 || resp.DiscountTotal != 15 || resp.NetTotal != 125 {
		t.Fatalf("unexpected totals %+v", resp)
	}
}

func TestUpdateWithEmptyLinesClearsLineSet(t *testing.T) {
	f := newFixture()
	id := f.seedQuote(t, transport.QuoteStateDraft, exampleLines())

	empty := []transport.QuoteLineRequest{}
	resp, err := f.svc.Update(context.Background(), id, f.actorID, transport.UpdateQuoteRequest{Lines: &empty})
	if err != nil {
		t.Fatal(err)
	}
	if f.store.lineCount() != 0 {
		t.Fatal("expected all lines removed")
	}
	if resp.Lines == nil || len(resp.Lines) != 0 || resp.NetTotal != 0 {
		t.Fatalf("expected empty line set with zero totals, got %+v", resp)
	}
}

func TestUpdateWithUnknownArticleWritesNothing(t *testing.T) {
	f := newFixture()
	id := f.seedQuote(t, transport.QuoteStateApproved, exampleLines())
	before := f.store.quotes[id]

	bad := []transport.QuoteLineRequest{{ArticleID: "LAD-001", Quantity: 1}, {ArticleID: "NOPE", Quantity: 1}}
	_, err := f.svc.Update(context.Background(), id, f.actorID, transport.UpdateQuoteRequest{Lines: &bad})
	if !apperr.Is(err, apperr.KindReferenceNotFound) {
		t.Fatalf("expected reference not found, got %v", err)
	}
	if f.store.quotes[id] != before {
		t.Fatal("header must be unchanged, approval included")
	}
	if len(f.store.lines[id]) != 2 {
		t.Fatal("existing lines must be unchanged")
	}
}

func TestUpdateWithUnknownClientIsRejected(t *testing.T) {
	f := newFixture()
	id := f.seedQuote(t, transport.QuoteStateDraft, nil)

	_, err := f.svc.Update(context.Background(), id, f.actorID, transport.UpdateQuoteRequest{ClientID: ptr(uuid.New())})
	if !apperr.Is(err, apperr.KindReferenceNotFound) {
		t.Fatalf("expected reference not found, got %v", err)
	}
}

func TestUpdateRollsBackWhenReplacementFails(t *testing.T) {
	f := newFixture()
	id := f.seedQuote(t, transport.QuoteStateDraft, exampleLines())
	f.store.failLineAt = 0

	replacement := []transport.QuoteLineRequest{{ArticleID: "ARE-003", Quantity: 1, UnitPrice: 1}}
	_, err := f.svc.Update(context.Background(), id, f.actorID, transport.UpdateQuoteRequest{
		Observations: ptr("changed"),
		Lines:        &replacement,
	})
	if !errors.Is(err, errLineInsert) {
		t.Fatalf("expected line insert error, got %v", err)
	}
	if len(f.store.lines[id]) != 2 || f.store.quotes[id].Observations != "" {
		t.Fatal("failed replacement must leave the quote as it was")
	}
}

func TestUpdateUnknownQuoteIsNotFound(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Update(context.Background(), uuid.New(), f.actorID, transport.UpdateQuoteRequest{})
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteRemovesQuoteAndLines(t *testing.T) {
	f := newFixture()
	id := f.seedQuote(t, transport.QuoteStateDraft, exampleLines())
	other := f.seedQuote(t, transport.QuoteStateDraft, exampleLines())

	if err := f.svc.Delete(context.Background(), id); err != nil {
		t.Fatal(err)
	}

	if _, ok := f.store.quotes[id]; ok {
		t.Fatal("quote still present")
	}
	for _, lines := range f.store.lines {
		for _, l := range lines {
			if l.QuoteID == id {
				t.Fatal("line of deleted quote still present")
			}
		}
	}
	if len(f.store.lines[other]) != 2 {
		t.Fatal("other quotes must keep their lines")
	}

	if err := f.svc.Delete(context.Background(), id); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestGetByIDUnknownIsNotFound(t *testing.T) {
	f := newFixture()

	if _, err := f.svc.GetByID(context.Background(), uuid.New()); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListByClientReturnsNewestFirst(t *testing.T) {
	f := newFixture()
	otherClient := uuid.New()
	f.catalog.clients[otherClient] = f.catalog.clients[f.clientID]

	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	var created []uuid.UUID
	for i, clientID := range []uuid.UUID{f.clientID, otherClient, f.clientID, f.clientID} {
		at := base.Add(time.Duration(i) * time.Hour)
		f.svc.now = func() time.Time { return at }
		resp, err := f.svc.Create(context.Background(), f.actorID, transport.CreateQuoteRequest{ClientID: clientID, Lines: exampleLines()})
		if err != nil {
			t.Fatal(err)
		}
		created = append(created, resp.ID)
	}

	got, err := f.svc.ListByClient(context.Background(), f.clientID, transport.ListQuotesRequest{Skip: 0, Limit: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].ID != created[3] || got[1].ID != created[2] {
		t.Fatalf("unexpected page %+v", got)
	}
	for _, q := range got {
		if len(q.Lines) != 2 || q.NetTotal != 125 {
			t.Fatal("listed quotes must carry lines and totals")
		}
	}

	all, err := f.svc.List(context.Background(), transport.ListQuotesRequest{Skip: 1, Limit: 100})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 quotes after skipping one, got %d", len(all))
	}
}

func TestResolveState(t *testing.T) {
	approved := transport.QuoteStateApproved
	denied := transport.QuoteStateDenied

	cases := []struct {
		current   transport.QuoteState
		requested *transport.QuoteState
		want      transport.QuoteState
		revoked   bool
	}{
		{transport.QuoteStateApproved, &approved, transport.QuoteStateSubmitted, true},
		{transport.QuoteStateApproved, nil, transport.QuoteStateSubmitted, true},
		{transport.QuoteStateApproved, &denied, transport.QuoteStateSubmitted, true},
		{transport.QuoteStateSubmitted, &approved, transport.QuoteStateApproved, false},
		{transport.QuoteStateDenied, nil, transport.QuoteStateDenied, false},
		{transport.QuoteStateDraft, &denied, transport.QuoteStateDenied, false},
	}

	for _, tc := range cases {
		got, revoked := ResolveState(tc.current, tc.requested)
		if got != tc.want || revoked != tc.revoked {
			t.Fatalf("ResolveState(%s) = %s, %v; want %s, %v", tc.current, got, revoked, tc.want, tc.revoked)
		}
	}
}

var _ repository.Store = (*memStore)(nil)
