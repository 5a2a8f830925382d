package service

import "presupuestos_backend/internal/quotes/transport"

// ResolveState returns the state a quote ends up in after an edit.
//
// An edit to an APPROVED quote always sends it back to SUBMITTED, whatever
// state the caller asked for. Any other quote takes the requested state
// verbatim, APPROVED included, or keeps its current state when none is given.
// revoked reports that an approval was withdrawn.
func ResolveState(current transport.QuoteState, requested *transport.QuoteState) (next transport.QuoteState, revoked bool) {
	if current == transport.QuoteStateApproved {
		return transport.QuoteStateSubmitted, true
	}
	if requested != nil {
		return *requested, false
	}
	return current, false
}

// isReviewDecision reports whether a state records a reviewer's verdict.
func isReviewDecision(state transport.QuoteState) bool {
	return state == transport.QuoteStateApproved || state == transport.QuoteStateDenied
}
