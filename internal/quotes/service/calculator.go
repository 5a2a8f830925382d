package service

import (
	"presupuestos_backend/internal/quotes/transport"
)

// LineAmounts is the numeric part of a line that totals are derived from.
type LineAmounts struct {
	Quantity    float64
	UnitPrice   float64
	DiscountPct float64
}

// Totals are the derived aggregate amounts of a quote.
type Totals struct {
	Gross    float64
	Discount float64
	Net      float64
}

func lineGross(l LineAmounts) float64 {
	return l.Quantity * l.UnitPrice
}

func lineDiscount(l LineAmounts) float64 {
	return lineGross(l) * l.DiscountPct / 100
}

// LineTotal returns quantity × unit price minus the line's own discount.
func LineTotal(l LineAmounts) float64 {
	return lineGross(l) - lineDiscount(l)
}

// CalculateTotals sums gross and per-line discounts. Discounts are never
// compounded across lines. Inputs are not validated; out-of-range values pass
// straight through.
func CalculateTotals(lines []LineAmounts) Totals {
	var t Totals
	for _, l := range lines {
		t.Gross += lineGross(l)
		t.Discount += lineDiscount(l)
	}
	t.Net = t.Gross - t.Discount
	return t
}

// CalculateQuote computes a totals preview for a set of request lines.
func CalculateQuote(req transport.QuoteCalculationRequest) transport.QuoteCalculationResponse {
	amounts := make([]LineAmounts, 0, len(req.Lines))
	calculated := make([]transport.CalculatedLine, 0, len(req.Lines))

	for _, line := range req.Lines {
		a := LineAmounts{Quantity: line.Quantity, UnitPrice: line.UnitPrice, DiscountPct: line.DiscountPct}
		amounts = append(amounts, a)
		calculated = append(calculated, transport.CalculatedLine{
			ArticleID:   line.ArticleID,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			DiscountPct: line.DiscountPct,
			LineTotal:   LineTotal(a),
		})
	}

	totals := CalculateTotals(amounts)
	return transport.QuoteCalculationResponse{
		Lines:         calculated,
		GrossTotal:    totals.Gross,
		DiscountTotal: totals.Discount,
		NetTotal:      totals.Net,
	}
}
