package transport

import (
	"time"

	"github.com/google/uuid"
)

// QuoteState is the review state of a quote.
type QuoteState string

const (
	QuoteStateDraft     QuoteState = "DRAFT"
	QuoteStateSubmitted QuoteState = "SUBMITTED"
	QuoteStateApproved  QuoteState = "APPROVED"
	QuoteStateDenied    QuoteState = "DENIED"
)

// DateLayout is the wire format of calendar dates (quoteDate, reviewDate).
const DateLayout = "2006-01-02"

// ── Requests ──────────────────────────────────────────────────────────────────

// QuoteLineRequest is the input for a single line. Line identity is assigned
// by the server, so the request carries no id.
type QuoteLineRequest struct {
	ArticleID string `json:"articleId" validate:"required,max=64"`
	// Description overrides the article's catalog description when set.
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Quantity    float64 `json:"quantity" validate:"gte=0"`
	UnitPrice   float64 `json:"unitPrice" validate:"gte=0"`
	DiscountPct float64 `json:"discountPct" validate:"gte=0,lte=100"`
}

// CreateQuoteRequest is the request body for creating a new quote
type CreateQuoteRequest struct {
	ClientID            uuid.UUID          `json:"clientId" validate:"required"`
	QuoteNumber         *string            `json:"quoteNumber" validate:"omitempty,max=64"`
	QuoteDate           *string            `json:"quoteDate" validate:"omitempty,datetime=2006-01-02"`
	DeliverySite        string             `json:"deliverySite" validate:"max=500"`
	ContactPerson       string             `json:"contactPerson" validate:"max=200"`
	State               *QuoteState        `json:"state" validate:"omitempty,oneof=DRAFT SUBMITTED APPROVED DENIED"`
	PaymentTerms        string             `json:"paymentTerms" validate:"max=500"`
	ValidityDays        *int               `json:"validityDays" validate:"omitempty,gte=0"`
	PalletPrice         *float64           `json:"palletPrice" validate:"omitempty,gte=0"`
	TruckConditions     string             `json:"truckConditions" validate:"max=2000"`
	UnloadingConditions string             `json:"unloadingConditions" validate:"max=2000"`
	TaxConditions       string             `json:"taxConditions" validate:"max=2000"`
	Observations        string             `json:"observations" validate:"max=5000"`
	Lines               []QuoteLineRequest `json:"lines" validate:"dive"`
}

// UpdateQuoteRequest is the request body for updating a quote. Absent fields
// are left untouched; a present lines array (even empty) replaces every line.
type UpdateQuoteRequest struct {
	ClientID            *uuid.UUID          `json:"clientId"`
	QuoteNumber         *string             `json:"quoteNumber" validate:"omitempty,max=64"`
	QuoteDate           *string             `json:"quoteDate" validate:"omitempty,datetime=2006-01-02"`
	DeliverySite        *string             `json:"deliverySite" validate:"omitempty,max=500"`
	ContactPerson       *string             `json:"contactPerson" validate:"omitempty,max=200"`
	State               *QuoteState         `json:"state" validate:"omitempty,oneof=DRAFT SUBMITTED APPROVED DENIED"`
	ReviewDate          *string             `json:"reviewDate" validate:"omitempty,datetime=2006-01-02"`
	DenialReason        *string             `json:"denialReason" validate:"omitempty,max=2000"`
	PaymentTerms        *string             `json:"paymentTerms" validate:"omitempty,max=500"`
	ValidityDays        *int                `json:"validityDays" validate:"omitempty,gte=0"`
	PalletPrice         *float64            `json:"palletPrice" validate:"omitempty,gte=0"`
	TruckConditions     *string             `json:"truckConditions" validate:"omitempty,max=2000"`
	UnloadingConditions *string             `json:"unloadingConditions" validate:"omitempty,max=2000"`
	TaxConditions       *string             `json:"taxConditions" validate:"omitempty,max=2000"`
	Observations        *string             `json:"observations" validate:"omitempty,max=5000"`
	Lines               *[]QuoteLineRequest `json:"lines" validate:"omitempty,dive"`
}

// ListQuotesRequest holds pagination for quote listings. The upper bound of
// Limit comes from configuration and is checked by the handler.
type ListQuotesRequest struct {
	Skip  int `form:"skip,default=0" validate:"gte=0"`
	Limit int `form:"limit,default=100" validate:"gte=1"`
}

// QuoteCalculationRequest previews totals without persisting anything.
type QuoteCalculationRequest struct {
	Lines []QuoteLineRequest `json:"lines" validate:"dive"`
}

// ── Responses ─────────────────────────────────────────────────────────────────

// QuoteLineResponse is a persisted line with its derived total.
type QuoteLineResponse struct {
	ID          uuid.UUID `json:"id"`
	QuoteID     uuid.UUID `json:"quoteId"`
	ArticleID   string    `json:"articleId"`
	Description string    `json:"description"`
	Quantity    float64   `json:"quantity"`
	UnitPrice   float64   `json:"unitPrice"`
	DiscountPct float64   `json:"discountPct"`
	LineTotal   float64   `json:"lineTotal"`
}

// QuoteResponse is the assembled read view: header, lines and derived totals.
type QuoteResponse struct {
	ID                  uuid.UUID           `json:"id"`
	QuoteNumber         *string             `json:"quoteNumber"`
	QuoteDate           string              `json:"quoteDate"`
	DeliverySite        string              `json:"deliverySite"`
	ContactPerson       string              `json:"contactPerson"`
	State               QuoteState          `json:"state"`
	ReviewDate          *string             `json:"reviewDate"`
	DenialReason        string              `json:"denialReason"`
	PaymentTerms        string              `json:"paymentTerms"`
	ValidityDays        int                 `json:"validityDays"`
	PalletPrice         float64             `json:"palletPrice"`
	TruckConditions     string              `json:"truckConditions"`
	UnloadingConditions string              `json:"unloadingConditions"`
	TaxConditions       string              `json:"taxConditions"`
	Observations        string              `json:"observations"`
	ClientID            uuid.UUID           `json:"clientId"`
	CreatedBy           uuid.UUID           `json:"createdBy"`
	ReviewedBy          *uuid.UUID          `json:"reviewedBy"`
	CreatedAt           time.Time           `json:"createdAt"`
	UpdatedAt           time.Time           `json:"updatedAt"`
	Lines               []QuoteLineResponse `json:"lines"`
	GrossTotal          float64             `json:"grossTotal"`
	DiscountTotal       float64             `json:"discountTotal"`
	NetTotal            float64             `json:"netTotal"`
}

// CalculatedLine is a preview line with its derived total.
type CalculatedLine struct {
	ArticleID   string  `json:"articleId"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	DiscountPct float64 `json:"discountPct"`
	LineTotal   float64 `json:"lineTotal"`
}

// QuoteCalculationResponse is the result of a totals preview.
type QuoteCalculationResponse struct {
	Lines         []CalculatedLine `json:"lines"`
	GrossTotal    float64          `json:"grossTotal"`
	DiscountTotal float64          `json:"discountTotal"`
	NetTotal      float64          `json:"netTotal"`
}
