package transport

import (
	"time"

	"github.com/google/uuid"
)

// Audit actions recorded by the user administration flows.
const (
	ActionCreateUser = "create_user"
	ActionUpdateUser = "update_user"
	ActionDeleteUser = "delete_user"
)

// ListAuditRequest holds the filters and pagination of GET /audit-logs.
// Dates accept RFC 3339 timestamps or plain YYYY-MM-DD dates.
type ListAuditRequest struct {
	ActorEmail  string `form:"actorEmail" validate:"omitempty,max=320"`
	TargetEmail string `form:"targetEmail" validate:"omitempty,max=320"`
	Action      string `form:"action" validate:"omitempty,max=64"`
	DateFrom    string `form:"dateFrom"`
	DateTo      string `form:"dateTo"`
	Skip        int    `form:"skip,default=0" validate:"gte=0"`
	Limit       int    `form:"limit,default=100" validate:"gte=1"`
}

// AuditRecordResponse is one audit entry on the wire.
type AuditRecordResponse struct {
	ID          uuid.UUID `json:"id"`
	Action      string    `json:"action"`
	ActorEmail  string    `json:"actorEmail"`
	TargetEmail string    `json:"targetEmail"`
	CreatedAt   time.Time `json:"createdAt"`
	Details     string    `json:"details"`
}
