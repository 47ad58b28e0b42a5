package dto

import (
	"time"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// AssignTicketRequest payload.
type AssignTicketRequest struct {
	AgentID int64 `json:"agent_id"`
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status domain.TicketStatus `json:"status"`
}

// TicketSummary response row.
type TicketSummary struct {
	ID        int64               `json:"id"`
	Title     string              `json:"title"`
	Status    domain.TicketStatus `json:"status"`
	Requester string              `json:"requester"`
	Agent     string              `json:"agent"`
	CreatedAt time.Time           `json:"created_at"`
}

// TicketDetailResponse provides full ticket info.
type TicketDetailResponse struct {
	ID          int64               `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Status      domain.TicketStatus `json:"status"`
	Requester   string              `json:"requester"`
	Agent       string              `json:"agent"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   *time.Time          `json:"updated_at"`
	ResolvedAt  *time.Time          `json:"resolved_at"`
}
