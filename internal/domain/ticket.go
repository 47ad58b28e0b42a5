package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "Open"
	TicketStatusInProgress TicketStatus = "In Progress"
	TicketStatusResolved   TicketStatus = "Resolved"
)

// Valid reports whether the status is one of the known lifecycle states.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved:
		return true
	}
	return false
}

// UnassignedAgent is the sentinel shown for tickets without an agent.
const UnassignedAgent = "Not Assigned"

// Ticket is the aggregate for support requests. ResolvedAt is non-nil exactly
// while Status is Resolved; re-opening a ticket clears it.
type Ticket struct {
	ID          int64
	Title       string
	Description string
	Status      TicketStatus
	CreatedAt   time.Time
	UpdatedAt   *time.Time
	ResolvedAt  *time.Time
	RequesterID int64
	AgentID     *int64
}

// TicketSummary is the list-view row joined with both usernames.
type TicketSummary struct {
	ID        int64
	Title     string
	Status    TicketStatus
	Requester string
	Agent     string
	CreatedAt time.Time
}

// TicketDetail is the full single-ticket projection.
type TicketDetail struct {
	ID          int64
	Title       string
	Description string
	Status      TicketStatus
	Requester   string
	Agent       string
	CreatedAt   time.Time
	UpdatedAt   *time.Time
	ResolvedAt  *time.Time
}
