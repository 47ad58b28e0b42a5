package dto

import "time"

// WeeklyResolvedRow response row.
type WeeklyResolvedRow struct {
	TicketID  int64     `json:"ticket_id"`
	Title     string    `json:"title"`
	Agent     string    `json:"agent"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AgentPerformanceRow response row. AvgResolutionDays stays null for agents
// with no currently-resolved tickets.
type AgentPerformanceRow struct {
	Agent             string   `json:"agent"`
	AssignedCount     int64    `json:"assigned_count"`
	ResolvedCount     int64    `json:"resolved_count"`
	AvgResolutionDays *float64 `json:"avg_resolution_days"`
}
