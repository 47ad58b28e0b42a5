package domain

import "time"

// WeeklyResolvedRow is one line of the recent-resolutions report.
type WeeklyResolvedRow struct {
	TicketID  int64
	Title     string
	Agent     string
	UpdatedAt time.Time
}

// AgentPerformanceRow summarizes one agent's current workload and outcomes.
// AvgResolutionDays is nil when the agent has no currently-resolved tickets;
// callers must render that as "not applicable", never as zero.
type AgentPerformanceRow struct {
	Agent             string
	AssignedCount     int64
	ResolvedCount     int64
	AvgResolutionDays *float64
}
