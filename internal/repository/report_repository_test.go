package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk/internal/domain"
)

func TestWeeklyResolvedWindow(t *testing.T) {
	db := newTestDB(t)
	tickets := NewTicketRepository(db)
	reports := NewReportRepository(db)
	ctx := context.Background()

	requesterID := seedUser(t, db, "req", domain.RoleRequester)
	agentID := seedUser(t, db, "agent", domain.RoleAgent)

	recent := seedTicket(t, db, "recent", requesterID)
	stale := seedTicket(t, db, "stale", requesterID)
	open := seedTicket(t, db, "open", requesterID)

	for _, id := range []int64{recent, stale} {
		require.NoError(t, tickets.Assign(ctx, id, agentID))
		require.NoError(t, tickets.SetStatus(ctx, id, domain.TicketStatusResolved))
	}
	require.NoError(t, tickets.Assign(ctx, open, agentID))

	now := time.Now().UTC()
	backdate(t, db, recent, "updated_at", now.Add(-24*time.Hour))
	backdate(t, db, stale, "updated_at", now.Add(-8*24*time.Hour))

	rows, err := reports.WeeklyResolved(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, recent, rows[0].TicketID)
	assert.Equal(t, "agent", rows[0].Agent)
}

func TestWeeklyResolvedOrdering(t *testing.T) {
	db := newTestDB(t)
	tickets := NewTicketRepository(db)
	reports := NewReportRepository(db)
	ctx := context.Background()

	requesterID := seedUser(t, db, "req", domain.RoleRequester)
	agentID := seedUser(t, db, "agent", domain.RoleAgent)

	older := seedTicket(t, db, "older", requesterID)
	newer := seedTicket(t, db, "newer", requesterID)
	for _, id := range []int64{older, newer} {
		require.NoError(t, tickets.Assign(ctx, id, agentID))
		require.NoError(t, tickets.SetStatus(ctx, id, domain.TicketStatusResolved))
	}

	now := time.Now().UTC()
	backdate(t, db, older, "updated_at", now.Add(-3*24*time.Hour))
	backdate(t, db, newer, "updated_at", now.Add(-1*24*time.Hour))

	rows, err := reports.WeeklyResolved(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, newer, rows[0].TicketID)
	assert.Equal(t, older, rows[1].TicketID)
}

func TestWeeklyResolvedIsLive(t *testing.T) {
	db := newTestDB(t)
	tickets := NewTicketRepository(db)
	reports := NewReportRepository(db)
	ctx := context.Background()

	requesterID := seedUser(t, db, "req", domain.RoleRequester)
	agentID := seedUser(t, db, "agent", domain.RoleAgent)

	ticketID := seedTicket(t, db, "bounces", requesterID)
	require.NoError(t, tickets.Assign(ctx, ticketID, agentID))
	require.NoError(t, tickets.SetStatus(ctx, ticketID, domain.TicketStatusResolved))

	rows, err := reports.WeeklyResolved(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	// re-opening drops the ticket from the next computation
	require.NoError(t, tickets.SetStatus(ctx, ticketID, domain.TicketStatusOpen))
	rows, err = reports.WeeklyResolved(ctx)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestAgentPerformance(t *testing.T) {
	db := newTestDB(t)
	tickets := NewTicketRepository(db)
	reports := NewReportRepository(db)
	ctx := context.Background()

	requesterID := seedUser(t, db, "req", domain.RoleRequester)
	busyID := seedUser(t, db, "busy", domain.RoleAgent)
	seedUser(t, db, "idle", domain.RoleAgent)

	now := time.Now().UTC()
	var ids []int64
	for _, title := range []string{"one", "two", "three"} {
		id := seedTicket(t, db, title, requesterID)
		require.NoError(t, tickets.Assign(ctx, id, busyID))
		ids = append(ids, id)
	}
	// resolve two with resolution times of 1 and 3 days
	require.NoError(t, tickets.SetStatus(ctx, ids[0], domain.TicketStatusResolved))
	backdate(t, db, ids[0], "created_at", now.Add(-24*time.Hour))
	backdate(t, db, ids[0], "resolved_at", now)
	require.NoError(t, tickets.SetStatus(ctx, ids[1], domain.TicketStatusResolved))
	backdate(t, db, ids[1], "created_at", now.Add(-3*24*time.Hour))
	backdate(t, db, ids[1], "resolved_at", now)

	rows, err := reports.AgentPerformance(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	busy := rows[0]
	assert.Equal(t, "busy", busy.Agent)
	assert.Equal(t, int64(3), busy.AssignedCount)
	assert.Equal(t, int64(2), busy.ResolvedCount)
	require.NotNil(t, busy.AvgResolutionDays)
	assert.InDelta(t, 2.0, *busy.AvgResolutionDays, 0.01)

	idle := rows[1]
	assert.Equal(t, "idle", idle.Agent)
	assert.Equal(t, int64(0), idle.AssignedCount)
	assert.Equal(t, int64(0), idle.ResolvedCount)
	assert.Nil(t, idle.AvgResolutionDays)
}

func TestAgentPerformanceExcludesReopened(t *testing.T) {
	db := newTestDB(t)
	tickets := NewTicketRepository(db)
	reports := NewReportRepository(db)
	ctx := context.Background()

	requesterID := seedUser(t, db, "req", domain.RoleRequester)
	agentID := seedUser(t, db, "agent", domain.RoleAgent)

	ticketID := seedTicket(t, db, "regression", requesterID)
	require.NoError(t, tickets.Assign(ctx, ticketID, agentID))
	require.NoError(t, tickets.SetStatus(ctx, ticketID, domain.TicketStatusResolved))
	require.NoError(t, tickets.SetStatus(ctx, ticketID, domain.TicketStatusInProgress))

	rows, err := reports.AgentPerformance(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(1), rows[0].AssignedCount)
	assert.Equal(t, int64(0), rows[0].ResolvedCount)
	assert.Nil(t, rows[0].AvgResolutionDays)
}
