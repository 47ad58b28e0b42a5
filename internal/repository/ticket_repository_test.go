package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk/internal/domain"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

func TestTicketCreateDefaults(t *testing.T) {
	db := newTestDB(t)
	repo := NewTicketRepository(db)
	ctx := context.Background()

	requesterID := seedUser(t, db, "req", domain.RoleRequester)
	ticket := &domain.Ticket{Title: "printer on fire", Description: "third floor", RequesterID: requesterID}
	require.NoError(t, repo.Create(ctx, ticket))
	require.NotZero(t, ticket.ID)

	detail, err := repo.GetDetails(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusOpen, detail.Status)
	assert.Equal(t, "req", detail.Requester)
	assert.Equal(t, domain.UnassignedAgent, detail.Agent)
	assert.Nil(t, detail.UpdatedAt)
	assert.Nil(t, detail.ResolvedAt)
	assert.False(t, detail.CreatedAt.IsZero())
}

func TestAssignRefreshesUpdatedAtOnly(t *testing.T) {
	db := newTestDB(t)
	repo := NewTicketRepository(db)
	ctx := context.Background()

	requesterID := seedUser(t, db, "req", domain.RoleRequester)
	agentID := seedUser(t, db, "agent", domain.RoleAgent)
	ticketID := seedTicket(t, db, "vpn down", requesterID)

	require.NoError(t, repo.Assign(ctx, ticketID, agentID))

	got, err := repo.GetByID(ctx, ticketID)
	require.NoError(t, err)
	require.NotNil(t, got.AgentID)
	assert.Equal(t, agentID, *got.AgentID)
	assert.NotNil(t, got.UpdatedAt)
	assert.Equal(t, domain.TicketStatusOpen, got.Status)
	assert.Nil(t, got.ResolvedAt)
}

func TestAssignMissingTicket(t *testing.T) {
	db := newTestDB(t)
	repo := NewTicketRepository(db)

	agentID := seedUser(t, db, "agent", domain.RoleAgent)
	err := repo.Assign(context.Background(), 404, agentID)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeTicketNotFound))
}

func TestResolvedTimestampInvariant(t *testing.T) {
	db := newTestDB(t)
	repo := NewTicketRepository(db)
	ctx := context.Background()

	requesterID := seedUser(t, db, "req", domain.RoleRequester)
	ticketID := seedTicket(t, db, "flaky wifi", requesterID)

	// Open -> Resolved sets resolved_at
	require.NoError(t, repo.SetStatus(ctx, ticketID, domain.TicketStatusResolved))
	got, err := repo.GetByID(ctx, ticketID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusResolved, got.Status)
	require.NotNil(t, got.ResolvedAt)
	require.NotNil(t, got.UpdatedAt)

	// Resolved -> In Progress wipes the prior resolution timestamp
	require.NoError(t, repo.SetStatus(ctx, ticketID, domain.TicketStatusInProgress))
	got, err = repo.GetByID(ctx, ticketID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusInProgress, got.Status)
	assert.Nil(t, got.ResolvedAt)
	assert.NotNil(t, got.UpdatedAt)
}

func TestSetStatusMissingTicket(t *testing.T) {
	db := newTestDB(t)
	repo := NewTicketRepository(db)

	err := repo.SetStatus(context.Background(), 404, domain.TicketStatusResolved)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeTicketNotFound))
}

func TestGetDetailsMissingTicket(t *testing.T) {
	db := newTestDB(t)
	repo := NewTicketRepository(db)

	_, err := repo.GetDetails(context.Background(), 404)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeTicketNotFound))
}

func TestListScopes(t *testing.T) {
	db := newTestDB(t)
	repo := NewTicketRepository(db)
	ctx := context.Background()

	reqA := seedUser(t, db, "req-a", domain.RoleRequester)
	reqB := seedUser(t, db, "req-b", domain.RoleRequester)
	agentID := seedUser(t, db, "agent", domain.RoleAgent)

	oldTicket := seedTicket(t, db, "old", reqA)
	newTicket := seedTicket(t, db, "new", reqA)
	otherTicket := seedTicket(t, db, "other", reqB)
	backdate(t, db, oldTicket, "created_at", time.Now().UTC().Add(-48*time.Hour))

	require.NoError(t, repo.Assign(ctx, newTicket, agentID))

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	// newest first; the backdated ticket sinks to the bottom
	assert.Equal(t, oldTicket, all[2].ID)
	assert.Equal(t, domain.UnassignedAgent, all[2].Agent)
	assert.Equal(t, "agent", summaryByID(all, newTicket).Agent)

	mine, err := repo.ListForRequester(ctx, reqA)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	assigned, err := repo.ListForAgent(ctx, agentID)
	require.NoError(t, err)
	require.Len(t, assigned, 1)
	assert.Equal(t, newTicket, assigned[0].ID)

	theirs, err := repo.ListForRequester(ctx, reqB)
	require.NoError(t, err)
	require.Len(t, theirs, 1)
	assert.Equal(t, otherTicket, theirs[0].ID)
}

func summaryByID(summaries []domain.TicketSummary, id int64) domain.TicketSummary {
	for _, s := range summaries {
		if s.ID == id {
			return s
		}
	}
	return domain.TicketSummary{}
}
