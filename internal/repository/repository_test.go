package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/config"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/persistence"
)

// newTestDB opens an in-memory store with the full schema applied.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	store, err := persistence.NewSQLite(config.SQLiteConfig{Path: ":memory:"}, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, persistence.RunMigrations(context.Background(), store.Handle(), zap.NewNop()))
	t.Cleanup(store.Close)
	return store.Handle()
}

func seedUser(t *testing.T, db *sql.DB, username string, role domain.Role) int64 {
	t.Helper()
	user := &domain.User{Username: username, PasswordHash: "x", Role: role}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), user))
	return user.ID
}

func seedTicket(t *testing.T, db *sql.DB, title string, requesterID int64) int64 {
	t.Helper()
	ticket := &domain.Ticket{Title: title, Description: "desc", RequesterID: requesterID}
	require.NoError(t, NewTicketRepository(db).Create(context.Background(), ticket))
	return ticket.ID
}

// backdate rewrites a ticket's timestamps directly so window and averaging
// queries can be exercised without waiting.
func backdate(t *testing.T, db *sql.DB, ticketID int64, column string, at time.Time) {
	t.Helper()
	_, err := db.Exec(`UPDATE tickets SET `+column+` = ? WHERE id = ?`, formatTime(at), ticketID)
	require.NoError(t, err)
}
