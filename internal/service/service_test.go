package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/config"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/persistence"
	"github.com/spec-kit/helpdesk/internal/repository"
)

type serviceFixture struct {
	users      repository.UserRepository
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
}

func newFixture(t *testing.T) *serviceFixture {
	t.Helper()
	store, err := persistence.NewSQLite(config.SQLiteConfig{Path: ":memory:"}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(store.Close)
	require.NoError(t, persistence.RunMigrations(context.Background(), store.Handle(), zap.NewNop()))

	return &serviceFixture{
		users:      repository.NewUserRepository(store.Handle()),
		tickets:    repository.NewTicketRepository(store.Handle()),
		dispatcher: events.NewInMemoryDispatcher(),
	}
}

func testConfig() config.Config {
	return config.Config{
		Auth: config.AuthConfig{
			JWTSecret:             "test-secret",
			AccessTokenTTLMinutes: 15,
			BcryptCost:            4,
		},
	}
}

func (f *serviceFixture) authService() *AuthService {
	return NewAuthService(testConfig(), AuthDependencies{
		UserRepo:   f.users,
		Dispatcher: f.dispatcher,
	})
}

func (f *serviceFixture) ticketService() *TicketService {
	return NewTicketService(TicketDependencies{
		TicketRepo: f.tickets,
		UserRepo:   f.users,
		Dispatcher: f.dispatcher,
	})
}

// eventRecorder collects published events for assertions.
type eventRecorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *eventRecorder) record(_ context.Context, event events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *eventRecorder) all() []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]events.Event{}, r.events...)
}
