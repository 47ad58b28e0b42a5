package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/repository"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// TicketService handles ticket creation, assignment and status transitions.
type TicketService struct {
	tickets    repository.TicketRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
}

// TicketDependencies bundles repositories.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	UserRepo   repository.UserRepository
	Dispatcher events.Dispatcher
}

// NewTicketService creates the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
	}
}

// CreateTicket opens a new ticket for the requester. Validation happens
// before any write.
func (s *TicketService) CreateTicket(ctx context.Context, requesterID int64, title, description string) (*domain.Ticket, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if title == "" || description == "" {
		return nil, apperrors.NewValidationError("title and description required", nil)
	}

	requester, err := s.users.GetByID(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	if requester.Role != domain.RoleRequester {
		return nil, apperrors.NewInvalidRole(string(requester.Role))
	}

	ticket := &domain.Ticket{
		Title:       title,
		Description: description,
		RequesterID: requesterID,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventTicketCreated, events.TicketCreatedPayload{
		TicketID:    ticket.ID,
		Title:       ticket.Title,
		RequesterID: requesterID,
	})
	return ticket, nil
}

// AssignTicket hands the ticket to an agent. Status is left untouched.
func (s *TicketService) AssignTicket(ctx context.Context, ticketID, agentID int64) error {
	agent, err := s.users.GetByID(ctx, agentID)
	if err != nil {
		if apperrors.HasCode(err, apperrors.CodeUserNotFound) {
			return apperrors.NewInvalidAgent(agentID)
		}
		return err
	}
	if agent.Role != domain.RoleAgent {
		return apperrors.NewInvalidAgent(agentID)
	}

	if err := s.tickets.Assign(ctx, ticketID, agentID); err != nil {
		return err
	}

	s.publish(ctx, events.EventTicketAssigned, events.TicketAssignedPayload{
		TicketID: ticketID,
		AgentID:  agentID,
	})
	return nil
}

// SetStatus moves the ticket to a new lifecycle state. Any state may move to
// any other; leaving Resolved wipes the prior resolution timestamp.
func (s *TicketService) SetStatus(ctx context.Context, ticketID int64, status domain.TicketStatus) error {
	if !status.Valid() {
		return apperrors.NewInvalidStatus(string(status))
	}

	current, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return err
	}

	if err := s.tickets.SetStatus(ctx, ticketID, status); err != nil {
		return err
	}

	s.publish(ctx, events.EventTicketStatusChanged, events.TicketStatusChangedPayload{
		TicketID:  ticketID,
		OldStatus: current.Status,
		NewStatus: status,
	})
	return nil
}

// ListFor returns the ticket list scoped to the caller's role: admins see
// every ticket, agents their assignments, requesters their own tickets.
func (s *TicketService) ListFor(ctx context.Context, user *domain.User) ([]domain.TicketSummary, error) {
	switch user.Role {
	case domain.RoleAdmin:
		return s.tickets.ListAll(ctx)
	case domain.RoleAgent:
		return s.tickets.ListForAgent(ctx, user.ID)
	case domain.RoleRequester:
		return s.tickets.ListForRequester(ctx, user.ID)
	default:
		return nil, apperrors.NewInvalidRole(string(user.Role))
	}
}

// GetDetailsFor returns the full ticket projection; requesters may only view
// their own tickets.
func (s *TicketService) GetDetailsFor(ctx context.Context, user *domain.User, ticketID int64) (*domain.TicketDetail, error) {
	if user.Role == domain.RoleRequester {
		ticket, err := s.tickets.GetByID(ctx, ticketID)
		if err != nil {
			return nil, err
		}
		if ticket.RequesterID != user.ID {
			return nil, apperrors.NewForbidden("not your ticket")
		}
	}
	return s.tickets.GetDetails(ctx, ticketID)
}

func (s *TicketService) publish(ctx context.Context, eventType events.EventType, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
