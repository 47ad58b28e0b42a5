package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/spec-kit/helpdesk/internal/domain"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// TicketRepository encapsulates ticket persistence. Every mutation is a
// single statement, so it is applied atomically or not at all.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Assign(ctx context.Context, ticketID, agentID int64) error
	SetStatus(ctx context.Context, ticketID int64, status domain.TicketStatus) error
	GetByID(ctx context.Context, ticketID int64) (*domain.Ticket, error)
	GetDetails(ctx context.Context, ticketID int64) (*domain.TicketDetail, error)
	ListAll(ctx context.Context) ([]domain.TicketSummary, error)
	ListForAgent(ctx context.Context, agentID int64) ([]domain.TicketSummary, error)
	ListForRequester(ctx context.Context, requesterID int64) ([]domain.TicketSummary, error)
}

type ticketRepository struct {
	db *sql.DB
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(db *sql.DB) TicketRepository {
	return &ticketRepository{db: db}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO tickets (title, description, status, created_at, requester_id) VALUES (?, ?, ?, ?, ?)`,
		ticket.Title, ticket.Description, string(domain.TicketStatusOpen), formatTime(now), ticket.RequesterID,
	)
	if err != nil {
		return apperrors.NewStorageFailure(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return apperrors.NewStorageFailure(err)
	}
	ticket.ID = id
	ticket.Status = domain.TicketStatusOpen
	ticket.CreatedAt = now
	ticket.UpdatedAt = nil
	ticket.ResolvedAt = nil
	return nil
}

func (r *ticketRepository) Assign(ctx context.Context, ticketID, agentID int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE tickets SET agent_id = ?, updated_at = ? WHERE id = ?`,
		agentID, formatTime(time.Now().UTC()), ticketID,
	)
	if err != nil {
		return apperrors.NewStorageFailure(err)
	}
	return requireRow(res, ticketID)
}

// SetStatus refreshes updated_at and keeps resolved_at consistent with the
// new status: set on entering Resolved, cleared on leaving it. Any status may
// transition to any other.
func (r *ticketRepository) SetStatus(ctx context.Context, ticketID int64, status domain.TicketStatus) error {
	now := formatTime(time.Now().UTC())

	var (
		res sql.Result
		err error
	)
	if status == domain.TicketStatusResolved {
		res, err = r.db.ExecContext(ctx,
			`UPDATE tickets SET status = ?, updated_at = ?, resolved_at = ? WHERE id = ?`,
			string(status), now, now, ticketID,
		)
	} else {
		res, err = r.db.ExecContext(ctx,
			`UPDATE tickets SET status = ?, updated_at = ?, resolved_at = NULL WHERE id = ?`,
			string(status), now, ticketID,
		)
	}
	if err != nil {
		return apperrors.NewStorageFailure(err)
	}
	return requireRow(res, ticketID)
}

func (r *ticketRepository) GetByID(ctx context.Context, ticketID int64) (*domain.Ticket, error) {
	const query = `
        SELECT id, title, description, status, created_at, updated_at, resolved_at, requester_id, agent_id
        FROM tickets WHERE id = ?`

	var (
		ticket     domain.Ticket
		createdAt  string
		updatedAt  sql.NullString
		resolvedAt sql.NullString
		agentID    sql.NullInt64
	)
	err := r.db.QueryRowContext(ctx, query, ticketID).Scan(
		&ticket.ID,
		&ticket.Title,
		&ticket.Description,
		&ticket.Status,
		&createdAt,
		&updatedAt,
		&resolvedAt,
		&ticket.RequesterID,
		&agentID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewTicketNotFound(ticketID)
		}
		return nil, apperrors.NewStorageFailure(err)
	}

	if ticket.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, apperrors.NewStorageFailure(err)
	}
	if ticket.UpdatedAt, err = parseNullTime(updatedAt); err != nil {
		return nil, apperrors.NewStorageFailure(err)
	}
	if ticket.ResolvedAt, err = parseNullTime(resolvedAt); err != nil {
		return nil, apperrors.NewStorageFailure(err)
	}
	if agentID.Valid {
		ticket.AgentID = &agentID.Int64
	}
	return &ticket, nil
}

func (r *ticketRepository) GetDetails(ctx context.Context, ticketID int64) (*domain.TicketDetail, error) {
	const query = `
        SELECT t.id, t.title, t.description, t.status,
               req.username,
               COALESCE(ag.username, 'Not Assigned'),
               t.created_at, t.updated_at, t.resolved_at
        FROM tickets t
        JOIN users req ON t.requester_id = req.id
        LEFT JOIN users ag ON t.agent_id = ag.id
        WHERE t.id = ?`

	var (
		detail     domain.TicketDetail
		createdAt  string
		updatedAt  sql.NullString
		resolvedAt sql.NullString
	)
	err := r.db.QueryRowContext(ctx, query, ticketID).Scan(
		&detail.ID,
		&detail.Title,
		&detail.Description,
		&detail.Status,
		&detail.Requester,
		&detail.Agent,
		&createdAt,
		&updatedAt,
		&resolvedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewTicketNotFound(ticketID)
		}
		return nil, apperrors.NewStorageFailure(err)
	}

	if detail.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, apperrors.NewStorageFailure(err)
	}
	if detail.UpdatedAt, err = parseNullTime(updatedAt); err != nil {
		return nil, apperrors.NewStorageFailure(err)
	}
	if detail.ResolvedAt, err = parseNullTime(resolvedAt); err != nil {
		return nil, apperrors.NewStorageFailure(err)
	}
	return &detail, nil
}

const summarySelect = `
    SELECT t.id, t.title, t.status,
           req.username,
           COALESCE(ag.username, 'Not Assigned'),
           t.created_at
    FROM tickets t
    JOIN users req ON t.requester_id = req.id
    LEFT JOIN users ag ON t.agent_id = ag.id`

func (r *ticketRepository) ListAll(ctx context.Context) ([]domain.TicketSummary, error) {
	return r.listSummaries(ctx, summarySelect+` ORDER BY t.created_at DESC, t.id DESC`)
}

func (r *ticketRepository) ListForAgent(ctx context.Context, agentID int64) ([]domain.TicketSummary, error) {
	return r.listSummaries(ctx,
		summarySelect+` WHERE t.agent_id = ? ORDER BY t.created_at DESC, t.id DESC`, agentID)
}

func (r *ticketRepository) ListForRequester(ctx context.Context, requesterID int64) ([]domain.TicketSummary, error) {
	return r.listSummaries(ctx,
		summarySelect+` WHERE t.requester_id = ? ORDER BY t.created_at DESC, t.id DESC`, requesterID)
}

func (r *ticketRepository) listSummaries(ctx context.Context, query string, args ...any) ([]domain.TicketSummary, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewStorageFailure(err)
	}
	defer rows.Close()

	var result []domain.TicketSummary
	for rows.Next() {
		var (
			summary   domain.TicketSummary
			createdAt string
		)
		if err := rows.Scan(
			&summary.ID,
			&summary.Title,
			&summary.Status,
			&summary.Requester,
			&summary.Agent,
			&createdAt,
		); err != nil {
			return nil, apperrors.NewStorageFailure(err)
		}
		if summary.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, apperrors.NewStorageFailure(err)
		}
		result = append(result, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorageFailure(err)
	}
	return result, nil
}

func requireRow(res sql.Result, ticketID int64) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return apperrors.NewStorageFailure(err)
	}
	if affected == 0 {
		return apperrors.NewTicketNotFound(ticketID)
	}
	return nil
}
