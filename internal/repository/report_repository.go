package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/spec-kit/helpdesk/internal/domain"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// ReportRepository derives read-only views over ticket state. Both reports
// are recomputed from current state on every call; nothing is cached.
type ReportRepository interface {
	WeeklyResolved(ctx context.Context) ([]domain.WeeklyResolvedRow, error)
	AgentPerformance(ctx context.Context) ([]domain.AgentPerformanceRow, error)
}

type reportRepository struct {
	db *sql.DB
}

// NewReportRepository instantiates repository.
func NewReportRepository(db *sql.DB) ReportRepository {
	return &reportRepository{db: db}
}

// WeeklyResolved returns tickets currently Resolved whose updated_at falls
// within the last 7 days from the moment of the call, newest first.
func (r *reportRepository) WeeklyResolved(ctx context.Context) ([]domain.WeeklyResolvedRow, error) {
	const query = `
        SELECT t.id, t.title, ag.username, t.updated_at
        FROM tickets t
        JOIN users ag ON t.agent_id = ag.id
        WHERE t.status = 'Resolved' AND t.updated_at >= ?
        ORDER BY t.updated_at DESC, t.id DESC`

	since := formatTime(time.Now().UTC().Add(-7 * 24 * time.Hour))
	rows, err := r.db.QueryContext(ctx, query, since)
	if err != nil {
		return nil, apperrors.NewStorageFailure(err)
	}
	defer rows.Close()

	var result []domain.WeeklyResolvedRow
	for rows.Next() {
		var (
			row       domain.WeeklyResolvedRow
			updatedAt string
		)
		if err := rows.Scan(&row.TicketID, &row.Title, &row.Agent, &updatedAt); err != nil {
			return nil, apperrors.NewStorageFailure(err)
		}
		if row.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, apperrors.NewStorageFailure(err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorageFailure(err)
	}
	return result, nil
}

// AgentPerformance summarizes every agent, including agents with no tickets.
// Resolution metrics cover tickets currently Resolved only: a re-opened
// ticket drops out of both resolved_count and the average.
func (r *reportRepository) AgentPerformance(ctx context.Context) ([]domain.AgentPerformanceRow, error) {
	const query = `
        SELECT u.username,
               COUNT(t.id) AS assigned_count,
               COALESCE(SUM(CASE WHEN t.status = 'Resolved' THEN 1 ELSE 0 END), 0) AS resolved_count,
               AVG(CASE WHEN t.status = 'Resolved'
                        THEN julianday(t.resolved_at) - julianday(t.created_at)
                   END) AS avg_resolution_days
        FROM users u
        LEFT JOIN tickets t ON t.agent_id = u.id
        WHERE u.role = 'agent'
        GROUP BY u.id, u.username
        ORDER BY resolved_count DESC, u.username ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.NewStorageFailure(err)
	}
	defer rows.Close()

	var result []domain.AgentPerformanceRow
	for rows.Next() {
		var (
			row domain.AgentPerformanceRow
			avg sql.NullFloat64
		)
		if err := rows.Scan(&row.Agent, &row.AssignedCount, &row.ResolvedCount, &avg); err != nil {
			return nil, apperrors.NewStorageFailure(err)
		}
		if avg.Valid {
			row.AvgResolutionDays = &avg.Float64
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorageFailure(err)
	}
	return result, nil
}
