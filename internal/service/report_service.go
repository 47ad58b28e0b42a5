package service

import (
	"context"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository"
)

// ReportService exposes the reporting views. Reports are recomputed from
// current ticket state on each call.
type ReportService struct {
	reports repository.ReportRepository
}

// NewReportService creates the service.
func NewReportService(reports repository.ReportRepository) *ReportService {
	return &ReportService{reports: reports}
}

// WeeklyResolved lists tickets resolved within the last 7 days, newest first.
func (s *ReportService) WeeklyResolved(ctx context.Context) ([]domain.WeeklyResolvedRow, error) {
	return s.reports.WeeklyResolved(ctx)
}

// AgentPerformance summarizes assignment and resolution metrics per agent.
func (s *ReportService) AgentPerformance(ctx context.Context) ([]domain.AgentPerformanceRow, error) {
	return s.reports.AgentPerformance(ctx)
}
