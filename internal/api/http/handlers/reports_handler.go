package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/service"
)

// ReportsHandler exposes the operational reports.
type ReportsHandler struct {
	service *service.ReportService
}

// NewReportsHandler constructs handler.
func NewReportsHandler(reportService *service.ReportService) *ReportsHandler {
	return &ReportsHandler{service: reportService}
}

// WeeklyResolved GET /reports/weekly-resolved.
func (h *ReportsHandler) WeeklyResolved(c *fiber.Ctx) error {
	rows, err := h.service.WeeklyResolved(c.Context())
	if err != nil {
		return err
	}

	items := make([]dto.WeeklyResolvedRow, 0, len(rows))
	for _, row := range rows {
		items = append(items, dto.WeeklyResolvedRow{
			TicketID:  row.TicketID,
			Title:     row.Title,
			Agent:     row.Agent,
			UpdatedAt: row.UpdatedAt,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

// AgentPerformance GET /reports/agent-performance.
func (h *ReportsHandler) AgentPerformance(c *fiber.Ctx) error {
	rows, err := h.service.AgentPerformance(c.Context())
	if err != nil {
		return err
	}

	items := make([]dto.AgentPerformanceRow, 0, len(rows))
	for _, row := range rows {
		items = append(items, dto.AgentPerformanceRow{
			Agent:             row.Agent,
			AssignedCount:     row.AssignedCount,
			ResolvedCount:     row.ResolvedCount,
			AvgResolutionDays: row.AvgResolutionDays,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}
