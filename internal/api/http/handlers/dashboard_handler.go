package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/swift-ticket/internal/api/dto"
	"github.com/spec-kit/swift-ticket/internal/service"
)

// DashboardHandler serves the admin panel overview.
type DashboardHandler struct {
	service *service.DashboardService
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: dashboardService}
}

// Get GET /dashboard.
func (h *DashboardHandler) Get(c *fiber.Ctx) error {
	identity, err := principal(c)
	if err != nil {
		return err
	}
	board := h.service.Build(identity)
	units := make([]dto.UnitCounts, 0, len(board.Units))
	for _, u := range board.Units {
		units = append(units, dto.UnitCounts{UnitID: u.UnitID, UnitName: u.UnitName, StatusCounts: statusCounts(u.StatusCounts)})
	}
	return c.JSON(fiber.Map{"data": dto.DashboardResponse{
		Counts:      statusCounts(board.Counts),
		Units:       units,
		Recent:      ticketSummaries(board.Recent, board.GeneratedAt),
		GeneratedAt: board.GeneratedAt,
	}})
}
