package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/minhle-dev/rentroom-backend/internal/services"
)

type DashboardHandler struct {
	dashboardService *services.DashboardService
}

func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.dashboardService.Stats()
	if err != nil {
		return fail(c, err)
	}
	return ok(c, stats)
}

func (h *DashboardHandler) ActivityLogs(c *fiber.Ctx) error {
	logs, pagination, err := h.dashboardService.ActivityLogs(
		c.QueryInt("page", 1),
		c.QueryInt("limit", 20),
		c.Query("action"),
	)
	if err != nil {
		return fail(c, err)
	}
	return paged(c, logs, pagination)
}
