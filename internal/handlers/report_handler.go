package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/minhle-dev/rentroom-backend/internal/dto"
	"github.com/minhle-dev/rentroom-backend/internal/middleware"
	"github.com/minhle-dev/rentroom-backend/internal/services"
)

type ReportHandler struct {
	reportService *services.ReportService
}

func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Create accepts reports from authenticated and anonymous callers alike.
func (h *ReportHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateReportRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	report, err := h.reportService.Create(middleware.OptionalUserID(c), &req)
	if err != nil {
		return fail(c, err)
	}
	return created(c, report)
}

func (h *ReportHandler) List(c *fiber.Ctx) error {
	filter := dto.ReportFilter{
		Page:       c.QueryInt("page", 1),
		Limit:      c.QueryInt("limit", 10),
		Status:     c.Query("status"),
		Severity:   c.Query("severity"),
		TargetType: c.Query("target_type"),
		Sort:       c.Query("sort"),
		Order:      c.Query("order"),
	}

	reports, pagination, err := h.reportService.List(filter)
	if err != nil {
		return fail(c, err)
	}
	return paged(c, reports, pagination)
}

func (h *ReportHandler) PendingQueue(c *fiber.Ctx) error {
	reports, pagination, err := h.reportService.PendingQueue(c.QueryInt("page", 1), c.QueryInt("limit", 10))
	if err != nil {
		return fail(c, err)
	}
	return paged(c, reports, pagination)
}

func (h *ReportHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return badBody(c)
	}

	report, target, err := h.reportService.GetByID(id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.Map{"report": report, "target": target})
}

func (h *ReportHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return badBody(c)
	}

	var req dto.UpdateReportRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	report, err := h.reportService.UpdateStatus(id, middleware.GetCurrentUser(c), &req, c.IP())
	if err != nil {
		return fail(c, err)
	}
	return ok(c, report)
}

func (h *ReportHandler) Handle(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return badBody(c)
	}

	var req dto.HandleReportRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	report, actionResult, err := h.reportService.Handle(id, middleware.GetCurrentUser(c), &req, c.IP())
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.Map{"report": report, "action_result": actionResult})
}
