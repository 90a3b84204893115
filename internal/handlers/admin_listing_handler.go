package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/minhle-dev/rentroom-backend/internal/dto"
	"github.com/minhle-dev/rentroom-backend/internal/middleware"
	"github.com/minhle-dev/rentroom-backend/internal/services"
)

type AdminListingHandler struct {
	adminListingService *services.AdminListingService
}

func NewAdminListingHandler(adminListingService *services.AdminListingService) *AdminListingHandler {
	return &AdminListingHandler{adminListingService: adminListingService}
}

func (h *AdminListingHandler) List(c *fiber.Ctx) error {
	filter := listingFilterFromQuery(c)
	filter.Status = c.Query("status")
	filter.Approval = c.Query("approval_status")
	filter.UserID = queryUint(c, "user_id")

	listings, pagination, err := h.adminListingService.List(filter)
	if err != nil {
		return fail(c, err)
	}
	return paged(c, listings, pagination)
}

func (h *AdminListingHandler) PendingQueue(c *fiber.Ctx) error {
	listings, pagination, err := h.adminListingService.PendingQueue(c.QueryInt("page", 1), c.QueryInt("limit", 10))
	if err != nil {
		return fail(c, err)
	}
	return paged(c, listings, pagination)
}

func (h *AdminListingHandler) Approve(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return badBody(c)
	}

	var req dto.ApproveListingRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return badBody(c)
	}

	listing, err := h.adminListingService.Approve(id, middleware.GetCurrentUser(c), req.AdminNote, c.IP())
	if err != nil {
		return fail(c, err)
	}
	return okMessage(c, listing, "Listing approved")
}

func (h *AdminListingHandler) Reject(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return badBody(c)
	}

	var req dto.RejectListingRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	listing, err := h.adminListingService.Reject(id, middleware.GetCurrentUser(c), req.AdminNote, c.IP())
	if err != nil {
		return fail(c, err)
	}
	return okMessage(c, listing, "Listing rejected")
}

func (h *AdminListingHandler) ToggleVisibility(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return badBody(c)
	}

	var req dto.ToggleVisibilityRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	listing, err := h.adminListingService.ToggleVisibility(id, middleware.GetCurrentUser(c), req.Status, req.Reason, c.IP())
	if err != nil {
		return fail(c, err)
	}
	return okMessage(c, listing, "Listing visibility updated")
}

func (h *AdminListingHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return badBody(c)
	}

	var req dto.AdminUpdateListingRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	listing, err := h.adminListingService.Update(id, middleware.GetCurrentUser(c), &req, c.IP())
	if err != nil {
		return fail(c, err)
	}
	return ok(c, listing)
}

func (h *AdminListingHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return badBody(c)
	}

	var req dto.DeleteListingRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return badBody(c)
	}

	if err := h.adminListingService.Delete(id, middleware.GetCurrentUser(c), req.Reason, c.IP()); err != nil {
		return fail(c, err)
	}
	return okMessage(c, nil, "Listing deleted")
}
