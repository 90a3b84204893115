package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/minhle-dev/rentroom-backend/internal/middleware"
	"github.com/minhle-dev/rentroom-backend/internal/services"
)

type AdminReviewHandler struct {
	reviewService *services.ReviewService
}

func NewAdminReviewHandler(reviewService *services.ReviewService) *AdminReviewHandler {
	return &AdminReviewHandler{reviewService: reviewService}
}

func (h *AdminReviewHandler) List(c *fiber.Ctx) error {
	filter := reviewFilterFromQuery(c)
	filter.ListingID = queryUint(c, "listing_id")

	reviews, stats, pagination, err := h.reviewService.AdminList(filter)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success":    true,
		"data":       reviews,
		"stats":      stats,
		"pagination": pagination,
	})
}

func (h *AdminReviewHandler) PendingQueue(c *fiber.Ctx) error {
	reviews, pagination, err := h.reviewService.PendingQueue(c.QueryInt("page", 1), c.QueryInt("limit", 10))
	if err != nil {
		return fail(c, err)
	}
	return paged(c, reviews, pagination)
}

func (h *AdminReviewHandler) Approve(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return badBody(c)
	}

	review, err := h.reviewService.Approve(id, middleware.GetCurrentUser(c), c.IP())
	if err != nil {
		return fail(c, err)
	}
	return okMessage(c, review, "Review approved")
}

func (h *AdminReviewHandler) Reject(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return badBody(c)
	}

	review, err := h.reviewService.Reject(id, middleware.GetCurrentUser(c), c.IP())
	if err != nil {
		return fail(c, err)
	}
	return okMessage(c, review, "Review rejected")
}

func (h *AdminReviewHandler) ToggleFeatured(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return badBody(c)
	}

	review, err := h.reviewService.ToggleFeatured(id, middleware.GetCurrentUser(c), c.IP())
	if err != nil {
		return fail(c, err)
	}
	return okMessage(c, review, "Review featured flag updated")
}

func (h *AdminReviewHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return badBody(c)
	}

	if err := h.reviewService.Delete(id, middleware.GetCurrentUser(c)); err != nil {
		return fail(c, err)
	}
	return okMessage(c, nil, "Review deleted")
}
