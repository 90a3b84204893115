package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/minhle-dev/rentroom-backend/internal/dto"
	"github.com/minhle-dev/rentroom-backend/internal/middleware"
	"github.com/minhle-dev/rentroom-backend/internal/services"
)

type ReviewHandler struct {
	reviewService *services.ReviewService
	mediaService  *services.MediaService
}

func NewReviewHandler(reviewService *services.ReviewService, mediaService *services.MediaService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService, mediaService: mediaService}
}

func reviewFilterFromQuery(c *fiber.Ctx) dto.ReviewFilter {
	return dto.ReviewFilter{
		Page:      c.QueryInt("page", 1),
		Limit:     c.QueryInt("limit", 10),
		Status:    c.Query("status"),
		Type:      c.Query("type"),
		MinRating: c.QueryInt("min_rating", 0),
		Sort:      c.Query("sort"),
	}
}

// ListByListing returns the approved reviews of a listing together with the
// featured review and aggregate stats.
func (h *ReviewHandler) ListByListing(c *fiber.Ctx) error {
	listingID, err := paramID(c)
	if err != nil {
		return badBody(c)
	}

	reviews, featured, stats, pagination, err := h.reviewService.ListByListing(listingID, reviewFilterFromQuery(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"reviews":  reviews,
			"featured": featured,
			"stats":    stats,
		},
		"pagination": pagination,
	})
}

func (h *ReviewHandler) Feed(c *fiber.Ctx) error {
	reviews, pagination, err := h.reviewService.Feed(reviewFilterFromQuery(c))
	if err != nil {
		return fail(c, err)
	}
	return paged(c, reviews, pagination)
}

func (h *ReviewHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return badBody(c)
	}

	review, err := h.reviewService.GetByID(id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, review)
}

func (h *ReviewHandler) Create(c *fiber.Ctx) error {
	listingID, err := paramID(c)
	if err != nil {
		return badBody(c)
	}

	var req dto.CreateReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	review, err := h.reviewService.Create(listingID, middleware.GetCurrentUser(c), &req)
	if err != nil {
		return fail(c, err)
	}
	return created(c, review)
}

func (h *ReviewHandler) Update(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}
	id, err := paramID(c)
	if err != nil {
		return badBody(c)
	}

	var req dto.UpdateReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	review, err := h.reviewService.Update(id, userID, &req)
	if err != nil {
		return fail(c, err)
	}
	return okMessage(c, review, "Review updated and returned to the moderation queue")
}

func (h *ReviewHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return badBody(c)
	}

	if err := h.reviewService.Delete(id, middleware.GetCurrentUser(c)); err != nil {
		return fail(c, err)
	}
	return okMessage(c, nil, "Review deleted")
}

func (h *ReviewHandler) ToggleMediaLike(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}
	mediaID, err := paramID(c)
	if err != nil {
		return badBody(c)
	}

	liked, count, err := h.mediaService.ToggleLike(mediaID, userID)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.Map{"liked": liked, "like_count": count})
}
