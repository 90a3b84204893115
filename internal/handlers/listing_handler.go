package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/minhle-dev/rentroom-backend/internal/dto"
	"github.com/minhle-dev/rentroom-backend/internal/middleware"
	"github.com/minhle-dev/rentroom-backend/internal/services"
)

type ListingHandler struct {
	listingService *services.ListingService
}

func NewListingHandler(listingService *services.ListingService) *ListingHandler {
	return &ListingHandler{listingService: listingService}
}

func queryFloat(c *fiber.Ctx, key string) float64 {
	v, _ := strconv.ParseFloat(c.Query(key), 64)
	return v
}

func queryUint(c *fiber.Ctx, key string) uint {
	v, _ := strconv.ParseUint(c.Query(key), 10, 64)
	return uint(v)
}

func paramID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	return uint(id), err
}

func listingFilterFromQuery(c *fiber.Ctx) dto.ListingFilter {
	return dto.ListingFilter{
		Page:       c.QueryInt("page", 1),
		Limit:      c.QueryInt("limit", 10),
		Search:     c.Query("search"),
		Type:       c.Query("type"),
		ProvinceID: queryUint(c, "province_id"),
		DistrictID: queryUint(c, "district_id"),
		WardID:     queryUint(c, "ward_id"),
		MinPrice:   queryFloat(c, "min_price"),
		MaxPrice:   queryFloat(c, "max_price"),
		MinArea:    queryFloat(c, "min_area"),
		MaxArea:    queryFloat(c, "max_area"),
		Sort:       c.Query("sort"),
		Order:      c.Query("order"),
	}
}

// List is the public browse endpoint; only active, approved listings appear.
func (h *ListingHandler) List(c *fiber.Ctx) error {
	listings, pagination, err := h.listingService.List(listingFilterFromQuery(c))
	if err != nil {
		return fail(c, err)
	}
	return paged(c, listings, pagination)
}

func (h *ListingHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return badBody(c)
	}

	listing, err := h.listingService.GetByID(id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, listing)
}

func (h *ListingHandler) Create(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.CreateListingRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	listing, err := h.listingService.Create(userID, &req)
	if err != nil {
		return fail(c, err)
	}
	return created(c, listing)
}

func (h *ListingHandler) Update(c *fiber.Ctx) error {
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

	var req dto.UpdateListingRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	listing, err := h.listingService.Update(id, userID, &req)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, listing)
}

func (h *ListingHandler) Delete(c *fiber.Ctx) error {
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

	if err := h.listingService.Delete(id, userID); err != nil {
		return fail(c, err)
	}
	return okMessage(c, nil, "Listing deleted")
}

func (h *ListingHandler) MyListings(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	listings, pagination, err := h.listingService.MyListings(userID, c.QueryInt("page", 1), c.QueryInt("limit", 10))
	if err != nil {
		return fail(c, err)
	}
	return paged(c, listings, pagination)
}
