package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/minhle-dev/rentroom-backend/internal/services"
)

type LocationHandler struct {
	locationService *services.LocationService
}

func NewLocationHandler(locationService *services.LocationService) *LocationHandler {
	return &LocationHandler{locationService: locationService}
}

func (h *LocationHandler) Provinces(c *fiber.Ctx) error {
	provinces, err := h.locationService.Provinces()
	if err != nil {
		return fail(c, err)
	}
	return ok(c, provinces)
}

func (h *LocationHandler) Children(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return badBody(c)
	}

	children, err := h.locationService.Children(id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, children)
}
