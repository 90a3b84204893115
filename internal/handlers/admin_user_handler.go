package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/minhle-dev/rentroom-backend/internal/dto"
	"github.com/minhle-dev/rentroom-backend/internal/middleware"
	"github.com/minhle-dev/rentroom-backend/internal/services"
)

type AdminUserHandler struct {
	adminUserService *services.AdminUserService
}

func NewAdminUserHandler(adminUserService *services.AdminUserService) *AdminUserHandler {
	return &AdminUserHandler{adminUserService: adminUserService}
}

func (h *AdminUserHandler) List(c *fiber.Ctx) error {
	filter := dto.UserFilter{
		Page:   c.QueryInt("page", 1),
		Limit:  c.QueryInt("limit", 10),
		Search: c.Query("search"),
		Role:   c.Query("role"),
	}
	if v := c.Query("is_locked"); v != "" {
		locked := v == "true"
		filter.IsLocked = &locked
	}

	users, pagination, err := h.adminUserService.List(filter)
	if err != nil {
		return fail(c, err)
	}
	return paged(c, users, pagination)
}

func (h *AdminUserHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return badBody(c)
	}

	user, err := h.adminUserService.GetByID(id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, user)
}

func (h *AdminUserHandler) UpdateRole(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return badBody(c)
	}

	var req dto.UpdateUserRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	user, err := h.adminUserService.UpdateUserRole(id, middleware.GetCurrentUser(c), &req, c.IP())
	if err != nil {
		return fail(c, err)
	}
	return okMessage(c, user, "Role updated")
}

func (h *AdminUserHandler) ToggleLock(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return badBody(c)
	}

	var req dto.ToggleUserLockRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	user, err := h.adminUserService.ToggleUserLock(id, middleware.GetCurrentUser(c), &req, c.IP())
	if err != nil {
		return fail(c, err)
	}
	return okMessage(c, user, "Lock state updated")
}

func (h *AdminUserHandler) ResetPassword(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return badBody(c)
	}

	var req dto.ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	if err := h.adminUserService.ResetUserPassword(id, middleware.GetCurrentUser(c), &req, c.IP()); err != nil {
		return fail(c, err)
	}
	return okMessage(c, nil, "Password reset")
}
