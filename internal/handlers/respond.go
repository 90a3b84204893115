package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/minhle-dev/rentroom-backend/internal/apperr"
	"github.com/minhle-dev/rentroom-backend/internal/dto"
)

func ok(c *fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{"success": true, "data": data})
}

func okMessage(c *fiber.Ctx, data any, message string) error {
	return c.JSON(fiber.Map{"success": true, "data": data, "message": message})
}

func created(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": data})
}

func paged(c *fiber.Ctx, data any, p *dto.Pagination) error {
	return c.JSON(fiber.Map{"success": true, "data": data, "pagination": p})
}

// fail maps the service error taxonomy to HTTP. Unclassified errors are
// logged and surface as a plain 500 without leaking internals.
func fail(c *fiber.Ctx, err error) error {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		status := fiber.StatusInternalServerError
		switch ae.Code {
		case apperr.CodeNotFound:
			status = fiber.StatusNotFound
		case apperr.CodeInvalid:
			status = fiber.StatusBadRequest
		case apperr.CodeForbidden:
			status = fiber.StatusForbidden
		case apperr.CodeConflict:
			status = fiber.StatusConflict
		}
		return c.Status(status).JSON(dto.ErrorResponse{
			Error: true, Code: string(ae.Code), Message: ae.Message,
		})
	}

	slog.Error("request failed",
		"method", c.Method(),
		"path", c.Path(),
		"error", err.Error(),
	)
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: true, Message: "Internal server error",
	})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error: true, Message: "Invalid request body",
	})
}
