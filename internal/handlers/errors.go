package handlers

import (
	"errors"
	"log/slog"

	"github.com/buscapatitas/backend/internal/dto"
	"github.com/buscapatitas/backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

// serviceError maps the service error taxonomy onto HTTP responses. Each
// case stays distinguishable to the client; unknown errors are logged and
// collapsed to 500 without leaking detail.
func serviceError(c *fiber.Ctx, err error) error {
	var ve *services.ValidationError
	if errors.As(err, &ve) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: ve.Message, Field: ve.Field,
		})
	}

	switch {
	case errors.Is(err, services.ErrUnauthorized):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "You are not allowed to perform this action",
		})
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Not found",
		})
	case errors.Is(err, services.ErrInvalidTransition):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Error: true, Message: "Status transition not allowed",
		})
	}

	slog.Error("request failed", "method", c.Method(), "path", c.Path(), "error", err.Error())
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: true, Message: "Internal server error",
	})
}
