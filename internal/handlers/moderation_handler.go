package handlers

import (
	"github.com/buscapatitas/backend/internal/dto"
	"github.com/buscapatitas/backend/internal/middleware"
	"github.com/buscapatitas/backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

// ModerationHandler carries the user-facing half of moderation: filing
// reports. The admin half lives in AdminHandler.
type ModerationHandler struct {
	moderation *services.ModerationService
}

func NewModerationHandler(moderation *services.ModerationService) *ModerationHandler {
	return &ModerationHandler{moderation: moderation}
}

func (h *ModerationHandler) CreateReport(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.CreateReportRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	report, err := h.moderation.FileReport(userID, &req)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(report)
}
