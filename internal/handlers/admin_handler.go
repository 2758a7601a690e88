package handlers

import (
	"strconv"
	"strings"

	"github.com/buscapatitas/backend/internal/dto"
	"github.com/buscapatitas/backend/internal/middleware"
	"github.com/buscapatitas/backend/internal/services"
	"github.com/buscapatitas/backend/internal/status"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// AdminHandler is the moderation panel surface. Every route it serves is
// behind JWTProtected + AdminRequired.
type AdminHandler struct {
	moderation *services.ModerationService
}

func NewAdminHandler(moderation *services.ModerationService) *AdminHandler {
	return &AdminHandler{moderation: moderation}
}

func (h *AdminHandler) ListReports(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "0"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))

	reports, total, err := h.moderation.ListReports(c.Query("status"), page, limit)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"reports": reports,
		"total":   total,
		"page":    page,
		"limit":   limit,
	})
}

func (h *AdminHandler) ActionReport(c *fiber.Ctx) error {
	reportID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid report ID",
		})
	}

	var req dto.ActionReportRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	if err := h.moderation.UpdateReportStatus(reportID, status.Report(req.Status)); err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Report updated successfully"})
}

func (h *AdminHandler) ForceStatus(c *fiber.Ctx) error {
	pubID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid publication ID",
		})
	}

	var req dto.ForceStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	if err := h.moderation.ForceStatus(pubID, middleware.OptionalUserID(c), status.Publication(req.Status)); err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Status updated successfully"})
}

func (h *AdminHandler) DeletePublication(c *fiber.Ctx) error {
	pubID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid publication ID",
		})
	}

	if err := h.moderation.DeletePublication(pubID, middleware.OptionalUserID(c)); err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Publication deleted"})
}

func (h *AdminHandler) ListPublications(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "0"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))

	rows, total, err := h.moderation.ListPublications(page, limit, c.Query("status"), c.Query("search"))
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"publications": rows,
		"total":        total,
		"page":         page,
		"limit":        limit,
	})
}

func (h *AdminHandler) PublicationDetails(c *fiber.Ctx) error {
	pubID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid publication ID",
		})
	}

	details, err := h.moderation.GetPublicationDetails(pubID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(details)
}

func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "0"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))

	var banned *bool
	if v := c.Query("banned"); v != "" {
		b := strings.EqualFold(v, "true")
		banned = &b
	}

	users, total, err := h.moderation.ListUsers(page, limit, banned, c.Query("search"))
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"users": users,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

func (h *AdminHandler) UserStats(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid user ID",
		})
	}

	stats, err := h.moderation.GetUserStats(userID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(stats)
}

func (h *AdminHandler) BanUser(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid user ID",
		})
	}

	var req dto.BanUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	if err := h.moderation.BanUser(c.Context(), userID, middleware.OptionalUserID(c), req.Reason); err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "User banned"})
}

func (h *AdminHandler) UnbanUser(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid user ID",
		})
	}

	if err := h.moderation.UnbanUser(c.Context(), userID, middleware.OptionalUserID(c)); err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "User unbanned"})
}
