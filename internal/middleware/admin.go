package middleware

import (
	"github.com/buscapatitas/backend/internal/config"
	"github.com/buscapatitas/backend/internal/dto"
	"github.com/buscapatitas/backend/internal/models"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AdminRequired authorizes moderation endpoints. It checks:
// 1. the X-Admin-Token header against config (operational break-glass)
// 2. the admin_users side table for the authenticated user
func AdminRequired(db *gorm.DB, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if cfg.AdminToken != "" && c.Get("X-Admin-Token") == cfg.AdminToken {
			return c.Next()
		}

		userID, err := UserID(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		var admin models.AdminUser
		if err := db.First(&admin, "id = ?", userID).Error; err != nil {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Admin access required",
			})
		}

		c.Locals("admin_role", admin.Role)
		return c.Next()
	}
}
