package middleware

import (
	"log/slog"

	"github.com/buscapatitas/backend/internal/dto"
	"github.com/buscapatitas/backend/internal/models"
	"github.com/buscapatitas/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// BanGate runs after JWT validation on every authenticated route. A ban
// must be effective within one validation cycle, so the gate rejects any
// request carrying a still-valid access token issued before the ban. The
// cache marker answers most checks; the profiles table is the fallback
// and the source of truth.
func BanGate(db *gorm.DB, bans services.BanCache) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := UserID(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		reason, banned, err := bans.BanReason(c.Context(), userID)
		if err != nil {
			slog.Error("ban marker lookup failed", "user_id", userID, "error", err)
		}

		if !banned {
			var profile models.Profile
			if err := db.Select("banned", "ban_reason").First(&profile, "id = ?", userID).Error; err == nil && profile.Banned {
				banned = true
				if profile.BanReason != nil {
					reason = *profile.BanReason
				}
				if err := bans.MarkBanned(c.Context(), userID, reason); err != nil {
					slog.Error("failed to backfill ban marker", "user_id", userID, "error", err)
				}
			}
		}

		if banned {
			return c.Status(fiber.StatusForbidden).JSON(dto.BannedResponse{
				Error:     true,
				Message:   "account is banned",
				BanReason: reason,
			})
		}
		return c.Next()
	}
}
