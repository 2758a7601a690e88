package routes

import (
	"time"

	"github.com/buscapatitas/backend/internal/config"
	"github.com/buscapatitas/backend/internal/handlers"
	"github.com/buscapatitas/backend/internal/middleware"
	"github.com/buscapatitas/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	bans services.BanCache,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	publicationHandler *handlers.PublicationHandler,
	moderationHandler *handlers.ModerationHandler,
	adminHandler *handlers.AdminHandler,
	metricsHandler *handlers.MetricsHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	// Health
	api.Get("/health", healthHandler.Check)

	// Auth — public, with a stricter rate limit
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)

	// Every authenticated route passes the ban-gate so a ban lands on the
	// session's very next request, not just at the next login.
	jwtGuard := middleware.JWTProtected(cfg)
	banGate := middleware.BanGate(db, bans)

	api.Post("/auth/logout", jwtGuard, banGate, authHandler.Logout)
	api.Get("/auth/me", jwtGuard, banGate, authHandler.Me)

	// Directory — public; an optional token lets owners see their own
	// inactive listings and contact details.
	api.Get("/publications", publicationHandler.List)
	api.Get("/publications/my/list", jwtGuard, banGate, publicationHandler.ListMine)
	api.Get("/publications/:id", middleware.OptionalJWT(cfg), publicationHandler.Get)
	api.Post("/publications", jwtGuard, banGate, publicationHandler.Create)
	api.Post("/publications/:id/images", jwtGuard, banGate, publicationHandler.AttachImages)
	api.Put("/publications/:id/status", jwtGuard, banGate, publicationHandler.SetStatus)

	// Reports — user endpoint
	api.Post("/reports", jwtGuard, banGate, moderationHandler.CreateReport)

	// Admin moderation panel
	admin := api.Group("/admin", jwtGuard, banGate, middleware.AdminRequired(db, cfg))
	admin.Get("/moderation/reports", adminHandler.ListReports)
	admin.Put("/moderation/reports/:id", adminHandler.ActionReport)
	admin.Get("/publications", adminHandler.ListPublications)
	admin.Get("/publications/:id/details", adminHandler.PublicationDetails)
	admin.Put("/publications/:id/status", adminHandler.ForceStatus)
	admin.Delete("/publications/:id", adminHandler.DeletePublication)
	admin.Get("/users", adminHandler.ListUsers)
	admin.Get("/users/:id/stats", adminHandler.UserStats)
	admin.Post("/users/:id/ban", adminHandler.BanUser)
	admin.Delete("/users/:id/ban", adminHandler.UnbanUser)
	admin.Get("/metrics", metricsHandler.Snapshot)
}
