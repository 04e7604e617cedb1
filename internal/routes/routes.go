package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/trailtalk/forum-backend/internal/config"
	"github.com/trailtalk/forum-backend/internal/handlers"
	"github.com/trailtalk/forum-backend/internal/middleware"
	"github.com/trailtalk/forum-backend/internal/services"
)

type Handlers struct {
	Auth       *handlers.AuthHandler
	Health     *handlers.HealthHandler
	Moderation *handlers.ModerationHandler
	User       *handlers.UserHandler
	Staff      *handlers.StaffHandler
}

func Setup(app *fiber.App, cfg *config.Config, users *services.UserService, h Handlers) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", h.Health.Check)

	// Auth-specific rate limit: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", h.Auth.Login)
	auth.Post("/refresh", h.Auth.Refresh)
	auth.Post("/logout", middleware.JWTProtected(cfg), h.Auth.Logout)

	// Protected routes: middleware is attached per route so public routes
	// under /api never see the JWT check.
	jwt := middleware.JWTProtected(cfg)
	notBlocked := middleware.NotBlocked(users)
	staff := middleware.RequireStaff(users)
	admin := middleware.RequireAdmin(users)

	api.Get("/reports", jwt, notBlocked, staff, h.Moderation.ListReports)
	api.Post("/reports", jwt, notBlocked, h.Moderation.CreateReport)
	api.Post("/reports/group", jwt, notBlocked, staff, h.Moderation.ModerateGroup)
	api.Post("/reports/:id/moderate", jwt, notBlocked, h.Moderation.Moderate)
	api.Get("/users/me/response-reports", jwt, notBlocked, h.Moderation.MyResponseReports)

	api.Post("/users/:id/block", jwt, notBlocked, admin, h.User.Block)
	api.Post("/users/:id/unblock", jwt, notBlocked, admin, h.User.Unblock)

	api.Get("/staff", jwt, notBlocked, admin, h.Staff.List)
	api.Post("/staff", jwt, notBlocked, admin, h.Staff.Appoint)
	api.Delete("/staff/:userId", jwt, notBlocked, admin, h.Staff.Dismiss)
}
