package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/trailtalk/forum-backend/internal/config"
)

// CORS allows the forum frontends to call the API. The request id is
// exposed so clients can quote it in bug reports.
func CORS(cfg *config.Config) fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins:  cfg.CORSOrigins,
		AllowHeaders:  "Origin, Content-Type, Authorization, Accept, X-Request-ID",
		AllowMethods:  "GET, POST, DELETE, OPTIONS",
		ExposeHeaders: "X-Request-ID",
		MaxAge:        600,
	})
}
