package middleware

import (
	"errors"

	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/trailtalk/forum-backend/internal/config"
	"github.com/trailtalk/forum-backend/internal/dto"
)

// JWTProtected accepts HS256 bearer tokens signed with the configured secret
// and stores the parsed token in locals under "user".
func JWTProtected(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{
			JWTAlg: jwtware.HS256,
			Key:    []byte(cfg.JWTSecret),
		},
		ContextKey:  "user",
		TokenLookup: "header:" + fiber.HeaderAuthorization,
		AuthScheme:  "Bearer",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			message := "Unauthorized: invalid or expired token"
			if errors.Is(err, jwtware.ErrJWTMissingOrMalformed) {
				message = "Unauthorized: missing bearer token"
			}
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error:   true,
				Message: message,
			})
		},
	})
}
