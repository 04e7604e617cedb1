package middleware

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/trailtalk/forum-backend/internal/dto"
	"github.com/trailtalk/forum-backend/internal/models"
	"github.com/trailtalk/forum-backend/internal/services"
	"github.com/trailtalk/forum-backend/internal/session"
)

// NotBlocked loads the caller and rejects banned accounts and accounts under
// an active block. A lapsed block is cleared on the way through. Must run
// after JWTProtected.
func NotBlocked(users *services.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := session.GetUserID(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		user, err := users.CheckAccess(userID)
		if err != nil {
			var blocked *services.BlockedError
			switch {
			case errors.As(err, &blocked):
				return c.Status(fiber.StatusForbidden).JSON(dto.BlockedResponse{
					Error:        true,
					Message:      "Your account is temporarily blocked",
					BlockedUntil: blocked.Until,
				})
			case errors.Is(err, services.ErrAccountBanned):
				return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
					Error: true, Message: "Your account has been banned",
				})
			case errors.Is(err, services.ErrUserNotFound):
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
					Error: true, Message: "Unauthorized",
				})
			}
			slog.Error("access check failed", "user_id", userID, "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: true, Message: "Internal server error",
			})
		}

		session.SetUser(c, user)
		return c.Next()
	}
}

// RequireStaff admits moderators and admins. Must run after JWTProtected;
// it reuses the account loaded by NotBlocked when present.
func RequireStaff(users *services.UserService) fiber.Handler {
	return requireRole(users, models.Role.IsStaff)
}

func RequireAdmin(users *services.UserService) fiber.Handler {
	return requireRole(users, models.Role.IsAdmin)
}

func requireRole(users *services.UserService, allowed func(models.Role) bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := session.GetUser(c)
		if user == nil {
			userID, err := session.GetUserID(c)
			if err != nil {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
					Error: true, Message: "Unauthorized",
				})
			}
			user, err = users.Find(userID)
			if err != nil {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
					Error: true, Message: "Unauthorized",
				})
			}
			session.SetUser(c, user)
		}

		if !allowed(user.Role) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Insufficient permissions",
			})
		}
		return c.Next()
	}
}
