package handlers

import (
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/trailtalk/forum-backend/internal/services"
	"github.com/trailtalk/forum-backend/internal/session"
)

// UserHandler exposes the admin block controls.
type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) Block(c *fiber.Ctx) error {
	targetID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || targetID == 0 {
		return writeError(c, services.ErrUserNotFound)
	}

	until, err := h.userService.BlockFor(uint(targetID))
	if err != nil {
		return writeError(c, err)
	}
	adminID, _ := session.GetUserID(c)
	slog.Warn("user blocked by admin", "user_id", targetID, "admin_id", adminID, "blocked_until", until)

	return c.JSON(fiber.Map{
		"message":       "User blocked successfully",
		"blocked_until": until,
	})
}

func (h *UserHandler) Unblock(c *fiber.Ctx) error {
	targetID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || targetID == 0 {
		return writeError(c, services.ErrUserNotFound)
	}

	if err := h.userService.Unblock(uint(targetID)); err != nil {
		return writeError(c, err)
	}
	adminID, _ := session.GetUserID(c)
	slog.Info("user unblocked by admin", "user_id", targetID, "admin_id", adminID)

	return c.JSON(fiber.Map{"message": "User unblocked successfully"})
}
