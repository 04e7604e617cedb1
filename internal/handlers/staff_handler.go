package handlers

import (
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/trailtalk/forum-backend/internal/dto"
	"github.com/trailtalk/forum-backend/internal/services"
	"github.com/trailtalk/forum-backend/internal/session"
)

// StaffHandler lets admins appoint and dismiss moderators.
type StaffHandler struct {
	userService *services.UserService
}

func NewStaffHandler(userService *services.UserService) *StaffHandler {
	return &StaffHandler{userService: userService}
}

func (h *StaffHandler) List(c *fiber.Ctx) error {
	staff, err := h.userService.ListStaff()
	if err != nil {
		return writeError(c, err)
	}

	out := make([]dto.UserResponse, 0, len(staff))
	for _, u := range staff {
		out = append(out, dto.UserResponse{ID: u.ID, Username: u.Username, Email: u.Email, Role: string(u.Role)})
	}
	return c.JSON(fiber.Map{"staff": out})
}

func (h *StaffHandler) Appoint(c *fiber.Ctx) error {
	var req dto.AssignStaffRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	user, err := h.userService.Promote(&req)
	if err != nil {
		return writeError(c, err)
	}
	adminID, _ := session.GetUserID(c)
	slog.Info("moderator appointed", "user_id", user.ID, "admin_id", adminID)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Moderator added successfully"})
}

func (h *StaffHandler) Dismiss(c *fiber.Ctx) error {
	userID, err := strconv.ParseUint(c.Params("userId"), 10, 64)
	if err != nil || userID == 0 {
		return writeError(c, services.ErrUserNotFound)
	}

	user, err := h.userService.Demote(uint(userID))
	if err != nil {
		return writeError(c, err)
	}
	adminID, _ := session.GetUserID(c)
	slog.Info("moderator dismissed", "user_id", user.ID, "admin_id", adminID)

	return c.JSON(fiber.Map{"message": "Moderator removed successfully"})
}
