package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/trailtalk/forum-backend/internal/dto"
	"github.com/trailtalk/forum-backend/internal/services"
)

// writeError maps service errors onto HTTP statuses. Anything unrecognised
// is logged and reported as a 500 without leaking details.
func writeError(c *fiber.Ctx, err error) error {
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
			Error: true, Message: "The given data was invalid", Errors: verr.Fields,
		})
	}

	var blocked *services.BlockedError
	if errors.As(err, &blocked) {
		return c.Status(fiber.StatusForbidden).JSON(dto.BlockedResponse{
			Error: true, Message: "Your account is temporarily blocked", BlockedUntil: blocked.Until,
		})
	}

	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrUnauthenticated),
		errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrInvalidToken):
		status = fiber.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden),
		errors.Is(err, services.ErrAccountBanned):
		status = fiber.StatusForbidden
	case errors.Is(err, services.ErrReportNotFound),
		errors.Is(err, services.ErrTargetNotFound),
		errors.Is(err, services.ErrUserNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, services.ErrDuplicateReport),
		errors.Is(err, services.ErrUnsupportedTargetType),
		errors.Is(err, services.ErrAlreadyModerator),
		errors.Is(err, services.ErrNotModerator):
		status = fiber.StatusBadRequest
	case errors.Is(err, services.ErrReportClosed),
		errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrUsernameTaken):
		status = fiber.StatusConflict
	}

	if status == fiber.StatusInternalServerError {
		slog.Error("request failed",
			"method", c.Method(),
			"path", c.Path(),
			"request_id", c.Locals("requestid"),
			"error", err,
		)
		return c.Status(status).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}
	return c.Status(status).JSON(dto.ErrorResponse{
		Error: true, Message: err.Error(),
	})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error: true, Message: "Invalid request body",
	})
}
