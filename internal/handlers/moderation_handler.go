package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/trailtalk/forum-backend/internal/dto"
	"github.com/trailtalk/forum-backend/internal/services"
	"github.com/trailtalk/forum-backend/internal/session"
)

type ModerationHandler struct {
	moderationService *services.ModerationService
}

func NewModerationHandler(moderationService *services.ModerationService) *ModerationHandler {
	return &ModerationHandler{moderationService: moderationService}
}

// ListReports serves the review queue. With group=true every pending report
// of the type is returned grouped by target; otherwise a flat page of ten.
func (h *ModerationHandler) ListReports(c *fiber.Ctx) error {
	userID, err := session.GetUserID(c)
	if err != nil {
		return writeError(c, services.ErrUnauthenticated)
	}
	reportType := c.Query("type")

	if c.QueryBool("group", false) {
		groups, err := h.moderationService.ListGroups(userID, reportType)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(fiber.Map{"groups": groups})
	}

	reports, pagination, err := h.moderationService.ListPending(userID, reportType, c.QueryInt("page", 1))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"reports":    reports,
		"pagination": pagination,
	})
}

func (h *ModerationHandler) CreateReport(c *fiber.Ctx) error {
	userID, err := session.GetUserID(c)
	if err != nil {
		return writeError(c, services.ErrUnauthenticated)
	}

	var req dto.CreateReportRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	report, err := h.moderationService.SubmitReport(userID, &req)
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Report submitted successfully",
		"report":  report,
	})
}

func (h *ModerationHandler) Moderate(c *fiber.Ctx) error {
	userID, err := session.GetUserID(c)
	if err != nil {
		return writeError(c, services.ErrUnauthenticated)
	}

	reportID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || reportID == 0 {
		return writeError(c, services.ErrReportNotFound)
	}

	var req dto.ModerateReportRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	report, err := h.moderationService.Moderate(uint(reportID), userID, &req)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Report " + string(report.Status),
		"report":  report,
	})
}

func (h *ModerationHandler) ModerateGroup(c *fiber.Ctx) error {
	userID, err := session.GetUserID(c)
	if err != nil {
		return writeError(c, services.ErrUnauthenticated)
	}

	var req dto.ModerateGroupRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	updated, err := h.moderationService.ModerateGroup(userID, &req)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Reports updated successfully",
		"updated": updated,
	})
}

// MyResponseReports lists pending reports on replies in the caller's discussions.
func (h *ModerationHandler) MyResponseReports(c *fiber.Ctx) error {
	userID, err := session.GetUserID(c)
	if err != nil {
		return writeError(c, services.ErrUnauthenticated)
	}

	reports, pagination, err := h.moderationService.MyResponseReports(userID, c.QueryInt("page", 1))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"data":       reports,
		"pagination": pagination,
	})
}
