package handler

import (
	"github.com/gofiber/fiber/v2"

	"docsign-client/internal/domain/entity"
	"docsign-client/internal/usecase"
)

type NoticeHandler struct {
	notifier *usecase.Notifier
}

func NewNoticeHandler(notifier *usecase.Notifier) *NoticeHandler {
	return &NoticeHandler{notifier: notifier}
}

// GetNotices returns the notices that have not expired yet
func (h *NoticeHandler) GetNotices(c *fiber.Ctx) error {
	return c.JSON(entity.NewSuccessResponse(h.notifier.Active(), "Notices retrieved successfully"))
}

func (h *NoticeHandler) Dismiss(c *fiber.Ctx) error {
	if !h.notifier.Dismiss(c.Params("id")) {
		return c.Status(fiber.StatusNotFound).JSON(
			entity.NewErrorResponse("NOT_FOUND", "Notice not found"),
		)
	}
	return c.JSON(entity.NewSuccessResponse(nil, "Notice dismissed"))
}
