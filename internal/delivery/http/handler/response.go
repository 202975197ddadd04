package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"docsign-client/internal/domain/entity"
)

var errorCodes = map[entity.NoticeKind]string{
	entity.NoticeValidation: "VALIDATION_ERROR",
	entity.NoticeAuth:       "UNAUTHORIZED",
	entity.NoticeConflict:   "CONFLICT",
	entity.NoticeRender:     "RENDER_ERROR",
	entity.NoticeTransport:  "SERVICE_UNAVAILABLE",
	entity.NoticeServer:     "SERVICE_ERROR",
}

// errorResponse writes err as an error envelope with the matching status
func errorResponse(c *fiber.Ctx, logger *zap.Logger, action string, err error) error {
	kind, message := entity.Classify(err)
	status := entity.HTTPStatus(err)

	code, ok := errorCodes[kind]
	if !ok {
		code = "INTERNAL_ERROR"
	}

	if status >= fiber.StatusInternalServerError {
		logger.Error(action, zap.String("kind", string(kind)), zap.Error(err))
	} else {
		logger.Warn(action, zap.String("kind", string(kind)), zap.Error(err))
	}

	return c.Status(status).JSON(entity.NewErrorResponse(code, message))
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(
		entity.NewErrorResponse("BAD_REQUEST", message),
	)
}
