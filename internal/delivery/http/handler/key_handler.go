package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"docsign-client/internal/domain/entity"
	"docsign-client/internal/usecase"
)

type KeyHandler struct {
	keys   usecase.KeyUsecase
	logger *zap.Logger
}

func NewKeyHandler(keys usecase.KeyUsecase, logger *zap.Logger) *KeyHandler {
	return &KeyHandler{
		keys:   keys,
		logger: logger,
	}
}

// PublicCertificate returns the user's certificate as plain text
func (h *KeyHandler) PublicCertificate(c *fiber.Ctx) error {
	material, err := h.keys.PublicCertificate(c.UserContext())
	if err != nil {
		return errorResponse(c, h.logger, "Failed to get public certificate", err)
	}

	if c.Accepts(fiber.MIMEApplicationJSON, fiber.MIMETextPlain) == fiber.MIMETextPlain {
		return c.Type("txt").SendString(string(material))
	}
	return c.JSON(entity.NewSuccessResponse(string(material), "Certificate retrieved successfully"))
}
