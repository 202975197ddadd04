package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"docsign-client/internal/domain/entity"
	"docsign-client/internal/usecase"
	"docsign-client/internal/version"
)

type HealthHandler struct {
	auth usecase.AuthUsecase
}

func NewHealthHandler(auth usecase.AuthUsecase) *HealthHandler {
	return &HealthHandler{auth: auth}
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	SignedIn  bool      `json:"signed_in"`
}

// Health godoc
// @Summary Health check
// @Description Check if the client backend is running
// @Tags health
// @Produce json
// @Success 200 {object} entity.APIResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return c.JSON(entity.NewSuccessResponse(HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   version.Version,
		SignedIn:  h.auth.Current().Valid(),
	}, "Service is healthy"))
}
