package handler

import (
	"context"
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"docsign-client/internal/domain/entity"
	"docsign-client/internal/usecase"
)

type DocumentHandler struct {
	lifecycle usecase.LifecycleUsecase
	logger    *zap.Logger
}

func NewDocumentHandler(lifecycle usecase.LifecycleUsecase, logger *zap.Logger) *DocumentHandler {
	return &DocumentHandler{
		lifecycle: lifecycle,
		logger:    logger,
	}
}

// GetDocuments godoc
// @Summary List documents
// @Description Returns the current list snapshot, re-fetching it when refresh is set
// @Tags documents
// @Produce json
// @Param refresh query bool false "Re-fetch from the signing service"
// @Success 200 {object} entity.APIResponse
// @Failure 401 {object} entity.APIResponse
// @Failure 502 {object} entity.APIResponse
// @Router /api/v1/documents [get]
func (h *DocumentHandler) GetDocuments(c *fiber.Ctx) error {
	if !c.QueryBool("refresh", false) {
		return c.JSON(entity.NewSuccessResponse(h.lifecycle.Documents(), "Documents retrieved successfully"))
	}

	docs, err := h.lifecycle.Refresh(c.UserContext())
	if err != nil {
		return errorResponse(c, h.logger, "Failed to get documents", err)
	}
	return c.JSON(entity.NewSuccessResponse(docs, "Documents retrieved successfully"))
}

// Upload godoc
// @Summary Upload a document
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "PDF document"
// @Success 201 {object} entity.APIResponse
// @Failure 400 {object} entity.APIResponse
// @Router /api/v1/documents [post]
func (h *DocumentHandler) Upload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return errorResponse(c, h.logger, "Upload rejected", entity.NewValidationError("file", entity.ErrMissingFile))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return errorResponse(c, h.logger, "Failed to open upload", err)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return errorResponse(c, h.logger, "Failed to read upload", err)
	}

	docs, err := h.lifecycle.Upload(c.UserContext(), fileHeader.Filename, content)
	if err != nil {
		return errorResponse(c, h.logger, "Upload failed", err)
	}

	return c.Status(fiber.StatusCreated).JSON(
		entity.NewSuccessResponse(docs, fmt.Sprintf("%s uploaded", fileHeader.Filename)),
	)
}

// Download returns the raw document bytes as an attachment
func (h *DocumentHandler) Download(c *fiber.Ctx) error {
	content, err := h.lifecycle.Download(c.UserContext(), c.Params("id"))
	if err != nil {
		return errorResponse(c, h.logger, "Download failed", err)
	}

	mimeType := content.MimeType
	if mimeType == "" {
		mimeType = "application/pdf"
	}
	c.Set(fiber.HeaderContentType, mimeType)
	c.Attachment(content.Filename)
	return c.Send(content.Bytes)
}

// Delete godoc
// @Summary Delete a document
// @Description Irreversible; requires confirm=true
// @Tags documents
// @Produce json
// @Param id path string true "Document ID"
// @Param confirm query bool true "Confirmation"
// @Success 200 {object} entity.APIResponse
// @Failure 400 {object} entity.APIResponse
// @Failure 409 {object} entity.APIResponse
// @Router /api/v1/documents/{id} [delete]
func (h *DocumentHandler) Delete(c *fiber.Ctx) error {
	confirmed := c.QueryBool("confirm", false)

	message, err := h.lifecycle.Delete(c.UserContext(), c.Params("id"),
		usecase.ConfirmFunc(func(context.Context, string) bool { return confirmed }),
	)
	if err != nil {
		return errorResponse(c, h.logger, "Delete failed", err)
	}
	return c.JSON(entity.NewSuccessResponse(nil, message))
}
