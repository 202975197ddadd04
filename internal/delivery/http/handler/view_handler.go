package handler

import (
	"bytes"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"docsign-client/internal/domain/entity"
	"docsign-client/internal/infrastructure/render"
	"docsign-client/internal/usecase"
)

type ViewHandler struct {
	lifecycle usecase.LifecycleUsecase
	logger    *zap.Logger
}

func NewViewHandler(lifecycle usecase.LifecycleUsecase, logger *zap.Logger) *ViewHandler {
	return &ViewHandler{
		lifecycle: lifecycle,
		logger:    logger,
	}
}

type RenderRequest struct {
	Page  int     `json:"page"`
	Scale float64 `json:"scale"`
}

type AnchorRequest struct {
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	CanvasWidth  int     `json:"canvas_width"`
	CanvasHeight int     `json:"canvas_height"`
}

type CertificateRequest struct {
	Source      string `json:"source"`
	Certificate string `json:"certificate"`
}

// BitmapInfo describes a rendered page; the pixels are served by GetBitmap
type BitmapInfo struct {
	Page   int     `json:"page"`
	Scale  float64 `json:"scale"`
	Width  int     `json:"width"`
	Height int     `json:"height"`
}

func (h *ViewHandler) GetView(c *fiber.Ctx) error {
	return c.JSON(entity.NewSuccessResponse(h.lifecycle.View(), "View retrieved successfully"))
}

func (h *ViewHandler) Preview(c *fiber.Ctx) error {
	view, err := h.lifecycle.Preview(c.UserContext(), c.Params("id"))
	if err != nil {
		return errorResponse(c, h.logger, "Failed to open preview", err)
	}
	return c.JSON(entity.NewSuccessResponse(view, "Preview opened"))
}

func (h *ViewHandler) BeginSigning(c *fiber.Ctx) error {
	view, err := h.lifecycle.BeginSigning(c.UserContext(), c.Params("id"))
	if err != nil {
		return errorResponse(c, h.logger, "Failed to open signing view", err)
	}
	return c.JSON(entity.NewSuccessResponse(view, "Signing view opened"))
}

func (h *ViewHandler) BeginVerifying(c *fiber.Ctx) error {
	view, err := h.lifecycle.BeginVerifying(c.UserContext(), c.Params("id"))
	if err != nil {
		return errorResponse(c, h.logger, "Failed to open verification view", err)
	}
	return c.JSON(entity.NewSuccessResponse(view, "Verification view opened"))
}

func (h *ViewHandler) Back(c *fiber.Ctx) error {
	return c.JSON(entity.NewSuccessResponse(h.lifecycle.Back(), "Back to the document list"))
}

func (h *ViewHandler) bitmapResponse(c *fiber.Ctx, bmp *render.Bitmap, err error) error {
	if err != nil {
		return errorResponse(c, h.logger, "Render failed", err)
	}
	if bmp == nil {
		// a newer render request won
		return c.Status(fiber.StatusAccepted).JSON(entity.NewSuccessResponse(nil, "Render superseded"))
	}
	return c.JSON(entity.NewSuccessResponse(BitmapInfo{
		Page:   bmp.Page,
		Scale:  bmp.Scale,
		Width:  bmp.Width,
		Height: bmp.Height,
	}, "Page rendered"))
}

func (h *ViewHandler) Render(c *fiber.Ctx) error {
	var req RenderRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Page == 0 {
		req.Page = 1
	}

	bmp, err := h.lifecycle.RenderPage(c.UserContext(), req.Page, req.Scale)
	return h.bitmapResponse(c, bmp, err)
}

func (h *ViewHandler) ZoomIn(c *fiber.Ctx) error {
	bmp, err := h.lifecycle.ZoomIn(c.UserContext())
	return h.bitmapResponse(c, bmp, err)
}

func (h *ViewHandler) ZoomOut(c *fiber.Ctx) error {
	bmp, err := h.lifecycle.ZoomOut(c.UserContext())
	return h.bitmapResponse(c, bmp, err)
}

// GetBitmap serves the last rendered page as PNG
func (h *ViewHandler) GetBitmap(c *fiber.Ctx) error {
	bmp := h.lifecycle.Bitmap()
	if bmp == nil {
		return c.Status(fiber.StatusNotFound).JSON(
			entity.NewErrorResponse("NOT_FOUND", "No page has been rendered"),
		)
	}

	var buf bytes.Buffer
	if err := bmp.EncodePNG(&buf); err != nil {
		return errorResponse(c, h.logger, "Failed to encode page", err)
	}

	c.Type("png")
	return c.Send(buf.Bytes())
}

func (h *ViewHandler) SelectAnchor(c *fiber.Ctx) error {
	var req AnchorRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	anchor, err := h.lifecycle.SelectPoint(req.X, req.Y, req.CanvasWidth, req.CanvasHeight)
	if err != nil {
		return errorResponse(c, h.logger, "Failed to select position", err)
	}
	return c.JSON(entity.NewSuccessResponse(anchor, "Position selected"))
}

func (h *ViewHandler) ClearAnchor(c *fiber.Ctx) error {
	h.lifecycle.ClearAnchor()
	return c.JSON(entity.NewSuccessResponse(nil, "Position cleared"))
}

func (h *ViewHandler) Sign(c *fiber.Ctx) error {
	result, err := h.lifecycle.Sign(c.UserContext())
	if err != nil {
		return errorResponse(c, h.logger, "Signing failed", err)
	}
	return c.JSON(entity.NewSuccessResponse(result, "Document signed"))
}

// SetCertificate accepts {"source":"server"}, {"certificate":"..."}, a
// multipart "certificate" file or the certificate as the raw body
func (h *ViewHandler) SetCertificate(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var (
		material entity.CertificateMaterial
		source   = entity.CertificateFromFile
	)

	switch {
	case c.Is("json"):
		var req CertificateRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
		if strings.EqualFold(req.Source, string(entity.CertificateFromServer)) {
			if _, err := h.lifecycle.FetchServerCertificate(ctx); err != nil {
				return errorResponse(c, h.logger, "Failed to fetch certificate", err)
			}
			return c.JSON(entity.NewSuccessResponse(h.lifecycle.View(), "Certificate loaded"))
		}
		material = entity.CertificateMaterial(req.Certificate)

	case strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEMultipartForm):
		fileHeader, err := c.FormFile("certificate")
		if err != nil {
			return errorResponse(c, h.logger, "Certificate rejected", entity.NewValidationError("certificate", entity.ErrMissingInput))
		}
		file, err := fileHeader.Open()
		if err != nil {
			return errorResponse(c, h.logger, "Failed to open certificate", err)
		}
		defer file.Close()

		var buf bytes.Buffer
		if _, err := buf.ReadFrom(file); err != nil {
			return errorResponse(c, h.logger, "Failed to read certificate", err)
		}
		material = entity.CertificateMaterial(buf.String())

	default:
		material = entity.CertificateMaterial(c.Body())
	}

	if material.IsEmpty() {
		return errorResponse(c, h.logger, "Certificate rejected", entity.NewValidationError("certificate", entity.ErrMissingInput))
	}
	if err := h.lifecycle.SetCertificate(material, source); err != nil {
		return errorResponse(c, h.logger, "Failed to set certificate", err)
	}
	return c.JSON(entity.NewSuccessResponse(h.lifecycle.View(), "Certificate loaded"))
}

func (h *ViewHandler) Verify(c *fiber.Ctx) error {
	result, err := h.lifecycle.Verify(c.UserContext())
	if err != nil {
		return errorResponse(c, h.logger, "Verification failed", err)
	}

	message := result.Message
	if message == "" {
		message = "Verification completed"
	}
	return c.JSON(entity.NewSuccessResponse(result, message))
}
