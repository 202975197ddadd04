package router

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"docsign-client/internal/config"
	"docsign-client/internal/delivery/http/handler"
)

type Router struct {
	app             *fiber.App
	config          *config.Config
	healthHandler   *handler.HealthHandler
	authHandler     *handler.AuthHandler
	keyHandler      *handler.KeyHandler
	documentHandler *handler.DocumentHandler
	viewHandler     *handler.ViewHandler
	noticeHandler   *handler.NoticeHandler
	logHandler      *handler.LogHandler
}

func NewRouter(
	cfg *config.Config,
	healthHandler *handler.HealthHandler,
	authHandler *handler.AuthHandler,
	keyHandler *handler.KeyHandler,
	documentHandler *handler.DocumentHandler,
	viewHandler *handler.ViewHandler,
	noticeHandler *handler.NoticeHandler,
	logHandler *handler.LogHandler,
) *Router {
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: customErrorHandler,
		// uploads are capped by the lifecycle; leave headroom for the multipart envelope
		BodyLimit: int(cfg.Upload.MaxSizeBytes()) + 1024*1024,
	})

	return &Router{
		app:             app,
		config:          cfg,
		healthHandler:   healthHandler,
		authHandler:     authHandler,
		keyHandler:      keyHandler,
		documentHandler: documentHandler,
		viewHandler:     viewHandler,
		noticeHandler:   noticeHandler,
		logHandler:      logHandler,
	}
}

func (r *Router) Setup() *fiber.App {
	// Middleware
	r.app.Use(recover.New())
	r.app.Use(requestid.New())
	// browsers may only reach the gateway from the shell's origins
	origins := r.config.App.Origins()
	r.app.Use(originGuard(origins))
	r.app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(origins, ","),
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	if r.config.IsDevelopment() {
		r.app.Use(logger.New(logger.Config{
			Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
		}))
	}

	r.app.Get("/health", r.healthHandler.Health)
	r.app.Get("/logs", r.logHandler.LogViewer)

	api := r.app.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.Post("/login", r.authHandler.Login)
			auth.Post("/signup", r.authHandler.Signup)
			auth.Post("/logout", r.authHandler.Logout)
			auth.Get("/me", r.authHandler.Me)
			auth.Put("/me", r.authHandler.UpdateProfile)
		}

		api.Get("/keys/public", r.keyHandler.PublicCertificate)

		documents := api.Group("/documents")
		{
			documents.Get("", r.documentHandler.GetDocuments)
			documents.Post("", r.documentHandler.Upload)
			documents.Get("/:id/download", r.documentHandler.Download)
			documents.Delete("/:id", r.documentHandler.Delete)
		}

		view := api.Group("/view")
		{
			view.Get("", r.viewHandler.GetView)
			view.Post("/preview/:id", r.viewHandler.Preview)
			view.Post("/sign/:id", r.viewHandler.BeginSigning)
			view.Post("/verify/:id", r.viewHandler.BeginVerifying)
			view.Post("/back", r.viewHandler.Back)

			view.Post("/render", r.viewHandler.Render)
			view.Get("/bitmap", r.viewHandler.GetBitmap)
			view.Post("/zoom/in", r.viewHandler.ZoomIn)
			view.Post("/zoom/out", r.viewHandler.ZoomOut)

			view.Post("/anchor", r.viewHandler.SelectAnchor)
			view.Delete("/anchor", r.viewHandler.ClearAnchor)
			view.Post("/sign", r.viewHandler.Sign)

			view.Post("/certificate", r.viewHandler.SetCertificate)
			view.Post("/verify", r.viewHandler.Verify)
		}

		notices := api.Group("/notices")
		{
			notices.Get("", r.noticeHandler.GetNotices)
			notices.Delete("/:id", r.noticeHandler.Dismiss)
		}

		api.Get("/logs", r.logHandler.GetLogs)
	}

	return r.app
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"message": err.Error(),
		"error": fiber.Map{
			"code":    code,
			"message": err.Error(),
		},
	})
}
