package http

import (
	"go.uber.org/fx"

	"docsign-client/internal/delivery/http/handler"
	"docsign-client/internal/delivery/http/router"
)

var Module = fx.Module("http",
	fx.Provide(
		handler.NewHealthHandler,
		handler.NewAuthHandler,
		handler.NewKeyHandler,
		handler.NewDocumentHandler,
		handler.NewViewHandler,
		handler.NewNoticeHandler,
		handler.NewLogHandler,
		router.NewRouter,
	),
)
