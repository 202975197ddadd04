package service

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"docsign-client/internal/config"
	deliveryhttp "docsign-client/internal/delivery/http"
	"docsign-client/internal/infrastructure/database"
	"docsign-client/internal/infrastructure/httpclient"
	"docsign-client/internal/infrastructure/logger"
	"docsign-client/internal/infrastructure/redis"
	"docsign-client/internal/infrastructure/render"
	"docsign-client/internal/infrastructure/repository"
	"docsign-client/internal/infrastructure/session"
	"docsign-client/internal/server"
	"docsign-client/internal/usecase"
)

// Core is the client without a delivery surface
var Core = fx.Options(
	// Configuration
	config.Module,

	// Infrastructure
	logger.Module,
	database.Module,
	redis.Module,
	session.Module,
	httpclient.Module,
	repository.Module,
	render.Module,

	// Business Logic
	usecase.Module,
)

// Gateway is Core plus the local HTTP gateway the shell talks to
var Gateway = fx.Options(
	Core,
	deliveryhttp.Module,
	server.Module,
	fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
		return &fxevent.ZapLogger{Logger: log.Named("fx")}
	}),
)

// Application wraps the fx.App for service management
type Application struct {
	app      *fx.App
	ctx      context.Context
	cancel   context.CancelFunc
	doneChan chan struct{}
}

// NewApplication creates a new Application instance
func NewApplication() *Application {
	ctx, cancel := context.WithCancel(context.Background())
	return &Application{
		ctx:      ctx,
		cancel:   cancel,
		doneChan: make(chan struct{}),
	}
}

// Run starts the application and blocks until a signal or Shutdown
func (a *Application) Run() {
	defer close(a.doneChan)

	a.app = fx.New(Gateway)

	if err := a.app.Start(a.ctx); err != nil {
		return
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case <-sigChan:
		a.Shutdown()
	case <-a.ctx.Done():
	}
}

// Shutdown gracefully shuts down the application
func (a *Application) Shutdown() {
	a.cancel()
	if a.app != nil {
		ctx, cancel := context.WithTimeout(context.Background(), fx.DefaultTimeout)
		defer cancel()
		_ = a.app.Stop(ctx)
	}
}

// Wait blocks until the application exits
func (a *Application) Wait() {
	<-a.doneChan
}
