package usecase

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("usecase",
	fx.Provide(NewSelector),
	fx.Provide(NewActionGuard),
	fx.Provide(NewNotifier),
	fx.Provide(NewSigningUsecase),
	fx.Provide(NewVerificationUsecase),
	fx.Provide(NewAuthUsecase),
	fx.Provide(NewKeyUsecase),
	fx.Provide(NewLifecycleUsecase),
	fx.Invoke(bindSession),
)

// bindSession keeps the lifecycle controller on the current session and
// restores a persisted one at start-up
func bindSession(lc fx.Lifecycle, auth AuthUsecase, lifecycle LifecycleUsecase, logger *zap.Logger) {
	auth.Subscribe(lifecycle.Attach)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			RestoreOnStart(ctx, auth, logger)
			return nil
		},
	})
}
