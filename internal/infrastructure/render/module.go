package render

import "go.uber.org/fx"

var Module = fx.Module("render",
	fx.Provide(NewZoomPolicy),
	fx.Provide(NewEngineWithLifecycle),
	fx.Provide(NewFactory),
)
