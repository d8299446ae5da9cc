package components

import (
	"datenight/internal/handler"
	"datenight/internal/handler/api"
	"datenight/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewAuthHandler,
		api.NewEventHandler,
		api.NewSignupHandler,
		api.NewPurchaseHandler,
		api.NewMeHandler,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)
