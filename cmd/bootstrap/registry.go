package bootstrap

import (
	"datenight/internal/infra/registry"

	"go.uber.org/fx"
)

var RegistryModule = fx.Module("registry",
	fx.Provide(
		registry.NewClient,
	),
)
