package bootstrap

import (
	"datenight/internal/pkg/config"

	"go.uber.org/fx"
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		config.LoadConfig,
		func(cfg config.Config) config.RedisConfig { return cfg.Redis },
		func(cfg config.Config) config.RegistryConfig { return cfg.Registry },
		func(cfg config.Config) config.SweeperConfig { return cfg.Sweeper },
		func(cfg config.Config) config.PolicyConfig { return cfg.Policy },
	),
)
