package bootstrap

import (
	"context"

	"datenight/internal/infra/notify"
	"datenight/internal/pkg/config"
	"datenight/internal/usecase/shared"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var RedisModule = fx.Module("redis",
	fx.Provide(
		NewRedisClient,
		notify.NewPublisher,
		fx.Annotate(
			notify.NewSubscriber,
			fx.As(new(shared.LedgerListener)),
		),
	),
)

func NewRedisClient(lc fx.Lifecycle, cfg config.RedisConfig) *redis.Client {
	client := notify.NewRedisClient(cfg)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		},
		OnStop: func(_ context.Context) error {
			return client.Close()
		},
	})

	return client
}
