package bootstrap

import (
	"context"

	"datenight/internal/usecase/sweeper"

	"go.uber.org/fx"
)

var SweeperModule = fx.Module("sweeper",
	fx.Provide(
		sweeper.New,
	),
	fx.Invoke(StartSweeper),
)

// StartSweeper runs the reconciliation sweeper for the app's lifetime.
func StartSweeper(lc fx.Lifecycle, s *sweeper.Sweeper) {
	ctx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go func() {
				_ = s.Run(ctx)
			}()
			return nil
		},
		OnStop: func(_ context.Context) error {
			cancel()
			return nil
		},
	})
}
