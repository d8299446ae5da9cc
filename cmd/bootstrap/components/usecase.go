package components

import (
	"datenight/internal/pkg/clock"
	"datenight/internal/usecase"
	"datenight/internal/usecase/commands"
	"datenight/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseCommandsModule,
	usecaseQueriesModule,
	usecaseValidatorsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewSignupCommands,
		commands.NewPurchaseCommands,
		commands.NewPromoterCommands,
		commands.NewCancelCommands,
		commands.NewReconcileCommands,
		commands.NewCartCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewEventQueries,
		queries.NewSignupQueries,
		queries.NewUserQueries,
		queries.NewCartQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewAuthUseCase,
		usecase.NewTokenValidator,
	),
)
