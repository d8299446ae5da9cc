package components

import (
	"datenight/internal/infra/readstore"
	"datenight/internal/infra/uow"
	"datenight/internal/usecase/queries"
	"datenight/internal/usecase/sweeper"

	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	repositoryModule,
	readstoreModule,
)

var repositoryModule = fx.Module("persistence/repository",
	fx.Provide(
		// UnitOfWork builds per-tx repositories lazily; write-side wiring
		// is a single binding.
		uow.NewPostgresUoW,
	),
)

var readstoreModule = fx.Module("persistence/readstore",
	fx.Provide(
		fx.Annotate(
			readstore.NewEventReadStore,
			fx.As(new(queries.EventReadStore)),
		),
		fx.Annotate(
			readstore.NewSignupReadStore,
			fx.As(new(queries.SignupReadStore)),
			fx.As(new(sweeper.ActiveUserSource)),
		),
		fx.Annotate(
			readstore.NewUserReadStore,
			fx.As(new(queries.UserReadStore)),
		),
		fx.Annotate(
			readstore.NewCartReadStore,
			fx.As(new(queries.CartReadStore)),
		),
	),
)
