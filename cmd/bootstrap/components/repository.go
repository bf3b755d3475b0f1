package components

import (
	"ponabri-api/internal/infra/readstore"
	"ponabri-api/internal/infra/repository"
	"ponabri-api/internal/infra/uow"
	"ponabri-api/internal/usecase/queries"
	"ponabri-api/internal/usecase/shared"

	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		// UnitOfWork
		fx.Annotate(
			uow.NewPostgresUoW,
			fx.As(new(shared.UnitOfWork)),
		),
		// Read stores for the query side
		fx.Annotate(
			readstore.NewReservationReadStore,
			fx.As(new(queries.ReservationReadStore)),
		),
		fx.Annotate(
			readstore.NewShelterReadStore,
			fx.As(new(queries.ShelterReadStore)),
		),
		fx.Annotate(
			readstore.NewUserReadStore,
			fx.As(new(queries.UserReadStore)),
		),
		// Pool-scoped outbox access for the dispatcher
		repository.NewOutboxRepository,
	),
)
