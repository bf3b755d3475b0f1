package components

import (
	"ponabri-api/internal/infra/category"
	"ponabri-api/internal/pkg/clock"
	"ponabri-api/internal/usecase/commands"
	"ponabri-api/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	fx.Annotate(
		category.NewKeywordSuggester,
		fx.As(new(commands.CategorySuggester)),
	),
	commands.NewTokenValidator,
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewReservationQueries,
		queries.NewShelterQueries,
		queries.NewUserQueries,
	),
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewReservationUseCase,
		commands.NewShelterUseCase,
		commands.NewAuthUseCase,
	),
)
