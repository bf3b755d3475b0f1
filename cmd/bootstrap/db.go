package bootstrap

import (
	"context"

	"ponabri-api/internal/infra"
	"ponabri-api/internal/infra/db"
	"ponabri-api/internal/pkg/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var DBModule = fx.Module("db",
	fx.Provide(
		NewDB,
		NewQueryer,
	),
)

func NewDB(lc fx.Lifecycle, cfg config.Config) (*pgxpool.Pool, error) {
	pool, cleanup, err := db.Connect(cfg.DB)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			if cleanup != nil {
				cleanup()
			}
			return nil
		},
	})

	return pool, nil
}

// NewQueryer exposes the pool through the narrow query interface the read
// stores and pool-scoped repositories depend on.
func NewQueryer(pool *pgxpool.Pool) infra.Queryer {
	return pool
}
