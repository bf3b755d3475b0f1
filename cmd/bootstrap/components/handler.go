package components

import (
	"ponabri-api/internal/handler"
	"ponabri-api/internal/handler/api"
	"ponabri-api/internal/handler/middleware"
	"ponabri-api/internal/pkg/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewAuthHandler,
		api.NewShelterHandler,
		api.NewReservationHandler,
		middleware.NewAuthMiddleware,
		NewRateLimiter,
	),
	fx.Invoke(handler.NewRouter),
)

func NewRateLimiter(cfg config.Config, rdb *redis.Client) *middleware.RateLimiter {
	return middleware.NewRateLimiter(cfg.RateLimit, rdb)
}
