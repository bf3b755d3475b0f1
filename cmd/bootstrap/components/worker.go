package components

import (
	"context"
	"log/slog"

	"ponabri-api/internal/infra/outbox"
	"ponabri-api/internal/infra/repository"
	"ponabri-api/internal/pkg/config"

	"go.uber.org/fx"
)

var WorkerModule = fx.Module("worker",
	fx.Provide(
		NewPublisher,
		NewDispatcher,
	),
	fx.Invoke(StartDispatcher),
)

func NewPublisher(lc fx.Lifecycle, cfg config.Config) (outbox.Publisher, error) {
	pub, err := outbox.NewAMQPPublisher(cfg.AMQP.URL)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return pub.Close()
		},
	})

	return pub, nil
}

func NewDispatcher(cfg config.Config, jobs *repository.OutboxRepository, pub outbox.Publisher, logger *slog.Logger) *outbox.Dispatcher {
	return outbox.NewDispatcher(jobs, pub, cfg.AMQP.DispatchInterval, cfg.AMQP.DispatchBatch, logger)
}

func StartDispatcher(lc fx.Lifecycle, dispatcher *outbox.Dispatcher) {
	ctx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go dispatcher.Run(ctx)
			return nil
		},
		OnStop: func(_ context.Context) error {
			cancel()
			dispatcher.Wait()
			return nil
		},
	})
}
