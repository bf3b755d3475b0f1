package outbox

import (
	"context"
	"log/slog"
	"time"

	"ponabri-api/internal/infra/repository"
)

const maxPublishAttempts = 10

// Dispatcher polls the outbox table and publishes committed events. Jobs are
// claimed with row locks so multiple instances can run side by side; delivery
// is at-least-once and consumers are expected to deduplicate.
type Dispatcher struct {
	jobs     *repository.OutboxRepository
	pub      Publisher
	interval time.Duration
	batch    int
	logger   *slog.Logger
	done     chan struct{}
}

func NewDispatcher(jobs *repository.OutboxRepository, pub Publisher, interval time.Duration, batch int, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		jobs:     jobs,
		pub:      pub,
		interval: interval,
		batch:    batch,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// Run blocks until ctx is cancelled, draining due jobs each tick.
func (d *Dispatcher) Run(ctx context.Context) {
	defer close(d.done)

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.dispatchBatch(ctx)
		}
	}
}

// Wait returns after Run has exited.
func (d *Dispatcher) Wait() {
	<-d.done
}

func (d *Dispatcher) dispatchBatch(ctx context.Context) {
	jobs, err := d.jobs.ClaimBatch(ctx, d.batch)
	if err != nil {
		d.logger.Error("failed to claim outbox jobs", slog.String("error", err.Error()))
		return
	}

	for _, job := range jobs {
		if err := d.pub.Publish(ctx, job.Topic, job.Payload); err != nil {
			d.logger.Warn("failed to publish outbox job",
				slog.String("job_id", job.ID.String()),
				slog.String("topic", job.Topic),
				slog.Int("attempts", int(job.Attempts)+1),
				slog.String("error", err.Error()),
			)
			if int(job.Attempts)+1 >= maxPublishAttempts {
				d.logger.Error("outbox job exhausted publish attempts",
					slog.String("job_id", job.ID.String()),
					slog.String("topic", job.Topic),
				)
				if markErr := d.jobs.MarkDead(ctx, job.ID, err.Error()); markErr != nil {
					d.logger.Error("failed to park outbox job", slog.String("error", markErr.Error()))
				}
				continue
			}
			retryAt := time.Now().Add(retryDelay(int(job.Attempts) + 1))
			if markErr := d.jobs.MarkFailed(ctx, job.ID, err.Error(), retryAt); markErr != nil {
				d.logger.Error("failed to requeue outbox job", slog.String("error", markErr.Error()))
			}
			continue
		}

		if err := d.jobs.MarkPublished(ctx, job.ID); err != nil {
			d.logger.Error("failed to mark outbox job published", slog.String("error", err.Error()))
		}
	}
}

// retryDelay doubles per attempt, capped at two minutes.
func retryDelay(attempts int) time.Duration {
	delay := time.Second
	for i := 1; i < attempts && delay < 2*time.Minute; i++ {
		delay *= 2
	}
	if delay > 2*time.Minute {
		delay = 2 * time.Minute
	}
	return delay
}
