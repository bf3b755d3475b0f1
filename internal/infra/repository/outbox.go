package repository

import (
	"context"
	"time"

	"ponabri-api/internal/infra"

	"github.com/google/uuid"
)

// OutboxRepository writes publishable events in the same transaction as the
// state change that produced them; the dispatcher picks them up after commit.
type OutboxRepository struct {
	db infra.Queryer
}

func NewOutboxRepository(db infra.Queryer) *OutboxRepository {
	return &OutboxRepository{db: db}
}

func (r *OutboxRepository) Enqueue(ctx context.Context, topic string, payload []byte, runAt time.Time) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO outbox_jobs (id, topic, payload, status, attempts, run_at, created_at, updated_at)
		VALUES ($1, $2, $3, 'queued', 0, $4, now(), now())`,
		uuid.New(), topic, payload, runAt,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to enqueue outbox job", err)
	}
	return nil
}

type OutboxJob struct {
	ID       uuid.UUID
	Topic    string
	Payload  []byte
	Attempts int32
}

// ClaimBatch marks due queued jobs as processing and returns them, skipping
// rows another dispatcher already locked.
func (r *OutboxRepository) ClaimBatch(ctx context.Context, limit int) ([]OutboxJob, error) {
	rows, err := r.db.Query(ctx, `
		UPDATE outbox_jobs SET status = 'processing', updated_at = now()
		WHERE id IN (
			SELECT id FROM outbox_jobs
			WHERE status = 'queued' AND run_at <= now()
			ORDER BY run_at
			LIMIT $1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, topic, payload, attempts`,
		limit,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to claim outbox jobs", err)
	}
	defer rows.Close()

	var jobs []OutboxJob
	for rows.Next() {
		var job OutboxJob
		if err := rows.Scan(&job.ID, &job.Topic, &job.Payload, &job.Attempts); err != nil {
			return nil, infra.WrapRepoErr("failed to scan outbox job", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read outbox jobs", err)
	}
	return jobs, nil
}

func (r *OutboxRepository) MarkPublished(ctx context.Context, jobID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `
		UPDATE outbox_jobs SET status = 'published', updated_at = now() WHERE id = $1`, jobID)
	if err != nil {
		return infra.WrapRepoErr("failed to mark outbox job published", err)
	}
	return nil
}

// MarkDead parks a job that exhausted its publish attempts so it stops
// cycling through the dispatcher. Operators can requeue it by hand.
func (r *OutboxRepository) MarkDead(ctx context.Context, jobID uuid.UUID, lastError string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE outbox_jobs SET
			status = 'dead',
			attempts = attempts + 1,
			last_error = $2,
			updated_at = now()
		WHERE id = $1`,
		jobID, lastError,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to mark outbox job dead", err)
	}
	return nil
}

// MarkFailed requeues the job with backoff; delivery is at-least-once so a
// publish that half-succeeded may be retried.
func (r *OutboxRepository) MarkFailed(ctx context.Context, jobID uuid.UUID, lastError string, retryAt time.Time) error {
	_, err := r.db.Exec(ctx, `
		UPDATE outbox_jobs SET
			status = 'queued',
			attempts = attempts + 1,
			last_error = $2,
			run_at = $3,
			updated_at = now()
		WHERE id = $1`,
		jobID, lastError, retryAt,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to mark outbox job failed", err)
	}
	return nil
}
