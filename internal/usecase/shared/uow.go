package shared

import (
	"context"
	"time"

	"ponabri-api/internal/domain/reservation"
	"ponabri-api/internal/domain/shelter"
	"ponabri-api/internal/domain/user"

	"github.com/google/uuid"
)

// UnitOfWork scopes a group of repository calls to one database transaction.
// Within retries transparently on storage-level serialization conflicts; every
// capacity mutation and its paired reservation write goes through it so no
// partial state is ever observable.
type UnitOfWork interface {
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

type Tx interface {
	Shelters() ShelterRepository
	Reservations() ReservationRepository
	Outbox() OutboxRepository
	Users() UserRepository
}

type ShelterRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*shelter.Shelter, error)
	Create(ctx context.Context, s *shelter.Shelter) (uuid.UUID, error)
	// Update writes counters and status guarded by the shelter's optimistic
	// concurrency token; a stale version surfaces as KindConflict.
	Update(ctx context.Context, s *shelter.Shelter) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type ReservationRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error)
	// Create surfaces a reservation-code uniqueness violation as
	// KindDuplicateKey so the caller can regenerate and retry.
	Create(ctx context.Context, r *reservation.Reservation) (uuid.UUID, error)
	Update(ctx context.Context, r *reservation.Reservation) error
	CountActiveByShelter(ctx context.Context, shelterID uuid.UUID) (int64, error)
}

type OutboxRepository interface {
	Enqueue(ctx context.Context, topic string, payload []byte, runAt time.Time) error
}

type UserRepository interface {
	Create(ctx context.Context, u *user.User) (uuid.UUID, error)
	FindByEmail(ctx context.Context, email string) (*user.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*user.User, error)
}
