package commands

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"ponabri-api/internal/domain/reservation"
	"ponabri-api/internal/domain/shelter"
	"ponabri-api/internal/infra"
	"ponabri-api/internal/pkg/clock"
	"ponabri-api/internal/pkg/errs"
	"ponabri-api/internal/usecase/queries"
	"ponabri-api/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrShelterNotFound          = errs.New("shelter not found")
	ErrReservationNotFound      = errs.New("reservation not found")
	ErrReservationForbidden     = errs.New("reservation belongs to another user")
	ErrInvalidPersonCount       = errs.New("person count must be at least 1")
	ErrNotAcceptingReservations = errs.New("shelter is not accepting reservations")
	ErrInsufficientPersonSlots  = errs.New("insufficient person slots")
	ErrInsufficientVehicleSlot  = errs.New("no vehicle slot available")
	ErrInvalidTransition        = errs.New("reservation is not active")
	ErrWriteRetryExhausted      = errs.New("reservation write failed after max retries")
)

// Bounded transparent retry for the two storage races a create can hit:
// stale optimistic-lock version on the shelter row and a reservation-code
// uniqueness violation. Everything else surfaces immediately.
const maxWriteRetries = 3

const TopicReservationCreated = "reservations.created"

// ReservationCreatedEvent is handed to the outbox inside the creating
// transaction and published to the broker after commit.
type ReservationCreatedEvent struct {
	ReservationID uuid.UUID `json:"reservation_id"`
	Code          string    `json:"code"`
	UserID        uuid.UUID `json:"user_id"`
	CreatedAt     time.Time `json:"created_at"`
}

type CreateReservationInput struct {
	ShelterID        uuid.UUID
	PersonCount      int
	WantsVehicleSlot bool
}

type ReservationCommands interface {
	Create(ctx context.Context, input CreateReservationInput, userID uuid.UUID) (*queries.ReservationView, error)
	Cancel(ctx context.Context, reservationID, actorID uuid.UUID, actorIsAdmin bool) (*queries.ReservationView, error)
	Complete(ctx context.Context, reservationID uuid.UUID, actorIsAdmin bool) (*queries.ReservationView, error)
}

type reservationUseCaseImpl struct {
	uow                shared.UnitOfWork
	reservationQueries queries.ReservationQueries
	clock              clock.Clock
}

func NewReservationUseCase(uow shared.UnitOfWork, reservationQueries queries.ReservationQueries, clk clock.Clock) ReservationCommands {
	return &reservationUseCaseImpl{
		uow:                uow,
		reservationQueries: reservationQueries,
		clock:              clk,
	}
}

func (uc *reservationUseCaseImpl) Create(ctx context.Context, input CreateReservationInput, userID uuid.UUID) (*queries.ReservationView, error) {
	rsv, err := reservation.NewReservation(
		userID,
		input.ShelterID,
		input.PersonCount,
		input.WantsVehicleSlot,
		reservation.NewCode(),
		uc.clock.Now(),
	)
	if err != nil {
		if errors.Is(err, reservation.ErrInvalidPersonCount) {
			return nil, errs.Mark(err, ErrInvalidPersonCount)
		}
		return nil, err
	}

	err = uc.withWriteRetry(ctx, func(ctx context.Context, tx shared.Tx) error {
		sh, err := tx.Shelters().FindByID(ctx, input.ShelterID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrShelterNotFound
			}
			return err
		}

		if err := sh.Reserve(input.PersonCount, input.WantsVehicleSlot); err != nil {
			return markLedgerErr(err)
		}

		if err := tx.Shelters().Update(ctx, sh); err != nil {
			return err
		}
		if _, err := tx.Reservations().Create(ctx, rsv); err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				rsv.RegenerateCode()
			}
			return err
		}

		return uc.enqueueCreatedEvent(ctx, tx, rsv)
	})
	if err != nil {
		return nil, err
	}

	return uc.reservationQueries.GetByIDSystem(ctx, rsv.ID())
}

func (uc *reservationUseCaseImpl) Cancel(ctx context.Context, reservationID, actorID uuid.UUID, actorIsAdmin bool) (*queries.ReservationView, error) {
	err := uc.withWriteRetry(ctx, func(ctx context.Context, tx shared.Tx) error {
		rsv, err := tx.Reservations().FindByID(ctx, reservationID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrReservationNotFound
			}
			return err
		}
		if !actorIsAdmin && !rsv.IsOwnedBy(actorID) {
			return ErrReservationForbidden
		}
		if err := rsv.Cancel(); err != nil {
			return errs.Mark(err, ErrInvalidTransition)
		}
		return uc.releaseAndSave(ctx, tx, rsv)
	})
	if err != nil {
		return nil, err
	}

	return uc.reservationQueries.GetByIDSystem(ctx, reservationID)
}

func (uc *reservationUseCaseImpl) Complete(ctx context.Context, reservationID uuid.UUID, actorIsAdmin bool) (*queries.ReservationView, error) {
	if !actorIsAdmin {
		return nil, ErrReservationForbidden
	}

	err := uc.withWriteRetry(ctx, func(ctx context.Context, tx shared.Tx) error {
		rsv, err := tx.Reservations().FindByID(ctx, reservationID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrReservationNotFound
			}
			return err
		}
		if err := rsv.Complete(); err != nil {
			return errs.Mark(err, ErrInvalidTransition)
		}
		return uc.releaseAndSave(ctx, tx, rsv)
	})
	if err != nil {
		return nil, err
	}

	return uc.reservationQueries.GetByIDSystem(ctx, reservationID)
}

// releaseAndSave gives the reservation's held slots back to its shelter and
// persists both rows in the surrounding transaction. Called exactly once per
// reservation: the state machine rejects a second exit from active.
func (uc *reservationUseCaseImpl) releaseAndSave(ctx context.Context, tx shared.Tx, rsv *reservation.Reservation) error {
	sh, err := tx.Shelters().FindByID(ctx, rsv.ShelterID())
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrShelterNotFound
		}
		return err
	}

	sh.Release(rsv.PersonCount(), rsv.UsedVehicleSlot())

	if err := tx.Shelters().Update(ctx, sh); err != nil {
		return err
	}
	rsv.Touch(uc.clock.Now())
	return tx.Reservations().Update(ctx, rsv)
}

func (uc *reservationUseCaseImpl) enqueueCreatedEvent(ctx context.Context, tx shared.Tx, rsv *reservation.Reservation) error {
	payload, err := json.Marshal(ReservationCreatedEvent{
		ReservationID: rsv.ID(),
		Code:          rsv.Code(),
		UserID:        rsv.UserID(),
		CreatedAt:     rsv.CreatedAt(),
	})
	if err != nil {
		return err
	}
	return tx.Outbox().Enqueue(ctx, TopicReservationCreated, payload, uc.clock.Now())
}

func (uc *reservationUseCaseImpl) withWriteRetry(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	var lastErr error
	for attempt := 0; attempt < maxWriteRetries; attempt++ {
		err := uc.uow.Within(ctx, fn)
		if err == nil {
			return nil
		}
		if !isRetryableWriteErr(err) {
			return err
		}
		lastErr = err
	}
	return errs.Mark(lastErr, ErrWriteRetryExhausted)
}

// Retryable: the shelter row moved under us (stale version) or the generated
// reservation code collided. Both re-run against fresh state.
func isRetryableWriteErr(err error) bool {
	return infra.IsKind(err, infra.KindConflict) || infra.IsKind(err, infra.KindDuplicateKey)
}

func markLedgerErr(err error) error {
	switch {
	case errors.Is(err, shelter.ErrInvalidPersonCount):
		return errs.Mark(err, ErrInvalidPersonCount)
	case shelter.IsCapacityErrorKind(err, shelter.KindNotAcceptingReservations):
		return errs.Mark(err, ErrNotAcceptingReservations)
	case shelter.IsCapacityErrorKind(err, shelter.KindInsufficientPersonSlots):
		return errs.Mark(err, ErrInsufficientPersonSlots)
	case shelter.IsCapacityErrorKind(err, shelter.KindInsufficientVehicleSlot):
		return errs.Mark(err, ErrInsufficientVehicleSlot)
	default:
		return err
	}
}
