package repository

import (
	"context"
	"time"

	"ponabri-api/internal/domain/reservation"
	"ponabri-api/internal/infra"

	"github.com/google/uuid"
)

type ReservationRepository struct {
	db infra.Queryer
}

func NewReservationRepository(db infra.Queryer) *ReservationRepository {
	return &ReservationRepository{db: db}
}

func (r *ReservationRepository) FindByID(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, code, user_id, shelter_id, person_count, used_vehicle_slot, status, created_at, updated_at
		FROM reservations WHERE id = $1`, id)

	var (
		rid, userID, shelterID uuid.UUID
		code, status           string
		personCount            int
		usedVehicleSlot        bool
		createdAt, updatedAt   time.Time
	)
	err := row.Scan(&rid, &code, &userID, &shelterID, &personCount, &usedVehicleSlot, &status, &createdAt, &updatedAt)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find reservation by ID", err)
	}

	return reservation.ReconstructReservation(
		rid, code, userID, shelterID, personCount, usedVehicleSlot,
		reservation.Status(status), createdAt, updatedAt,
	), nil
}

func (r *ReservationRepository) Create(ctx context.Context, res *reservation.Reservation) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.db.QueryRow(ctx, `
		INSERT INTO reservations (id, code, user_id, shelter_id, person_count, used_vehicle_slot, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		RETURNING id`,
		res.ID(), res.Code(), res.UserID(), res.ShelterID(),
		res.PersonCount(), res.UsedVehicleSlot(), res.Status().String(), res.CreatedAt(),
	).Scan(&id)
	if err != nil {
		// DUPLICATE_KEY here means the generated code collided
		return uuid.Nil, infra.WrapRepoErr("failed to create reservation", err, infra.KindFromPgErr(err))
	}
	return id, nil
}

func (r *ReservationRepository) Update(ctx context.Context, res *reservation.Reservation) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE reservations SET status = $2, updated_at = $3 WHERE id = $1`,
		res.ID(), res.Status().String(), res.UpdatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update reservation", err, infra.KindFromPgErr(err))
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *ReservationRepository) CountActiveByShelter(ctx context.Context, shelterID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `
		SELECT count(*) FROM reservations WHERE shelter_id = $1 AND status = 'active'`, shelterID,
	).Scan(&count)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to count active reservations", err)
	}
	return count, nil
}
