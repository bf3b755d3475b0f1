package readstore

import (
	"context"

	"ponabri-api/internal/infra"
	"ponabri-api/internal/usecase/queries"

	"github.com/google/uuid"
)

// ReservationReadStore serves the read side with denormalized joins; the write
// side never goes through here.
type ReservationReadStore struct {
	db infra.Queryer
}

var _ queries.ReservationReadStore = (*ReservationReadStore)(nil)

func NewReservationReadStore(db infra.Queryer) *ReservationReadStore {
	return &ReservationReadStore{db: db}
}

func (s *ReservationReadStore) FindViewByID(ctx context.Context, id uuid.UUID) (*queries.ReservationView, error) {
	var v queries.ReservationView
	err := s.db.QueryRow(ctx, `
		SELECT
			r.id, r.code, r.user_id, u.name, u.email,
			r.shelter_id, sh.name, sh.address,
			r.person_count, r.used_vehicle_slot, r.status,
			r.created_at, r.updated_at
		FROM reservations r
		JOIN users u ON u.id = r.user_id
		JOIN shelters sh ON sh.id = r.shelter_id
		WHERE r.id = $1`,
		id,
	).Scan(
		&v.ID, &v.Code, &v.UserID, &v.UserName, &v.UserEmail,
		&v.ShelterID, &v.ShelterName, &v.ShelterAddress,
		&v.PersonCount, &v.UsedVehicleSlot, &v.Status,
		&v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find reservation view", err)
	}
	return &v, nil
}

func (s *ReservationReadStore) ListPage(ctx context.Context, filterUserID *uuid.UUID, limit, offset int32) ([]*queries.ReservationListItem, int64, error) {
	var total int64
	err := s.db.QueryRow(ctx, `
		SELECT count(*) FROM reservations
		WHERE $1::uuid IS NULL OR user_id = $1`,
		filterUserID,
	).Scan(&total)
	if err != nil {
		return nil, 0, infra.WrapRepoErr("failed to count reservations", err)
	}

	rows, err := s.db.Query(ctx, `
		SELECT
			r.id, r.code, r.user_id, r.shelter_id, sh.name,
			r.person_count, r.used_vehicle_slot, r.status, r.created_at
		FROM reservations r
		JOIN shelters sh ON sh.id = r.shelter_id
		WHERE $1::uuid IS NULL OR r.user_id = $1
		ORDER BY r.created_at DESC, r.id DESC
		LIMIT $2 OFFSET $3`,
		filterUserID, limit, offset,
	)
	if err != nil {
		return nil, 0, infra.WrapRepoErr("failed to list reservations", err)
	}
	defer rows.Close()

	items := []*queries.ReservationListItem{}
	for rows.Next() {
		var item queries.ReservationListItem
		if err := rows.Scan(
			&item.ID, &item.Code, &item.UserID, &item.ShelterID, &item.ShelterName,
			&item.PersonCount, &item.UsedVehicleSlot, &item.Status, &item.CreatedAt,
		); err != nil {
			return nil, 0, infra.WrapRepoErr("failed to scan reservation list item", err)
		}
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, infra.WrapRepoErr("failed to read reservation list", err)
	}
	return items, total, nil
}

// FindActiveSummaryByCode matches active reservations only. A cancelled or
// completed code scans the same as one that never existed.
func (s *ReservationReadStore) FindActiveSummaryByCode(ctx context.Context, code string) (*queries.CheckInSummary, error) {
	var sum queries.CheckInSummary
	err := s.db.QueryRow(ctx, `
		SELECT
			r.id, r.code, r.user_id, u.name,
			r.shelter_id, sh.name,
			r.person_count, r.used_vehicle_slot
		FROM reservations r
		JOIN users u ON u.id = r.user_id
		JOIN shelters sh ON sh.id = r.shelter_id
		WHERE r.code = $1 AND r.status = 'active'`,
		code,
	).Scan(
		&sum.ReservationID, &sum.Code, &sum.UserID, &sum.UserName,
		&sum.ShelterID, &sum.ShelterName,
		&sum.PersonCount, &sum.UsedVehicleSlot,
	)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, infra.WrapRepoErr("active reservation not found for code", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find reservation by code", err)
	}
	return &sum, nil
}
