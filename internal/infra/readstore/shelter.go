package readstore

import (
	"context"

	"ponabri-api/internal/infra"
	"ponabri-api/internal/usecase/queries"

	"github.com/google/uuid"
)

type ShelterReadStore struct {
	db infra.Queryer
}

func NewShelterReadStore(db infra.Queryer) *ShelterReadStore {
	return &ShelterReadStore{db: db}
}

func (s *ShelterReadStore) FindViewByID(ctx context.Context, id uuid.UUID) (*queries.ShelterView, error) {
	var v queries.ShelterView
	err := s.db.QueryRow(ctx, `
		SELECT
			id, name, address, region, contact, description, suggested_category,
			person_capacity, person_slots_available,
			vehicle_capacity, vehicle_slots_available,
			status, created_at, updated_at
		FROM shelters
		WHERE id = $1`,
		id,
	).Scan(
		&v.ID, &v.Name, &v.Address, &v.Region, &v.Contact, &v.Description, &v.SuggestedCategory,
		&v.PersonCapacity, &v.PersonSlotsAvailable,
		&v.VehicleCapacity, &v.VehicleSlotsAvailable,
		&v.Status, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, infra.WrapRepoErr("shelter not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find shelter view", err)
	}
	return &v, nil
}

func (s *ShelterReadStore) ListSummaries(ctx context.Context, region *string) ([]*queries.ShelterListItem, error) {
	rows, err := s.db.Query(ctx, `
		SELECT
			id, name, address, region, status,
			person_slots_available, vehicle_slots_available
		FROM shelters
		WHERE $1::text IS NULL OR region = $1
		ORDER BY name`,
		region,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list shelters", err)
	}
	defer rows.Close()

	items := []*queries.ShelterListItem{}
	for rows.Next() {
		var item queries.ShelterListItem
		if err := rows.Scan(
			&item.ID, &item.Name, &item.Address, &item.Region, &item.Status,
			&item.PersonSlotsAvailable, &item.VehicleSlotsAvailable,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan shelter summary", err)
		}
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read shelter list", err)
	}
	return items, nil
}

var _ queries.ShelterReadStore = (*ShelterReadStore)(nil)
