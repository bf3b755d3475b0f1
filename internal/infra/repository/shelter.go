package repository

import (
	"context"
	"time"

	"ponabri-api/internal/domain/shelter"
	"ponabri-api/internal/infra"

	"github.com/google/uuid"
)

type ShelterRepository struct {
	db infra.Queryer
}

func NewShelterRepository(db infra.Queryer) *ShelterRepository {
	return &ShelterRepository{db: db}
}

const shelterColumns = `id, name, address, region, contact, description, suggested_category,
	person_capacity, person_slots_available, vehicle_capacity, vehicle_slots_available,
	status, version, created_at, updated_at`

func (r *ShelterRepository) FindByID(ctx context.Context, id uuid.UUID) (*shelter.Shelter, error) {
	row := r.db.QueryRow(ctx, `SELECT `+shelterColumns+` FROM shelters WHERE id = $1`, id)

	sh, err := scanShelter(row)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, infra.WrapRepoErr("shelter not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find shelter by ID", err)
	}
	return sh, nil
}

func (r *ShelterRepository) Create(ctx context.Context, s *shelter.Shelter) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.db.QueryRow(ctx, `
		INSERT INTO shelters (
			id, name, address, region, contact, description, suggested_category,
			person_capacity, person_slots_available, vehicle_capacity, vehicle_slots_available,
			status, version, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, 1, now(), now())
		RETURNING id`,
		s.ID(), s.Name(), s.Address(), s.Region(), s.Contact(), s.Description(), s.SuggestedCategory(),
		s.PersonCapacity(), s.PersonSlotsAvailable(), s.VehicleCapacity(), s.VehicleSlotsAvailable(),
		s.Status().String(),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create shelter", err, infra.KindFromPgErr(err))
	}
	return id, nil
}

// Update is guarded by the optimistic concurrency token: writing with a stale
// version touches zero rows and reports KindConflict so the caller re-reads
// and retries.
func (r *ShelterRepository) Update(ctx context.Context, s *shelter.Shelter) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE shelters SET
			name = $3,
			address = $4,
			region = $5,
			contact = $6,
			description = $7,
			suggested_category = $8,
			person_capacity = $9,
			person_slots_available = $10,
			vehicle_capacity = $11,
			vehicle_slots_available = $12,
			status = $13,
			version = version + 1,
			updated_at = now()
		WHERE id = $1 AND version = $2`,
		s.ID(), s.Version(),
		s.Name(), s.Address(), s.Region(), s.Contact(), s.Description(), s.SuggestedCategory(),
		s.PersonCapacity(), s.PersonSlotsAvailable(), s.VehicleCapacity(), s.VehicleSlotsAvailable(),
		s.Status().String(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update shelter", err, infra.KindFromPgErr(err))
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("shelter version conflict", nil, infra.KindConflict)
	}
	return nil
}

func (r *ShelterRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM shelters WHERE id = $1`, id)
	if err != nil {
		return infra.WrapRepoErr("failed to delete shelter", err, infra.KindFromPgErr(err))
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("shelter not found", nil, infra.KindNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanShelter(row rowScanner) (*shelter.Shelter, error) {
	var (
		id                                           uuid.UUID
		name, address, region, contact, description  string
		suggestedCategory                            *string
		personCap, personAvail, vehicleCap, vehAvail int
		status                                       string
		version                                      int64
		createdAt, updatedAt                         time.Time
	)
	err := row.Scan(
		&id, &name, &address, &region, &contact, &description, &suggestedCategory,
		&personCap, &personAvail, &vehicleCap, &vehAvail,
		&status, &version, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	return shelter.ReconstructShelter(
		id, name, address, region, contact, description, suggestedCategory,
		personCap, personAvail, vehicleCap, vehAvail,
		shelter.Status(status), version, createdAt, updatedAt,
	), nil
}
