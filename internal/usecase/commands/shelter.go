package commands

import (
	"context"

	"ponabri-api/internal/domain/shelter"
	"ponabri-api/internal/infra"
	"ponabri-api/internal/pkg/errs"
	"ponabri-api/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrCapacityBelowOccupancy       = errs.New("capacity below current occupancy")
	ErrShelterHasActiveReservations = errs.New("shelter has active reservations")
	ErrInvalidShelter               = errs.New("invalid shelter data")
)

// CategorySuggester is the narrow contract with the classification
// collaborator: a best-guess label for a free-text description, or nil when
// there is nothing to classify. Never required for ledger correctness.
type CategorySuggester interface {
	Suggest(description string) *string
}

type CreateShelterInput struct {
	Name            string
	Address         string
	Region          string
	Contact         string
	Description     string
	PersonCapacity  int
	VehicleCapacity int
}

type UpdateShelterInput struct {
	Name            *string
	Address         *string
	Region          *string
	Contact         *string
	Description     *string
	PersonCapacity  *int
	VehicleCapacity *int
	Closed          *bool
}

type ShelterCommands interface {
	Create(ctx context.Context, input CreateShelterInput) (uuid.UUID, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateShelterInput) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type shelterUseCaseImpl struct {
	uow       shared.UnitOfWork
	suggester CategorySuggester
}

func NewShelterUseCase(uow shared.UnitOfWork, suggester CategorySuggester) ShelterCommands {
	return &shelterUseCaseImpl{uow: uow, suggester: suggester}
}

func (uc *shelterUseCaseImpl) Create(ctx context.Context, input CreateShelterInput) (uuid.UUID, error) {
	var category *string
	if input.Description != "" {
		category = uc.suggester.Suggest(input.Description)
	}

	sh, err := shelter.NewShelter(
		input.Name,
		input.Address,
		input.Region,
		input.Contact,
		input.Description,
		input.PersonCapacity,
		input.VehicleCapacity,
		category,
	)
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrInvalidShelter)
	}

	var createdID uuid.UUID
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		id, err := tx.Shelters().Create(ctx, sh)
		if err != nil {
			return err
		}
		createdID = id
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return createdID, nil
}

func (uc *shelterUseCaseImpl) Update(ctx context.Context, id uuid.UUID, input UpdateShelterInput) error {
	var lastErr error
	for attempt := 0; attempt < maxWriteRetries; attempt++ {
		err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			sh, err := tx.Shelters().FindByID(ctx, id)
			if err != nil {
				if infra.IsKind(err, infra.KindNotFound) {
					return ErrShelterNotFound
				}
				return err
			}

			sh.SetDetails(input.Name, input.Address, input.Region, input.Contact)

			if input.Description != nil {
				var category *string
				if *input.Description != "" {
					category = uc.suggester.Suggest(*input.Description)
				}
				sh.SetDescription(*input.Description, category)
			}

			if input.PersonCapacity != nil || input.VehicleCapacity != nil {
				if err := sh.Resize(input.PersonCapacity, input.VehicleCapacity); err != nil {
					if shelter.IsCapacityErrorKind(err, shelter.KindCapacityBelowOccupancy) {
						return errs.Mark(err, ErrCapacityBelowOccupancy)
					}
					return err
				}
			}

			if input.Closed != nil {
				if *input.Closed {
					sh.Close()
				} else {
					sh.Reopen()
				}
			}

			return tx.Shelters().Update(ctx, sh)
		})
		if err == nil {
			return nil
		}
		if !infra.IsKind(err, infra.KindConflict) {
			return err
		}
		lastErr = err
	}
	return errs.Mark(lastErr, ErrWriteRetryExhausted)
}

// Delete refuses to remove a shelter while active reservations still hold its
// slots. The foreign key is the backstop for races.
func (uc *shelterUseCaseImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		active, err := tx.Reservations().CountActiveByShelter(ctx, id)
		if err != nil {
			return err
		}
		if active > 0 {
			return ErrShelterHasActiveReservations
		}

		if err := tx.Shelters().Delete(ctx, id); err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrShelterNotFound
			}
			if infra.IsKind(err, infra.KindForeignKeyViolated) {
				return errs.Mark(err, ErrShelterHasActiveReservations)
			}
			return err
		}
		return nil
	})
}
