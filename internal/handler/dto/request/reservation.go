package request

import (
	"ponabri-api/internal/usecase/commands"

	"github.com/google/uuid"
)

type CreateReservationRequest struct {
	ShelterID        uuid.UUID `json:"shelter_id" binding:"required"`
	PersonCount      int       `json:"person_count" binding:"required"`
	WantsVehicleSlot bool      `json:"wants_vehicle_slot"`
}

func (r CreateReservationRequest) ToInput() commands.CreateReservationInput {
	return commands.CreateReservationInput{
		ShelterID:        r.ShelterID,
		PersonCount:      r.PersonCount,
		WantsVehicleSlot: r.WantsVehicleSlot,
	}
}
