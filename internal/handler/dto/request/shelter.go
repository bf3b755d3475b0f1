package request

import (
	"ponabri-api/internal/usecase/commands"
)

type CreateShelterRequest struct {
	Name            string `json:"name" binding:"required"`
	Address         string `json:"address" binding:"required"`
	Region          string `json:"region" binding:"required"`
	Contact         string `json:"contact"`
	Description     string `json:"description"`
	PersonCapacity  int    `json:"person_capacity" binding:"required"`
	VehicleCapacity int    `json:"vehicle_capacity" binding:"min=0"`
}

func (r CreateShelterRequest) ToInput() commands.CreateShelterInput {
	return commands.CreateShelterInput{
		Name:            r.Name,
		Address:         r.Address,
		Region:          r.Region,
		Contact:         r.Contact,
		Description:     r.Description,
		PersonCapacity:  r.PersonCapacity,
		VehicleCapacity: r.VehicleCapacity,
	}
}

// UpdateShelterRequest is a partial update: absent fields keep their value.
// Closed toggles the administrative status override.
type UpdateShelterRequest struct {
	Name            *string `json:"name,omitempty"`
	Address         *string `json:"address,omitempty"`
	Region          *string `json:"region,omitempty"`
	Contact         *string `json:"contact,omitempty"`
	Description     *string `json:"description,omitempty"`
	PersonCapacity  *int    `json:"person_capacity,omitempty"`
	VehicleCapacity *int    `json:"vehicle_capacity,omitempty"`
	Closed          *bool   `json:"closed,omitempty"`
}

func (r UpdateShelterRequest) ToInput() commands.UpdateShelterInput {
	return commands.UpdateShelterInput{
		Name:            r.Name,
		Address:         r.Address,
		Region:          r.Region,
		Contact:         r.Contact,
		Description:     r.Description,
		PersonCapacity:  r.PersonCapacity,
		VehicleCapacity: r.VehicleCapacity,
		Closed:          r.Closed,
	}
}
