package response

import (
	"time"

	"ponabri-api/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type ShelterResponse struct {
	ID                    uuid.UUID `json:"id"`
	Name                  string    `json:"name"`
	Address               string    `json:"address"`
	Region                string    `json:"region"`
	Contact               string    `json:"contact"`
	Description           string    `json:"description"`
	SuggestedCategory     *string   `json:"suggested_category,omitempty"`
	PersonCapacity        int       `json:"person_capacity"`
	PersonSlotsAvailable  int       `json:"person_slots_available"`
	VehicleCapacity       int       `json:"vehicle_capacity"`
	VehicleSlotsAvailable int       `json:"vehicle_slots_available"`
	Status                string    `json:"status"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

type ShelterListItemResponse struct {
	ID                    uuid.UUID `json:"id"`
	Name                  string    `json:"name"`
	Address               string    `json:"address"`
	Region                string    `json:"region"`
	Status                string    `json:"status"`
	PersonSlotsAvailable  int       `json:"person_slots_available"`
	VehicleSlotsAvailable int       `json:"vehicle_slots_available"`
}

type CreatedResponse struct {
	ID uuid.UUID `json:"id"`
}

func FromShelterView(v *queries.ShelterView) *ShelterResponse {
	var resp ShelterResponse
	_ = copier.Copy(&resp, v)
	return &resp
}

func FromShelterList(items []*queries.ShelterListItem) []*ShelterListItemResponse {
	out := make([]*ShelterListItemResponse, len(items))
	for i, item := range items {
		var resp ShelterListItemResponse
		_ = copier.Copy(&resp, item)
		out[i] = &resp
	}
	return out
}
