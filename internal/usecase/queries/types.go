package queries

import (
	"time"

	"github.com/google/uuid"
)

// Read models (DTO for read side)
type ReservationView struct {
	ID              uuid.UUID `json:"id"`
	Code            string    `json:"code"`
	UserID          uuid.UUID `json:"user_id"`
	UserName        string    `json:"user_name"`
	UserEmail       string    `json:"user_email"`
	ShelterID       uuid.UUID `json:"shelter_id"`
	ShelterName     string    `json:"shelter_name"`
	ShelterAddress  string    `json:"shelter_address"`
	PersonCount     int       `json:"person_count"`
	UsedVehicleSlot bool      `json:"used_vehicle_slot"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type ReservationListItem struct {
	ID              uuid.UUID `json:"id"`
	Code            string    `json:"code"`
	UserID          uuid.UUID `json:"user_id"`
	ShelterID       uuid.UUID `json:"shelter_id"`
	ShelterName     string    `json:"shelter_name"`
	PersonCount     int       `json:"person_count"`
	UsedVehicleSlot bool      `json:"used_vehicle_slot"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

// CheckInSummary is what an unauthenticated check-in device gets back for a
// valid code: enough to admit the party, nothing about anyone else.
type CheckInSummary struct {
	ReservationID   uuid.UUID `json:"reservation_id"`
	Code            string    `json:"code"`
	UserID          uuid.UUID `json:"user_id"`
	UserName        string    `json:"user_name"`
	ShelterID       uuid.UUID `json:"shelter_id"`
	ShelterName     string    `json:"shelter_name"`
	PersonCount     int       `json:"person_count"`
	UsedVehicleSlot bool      `json:"used_vehicle_slot"`
}

type ValidationResult struct {
	Valid   bool
	Summary *CheckInSummary
}

type ShelterView struct {
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

type ShelterListItem struct {
	ID                    uuid.UUID `json:"id"`
	Name                  string    `json:"name"`
	Address               string    `json:"address"`
	Region                string    `json:"region"`
	Status                string    `json:"status"`
	PersonSlotsAvailable  int       `json:"person_slots_available"`
	VehicleSlotsAvailable int       `json:"vehicle_slots_available"`
}

type UserView struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}
