package response

import (
	"time"

	"ponabri-api/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type ReservationResponse struct {
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

type ReservationListItemResponse struct {
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

type ReservationListResponse struct {
	Items    []*ReservationListItemResponse `json:"items"`
	Total    int64                          `json:"total"`
	Page     int                            `json:"page"`
	PageSize int                            `json:"page_size"`
}

type CheckInSummaryResponse struct {
	ReservationID   uuid.UUID `json:"reservation_id"`
	Code            string    `json:"code"`
	UserID          uuid.UUID `json:"user_id"`
	UserName        string    `json:"user_name"`
	ShelterID       uuid.UUID `json:"shelter_id"`
	ShelterName     string    `json:"shelter_name"`
	PersonCount     int       `json:"person_count"`
	UsedVehicleSlot bool      `json:"used_vehicle_slot"`
}

type ValidationResponse struct {
	Valid   bool                    `json:"valid"`
	Summary *CheckInSummaryResponse `json:"summary,omitempty"`
}

func FromReservationView(v *queries.ReservationView) *ReservationResponse {
	var resp ReservationResponse
	_ = copier.Copy(&resp, v)
	return &resp
}

func FromReservationList(items []*queries.ReservationListItem, total int64, page, pageSize int) *ReservationListResponse {
	out := make([]*ReservationListItemResponse, len(items))
	for i, item := range items {
		var resp ReservationListItemResponse
		_ = copier.Copy(&resp, item)
		out[i] = &resp
	}
	return &ReservationListResponse{
		Items:    out,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}
}

func FromValidationResult(r *queries.ValidationResult) *ValidationResponse {
	resp := &ValidationResponse{Valid: r.Valid}
	if r.Summary != nil {
		var sum CheckInSummaryResponse
		_ = copier.Copy(&sum, r.Summary)
		resp.Summary = &sum
	}
	return resp
}
