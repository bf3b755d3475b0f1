package reservation

import (
	"time"

	"ponabri-api/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrInvalidPersonCount = errs.New("person count must be at least 1")
	ErrInvalidCode        = errs.New("invalid reservation code")
	ErrInvalidTransition  = errs.New("reservation is not active")
)

// Reservation is a claim against a shelter's slots. Its held slots are
// reflected in the shelter's counters exactly while status is active;
// Cancel and Complete are the only exits and both happen at most once.
type Reservation struct {
	id              uuid.UUID
	code            string
	userID          uuid.UUID
	shelterID       uuid.UUID
	personCount     int
	usedVehicleSlot bool
	status          Status
	createdAt       time.Time
	updatedAt       time.Time
}

func NewReservation(userID, shelterID uuid.UUID, personCount int, usedVehicleSlot bool, code string, now time.Time) (*Reservation, error) {
	if personCount < 1 {
		return nil, ErrInvalidPersonCount
	}
	if !IsValidCode(code) {
		return nil, ErrInvalidCode
	}

	return &Reservation{
		id:              uuid.New(),
		code:            code,
		userID:          userID,
		shelterID:       shelterID,
		personCount:     personCount,
		usedVehicleSlot: usedVehicleSlot,
		status:          StatusActive,
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

func ReconstructReservation(
	id uuid.UUID,
	code string,
	userID, shelterID uuid.UUID,
	personCount int,
	usedVehicleSlot bool,
	status Status,
	createdAt, updatedAt time.Time,
) *Reservation {
	return &Reservation{
		id:              id,
		code:            code,
		userID:          userID,
		shelterID:       shelterID,
		personCount:     personCount,
		usedVehicleSlot: usedVehicleSlot,
		status:          status,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

func (r *Reservation) Cancel() error {
	if r.status != StatusActive {
		return ErrInvalidTransition
	}
	r.status = StatusCancelled
	return nil
}

func (r *Reservation) Complete() error {
	if r.status != StatusActive {
		return ErrInvalidTransition
	}
	r.status = StatusCompleted
	return nil
}

// RegenerateCode swaps in a fresh code after a uniqueness violation at
// persistence time. Only valid before the reservation has been stored.
func (r *Reservation) RegenerateCode() {
	r.code = NewCode()
}

func (r *Reservation) IsActive() bool {
	return r.status == StatusActive
}

func (r *Reservation) IsOwnedBy(userID uuid.UUID) bool {
	return r.userID == userID
}

func (r *Reservation) Touch(now time.Time) {
	r.updatedAt = now
}

func (r *Reservation) ID() uuid.UUID        { return r.id }
func (r *Reservation) Code() string         { return r.code }
func (r *Reservation) UserID() uuid.UUID    { return r.userID }
func (r *Reservation) ShelterID() uuid.UUID { return r.shelterID }
func (r *Reservation) PersonCount() int     { return r.personCount }
func (r *Reservation) UsedVehicleSlot() bool {
	return r.usedVehicleSlot
}
func (r *Reservation) Status() Status       { return r.status }
func (r *Reservation) CreatedAt() time.Time { return r.createdAt }
func (r *Reservation) UpdatedAt() time.Time { return r.updatedAt }
