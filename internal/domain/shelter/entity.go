package shelter

import (
	"strings"
	"time"

	"ponabri-api/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrInvalidName        = errs.New("shelter name is required")
	ErrInvalidAddress     = errs.New("shelter address is required")
	ErrInvalidCapacity    = errs.New("invalid shelter capacity")
	ErrInvalidPersonCount = errs.New("person count must be at least 1")
)

// Shelter is the capacity ledger: its slot counters are mutated only through
// Reserve, Release and Resize, and status is derived in exactly one place.
type Shelter struct {
	id                    uuid.UUID
	name                  string
	address               string
	region                string
	contact               string
	description           string
	suggestedCategory     *string
	personCapacity        int
	personSlotsAvailable  int
	vehicleCapacity       int
	vehicleSlotsAvailable int
	status                Status
	version               int64
	createdAt             time.Time
	updatedAt             time.Time
}

func NewShelter(name, address, region, contact, description string, personCapacity, vehicleCapacity int, suggestedCategory *string) (*Shelter, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidName
	}
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, ErrInvalidAddress
	}
	if personCapacity < 1 || vehicleCapacity < 0 {
		return nil, ErrInvalidCapacity
	}

	return &Shelter{
		id:                    uuid.New(),
		name:                  name,
		address:               address,
		region:                strings.TrimSpace(region),
		contact:               strings.TrimSpace(contact),
		description:           strings.TrimSpace(description),
		suggestedCategory:     suggestedCategory,
		personCapacity:        personCapacity,
		personSlotsAvailable:  personCapacity,
		vehicleCapacity:       vehicleCapacity,
		vehicleSlotsAvailable: vehicleCapacity,
		status:                StatusOpen,
	}, nil
}

func ReconstructShelter(
	id uuid.UUID,
	name, address, region, contact, description string,
	suggestedCategory *string,
	personCapacity, personSlotsAvailable, vehicleCapacity, vehicleSlotsAvailable int,
	status Status,
	version int64,
	createdAt, updatedAt time.Time,
) *Shelter {
	return &Shelter{
		id:                    id,
		name:                  name,
		address:               address,
		region:                region,
		contact:               contact,
		description:           description,
		suggestedCategory:     suggestedCategory,
		personCapacity:        personCapacity,
		personSlotsAvailable:  personSlotsAvailable,
		vehicleCapacity:       vehicleCapacity,
		vehicleSlotsAvailable: vehicleSlotsAvailable,
		status:                status,
		version:               version,
		createdAt:             createdAt,
		updatedAt:             updatedAt,
	}
}

// Reserve consumes personCount person slots and, if wantsVehicleSlot, one
// vehicle slot. Checks run in a fixed order so the reported failure is
// deterministic: acceptance, person count, person slots, vehicle slot.
func (s *Shelter) Reserve(personCount int, wantsVehicleSlot bool) error {
	if s.status != StatusOpen {
		return &CapacityError{Kind: KindNotAcceptingReservations}
	}
	if personCount < 1 {
		return ErrInvalidPersonCount
	}
	if s.personSlotsAvailable < personCount {
		return &CapacityError{
			Kind:      KindInsufficientPersonSlots,
			Available: s.personSlotsAvailable,
			Requested: personCount,
		}
	}
	if wantsVehicleSlot && s.vehicleSlotsAvailable < 1 {
		return &CapacityError{
			Kind:      KindInsufficientVehicleSlot,
			Available: s.vehicleSlotsAvailable,
			Requested: 1,
		}
	}

	s.personSlotsAvailable -= personCount
	if wantsVehicleSlot {
		s.vehicleSlotsAvailable--
	}
	s.recomputeStatus()
	return nil
}

// Release returns slots held by a reservation. Counters are capped at
// capacity. A full shelter reopens; a closed shelter stays closed.
func (s *Shelter) Release(personCount int, releasedVehicleSlot bool) {
	s.personSlotsAvailable += personCount
	if s.personSlotsAvailable > s.personCapacity {
		s.personSlotsAvailable = s.personCapacity
	}
	if releasedVehicleSlot {
		s.vehicleSlotsAvailable++
		if s.vehicleSlotsAvailable > s.vehicleCapacity {
			s.vehicleSlotsAvailable = s.vehicleCapacity
		}
	}
	s.recomputeStatus()
}

// Resize changes one or both capacities. It fails when a new capacity is below
// the currently occupied slots, computed against the pre-change snapshot;
// otherwise availability is recomputed so held reservations stay valid.
func (s *Shelter) Resize(newPersonCapacity, newVehicleCapacity *int) error {
	if newPersonCapacity != nil {
		occupied := s.personCapacity - s.personSlotsAvailable
		if *newPersonCapacity < occupied {
			return &CapacityError{
				Kind:      KindCapacityBelowOccupancy,
				Available: occupied,
				Requested: *newPersonCapacity,
			}
		}
	}
	if newVehicleCapacity != nil {
		occupied := s.vehicleCapacity - s.vehicleSlotsAvailable
		if *newVehicleCapacity < occupied {
			return &CapacityError{
				Kind:      KindCapacityBelowOccupancy,
				Available: occupied,
				Requested: *newVehicleCapacity,
			}
		}
	}

	if newPersonCapacity != nil {
		occupied := s.personCapacity - s.personSlotsAvailable
		s.personCapacity = *newPersonCapacity
		s.personSlotsAvailable = s.personCapacity - occupied
	}
	if newVehicleCapacity != nil {
		occupied := s.vehicleCapacity - s.vehicleSlotsAvailable
		s.vehicleCapacity = *newVehicleCapacity
		s.vehicleSlotsAvailable = s.vehicleCapacity - occupied
	}
	s.recomputeStatus()
	return nil
}

// Close is the administrative stop: no reservations are accepted until Reopen.
func (s *Shelter) Close() {
	s.status = StatusClosed
}

// Reopen clears an administrative close. The shelter lands on open or full
// depending on its counters.
func (s *Shelter) Reopen() {
	s.status = StatusOpen
	s.recomputeStatus()
}

func (s *Shelter) SetDetails(name, address, region, contact *string) {
	if name != nil && strings.TrimSpace(*name) != "" {
		s.name = strings.TrimSpace(*name)
	}
	if address != nil && strings.TrimSpace(*address) != "" {
		s.address = strings.TrimSpace(*address)
	}
	if region != nil {
		s.region = strings.TrimSpace(*region)
	}
	if contact != nil {
		s.contact = strings.TrimSpace(*contact)
	}
}

func (s *Shelter) SetDescription(description string, suggestedCategory *string) {
	s.description = strings.TrimSpace(description)
	s.suggestedCategory = suggestedCategory
}

// recomputeStatus is the single place status is derived from counters.
// Full is keyed on the person dimension only: vehicle exhaustion alone never
// flips the shelter to full. An administrative close always wins.
func (s *Shelter) recomputeStatus() {
	if s.status == StatusClosed {
		return
	}
	if s.personSlotsAvailable == 0 {
		s.status = StatusFull
		return
	}
	s.status = StatusOpen
}

func (s *Shelter) ID() uuid.UUID              { return s.id }
func (s *Shelter) Name() string               { return s.name }
func (s *Shelter) Address() string            { return s.address }
func (s *Shelter) Region() string             { return s.region }
func (s *Shelter) Contact() string            { return s.contact }
func (s *Shelter) Description() string        { return s.description }
func (s *Shelter) SuggestedCategory() *string { return s.suggestedCategory }
func (s *Shelter) PersonCapacity() int        { return s.personCapacity }
func (s *Shelter) PersonSlotsAvailable() int  { return s.personSlotsAvailable }
func (s *Shelter) VehicleCapacity() int       { return s.vehicleCapacity }
func (s *Shelter) VehicleSlotsAvailable() int { return s.vehicleSlotsAvailable }
func (s *Shelter) Status() Status             { return s.status }
func (s *Shelter) Version() int64             { return s.version }
func (s *Shelter) CreatedAt() time.Time       { return s.createdAt }
func (s *Shelter) UpdatedAt() time.Time       { return s.updatedAt }
