package shelter

import (
	"errors"
	"fmt"
)

type Status string

const (
	StatusOpen   Status = "open"
	StatusFull   Status = "full"
	StatusClosed Status = "closed"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusOpen, StatusFull, StatusClosed:
		return true
	default:
		return false
	}
}

type CapacityErrorKind string

const (
	KindInsufficientPersonSlots  CapacityErrorKind = "INSUFFICIENT_PERSON_SLOTS"
	KindInsufficientVehicleSlot  CapacityErrorKind = "INSUFFICIENT_VEHICLE_SLOT"
	KindNotAcceptingReservations CapacityErrorKind = "NOT_ACCEPTING_RESERVATIONS"
	KindCapacityBelowOccupancy   CapacityErrorKind = "CAPACITY_BELOW_OCCUPANCY"
)

// CapacityError is an expected business outcome of a ledger operation, not a
// fault. Available/Requested carry the counters observed at decision time.
type CapacityError struct {
	Kind      CapacityErrorKind
	Available int
	Requested int
}

func (e *CapacityError) Error() string {
	switch e.Kind {
	case KindInsufficientPersonSlots:
		return fmt.Sprintf("insufficient person slots: available %d, requested %d", e.Available, e.Requested)
	case KindInsufficientVehicleSlot:
		return "no vehicle slot available"
	case KindNotAcceptingReservations:
		return "shelter is not accepting reservations"
	case KindCapacityBelowOccupancy:
		return fmt.Sprintf("new capacity %d is below current occupancy %d", e.Requested, e.Available)
	default:
		return string(e.Kind)
	}
}

func IsCapacityErrorKind(err error, kind CapacityErrorKind) bool {
	var capErr *CapacityError
	if !errors.As(err, &capErr) {
		return false
	}
	return capErr.Kind == kind
}
