//go:build unit

package shelter_test

import (
	"testing"

	"ponabri-api/internal/domain/shelter"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newShelter(t *testing.T, personCapacity, vehicleCapacity int) *shelter.Shelter {
	t.Helper()
	s, err := shelter.NewShelter("Abrigo Central", "Rua A 100", "Centro", "11 99999-0000", "", personCapacity, vehicleCapacity, nil)
	require.NoError(t, err)
	return s
}

func intPtr(v int) *int { return &v }

func TestNewShelter(t *testing.T) {
	t.Run("starts open with availability equal to capacity", func(t *testing.T) {
		s := newShelter(t, 10, 3)

		assert.Equal(t, shelter.StatusOpen, s.Status())
		assert.Equal(t, 10, s.PersonSlotsAvailable())
		assert.Equal(t, 3, s.VehicleSlotsAvailable())
	})

	t.Run("validation", func(t *testing.T) {
		cases := []struct {
			name            string
			shelterName     string
			address         string
			personCapacity  int
			vehicleCapacity int
			errIs           error
		}{
			{name: "empty name", shelterName: "", address: "Rua A", personCapacity: 5, errIs: shelter.ErrInvalidName},
			{name: "whitespace name", shelterName: "  ", address: "Rua A", personCapacity: 5, errIs: shelter.ErrInvalidName},
			{name: "empty address", shelterName: "Abrigo", address: "", personCapacity: 5, errIs: shelter.ErrInvalidAddress},
			{name: "zero person capacity", shelterName: "Abrigo", address: "Rua A", personCapacity: 0, errIs: shelter.ErrInvalidCapacity},
			{name: "negative vehicle capacity", shelterName: "Abrigo", address: "Rua A", personCapacity: 5, vehicleCapacity: -1, errIs: shelter.ErrInvalidCapacity},
			{name: "zero vehicle capacity allowed", shelterName: "Abrigo", address: "Rua A", personCapacity: 5, vehicleCapacity: 0},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := shelter.NewShelter(tc.shelterName, tc.address, "Centro", "", "", tc.personCapacity, tc.vehicleCapacity, nil)
				if tc.errIs != nil {
					assert.ErrorIs(t, err, tc.errIs)
				} else {
					assert.NoError(t, err)
				}
			})
		}
	})
}

func TestShelterReserve(t *testing.T) {
	t.Run("decrements both dimensions", func(t *testing.T) {
		s := newShelter(t, 10, 2)

		require.NoError(t, s.Reserve(3, true))

		assert.Equal(t, 7, s.PersonSlotsAvailable())
		assert.Equal(t, 1, s.VehicleSlotsAvailable())
		assert.Equal(t, shelter.StatusOpen, s.Status())
	})

	t.Run("without vehicle slot leaves vehicle counter alone", func(t *testing.T) {
		s := newShelter(t, 10, 2)

		require.NoError(t, s.Reserve(4, false))

		assert.Equal(t, 2, s.VehicleSlotsAvailable())
	})

	t.Run("rejects person count below one", func(t *testing.T) {
		s := newShelter(t, 10, 2)

		assert.ErrorIs(t, s.Reserve(0, false), shelter.ErrInvalidPersonCount)
		assert.ErrorIs(t, s.Reserve(-2, false), shelter.ErrInvalidPersonCount)
		assert.Equal(t, 10, s.PersonSlotsAvailable())
	})

	t.Run("insufficient person slots reports numbers and mutates nothing", func(t *testing.T) {
		s := newShelter(t, 5, 1)
		require.NoError(t, s.Reserve(3, false))

		err := s.Reserve(3, true)

		require.Error(t, err)
		assert.True(t, shelter.IsCapacityErrorKind(err, shelter.KindInsufficientPersonSlots))
		var capErr *shelter.CapacityError
		require.ErrorAs(t, err, &capErr)
		assert.Equal(t, 2, capErr.Available)
		assert.Equal(t, 3, capErr.Requested)
		assert.Equal(t, 2, s.PersonSlotsAvailable())
		assert.Equal(t, 1, s.VehicleSlotsAvailable())
	})

	t.Run("vehicle slot exhausted rejects only vehicle requests", func(t *testing.T) {
		s := newShelter(t, 10, 1)
		require.NoError(t, s.Reserve(1, true))

		err := s.Reserve(1, true)
		require.Error(t, err)
		assert.True(t, shelter.IsCapacityErrorKind(err, shelter.KindInsufficientVehicleSlot))

		// Still open for person-only reservations.
		assert.Equal(t, shelter.StatusOpen, s.Status())
		assert.NoError(t, s.Reserve(1, false))
	})

	t.Run("exhausting person slots flips status to full", func(t *testing.T) {
		s := newShelter(t, 4, 0)

		require.NoError(t, s.Reserve(4, false))

		assert.Equal(t, shelter.StatusFull, s.Status())
		err := s.Reserve(1, false)
		require.Error(t, err)
		assert.True(t, shelter.IsCapacityErrorKind(err, shelter.KindNotAcceptingReservations))
	})

	t.Run("closed shelter rejects regardless of availability", func(t *testing.T) {
		s := newShelter(t, 10, 2)
		s.Close()

		err := s.Reserve(1, false)
		require.Error(t, err)
		assert.True(t, shelter.IsCapacityErrorKind(err, shelter.KindNotAcceptingReservations))
		assert.Equal(t, 10, s.PersonSlotsAvailable())
	})

	t.Run("acceptance check runs before person count validation", func(t *testing.T) {
		s := newShelter(t, 10, 2)
		s.Close()

		err := s.Reserve(0, false)
		require.Error(t, err)
		assert.True(t, shelter.IsCapacityErrorKind(err, shelter.KindNotAcceptingReservations))
	})
}

func TestShelterRelease(t *testing.T) {
	t.Run("round trip restores counters and status", func(t *testing.T) {
		s := newShelter(t, 5, 1)
		require.NoError(t, s.Reserve(5, true))
		require.Equal(t, shelter.StatusFull, s.Status())

		s.Release(5, true)

		assert.Equal(t, 5, s.PersonSlotsAvailable())
		assert.Equal(t, 1, s.VehicleSlotsAvailable())
		assert.Equal(t, shelter.StatusOpen, s.Status())
	})

	t.Run("caps counters at capacity", func(t *testing.T) {
		s := newShelter(t, 5, 1)
		require.NoError(t, s.Reserve(2, false))

		s.Release(100, true)

		assert.Equal(t, 5, s.PersonSlotsAvailable())
		assert.Equal(t, 1, s.VehicleSlotsAvailable())
	})

	t.Run("never reopens a closed shelter", func(t *testing.T) {
		s := newShelter(t, 5, 0)
		require.NoError(t, s.Reserve(3, false))
		s.Close()

		s.Release(3, false)

		assert.Equal(t, shelter.StatusClosed, s.Status())
		assert.Equal(t, 5, s.PersonSlotsAvailable())
	})
}

func TestShelterResize(t *testing.T) {
	t.Run("growing capacity grows availability", func(t *testing.T) {
		s := newShelter(t, 5, 1)
		require.NoError(t, s.Reserve(2, true))

		require.NoError(t, s.Resize(intPtr(8), intPtr(3)))

		assert.Equal(t, 8, s.PersonCapacity())
		assert.Equal(t, 6, s.PersonSlotsAvailable())
		assert.Equal(t, 3, s.VehicleCapacity())
		assert.Equal(t, 2, s.VehicleSlotsAvailable())
	})

	t.Run("shrinking to exactly the occupancy yields a full shelter", func(t *testing.T) {
		s := newShelter(t, 10, 0)
		require.NoError(t, s.Reserve(4, false))

		require.NoError(t, s.Resize(intPtr(4), nil))

		assert.Equal(t, 0, s.PersonSlotsAvailable())
		assert.Equal(t, shelter.StatusFull, s.Status())
	})

	t.Run("rejects capacity below occupancy against the pre-change snapshot", func(t *testing.T) {
		s := newShelter(t, 10, 2)
		require.NoError(t, s.Reserve(6, true))

		err := s.Resize(intPtr(5), nil)

		require.Error(t, err)
		assert.True(t, shelter.IsCapacityErrorKind(err, shelter.KindCapacityBelowOccupancy))
		assert.Equal(t, 10, s.PersonCapacity())
		assert.Equal(t, 4, s.PersonSlotsAvailable())
	})

	t.Run("either dimension below occupancy rejects the whole resize", func(t *testing.T) {
		s := newShelter(t, 10, 2)
		require.NoError(t, s.Reserve(2, true))
		require.NoError(t, s.Reserve(2, true))

		err := s.Resize(intPtr(20), intPtr(1))

		require.Error(t, err)
		assert.True(t, shelter.IsCapacityErrorKind(err, shelter.KindCapacityBelowOccupancy))
		assert.Equal(t, 10, s.PersonCapacity())
		assert.Equal(t, 2, s.VehicleCapacity())
	})

	t.Run("nil dimensions keep their values", func(t *testing.T) {
		s := newShelter(t, 10, 2)

		require.NoError(t, s.Resize(nil, nil))

		assert.Equal(t, 10, s.PersonCapacity())
		assert.Equal(t, 2, s.VehicleCapacity())
	})

	t.Run("growing a full shelter reopens it", func(t *testing.T) {
		s := newShelter(t, 3, 0)
		require.NoError(t, s.Reserve(3, false))
		require.Equal(t, shelter.StatusFull, s.Status())

		require.NoError(t, s.Resize(intPtr(5), nil))

		assert.Equal(t, shelter.StatusOpen, s.Status())
		assert.Equal(t, 2, s.PersonSlotsAvailable())
	})
}

func TestShelterStatusPolicy(t *testing.T) {
	t.Run("vehicle exhaustion alone never flips status to full", func(t *testing.T) {
		s := newShelter(t, 10, 1)

		require.NoError(t, s.Reserve(1, true))

		assert.Equal(t, 0, s.VehicleSlotsAvailable())
		assert.Equal(t, shelter.StatusOpen, s.Status())
	})

	t.Run("reopen lands on full when person slots are exhausted", func(t *testing.T) {
		s := newShelter(t, 2, 0)
		require.NoError(t, s.Reserve(2, false))
		s.Close()

		s.Reopen()

		assert.Equal(t, shelter.StatusFull, s.Status())
	})

	t.Run("close wins over counter-derived status", func(t *testing.T) {
		s := newShelter(t, 2, 0)
		s.Close()
		require.Equal(t, shelter.StatusClosed, s.Status())

		s.Reopen()
		assert.Equal(t, shelter.StatusOpen, s.Status())
	})
}
