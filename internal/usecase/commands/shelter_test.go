//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"ponabri-api/internal/domain/shelter"
	"ponabri-api/internal/pkg/clock"
	"ponabri-api/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedSuggester struct {
	label *string
}

func (s *fixedSuggester) Suggest(string) *string { return s.label }

func strPtr(v string) *string { return &v }
func intPtr(v int) *int       { return &v }
func boolPtr(v bool) *bool    { return &v }

func setupShelter(t *testing.T, label *string) (*fakeStore, commands.ShelterCommands) {
	t.Helper()
	store := newFakeStore()
	uc := commands.NewShelterUseCase(store, &fixedSuggester{label: label})
	return store, uc
}

func TestCreateShelter(t *testing.T) {
	ctx := context.Background()

	t.Run("stores the shelter with a suggested category", func(t *testing.T) {
		store, uc := setupShelter(t, strPtr("Familiar"))

		id, err := uc.Create(ctx, commands.CreateShelterInput{
			Name:            "Abrigo Central",
			Address:         "Rua A 100",
			Region:          "Centro",
			Description:     "Espaço para famílias com crianças",
			PersonCapacity:  20,
			VehicleCapacity: 5,
		})
		require.NoError(t, err)

		sh := store.shelters[id]
		require.NotNil(t, sh)
		assert.Equal(t, 20, sh.PersonSlotsAvailable())
		assert.Equal(t, 5, sh.VehicleSlotsAvailable())
		assert.Equal(t, shelter.StatusOpen, sh.Status())
		require.NotNil(t, sh.SuggestedCategory())
		assert.Equal(t, "Familiar", *sh.SuggestedCategory())
	})

	t.Run("empty description skips the suggester", func(t *testing.T) {
		store, uc := setupShelter(t, strPtr("Geral"))

		id, err := uc.Create(ctx, commands.CreateShelterInput{
			Name:           "Abrigo B",
			Address:        "Rua B 1",
			Region:         "Norte",
			PersonCapacity: 5,
		})
		require.NoError(t, err)

		assert.Nil(t, store.shelters[id].SuggestedCategory())
	})

	t.Run("invalid input", func(t *testing.T) {
		_, uc := setupShelter(t, nil)

		_, err := uc.Create(ctx, commands.CreateShelterInput{
			Name:           "",
			Address:        "Rua A",
			PersonCapacity: 5,
		})
		assert.ErrorIs(t, err, commands.ErrInvalidShelter)

		_, err = uc.Create(ctx, commands.CreateShelterInput{
			Name:           "Abrigo",
			Address:        "Rua A",
			PersonCapacity: 0,
		})
		assert.ErrorIs(t, err, commands.ErrInvalidShelter)
	})
}

func TestUpdateShelter(t *testing.T) {
	ctx := context.Background()

	seed := func(t *testing.T, store *fakeStore, personCapacity, vehicleCapacity int) uuid.UUID {
		t.Helper()
		sh, err := shelter.NewShelter("Abrigo Central", "Rua A 100", "Centro", "", "", personCapacity, vehicleCapacity, nil)
		require.NoError(t, err)
		store.putShelter(sh)
		return sh.ID()
	}

	t.Run("partial update keeps untouched fields", func(t *testing.T) {
		store, uc := setupShelter(t, nil)
		id := seed(t, store, 10, 2)

		err := uc.Update(ctx, id, commands.UpdateShelterInput{
			Name: strPtr("Abrigo Renomeado"),
		})
		require.NoError(t, err)

		sh := store.shelters[id]
		assert.Equal(t, "Abrigo Renomeado", sh.Name())
		assert.Equal(t, "Rua A 100", sh.Address())
		assert.Equal(t, 10, sh.PersonCapacity())
	})

	t.Run("resize below occupancy is rejected", func(t *testing.T) {
		store, uc := setupShelter(t, nil)
		id := seed(t, store, 10, 0)

		reserveVia(t, store, id, 6)

		err := uc.Update(ctx, id, commands.UpdateShelterInput{
			PersonCapacity: intPtr(5),
		})
		assert.ErrorIs(t, err, commands.ErrCapacityBelowOccupancy)
		assert.Equal(t, 10, store.shelters[id].PersonCapacity())
	})

	t.Run("close and reopen through the status override", func(t *testing.T) {
		store, uc := setupShelter(t, nil)
		id := seed(t, store, 10, 0)

		require.NoError(t, uc.Update(ctx, id, commands.UpdateShelterInput{Closed: boolPtr(true)}))
		assert.Equal(t, shelter.StatusClosed, store.shelters[id].Status())

		require.NoError(t, uc.Update(ctx, id, commands.UpdateShelterInput{Closed: boolPtr(false)}))
		assert.Equal(t, shelter.StatusOpen, store.shelters[id].Status())
	})

	t.Run("description refreshes the suggested category", func(t *testing.T) {
		store, uc := setupShelter(t, strPtr("PetFriendly"))
		id := seed(t, store, 10, 0)

		err := uc.Update(ctx, id, commands.UpdateShelterInput{
			Description: strPtr("Aceitamos cães e gatos"),
		})
		require.NoError(t, err)

		require.NotNil(t, store.shelters[id].SuggestedCategory())
		assert.Equal(t, "PetFriendly", *store.shelters[id].SuggestedCategory())
	})

	t.Run("unknown shelter", func(t *testing.T) {
		_, uc := setupShelter(t, nil)

		err := uc.Update(ctx, uuid.New(), commands.UpdateShelterInput{Name: strPtr("x")})
		assert.ErrorIs(t, err, commands.ErrShelterNotFound)
	})
}

func TestDeleteShelter(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes an empty shelter", func(t *testing.T) {
		store, uc := setupShelter(t, nil)
		sh, err := shelter.NewShelter("Abrigo", "Rua A", "Centro", "", "", 5, 0, nil)
		require.NoError(t, err)
		store.putShelter(sh)

		require.NoError(t, uc.Delete(ctx, sh.ID()))
		assert.NotContains(t, store.shelters, sh.ID())
	})

	t.Run("refuses while active reservations exist", func(t *testing.T) {
		store, uc := setupShelter(t, nil)
		sh, err := shelter.NewShelter("Abrigo", "Rua A", "Centro", "", "", 5, 0, nil)
		require.NoError(t, err)
		store.putShelter(sh)

		reserveVia(t, store, sh.ID(), 2)

		err = uc.Delete(ctx, sh.ID())
		assert.ErrorIs(t, err, commands.ErrShelterHasActiveReservations)
		assert.Contains(t, store.shelters, sh.ID())
	})

	t.Run("repository rejection keeps referenced shelters alive past the active count", func(t *testing.T) {
		store, uc := setupShelter(t, nil)
		sh, err := shelter.NewShelter("Abrigo", "Rua A", "Centro", "", "", 5, 0, nil)
		require.NoError(t, err)
		store.putShelter(sh)

		// A cancelled reservation clears the active count but its row still
		// references the shelter, the same shape as a racing create that
		// commits between the count and the delete.
		rsvID := reserveVia(t, store, sh.ID(), 2)
		cancelVia(t, store, rsvID)

		err = uc.Delete(ctx, sh.ID())
		assert.ErrorIs(t, err, commands.ErrShelterHasActiveReservations)
		assert.Contains(t, store.shelters, sh.ID())
	})
}

// reserveVia books through the reservation use case so the fake store holds a
// consistent ledger plus active reservation rows.
func reserveVia(t *testing.T, store *fakeStore, shelterID uuid.UUID, personCount int) uuid.UUID {
	t.Helper()
	clk := clock.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	uc := commands.NewReservationUseCase(store, &fakeReservationQueries{store: store}, clk)
	view, err := uc.Create(context.Background(), commands.CreateReservationInput{
		ShelterID:   shelterID,
		PersonCount: personCount,
	}, uuid.New())
	require.NoError(t, err)
	return view.ID
}

func cancelVia(t *testing.T, store *fakeStore, reservationID uuid.UUID) {
	t.Helper()
	clk := clock.NewMockClock(time.Date(2025, 6, 1, 13, 0, 0, 0, time.UTC))
	uc := commands.NewReservationUseCase(store, &fakeReservationQueries{store: store}, clk)
	_, err := uc.Cancel(context.Background(), reservationID, uuid.New(), true)
	require.NoError(t, err)
}
