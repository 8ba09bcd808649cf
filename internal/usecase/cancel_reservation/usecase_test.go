package cancel_reservation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Preton24/VehicleParking/internal/domain"
	"github.com/Preton24/VehicleParking/internal/testutil/memstore"
	"github.com/Preton24/VehicleParking/pkg/logger"
)

type recordingMetrics struct{ results []string }

func (m *recordingMetrics) ObserveReservation(_, result string) {
	m.results = append(m.results, result)
}

func setup(t *testing.T) (*memstore.Store, *UseCase, *domain.ParkingSlot, *domain.Reservation, *recordingMetrics) {
	t.Helper()
	store := memstore.New()
	lot := store.SeedLot(domain.ParkingLot{Name: "Central", Location: "Downtown"})
	slot := store.SeedSlot(domain.ParkingSlot{LotID: lot.ID, SlotNumber: "A-01", Status: domain.SlotOccupied})
	reservation := store.SeedReservation(domain.Reservation{
		UserID:        7,
		SlotID:        slot.ID,
		VehicleNumber: "AB123",
		StartTime:     time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		Status:        domain.ReservationActive,
	})
	m := &recordingMetrics{}
	uc := NewUseCase(store.Reservations(), store.Slots(), store.TxManager(), m, logger.NewNop())
	return store, uc, slot, reservation, m
}

func TestExecute_Success(t *testing.T) {
	store, uc, slot, reservation, m := setup(t)

	resp, err := uc.Execute(context.Background(), &Request{ReservationID: reservation.ID, Actor: domain.Actor{UserID: 7}})

	require.NoError(t, err)
	assert.Equal(t, string(domain.ReservationCancelled), resp.Status)

	saved, _ := store.Reservation(reservation.ID)
	assert.Equal(t, domain.ReservationCancelled, saved.Status)
	assert.Nil(t, saved.EndTime)
	assert.Nil(t, saved.Cost)

	current, _ := store.Slot(slot.ID)
	assert.Equal(t, domain.SlotAvailable, current.Status)
	assert.Equal(t, []string{"success"}, m.results)
}

func TestExecute_DoubleCancel(t *testing.T) {
	store, uc, _, reservation, _ := setup(t)
	req := &Request{ReservationID: reservation.ID, Actor: domain.Actor{UserID: 7}}

	_, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	_, err = uc.Execute(context.Background(), req)

	assert.ErrorIs(t, err, ErrInvalidState)
	saved, _ := store.Reservation(reservation.ID)
	assert.Equal(t, domain.ReservationCancelled, saved.Status)
}

func TestExecute_CompletedReservationCannotBeCancelled(t *testing.T) {
	store, uc, slot, _, _ := setup(t)
	cost := 50.0
	end := time.Date(2024, 5, 1, 11, 0, 0, 0, time.UTC)
	completed := store.SeedReservation(domain.Reservation{
		UserID:        7,
		SlotID:        slot.ID,
		VehicleNumber: "AB123",
		StartTime:     end.Add(-time.Hour),
		EndTime:       &end,
		Cost:          &cost,
		Status:        domain.ReservationCompleted,
	})

	_, err := uc.Execute(context.Background(), &Request{ReservationID: completed.ID, Actor: domain.Actor{UserID: 7}})

	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestExecute_Forbidden(t *testing.T) {
	store, uc, slot, reservation, m := setup(t)

	_, err := uc.Execute(context.Background(), &Request{ReservationID: reservation.ID, Actor: domain.Actor{UserID: 8}})

	assert.ErrorIs(t, err, ErrForbidden)
	current, _ := store.Slot(slot.ID)
	assert.Equal(t, domain.SlotOccupied, current.Status)
	assert.Equal(t, []string{"forbidden"}, m.results)
}

func TestExecute_AdminCancels(t *testing.T) {
	_, uc, _, reservation, _ := setup(t)

	_, err := uc.Execute(context.Background(), &Request{ReservationID: reservation.ID, Actor: domain.Actor{UserID: 1, IsAdmin: true}})

	assert.NoError(t, err)
}

func TestExecute_NotFound(t *testing.T) {
	_, uc, _, _, _ := setup(t)

	_, err := uc.Execute(context.Background(), &Request{ReservationID: 999, Actor: domain.Actor{UserID: 7}})

	assert.ErrorIs(t, err, ErrReservationNotFound)
}
