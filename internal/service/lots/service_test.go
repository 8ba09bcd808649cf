package lots

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Preton24/VehicleParking/internal/domain"
	"github.com/Preton24/VehicleParking/internal/service/lots/models"
	"github.com/Preton24/VehicleParking/internal/testutil/memstore"
	"github.com/Preton24/VehicleParking/pkg/logger"
	"github.com/Preton24/VehicleParking/pkg/ptr"
)

func newService(t *testing.T) (*Service, *memstore.Store) {
	t.Helper()
	store := memstore.New()
	svc := NewService(store.Lots(), store.Slots(), store.Reservations(), store.TxManager(), logger.NewNop())
	return svc, store
}

func TestCreateLot(t *testing.T) {
	svc, _ := newService(t)

	resp, err := svc.CreateLot(context.Background(), &models.LotRequest{
		Name:                 "  Central ",
		Location:             "Downtown",
		Price:                ptr.Ptr(40.0),
		Address:              ptr.Ptr("   "),
		MaximumNumberOfSpots: ptr.Ptr(2),
	})

	require.NoError(t, err)
	assert.Equal(t, "Central", resp.Name)
	assert.Nil(t, resp.Address)
	assert.Equal(t, 40.0, *resp.Price)

	_, err = svc.CreateLot(context.Background(), &models.LotRequest{Name: "Central", Location: "Elsewhere"})
	assert.ErrorIs(t, err, ErrLotNameTaken)
}

func TestCreateLot_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  models.LotRequest
	}{
		{name: "missing name", req: models.LotRequest{Location: "Downtown"}},
		{name: "missing location", req: models.LotRequest{Name: "Central", Location: " "}},
		{name: "negative price", req: models.LotRequest{Name: "Central", Location: "Downtown", Price: ptr.Ptr(-1.0)}},
		{name: "negative capacity", req: models.LotRequest{Name: "Central", Location: "Downtown", MaximumNumberOfSpots: ptr.Ptr(-3)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newService(t)
			req := tt.req

			_, err := svc.CreateLot(context.Background(), &req)

			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestCreateSlot_CapacityAndUniqueness(t *testing.T) {
	svc, store := newService(t)
	lot := store.SeedLot(domain.ParkingLot{Name: "Central", Location: "Downtown", MaximumNumberOfSpots: ptr.Ptr(2)})

	_, err := svc.CreateSlot(context.Background(), lot.ID, &models.CreateSlotRequest{SlotNumber: "A-01"})
	require.NoError(t, err)

	_, err = svc.CreateSlot(context.Background(), lot.ID, &models.CreateSlotRequest{SlotNumber: "A-01"})
	assert.ErrorIs(t, err, ErrSlotNumberTaken)

	_, err = svc.CreateSlot(context.Background(), lot.ID, &models.CreateSlotRequest{SlotNumber: "A-02"})
	require.NoError(t, err)

	_, err = svc.CreateSlot(context.Background(), lot.ID, &models.CreateSlotRequest{SlotNumber: "A-03"})
	assert.ErrorIs(t, err, ErrCapacityReached)

	list, err := svc.ListSlots(context.Background(), lot.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, list.Total)
	assert.Equal(t, "A-01", list.Slots[0].SlotNumber)
	assert.Equal(t, string(domain.SlotAvailable), list.Slots[0].Status)
}

func TestCreateSlot_UnknownLot(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.CreateSlot(context.Background(), 42, &models.CreateSlotRequest{SlotNumber: "A-01"})

	assert.ErrorIs(t, err, ErrLotNotFound)
}

func TestUpdateSlotStatus(t *testing.T) {
	svc, store := newService(t)
	lot := store.SeedLot(domain.ParkingLot{Name: "Central", Location: "Downtown"})
	free := store.SeedSlot(domain.ParkingSlot{LotID: lot.ID, SlotNumber: "A-01"})
	busy := store.SeedSlot(domain.ParkingSlot{LotID: lot.ID, SlotNumber: "A-02", Status: domain.SlotOccupied})
	store.SeedReservation(domain.Reservation{UserID: 1, SlotID: busy.ID, VehicleNumber: "X", StartTime: time.Now(), Status: domain.ReservationActive})

	t.Run("maintenance on free slot", func(t *testing.T) {
		resp, err := svc.UpdateSlotStatus(context.Background(), free.ID, &models.UpdateSlotStatusRequest{Status: "maintenance"})
		require.NoError(t, err)
		assert.Equal(t, "maintenance", resp.Status)
	})

	t.Run("occupied cannot be set manually", func(t *testing.T) {
		_, err := svc.UpdateSlotStatus(context.Background(), free.ID, &models.UpdateSlotStatusRequest{Status: "occupied"})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("unknown status", func(t *testing.T) {
		_, err := svc.UpdateSlotStatus(context.Background(), free.ID, &models.UpdateSlotStatusRequest{Status: "booked"})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("slot with active reservation", func(t *testing.T) {
		_, err := svc.UpdateSlotStatus(context.Background(), busy.ID, &models.UpdateSlotStatusRequest{Status: "maintenance"})
		assert.ErrorIs(t, err, ErrSlotInUse)
		current, _ := store.Slot(busy.ID)
		assert.Equal(t, domain.SlotOccupied, current.Status)
	})
}

func TestDeleteSlot(t *testing.T) {
	svc, store := newService(t)
	lot := store.SeedLot(domain.ParkingLot{Name: "Central", Location: "Downtown"})
	free := store.SeedSlot(domain.ParkingSlot{LotID: lot.ID, SlotNumber: "A-01"})
	busy := store.SeedSlot(domain.ParkingSlot{LotID: lot.ID, SlotNumber: "A-02", Status: domain.SlotOccupied})
	store.SeedReservation(domain.Reservation{UserID: 1, SlotID: free.ID, VehicleNumber: "X", StartTime: time.Now(), Status: domain.ReservationCancelled})
	store.SeedReservation(domain.Reservation{UserID: 1, SlotID: busy.ID, VehicleNumber: "Y", StartTime: time.Now(), Status: domain.ReservationActive})

	require.NoError(t, svc.DeleteSlot(context.Background(), free.ID))
	_, ok := store.Slot(free.ID)
	assert.False(t, ok)
	assert.Equal(t, 1, store.ReservationCount())

	assert.ErrorIs(t, svc.DeleteSlot(context.Background(), busy.ID), ErrSlotInUse)
	assert.ErrorIs(t, svc.DeleteSlot(context.Background(), 999), ErrSlotNotFound)
}

func TestDeleteLot_Cascade(t *testing.T) {
	svc, store := newService(t)
	lot := store.SeedLot(domain.ParkingLot{Name: "Central", Location: "Downtown"})
	other := store.SeedLot(domain.ParkingLot{Name: "Airport", Location: "North"})
	s1 := store.SeedSlot(domain.ParkingSlot{LotID: lot.ID, SlotNumber: "A-01", Status: domain.SlotOccupied})
	s2 := store.SeedSlot(domain.ParkingSlot{LotID: lot.ID, SlotNumber: "A-02"})
	kept := store.SeedSlot(domain.ParkingSlot{LotID: other.ID, SlotNumber: "B-01"})
	store.SeedReservation(domain.Reservation{UserID: 1, SlotID: s1.ID, VehicleNumber: "X", StartTime: time.Now(), Status: domain.ReservationActive})
	store.SeedReservation(domain.Reservation{UserID: 2, SlotID: s2.ID, VehicleNumber: "Y", StartTime: time.Now(), Status: domain.ReservationCancelled})
	store.SeedReservation(domain.Reservation{UserID: 3, SlotID: kept.ID, VehicleNumber: "Z", StartTime: time.Now(), Status: domain.ReservationActive})

	resp, err := svc.DeleteLot(context.Background(), lot.ID)

	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.DeletedSlots)
	assert.Equal(t, int64(2), resp.DeletedReservations)
	_, ok := store.Slot(s1.ID)
	assert.False(t, ok)
	_, ok = store.Slot(kept.ID)
	assert.True(t, ok)
	assert.Equal(t, 1, store.ReservationCount())

	_, err = svc.DeleteLot(context.Background(), lot.ID)
	assert.ErrorIs(t, err, ErrLotNotFound)
}

func TestDeleteLot_RollbackOnFailure(t *testing.T) {
	svc, store := newService(t)
	lot := store.SeedLot(domain.ParkingLot{Name: "Central", Location: "Downtown"})
	slot := store.SeedSlot(domain.ParkingSlot{LotID: lot.ID, SlotNumber: "A-01"})
	store.SeedReservation(domain.Reservation{UserID: 1, SlotID: slot.ID, VehicleNumber: "X", StartTime: time.Now(), Status: domain.ReservationCancelled})
	store.FailOn["Lots.Delete"] = errors.New("connection reset")

	_, err := svc.DeleteLot(context.Background(), lot.ID)

	assert.ErrorIs(t, err, ErrInternal)
	_, ok := store.Slot(slot.ID)
	assert.True(t, ok)
	assert.Equal(t, 1, store.ReservationCount())
}

func TestUpdateLot(t *testing.T) {
	svc, store := newService(t)
	lot := store.SeedLot(domain.ParkingLot{Name: "Central", Location: "Downtown"})
	store.SeedLot(domain.ParkingLot{Name: "Airport", Location: "North"})

	resp, err := svc.UpdateLot(context.Background(), lot.ID, &models.LotRequest{Name: "Central", Location: "Uptown", Price: ptr.Ptr(25.0)})
	require.NoError(t, err)
	assert.Equal(t, "Uptown", resp.Location)
	assert.Equal(t, 25.0, *resp.Price)

	_, err = svc.UpdateLot(context.Background(), lot.ID, &models.LotRequest{Name: "Airport", Location: "Uptown"})
	assert.ErrorIs(t, err, ErrLotNameTaken)

	_, err = svc.UpdateLot(context.Background(), 999, &models.LotRequest{Name: "New", Location: "Uptown"})
	assert.ErrorIs(t, err, ErrLotNotFound)
}

func TestListLots_Occupancy(t *testing.T) {
	svc, store := newService(t)
	lot := store.SeedLot(domain.ParkingLot{Name: "Central", Location: "Downtown"})
	store.SeedSlot(domain.ParkingSlot{LotID: lot.ID, SlotNumber: "A-01"})
	store.SeedSlot(domain.ParkingSlot{LotID: lot.ID, SlotNumber: "A-02", Status: domain.SlotOccupied})
	store.SeedSlot(domain.ParkingSlot{LotID: lot.ID, SlotNumber: "A-03", Status: domain.SlotMaintenance})
	store.SeedLot(domain.ParkingLot{Name: "Airport", Location: "North"})

	resp, err := svc.ListLots(context.Background())

	require.NoError(t, err)
	require.Equal(t, 2, resp.Total)
	assert.Equal(t, "Airport", resp.Lots[0].Name)
	assert.Zero(t, resp.Lots[0].TotalSlots)
	central := resp.Lots[1]
	assert.Equal(t, 3, central.TotalSlots)
	assert.Equal(t, 1, central.OccupiedSlots)
	assert.Equal(t, 1, central.MaintenanceSlots)
	assert.Equal(t, 1, central.AvailableSlots)
}

func TestOverview_DisplayStatus(t *testing.T) {
	svc, store := newService(t)
	lot := store.SeedLot(domain.ParkingLot{Name: "Central", Location: "Downtown", Price: ptr.Ptr(10.0)})
	free := store.SeedSlot(domain.ParkingSlot{LotID: lot.ID, SlotNumber: "A-01"})
	desync := store.SeedSlot(domain.ParkingSlot{LotID: lot.ID, SlotNumber: "A-02"})
	store.SeedSlot(domain.ParkingSlot{LotID: lot.ID, SlotNumber: "A-03", Status: domain.SlotMaintenance})
	store.SeedReservation(domain.Reservation{UserID: 1, SlotID: desync.ID, VehicleNumber: "X", StartTime: time.Now(), Status: domain.ReservationActive})
	store.SeedLot(domain.ParkingLot{Name: "Empty", Location: "Nowhere"})

	resp, err := svc.Overview(context.Background())

	require.NoError(t, err)
	require.Len(t, resp.Lots, 2)
	central := resp.Lots[0]
	require.Len(t, central.Slots, 3)
	assert.Equal(t, free.ID, central.Slots[0].ID)
	assert.Equal(t, "available", central.Slots[0].Status)
	assert.Equal(t, "occupied", central.Slots[1].Status)
	assert.Equal(t, "maintenance", central.Slots[2].Status)
	assert.Equal(t, 1, central.Available)
	assert.Empty(t, resp.Lots[1].Slots)
}
