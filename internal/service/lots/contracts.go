package lots

import (
	"context"

	"github.com/Preton24/VehicleParking/internal/domain"
)

// LotRepository интерфейс репозитория парковок
type LotRepository interface {
	Create(ctx context.Context, lot *domain.ParkingLot) (*domain.ParkingLot, error)
	GetByID(ctx context.Context, id int64) (*domain.ParkingLot, error)
	List(ctx context.Context) ([]*domain.ParkingLot, error)
	Update(ctx context.Context, lot *domain.ParkingLot) (*domain.ParkingLot, error)
	Delete(ctx context.Context, id int64) error
}

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	Create(ctx context.Context, slot *domain.ParkingSlot) (*domain.ParkingSlot, error)
	GetByID(ctx context.Context, id int64) (*domain.ParkingSlot, error)
	ListByLotID(ctx context.Context, lotID int64) ([]*domain.ParkingSlot, error)
	ListAll(ctx context.Context) ([]*domain.ParkingSlot, error)
	CountByLotID(ctx context.Context, lotID int64) (int, error)
	CountByStatus(ctx context.Context) (map[int64]map[domain.SlotStatus]int, error)
	UpdateStatus(ctx context.Context, id int64, status domain.SlotStatus) error
	Delete(ctx context.Context, id int64) error
	DeleteByLotID(ctx context.Context, lotID int64) (int64, error)
}

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	GetActiveBySlotID(ctx context.Context, slotID int64) (*domain.Reservation, error)
	ActiveSlotIDs(ctx context.Context) (map[int64]struct{}, error)
	DeleteBySlotID(ctx context.Context, slotID int64) (int64, error)
	DeleteByLotID(ctx context.Context, lotID int64) (int64, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
