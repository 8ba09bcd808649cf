package stats

import (
	"context"

	"github.com/Preton24/VehicleParking/internal/domain"
)

// LotRepository интерфейс репозитория парковок
type LotRepository interface {
	List(ctx context.Context) ([]*domain.ParkingLot, error)
}

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	CountByStatus(ctx context.Context) (map[int64]map[domain.SlotStatus]int, error)
}

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	CountByStatus(ctx context.Context) (map[domain.ReservationStatus]int, error)
	Revenue(ctx context.Context) (float64, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}
