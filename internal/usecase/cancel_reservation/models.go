package cancel_reservation

import (
	"time"

	"github.com/Preton24/VehicleParking/internal/domain"
)

// Request модель запроса на отмену бронирования
type Request struct {
	ReservationID int64
	Actor         domain.Actor
}

// Response модель ответа с отменённым бронированием
type Response struct {
	ID            int64
	UserID        int64
	SlotID        int64
	VehicleNumber string
	StartTime     time.Time
	Status        string
}
