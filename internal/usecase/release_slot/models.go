package release_slot

import (
	"time"

	"github.com/Preton24/VehicleParking/internal/domain"
)

// Request модель запроса на освобождение слота
type Request struct {
	ReservationID int64
	Actor         domain.Actor
}

// Response модель ответа: завершённое бронирование и расчёт стоимости
type Response struct {
	ID            int64
	UserID        int64
	SlotID        int64
	VehicleNumber string
	StartTime     time.Time
	EndTime       time.Time
	Status        string
	DurationHours float64
	Cost          float64
	Warning       *string // Заполнено, если у парковки не задан тариф
}
