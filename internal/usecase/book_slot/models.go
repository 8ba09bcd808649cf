package book_slot

import "time"

// Request модель запроса на бронирование слота
type Request struct {
	UserID        int64  // ID пользователя, который бронирует
	SlotID        int64  // ID слота
	VehicleNumber string // Номер автомобиля
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID            int64
	UserID        int64
	SlotID        int64
	LotID         int64
	SlotNumber    string
	VehicleNumber string
	StartTime     time.Time
	Status        string
	CreatedAt     time.Time
}
