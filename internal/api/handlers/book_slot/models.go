package book_slot

import (
	"time"

	bookSlot "github.com/Preton24/VehicleParking/internal/usecase/book_slot"
)

// BookSlotRequest HTTP request model
type BookSlotRequest struct {
	VehicleNumber string `json:"vehicleNumber"`
}

// ReservationResponse HTTP response model
type ReservationResponse struct {
	ID            int64  `json:"id"`
	UserID        int64  `json:"userId"`
	SlotID        int64  `json:"slotId"`
	LotID         int64  `json:"lotId"`
	SlotNumber    string `json:"slotNumber"`
	VehicleNumber string `json:"vehicleNumber"`
	StartTime     string `json:"startTime"`
	Status        string `json:"status"`
	CreatedAt     string `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *BookSlotRequest) ToUseCaseRequest(userID, slotID int64) *bookSlot.Request {
	return &bookSlot.Request{
		UserID:        userID,
		SlotID:        slotID,
		VehicleNumber: r.VehicleNumber,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *bookSlot.Response) *ReservationResponse {
	return &ReservationResponse{
		ID:            resp.ID,
		UserID:        resp.UserID,
		SlotID:        resp.SlotID,
		LotID:         resp.LotID,
		SlotNumber:    resp.SlotNumber,
		VehicleNumber: resp.VehicleNumber,
		StartTime:     resp.StartTime.Format(time.RFC3339),
		Status:        resp.Status,
		CreatedAt:     resp.CreatedAt.Format(time.RFC3339),
	}
}
