package cancel_reservation

import (
	"time"

	cancelReservation "github.com/Preton24/VehicleParking/internal/usecase/cancel_reservation"
)

// CancelResponse HTTP response model
type CancelResponse struct {
	ID            int64  `json:"id"`
	UserID        int64  `json:"userId"`
	SlotID        int64  `json:"slotId"`
	VehicleNumber string `json:"vehicleNumber"`
	StartTime     string `json:"startTime"`
	Status        string `json:"status"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *cancelReservation.Response) *CancelResponse {
	return &CancelResponse{
		ID:            resp.ID,
		UserID:        resp.UserID,
		SlotID:        resp.SlotID,
		VehicleNumber: resp.VehicleNumber,
		StartTime:     resp.StartTime.Format(time.RFC3339),
		Status:        resp.Status,
	}
}
