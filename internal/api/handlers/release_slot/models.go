package release_slot

import (
	"time"

	releaseSlot "github.com/Preton24/VehicleParking/internal/usecase/release_slot"
)

// ReleaseResponse HTTP response model
type ReleaseResponse struct {
	ID            int64   `json:"id"`
	UserID        int64   `json:"userId"`
	SlotID        int64   `json:"slotId"`
	VehicleNumber string  `json:"vehicleNumber"`
	StartTime     string  `json:"startTime"`
	EndTime       string  `json:"endTime"`
	Status        string  `json:"status"`
	DurationHours float64 `json:"durationHours"`
	Cost          float64 `json:"cost"`
	Warning       *string `json:"warning,omitempty"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *releaseSlot.Response) *ReleaseResponse {
	return &ReleaseResponse{
		ID:            resp.ID,
		UserID:        resp.UserID,
		SlotID:        resp.SlotID,
		VehicleNumber: resp.VehicleNumber,
		StartTime:     resp.StartTime.Format(time.RFC3339),
		EndTime:       resp.EndTime.Format(time.RFC3339),
		Status:        resp.Status,
		DurationHours: resp.DurationHours,
		Cost:          resp.Cost,
		Warning:       resp.Warning,
	}
}
