package manage_slots

import (
	"context"

	"github.com/Preton24/VehicleParking/internal/service/lots/models"
)

type SlotService interface {
	ListSlots(ctx context.Context, lotID int64) (*models.SlotListResponse, error)
	CreateSlot(ctx context.Context, lotID int64, req *models.CreateSlotRequest) (*models.SlotResponse, error)
	UpdateSlotStatus(ctx context.Context, slotID int64, req *models.UpdateSlotStatusRequest) (*models.SlotResponse, error)
	DeleteSlot(ctx context.Context, slotID int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
