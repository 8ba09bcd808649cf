package list_reservations

import (
	"context"

	"github.com/Preton24/VehicleParking/internal/service/reservations/models"
)

type ReservationService interface {
	ListAll(ctx context.Context, status *string) (*models.ReservationListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
