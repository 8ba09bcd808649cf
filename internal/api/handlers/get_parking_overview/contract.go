package get_parking_overview

import (
	"context"

	"github.com/Preton24/VehicleParking/internal/service/lots/models"
)

type OverviewService interface {
	Overview(ctx context.Context) (*models.OverviewResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}
