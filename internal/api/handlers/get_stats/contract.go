package get_stats

import (
	"context"

	"github.com/Preton24/VehicleParking/internal/service/stats/models"
)

type StatsService interface {
	Dashboard(ctx context.Context) (*models.DashboardResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}
