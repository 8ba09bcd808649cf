package manage_lots

import (
	"context"

	"github.com/Preton24/VehicleParking/internal/service/lots/models"
)

type LotService interface {
	ListLots(ctx context.Context) (*models.LotListResponse, error)
	GetLot(ctx context.Context, id int64) (*models.LotResponse, error)
	CreateLot(ctx context.Context, req *models.LotRequest) (*models.LotResponse, error)
	UpdateLot(ctx context.Context, id int64, req *models.LotRequest) (*models.LotResponse, error)
	DeleteLot(ctx context.Context, id int64) (*models.DeleteLotResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
