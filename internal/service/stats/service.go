package stats

import (
	"context"
	"fmt"
	"math"

	"github.com/Preton24/VehicleParking/internal/domain"
	"github.com/Preton24/VehicleParking/internal/service/stats/models"
)

// Service сервис агрегированной статистики
type Service struct {
	lotRepo         LotRepository
	slotRepo        SlotRepository
	reservationRepo ReservationRepository
	txManager       TransactionManager
	logger          Logger
}

// NewService создает новый экземпляр сервиса статистики
func NewService(
	lotRepo LotRepository,
	slotRepo SlotRepository,
	reservationRepo ReservationRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		lotRepo:         lotRepo,
		slotRepo:        slotRepo,
		reservationRepo: reservationRepo,
		txManager:       txManager,
		logger:          logger,
	}
}

// Dashboard собирает статистику по парковкам, слотам, бронированиям и выручке
// Все выборки читаются из одного снимка (read-only транзакция)
func (s *Service) Dashboard(ctx context.Context) (*models.DashboardResponse, error) {
	s.logger.Info("Dashboard: collecting statistics")

	stats := &domain.DashboardStats{}

	err := s.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		lots, err := s.lotRepo.List(txCtx)
		if err != nil {
			return fmt.Errorf("%w: list lots: %v", ErrInternal, err)
		}

		slotCounts, err := s.slotRepo.CountByStatus(txCtx)
		if err != nil {
			return fmt.Errorf("%w: count slots: %v", ErrInternal, err)
		}

		reservationCounts, err := s.reservationRepo.CountByStatus(txCtx)
		if err != nil {
			return fmt.Errorf("%w: count reservations: %v", ErrInternal, err)
		}

		revenue, err := s.reservationRepo.Revenue(txCtx)
		if err != nil {
			return fmt.Errorf("%w: revenue: %v", ErrInternal, err)
		}

		stats.TotalLots = len(lots)
		stats.ReservationsByStatus = reservationCounts
		stats.Revenue = math.Round(revenue*100) / 100
		for _, n := range reservationCounts {
			stats.TotalReservations += n
		}

		stats.Lots = make([]domain.LotOccupancy, 0, len(lots))
		for _, lot := range lots {
			occupancy := domain.LotOccupancy{Lot: lot}
			for status, n := range slotCounts[lot.ID] {
				occupancy.Total += n
				switch status {
				case domain.SlotOccupied:
					occupancy.Occupied += n
				case domain.SlotMaintenance:
					occupancy.Maintenance += n
				}
			}
			stats.TotalSlots += occupancy.Total
			stats.Lots = append(stats.Lots, occupancy)
		}

		return nil
	})
	if err != nil {
		s.logger.Error("Dashboard: %v", err)
		return nil, err
	}

	s.logger.Info("Dashboard: lots=%d, slots=%d, reservations=%d, revenue=%.2f",
		stats.TotalLots, stats.TotalSlots, stats.TotalReservations, stats.Revenue)
	return models.FromDomainStats(stats), nil
}
