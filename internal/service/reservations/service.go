package reservations

import (
	"context"
	"errors"
	"fmt"

	"github.com/Preton24/VehicleParking/internal/domain"
	reservationRepo "github.com/Preton24/VehicleParking/internal/infra/storage/reservation"
	"github.com/Preton24/VehicleParking/internal/service/reservations/models"
)

// Service сервис для чтения бронирований
type Service struct {
	reservationRepo ReservationRepository
	slotRepo        SlotRepository
	lotRepo         LotRepository
	logger          Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	reservationRepo ReservationRepository,
	slotRepo SlotRepository,
	lotRepo LotRepository,
	logger Logger,
) *Service {
	return &Service{
		reservationRepo: reservationRepo,
		slotRepo:        slotRepo,
		lotRepo:         lotRepo,
		logger:          logger,
	}
}

// GetByID получает бронирование по ID
// Доступно владельцу бронирования и администратору
func (s *Service) GetByID(ctx context.Context, id int64, actor domain.Actor) (*models.ReservationResponse, error) {
	s.logger.Info("GetByID: fetching reservation id=%d for user=%d", id, actor.UserID)

	reservation, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("GetByID: reservation id=%d not found", id)
			return nil, ErrReservationNotFound
		}
		s.logger.Error("GetByID: repository error for reservation id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if !domain.CanManageReservation(actor, reservation) {
		s.logger.Warn("GetByID: access denied for user=%d to reservation id=%d", actor.UserID, id)
		return nil, ErrAccessDenied
	}

	list, err := s.enrich(ctx, []*domain.Reservation{reservation})
	if err != nil {
		return nil, err
	}

	return &list.Reservations[0], nil
}

// GetUserReservations возвращает бронирования пользователя, новые первыми
// Пользователь видит только свои бронирования, администратор любые
func (s *Service) GetUserReservations(ctx context.Context, req *models.GetUserReservationsRequest) (*models.ReservationListResponse, error) {
	s.logger.Info("GetUserReservations: fetching reservations for user=%d by user=%d, status=%v",
		req.UserID, req.Actor.UserID, req.Status)

	if !domain.CanViewUser(req.Actor, req.UserID) {
		s.logger.Warn("GetUserReservations: user=%d cannot view reservations of user=%d", req.Actor.UserID, req.UserID)
		return nil, ErrAccessDenied
	}

	status, err := parseStatus(req.Status)
	if err != nil {
		s.logger.Warn("GetUserReservations: invalid status=%s", *req.Status)
		return nil, err
	}

	reservations, err := s.reservationRepo.GetByUserID(ctx, req.UserID, status)
	if err != nil {
		s.logger.Error("GetUserReservations: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserReservations - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserReservations: fetched %d reservations for user=%d", len(reservations), req.UserID)
	return s.enrich(ctx, reservations)
}

// ListAll возвращает все бронирования для администратора, новые первыми
func (s *Service) ListAll(ctx context.Context, statusFilter *string) (*models.ReservationListResponse, error) {
	s.logger.Info("ListAll: fetching all reservations, status=%v", statusFilter)

	status, err := parseStatus(statusFilter)
	if err != nil {
		s.logger.Warn("ListAll: invalid status=%s", *statusFilter)
		return nil, err
	}

	reservations, err := s.reservationRepo.List(ctx, domain.ReservationFilter{Status: status})
	if err != nil {
		s.logger.Error("ListAll: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListAll - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListAll: fetched %d reservations", len(reservations))
	return s.enrich(ctx, reservations)
}

// enrich дополняет бронирования номером слота и названием парковки
func (s *Service) enrich(ctx context.Context, reservations []*domain.Reservation) (*models.ReservationListResponse, error) {
	resp := &models.ReservationListResponse{
		Reservations: make([]models.ReservationResponse, 0, len(reservations)),
		Total:        len(reservations),
	}
	if len(reservations) == 0 {
		return resp, nil
	}

	slots, err := s.slotRepo.ListAll(ctx)
	if err != nil {
		s.logger.Error("enrich: failed to list slots: %v", err)
		return nil, fmt.Errorf("%w: list slots: %v", ErrInternal, err)
	}

	lots, err := s.lotRepo.List(ctx)
	if err != nil {
		s.logger.Error("enrich: failed to list lots: %v", err)
		return nil, fmt.Errorf("%w: list lots: %v", ErrInternal, err)
	}

	slotByID := make(map[int64]*domain.ParkingSlot, len(slots))
	for _, slot := range slots {
		slotByID[slot.ID] = slot
	}
	lotByID := make(map[int64]*domain.ParkingLot, len(lots))
	for _, lot := range lots {
		lotByID[lot.ID] = lot
	}

	for _, r := range reservations {
		item := models.FromDomainReservation(r)
		if slot, ok := slotByID[r.SlotID]; ok {
			item.SlotNumber = slot.SlotNumber
			item.LotID = slot.LotID
			if lot, ok := lotByID[slot.LotID]; ok {
				item.LotName = lot.Name
			}
		}
		resp.Reservations = append(resp.Reservations, item)
	}

	return resp, nil
}

func parseStatus(raw *string) (*domain.ReservationStatus, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	status, err := models.ToDomainReservationStatus(*raw)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}
	return &status, nil
}
