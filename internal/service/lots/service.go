package lots

import (
	"context"
	"errors"
	"fmt"

	"github.com/Preton24/VehicleParking/internal/domain"
	lotRepo "github.com/Preton24/VehicleParking/internal/infra/storage/lot"
	reservationRepo "github.com/Preton24/VehicleParking/internal/infra/storage/reservation"
	slotRepo "github.com/Preton24/VehicleParking/internal/infra/storage/slot"
	"github.com/Preton24/VehicleParking/internal/service/lots/models"
)

// Service сервис управления парковками и слотами
type Service struct {
	lotRepo         LotRepository
	slotRepo        SlotRepository
	reservationRepo ReservationRepository
	txManager       TransactionManager
	logger          Logger
}

// NewService создает новый экземпляр сервиса парковок
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

// CreateLot создает новую парковку
// Имя и адрес обязательны, имя уникально, тариф и вместимость неотрицательны
func (s *Service) CreateLot(ctx context.Context, req *models.LotRequest) (*models.LotResponse, error) {
	s.logger.Info("CreateLot: creating lot name=%q", req.Name)

	if err := normalizeLotRequest(req); err != nil {
		s.logger.Warn("CreateLot: validation failed: %v", err)
		return nil, err
	}

	created, err := s.lotRepo.Create(ctx, req.ToDomainLot())
	if err != nil {
		if errors.Is(err, lotRepo.ErrLotNameTaken) {
			s.logger.Warn("CreateLot: lot name=%q already exists", req.Name)
			return nil, ErrLotNameTaken
		}
		s.logger.Error("CreateLot: repository error: %v", err)
		return nil, fmt.Errorf("%w: CreateLot - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateLot: successfully created lot id=%d", created.ID)
	resp := models.FromDomainLot(created, domain.LotOccupancy{Lot: created})
	return &resp, nil
}

// GetLot получает парковку со статистикой слотов
func (s *Service) GetLot(ctx context.Context, id int64) (*models.LotResponse, error) {
	s.logger.Info("GetLot: fetching lot id=%d", id)

	lot, err := s.getLot(ctx, "GetLot", id)
	if err != nil {
		return nil, err
	}

	counts, err := s.slotRepo.CountByStatus(ctx)
	if err != nil {
		s.logger.Error("GetLot: failed to count slots: %v", err)
		return nil, fmt.Errorf("%w: GetLot - count slots: %v", ErrInternal, err)
	}

	resp := models.FromDomainLot(lot, occupancyOf(lot, counts[lot.ID]))
	return &resp, nil
}

// ListLots возвращает все парковки со статистикой слотов
func (s *Service) ListLots(ctx context.Context) (*models.LotListResponse, error) {
	s.logger.Info("ListLots: fetching all lots")

	lots, err := s.lotRepo.List(ctx)
	if err != nil {
		s.logger.Error("ListLots: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListLots - repository error: %v", ErrInternal, err)
	}

	counts, err := s.slotRepo.CountByStatus(ctx)
	if err != nil {
		s.logger.Error("ListLots: failed to count slots: %v", err)
		return nil, fmt.Errorf("%w: ListLots - count slots: %v", ErrInternal, err)
	}

	resp := &models.LotListResponse{
		Lots:  make([]models.LotResponse, 0, len(lots)),
		Total: len(lots),
	}
	for _, lot := range lots {
		resp.Lots = append(resp.Lots, models.FromDomainLot(lot, occupancyOf(lot, counts[lot.ID])))
	}

	s.logger.Info("ListLots: successfully fetched %d lots", len(lots))
	return resp, nil
}

// UpdateLot полностью обновляет данные парковки
// Уменьшение вместимости ниже текущего числа слотов допускается: ограничение действует на добавление
func (s *Service) UpdateLot(ctx context.Context, id int64, req *models.LotRequest) (*models.LotResponse, error) {
	s.logger.Info("UpdateLot: updating lot id=%d", id)

	if err := normalizeLotRequest(req); err != nil {
		s.logger.Warn("UpdateLot: validation failed: %v", err)
		return nil, err
	}

	lot := req.ToDomainLot()
	lot.ID = id

	updated, err := s.lotRepo.Update(ctx, lot)
	if err != nil {
		switch {
		case errors.Is(err, lotRepo.ErrLotNotFound):
			s.logger.Warn("UpdateLot: lot id=%d not found", id)
			return nil, ErrLotNotFound
		case errors.Is(err, lotRepo.ErrLotNameTaken):
			s.logger.Warn("UpdateLot: lot name=%q already exists", req.Name)
			return nil, ErrLotNameTaken
		}
		s.logger.Error("UpdateLot: repository error for lot id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: UpdateLot - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateLot: successfully updated lot id=%d", id)
	return s.GetLot(ctx, updated.ID)
}

// DeleteLot удаляет парковку вместе со слотами и бронированиями
// Бронирования, слоты и сама парковка удаляются явно в одной транзакции
func (s *Service) DeleteLot(ctx context.Context, id int64) (*models.DeleteLotResponse, error) {
	s.logger.Info("DeleteLot: deleting lot id=%d", id)

	resp := &models.DeleteLotResponse{ID: id}

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		if _, err := s.getLot(txCtx, "DeleteLot", id); err != nil {
			return err
		}

		deletedReservations, err := s.reservationRepo.DeleteByLotID(txCtx, id)
		if err != nil {
			s.logger.Error("DeleteLot: failed to delete reservations of lot id=%d: %v", id, err)
			return fmt.Errorf("%w: DeleteLot - delete reservations: %v", ErrInternal, err)
		}

		deletedSlots, err := s.slotRepo.DeleteByLotID(txCtx, id)
		if err != nil {
			s.logger.Error("DeleteLot: failed to delete slots of lot id=%d: %v", id, err)
			return fmt.Errorf("%w: DeleteLot - delete slots: %v", ErrInternal, err)
		}

		if err := s.lotRepo.Delete(txCtx, id); err != nil {
			if errors.Is(err, lotRepo.ErrLotNotFound) {
				return ErrLotNotFound
			}
			s.logger.Error("DeleteLot: failed to delete lot id=%d: %v", id, err)
			return fmt.Errorf("%w: DeleteLot - delete lot: %v", ErrInternal, err)
		}

		resp.DeletedReservations = deletedReservations
		resp.DeletedSlots = deletedSlots
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("DeleteLot: lot id=%d deleted with %d slots and %d reservations",
		id, resp.DeletedSlots, resp.DeletedReservations)
	return resp, nil
}

// ListSlots возвращает слоты парковки, отсортированные по номеру
func (s *Service) ListSlots(ctx context.Context, lotID int64) (*models.SlotListResponse, error) {
	s.logger.Info("ListSlots: fetching slots for lot id=%d", lotID)

	if _, err := s.getLot(ctx, "ListSlots", lotID); err != nil {
		return nil, err
	}

	slots, err := s.slotRepo.ListByLotID(ctx, lotID)
	if err != nil {
		s.logger.Error("ListSlots: repository error for lot id=%d: %v", lotID, err)
		return nil, fmt.Errorf("%w: ListSlots - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainSlotList(lotID, slots), nil
}

// CreateSlot добавляет слот в парковку
// Проверка вместимости и вставка выполняются в сериализуемой транзакции
func (s *Service) CreateSlot(ctx context.Context, lotID int64, req *models.CreateSlotRequest) (*models.SlotResponse, error) {
	s.logger.Info("CreateSlot: adding slot %q to lot id=%d", req.SlotNumber, lotID)

	number, err := normalizeSlotNumber(req.SlotNumber)
	if err != nil {
		s.logger.Warn("CreateSlot: validation failed: %v", err)
		return nil, err
	}

	var created *domain.ParkingSlot

	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		lot, err := s.getLot(txCtx, "CreateSlot", lotID)
		if err != nil {
			return err
		}

		count, err := s.slotRepo.CountByLotID(txCtx, lotID)
		if err != nil {
			s.logger.Error("CreateSlot: failed to count slots of lot id=%d: %v", lotID, err)
			return fmt.Errorf("%w: CreateSlot - count slots: %w", ErrInternal, err)
		}

		if !lot.HasCapacityFor(count) {
			s.logger.Warn("CreateSlot: lot id=%d reached capacity %d", lotID, *lot.MaximumNumberOfSpots)
			return ErrCapacityReached
		}

		slot, err := s.slotRepo.Create(txCtx, &domain.ParkingSlot{
			LotID:      lotID,
			SlotNumber: number,
			Status:     domain.SlotAvailable,
		})
		if err != nil {
			switch {
			case errors.Is(err, slotRepo.ErrSlotNumberTaken):
				s.logger.Warn("CreateSlot: slot %q already exists in lot id=%d", number, lotID)
				return ErrSlotNumberTaken
			case errors.Is(err, slotRepo.ErrLotNotFound):
				return ErrLotNotFound
			}
			s.logger.Error("CreateSlot: repository error: %v", err)
			return fmt.Errorf("%w: CreateSlot - repository error: %w", ErrInternal, err)
		}

		created = slot
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("CreateSlot: successfully created slot id=%d in lot id=%d", created.ID, lotID)
	resp := models.FromDomainSlot(created)
	return &resp, nil
}

// UpdateSlotStatus ручная смена статуса слота администратором
// Допустимы только available и maintenance, и только если на слоте нет активного бронирования
func (s *Service) UpdateSlotStatus(ctx context.Context, slotID int64, req *models.UpdateSlotStatusRequest) (*models.SlotResponse, error) {
	s.logger.Info("UpdateSlotStatus: slot id=%d, status=%q", slotID, req.Status)

	status, err := domain.ParseSlotStatus(req.Status)
	if err != nil || !domain.IsAdminAssignable(status) {
		s.logger.Warn("UpdateSlotStatus: invalid status=%q", req.Status)
		return nil, fmt.Errorf("%w: status must be one of available, maintenance", ErrInvalidInput)
	}

	var updated *domain.ParkingSlot

	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		slot, err := s.getSlotWithoutActiveReservation(txCtx, "UpdateSlotStatus", slotID)
		if err != nil {
			return err
		}

		if err := s.slotRepo.UpdateStatus(txCtx, slot.ID, status); err != nil {
			s.logger.Error("UpdateSlotStatus: repository error for slot id=%d: %v", slotID, err)
			return fmt.Errorf("%w: UpdateSlotStatus - repository error: %w", ErrInternal, err)
		}

		slot.Status = status
		updated = slot
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("UpdateSlotStatus: slot id=%d status set to %s", slotID, status)
	resp := models.FromDomainSlot(updated)
	return &resp, nil
}

// DeleteSlot удаляет слот без активного бронирования вместе с историей его бронирований
func (s *Service) DeleteSlot(ctx context.Context, slotID int64) error {
	s.logger.Info("DeleteSlot: deleting slot id=%d", slotID)

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		slot, err := s.getSlotWithoutActiveReservation(txCtx, "DeleteSlot", slotID)
		if err != nil {
			return err
		}

		if _, err := s.reservationRepo.DeleteBySlotID(txCtx, slot.ID); err != nil {
			s.logger.Error("DeleteSlot: failed to delete reservations of slot id=%d: %v", slotID, err)
			return fmt.Errorf("%w: DeleteSlot - delete reservations: %v", ErrInternal, err)
		}

		if err := s.slotRepo.Delete(txCtx, slot.ID); err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				return ErrSlotNotFound
			}
			s.logger.Error("DeleteSlot: failed to delete slot id=%d: %v", slotID, err)
			return fmt.Errorf("%w: DeleteSlot - delete slot: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("DeleteSlot: slot id=%d deleted", slotID)
	return nil
}

// Overview возвращает все парковки со слотами и их отображаемым статусом
func (s *Service) Overview(ctx context.Context) (*models.OverviewResponse, error) {
	s.logger.Info("Overview: building parking overview")

	var overview []domain.LotOverview

	err := s.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		lots, err := s.lotRepo.List(txCtx)
		if err != nil {
			return fmt.Errorf("%w: Overview - list lots: %v", ErrInternal, err)
		}

		slots, err := s.slotRepo.ListAll(txCtx)
		if err != nil {
			return fmt.Errorf("%w: Overview - list slots: %v", ErrInternal, err)
		}

		active, err := s.reservationRepo.ActiveSlotIDs(txCtx)
		if err != nil {
			return fmt.Errorf("%w: Overview - active reservations: %v", ErrInternal, err)
		}

		byLot := make(map[int64][]domain.SlotView, len(lots))
		for _, slot := range slots {
			_, reserved := active[slot.ID]
			byLot[slot.LotID] = append(byLot[slot.LotID], domain.SlotView{
				ID:            slot.ID,
				SlotNumber:    slot.SlotNumber,
				DisplayStatus: domain.DisplayStatus(slot, reserved),
			})
		}

		overview = make([]domain.LotOverview, 0, len(lots))
		for _, lot := range lots {
			overview = append(overview, domain.LotOverview{Lot: lot, Slots: byLot[lot.ID]})
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Overview: %v", err)
		return nil, err
	}

	return models.FromDomainOverview(overview), nil
}

func (s *Service) getLot(ctx context.Context, op string, id int64) (*domain.ParkingLot, error) {
	lot, err := s.lotRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, lotRepo.ErrLotNotFound) {
			s.logger.Warn("%s: lot id=%d not found", op, id)
			return nil, ErrLotNotFound
		}
		s.logger.Error("%s: failed to get lot id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - get lot: %w", ErrInternal, op, err)
	}
	return lot, nil
}

func (s *Service) getSlotWithoutActiveReservation(ctx context.Context, op string, id int64) (*domain.ParkingSlot, error) {
	slot, err := s.slotRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			s.logger.Warn("%s: slot id=%d not found", op, id)
			return nil, ErrSlotNotFound
		}
		s.logger.Error("%s: failed to get slot id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - get slot: %w", ErrInternal, op, err)
	}

	active, err := s.reservationRepo.GetActiveBySlotID(ctx, slot.ID)
	if err != nil && !errors.Is(err, reservationRepo.ErrReservationNotFound) {
		s.logger.Error("%s: failed to check active reservation of slot id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - check active reservation: %w", ErrInternal, op, err)
	}
	if active != nil {
		s.logger.Warn("%s: slot id=%d has active reservation id=%d", op, id, active.ID)
		return nil, ErrSlotInUse
	}

	return slot, nil
}

func occupancyOf(lot *domain.ParkingLot, counts map[domain.SlotStatus]int) domain.LotOccupancy {
	occupancy := domain.LotOccupancy{Lot: lot}
	for status, n := range counts {
		occupancy.Total += n
		switch status {
		case domain.SlotOccupied:
			occupancy.Occupied += n
		case domain.SlotMaintenance:
			occupancy.Maintenance += n
		}
	}
	return occupancy
}
