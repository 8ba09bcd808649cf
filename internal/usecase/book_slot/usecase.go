package book_slot

import (
	"context"
	"errors"
	"fmt"

	"github.com/Preton24/VehicleParking/internal/domain"
	reservationRepo "github.com/Preton24/VehicleParking/internal/infra/storage/reservation"
	slotRepo "github.com/Preton24/VehicleParking/internal/infra/storage/slot"
)

const operation = "book"

// UseCase use case для бронирования слота
type UseCase struct {
	slotRepo        SlotRepository
	reservationRepo ReservationRepository
	txManager       TransactionManager
	metrics         Metrics
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepo SlotRepository,
	reservationRepo ReservationRepository,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:        slotRepo,
		reservationRepo: reservationRepo,
		txManager:       txManager,
		metrics:         metrics,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute бронирует слот для пользователя
// Проверка слота, создание бронирования и перевод слота в occupied выполняются
// в одной сериализуемой транзакции
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("BookSlot: user=%d, slot=%d", req.UserID, req.SlotID)

	// 1. Валидация входных данных
	vehicle, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("BookSlot: validation failed: %v", err)
		uc.observe("invalid_input")
		return nil, err
	}

	var (
		created *domain.Reservation
		slot    *domain.ParkingSlot
	)

	// 2. Все операции с БД в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 2.1. Получаем слот с блокировкой (FOR UPDATE)
		found, err := uc.slotRepo.GetByID(txCtx, req.SlotID)
		if err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				uc.logger.Warn("BookSlot: slot id=%d not found", req.SlotID)
				return ErrSlotNotFound
			}
			uc.logger.Error("BookSlot: failed to get slot id=%d: %v", req.SlotID, err)
			return fmt.Errorf("%w: failed to get slot: %w", ErrInternal, err)
		}

		slot = found

		// 2.2. Слот должен быть свободен
		if !slot.IsBookable() {
			uc.logger.Warn("BookSlot: slot id=%d has status %s", slot.ID, slot.Status)
			return ErrSlotUnavailable
		}

		// 2.3. На слоте не должно быть активного бронирования
		active, err := uc.reservationRepo.GetActiveBySlotID(txCtx, slot.ID)
		if err != nil && !errors.Is(err, reservationRepo.ErrReservationNotFound) {
			uc.logger.Error("BookSlot: failed to check active reservation for slot id=%d: %v", slot.ID, err)
			return fmt.Errorf("%w: failed to check active reservation: %w", ErrInternal, err)
		}
		if active != nil {
			uc.logger.Warn("BookSlot: slot id=%d already has active reservation id=%d", slot.ID, active.ID)
			return ErrSlotUnavailable
		}

		// 2.4. Создаем бронирование: время окончания и стоимость неизвестны до освобождения
		reservation := &domain.Reservation{
			UserID:        req.UserID,
			SlotID:        slot.ID,
			VehicleNumber: vehicle,
			StartTime:     uc.timeProvider.Now(),
			Status:        domain.ReservationActive,
		}

		saved, err := uc.reservationRepo.Create(txCtx, reservation)
		if err != nil {
			if errors.Is(err, reservationRepo.ErrActiveReservationExists) {
				uc.logger.Warn("BookSlot: concurrent reservation detected for slot id=%d", slot.ID)
				return ErrSlotUnavailable
			}
			uc.logger.Error("BookSlot: failed to create reservation: %v", err)
			return fmt.Errorf("%w: failed to create reservation: %w", ErrInternal, err)
		}
		created = saved

		// 2.5. Повторная проверка перед коммитом: available -> occupied
		if err := uc.slotRepo.UpdateStatusIf(txCtx, slot.ID, domain.SlotAvailable, domain.SlotOccupied); err != nil {
			if errors.Is(err, slotRepo.ErrStatusConflict) {
				uc.logger.Warn("BookSlot: slot id=%d changed status concurrently", slot.ID)
				return ErrSlotUnavailable
			}
			uc.logger.Error("BookSlot: failed to occupy slot id=%d: %v", slot.ID, err)
			return fmt.Errorf("%w: failed to occupy slot: %w", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		uc.observe(resultOf(err))
		return nil, err
	}

	uc.observe("success")
	uc.logger.Info("BookSlot: reservation id=%d created for slot id=%d", created.ID, slot.ID)

	return &Response{
		ID:            created.ID,
		UserID:        created.UserID,
		SlotID:        created.SlotID,
		LotID:         slot.LotID,
		SlotNumber:    slot.SlotNumber,
		VehicleNumber: created.VehicleNumber,
		StartTime:     created.StartTime,
		Status:        string(created.Status),
		CreatedAt:     created.CreatedAt,
	}, nil
}

func (uc *UseCase) observe(result string) {
	if uc.metrics != nil {
		uc.metrics.ObserveReservation(operation, result)
	}
}

func resultOf(err error) string {
	switch {
	case errors.Is(err, ErrSlotNotFound):
		return "not_found"
	case errors.Is(err, ErrSlotUnavailable):
		return "slot_unavailable"
	default:
		return "error"
	}
}
