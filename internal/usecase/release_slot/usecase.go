package release_slot

import (
	"context"
	"errors"
	"fmt"

	"github.com/Preton24/VehicleParking/internal/domain"
	lotRepo "github.com/Preton24/VehicleParking/internal/infra/storage/lot"
	reservationRepo "github.com/Preton24/VehicleParking/internal/infra/storage/reservation"
	"github.com/Preton24/VehicleParking/internal/pricing"
	"github.com/Preton24/VehicleParking/pkg/ptr"
)

const operation = "release"

// UseCase use case для освобождения слота и расчёта стоимости парковки
type UseCase struct {
	reservationRepo ReservationRepository
	slotRepo        SlotRepository
	lotRepo         LotRepository
	txManager       TransactionManager
	metrics         Metrics
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	slotRepo SlotRepository,
	lotRepo LotRepository,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		slotRepo:        slotRepo,
		lotRepo:         lotRepo,
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

// Execute завершает активное бронирование
// Стоимость = часы × тариф парковки. Если тариф не задан, стоимость 0 и в ответе warning.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ReleaseSlot: reservation=%d, user=%d, admin=%t", req.ReservationID, req.Actor.UserID, req.Actor.IsAdmin)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ReleaseSlot: validation failed: %v", err)
		uc.observe("invalid_input")
		return nil, err
	}

	var (
		reservation *domain.Reservation
		quote       pricing.Quote
		warning     *string
	)

	// 2. Все изменения в одной транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		warning = nil

		// 2.1. Получаем бронирование с блокировкой
		found, err := uc.reservationRepo.GetByID(txCtx, req.ReservationID)
		if err != nil {
			if errors.Is(err, reservationRepo.ErrReservationNotFound) {
				uc.logger.Warn("ReleaseSlot: reservation id=%d not found", req.ReservationID)
				return ErrReservationNotFound
			}
			uc.logger.Error("ReleaseSlot: failed to get reservation id=%d: %v", req.ReservationID, err)
			return fmt.Errorf("%w: failed to get reservation: %w", ErrInternal, err)
		}

		// 2.2. Сначала права доступа, затем состояние
		if !domain.CanManageReservation(req.Actor, found) {
			uc.logger.Warn("ReleaseSlot: user=%d has no access to reservation id=%d", req.Actor.UserID, found.ID)
			return ErrForbidden
		}

		if !found.IsActive() {
			uc.logger.Warn("ReleaseSlot: reservation id=%d has status %s", found.ID, found.Status)
			return ErrInvalidState
		}

		// 2.3. Получаем слот и тариф парковки
		slot, err := uc.slotRepo.GetByID(txCtx, found.SlotID)
		if err != nil {
			uc.logger.Error("ReleaseSlot: failed to get slot id=%d: %v", found.SlotID, err)
			return fmt.Errorf("%w: failed to get slot: %w", ErrInternal, err)
		}

		lot, err := uc.lotRepo.GetByID(txCtx, slot.LotID)
		if err != nil && !errors.Is(err, lotRepo.ErrLotNotFound) {
			uc.logger.Error("ReleaseSlot: failed to get lot id=%d: %v", slot.LotID, err)
			return fmt.Errorf("%w: failed to get lot: %w", ErrInternal, err)
		}

		var rate *float64
		if lot != nil {
			rate = lot.Price
		}

		// 2.4. Расчёт стоимости
		endTime := uc.timeProvider.Now()
		if endTime.Before(found.StartTime) {
			uc.logger.Warn("ReleaseSlot: clock is behind start time of reservation id=%d, duration set to zero", found.ID)
			endTime = found.StartTime
		}

		q, err := pricing.Calculate(found.StartTime, endTime, rate)
		if err != nil {
			uc.logger.Error("ReleaseSlot: failed to calculate cost: %v", err)
			return fmt.Errorf("%w: failed to calculate cost: %w", ErrInternal, err)
		}

		if !q.RateConfigured {
			warning = ptr.Ptr(fmt.Sprintf("hourly rate is not configured for lot %d, cost set to 0", slot.LotID))
			uc.logger.Warn("ReleaseSlot: %s", *warning)
		}

		// 2.5. Завершаем бронирование (только если оно всё ещё активно)
		if err := uc.reservationRepo.Complete(txCtx, found.ID, endTime, q.Cost); err != nil {
			if errors.Is(err, reservationRepo.ErrNotActive) {
				uc.logger.Warn("ReleaseSlot: reservation id=%d is no longer active", found.ID)
				return ErrInvalidState
			}
			uc.logger.Error("ReleaseSlot: failed to complete reservation id=%d: %v", found.ID, err)
			return fmt.Errorf("%w: failed to complete reservation: %w", ErrInternal, err)
		}

		// 2.6. Освобождаем слот
		if err := uc.slotRepo.UpdateStatus(txCtx, slot.ID, domain.SlotAvailable); err != nil {
			uc.logger.Error("ReleaseSlot: failed to free slot id=%d: %v", slot.ID, err)
			return fmt.Errorf("%w: failed to free slot: %w", ErrInternal, err)
		}

		found.Status = domain.ReservationCompleted
		found.EndTime = &endTime
		found.Cost = &q.Cost

		reservation = found
		quote = q
		return nil
	})

	if err != nil {
		uc.observe(resultOf(err))
		return nil, err
	}

	uc.observe("success")
	if uc.metrics != nil {
		uc.metrics.AddRevenue(quote.Cost)
	}

	uc.logger.Info("ReleaseSlot: reservation id=%d completed, hours=%.2f, cost=%.2f",
		reservation.ID, quote.DurationHours, quote.Cost)

	return &Response{
		ID:            reservation.ID,
		UserID:        reservation.UserID,
		SlotID:        reservation.SlotID,
		VehicleNumber: reservation.VehicleNumber,
		StartTime:     reservation.StartTime,
		EndTime:       *reservation.EndTime,
		Status:        string(reservation.Status),
		DurationHours: quote.DurationHours,
		Cost:          quote.Cost,
		Warning:       warning,
	}, nil
}

func (uc *UseCase) observe(result string) {
	if uc.metrics != nil {
		uc.metrics.ObserveReservation(operation, result)
	}
}

func resultOf(err error) string {
	switch {
	case errors.Is(err, ErrReservationNotFound):
		return "not_found"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrInvalidState):
		return "invalid_state"
	default:
		return "error"
	}
}
