package cancel_reservation

import (
	"context"
	"errors"
	"fmt"

	"github.com/Preton24/VehicleParking/internal/domain"
	reservationRepo "github.com/Preton24/VehicleParking/internal/infra/storage/reservation"
)

const operation = "cancel"

// UseCase use case для отмены бронирования
type UseCase struct {
	reservationRepo ReservationRepository
	slotRepo        SlotRepository
	txManager       TransactionManager
	metrics         Metrics
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	slotRepo SlotRepository,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		slotRepo:        slotRepo,
		txManager:       txManager,
		metrics:         metrics,
		logger:          logger,
	}
}

// Execute отменяет активное бронирование и освобождает слот
// Время окончания и стоимость остаются пустыми
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CancelReservation: reservation=%d, user=%d, admin=%t", req.ReservationID, req.Actor.UserID, req.Actor.IsAdmin)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CancelReservation: validation failed: %v", err)
		uc.observe("invalid_input")
		return nil, err
	}

	var cancelled *domain.Reservation

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		found, err := uc.reservationRepo.GetByID(txCtx, req.ReservationID)
		if err != nil {
			if errors.Is(err, reservationRepo.ErrReservationNotFound) {
				uc.logger.Warn("CancelReservation: reservation id=%d not found", req.ReservationID)
				return ErrReservationNotFound
			}
			uc.logger.Error("CancelReservation: failed to get reservation id=%d: %v", req.ReservationID, err)
			return fmt.Errorf("%w: failed to get reservation: %w", ErrInternal, err)
		}

		if !domain.CanManageReservation(req.Actor, found) {
			uc.logger.Warn("CancelReservation: user=%d has no access to reservation id=%d", req.Actor.UserID, found.ID)
			return ErrForbidden
		}

		if !found.IsActive() {
			uc.logger.Warn("CancelReservation: reservation id=%d has status %s", found.ID, found.Status)
			return ErrInvalidState
		}

		if err := uc.reservationRepo.Cancel(txCtx, found.ID); err != nil {
			if errors.Is(err, reservationRepo.ErrNotActive) {
				uc.logger.Warn("CancelReservation: reservation id=%d is no longer active", found.ID)
				return ErrInvalidState
			}
			uc.logger.Error("CancelReservation: failed to cancel reservation id=%d: %v", found.ID, err)
			return fmt.Errorf("%w: failed to cancel reservation: %w", ErrInternal, err)
		}

		if err := uc.slotRepo.UpdateStatus(txCtx, found.SlotID, domain.SlotAvailable); err != nil {
			uc.logger.Error("CancelReservation: failed to free slot id=%d: %v", found.SlotID, err)
			return fmt.Errorf("%w: failed to free slot: %w", ErrInternal, err)
		}

		found.Status = domain.ReservationCancelled
		cancelled = found
		return nil
	})

	if err != nil {
		uc.observe(resultOf(err))
		return nil, err
	}

	uc.observe("success")
	uc.logger.Info("CancelReservation: reservation id=%d cancelled, slot id=%d freed", cancelled.ID, cancelled.SlotID)

	return &Response{
		ID:            cancelled.ID,
		UserID:        cancelled.UserID,
		SlotID:        cancelled.SlotID,
		VehicleNumber: cancelled.VehicleNumber,
		StartTime:     cancelled.StartTime,
		Status:        string(cancelled.Status),
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
