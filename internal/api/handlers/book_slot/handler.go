package book_slot

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/Preton24/VehicleParking/internal/api/handlers"
	"github.com/Preton24/VehicleParking/internal/api/middleware"
	bookSlot "github.com/Preton24/VehicleParking/internal/usecase/book_slot"
)

const (
	msgInvalidSlotID       = "некорректный ID слота"
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgUnauthorized        = "пользователь не авторизован"
	msgSlotNotFound        = "слот не найден"
	msgSlotUnavailable     = "слот недоступен для бронирования"
	msgInvalidVehicleInput = "некорректный номер автомобиля"
)

type Handler struct {
	useCase BookSlotUseCase
	logger  Logger
}

func NewHandler(useCase BookSlotUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/slots/{slotId}/reservations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /slots/{id}/reservations - Missing user in context")
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	slotID, err := strconv.ParseInt(mux.Vars(r)["slotId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /slots/{id}/reservations - Invalid slot ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSlotID)
		return
	}

	var req BookSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /slots/{id}/reservations - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(userID, slotID))
	if err != nil {
		switch {
		case errors.Is(err, bookSlot.ErrInvalidInput):
			h.logger.Warn("POST /slots/{id}/reservations - Invalid input: user_id=%d, slot_id=%d, error=%v", userID, slotID, err)
			handlers.RespondBadRequest(w, msgInvalidVehicleInput)

		case errors.Is(err, bookSlot.ErrSlotNotFound):
			h.logger.Warn("POST /slots/{id}/reservations - Slot not found: slot_id=%d", slotID)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, bookSlot.ErrSlotUnavailable):
			h.logger.Warn("POST /slots/{id}/reservations - Slot unavailable: user_id=%d, slot_id=%d", userID, slotID)
			handlers.RespondConflict(w, msgSlotUnavailable)

		default:
			h.logger.Error("POST /slots/{id}/reservations - Failed to book slot: user_id=%d, slot_id=%d, error=%v",
				userID, slotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /slots/{id}/reservations - Slot booked: reservation_id=%d, user_id=%d, slot_id=%d",
		result.ID, userID, slotID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
