package manage_slots

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/Preton24/VehicleParking/internal/api/handlers"
	"github.com/Preton24/VehicleParking/internal/service/lots"
	"github.com/Preton24/VehicleParking/internal/service/lots/models"
)

const (
	msgInvalidLotID       = "некорректный ID парковки"
	msgInvalidSlotID      = "некорректный ID слота"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidSlotData    = "некорректные данные слота"
	msgLotNotFound        = "парковка не найдена"
	msgSlotNotFound       = "слот не найден"
	msgSlotNumberTaken    = "слот с таким номером уже есть на парковке"
	msgCapacityReached    = "достигнуто максимальное количество слотов парковки"
	msgSlotInUse          = "у слота есть активное бронирование"
)

type Handler struct {
	service SlotService
	logger  Logger
}

func NewHandler(service SlotService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// List GET /api/v1/admin/lots/{lotId}/slots
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	lotID, ok := h.parseID(w, r, "lotId", msgInvalidLotID, "GET /admin/lots/{id}/slots")
	if !ok {
		return
	}

	result, err := h.service.ListSlots(r.Context(), lotID)
	if err != nil {
		h.respondServiceError(w, "GET /admin/lots/{id}/slots", lotID, err)
		return
	}

	h.logger.Info("GET /admin/lots/{id}/slots - Slots retrieved: lot_id=%d, count=%d", lotID, result.Total)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// Create POST /api/v1/admin/lots/{lotId}/slots
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	lotID, ok := h.parseID(w, r, "lotId", msgInvalidLotID, "POST /admin/lots/{id}/slots")
	if !ok {
		return
	}

	var req models.CreateSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/lots/{id}/slots - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.CreateSlot(r.Context(), lotID, &req)
	if err != nil {
		h.respondServiceError(w, "POST /admin/lots/{id}/slots", lotID, err)
		return
	}

	h.logger.Info("POST /admin/lots/{id}/slots - Slot created: lot_id=%d, slot_id=%d, number=%s",
		lotID, result.ID, result.SlotNumber)
	handlers.RespondJSON(w, http.StatusCreated, result)
}

// UpdateStatus PATCH /api/v1/admin/slots/{slotId}/status
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	slotID, ok := h.parseID(w, r, "slotId", msgInvalidSlotID, "PATCH /admin/slots/{id}/status")
	if !ok {
		return
	}

	var req models.UpdateSlotStatusRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /admin/slots/{id}/status - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.UpdateSlotStatus(r.Context(), slotID, &req)
	if err != nil {
		h.respondServiceError(w, "PATCH /admin/slots/{id}/status", slotID, err)
		return
	}

	h.logger.Info("PATCH /admin/slots/{id}/status - Slot status changed: slot_id=%d, status=%s", slotID, result.Status)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// Delete DELETE /api/v1/admin/slots/{slotId}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	slotID, ok := h.parseID(w, r, "slotId", msgInvalidSlotID, "DELETE /admin/slots/{id}")
	if !ok {
		return
	}

	if err := h.service.DeleteSlot(r.Context(), slotID); err != nil {
		h.respondServiceError(w, "DELETE /admin/slots/{id}", slotID, err)
		return
	}

	h.logger.Info("DELETE /admin/slots/{id} - Slot deleted: slot_id=%d", slotID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) parseID(w http.ResponseWriter, r *http.Request, key, msg, route string) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)[key], 10, 64)
	if err != nil {
		h.logger.Warn("%s - Invalid %s: %v", route, key, err)
		handlers.RespondBadRequest(w, msg)
		return 0, false
	}
	return id, true
}

func (h *Handler) respondServiceError(w http.ResponseWriter, route string, id int64, err error) {
	switch {
	case errors.Is(err, lots.ErrInvalidInput):
		h.logger.Warn("%s - Invalid slot data: id=%d, error=%v", route, id, err)
		handlers.RespondBadRequest(w, msgInvalidSlotData)

	case errors.Is(err, lots.ErrLotNotFound):
		h.logger.Warn("%s - Lot not found: id=%d", route, id)
		handlers.RespondNotFound(w, msgLotNotFound)

	case errors.Is(err, lots.ErrSlotNotFound):
		h.logger.Warn("%s - Slot not found: id=%d", route, id)
		handlers.RespondNotFound(w, msgSlotNotFound)

	case errors.Is(err, lots.ErrSlotNumberTaken):
		h.logger.Warn("%s - Slot number taken: id=%d", route, id)
		handlers.RespondConflict(w, msgSlotNumberTaken)

	case errors.Is(err, lots.ErrCapacityReached):
		h.logger.Warn("%s - Capacity reached: id=%d", route, id)
		handlers.RespondConflict(w, msgCapacityReached)

	case errors.Is(err, lots.ErrSlotInUse):
		h.logger.Warn("%s - Slot in use: id=%d", route, id)
		handlers.RespondConflict(w, msgSlotInUse)

	default:
		h.logger.Error("%s - Failed: id=%d, error=%v", route, id, err)
		handlers.RespondInternalError(w)
	}
}
