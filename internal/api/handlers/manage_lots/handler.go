package manage_lots

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
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidLotData     = "некорректные данные парковки"
	msgLotNotFound        = "парковка не найдена"
	msgLotNameTaken       = "парковка с таким названием уже существует"
)

type Handler struct {
	service LotService
	logger  Logger
}

func NewHandler(service LotService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// List GET /api/v1/admin/lots
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.ListLots(r.Context())
	if err != nil {
		h.logger.Error("GET /admin/lots - Failed to list lots: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /admin/lots - Lots retrieved: count=%d", result.Total)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// Get GET /api/v1/admin/lots/{lotId}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	lotID, ok := h.parseLotID(w, r, "GET /admin/lots/{id}")
	if !ok {
		return
	}

	result, err := h.service.GetLot(r.Context(), lotID)
	if err != nil {
		h.respondServiceError(w, "GET /admin/lots/{id}", lotID, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Create POST /api/v1/admin/lots
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.LotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/lots - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.CreateLot(r.Context(), &req)
	if err != nil {
		h.respondServiceError(w, "POST /admin/lots", 0, err)
		return
	}

	h.logger.Info("POST /admin/lots - Lot created: lot_id=%d, name=%s", result.ID, result.Name)
	handlers.RespondJSON(w, http.StatusCreated, result)
}

// Update PUT /api/v1/admin/lots/{lotId}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	lotID, ok := h.parseLotID(w, r, "PUT /admin/lots/{id}")
	if !ok {
		return
	}

	var req models.LotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /admin/lots/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.UpdateLot(r.Context(), lotID, &req)
	if err != nil {
		h.respondServiceError(w, "PUT /admin/lots/{id}", lotID, err)
		return
	}

	h.logger.Info("PUT /admin/lots/{id} - Lot updated: lot_id=%d", lotID)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// Delete DELETE /api/v1/admin/lots/{lotId}
// Удаляет парковку вместе со слотами и бронированиями
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	lotID, ok := h.parseLotID(w, r, "DELETE /admin/lots/{id}")
	if !ok {
		return
	}

	result, err := h.service.DeleteLot(r.Context(), lotID)
	if err != nil {
		h.respondServiceError(w, "DELETE /admin/lots/{id}", lotID, err)
		return
	}

	h.logger.Info("DELETE /admin/lots/{id} - Lot deleted: lot_id=%d, slots=%d, reservations=%d",
		lotID, result.DeletedSlots, result.DeletedReservations)
	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) parseLotID(w http.ResponseWriter, r *http.Request, route string) (int64, bool) {
	lotID, err := strconv.ParseInt(mux.Vars(r)["lotId"], 10, 64)
	if err != nil {
		h.logger.Warn("%s - Invalid lot ID: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidLotID)
		return 0, false
	}
	return lotID, true
}

func (h *Handler) respondServiceError(w http.ResponseWriter, route string, lotID int64, err error) {
	switch {
	case errors.Is(err, lots.ErrInvalidInput):
		h.logger.Warn("%s - Invalid lot data: lot_id=%d, error=%v", route, lotID, err)
		handlers.RespondBadRequest(w, msgInvalidLotData)

	case errors.Is(err, lots.ErrLotNotFound):
		h.logger.Warn("%s - Lot not found: lot_id=%d", route, lotID)
		handlers.RespondNotFound(w, msgLotNotFound)

	case errors.Is(err, lots.ErrLotNameTaken):
		h.logger.Warn("%s - Lot name taken: lot_id=%d", route, lotID)
		handlers.RespondConflict(w, msgLotNameTaken)

	default:
		h.logger.Error("%s - Failed: lot_id=%d, error=%v", route, lotID, err)
		handlers.RespondInternalError(w)
	}
}
