package get_parking_overview

import (
	"net/http"

	"github.com/Preton24/VehicleParking/internal/api/handlers"
)

type Handler struct {
	service OverviewService
	logger  Logger
}

func NewHandler(service OverviewService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/lots/overview
// Все парковки со слотами и статусом отображения каждого слота
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Overview(r.Context())
	if err != nil {
		h.logger.Error("GET /lots/overview - Failed to build overview: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /lots/overview - Overview retrieved: lots=%d", len(result.Lots))
	handlers.RespondJSON(w, http.StatusOK, result)
}
