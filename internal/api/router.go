package api

import (
	"net/http"

	"github.com/gorilla/mux"

	bookSlotHandler "github.com/Preton24/VehicleParking/internal/api/handlers/book_slot"
	cancelReservationHandler "github.com/Preton24/VehicleParking/internal/api/handlers/cancel_reservation"
	getParkingOverviewHandler "github.com/Preton24/VehicleParking/internal/api/handlers/get_parking_overview"
	getReservationHandler "github.com/Preton24/VehicleParking/internal/api/handlers/get_reservation"
	getStatsHandler "github.com/Preton24/VehicleParking/internal/api/handlers/get_stats"
	getUserReservationsHandler "github.com/Preton24/VehicleParking/internal/api/handlers/get_user_reservations"
	healthHandler "github.com/Preton24/VehicleParking/internal/api/handlers/health"
	listReservationsHandler "github.com/Preton24/VehicleParking/internal/api/handlers/list_reservations"
	manageLotsHandler "github.com/Preton24/VehicleParking/internal/api/handlers/manage_lots"
	manageSlotsHandler "github.com/Preton24/VehicleParking/internal/api/handlers/manage_slots"
	releaseSlotHandler "github.com/Preton24/VehicleParking/internal/api/handlers/release_slot"
	"github.com/Preton24/VehicleParking/internal/api/middleware"
	"github.com/Preton24/VehicleParking/pkg/metrics"
)

// Handlers набор HTTP обработчиков сервиса
type Handlers struct {
	BookSlot            *bookSlotHandler.Handler
	ReleaseSlot         *releaseSlotHandler.Handler
	CancelReservation   *cancelReservationHandler.Handler
	GetReservation      *getReservationHandler.Handler
	GetUserReservations *getUserReservationsHandler.Handler
	ListReservations    *listReservationsHandler.Handler
	ParkingOverview     *getParkingOverviewHandler.Handler
	ManageLots          *manageLotsHandler.Handler
	ManageSlots         *manageSlotsHandler.Handler
	Stats               *getStatsHandler.Handler
	Health              *healthHandler.Handler
}

// RouterConfig зависимости роутера
type RouterConfig struct {
	Handlers Handlers
	Logger   middleware.Logger

	// Auth проверка пользователя, по умолчанию middleware.Auth
	Auth mux.MiddlewareFunc

	// Metrics nil отключает HTTP метрики и /metrics
	Metrics        *metrics.Metrics
	MetricsPath    string
	MetricsHandler http.Handler
}

// NewRouter собирает роутер со всеми маршрутами API
func NewRouter(cfg RouterConfig) *mux.Router {
	h := cfg.Handlers

	auth := cfg.Auth
	if auth == nil {
		auth = middleware.Auth
	}

	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(cfg.Logger))

	if cfg.Metrics != nil {
		r.Use(middleware.MetricsMiddleware(cfg.Metrics))
		if cfg.MetricsHandler != nil {
			r.Handle(cfg.MetricsPath, cfg.MetricsHandler).Methods(http.MethodGet)
		}
	}

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	r.HandleFunc("/health", h.Health.Handle).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()

	// Обзор парковок со статусами слотов
	api.HandleFunc("/lots/overview", h.ParkingOverview.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(auth)

	// --- Бронирования ---
	protected.HandleFunc("/slots/{slotId:[0-9]+}/reservations", h.BookSlot.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/reservations/{reservationId:[0-9]+}", h.GetReservation.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/reservations/{reservationId:[0-9]+}/release", h.ReleaseSlot.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/reservations/{reservationId:[0-9]+}/cancel", h.CancelReservation.Handle).Methods(http.MethodPatch)

	// История бронирований пользователя
	protected.HandleFunc("/users/{userId:[0-9]+}/reservations", h.GetUserReservations.Handle).Methods(http.MethodGet)

	// ============================================================
	// ADMIN ROUTES (X-User-ID + роль admin)
	// ============================================================

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(auth)
	admin.Use(middleware.RequireAdmin)

	// --- Парковки ---
	admin.HandleFunc("/lots", h.ManageLots.List).Methods(http.MethodGet)
	admin.HandleFunc("/lots", h.ManageLots.Create).Methods(http.MethodPost)
	admin.HandleFunc("/lots/{lotId:[0-9]+}", h.ManageLots.Get).Methods(http.MethodGet)
	admin.HandleFunc("/lots/{lotId:[0-9]+}", h.ManageLots.Update).Methods(http.MethodPut)
	admin.HandleFunc("/lots/{lotId:[0-9]+}", h.ManageLots.Delete).Methods(http.MethodDelete)

	// --- Слоты ---
	admin.HandleFunc("/lots/{lotId:[0-9]+}/slots", h.ManageSlots.List).Methods(http.MethodGet)
	admin.HandleFunc("/lots/{lotId:[0-9]+}/slots", h.ManageSlots.Create).Methods(http.MethodPost)
	admin.HandleFunc("/slots/{slotId:[0-9]+}/status", h.ManageSlots.UpdateStatus).Methods(http.MethodPatch)
	admin.HandleFunc("/slots/{slotId:[0-9]+}", h.ManageSlots.Delete).Methods(http.MethodDelete)

	// --- Бронирования и статистика ---
	admin.HandleFunc("/reservations", h.ListReservations.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/stats", h.Stats.Handle).Methods(http.MethodGet)

	return r
}
