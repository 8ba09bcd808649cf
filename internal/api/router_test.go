package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

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
	lotsService "github.com/Preton24/VehicleParking/internal/service/lots"
	reservationsService "github.com/Preton24/VehicleParking/internal/service/reservations"
	statsService "github.com/Preton24/VehicleParking/internal/service/stats"
	"github.com/Preton24/VehicleParking/internal/testutil/memstore"
	bookSlotUC "github.com/Preton24/VehicleParking/internal/usecase/book_slot"
	cancelReservationUC "github.com/Preton24/VehicleParking/internal/usecase/cancel_reservation"
	releaseSlotUC "github.com/Preton24/VehicleParking/internal/usecase/release_slot"
	"github.com/Preton24/VehicleParking/pkg/logger"
	"github.com/Preton24/VehicleParking/pkg/metrics"
)

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

type pingOK struct{}

func (pingOK) PingContext(context.Context) error { return nil }

type testServer struct {
	t      *testing.T
	router http.Handler
	clock  *clock
	store  *memstore.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := memstore.New()
	log := logger.NewNop()
	tx := store.TxManager()
	c := &clock{now: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)}
	reg := prometheus.NewRegistry()
	m := metrics.NewWithRegistry("test", reg)

	bookUC := bookSlotUC.NewUseCase(store.Slots(), store.Reservations(), tx, m, log).WithTimeProvider(c)
	releaseUC := releaseSlotUC.NewUseCase(store.Reservations(), store.Slots(), store.Lots(), tx, m, log).WithTimeProvider(c)
	cancelUC := cancelReservationUC.NewUseCase(store.Reservations(), store.Slots(), tx, m, log)

	lotsSvc := lotsService.NewService(store.Lots(), store.Slots(), store.Reservations(), tx, log)
	reservationsSvc := reservationsService.NewService(store.Reservations(), store.Slots(), store.Lots(), log)
	statsSvc := statsService.NewService(store.Lots(), store.Slots(), store.Reservations(), tx, log)

	router := NewRouter(RouterConfig{
		Handlers: Handlers{
			BookSlot:            bookSlotHandler.NewHandler(bookUC, log),
			ReleaseSlot:         releaseSlotHandler.NewHandler(releaseUC, log),
			CancelReservation:   cancelReservationHandler.NewHandler(cancelUC, log),
			GetReservation:      getReservationHandler.NewHandler(reservationsSvc, log),
			GetUserReservations: getUserReservationsHandler.NewHandler(reservationsSvc, log),
			ListReservations:    listReservationsHandler.NewHandler(reservationsSvc, log),
			ParkingOverview:     getParkingOverviewHandler.NewHandler(lotsSvc, log),
			ManageLots:          manageLotsHandler.NewHandler(lotsSvc, log),
			ManageSlots:         manageSlotsHandler.NewHandler(lotsSvc, log),
			Stats:               getStatsHandler.NewHandler(statsSvc, log),
			Health:              healthHandler.NewHandler(pingOK{}, log),
		},
		Logger:         log,
		Metrics:        m,
		MetricsPath:    "/metrics",
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	})

	return &testServer{t: t, router: router, clock: c, store: store}
}

// do выполняет запрос от имени userID; userID = 0 означает анонимный запрос
func (s *testServer) do(method, path string, userID int64, admin bool, body string) *httptest.ResponseRecorder {
	s.t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if userID > 0 {
		req.Header.Set(middleware.HeaderUserID, fmt.Sprint(userID))
	}
	if admin {
		req.Header.Set(middleware.HeaderUserRole, "admin")
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

const adminID = 1

func (s *testServer) createLotWithSlot(name string, price string) (lotID, slotID int64) {
	s.t.Helper()
	rec := s.do(http.MethodPost, "/api/v1/admin/lots", adminID, true,
		fmt.Sprintf(`{"name":%q,"location":"Center","price":%s,"maximumNumberOfSpots":2}`, name, price))
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())
	lot := decode[map[string]any](s.t, rec)
	lotID = int64(lot["id"].(float64))

	rec = s.do(http.MethodPost, fmt.Sprintf("/api/v1/admin/lots/%d/slots", lotID), adminID, true, `{"slotNumber":"A-1"}`)
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())
	slot := decode[map[string]any](s.t, rec)
	return lotID, int64(slot["id"].(float64))
}

func TestBookAndReleaseFlow(t *testing.T) {
	s := newTestServer(t)
	_, slotID := s.createLotWithSlot("Central", "100")

	rec := s.do(http.MethodPost, fmt.Sprintf("/api/v1/slots/%d/reservations", slotID), 7, false, `{"vehicleNumber":"KA01AB1234"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	booked := decode[bookSlotHandler.ReservationResponse](t, rec)
	assert.Equal(t, "active", booked.Status)

	// Повторное бронирование того же слота
	rec = s.do(http.MethodPost, fmt.Sprintf("/api/v1/slots/%d/reservations", slotID), 8, false, `{"vehicleNumber":"KA02CD5678"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, 1, s.store.ActiveCount(slotID))

	// Чужой пользователь не может освободить слот
	releasePath := fmt.Sprintf("/api/v1/reservations/%d/release", booked.ID)
	rec = s.do(http.MethodPatch, releasePath, 8, false, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	s.clock.now = s.clock.now.Add(90 * time.Minute)
	rec = s.do(http.MethodPatch, releasePath, 7, false, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	released := decode[releaseSlotHandler.ReleaseResponse](t, rec)
	assert.Equal(t, "completed", released.Status)
	assert.Equal(t, 150.0, released.Cost)
	assert.Equal(t, 1.5, released.DurationHours)
	assert.Nil(t, released.Warning)

	// Повторное освобождение
	rec = s.do(http.MethodPatch, releasePath, 7, false, "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	slot, ok := s.store.Slot(slotID)
	require.True(t, ok)
	assert.Equal(t, "available", string(slot.Status))
}

func TestAdminCanReleaseForeignReservation(t *testing.T) {
	s := newTestServer(t)
	_, slotID := s.createLotWithSlot("North", "null")

	rec := s.do(http.MethodPost, fmt.Sprintf("/api/v1/slots/%d/reservations", slotID), 7, false, `{"vehicleNumber":"X1"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	booked := decode[bookSlotHandler.ReservationResponse](t, rec)

	rec = s.do(http.MethodPatch, fmt.Sprintf("/api/v1/reservations/%d/release", booked.ID), adminID, true, "")
	require.Equal(t, http.StatusOK, rec.Code)
	released := decode[releaseSlotHandler.ReleaseResponse](t, rec)
	assert.Equal(t, 0.0, released.Cost)
	require.NotNil(t, released.Warning)
}

func TestCancelFlow(t *testing.T) {
	s := newTestServer(t)
	_, slotID := s.createLotWithSlot("South", "20")

	rec := s.do(http.MethodPost, fmt.Sprintf("/api/v1/slots/%d/reservations", slotID), 3, false, `{"vehicleNumber":"Y2"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	booked := decode[bookSlotHandler.ReservationResponse](t, rec)

	cancelPath := fmt.Sprintf("/api/v1/reservations/%d/cancel", booked.ID)
	rec = s.do(http.MethodPatch, cancelPath, 3, false, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "cancelled", decode[cancelReservationHandler.CancelResponse](t, rec).Status)

	rec = s.do(http.MethodPatch, cancelPath, 3, false, "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	r, ok := s.store.Reservation(booked.ID)
	require.True(t, ok)
	assert.Nil(t, r.Cost)
}

func TestReservationReadsRespectOwnership(t *testing.T) {
	s := newTestServer(t)
	_, slotID := s.createLotWithSlot("West", "10")

	rec := s.do(http.MethodPost, fmt.Sprintf("/api/v1/slots/%d/reservations", slotID), 5, false, `{"vehicleNumber":"Z3"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	booked := decode[bookSlotHandler.ReservationResponse](t, rec)

	path := fmt.Sprintf("/api/v1/reservations/%d", booked.ID)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, path, 5, false, "").Code)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, path, 6, false, "").Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, path, adminID, true, "").Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/api/v1/reservations/999", 5, false, "").Code)

	rec = s.do(http.MethodGet, "/api/v1/users/5/reservations?status=active", 5, false, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total":1`)

	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, "/api/v1/users/5/reservations", 6, false, "").Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/api/v1/users/5/reservations?status=bogus", 5, false, "").Code)
}

func TestAuthAndAdminGuards(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodPost, "/api/v1/slots/1/reservations", 0, false, `{}`).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/v1/admin/lots", 0, false, "").Code)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, "/api/v1/admin/lots", 9, false, "").Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/v1/admin/lots", adminID, true, "").Code)

	// Публичные маршруты
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/v1/lots/overview", 0, false, "").Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/health", 0, false, "").Code)
}

func TestAdminLotAndSlotManagement(t *testing.T) {
	s := newTestServer(t)
	lotID, slotID := s.createLotWithSlot("Main", "50")

	// Дубликат имени
	rec := s.do(http.MethodPost, "/api/v1/admin/lots", adminID, true, `{"name":"Main","location":"Other"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Некорректные данные
	rec = s.do(http.MethodPost, "/api/v1/admin/lots", adminID, true, `{"name":"","location":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Дубликат номера слота и ограничение вместимости
	slotsPath := fmt.Sprintf("/api/v1/admin/lots/%d/slots", lotID)
	assert.Equal(t, http.StatusConflict, s.do(http.MethodPost, slotsPath, adminID, true, `{"slotNumber":"A-1"}`).Code)
	assert.Equal(t, http.StatusCreated, s.do(http.MethodPost, slotsPath, adminID, true, `{"slotNumber":"A-2"}`).Code)
	assert.Equal(t, http.StatusConflict, s.do(http.MethodPost, slotsPath, adminID, true, `{"slotNumber":"A-3"}`).Code)

	rec = s.do(http.MethodGet, slotsPath, adminID, true, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total":2`)

	// Обслуживание слота блокирует бронирование
	statusPath := fmt.Sprintf("/api/v1/admin/slots/%d/status", slotID)
	assert.Equal(t, http.StatusOK, s.do(http.MethodPatch, statusPath, adminID, true, `{"status":"maintenance"}`).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPatch, statusPath, adminID, true, `{"status":"occupied"}`).Code)
	rec = s.do(http.MethodPost, fmt.Sprintf("/api/v1/slots/%d/reservations", slotID), 4, false, `{"vehicleNumber":"M1"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/lots/overview", 0, false, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"maintenance"`)

	assert.Equal(t, http.StatusOK, s.do(http.MethodPatch, statusPath, adminID, true, `{"status":"available"}`).Code)

	// Слот с активным бронированием нельзя удалить
	rec = s.do(http.MethodPost, fmt.Sprintf("/api/v1/slots/%d/reservations", slotID), 4, false, `{"vehicleNumber":"M1"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, http.StatusConflict, s.do(http.MethodDelete, fmt.Sprintf("/api/v1/admin/slots/%d", slotID), adminID, true, "").Code)

	// Каскадное удаление парковки
	rec = s.do(http.MethodDelete, fmt.Sprintf("/api/v1/admin/lots/%d", lotID), adminID, true, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	deleted := decode[map[string]any](t, rec)
	assert.Equal(t, 2.0, deleted["deletedSlots"])
	assert.Equal(t, 1.0, deleted["deletedReservations"])
	assert.Equal(t, 0, s.store.ReservationCount())

	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, fmt.Sprintf("/api/v1/admin/lots/%d", lotID), adminID, true, "").Code)
}

func TestStatsAndAdminReservationList(t *testing.T) {
	s := newTestServer(t)
	_, slotID := s.createLotWithSlot("Stats", "100")

	rec := s.do(http.MethodPost, fmt.Sprintf("/api/v1/slots/%d/reservations", slotID), 2, false, `{"vehicleNumber":"S1"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	booked := decode[bookSlotHandler.ReservationResponse](t, rec)

	s.clock.now = s.clock.now.Add(30 * time.Minute)
	require.Equal(t, http.StatusOK, s.do(http.MethodPatch, fmt.Sprintf("/api/v1/reservations/%d/release", booked.ID), 2, false, "").Code)

	rec = s.do(http.MethodGet, "/api/v1/admin/stats", adminID, true, "")
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode[map[string]any](t, rec)
	assert.Equal(t, 1.0, stats["totalLots"])
	assert.Equal(t, 50.0, stats["revenue"])

	rec = s.do(http.MethodGet, "/api/v1/admin/reservations?status=completed", adminID, true, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total":1`)

	rec = s.do(http.MethodGet, "/metrics", 0, false, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "reservation_operations_total")
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}
