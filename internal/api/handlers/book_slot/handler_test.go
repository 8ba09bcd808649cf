package book_slot

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Preton24/VehicleParking/internal/api/middleware"
	"github.com/Preton24/VehicleParking/internal/domain"
	bookSlot "github.com/Preton24/VehicleParking/internal/usecase/book_slot"
	"github.com/Preton24/VehicleParking/pkg/logger"
)

type useCaseStub struct {
	got  *bookSlot.Request
	resp *bookSlot.Response
	err  error
}

func (s *useCaseStub) Execute(ctx context.Context, req *bookSlot.Request) (*bookSlot.Response, error) {
	s.got = req
	return s.resp, s.err
}

func serve(t *testing.T, uc BookSlotUseCase, slotID, body string, userID int64) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/slots/"+slotID+"/reservations", strings.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"slotId": slotID})
	if userID > 0 {
		req = req.WithContext(middleware.WithActor(req.Context(), domain.Actor{UserID: userID}))
	}
	rec := httptest.NewRecorder()
	NewHandler(uc, logger.NewNop()).Handle(rec, req)
	return rec
}

func TestHandleCreated(t *testing.T) {
	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	uc := &useCaseStub{resp: &bookSlot.Response{
		ID: 11, UserID: 5, SlotID: 3, LotID: 1, SlotNumber: "A-1",
		VehicleNumber: "KA01AB1234", StartTime: start, Status: "active", CreatedAt: start,
	}}

	rec := serve(t, uc, "3", `{"vehicleNumber":"KA01AB1234"}`, 5)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, &bookSlot.Request{UserID: 5, SlotID: 3, VehicleNumber: "KA01AB1234"}, uc.got)

	var body ReservationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(11), body.ID)
	assert.Equal(t, "2025-03-01T10:00:00Z", body.StartTime)
	assert.Equal(t, "active", body.Status)
}

func TestHandleErrors(t *testing.T) {
	tests := []struct {
		name       string
		slotID     string
		body       string
		userID     int64
		err        error
		wantStatus int
	}{
		{name: "no user", slotID: "1", body: `{}`, wantStatus: http.StatusUnauthorized},
		{name: "bad slot id", slotID: "x", body: `{}`, userID: 1, wantStatus: http.StatusBadRequest},
		{name: "bad body", slotID: "1", body: `{`, userID: 1, wantStatus: http.StatusBadRequest},
		{name: "invalid input", slotID: "1", body: `{"vehicleNumber":""}`, userID: 1, err: bookSlot.ErrInvalidInput, wantStatus: http.StatusBadRequest},
		{name: "not found", slotID: "1", body: `{"vehicleNumber":"A"}`, userID: 1, err: bookSlot.ErrSlotNotFound, wantStatus: http.StatusNotFound},
		{name: "unavailable", slotID: "1", body: `{"vehicleNumber":"A"}`, userID: 1, err: bookSlot.ErrSlotUnavailable, wantStatus: http.StatusConflict},
		{name: "internal", slotID: "1", body: `{"vehicleNumber":"A"}`, userID: 1, err: errors.New("db down"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, &useCaseStub{err: tt.err}, tt.slotID, tt.body, tt.userID)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
