package release_slot

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Preton24/VehicleParking/internal/api/middleware"
	"github.com/Preton24/VehicleParking/internal/domain"
	releaseSlot "github.com/Preton24/VehicleParking/internal/usecase/release_slot"
	"github.com/Preton24/VehicleParking/pkg/logger"
)

type useCaseStub struct {
	got  *releaseSlot.Request
	resp *releaseSlot.Response
	err  error
}

func (s *useCaseStub) Execute(ctx context.Context, req *releaseSlot.Request) (*releaseSlot.Response, error) {
	s.got = req
	return s.resp, s.err
}

func serve(uc ReleaseSlotUseCase, id string, actor *domain.Actor) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPatch, "/reservations/"+id+"/release", nil)
	req = mux.SetURLVars(req, map[string]string{"reservationId": id})
	if actor != nil {
		req = req.WithContext(middleware.WithActor(req.Context(), *actor))
	}
	rec := httptest.NewRecorder()
	NewHandler(uc, logger.NewNop()).Handle(rec, req)
	return rec
}

func TestHandleReleased(t *testing.T) {
	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	warning := "hourly rate is not configured for lot 1, cost set to 0"
	uc := &useCaseStub{resp: &releaseSlot.Response{
		ID: 4, UserID: 5, SlotID: 2, VehicleNumber: "B", StartTime: start,
		EndTime: start.Add(90 * time.Minute), Status: "completed", DurationHours: 1.5, Warning: &warning,
	}}
	actor := domain.Actor{UserID: 5}

	rec := serve(uc, "4", &actor)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(4), uc.got.ReservationID)
	assert.Equal(t, actor, uc.got.Actor)

	var body ReleaseResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "2025-03-01T11:30:00Z", body.EndTime)
	assert.Equal(t, 1.5, body.DurationHours)
	require.NotNil(t, body.Warning)
	assert.Equal(t, warning, *body.Warning)
}

func TestHandleErrors(t *testing.T) {
	actor := &domain.Actor{UserID: 1}
	tests := []struct {
		name       string
		id         string
		actor      *domain.Actor
		err        error
		wantStatus int
	}{
		{name: "no user", id: "1", wantStatus: http.StatusUnauthorized},
		{name: "bad id", id: "abc", actor: actor, wantStatus: http.StatusBadRequest},
		{name: "not found", id: "1", actor: actor, err: releaseSlot.ErrReservationNotFound, wantStatus: http.StatusNotFound},
		{name: "forbidden", id: "1", actor: actor, err: releaseSlot.ErrForbidden, wantStatus: http.StatusForbidden},
		{name: "not active", id: "1", actor: actor, err: releaseSlot.ErrInvalidState, wantStatus: http.StatusConflict},
		{name: "internal", id: "1", actor: actor, err: errors.New("boom"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&useCaseStub{err: tt.err}, tt.id, tt.actor)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
