package manage_slots

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/Preton24/VehicleParking/internal/service/lots"
	"github.com/Preton24/VehicleParking/internal/service/lots/models"
	"github.com/Preton24/VehicleParking/pkg/logger"
)

type serviceStub struct {
	err error
}

func (s *serviceStub) ListSlots(ctx context.Context, lotID int64) (*models.SlotListResponse, error) {
	return &models.SlotListResponse{LotID: lotID}, s.err
}

func (s *serviceStub) CreateSlot(ctx context.Context, lotID int64, req *models.CreateSlotRequest) (*models.SlotResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.SlotResponse{ID: 1, LotID: lotID, SlotNumber: req.SlotNumber, Status: "available"}, nil
}

func (s *serviceStub) UpdateSlotStatus(ctx context.Context, slotID int64, req *models.UpdateSlotStatusRequest) (*models.SlotResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.SlotResponse{ID: slotID, Status: req.Status}, nil
}

func (s *serviceStub) DeleteSlot(ctx context.Context, slotID int64) error {
	return s.err
}

func TestCreateErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "created", wantStatus: http.StatusCreated},
		{name: "invalid", err: lots.ErrInvalidInput, wantStatus: http.StatusBadRequest},
		{name: "lot not found", err: lots.ErrLotNotFound, wantStatus: http.StatusNotFound},
		{name: "number taken", err: lots.ErrSlotNumberTaken, wantStatus: http.StatusConflict},
		{name: "capacity", err: lots.ErrCapacityReached, wantStatus: http.StatusConflict},
		{name: "internal", err: errors.New("boom"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/admin/lots/1/slots", strings.NewReader(`{"slotNumber":"B-2"}`))
			req = mux.SetURLVars(req, map[string]string{"lotId": "1"})
			rec := httptest.NewRecorder()

			NewHandler(&serviceStub{err: tt.err}, logger.NewNop()).Create(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestDelete(t *testing.T) {
	serve := func(err error, id string) int {
		req := httptest.NewRequest(http.MethodDelete, "/admin/slots/"+id, nil)
		req = mux.SetURLVars(req, map[string]string{"slotId": id})
		rec := httptest.NewRecorder()
		NewHandler(&serviceStub{err: err}, logger.NewNop()).Delete(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, serve(nil, "3"))
	assert.Equal(t, http.StatusBadRequest, serve(nil, "x"))
	assert.Equal(t, http.StatusNotFound, serve(lots.ErrSlotNotFound, "3"))
	assert.Equal(t, http.StatusConflict, serve(lots.ErrSlotInUse, "3"))
}

func TestUpdateStatusRejectsMalformedBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPatch, "/admin/slots/3/status", strings.NewReader(`{"status":`))
	req = mux.SetURLVars(req, map[string]string{"slotId": "3"})
	rec := httptest.NewRecorder()

	NewHandler(&serviceStub{}, logger.NewNop()).UpdateStatus(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
