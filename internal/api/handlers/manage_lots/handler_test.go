package manage_lots

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Preton24/VehicleParking/internal/service/lots"
	"github.com/Preton24/VehicleParking/internal/service/lots/models"
	"github.com/Preton24/VehicleParking/pkg/logger"
)

type serviceStub struct {
	got *models.LotRequest
	err error
}

func (s *serviceStub) ListLots(ctx context.Context) (*models.LotListResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.LotListResponse{Lots: []models.LotResponse{}}, nil
}

func (s *serviceStub) GetLot(ctx context.Context, id int64) (*models.LotResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.LotResponse{ID: id}, nil
}

func (s *serviceStub) CreateLot(ctx context.Context, req *models.LotRequest) (*models.LotResponse, error) {
	s.got = req
	if s.err != nil {
		return nil, s.err
	}
	return &models.LotResponse{ID: 1, Name: req.Name}, nil
}

func (s *serviceStub) UpdateLot(ctx context.Context, id int64, req *models.LotRequest) (*models.LotResponse, error) {
	s.got = req
	if s.err != nil {
		return nil, s.err
	}
	return &models.LotResponse{ID: id, Name: req.Name}, nil
}

func (s *serviceStub) DeleteLot(ctx context.Context, id int64) (*models.DeleteLotResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.DeleteLotResponse{ID: id, DeletedSlots: 2}, nil
}

func TestCreate(t *testing.T) {
	svc := &serviceStub{}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/lots",
		strings.NewReader(`{"name":"Central","location":"Downtown","price":40,"maximumNumberOfSpots":10}`))

	NewHandler(svc, logger.NewNop()).Create(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, svc.got.Price)
	assert.Equal(t, 40.0, *svc.got.Price)
	require.NotNil(t, svc.got.MaximumNumberOfSpots)
	assert.Equal(t, 10, *svc.got.MaximumNumberOfSpots)
}

func TestUpdateErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		body       string
		err        error
		wantStatus int
	}{
		{name: "ok", id: "1", body: `{"name":"A","location":"B"}`, wantStatus: http.StatusOK},
		{name: "bad id", id: "z", body: `{}`, wantStatus: http.StatusBadRequest},
		{name: "bad body", id: "1", body: `[]`, wantStatus: http.StatusBadRequest},
		{name: "invalid", id: "1", body: `{"name":"A","location":"B","price":-1}`, err: lots.ErrInvalidInput, wantStatus: http.StatusBadRequest},
		{name: "not found", id: "1", body: `{"name":"A","location":"B"}`, err: lots.ErrLotNotFound, wantStatus: http.StatusNotFound},
		{name: "name taken", id: "1", body: `{"name":"A","location":"B"}`, err: lots.ErrLotNameTaken, wantStatus: http.StatusConflict},
		{name: "internal", id: "1", body: `{"name":"A","location":"B"}`, err: errors.New("boom"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPut, "/admin/lots/"+tt.id, strings.NewReader(tt.body))
			req = mux.SetURLVars(req, map[string]string{"lotId": tt.id})
			rec := httptest.NewRecorder()

			NewHandler(&serviceStub{err: tt.err}, logger.NewNop()).Update(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestDeleteAndList(t *testing.T) {
	req := httptest.NewRequest(http.MethodDelete, "/admin/lots/4", nil)
	req = mux.SetURLVars(req, map[string]string{"lotId": "4"})
	rec := httptest.NewRecorder()
	NewHandler(&serviceStub{}, logger.NewNop()).Delete(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"deletedSlots":2`)

	rec = httptest.NewRecorder()
	NewHandler(&serviceStub{err: lots.ErrInternal}, logger.NewNop()).List(rec, httptest.NewRequest(http.MethodGet, "/admin/lots", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
