package manage_schedule

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-MarketplaceService/internal/api/handlers"
	"github.com/m04kA/SMC-MarketplaceService/internal/api/middleware"
	"github.com/m04kA/SMC-MarketplaceService/internal/service/schedule"
	"github.com/m04kA/SMC-MarketplaceService/internal/service/schedule/models"
	"github.com/m04kA/SMC-MarketplaceService/pkg/logger"
)

type fakeService struct {
	err        error
	userID     int64
	providerID int64
	serviceID  *int64
	update     *models.UpdateSettingsRequest
	generate   *models.GenerateSlotsRequest
}

func (f *fakeService) GetSettings(_ context.Context, userID, providerID int64, serviceID *int64) (*models.SettingsOverviewResponse, error) {
	f.userID, f.providerID, f.serviceID = userID, providerID, serviceID
	if f.err != nil {
		return nil, f.err
	}
	return &models.SettingsOverviewResponse{
		Effective:  models.SettingsResponse{ProviderID: providerID, Level: "provider", SlotDurationMinutes: 60},
		Configured: []models.SettingsResponse{},
	}, nil
}

func (f *fakeService) UpdateSettings(_ context.Context, userID, providerID int64, req *models.UpdateSettingsRequest) (*models.SettingsResponse, error) {
	f.userID, f.providerID, f.update = userID, providerID, req
	if f.err != nil {
		return nil, f.err
	}
	return &models.SettingsResponse{ProviderID: providerID, Level: "provider"}, nil
}

func (f *fakeService) DeleteSettings(_ context.Context, _, _ int64, serviceID *int64) error {
	f.serviceID = serviceID
	return f.err
}

func (f *fakeService) ListSlots(context.Context, int64, int64, *models.ListSlotsRequest) (*models.SlotListResponse, error) {
	return nil, f.err
}

func (f *fakeService) CreateSlot(context.Context, int64, int64, *models.CreateSlotRequest) (*models.SlotResponse, error) {
	return nil, f.err
}

func (f *fakeService) DeleteSlot(context.Context, int64, int64, int64) error {
	return f.err
}

func (f *fakeService) GenerateSlots(_ context.Context, _, _ int64, req *models.GenerateSlotsRequest) (*models.GenerateSlotsResponse, error) {
	f.generate = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.GenerateSlotsResponse{From: req.From, To: req.To, Generated: 10, Created: 8, Skipped: 2}, nil
}

func newRouter(svc ScheduleService) *mux.Router {
	h := NewHandler(svc, logger.NewNop())
	r := mux.NewRouter()
	r.Use(middleware.Auth)
	r.HandleFunc("/providers/{providerId}/schedule-settings", h.GetSettings).Methods(http.MethodGet)
	r.HandleFunc("/providers/{providerId}/schedule-settings", h.UpdateSettings).Methods(http.MethodPut)
	r.HandleFunc("/providers/{providerId}/schedule-settings", h.DeleteSettings).Methods(http.MethodDelete)
	r.HandleFunc("/providers/{providerId}/time-slots/generate", h.GenerateSlots).Methods(http.MethodPost)
	r.HandleFunc("/providers/{providerId}/time-slots/{slotId}", h.DeleteSlot).Methods(http.MethodDelete)
	return r
}

func send(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(middleware.UserIDHeader, "100")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandler_GetSettings(t *testing.T) {
	svc := &fakeService{}

	rec := send(newRouter(svc), http.MethodGet, "/providers/3/schedule-settings?serviceId=4", "")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, int64(100), svc.userID)
	assert.Equal(t, int64(3), svc.providerID)
	require.NotNil(t, svc.serviceID)
	assert.Equal(t, int64(4), *svc.serviceID)

	var resp models.SettingsOverviewResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "provider", resp.Effective.Level)
}

func TestHandler_UpdateSettings(t *testing.T) {
	svc := &fakeService{}

	rec := send(newRouter(svc), http.MethodPut, "/providers/3/schedule-settings",
		`{"slotDurationMinutes":90,"openTime":"08:00","workingDays":[1,2,3]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	require.NotNil(t, svc.update.SlotDurationMinutes)
	assert.Equal(t, 90, *svc.update.SlotDurationMinutes)
	assert.Equal(t, []int{1, 2, 3}, svc.update.WorkingDays)
	assert.Nil(t, svc.update.Capacity)
}

func TestHandler_DeleteSettings(t *testing.T) {
	svc := &fakeService{}

	rec := send(newRouter(svc), http.MethodDelete, "/providers/3/schedule-settings", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Nil(t, svc.serviceID)
}

func TestHandler_GenerateSlots(t *testing.T) {
	svc := &fakeService{}

	rec := send(newRouter(svc), http.MethodPost, "/providers/3/time-slots/generate",
		`{"from":"2026-03-10","to":"2026-03-16"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.GenerateSlotsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 8, resp.Created)
	assert.Equal(t, 2, resp.Skipped)
	assert.Equal(t, "2026-03-10", svc.generate.From)
}

func TestHandler_ValidationMessagePassesThrough(t *testing.T) {
	err := fmt.Errorf("%w: got 0", schedule.ErrInvalidCapacity)
	rec := send(newRouter(&fakeService{err: err}), http.MethodPut, "/providers/3/schedule-settings", `{"capacity":0}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp handlers.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, err.Error(), resp.Message)
}

func TestHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		err        error
		wantStatus int
	}{
		{name: "bad provider id", method: http.MethodGet, path: "/providers/x/schedule-settings", wantStatus: http.StatusBadRequest},
		{name: "bad service id", method: http.MethodGet, path: "/providers/3/schedule-settings?serviceId=x", wantStatus: http.StatusBadRequest},
		{name: "unknown body field", method: http.MethodPut, path: "/providers/3/schedule-settings", body: `{"slots":1}`, wantStatus: http.StatusBadRequest},
		{name: "not owner", method: http.MethodGet, path: "/providers/3/schedule-settings", err: schedule.ErrAccessDenied, wantStatus: http.StatusForbidden},
		{name: "no provider", method: http.MethodGet, path: "/providers/3/schedule-settings", err: schedule.ErrProviderNotFound, wantStatus: http.StatusNotFound},
		{name: "no settings", method: http.MethodDelete, path: "/providers/3/schedule-settings", err: schedule.ErrSettingsNotFound, wantStatus: http.StatusNotFound},
		{name: "slot booked", method: http.MethodDelete, path: "/providers/3/time-slots/9", err: schedule.ErrSlotHasBookings, wantStatus: http.StatusConflict},
		{name: "slot missing", method: http.MethodDelete, path: "/providers/3/time-slots/9", err: schedule.ErrSlotNotFound, wantStatus: http.StatusNotFound},
		{name: "bad range", method: http.MethodPost, path: "/providers/3/time-slots/generate", body: `{"from":"2026-03-16","to":"2026-03-10"}`, err: schedule.ErrInvalidDateRange, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := send(newRouter(&fakeService{err: tt.err}), tt.method, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
