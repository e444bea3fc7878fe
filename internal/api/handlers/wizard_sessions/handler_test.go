package wizard_sessions

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
	"github.com/m04kA/SMC-MarketplaceService/internal/service/wizard"
	"github.com/m04kA/SMC-MarketplaceService/internal/service/wizard/models"
	"github.com/m04kA/SMC-MarketplaceService/pkg/logger"
)

type fakeService struct {
	err       error
	applied   json.RawMessage
	gotoIndex int
	calls     []string
}

func (f *fakeService) session(id, step string) (*models.SessionResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.SessionResponse{ID: id, Status: "in_progress", CurrentStep: step}, nil
}

func (f *fakeService) Start(_ context.Context, _ int64) (*models.SessionResponse, error) {
	f.calls = append(f.calls, "start")
	return f.session("s1", "service")
}

func (f *fakeService) Get(_ context.Context, _ int64, id string) (*models.SessionResponse, error) {
	f.calls = append(f.calls, "get")
	return f.session(id, "service")
}

func (f *fakeService) Apply(_ context.Context, _ int64, id, stepID string, raw json.RawMessage) (*models.SessionResponse, error) {
	f.calls = append(f.calls, "apply:"+stepID)
	f.applied = raw
	return f.session(id, stepID)
}

func (f *fakeService) Next(_ context.Context, _ int64, id string) (*models.SessionResponse, error) {
	f.calls = append(f.calls, "next")
	return f.session(id, "datetime")
}

func (f *fakeService) Previous(_ context.Context, _ int64, id string) (*models.SessionResponse, error) {
	f.calls = append(f.calls, "previous")
	return f.session(id, "service")
}

func (f *fakeService) GoTo(_ context.Context, _ int64, id string, index int) (*models.SessionResponse, error) {
	f.calls = append(f.calls, "goto")
	f.gotoIndex = index
	return f.session(id, "service")
}

func (f *fakeService) Submit(_ context.Context, _ int64, id string) (*models.SessionResponse, error) {
	f.calls = append(f.calls, "submit")
	return f.session(id, "review")
}

func (f *fakeService) Cancel(_ context.Context, _ int64, _ string) error {
	f.calls = append(f.calls, "cancel")
	return f.err
}

func newRouter(svc WizardService) *mux.Router {
	h := NewHandler(svc, logger.NewNop())
	r := mux.NewRouter()
	r.Use(middleware.Auth)
	r.HandleFunc("/wizard/sessions", h.Start).Methods(http.MethodPost)
	r.HandleFunc("/wizard/sessions/{sessionId}", h.Get).Methods(http.MethodGet)
	r.HandleFunc("/wizard/sessions/{sessionId}", h.Cancel).Methods(http.MethodDelete)
	r.HandleFunc("/wizard/sessions/{sessionId}/steps/{stepId}", h.ApplyStep).Methods(http.MethodPut)
	r.HandleFunc("/wizard/sessions/{sessionId}/next", h.Next).Methods(http.MethodPost)
	r.HandleFunc("/wizard/sessions/{sessionId}/goto/{index}", h.GoTo).Methods(http.MethodPost)
	r.HandleFunc("/wizard/sessions/{sessionId}/submit", h.Submit).Methods(http.MethodPost)
	return r
}

func do(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(middleware.UserIDHeader, "7")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandler_StartAndCancel(t *testing.T) {
	svc := &fakeService{}
	r := newRouter(svc)

	rec := do(t, r, http.MethodPost, "/wizard/sessions", "")
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp models.SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "s1", resp.ID)

	rec = do(t, r, http.MethodDelete, "/wizard/sessions/s1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{"start", "cancel"}, svc.calls)
}

func TestHandler_ApplyStep(t *testing.T) {
	svc := &fakeService{}
	r := newRouter(svc)

	rec := do(t, r, http.MethodPut, "/wizard/sessions/s1/steps/info", `{"name":"Jane"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"name":"Jane"}`, string(svc.applied))
	assert.Equal(t, []string{"apply:info"}, svc.calls)

	rec = do(t, r, http.MethodPut, "/wizard/sessions/s1/steps/info", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Len(t, svc.calls, 1)
}

func TestHandler_GoTo(t *testing.T) {
	svc := &fakeService{}
	r := newRouter(svc)

	rec := do(t, r, http.MethodPost, "/wizard/sessions/s1/goto/2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, svc.gotoIndex)

	rec = do(t, r, http.MethodPost, "/wizard/sessions/s1/goto/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_MissingUser(t *testing.T) {
	r := newRouter(&fakeService{})

	req := httptest.NewRequest(http.MethodPost, "/wizard/sessions/s1/next", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantFields []string
	}{
		{
			name:       "incomplete step",
			err:        &wizard.ValidationError{Step: wizard.StepInfo, Fields: []string{"email", "phone"}},
			wantStatus: http.StatusUnprocessableEntity,
			wantFields: []string{"email", "phone"},
		},
		{name: "not found", err: wizard.ErrSessionNotFound, wantStatus: http.StatusNotFound},
		{name: "forward jump", err: wizard.ErrForwardJump, wantStatus: http.StatusBadRequest},
		{name: "invalid input", err: fmt.Errorf("%w: unknown payment method", wizard.ErrInvalidInput), wantStatus: http.StatusBadRequest},
		{name: "already submitted", err: wizard.ErrAlreadySubmitted, wantStatus: http.StatusConflict},
		{name: "submit in progress", err: wizard.ErrSubmitInProgress, wantStatus: http.StatusConflict},
		{name: "not on review", err: wizard.ErrNotOnReview, wantStatus: http.StatusConflict},
		{name: "submit failed", err: fmt.Errorf("%w: slot is full", wizard.ErrSubmitFailed), wantStatus: http.StatusConflict},
		{name: "internal", err: wizard.ErrInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRouter(&fakeService{err: tt.err})

			rec := do(t, r, http.MethodPost, "/wizard/sessions/s1/submit", "")
			require.Equal(t, tt.wantStatus, rec.Code)

			var resp handlers.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantStatus, resp.Code)
			assert.Equal(t, tt.wantFields, resp.Fields)
		})
	}
}
