package wizard_sessions

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-MarketplaceService/internal/api/handlers"
	"github.com/m04kA/SMC-MarketplaceService/internal/api/middleware"
	"github.com/m04kA/SMC-MarketplaceService/internal/service/wizard"
	"github.com/m04kA/SMC-MarketplaceService/internal/service/wizard/models"
)

const (
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidStepIndex   = "некорректный номер шага"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgSessionNotFound    = "сессия мастера не найдена"
	msgInvalidStep        = "неизвестный шаг мастера"
	msgForwardJump        = "нельзя перейти вперед через незавершенные шаги"
	msgAlreadySubmitted   = "бронирование уже оформлено"
	msgSubmitInProgress   = "бронирование уже оформляется"
	msgNotOnReview        = "оформить бронирование можно только на шаге подтверждения"
)

type Handler struct {
	service WizardService
	logger  Logger
}

func NewHandler(service WizardService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Start POST /api/v1/wizard/sessions
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	const op = "POST /wizard/sessions"

	userID, ok := h.userID(w, r, op)
	if !ok {
		return
	}

	session, err := h.service.Start(r.Context(), userID)
	if err != nil {
		h.respondError(w, op, "", err)
		return
	}

	h.logger.Info("%s - Session started: session_id=%s, user_id=%d", op, session.ID, userID)
	handlers.RespondJSON(w, http.StatusCreated, session)
}

// Get GET /api/v1/wizard/sessions/{sessionId}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	h.handleTransition(w, r, "GET /wizard/sessions/{id}", h.service.Get)
}

// ApplyStep PUT /api/v1/wizard/sessions/{sessionId}/steps/{stepId}
func (h *Handler) ApplyStep(w http.ResponseWriter, r *http.Request) {
	const op = "PUT /wizard/sessions/{id}/steps/{stepId}"

	userID, ok := h.userID(w, r, op)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	sessionID, stepID := vars["sessionId"], vars["stepId"]

	raw, err := readRaw(r)
	if err != nil {
		h.logger.Warn("%s - Invalid request body: %v", op, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	session, err := h.service.Apply(r.Context(), userID, sessionID, stepID, raw)
	if err != nil {
		h.respondError(w, op, sessionID, err)
		return
	}

	h.logger.Info("%s - Step applied: session_id=%s, step=%s", op, sessionID, stepID)
	handlers.RespondJSON(w, http.StatusOK, session)
}

// Next POST /api/v1/wizard/sessions/{sessionId}/next
func (h *Handler) Next(w http.ResponseWriter, r *http.Request) {
	h.handleTransition(w, r, "POST /wizard/sessions/{id}/next", h.service.Next)
}

// Previous POST /api/v1/wizard/sessions/{sessionId}/previous
func (h *Handler) Previous(w http.ResponseWriter, r *http.Request) {
	h.handleTransition(w, r, "POST /wizard/sessions/{id}/previous", h.service.Previous)
}

// GoTo POST /api/v1/wizard/sessions/{sessionId}/goto/{index}
func (h *Handler) GoTo(w http.ResponseWriter, r *http.Request) {
	const op = "POST /wizard/sessions/{id}/goto/{index}"

	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil || index < 0 {
		h.logger.Warn("%s - Invalid step index: %v", op, err)
		handlers.RespondBadRequest(w, msgInvalidStepIndex)
		return
	}

	h.handleTransition(w, r, op, func(ctx context.Context, userID int64, sessionID string) (*models.SessionResponse, error) {
		return h.service.GoTo(ctx, userID, sessionID, index)
	})
}

// Submit POST /api/v1/wizard/sessions/{sessionId}/submit
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	h.handleTransition(w, r, "POST /wizard/sessions/{id}/submit", h.service.Submit)
}

// Cancel DELETE /api/v1/wizard/sessions/{sessionId}
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	const op = "DELETE /wizard/sessions/{id}"

	userID, ok := h.userID(w, r, op)
	if !ok {
		return
	}
	sessionID := mux.Vars(r)["sessionId"]

	if err := h.service.Cancel(r.Context(), userID, sessionID); err != nil {
		h.respondError(w, op, sessionID, err)
		return
	}

	h.logger.Info("%s - Session cancelled: session_id=%s", op, sessionID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleTransition(w http.ResponseWriter, r *http.Request, op string, fn transitionFunc) {
	userID, ok := h.userID(w, r, op)
	if !ok {
		return
	}
	sessionID := mux.Vars(r)["sessionId"]

	session, err := fn(r.Context(), userID, sessionID)
	if err != nil {
		h.respondError(w, op, sessionID, err)
		return
	}

	h.logger.Info("%s - OK: session_id=%s, step=%s", op, sessionID, session.CurrentStep)
	handlers.RespondJSON(w, http.StatusOK, session)
}

func (h *Handler) userID(w http.ResponseWriter, r *http.Request, op string) (int64, bool) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("%s - Missing user ID", op)
		handlers.RespondUnauthorized(w, msgMissingUserID)
	}
	return userID, ok
}

func (h *Handler) respondError(w http.ResponseWriter, op, sessionID string, err error) {
	var validationErr *wizard.ValidationError

	switch {
	case errors.As(err, &validationErr):
		h.logger.Warn("%s - Step incomplete: session_id=%s, step=%s, fields=%v",
			op, sessionID, validationErr.Step, validationErr.Fields)
		handlers.RespondUnprocessable(w, validationErr.Error(), validationErr.Fields)

	case errors.Is(err, wizard.ErrSessionNotFound):
		h.logger.Warn("%s - Session not found: session_id=%s", op, sessionID)
		handlers.RespondNotFound(w, msgSessionNotFound)

	case errors.Is(err, wizard.ErrInvalidStep):
		h.logger.Warn("%s - Invalid step: session_id=%s, error=%v", op, sessionID, err)
		handlers.RespondBadRequest(w, msgInvalidStep)

	case errors.Is(err, wizard.ErrForwardJump):
		h.logger.Warn("%s - Forward jump: session_id=%s", op, sessionID)
		handlers.RespondBadRequest(w, msgForwardJump)

	case errors.Is(err, wizard.ErrInvalidInput):
		h.logger.Warn("%s - Invalid input: session_id=%s, error=%v", op, sessionID, err)
		handlers.RespondBadRequest(w, err.Error())

	case errors.Is(err, wizard.ErrAlreadySubmitted):
		h.logger.Warn("%s - Already submitted: session_id=%s", op, sessionID)
		handlers.RespondConflict(w, msgAlreadySubmitted)

	case errors.Is(err, wizard.ErrSubmitInProgress):
		h.logger.Warn("%s - Submit in progress: session_id=%s", op, sessionID)
		handlers.RespondConflict(w, msgSubmitInProgress)

	case errors.Is(err, wizard.ErrNotOnReview):
		h.logger.Warn("%s - Not on review step: session_id=%s", op, sessionID)
		handlers.RespondConflict(w, msgNotOnReview)

	case errors.Is(err, wizard.ErrSubmitFailed):
		h.logger.Warn("%s - Submission failed: session_id=%s, error=%v", op, sessionID, err)
		handlers.RespondConflict(w, err.Error())

	default:
		h.logger.Error("%s - Failed: session_id=%s, error=%v", op, sessionID, err)
		handlers.RespondInternalError(w)
	}
}

// readRaw читает тело шага целиком. Пустое тело принимают только
// необязательные шаги (staff, addons, requests)
func readRaw(r *http.Request) (json.RawMessage, error) {
	if r.Body == nil {
		return nil, nil
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxStepBodyBytes))
	if err != nil {
		return nil, err
	}
	if len(body) > 0 && !json.Valid(body) {
		return nil, errInvalidJSON
	}
	return body, nil
}
