package manage_schedule

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-MarketplaceService/internal/api/handlers"
	"github.com/m04kA/SMC-MarketplaceService/internal/api/middleware"
	"github.com/m04kA/SMC-MarketplaceService/internal/service/schedule"
	"github.com/m04kA/SMC-MarketplaceService/internal/service/schedule/models"
)

const (
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidProviderID  = "некорректный ID провайдера"
	msgInvalidSlotID      = "некорректный ID слота"
	msgInvalidParams      = "некорректные параметры запроса"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgProviderNotFound   = "провайдер не найден"
	msgServiceNotFound    = "услуга не найдена"
	msgSettingsNotFound   = "настройки расписания не найдены"
	msgSlotNotFound       = "временной слот не найден"
	msgSlotExists         = "слот с таким временем начала уже существует"
	msgSlotHasBookings    = "нельзя удалить слот с бронированиями"
	msgForbidden          = "доступ запрещен"
)

// validationErrors ошибки валидации сервиса, сообщение отдается клиенту как есть
var validationErrors = []error{
	schedule.ErrInvalidSlotDuration,
	schedule.ErrInvalidCapacity,
	schedule.ErrInvalidAdvanceDays,
	schedule.ErrInvalidNoticeMinutes,
	schedule.ErrInvalidWorkingHours,
	schedule.ErrInvalidWorkingDays,
	schedule.ErrInvalidDateRange,
	schedule.ErrInvalidInput,
}

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// GetSettings GET /api/v1/providers/{providerId}/schedule-settings
// Query params: serviceId (опционально)
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	const op = "GET /providers/{id}/schedule-settings"

	providerID, userID, ok := h.parse(w, r, op)
	if !ok {
		return
	}
	serviceID, err := handlers.QueryInt64(r, "serviceId")
	if err != nil {
		h.logger.Warn("%s - Invalid parameters: %v", op, err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.service.GetSettings(r.Context(), userID, providerID, serviceID)
	if err != nil {
		h.respondError(w, op, providerID, err)
		return
	}

	h.logger.Info("%s - Settings retrieved successfully: provider_id=%d, level=%s",
		op, providerID, result.Effective.Level)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// UpdateSettings PUT /api/v1/providers/{providerId}/schedule-settings
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	const op = "PUT /providers/{id}/schedule-settings"

	providerID, userID, ok := h.parse(w, r, op)
	if !ok {
		return
	}

	var req models.UpdateSettingsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("%s - Invalid request body: %v", op, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.UpdateSettings(r.Context(), userID, providerID, &req)
	if err != nil {
		h.respondError(w, op, providerID, err)
		return
	}

	h.logger.Info("%s - Settings updated successfully: provider_id=%d, level=%s", op, providerID, result.Level)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// DeleteSettings DELETE /api/v1/providers/{providerId}/schedule-settings
// Query params: serviceId (опционально). Область возвращается к настройкам уровнем выше
func (h *Handler) DeleteSettings(w http.ResponseWriter, r *http.Request) {
	const op = "DELETE /providers/{id}/schedule-settings"

	providerID, userID, ok := h.parse(w, r, op)
	if !ok {
		return
	}
	serviceID, err := handlers.QueryInt64(r, "serviceId")
	if err != nil {
		h.logger.Warn("%s - Invalid parameters: %v", op, err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	if err := h.service.DeleteSettings(r.Context(), userID, providerID, serviceID); err != nil {
		h.respondError(w, op, providerID, err)
		return
	}

	h.logger.Info("%s - Settings deleted: provider_id=%d", op, providerID)
	w.WriteHeader(http.StatusNoContent)
}

// ListSlots GET /api/v1/providers/{providerId}/time-slots
// Query params: from, to (YYYY-MM-DD)
func (h *Handler) ListSlots(w http.ResponseWriter, r *http.Request) {
	const op = "GET /providers/{id}/time-slots"

	providerID, userID, ok := h.parse(w, r, op)
	if !ok {
		return
	}

	req := &models.ListSlotsRequest{
		From: r.URL.Query().Get("from"),
		To:   r.URL.Query().Get("to"),
	}

	result, err := h.service.ListSlots(r.Context(), userID, providerID, req)
	if err != nil {
		h.respondError(w, op, providerID, err)
		return
	}

	h.logger.Info("%s - Slots retrieved successfully: provider_id=%d, count=%d", op, providerID, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, result)
}

// CreateSlot POST /api/v1/providers/{providerId}/time-slots
func (h *Handler) CreateSlot(w http.ResponseWriter, r *http.Request) {
	const op = "POST /providers/{id}/time-slots"

	providerID, userID, ok := h.parse(w, r, op)
	if !ok {
		return
	}

	var req models.CreateSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("%s - Invalid request body: %v", op, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	slot, err := h.service.CreateSlot(r.Context(), userID, providerID, &req)
	if err != nil {
		h.respondError(w, op, providerID, err)
		return
	}

	h.logger.Info("%s - Slot created: provider_id=%d, slot_id=%d", op, providerID, slot.ID)
	handlers.RespondJSON(w, http.StatusCreated, slot)
}

// DeleteSlot DELETE /api/v1/providers/{providerId}/time-slots/{slotId}
func (h *Handler) DeleteSlot(w http.ResponseWriter, r *http.Request) {
	const op = "DELETE /providers/{id}/time-slots/{slotId}"

	providerID, userID, ok := h.parse(w, r, op)
	if !ok {
		return
	}
	slotID, err := handlers.PathInt64(r, "slotId")
	if err != nil {
		h.logger.Warn("%s - Invalid slot ID: %v", op, err)
		handlers.RespondBadRequest(w, msgInvalidSlotID)
		return
	}

	if err := h.service.DeleteSlot(r.Context(), userID, providerID, slotID); err != nil {
		h.respondError(w, op, providerID, err)
		return
	}

	h.logger.Info("%s - Slot deleted: provider_id=%d, slot_id=%d", op, providerID, slotID)
	w.WriteHeader(http.StatusNoContent)
}

// GenerateSlots POST /api/v1/providers/{providerId}/time-slots/generate
func (h *Handler) GenerateSlots(w http.ResponseWriter, r *http.Request) {
	const op = "POST /providers/{id}/time-slots/generate"

	providerID, userID, ok := h.parse(w, r, op)
	if !ok {
		return
	}

	var req models.GenerateSlotsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("%s - Invalid request body: %v", op, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.GenerateSlots(r.Context(), userID, providerID, &req)
	if err != nil {
		h.respondError(w, op, providerID, err)
		return
	}

	h.logger.Info("%s - Slots generated: provider_id=%d, created=%d, skipped=%d",
		op, providerID, result.Created, result.Skipped)
	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) parse(w http.ResponseWriter, r *http.Request, op string) (int64, int64, bool) {
	providerID, err := handlers.PathInt64(r, "providerId")
	if err != nil {
		h.logger.Warn("%s - Invalid provider ID: %v", op, err)
		handlers.RespondBadRequest(w, msgInvalidProviderID)
		return 0, 0, false
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("%s - Missing user ID", op)
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return 0, 0, false
	}

	return providerID, userID, true
}

func (h *Handler) respondError(w http.ResponseWriter, op string, providerID int64, err error) {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			h.logger.Warn("%s - Validation failed: provider_id=%d, error=%v", op, providerID, err)
			handlers.RespondBadRequest(w, err.Error())
			return
		}
	}

	switch {
	case errors.Is(err, schedule.ErrProviderNotFound):
		h.logger.Warn("%s - Provider not found: provider_id=%d", op, providerID)
		handlers.RespondNotFound(w, msgProviderNotFound)

	case errors.Is(err, schedule.ErrServiceNotFound):
		h.logger.Warn("%s - Service not found: provider_id=%d", op, providerID)
		handlers.RespondNotFound(w, msgServiceNotFound)

	case errors.Is(err, schedule.ErrSettingsNotFound):
		h.logger.Warn("%s - Settings not found: provider_id=%d", op, providerID)
		handlers.RespondNotFound(w, msgSettingsNotFound)

	case errors.Is(err, schedule.ErrSlotNotFound):
		h.logger.Warn("%s - Slot not found: provider_id=%d", op, providerID)
		handlers.RespondNotFound(w, msgSlotNotFound)

	case errors.Is(err, schedule.ErrSlotExists):
		h.logger.Warn("%s - Slot already exists: provider_id=%d", op, providerID)
		handlers.RespondConflict(w, msgSlotExists)

	case errors.Is(err, schedule.ErrSlotHasBookings):
		h.logger.Warn("%s - Slot has bookings: provider_id=%d", op, providerID)
		handlers.RespondConflict(w, msgSlotHasBookings)

	case errors.Is(err, schedule.ErrAccessDenied):
		h.logger.Warn("%s - Access denied: provider_id=%d", op, providerID)
		handlers.RespondForbidden(w, msgForbidden)

	default:
		h.logger.Error("%s - Failed: provider_id=%d, error=%v", op, providerID, err)
		handlers.RespondInternalError(w)
	}
}
