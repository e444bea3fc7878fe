package manage_catalog

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-MarketplaceService/internal/api/handlers"
	"github.com/m04kA/SMC-MarketplaceService/internal/api/middleware"
	"github.com/m04kA/SMC-MarketplaceService/internal/service/catalog"
	"github.com/m04kA/SMC-MarketplaceService/internal/service/catalog/models"
)

const (
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidPathParam   = "некорректный идентификатор в пути"
	msgProviderNotFound   = "провайдер не найден"
	msgServiceNotFound    = "услуга не найдена"
	msgAddOnNotFound      = "дополнение не найдено"
	msgStaffNotFound      = "сотрудник не найден"
	msgForbidden          = "доступ запрещен"
)

type Handler struct {
	service CatalogService
	logger  Logger
}

func NewHandler(service CatalogService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// CreateService POST /api/v1/providers/{providerId}/services
func (h *Handler) CreateService(w http.ResponseWriter, r *http.Request) {
	const op = "POST /providers/{id}/services"

	ids, userID, ok := h.parse(w, r, op, "providerId")
	if !ok {
		return
	}

	var req models.CreateServiceRequest
	if !h.decode(w, r, op, &req) {
		return
	}

	service, err := h.service.CreateService(r.Context(), userID, ids[0], &req)
	if err != nil {
		h.respondError(w, op, ids, err)
		return
	}

	h.logger.Info("%s - Service created: provider_id=%d, service_id=%d", op, ids[0], service.ID)
	handlers.RespondJSON(w, http.StatusCreated, service)
}

// UpdateService PATCH /api/v1/providers/{providerId}/services/{serviceId}
func (h *Handler) UpdateService(w http.ResponseWriter, r *http.Request) {
	const op = "PATCH /providers/{id}/services/{serviceId}"

	ids, userID, ok := h.parse(w, r, op, "providerId", "serviceId")
	if !ok {
		return
	}

	var req models.UpdateServiceRequest
	if !h.decode(w, r, op, &req) {
		return
	}

	service, err := h.service.UpdateService(r.Context(), userID, ids[0], ids[1], &req)
	if err != nil {
		h.respondError(w, op, ids, err)
		return
	}

	h.logger.Info("%s - Service updated: provider_id=%d, service_id=%d", op, ids[0], ids[1])
	handlers.RespondJSON(w, http.StatusOK, service)
}

// DeactivateService DELETE /api/v1/providers/{providerId}/services/{serviceId}
func (h *Handler) DeactivateService(w http.ResponseWriter, r *http.Request) {
	const op = "DELETE /providers/{id}/services/{serviceId}"

	ids, userID, ok := h.parse(w, r, op, "providerId", "serviceId")
	if !ok {
		return
	}

	if err := h.service.DeactivateService(r.Context(), userID, ids[0], ids[1]); err != nil {
		h.respondError(w, op, ids, err)
		return
	}

	h.logger.Info("%s - Service deactivated: provider_id=%d, service_id=%d", op, ids[0], ids[1])
	w.WriteHeader(http.StatusNoContent)
}

// AddAddOn POST /api/v1/providers/{providerId}/services/{serviceId}/add-ons
func (h *Handler) AddAddOn(w http.ResponseWriter, r *http.Request) {
	const op = "POST /providers/{id}/services/{serviceId}/add-ons"

	ids, userID, ok := h.parse(w, r, op, "providerId", "serviceId")
	if !ok {
		return
	}

	var req models.AddOnRequest
	if !h.decode(w, r, op, &req) {
		return
	}

	addOn, err := h.service.AddAddOn(r.Context(), userID, ids[0], ids[1], &req)
	if err != nil {
		h.respondError(w, op, ids, err)
		return
	}

	h.logger.Info("%s - Add-on created: service_id=%d, add_on_id=%d", op, ids[1], addOn.ID)
	handlers.RespondJSON(w, http.StatusCreated, addOn)
}

// RemoveAddOn DELETE /api/v1/providers/{providerId}/services/{serviceId}/add-ons/{addOnId}
func (h *Handler) RemoveAddOn(w http.ResponseWriter, r *http.Request) {
	const op = "DELETE /providers/{id}/services/{serviceId}/add-ons/{addOnId}"

	ids, userID, ok := h.parse(w, r, op, "providerId", "serviceId", "addOnId")
	if !ok {
		return
	}

	if err := h.service.RemoveAddOn(r.Context(), userID, ids[0], ids[1], ids[2]); err != nil {
		h.respondError(w, op, ids, err)
		return
	}

	h.logger.Info("%s - Add-on removed: service_id=%d, add_on_id=%d", op, ids[1], ids[2])
	w.WriteHeader(http.StatusNoContent)
}

// AddStaff POST /api/v1/providers/{providerId}/staff
func (h *Handler) AddStaff(w http.ResponseWriter, r *http.Request) {
	const op = "POST /providers/{id}/staff"

	ids, userID, ok := h.parse(w, r, op, "providerId")
	if !ok {
		return
	}

	var req models.CreateStaffRequest
	if !h.decode(w, r, op, &req) {
		return
	}

	staff, err := h.service.AddStaff(r.Context(), userID, ids[0], &req)
	if err != nil {
		h.respondError(w, op, ids, err)
		return
	}

	h.logger.Info("%s - Staff member added: provider_id=%d, staff_id=%d", op, ids[0], staff.ID)
	handlers.RespondJSON(w, http.StatusCreated, staff)
}

// DeactivateStaff DELETE /api/v1/providers/{providerId}/staff/{staffId}
func (h *Handler) DeactivateStaff(w http.ResponseWriter, r *http.Request) {
	const op = "DELETE /providers/{id}/staff/{staffId}"

	ids, userID, ok := h.parse(w, r, op, "providerId", "staffId")
	if !ok {
		return
	}

	if err := h.service.DeactivateStaff(r.Context(), userID, ids[0], ids[1]); err != nil {
		h.respondError(w, op, ids, err)
		return
	}

	h.logger.Info("%s - Staff member deactivated: provider_id=%d, staff_id=%d", op, ids[0], ids[1])
	w.WriteHeader(http.StatusNoContent)
}

// parse читает ID из пути в порядке names и пользователя из контекста
func (h *Handler) parse(w http.ResponseWriter, r *http.Request, op string, names ...string) ([]int64, int64, bool) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("%s - Missing user ID", op)
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return nil, 0, false
	}

	ids := make([]int64, 0, len(names))
	for _, name := range names {
		id, err := handlers.PathInt64(r, name)
		if err != nil {
			h.logger.Warn("%s - Invalid path parameter: %v", op, err)
			handlers.RespondBadRequest(w, msgInvalidPathParam)
			return nil, 0, false
		}
		ids = append(ids, id)
	}

	return ids, userID, true
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, op string, dst interface{}) bool {
	if err := handlers.DecodeJSON(r, dst); err != nil {
		h.logger.Warn("%s - Invalid request body: %v", op, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return false
	}
	return true
}

func (h *Handler) respondError(w http.ResponseWriter, op string, ids []int64, err error) {
	switch {
	case errors.Is(err, catalog.ErrInvalidInput):
		h.logger.Warn("%s - Invalid input: ids=%v, error=%v", op, ids, err)
		handlers.RespondBadRequest(w, err.Error())

	case errors.Is(err, catalog.ErrProviderNotFound):
		h.logger.Warn("%s - Provider not found: ids=%v", op, ids)
		handlers.RespondNotFound(w, msgProviderNotFound)

	case errors.Is(err, catalog.ErrServiceNotFound):
		h.logger.Warn("%s - Service not found: ids=%v", op, ids)
		handlers.RespondNotFound(w, msgServiceNotFound)

	case errors.Is(err, catalog.ErrAddOnNotFound):
		h.logger.Warn("%s - Add-on not found: ids=%v", op, ids)
		handlers.RespondNotFound(w, msgAddOnNotFound)

	case errors.Is(err, catalog.ErrStaffNotFound):
		h.logger.Warn("%s - Staff member not found: ids=%v", op, ids)
		handlers.RespondNotFound(w, msgStaffNotFound)

	case errors.Is(err, catalog.ErrAccessDenied):
		h.logger.Warn("%s - Access denied: ids=%v", op, ids)
		handlers.RespondForbidden(w, msgForbidden)

	default:
		h.logger.Error("%s - Failed: ids=%v, error=%v", op, ids, err)
		handlers.RespondInternalError(w)
	}
}
