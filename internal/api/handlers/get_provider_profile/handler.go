package get_provider_profile

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-MarketplaceService/internal/api/handlers"
	"github.com/m04kA/SMC-MarketplaceService/internal/service/catalog"
)

const (
	msgInvalidProviderID = "некорректный ID провайдера"
	msgNotFound          = "провайдер не найден"
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

// Handle GET /api/v1/providers/{providerId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	providerID, err := handlers.PathInt64(r, "providerId")
	if err != nil {
		h.logger.Warn("GET /providers/{id} - Invalid provider ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProviderID)
		return
	}

	profile, err := h.service.GetProfile(r.Context(), providerID)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrProviderNotFound):
			h.logger.Warn("GET /providers/{id} - Provider not found: provider_id=%d", providerID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("GET /providers/{id} - Failed to get profile: provider_id=%d, error=%v", providerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /providers/{id} - Profile retrieved successfully: provider_id=%d, services=%d",
		providerID, len(profile.Services))
	handlers.RespondJSON(w, http.StatusOK, profile)
}
