package search_providers

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-MarketplaceService/internal/api/handlers"
	searchProviders "github.com/m04kA/SMC-MarketplaceService/internal/usecase/search_providers"
)

const (
	msgInvalidParams   = "некорректные параметры поиска"
	msgInvalidCriteria = "некорректные критерии поиска"
)

type Handler struct {
	useCase SearchProvidersUseCase
	logger  Logger
}

func NewHandler(useCase SearchProvidersUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/providers
// Query params: q, category, location, minPrice, maxPrice, availability, sortBy, page, pageSize
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	useCaseReq, err := ToUseCaseRequest(r)
	if err != nil {
		h.logger.Warn("GET /providers - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, searchProviders.ErrInvalidInput):
			h.logger.Warn("GET /providers - Invalid criteria: %v", err)
			handlers.RespondBadRequest(w, msgInvalidCriteria)

		default:
			h.logger.Error("GET /providers - Failed to search providers: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /providers - Search completed: total=%d, page=%d",
		result.Pagination.Total, result.Pagination.Page)
	handlers.RespondJSON(w, http.StatusOK, FromDomainResult(result))
}
