package quote_price

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-MarketplaceService/internal/api/handlers"
	"github.com/m04kA/SMC-MarketplaceService/internal/service/pricing"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingServiceID   = "ID услуги обязателен"
	msgServiceNotFound    = "услуга не найдена"
	msgAddOnNotFound      = "дополнение не относится к услуге"
)

type Handler struct {
	calculator PriceCalculator
	logger     Logger
}

func NewHandler(calculator PriceCalculator, logger Logger) *Handler {
	return &Handler{
		calculator: calculator,
		logger:     logger,
	}
}

// Handle POST /api/v1/pricing/quote
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req pricing.QuoteRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /pricing/quote - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if req.ServiceID <= 0 {
		h.logger.Warn("POST /pricing/quote - Missing service ID")
		handlers.RespondBadRequest(w, msgMissingServiceID)
		return
	}

	quote, err := h.calculator.Quote(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, pricing.ErrServiceNotFound):
			h.logger.Warn("POST /pricing/quote - Service not found: service_id=%d", req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, pricing.ErrAddOnNotFound):
			h.logger.Warn("POST /pricing/quote - Add-on not found: service_id=%d, add_ons=%v", req.ServiceID, req.AddOnIDs)
			handlers.RespondBadRequest(w, msgAddOnNotFound)

		default:
			h.logger.Error("POST /pricing/quote - Failed to quote: service_id=%d, error=%v", req.ServiceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /pricing/quote - Quote calculated: service_id=%d, total=%.2f", req.ServiceID, quote.Total)
	handlers.RespondJSON(w, http.StatusOK, quote)
}
