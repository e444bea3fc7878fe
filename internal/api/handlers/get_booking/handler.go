package get_booking

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-MarketplaceService/internal/api/handlers"
	"github.com/m04kA/SMC-MarketplaceService/internal/api/middleware"
	"github.com/m04kA/SMC-MarketplaceService/internal/service/bookings"
	"github.com/m04kA/SMC-MarketplaceService/internal/service/bookings/models"
)

const op = "GET /bookings/{booking}"

const (
	msgBadBookingKey = "укажите ID бронирования или код подтверждения вида BK-XXXXXXXXXXXX"
	msgMissingUserID = "отсутствует ID пользователя"
	msgNotFound      = "бронирование не найдено"
	msgNotYours      = "бронирование доступно только клиенту и владельцу провайдера"
)

// referenceCode код из подтверждения мастера
var referenceCode = regexp.MustCompile(`^BK-[0-9A-F]{12}$`)

var errBadBookingKey = errors.New("booking key is neither an id nor a reference code")

// Handler отдает бронирование клиенту или владельцу провайдера.
// Бронирование ищется по ID или по коду подтверждения
type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/bookings/{booking}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("%s - Missing user ID", op)
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	key := strings.ToUpper(strings.TrimSpace(mux.Vars(r)["booking"]))
	booking, err := h.lookup(r.Context(), key, userID)
	if err != nil {
		h.respondError(w, err, key, userID)
		return
	}

	h.logger.Info("%s - Booking id=%d ref=%s viewed by user_id=%d", op, booking.ID, booking.ReferenceCode, userID)
	handlers.RespondJSON(w, http.StatusOK, booking)
}

func (h *Handler) lookup(ctx context.Context, key string, userID int64) (*models.BookingResponse, error) {
	if id, err := strconv.ParseInt(key, 10, 64); err == nil && id > 0 {
		return h.service.GetByID(ctx, id, userID)
	}
	if referenceCode.MatchString(key) {
		return h.service.GetByReference(ctx, key, userID)
	}
	return nil, errBadBookingKey
}

func (h *Handler) respondError(w http.ResponseWriter, err error, key string, userID int64) {
	switch {
	case errors.Is(err, errBadBookingKey):
		h.logger.Warn("%s - Bad booking key %q", op, key)
		handlers.RespondBadRequest(w, msgBadBookingKey)

	case errors.Is(err, bookings.ErrBookingNotFound):
		h.logger.Warn("%s - No booking for key=%s", op, key)
		handlers.RespondNotFound(w, msgNotFound)

	case errors.Is(err, bookings.ErrAccessDenied):
		// Чужие бронирования видны только владельцу провайдера
		h.logger.Warn("%s - user_id=%d is neither customer nor provider owner of key=%s", op, userID, key)
		handlers.RespondForbidden(w, msgNotYours)

	default:
		h.logger.Error("%s - Lookup failed for key=%s: %v", op, key, err)
		handlers.RespondInternalError(w)
	}
}
