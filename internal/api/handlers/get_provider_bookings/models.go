package get_provider_bookings

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-MarketplaceService/internal/api/handlers"
	"github.com/m04kA/SMC-MarketplaceService/internal/service/bookings/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров.
// Даты и статус проверяет сервис
func ToServiceRequest(providerID, userID int64, r *http.Request) (*models.GetProviderBookingsRequest, error) {
	req := &models.GetProviderBookingsRequest{
		UserID:          userID,
		ProviderID:      providerID,
		Date:            handlers.QueryString(r, "date"),
		StartDate:       handlers.QueryString(r, "startDate"),
		EndDate:         handlers.QueryString(r, "endDate"),
		Status:          handlers.QueryString(r, "status"),
		IncludeInactive: false, // По умолчанию только активные
	}

	if raw := handlers.QueryString(r, "includeInactive"); raw != nil {
		includeInactive, err := strconv.ParseBool(*raw)
		if err != nil {
			return nil, fmt.Errorf("invalid includeInactive value: %w", err)
		}
		req.IncludeInactive = includeInactive
	}

	return req, nil
}
