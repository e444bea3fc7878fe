package cancel_booking

import (
	"strings"

	"github.com/m04kA/SMC-MarketplaceService/internal/service/bookings/models"
)

// CancelBookingRequest HTTP request model
type CancelBookingRequest struct {
	CancellationReason *string `json:"cancellationReason,omitempty"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса. Пустая причина не сохраняется
func (r *CancelBookingRequest) ToServiceRequest(userID int64) *models.CancelBookingRequest {
	req := &models.CancelBookingRequest{UserID: userID}
	if r.CancellationReason != nil {
		if reason := strings.TrimSpace(*r.CancellationReason); reason != "" {
			req.CancellationReason = &reason
		}
	}
	return req
}
