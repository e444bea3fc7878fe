package create_booking

import (
	"strings"

	"github.com/m04kA/SMC-MarketplaceService/internal/domain"
	createBooking "github.com/m04kA/SMC-MarketplaceService/internal/usecase/create_booking"
)

// CustomerRequest контактные данные клиента
type CustomerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	ServiceID     int64           `json:"serviceId"`
	TimeSlotID    int64           `json:"timeSlotId"`
	StaffID       *int64          `json:"staffId,omitempty"`
	AddOnIDs      []int64         `json:"addOnIds"`
	Notes         *string         `json:"notes,omitempty"`
	Customer      CustomerRequest `json:"customer"`
	PaymentMethod string          `json:"paymentMethod"`
	PromoCode     string          `json:"promoCode"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case.
// Пользователь берется из заголовка, а не из тела
func (r *CreateBookingRequest) ToUseCaseRequest(userID int64) *createBooking.Request {
	req := &createBooking.Request{
		UserID:     userID,
		ServiceID:  r.ServiceID,
		TimeSlotID: r.TimeSlotID,
		StaffID:    r.StaffID,
		AddOnIDs:   r.AddOnIDs,
		Customer: domain.CustomerInfo{
			Name:  strings.TrimSpace(r.Customer.Name),
			Email: strings.TrimSpace(r.Customer.Email),
			Phone: strings.TrimSpace(r.Customer.Phone),
		},
		PaymentMethod: domain.PaymentMethod(r.PaymentMethod),
		PromoCode:     strings.TrimSpace(r.PromoCode),
	}
	if r.Notes != nil {
		if notes := strings.TrimSpace(*r.Notes); notes != "" {
			req.Notes = &notes
		}
	}
	return req
}
