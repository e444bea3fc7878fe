package models

import (
	"time"

	"github.com/m04kA/SMC-MarketplaceService/internal/domain"
)

// Request модели шагов

// ServiceStepRequest шаг выбора услуги
type ServiceStepRequest struct {
	ServiceID int64 `json:"serviceId"`
}

// DateTimeStepRequest шаг выбора даты и слота
type DateTimeStepRequest struct {
	Date       string `json:"date"` // YYYY-MM-DD, по умолчанию дата слота
	TimeSlotID int64  `json:"timeSlotId"`
}

// StaffStepRequest шаг выбора сотрудника, null означает любой
type StaffStepRequest struct {
	StaffID *int64 `json:"staffId"`
}

// AddOnsStepRequest шаг выбора дополнений
type AddOnsStepRequest struct {
	AddOnIDs []int64 `json:"addOnIds"`
}

// RequestsStepRequest шаг пожеланий
type RequestsStepRequest struct {
	SpecialRequests string `json:"specialRequests"`
}

// InfoStepRequest шаг контактных данных
type InfoStepRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// PaymentStepRequest шаг оплаты. PromoCode можно указать здесь или на шаге review
type PaymentStepRequest struct {
	PaymentMethod string  `json:"paymentMethod"`
	PromoCode     *string `json:"promoCode,omitempty"`
}

// ReviewStepRequest изменение промокода на шаге подтверждения
type ReviewStepRequest struct {
	PromoCode string `json:"promoCode"`
}

// Response модели

// StepResponse шаг мастера
type StepResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
	Current     bool   `json:"current"`
}

// AddOnResponse выбранное дополнение
type AddOnResponse struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// ServiceSummary выбранная услуга
type ServiceSummary struct {
	ID              int64   `json:"id"`
	ProviderID      int64   `json:"providerId"`
	Name            string  `json:"name"`
	Price           float64 `json:"price"`
	DurationMinutes int     `json:"durationMinutes"`
}

// SlotSummary выбранный слот
type SlotSummary struct {
	ID              int64  `json:"id"`
	Date            string `json:"date"`
	StartTime       string `json:"startTime"`
	DurationMinutes int    `json:"durationMinutes"`
}

// StaffSummary выбранный сотрудник
type StaffSummary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// CustomerInfoResponse контактные данные
type CustomerInfoResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// DraftResponse черновик бронирования
type DraftResponse struct {
	Service         *ServiceSummary      `json:"service"`
	Date            *string              `json:"date"`
	TimeSlot        *SlotSummary         `json:"timeSlot"`
	StaffMember     *StaffSummary        `json:"staffMember"`
	SelectedAddOns  []AddOnResponse      `json:"selectedAddOns"`
	SpecialRequests string               `json:"specialRequests"`
	CustomerInfo    CustomerInfoResponse `json:"customerInfo"`
	PaymentMethod   string               `json:"paymentMethod"`
	PromoCode       string               `json:"promoCode"`
	Subtotal        float64              `json:"subtotal"`
	Discount        float64              `json:"discount"`
	Total           float64              `json:"total"`
}

// ConfirmationResponse данные созданного бронирования
type ConfirmationResponse struct {
	BookingID     int64  `json:"bookingId"`
	ReferenceCode string `json:"referenceCode"`
}

// SessionResponse состояние сессии мастера
type SessionResponse struct {
	ID           string                `json:"id"`
	Status       string                `json:"status"`
	StepIndex    int                   `json:"stepIndex"`
	CurrentStep  string                `json:"currentStep"`
	CanAdvance   bool                  `json:"canAdvance"`
	Steps        []StepResponse        `json:"steps"`
	Draft        DraftResponse         `json:"draft"`
	LastError    string                `json:"lastError,omitempty"`
	Confirmation *ConfirmationResponse `json:"confirmation,omitempty"`
	CreatedAt    time.Time             `json:"createdAt"`
	UpdatedAt    time.Time             `json:"updatedAt"`
}

// Методы конвертации

// FromDomainDraft конвертирует черновик в DTO
func FromDomainDraft(d *domain.BookingDraft) DraftResponse {
	resp := DraftResponse{
		SelectedAddOns:  make([]AddOnResponse, 0, len(d.SelectedAddOns)),
		SpecialRequests: d.SpecialRequests,
		CustomerInfo: CustomerInfoResponse{
			Name:  d.CustomerInfo.Name,
			Email: d.CustomerInfo.Email,
			Phone: d.CustomerInfo.Phone,
		},
		PaymentMethod: string(d.PaymentMethod),
		PromoCode:     d.PromoCode,
		Subtotal:      d.Subtotal,
		Discount:      d.Discount,
		Total:         d.Total,
	}

	if d.Service != nil {
		resp.Service = &ServiceSummary{
			ID:              d.Service.ID,
			ProviderID:      d.Service.ProviderID,
			Name:            d.Service.Name,
			Price:           d.Service.Price,
			DurationMinutes: d.Service.DurationMinutes,
		}
	}
	if d.Date != nil {
		date := d.Date.Format(domain.DateFormat)
		resp.Date = &date
	}
	if d.TimeSlot != nil {
		resp.TimeSlot = &SlotSummary{
			ID:              d.TimeSlot.ID,
			Date:            d.TimeSlot.Date.Format(domain.DateFormat),
			StartTime:       d.TimeSlot.StartTime.String(),
			DurationMinutes: d.TimeSlot.DurationMinutes,
		}
	}
	if d.StaffMember != nil {
		resp.StaffMember = &StaffSummary{
			ID:   d.StaffMember.ID,
			Name: d.StaffMember.Name,
			Role: d.StaffMember.Role,
		}
	}
	for _, a := range d.SelectedAddOns {
		resp.SelectedAddOns = append(resp.SelectedAddOns, AddOnResponse{ID: a.ID, Name: a.Name, Price: a.Price})
	}

	return resp
}
