package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-MarketplaceService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")

	// ErrInvalidDate возвращается при некорректной дате фильтра
	ErrInvalidDate = errors.New("invalid date, expected YYYY-MM-DD")
)

// Request модели

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	UserID             int64   `json:"-"`
	CancellationReason *string `json:"cancellationReason,omitempty"`
}

// UpdateStatusRequest запрос на обновление статуса бронирования
type UpdateStatusRequest struct {
	UserID int64  `json:"-"`
	Status string `json:"status"`
}

// GetUserBookingsRequest запрос на получение бронирований пользователя
type GetUserBookingsRequest struct {
	RequesterID int64
	UserID      int64
	Status      *string
}

// GetProviderBookingsRequest запрос на получение бронирований провайдера
type GetProviderBookingsRequest struct {
	UserID          int64
	ProviderID      int64
	Date            *string // YYYY-MM-DD, сужает период до одного дня
	StartDate       *string
	EndDate         *string
	Status          *string
	IncludeInactive bool
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetProviderBookingsRequest) ToDomainFilter() (domain.ProviderBookingsFilter, error) {
	filter := domain.ProviderBookingsFilter{
		ProviderID:      r.ProviderID,
		IncludeInactive: r.IncludeInactive,
	}

	start, end := r.StartDate, r.EndDate
	if r.Date != nil {
		start, end = r.Date, r.Date
	}

	var err error
	if filter.StartDate, err = parseDate(start); err != nil {
		return filter, err
	}
	if filter.EndDate, err = parseDate(end); err != nil {
		return filter, err
	}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// AddOnResponse дополнение в составе бронирования
type AddOnResponse struct {
	AddOnID int64   `json:"addOnId"`
	Name    string  `json:"name"`
	Price   float64 `json:"price"`
}

// CustomerResponse контактные данные клиента
type CustomerResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID              int64  `json:"id"`
	ReferenceCode   string `json:"referenceCode"`
	UserID          int64  `json:"userId"`
	ProviderID      int64  `json:"providerId"`
	ServiceID       int64  `json:"serviceId"`
	TimeSlotID      int64  `json:"timeSlotId"`
	StaffID         *int64 `json:"staffId,omitempty"`
	BookingDate     string `json:"bookingDate"` // "2025-10-15"
	StartTime       string `json:"startTime"`   // "10:00"
	DurationMinutes int    `json:"durationMinutes"`
	Status          string `json:"status"`

	// Денормализованные данные
	ServiceName  string          `json:"serviceName"`
	ServicePrice float64         `json:"servicePrice"`
	AddOns       []AddOnResponse `json:"addOns"`
	Subtotal     float64         `json:"subtotal"`
	Discount     float64         `json:"discount"`
	Total        float64         `json:"total"`
	PromoCode    *string         `json:"promoCode,omitempty"`

	Customer      CustomerResponse `json:"customer"`
	PaymentMethod string           `json:"paymentMethod"`
	Notes         *string          `json:"notes,omitempty"`

	CancelledBy        *string `json:"cancelledBy,omitempty"`
	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601 format

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// UserBookingsResponse бронирования пользователя, разделенные на предстоящие и прошедшие
type UserBookingsResponse struct {
	Upcoming []BookingResponse `json:"upcoming"`
	Past     []BookingResponse `json:"past"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:              b.ID,
		ReferenceCode:   b.ReferenceCode,
		UserID:          b.UserID,
		ProviderID:      b.ProviderID,
		ServiceID:       b.ServiceID,
		TimeSlotID:      b.TimeSlotID,
		StaffID:         b.StaffID,
		BookingDate:     b.BookingDate.Format(domain.DateFormat),
		StartTime:       b.StartTime.String(),
		DurationMinutes: b.DurationMinutes,
		Status:          string(b.Status),
		ServiceName:     b.ServiceName,
		ServicePrice:    b.ServicePrice,
		AddOns:          make([]AddOnResponse, 0, len(b.AddOns)),
		Subtotal:        b.Subtotal,
		Discount:        b.Discount,
		Total:           b.Total,
		PromoCode:       b.PromoCode,
		Customer: CustomerResponse{
			Name:  b.Customer.Name,
			Email: b.Customer.Email,
			Phone: b.Customer.Phone,
		},
		PaymentMethod:      string(b.PaymentMethod),
		Notes:              b.Notes,
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}

	for _, a := range b.AddOns {
		resp.AddOns = append(resp.AddOns, AddOnResponse{AddOnID: a.AddOnID, Name: a.Name, Price: a.Price})
	}

	if b.CancelledBy != nil {
		by := string(*b.CancelledBy)
		resp.CancelledBy = &by
	}

	// Конвертируем CancelledAt в строку ISO 8601
	if b.CancelledAt != nil {
		cancelledStr := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}

// SplitUserBookings делит бронирования на предстоящие и прошедшие относительно now
func SplitUserBookings(bookings []*domain.Booking, now time.Time) *UserBookingsResponse {
	resp := &UserBookingsResponse{
		Upcoming: make([]BookingResponse, 0),
		Past:     make([]BookingResponse, 0),
	}

	for _, b := range bookings {
		item := FromDomainBooking(b)
		if item == nil {
			continue
		}
		if b.IsUpcoming(now) {
			resp.Upcoming = append(resp.Upcoming, *item)
		} else {
			resp.Past = append(resp.Past, *item)
		}
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}

func parseDate(value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	t, err := time.Parse(domain.DateFormat, *value)
	if err != nil {
		return nil, ErrInvalidDate
	}
	return &t, nil
}
