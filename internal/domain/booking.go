package domain

import (
	"time"

	"github.com/m04kA/SMC-MarketplaceService/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending    BookingStatus = "pending"
	StatusConfirmed  BookingStatus = "confirmed"
	StatusInProgress BookingStatus = "in_progress"
	StatusCompleted  BookingStatus = "completed"
	StatusCancelled  BookingStatus = "cancelled"
	StatusNoShow     BookingStatus = "no_show"
)

// IsValid reports whether s is one of the known statuses
func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// CancelledBy records which side cancelled a booking
type CancelledBy string

const (
	CancelledByUser     CancelledBy = "user"
	CancelledByProvider CancelledBy = "provider"
)

// statusTransitions lists the statuses a provider may move a booking to
var statusTransitions = map[BookingStatus][]BookingStatus{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusInProgress, StatusCompleted, StatusNoShow, StatusCancelled},
	StatusInProgress: {StatusCompleted},
}

// BookingAddOn is an add-on price snapshot taken when the booking was created
type BookingAddOn struct {
	AddOnID int64
	Name    string
	Price   float64
}

// Booking represents a confirmed reservation of a provider's time slot
type Booking struct {
	ID              int64
	ReferenceCode   string
	UserID          int64
	ProviderID      int64
	ServiceID       int64
	TimeSlotID      int64
	StaffID         *int64
	BookingDate     time.Time
	StartTime       types.TimeString
	DurationMinutes int
	Status          BookingStatus

	// Denormalized data for history
	ServiceName  string
	ServicePrice float64
	AddOns       []BookingAddOn
	Subtotal     float64
	Discount     float64
	Total        float64
	PromoCode    *string

	Customer      CustomerInfo
	PaymentMethod PaymentMethod
	Notes         *string

	CancelledBy        *CancelledBy
	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking still occupies its slot
func (b *Booking) IsActive() bool {
	return b.Status != StatusCancelled && b.Status != StatusNoShow
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// IsCancelled returns true if the booking has been cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// IsUpcoming returns true for pending or confirmed bookings dated today or later
func (b *Booking) IsUpcoming(now time.Time) bool {
	if b.Status != StatusPending && b.Status != StatusConfirmed {
		return false
	}
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	by, bm, bd := b.BookingDate.Date()
	return !time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC).Before(today)
}

// CanTransitionTo returns true if a provider may move the booking to next
func (b *Booking) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range statusTransitions[b.Status] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ProviderBookingsFilter фильтр для получения бронирований провайдера
type ProviderBookingsFilter struct {
	ProviderID      int64          // Обязательный параметр
	StartDate       *time.Time     // Начало периода (опционально)
	EndDate         *time.Time     // Конец периода (опционально)
	Status          *BookingStatus // Фильтр по статусу (опционально)
	IncludeInactive bool           // Включать ли отмененные и no-show
}
