package notifier

// Типы событий бронирования
const (
	EventBookingCreated       = "booking_created"
	EventBookingCancelled     = "booking_cancelled"
	EventBookingStatusChanged = "booking_status_changed"
)

// BookingEvent тело запроса к сервису уведомлений
type BookingEvent struct {
	Event         string `json:"event"`
	BookingID     int64  `json:"booking_id"`
	ReferenceCode string `json:"reference_code"`
	UserID        int64  `json:"user_id"`
	ProviderID    int64  `json:"provider_id"`
	Status        string `json:"status"`
	BookingDate   string `json:"booking_date"` // YYYY-MM-DD
	StartTime     string `json:"start_time"`   // HH:MM
	CustomerEmail string `json:"customer_email,omitempty"`
}

// ErrorResponse модель ошибки от сервиса уведомлений
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
