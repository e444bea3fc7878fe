package domain

// Default schedule settings, used when a provider has not configured any
const (
	DefaultSlotDurationMinutes     = 60
	DefaultSlotCapacity            = 1
	DefaultAdvanceBookingDays      = 0  // 0 = unlimited
	DefaultMinBookingNoticeMinutes = 60 // 1 hour
	DefaultOpenTime                = "09:00"
	DefaultCloseTime               = "18:00"
)

// DefaultWorkingDays Monday..Friday, time.Weekday numbering
var DefaultWorkingDays = []int{1, 2, 3, 4, 5}

// Business validation constants
const (
	MinSlotDurationMinutes      = 5
	MaxSlotDurationMinutes      = 480 // 8 hours
	MinSlotCapacity             = 1
	MaxSlotCapacity             = 100
	MinAdvanceBookingDays       = 0
	MaxAdvanceBookingDays       = 365 // 1 year
	MinBookingNoticeMinutes     = 0
	MaxBookingNoticeMinutes     = 10080 // 1 week
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MaxGenerateRangeDays        = 62
	MaxNameLength               = 200
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// InactiveStatuses статусы бронирований, не занимающих слот
var InactiveStatuses = []BookingStatus{
	StatusCancelled,
	StatusNoShow,
}
