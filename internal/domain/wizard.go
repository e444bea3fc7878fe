package domain

import "time"

// WizardStatus lifecycle of a booking wizard session
type WizardStatus string

const (
	WizardInProgress WizardStatus = "in_progress"
	WizardSubmitting WizardStatus = "submitting"
	WizardSubmitted  WizardStatus = "submitted"
)

// BookingDraft is the booking being assembled by the wizard
type BookingDraft struct {
	Service         *Service
	Date            *time.Time
	TimeSlot        *TimeSlot
	StaffMember     *StaffMember
	SelectedAddOns  []AddOn
	SpecialRequests string
	CustomerInfo    CustomerInfo
	PaymentMethod   PaymentMethod
	PromoCode       string
	Subtotal        float64
	Discount        float64
	Total           float64
}

// WizardSession persisted state of one wizard run
type WizardSession struct {
	ID            string
	UserID        int64
	StepIndex     int
	Draft         BookingDraft
	Status        WizardStatus
	LastError     string
	BookingID     int64
	ReferenceCode string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
