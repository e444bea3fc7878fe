package domain

import "strings"

// PaymentMethod is recorded on the booking; no payment is captured
type PaymentMethod string

const (
	PaymentCard   PaymentMethod = "card"
	PaymentCash   PaymentMethod = "cash"
	PaymentWallet PaymentMethod = "wallet"
)

// IsValid reports whether m is a supported payment method
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentCard, PaymentCash, PaymentWallet:
		return true
	}
	return false
}

// CustomerInfo contact details entered in the wizard
type CustomerInfo struct {
	Name  string
	Email string
	Phone string
}

// MissingFields returns the names of the fields that are empty or malformed
func (c CustomerInfo) MissingFields() []string {
	missing := make([]string, 0, 3)
	if strings.TrimSpace(c.Name) == "" {
		missing = append(missing, "name")
	}
	if email := strings.TrimSpace(c.Email); email == "" || !strings.Contains(email, "@") {
		missing = append(missing, "email")
	}
	if strings.TrimSpace(c.Phone) == "" {
		missing = append(missing, "phone")
	}
	return missing
}

// IsComplete returns true when name, email and phone are all present
func (c CustomerInfo) IsComplete() bool {
	return len(c.MissingFields()) == 0
}
