package domain

import "strings"

// Availability flags a provider can advertise
const (
	AvailabilityToday    = "today"
	AvailabilityTomorrow = "tomorrow"
	AvailabilityWeekend  = "weekend"
	AvailabilityEvenings = "evenings"
)

// Provider is a business or individual listed in the marketplace
type Provider struct {
	ID            int64
	OwnerUserID   int64
	Name          string
	BusinessName  string
	Description   string
	Category      string
	Location      string
	StartingPrice float64
	Rating        float64
	ReviewCount   int
	Availability  []string
	IsActive      bool
}

// HasAvailability reports whether the provider advertises the flag (case-insensitive)
func (p *Provider) HasAvailability(flag string) bool {
	for _, a := range p.Availability {
		if strings.EqualFold(a, flag) {
			return true
		}
	}
	return false
}

// IsOwnedBy returns true if userID manages this provider
func (p *Provider) IsOwnedBy(userID int64) bool {
	return p.OwnerUserID == userID
}

// Service is an offering of a provider
type Service struct {
	ID              int64
	ProviderID      int64
	Name            string
	Description     string
	Category        string
	Price           float64
	DurationMinutes int
	IsActive        bool
	AddOns          []AddOn
}

// FindAddOn returns the add-on with the given id, or nil
func (s *Service) FindAddOn(id int64) *AddOn {
	for i := range s.AddOns {
		if s.AddOns[i].ID == id {
			return &s.AddOns[i]
		}
	}
	return nil
}

// AddOn is an optional extra attached to a service
type AddOn struct {
	ID        int64
	ServiceID int64
	Name      string
	Price     float64
}

// StaffMember works for a provider and can be picked in the wizard
type StaffMember struct {
	ID         int64
	ProviderID int64
	Name       string
	Role       string
	IsActive   bool
}

// ProviderProfile is the public provider page
type ProviderProfile struct {
	Provider Provider
	Services []Service
	Staff    []StaffMember
}
