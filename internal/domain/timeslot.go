package domain

import (
	"time"

	"github.com/m04kA/SMC-MarketplaceService/pkg/types"
)

// TimeSlot represents a bookable interval offered by a provider
type TimeSlot struct {
	ID              int64
	ProviderID      int64
	ServiceID       *int64 // NULL = any service of the provider
	Date            time.Time
	StartTime       types.TimeString
	DurationMinutes int
	Capacity        int
	BookedCount     int
}

// RemainingCapacity returns the number of free places, never negative
func (s *TimeSlot) RemainingCapacity() int {
	if s.BookedCount >= s.Capacity {
		return 0
	}
	return s.Capacity - s.BookedCount
}

// IsAvailable returns true if the slot has at least one free place
func (s *TimeSlot) IsAvailable() bool {
	return s.RemainingCapacity() > 0
}

// AppliesTo reports whether the slot can be used for the service
func (s *TimeSlot) AppliesTo(serviceID int64) bool {
	return s.ServiceID == nil || *s.ServiceID == serviceID
}

// StartsAt returns the absolute start of the slot in loc
func (s *TimeSlot) StartsAt(loc *time.Location) (time.Time, error) {
	y, m, d := s.Date.Date()
	return s.StartTime.On(time.Date(y, m, d, 0, 0, 0, 0, loc))
}

// OccupancyRate returns the occupancy rate as a percentage (0-100)
func (s *TimeSlot) OccupancyRate() float64 {
	if s.Capacity == 0 {
		return 0
	}
	return float64(s.Capacity-s.RemainingCapacity()) / float64(s.Capacity) * 100
}
