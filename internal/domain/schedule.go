package domain

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-MarketplaceService/pkg/types"
)

// ScheduleSettings represents the booking rules of a provider
// Supports hierarchical configuration:
// 1. Service-specific (provider_id, service_id)
// 2. Provider-wide (provider_id, NULL)
type ScheduleSettings struct {
	ID                      int64
	ProviderID              int64
	ServiceID               *int64 // NULL = settings for all services
	SlotDurationMinutes     int
	Capacity                int
	AdvanceBookingDays      int // 0 = unlimited
	MinBookingNoticeMinutes int
	OpenTime                types.TimeString
	CloseTime               types.TimeString
	WorkingDays             []int // time.Weekday values
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// DefaultScheduleSettings returns the settings applied when nothing is configured
func DefaultScheduleSettings(providerID int64) *ScheduleSettings {
	days := make([]int, len(DefaultWorkingDays))
	copy(days, DefaultWorkingDays)
	return &ScheduleSettings{
		ProviderID:              providerID,
		SlotDurationMinutes:     DefaultSlotDurationMinutes,
		Capacity:                DefaultSlotCapacity,
		AdvanceBookingDays:      DefaultAdvanceBookingDays,
		MinBookingNoticeMinutes: DefaultMinBookingNoticeMinutes,
		OpenTime:                types.TimeString(DefaultOpenTime),
		CloseTime:               types.TimeString(DefaultCloseTime),
		WorkingDays:             days,
	}
}

// IsProviderWide returns true if the settings are not service-specific
func (s *ScheduleSettings) IsProviderWide() bool {
	return s.ServiceID == nil
}

// HasAdvanceBookingLimit returns true if there's a limit on how far in advance bookings can be made
func (s *ScheduleSettings) HasAdvanceBookingLimit() bool {
	return s.AdvanceBookingDays > 0
}

// IsWorkingDay reports whether day falls on one of the configured weekdays
func (s *ScheduleSettings) IsWorkingDay(day time.Time) bool {
	wd := int(day.Weekday())
	for _, d := range s.WorkingDays {
		if d == wd {
			return true
		}
	}
	return false
}

// DayStartTimes lays out slot start times between OpenTime and CloseTime with a fixed
// SlotDurationMinutes step. A slot must end no later than CloseTime.
// Non-working days yield no slots.
func (s *ScheduleSettings) DayStartTimes(day time.Time) ([]types.TimeString, error) {
	if !s.IsWorkingDay(day) {
		return []types.TimeString{}, nil
	}
	if s.SlotDurationMinutes <= 0 {
		return nil, fmt.Errorf("slot duration must be positive, got %d", s.SlotDurationMinutes)
	}

	openTime, err := types.NewTimeStringFromString(s.OpenTime.String())
	if err != nil {
		return nil, err
	}
	closeTime, err := types.NewTimeStringFromString(s.CloseTime.String())
	if err != nil {
		return nil, err
	}

	starts := make([]types.TimeString, 0)
	current := openTime
	for current.IsBefore(closeTime) {
		end, err := current.AddMinutes(s.SlotDurationMinutes)
		if err != nil || end.IsAfter(closeTime) {
			// Слот выходит за время закрытия или за пределы суток
			break
		}
		starts = append(starts, current)
		current = end
	}

	return starts, nil
}
