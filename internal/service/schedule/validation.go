package schedule

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-MarketplaceService/internal/domain"
)

// validateSettings проверяет настройки на бизнес-ограничения
func validateSettings(s *domain.ScheduleSettings) error {
	if err := validateSlotShape(s.SlotDurationMinutes, s.Capacity); err != nil {
		return err
	}

	if s.AdvanceBookingDays < domain.MinAdvanceBookingDays || s.AdvanceBookingDays > domain.MaxAdvanceBookingDays {
		return ErrInvalidAdvanceDays
	}

	if s.MinBookingNoticeMinutes < domain.MinBookingNoticeMinutes || s.MinBookingNoticeMinutes > domain.MaxBookingNoticeMinutes {
		return ErrInvalidNoticeMinutes
	}

	if err := s.OpenTime.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.CloseTime.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if !s.OpenTime.IsBefore(s.CloseTime) {
		return ErrInvalidWorkingHours
	}

	if len(s.WorkingDays) == 0 || len(s.WorkingDays) > 7 {
		return ErrInvalidWorkingDays
	}
	seen := make(map[int]bool, len(s.WorkingDays))
	for _, d := range s.WorkingDays {
		if d < int(time.Sunday) || d > int(time.Saturday) || seen[d] {
			return ErrInvalidWorkingDays
		}
		seen[d] = true
	}

	return nil
}

// validateSlotShape проверяет длительность и вместимость слота
func validateSlotShape(durationMinutes, capacity int) error {
	if durationMinutes < domain.MinSlotDurationMinutes || durationMinutes > domain.MaxSlotDurationMinutes {
		return ErrInvalidSlotDuration
	}
	if capacity < domain.MinSlotCapacity || capacity > domain.MaxSlotCapacity {
		return ErrInvalidCapacity
	}
	return nil
}

// parseRange разбирает период YYYY-MM-DD..YYYY-MM-DD включительно
func parseRange(fromStr, toStr string) (time.Time, time.Time, error) {
	from, err := time.Parse(domain.DateFormat, fromStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: invalid from date, expected YYYY-MM-DD", ErrInvalidDateRange)
	}
	to, err := time.Parse(domain.DateFormat, toStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: invalid to date, expected YYYY-MM-DD", ErrInvalidDateRange)
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: to is before from", ErrInvalidDateRange)
	}
	return from, to, nil
}

// dateOnly возвращает дату без времени в UTC
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
