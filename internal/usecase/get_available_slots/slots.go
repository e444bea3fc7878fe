package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-MarketplaceService/internal/domain"
)

// filterAvailableSlots оставляет слоты со свободными местами.
// Для сегодняшней даты отбрасывает слоты, до начала которых меньше minBookingNoticeMinutes
func filterAvailableSlots(slots []*domain.TimeSlot, now time.Time, minBookingNoticeMinutes int) []Slot {
	earliest := now.Add(time.Duration(minBookingNoticeMinutes) * time.Minute)

	result := make([]Slot, 0, len(slots))
	for _, slot := range slots {
		if !slot.IsAvailable() {
			continue
		}

		startsAt, err := slot.StartsAt(now.Location())
		if err != nil || startsAt.Before(earliest) {
			continue
		}

		result = append(result, Slot{
			ID:              slot.ID,
			StartTime:       slot.StartTime,
			DurationMinutes: slot.DurationMinutes,
			AvailableSpots:  slot.RemainingCapacity(),
			TotalSpots:      slot.Capacity,
		})
	}

	return result
}

// dateOnly обнуляет время, сохраняя календарную дату
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// isDateInPast проверяет, что дата раньше сегодняшнего дня
func isDateInPast(date, now time.Time) bool {
	return dateOnly(date).Before(dateOnly(now))
}
