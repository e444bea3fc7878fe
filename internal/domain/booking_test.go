package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBooking_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from BookingStatus
		to   BookingStatus
		want bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusCompleted, false},
		{StatusConfirmed, StatusInProgress, true},
		{StatusConfirmed, StatusNoShow, true},
		{StatusInProgress, StatusCompleted, true},
		{StatusInProgress, StatusCancelled, false},
		{StatusCompleted, StatusPending, false},
		{StatusCancelled, StatusConfirmed, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			b := &Booking{Status: tt.from}
			assert.Equal(t, tt.want, b.CanTransitionTo(tt.to))
		})
	}
}

func TestBooking_IsUpcoming(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

	assert.True(t, (&Booking{Status: StatusPending, BookingDate: now}).IsUpcoming(now))
	assert.True(t, (&Booking{Status: StatusConfirmed, BookingDate: now.AddDate(0, 0, 3)}).IsUpcoming(now))
	assert.False(t, (&Booking{Status: StatusPending, BookingDate: now.AddDate(0, 0, -1)}).IsUpcoming(now))
	assert.False(t, (&Booking{Status: StatusCancelled, BookingDate: now.AddDate(0, 0, 3)}).IsUpcoming(now))
	assert.False(t, (&Booking{Status: StatusCompleted, BookingDate: now}).IsUpcoming(now))
}

func TestBooking_CancellationRules(t *testing.T) {
	assert.True(t, (&Booking{Status: StatusPending}).CanBeCancelled())
	assert.True(t, (&Booking{Status: StatusConfirmed}).CanBeCancelled())
	assert.False(t, (&Booking{Status: StatusInProgress}).CanBeCancelled())
	assert.False(t, (&Booking{Status: StatusCancelled}).IsActive())
	assert.False(t, (&Booking{Status: StatusNoShow}).IsActive())
}

func TestTimeSlot_RemainingCapacity(t *testing.T) {
	slot := &TimeSlot{Capacity: 2, BookedCount: 1}
	assert.Equal(t, 1, slot.RemainingCapacity())
	assert.True(t, slot.IsAvailable())
	assert.Equal(t, 50.0, slot.OccupancyRate())

	overbooked := &TimeSlot{Capacity: 1, BookedCount: 3}
	assert.Equal(t, 0, overbooked.RemainingCapacity())
	assert.False(t, overbooked.IsAvailable())
}

func TestPriceRange_Contains(t *testing.T) {
	fifty := 50.0
	r := PriceRange{Min: &fifty, Max: &fifty}
	assert.True(t, r.Contains(50))
	assert.False(t, r.Contains(49.99))
	assert.False(t, r.Contains(50.01))
	assert.True(t, PriceRange{}.Contains(1e6))
}

func TestCustomerInfo_MissingFields(t *testing.T) {
	assert.Empty(t, CustomerInfo{Name: "Ann", Email: "ann@example.com", Phone: "+1"}.MissingFields())
	assert.Equal(t, []string{"email", "phone"}, CustomerInfo{Name: "Ann", Email: "ann"}.MissingFields())
}
