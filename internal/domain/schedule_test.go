package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-MarketplaceService/pkg/types"
)

func TestScheduleSettings_DayStartTimes(t *testing.T) {
	monday := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	sunday := time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		open     string
		close    string
		duration int
		day      time.Time
		want     []types.TimeString
	}{
		{
			name: "hourly slots", open: "09:00", close: "12:00", duration: 60, day: monday,
			want: []types.TimeString{"09:00", "10:00", "11:00"},
		},
		{
			name: "last slot must fit before close", open: "09:00", close: "11:30", duration: 60, day: monday,
			want: []types.TimeString{"09:00", "10:00"},
		},
		{
			name: "closed day", open: "09:00", close: "12:00", duration: 60, day: sunday,
			want: []types.TimeString{},
		},
		{
			name: "duration longer than opening hours", open: "09:00", close: "10:00", duration: 90, day: monday,
			want: []types.TimeString{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultScheduleSettings(1)
			s.OpenTime = types.TimeString(tt.open)
			s.CloseTime = types.TimeString(tt.close)
			s.SlotDurationMinutes = tt.duration

			got, err := s.DayStartTimes(tt.day)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScheduleSettings_DayStartTimes_InvalidDuration(t *testing.T) {
	s := DefaultScheduleSettings(1)
	s.SlotDurationMinutes = 0
	_, err := s.DayStartTimes(time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC))
	assert.Error(t, err)
}

func TestDefaultScheduleSettings_CopiesWorkingDays(t *testing.T) {
	s := DefaultScheduleSettings(1)
	s.WorkingDays[0] = 6
	assert.Equal(t, 1, DefaultWorkingDays[0])
}
