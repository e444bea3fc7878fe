package fixtures

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/m04kA/SMC-MarketplaceService/internal/domain"
)

// DefaultSeed used by the seed command when none is given
const DefaultSeed int64 = 42

// busyChance probability that a generated slot is already partly booked
const busyChance = 0.3

// Generator produces demo time slots with reproducible occupancy
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a generator driven by rng
func NewGenerator(rng *rand.Rand) *Generator {
	return &Generator{rng: rng}
}

// NewSeededGenerator creates a generator with its own source seeded with seed
func NewSeededGenerator(seed int64) *Generator {
	return NewGenerator(rand.New(rand.NewSource(seed)))
}

// TimeSlots lays out slots for settings from `from` for `days` days.
// Some slots get a non-zero BookedCount so the demo catalog shows partial availability.
func (g *Generator) TimeSlots(settings domain.ScheduleSettings, from time.Time, days int) ([]domain.TimeSlot, error) {
	slots := make([]domain.TimeSlot, 0)
	start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)

	for i := 0; i < days; i++ {
		day := start.AddDate(0, 0, i)
		starts, err := settings.DayStartTimes(day)
		if err != nil {
			return nil, fmt.Errorf("provider %d: %w", settings.ProviderID, err)
		}

		for _, st := range starts {
			booked := 0
			if g.rng.Float64() < busyChance {
				booked = 1 + g.rng.Intn(settings.Capacity)
			}
			slots = append(slots, domain.TimeSlot{
				ProviderID:      settings.ProviderID,
				ServiceID:       settings.ServiceID,
				Date:            day,
				StartTime:       st,
				DurationMinutes: settings.SlotDurationMinutes,
				Capacity:        settings.Capacity,
				BookedCount:     booked,
			})
		}
	}

	return slots, nil
}
