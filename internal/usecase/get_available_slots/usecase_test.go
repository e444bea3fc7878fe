package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-MarketplaceService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-MarketplaceService/internal/infra/storage/catalog"
	scheduleRepo "github.com/m04kA/SMC-MarketplaceService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-MarketplaceService/pkg/logger"
)

var testNow = time.Date(2026, 3, 10, 11, 15, 0, 0, time.UTC)

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type fakeSlots struct {
	slots     []*domain.TimeSlot
	gotDate   time.Time
	gotFilter *int64
}

func (f *fakeSlots) GetByProviderAndDate(_ context.Context, _ int64, date time.Time, serviceID *int64) ([]*domain.TimeSlot, error) {
	f.gotDate = date
	f.gotFilter = serviceID
	return f.slots, nil
}

type fakeSchedule struct{ settings *domain.ScheduleSettings }

func (f *fakeSchedule) GetWithHierarchy(context.Context, int64, *int64) (*domain.ScheduleSettings, error) {
	if f.settings == nil {
		return nil, scheduleRepo.ErrSettingsNotFound
	}
	return f.settings, nil
}

type fakeCatalog struct{}

func (fakeCatalog) GetProvider(_ context.Context, id int64) (*domain.Provider, error) {
	switch id {
	case 1:
		return &domain.Provider{ID: 1, IsActive: true}, nil
	case 7:
		return &domain.Provider{ID: 7, IsActive: false}, nil
	}
	return nil, catalogRepo.ErrProviderNotFound
}

func (fakeCatalog) GetService(_ context.Context, id int64) (*domain.Service, error) {
	switch id {
	case 1:
		return &domain.Service{ID: 1, ProviderID: 1, IsActive: true}, nil
	case 3:
		return &domain.Service{ID: 3, ProviderID: 2, IsActive: true}, nil
	}
	return nil, catalogRepo.ErrServiceNotFound
}

func newUseCase(slots *fakeSlots, schedule *fakeSchedule) *UseCase {
	uc := NewUseCase(slots, schedule, fakeCatalog{}, logger.NewNop())
	uc.timeProvider = fixedTime{now: testNow}
	return uc
}

func TestExecute_FiltersByCapacityAndNotice(t *testing.T) {
	today := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	slots := &fakeSlots{slots: []*domain.TimeSlot{
		{ID: 1, Date: today, StartTime: "10:00", DurationMinutes: 60, Capacity: 1},
		{ID: 2, Date: today, StartTime: "12:00", DurationMinutes: 60, Capacity: 1},
		{ID: 3, Date: today, StartTime: "13:00", DurationMinutes: 60, Capacity: 2, BookedCount: 2},
		{ID: 4, Date: today, StartTime: "14:00", DurationMinutes: 60, Capacity: 4, BookedCount: 1},
	}}
	uc := newUseCase(slots, &fakeSchedule{})

	resp, err := uc.Execute(context.Background(), &Request{ProviderID: 1, ServiceID: 1, Date: today})
	require.NoError(t, err)

	// 10:00 уже прошло, 12:00 ближе часа, 13:00 заполнен
	require.Len(t, resp.Slots, 1)
	assert.Equal(t, int64(4), resp.Slots[0].ID)
	assert.Equal(t, 3, resp.Slots[0].AvailableSpots)
	assert.Equal(t, 4, resp.Slots[0].TotalSpots)

	require.NotNil(t, slots.gotFilter)
	assert.Equal(t, int64(1), *slots.gotFilter)
	assert.Equal(t, today, slots.gotDate)
}

func TestExecute_FutureDateIgnoresNotice(t *testing.T) {
	tomorrow := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)
	slots := &fakeSlots{slots: []*domain.TimeSlot{
		{ID: 5, Date: tomorrow, StartTime: "08:00", DurationMinutes: 60, Capacity: 1},
	}}
	uc := newUseCase(slots, &fakeSchedule{})

	resp, err := uc.Execute(context.Background(), &Request{ProviderID: 1, ServiceID: 1, Date: tomorrow})
	require.NoError(t, err)
	assert.Len(t, resp.Slots, 1)
}

func TestExecute_Errors(t *testing.T) {
	limited := domain.DefaultScheduleSettings(1)
	limited.AdvanceBookingDays = 7

	tests := []struct {
		name     string
		req      *Request
		settings *domain.ScheduleSettings
		wantErr  error
	}{
		{"missing date", &Request{ProviderID: 1, ServiceID: 1}, nil, ErrInvalidInput},
		{"unknown provider", &Request{ProviderID: 9, ServiceID: 1, Date: testNow}, nil, ErrProviderNotFound},
		{"inactive provider", &Request{ProviderID: 7, ServiceID: 1, Date: testNow}, nil, ErrProviderNotFound},
		{"service of another provider", &Request{ProviderID: 1, ServiceID: 3, Date: testNow}, nil, ErrServiceNotFound},
		{"past date", &Request{ProviderID: 1, ServiceID: 1, Date: testNow.AddDate(0, 0, -1)}, nil, ErrInvalidDate},
		{"beyond advance days", &Request{ProviderID: 1, ServiceID: 1, Date: testNow.AddDate(0, 0, 8)}, limited, ErrDateTooFarInFuture},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := newUseCase(&fakeSlots{}, &fakeSchedule{settings: tt.settings})
			_, err := uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
