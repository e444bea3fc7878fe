package schedule

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-MarketplaceService/internal/domain"
	"github.com/m04kA/SMC-MarketplaceService/internal/fixtures"
	catalogRepo "github.com/m04kA/SMC-MarketplaceService/internal/infra/storage/catalog"
	scheduleRepo "github.com/m04kA/SMC-MarketplaceService/internal/infra/storage/schedule"
	slotRepo "github.com/m04kA/SMC-MarketplaceService/internal/infra/storage/timeslot"
	"github.com/m04kA/SMC-MarketplaceService/internal/service/schedule/models"
	"github.com/m04kA/SMC-MarketplaceService/pkg/logger"
	"github.com/m04kA/SMC-MarketplaceService/pkg/ptr"
	"github.com/m04kA/SMC-MarketplaceService/pkg/types"
)

// 2026-03-10 - вторник
var testNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

const owner = fixtures.DemoOwnerUserID

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type memorySettings struct {
	byScope map[string]*domain.ScheduleSettings
	nextID  int64
}

func scopeKey(providerID int64, serviceID *int64) string {
	return fmt.Sprintf("%d/%d", providerID, ptr.Value(serviceID))
}

func (m *memorySettings) Upsert(_ context.Context, s *domain.ScheduleSettings) (*domain.ScheduleSettings, error) {
	key := scopeKey(s.ProviderID, s.ServiceID)
	if existing, ok := m.byScope[key]; ok {
		s.ID = existing.ID
	} else {
		m.nextID++
		s.ID = m.nextID
	}
	copied := *s
	m.byScope[key] = &copied
	return s, nil
}

func (m *memorySettings) GetByScope(_ context.Context, providerID int64, serviceID *int64) (*domain.ScheduleSettings, error) {
	if s, ok := m.byScope[scopeKey(providerID, serviceID)]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, scheduleRepo.ErrSettingsNotFound
}

func (m *memorySettings) GetWithHierarchy(ctx context.Context, providerID int64, serviceID *int64) (*domain.ScheduleSettings, error) {
	if serviceID != nil {
		if s, err := m.GetByScope(ctx, providerID, serviceID); err == nil {
			return s, nil
		}
	}
	return m.GetByScope(ctx, providerID, nil)
}

func (m *memorySettings) GetAllByProvider(_ context.Context, providerID int64) ([]*domain.ScheduleSettings, error) {
	result := make([]*domain.ScheduleSettings, 0)
	for _, s := range m.byScope {
		if s.ProviderID == providerID {
			result = append(result, s)
		}
	}
	return result, nil
}

func (m *memorySettings) DeleteByScope(_ context.Context, providerID int64, serviceID *int64) error {
	key := scopeKey(providerID, serviceID)
	if _, ok := m.byScope[key]; !ok {
		return scheduleRepo.ErrSettingsNotFound
	}
	delete(m.byScope, key)
	return nil
}

type memorySlots struct {
	slots  []*domain.TimeSlot
	nextID int64
}

func (m *memorySlots) exists(s *domain.TimeSlot) bool {
	for _, existing := range m.slots {
		if existing.ProviderID == s.ProviderID &&
			ptr.Value(existing.ServiceID) == ptr.Value(s.ServiceID) &&
			existing.Date.Equal(s.Date) &&
			existing.StartTime == s.StartTime {
			return true
		}
	}
	return false
}

func (m *memorySlots) Create(_ context.Context, s *domain.TimeSlot) (*domain.TimeSlot, error) {
	if m.exists(s) {
		return nil, slotRepo.ErrSlotExists
	}
	m.nextID++
	s.ID = m.nextID
	m.slots = append(m.slots, s)
	return s, nil
}

func (m *memorySlots) CreateBatch(ctx context.Context, slots []domain.TimeSlot) (int, error) {
	created := 0
	for i := range slots {
		s := slots[i]
		if _, err := m.Create(ctx, &s); err == nil {
			created++
		}
	}
	return created, nil
}

func (m *memorySlots) GetByID(_ context.Context, id int64) (*domain.TimeSlot, error) {
	for _, s := range m.slots {
		if s.ID == id {
			copied := *s
			return &copied, nil
		}
	}
	return nil, slotRepo.ErrSlotNotFound
}

func (m *memorySlots) GetByProviderRange(_ context.Context, providerID int64, from, to time.Time) ([]*domain.TimeSlot, error) {
	result := make([]*domain.TimeSlot, 0)
	for _, s := range m.slots {
		if s.ProviderID == providerID && !s.Date.Before(from) && !s.Date.After(to) {
			result = append(result, s)
		}
	}
	return result, nil
}

func (m *memorySlots) Delete(_ context.Context, id int64) error {
	for i, s := range m.slots {
		if s.ID == id {
			m.slots = append(m.slots[:i], m.slots[i+1:]...)
			return nil
		}
	}
	return slotRepo.ErrSlotNotFound
}

type fixtureCatalog struct{}

func (fixtureCatalog) GetProvider(_ context.Context, id int64) (*domain.Provider, error) {
	for _, p := range fixtures.Providers() {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, catalogRepo.ErrProviderNotFound
}

func (fixtureCatalog) GetService(_ context.Context, id int64) (*domain.Service, error) {
	for _, s := range fixtures.Services() {
		if s.ID == id {
			return &s, nil
		}
	}
	return nil, catalogRepo.ErrServiceNotFound
}

func newService() (*Service, *memorySettings, *memorySlots) {
	settings := &memorySettings{byScope: make(map[string]*domain.ScheduleSettings)}
	slots := &memorySlots{}
	svc := NewService(settings, slots, fixtureCatalog{}, logger.NewNop())
	svc.timeProvider = fixedTime{now: testNow}
	return svc, settings, slots
}

func TestService_SettingsHierarchy(t *testing.T) {
	svc, _, _ := newService()
	ctx := context.Background()

	overview, err := svc.GetSettings(ctx, owner, 1, nil)
	require.NoError(t, err)
	assert.Equal(t, models.LevelDefault, overview.Effective.Level)
	assert.Equal(t, domain.DefaultSlotDurationMinutes, overview.Effective.SlotDurationMinutes)
	assert.Empty(t, overview.Configured)

	providerWide, err := svc.UpdateSettings(ctx, owner, 1, &models.UpdateSettingsRequest{Capacity: ptr.Ptr(3)})
	require.NoError(t, err)
	assert.Equal(t, models.LevelProvider, providerWide.Level)
	assert.Equal(t, 3, providerWide.Capacity)
	assert.Equal(t, "09:00", providerWide.OpenTime)

	// Настройки услуги наследуют незаданные поля от уровня провайдера
	serviceLevel, err := svc.UpdateSettings(ctx, owner, 1, &models.UpdateSettingsRequest{
		ServiceID:           ptr.Ptr(int64(1)),
		SlotDurationMinutes: ptr.Ptr(30),
	})
	require.NoError(t, err)
	assert.Equal(t, models.LevelService, serviceLevel.Level)
	assert.Equal(t, 30, serviceLevel.SlotDurationMinutes)
	assert.Equal(t, 3, serviceLevel.Capacity)

	overview, err = svc.GetSettings(ctx, owner, 1, ptr.Ptr(int64(2)))
	require.NoError(t, err)
	assert.Equal(t, models.LevelProvider, overview.Effective.Level)
	assert.Len(t, overview.Configured, 2)

	require.NoError(t, svc.DeleteSettings(ctx, owner, 1, ptr.Ptr(int64(1))))
	assert.ErrorIs(t, svc.DeleteSettings(ctx, owner, 1, ptr.Ptr(int64(1))), ErrSettingsNotFound)

	overview, err = svc.GetSettings(ctx, owner, 1, ptr.Ptr(int64(1)))
	require.NoError(t, err)
	assert.Equal(t, models.LevelProvider, overview.Effective.Level)
}

func TestService_UpdateSettings_Validation(t *testing.T) {
	svc, _, _ := newService()
	ctx := context.Background()

	tests := []struct {
		name    string
		userID  int64
		req     models.UpdateSettingsRequest
		wantErr error
	}{
		{name: "not owner", userID: 7, req: models.UpdateSettingsRequest{}, wantErr: ErrAccessDenied},
		{name: "foreign service", userID: owner, req: models.UpdateSettingsRequest{ServiceID: ptr.Ptr(int64(3))}, wantErr: ErrServiceNotFound},
		{name: "zero capacity", userID: owner, req: models.UpdateSettingsRequest{Capacity: ptr.Ptr(0)}, wantErr: ErrInvalidCapacity},
		{name: "too short slot", userID: owner, req: models.UpdateSettingsRequest{SlotDurationMinutes: ptr.Ptr(1)}, wantErr: ErrInvalidSlotDuration},
		{name: "advance too far", userID: owner, req: models.UpdateSettingsRequest{AdvanceBookingDays: ptr.Ptr(400)}, wantErr: ErrInvalidAdvanceDays},
		{name: "negative notice", userID: owner, req: models.UpdateSettingsRequest{MinBookingNoticeMinutes: ptr.Ptr(-5)}, wantErr: ErrInvalidNoticeMinutes},
		{name: "open after close", userID: owner, req: models.UpdateSettingsRequest{OpenTime: ptr.Ptr("19:00")}, wantErr: ErrInvalidWorkingHours},
		{name: "malformed time", userID: owner, req: models.UpdateSettingsRequest{CloseTime: ptr.Ptr("25:00")}, wantErr: ErrInvalidInput},
		{name: "duplicate weekday", userID: owner, req: models.UpdateSettingsRequest{WorkingDays: []int{1, 1}}, wantErr: ErrInvalidWorkingDays},
		{name: "weekday out of range", userID: owner, req: models.UpdateSettingsRequest{WorkingDays: []int{7}}, wantErr: ErrInvalidWorkingDays},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := svc.UpdateSettings(ctx, tt.userID, 1, &req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestService_GenerateSlots(t *testing.T) {
	svc, _, slots := newService()
	ctx := context.Background()

	// Пятница..понедельник, по умолчанию рабочие дни пн-пт с 09:00 до 18:00 по часу
	req := &models.GenerateSlotsRequest{From: "2026-03-13", To: "2026-03-16"}

	resp, err := svc.GenerateSlots(ctx, owner, 1, req)
	require.NoError(t, err)
	assert.Equal(t, 18, resp.Generated)
	assert.Equal(t, 18, resp.Created)
	assert.Zero(t, resp.Skipped)

	first := slots.slots[0]
	assert.Equal(t, types.TimeString("09:00"), first.StartTime)
	assert.Equal(t, types.TimeString("17:00"), slots.slots[8].StartTime)
	assert.Equal(t, time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC), slots.slots[9].Date)

	// Повторная генерация пропускает существующие слоты
	resp, err = svc.GenerateSlots(ctx, owner, 1, req)
	require.NoError(t, err)
	assert.Zero(t, resp.Created)
	assert.Equal(t, 18, resp.Skipped)

	list, err := svc.ListSlots(ctx, owner, 1, &models.ListSlotsRequest{From: "2026-03-16", To: "2026-03-16"})
	require.NoError(t, err)
	assert.Len(t, list.Slots, 9)
	assert.Equal(t, 1, list.Slots[0].RemainingCapacity)
}

func TestService_GenerateSlots_UsesServiceSettings(t *testing.T) {
	svc, _, slots := newService()
	ctx := context.Background()

	_, err := svc.UpdateSettings(ctx, owner, 3, &models.UpdateSettingsRequest{
		ServiceID:           ptr.Ptr(int64(4)),
		SlotDurationMinutes: ptr.Ptr(180),
	})
	require.NoError(t, err)

	resp, err := svc.GenerateSlots(ctx, owner, 3, &models.GenerateSlotsRequest{
		ServiceID: ptr.Ptr(int64(4)),
		From:      "2026-03-11",
		To:        "2026-03-11",
	})
	require.NoError(t, err)

	// 09:00, 12:00, 15:00 - слот до 21:00 не помещается
	assert.Equal(t, 3, resp.Created)
	for _, s := range slots.slots {
		assert.Equal(t, int64(4), ptr.Value(s.ServiceID))
		assert.Equal(t, 180, s.DurationMinutes)
	}
}

func TestService_GenerateSlots_Rejections(t *testing.T) {
	svc, _, _ := newService()
	ctx := context.Background()

	tests := []struct {
		name    string
		req     models.GenerateSlotsRequest
		wantErr error
	}{
		{name: "malformed", req: models.GenerateSlotsRequest{From: "13.03.2026", To: "2026-03-16"}, wantErr: ErrInvalidDateRange},
		{name: "reversed", req: models.GenerateSlotsRequest{From: "2026-03-16", To: "2026-03-13"}, wantErr: ErrInvalidDateRange},
		{name: "past", req: models.GenerateSlotsRequest{From: "2026-03-09", To: "2026-03-13"}, wantErr: ErrInvalidDateRange},
		{name: "too long", req: models.GenerateSlotsRequest{From: "2026-03-10", To: "2026-06-10"}, wantErr: ErrInvalidDateRange},
		{
			name:    "foreign service",
			req:     models.GenerateSlotsRequest{ServiceID: ptr.Ptr(int64(4)), From: "2026-03-10", To: "2026-03-11"},
			wantErr: ErrServiceNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := svc.GenerateSlots(ctx, owner, 1, &req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestService_CreateAndDeleteSlot(t *testing.T) {
	svc, _, slots := newService()
	ctx := context.Background()

	created, err := svc.CreateSlot(ctx, owner, 1, &models.CreateSlotRequest{Date: "2026-03-11", StartTime: "10:30"})
	require.NoError(t, err)
	assert.Equal(t, 60, created.DurationMinutes)
	assert.Equal(t, 1, created.Capacity)

	_, err = svc.CreateSlot(ctx, owner, 1, &models.CreateSlotRequest{Date: "2026-03-11", StartTime: "10:30"})
	assert.ErrorIs(t, err, ErrSlotExists)

	_, err = svc.CreateSlot(ctx, owner, 1, &models.CreateSlotRequest{Date: "2026-03-09", StartTime: "10:30"})
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	_, err = svc.CreateSlot(ctx, owner, 1, &models.CreateSlotRequest{Date: "2026-03-11", StartTime: "10:61"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreateSlot(ctx, owner, 1, &models.CreateSlotRequest{Date: "2026-03-11", StartTime: "23:30"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreateSlot(ctx, owner, 1, &models.CreateSlotRequest{Date: "2026-03-11", StartTime: "12:00", Capacity: ptr.Ptr(500)})
	assert.ErrorIs(t, err, ErrInvalidCapacity)

	booked, err := svc.CreateSlot(ctx, owner, 1, &models.CreateSlotRequest{Date: "2026-03-11", StartTime: "12:00", Capacity: ptr.Ptr(2)})
	require.NoError(t, err)
	slots.slots[1].BookedCount = 1

	assert.ErrorIs(t, svc.DeleteSlot(ctx, owner, 1, booked.ID), ErrSlotHasBookings)
	assert.ErrorIs(t, svc.DeleteSlot(ctx, owner, 2, created.ID), ErrSlotNotFound)
	assert.ErrorIs(t, svc.DeleteSlot(ctx, 7, 1, created.ID), ErrAccessDenied)
	assert.ErrorIs(t, svc.DeleteSlot(ctx, owner, 1, 404), ErrSlotNotFound)

	require.NoError(t, svc.DeleteSlot(ctx, owner, 1, created.ID))
	assert.Len(t, slots.slots, 1)
}
