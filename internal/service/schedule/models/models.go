package models

import (
	"time"

	"github.com/m04kA/SMC-MarketplaceService/internal/domain"
	"github.com/m04kA/SMC-MarketplaceService/pkg/types"
)

// Уровни иерархии настроек
const (
	LevelService  = "service"
	LevelProvider = "provider"
	LevelDefault  = "default"
)

// Request модели

// UpdateSettingsRequest запрос на изменение настроек расписания
// ServiceID = nil означает общие настройки провайдера.
// Все остальные поля опциональны - обновляются только переданные значения
type UpdateSettingsRequest struct {
	ServiceID               *int64  `json:"serviceId,omitempty"`
	SlotDurationMinutes     *int    `json:"slotDurationMinutes,omitempty"`
	Capacity                *int    `json:"capacity,omitempty"`
	AdvanceBookingDays      *int    `json:"advanceBookingDays,omitempty"` // 0 = без ограничений
	MinBookingNoticeMinutes *int    `json:"minBookingNoticeMinutes,omitempty"`
	OpenTime                *string `json:"openTime,omitempty"`  // HH:MM
	CloseTime               *string `json:"closeTime,omitempty"` // HH:MM
	WorkingDays             []int   `json:"workingDays,omitempty"`
}

// ApplyTo применяет обновления к настройкам
// Обновляются только непустые (not nil) поля из request
func (r *UpdateSettingsRequest) ApplyTo(s *domain.ScheduleSettings) error {
	if r.SlotDurationMinutes != nil {
		s.SlotDurationMinutes = *r.SlotDurationMinutes
	}
	if r.Capacity != nil {
		s.Capacity = *r.Capacity
	}
	if r.AdvanceBookingDays != nil {
		s.AdvanceBookingDays = *r.AdvanceBookingDays
	}
	if r.MinBookingNoticeMinutes != nil {
		s.MinBookingNoticeMinutes = *r.MinBookingNoticeMinutes
	}
	if r.OpenTime != nil {
		t, err := types.NewTimeStringFromString(*r.OpenTime)
		if err != nil {
			return err
		}
		s.OpenTime = t
	}
	if r.CloseTime != nil {
		t, err := types.NewTimeStringFromString(*r.CloseTime)
		if err != nil {
			return err
		}
		s.CloseTime = t
	}
	if r.WorkingDays != nil {
		s.WorkingDays = append([]int(nil), r.WorkingDays...)
	}
	return nil
}

// CreateSlotRequest запрос на создание одного слота
// Длительность и вместимость по умолчанию берутся из действующих настроек
type CreateSlotRequest struct {
	ServiceID       *int64 `json:"serviceId,omitempty"`
	Date            string `json:"date"`      // YYYY-MM-DD
	StartTime       string `json:"startTime"` // HH:MM
	DurationMinutes *int   `json:"durationMinutes,omitempty"`
	Capacity        *int   `json:"capacity,omitempty"`
}

// GenerateSlotsRequest запрос на генерацию слотов по расписанию
type GenerateSlotsRequest struct {
	ServiceID *int64 `json:"serviceId,omitempty"`
	From      string `json:"from"` // YYYY-MM-DD
	To        string `json:"to"`   // YYYY-MM-DD, включительно
}

// ListSlotsRequest запрос на получение слотов провайдера за период
type ListSlotsRequest struct {
	From string
	To   string
}

// Response модели

// SettingsResponse ответ с настройками расписания
type SettingsResponse struct {
	ID                      int64     `json:"id,omitempty"`
	ProviderID              int64     `json:"providerId"`
	ServiceID               *int64    `json:"serviceId,omitempty"`
	Level                   string    `json:"level"`
	SlotDurationMinutes     int       `json:"slotDurationMinutes"`
	Capacity                int       `json:"capacity"`
	AdvanceBookingDays      int       `json:"advanceBookingDays"`
	MinBookingNoticeMinutes int       `json:"minBookingNoticeMinutes"`
	OpenTime                string    `json:"openTime"`
	CloseTime               string    `json:"closeTime"`
	WorkingDays             []int     `json:"workingDays"`
	CreatedAt               time.Time `json:"createdAt,omitempty"`
	UpdatedAt               time.Time `json:"updatedAt,omitempty"`
}

// SettingsOverviewResponse действующие настройки и все настроенные уровни
type SettingsOverviewResponse struct {
	Effective  SettingsResponse   `json:"effective"`
	Configured []SettingsResponse `json:"configured"`
}

// SlotResponse слот провайдера
type SlotResponse struct {
	ID                int64   `json:"id"`
	ServiceID         *int64  `json:"serviceId,omitempty"`
	Date              string  `json:"date"`
	StartTime         string  `json:"startTime"`
	DurationMinutes   int     `json:"durationMinutes"`
	Capacity          int     `json:"capacity"`
	BookedCount       int     `json:"bookedCount"`
	RemainingCapacity int     `json:"remainingCapacity"`
	OccupancyRate     float64 `json:"occupancyRate"`
}

// SlotListResponse ответ со списком слотов
type SlotListResponse struct {
	Slots []SlotResponse `json:"slots"`
}

// GenerateSlotsResponse результат генерации слотов
type GenerateSlotsResponse struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Generated int    `json:"generated"`
	Created   int    `json:"created"`
	Skipped   int    `json:"skipped"` // уже существовали
}

// Методы конвертации

// FromDomainSettings конвертирует domain модель в DTO
func FromDomainSettings(s *domain.ScheduleSettings, level string) SettingsResponse {
	days := s.WorkingDays
	if days == nil {
		days = []int{}
	}
	return SettingsResponse{
		ID:                      s.ID,
		ProviderID:              s.ProviderID,
		ServiceID:               s.ServiceID,
		Level:                   level,
		SlotDurationMinutes:     s.SlotDurationMinutes,
		Capacity:                s.Capacity,
		AdvanceBookingDays:      s.AdvanceBookingDays,
		MinBookingNoticeMinutes: s.MinBookingNoticeMinutes,
		OpenTime:                s.OpenTime.String(),
		CloseTime:               s.CloseTime.String(),
		WorkingDays:             days,
		CreatedAt:               s.CreatedAt,
		UpdatedAt:               s.UpdatedAt,
	}
}

// LevelOf возвращает уровень иерархии для сохраненных настроек
func LevelOf(s *domain.ScheduleSettings) string {
	if s.IsProviderWide() {
		return LevelProvider
	}
	return LevelService
}

// FromDomainSlot конвертирует domain модель в DTO
func FromDomainSlot(s *domain.TimeSlot) SlotResponse {
	return SlotResponse{
		ID:                s.ID,
		ServiceID:         s.ServiceID,
		Date:              s.Date.Format(domain.DateFormat),
		StartTime:         s.StartTime.String(),
		DurationMinutes:   s.DurationMinutes,
		Capacity:          s.Capacity,
		BookedCount:       s.BookedCount,
		RemainingCapacity: s.RemainingCapacity(),
		OccupancyRate:     s.OccupancyRate(),
	}
}

// FromDomainSlotList конвертирует список domain моделей в DTO
func FromDomainSlotList(slots []*domain.TimeSlot) *SlotListResponse {
	resp := &SlotListResponse{Slots: make([]SlotResponse, 0, len(slots))}
	for _, s := range slots {
		resp.Slots = append(resp.Slots, FromDomainSlot(s))
	}
	return resp
}
