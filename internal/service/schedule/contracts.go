package schedule

import (
	"context"
	"time"

	"github.com/m04kA/SMC-MarketplaceService/internal/domain"
)

// SettingsRepository интерфейс репозитория настроек расписания
type SettingsRepository interface {
	Upsert(ctx context.Context, settings *domain.ScheduleSettings) (*domain.ScheduleSettings, error)
	GetByScope(ctx context.Context, providerID int64, serviceID *int64) (*domain.ScheduleSettings, error)
	GetWithHierarchy(ctx context.Context, providerID int64, serviceID *int64) (*domain.ScheduleSettings, error)
	GetAllByProvider(ctx context.Context, providerID int64) ([]*domain.ScheduleSettings, error)
	DeleteByScope(ctx context.Context, providerID int64, serviceID *int64) error
}

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	Create(ctx context.Context, slot *domain.TimeSlot) (*domain.TimeSlot, error)
	CreateBatch(ctx context.Context, slots []domain.TimeSlot) (int, error)
	GetByID(ctx context.Context, id int64) (*domain.TimeSlot, error)
	GetByProviderRange(ctx context.Context, providerID int64, from, to time.Time) ([]*domain.TimeSlot, error)
	Delete(ctx context.Context, id int64) error
}

// CatalogRepository интерфейс каталога провайдеров
type CatalogRepository interface {
	GetProvider(ctx context.Context, id int64) (*domain.Provider, error)
	GetService(ctx context.Context, id int64) (*domain.Service, error)
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

type realTimeProvider struct{}

func (realTimeProvider) Now() time.Time {
	return time.Now()
}
