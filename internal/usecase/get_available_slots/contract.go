package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-MarketplaceService/internal/domain"
)

// SlotRepository интерфейс репозитория временных слотов
type SlotRepository interface {
	GetByProviderAndDate(ctx context.Context, providerID int64, date time.Time, serviceID *int64) ([]*domain.TimeSlot, error)
}

// ScheduleRepository интерфейс репозитория настроек расписания
type ScheduleRepository interface {
	// GetWithHierarchy получает настройки с учетом иерархии приоритетов
	GetWithHierarchy(ctx context.Context, providerID int64, serviceID *int64) (*domain.ScheduleSettings, error)
}

// CatalogRepository интерфейс репозитория каталога
type CatalogRepository interface {
	GetProvider(ctx context.Context, id int64) (*domain.Provider, error)
	GetService(ctx context.Context, id int64) (*domain.Service, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
