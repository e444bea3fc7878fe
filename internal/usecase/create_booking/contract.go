package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-MarketplaceService/internal/domain"
	"github.com/m04kA/SMC-MarketplaceService/internal/integrations/notifier"
	"github.com/m04kA/SMC-MarketplaceService/internal/service/pricing"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
}

// CatalogRepository интерфейс репозитория каталога
type CatalogRepository interface {
	GetProvider(ctx context.Context, id int64) (*domain.Provider, error)
	GetService(ctx context.Context, id int64) (*domain.Service, error)
	GetStaff(ctx context.Context, id int64) (*domain.StaffMember, error)
}

// SlotRepository интерфейс репозитория временных слотов
type SlotRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.TimeSlot, error)
	IncrementBooked(ctx context.Context, id int64) error
}

// ScheduleRepository интерфейс репозитория настроек расписания
type ScheduleRepository interface {
	GetWithHierarchy(ctx context.Context, providerID int64, serviceID *int64) (*domain.ScheduleSettings, error)
}

// PriceCalculator интерфейс расчета стоимости
type PriceCalculator interface {
	Totals(servicePrice float64, addOns []domain.AddOn, promoCode string) pricing.Totals
}

// Notifier интерфейс отправки уведомлений о бронированиях
type Notifier interface {
	NotifyWithGracefulDegradation(ctx context.Context, event notifier.BookingEvent) error
}

// MetricsRecorder интерфейс бизнес-метрик
type MetricsRecorder interface {
	RecordBookingCreated(providerID int64)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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
