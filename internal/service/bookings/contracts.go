package bookings

import (
	"context"
	"time"

	"github.com/m04kA/SMC-MarketplaceService/internal/domain"
	"github.com/m04kA/SMC-MarketplaceService/internal/integrations/notifier"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByReference(ctx context.Context, referenceCode string) (*domain.Booking, error)
	GetByUserID(ctx context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error)
	GetByProviderWithFilter(ctx context.Context, filter domain.ProviderBookingsFilter) ([]*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, from, status domain.BookingStatus) error
	Cancel(ctx context.Context, id int64, from domain.BookingStatus, by domain.CancelledBy, reason *string) error
}

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	DecrementBooked(ctx context.Context, id int64) error
}

// CatalogRepository интерфейс каталога провайдеров
type CatalogRepository interface {
	GetProvider(ctx context.Context, id int64) (*domain.Provider, error)
}

// Notifier интерфейс клиента уведомлений
type Notifier interface {
	NotifyWithGracefulDegradation(ctx context.Context, event notifier.BookingEvent) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
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
