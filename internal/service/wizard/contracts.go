package wizard

import (
	"context"
	"time"

	"github.com/m04kA/SMC-MarketplaceService/internal/domain"
	"github.com/m04kA/SMC-MarketplaceService/internal/service/pricing"
)

// TotalsCalculator интерфейс расчета стоимости
type TotalsCalculator interface {
	Totals(servicePrice float64, addOns []domain.AddOn, promoCode string) pricing.Totals
}

// SessionStore интерфейс хранилища сессий мастера
type SessionStore interface {
	Save(ctx context.Context, session *domain.WizardSession) error
	Get(ctx context.Context, id string) (*domain.WizardSession, error)
	Delete(ctx context.Context, id string) error
	AcquireSubmit(ctx context.Context, id string, ttl time.Duration) (bool, error)
	ReleaseSubmit(ctx context.Context, id string) error
}

// CatalogReader интерфейс чтения каталога
type CatalogReader interface {
	GetService(ctx context.Context, id int64) (*domain.Service, error)
	GetStaff(ctx context.Context, id int64) (*domain.StaffMember, error)
}

// SlotReader интерфейс чтения слотов
type SlotReader interface {
	GetByID(ctx context.Context, id int64) (*domain.TimeSlot, error)
}

// BookingCreator создает бронирование из черновика
type BookingCreator interface {
	CreateFromDraft(ctx context.Context, userID int64, draft *domain.BookingDraft) (*domain.Booking, error)
}

// MetricsRecorder интерфейс бизнес-метрик мастера
type MetricsRecorder interface {
	RecordWizardTransition(action, step, result string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
