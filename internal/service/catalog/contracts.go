package catalog

import (
	"context"

	"github.com/m04kA/SMC-MarketplaceService/internal/domain"
)

// CatalogRepository интерфейс репозитория каталога
type CatalogRepository interface {
	GetProvider(ctx context.Context, id int64) (*domain.Provider, error)
	RefreshStartingPrice(ctx context.Context, providerID int64) error

	ListServices(ctx context.Context, providerID int64, activeOnly bool) ([]domain.Service, error)
	GetService(ctx context.Context, id int64) (*domain.Service, error)
	CreateService(ctx context.Context, s *domain.Service) (*domain.Service, error)
	UpdateService(ctx context.Context, s *domain.Service) error
	CreateAddOn(ctx context.Context, a *domain.AddOn) (*domain.AddOn, error)
	DeleteAddOn(ctx context.Context, serviceID, addOnID int64) error

	ListStaff(ctx context.Context, providerID int64, activeOnly bool) ([]domain.StaffMember, error)
	GetStaff(ctx context.Context, id int64) (*domain.StaffMember, error)
	CreateStaff(ctx context.Context, m *domain.StaffMember) (*domain.StaffMember, error)
	SetStaffActive(ctx context.Context, id int64, active bool) error
}

// SearchCacheInvalidator сбрасывает кэш результатов поиска
type SearchCacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
