package pricing

import (
	"context"

	"github.com/m04kA/SMC-MarketplaceService/internal/domain"
)

// CatalogReader интерфейс чтения каталога услуг
type CatalogReader interface {
	GetService(ctx context.Context, id int64) (*domain.Service, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
