package search_providers

import (
	"context"

	"github.com/m04kA/SMC-MarketplaceService/internal/domain"
)

// ProviderRepository интерфейс репозитория провайдеров
type ProviderRepository interface {
	ListProviders(ctx context.Context, activeOnly bool) ([]domain.Provider, error)
}

// ResultCache интерфейс кэша результатов поиска
type ResultCache interface {
	Get(ctx context.Context, key string) (*domain.SearchResult, error)
	Set(ctx context.Context, key string, result *domain.SearchResult) error
}

// MetricsRecorder интерфейс бизнес-метрик поиска
type MetricsRecorder interface {
	RecordSearch(cacheHit bool)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
