package search_providers

import (
	"context"

	"github.com/m04kA/SMC-MarketplaceService/internal/domain"
	searchProviders "github.com/m04kA/SMC-MarketplaceService/internal/usecase/search_providers"
)

type SearchProvidersUseCase interface {
	Execute(ctx context.Context, req *searchProviders.Request) (*domain.SearchResult, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
