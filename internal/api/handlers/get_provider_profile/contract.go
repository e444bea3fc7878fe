package get_provider_profile

import (
	"context"

	"github.com/m04kA/SMC-MarketplaceService/internal/service/catalog/models"
)

type CatalogService interface {
	GetProfile(ctx context.Context, providerID int64) (*models.ProfileResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
