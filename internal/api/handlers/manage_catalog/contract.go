package manage_catalog

import (
	"context"

	"github.com/m04kA/SMC-MarketplaceService/internal/service/catalog/models"
)

type CatalogService interface {
	CreateService(ctx context.Context, userID, providerID int64, req *models.CreateServiceRequest) (*models.ServiceResponse, error)
	UpdateService(ctx context.Context, userID, providerID, serviceID int64, req *models.UpdateServiceRequest) (*models.ServiceResponse, error)
	DeactivateService(ctx context.Context, userID, providerID, serviceID int64) error
	AddAddOn(ctx context.Context, userID, providerID, serviceID int64, req *models.AddOnRequest) (*models.AddOnResponse, error)
	RemoveAddOn(ctx context.Context, userID, providerID, serviceID, addOnID int64) error
	AddStaff(ctx context.Context, userID, providerID int64, req *models.CreateStaffRequest) (*models.StaffResponse, error)
	DeactivateStaff(ctx context.Context, userID, providerID, staffID int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
