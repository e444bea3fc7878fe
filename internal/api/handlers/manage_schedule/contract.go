package manage_schedule

import (
	"context"

	"github.com/m04kA/SMC-MarketplaceService/internal/service/schedule/models"
)

type ScheduleService interface {
	GetSettings(ctx context.Context, userID, providerID int64, serviceID *int64) (*models.SettingsOverviewResponse, error)
	UpdateSettings(ctx context.Context, userID, providerID int64, req *models.UpdateSettingsRequest) (*models.SettingsResponse, error)
	DeleteSettings(ctx context.Context, userID, providerID int64, serviceID *int64) error
	ListSlots(ctx context.Context, userID, providerID int64, req *models.ListSlotsRequest) (*models.SlotListResponse, error)
	CreateSlot(ctx context.Context, userID, providerID int64, req *models.CreateSlotRequest) (*models.SlotResponse, error)
	DeleteSlot(ctx context.Context, userID, providerID, slotID int64) error
	GenerateSlots(ctx context.Context, userID, providerID int64, req *models.GenerateSlotsRequest) (*models.GenerateSlotsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
