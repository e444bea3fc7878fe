package wizard_sessions

import (
	"context"
	"encoding/json"

	"github.com/m04kA/SMC-MarketplaceService/internal/service/wizard/models"
)

type WizardService interface {
	Start(ctx context.Context, userID int64) (*models.SessionResponse, error)
	Get(ctx context.Context, userID int64, sessionID string) (*models.SessionResponse, error)
	Apply(ctx context.Context, userID int64, sessionID string, stepID string, raw json.RawMessage) (*models.SessionResponse, error)
	Next(ctx context.Context, userID int64, sessionID string) (*models.SessionResponse, error)
	Previous(ctx context.Context, userID int64, sessionID string) (*models.SessionResponse, error)
	GoTo(ctx context.Context, userID int64, sessionID string, index int) (*models.SessionResponse, error)
	Submit(ctx context.Context, userID int64, sessionID string) (*models.SessionResponse, error)
	Cancel(ctx context.Context, userID int64, sessionID string) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
