package wizard_sessions

import (
	"context"
	"errors"

	"github.com/m04kA/SMC-MarketplaceService/internal/service/wizard/models"
)

const maxStepBodyBytes = 64 << 10

var errInvalidJSON = errors.New("body is not valid JSON")

// transitionFunc операция мастера над сессией без входных данных
type transitionFunc func(ctx context.Context, userID int64, sessionID string) (*models.SessionResponse, error)
