package quote_price

import (
	"context"

	"github.com/m04kA/SMC-MarketplaceService/internal/service/pricing"
)

type PriceCalculator interface {
	Quote(ctx context.Context, req *pricing.QuoteRequest) (*pricing.QuoteResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
