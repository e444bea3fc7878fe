package pricing

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-MarketplaceService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-MarketplaceService/internal/infra/storage/catalog"
)

// QuoteRequest запрос расчета стоимости
type QuoteRequest struct {
	ServiceID int64   `json:"serviceId"`
	AddOnIDs  []int64 `json:"addOnIds"`
	PromoCode string  `json:"promoCode"`
}

// QuoteResponse рассчитанная стоимость
type QuoteResponse struct {
	ServiceID     int64   `json:"serviceId"`
	ServicePrice  float64 `json:"servicePrice"`
	AddOnsTotal   float64 `json:"addOnsTotal"`
	PromoCode     string  `json:"promoCode,omitempty"`
	PromoAccepted bool    `json:"promoAccepted"`
	Subtotal      float64 `json:"subtotal"`
	Discount      float64 `json:"discount"`
	Total         float64 `json:"total"`
}

// Calculator держит политику скидок и считает стоимость для мастера, котировок и создания бронирований
type Calculator struct {
	policy  DiscountPolicy
	catalog CatalogReader
	logger  Logger
}

// NewCalculator создает калькулятор. catalog нужен только для Quote
func NewCalculator(policy DiscountPolicy, catalog CatalogReader, logger Logger) *Calculator {
	if policy == nil {
		policy = NewFlatRatePolicy(DefaultRate, nil)
	}
	return &Calculator{
		policy:  policy,
		catalog: catalog,
		logger:  logger,
	}
}

// Totals считает стоимость по текущей политике
func (c *Calculator) Totals(servicePrice float64, addOns []domain.AddOn, promoCode string) Totals {
	return ComputeTotals(servicePrice, addOns, promoCode, c.policy)
}

// AcceptsPromo проверяет промокод по текущей политике
func (c *Calculator) AcceptsPromo(promoCode string) bool {
	return c.policy.Accepts(promoCode)
}

// Quote загружает цены из каталога и возвращает расчет
func (c *Calculator) Quote(ctx context.Context, req *QuoteRequest) (*QuoteResponse, error) {
	c.logger.Info("Quote: service=%d, addOns=%v", req.ServiceID, req.AddOnIDs)

	service, err := c.catalog.GetService(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			c.logger.Warn("Quote: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		c.logger.Error("Quote: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: Quote - get service: %v", ErrInternal, err)
	}
	if !service.IsActive {
		c.logger.Warn("Quote: service id=%d is inactive", req.ServiceID)
		return nil, ErrServiceNotFound
	}

	addOns, err := ResolveAddOns(service, req.AddOnIDs)
	if err != nil {
		c.logger.Warn("Quote: %v", err)
		return nil, err
	}

	totals := c.Totals(service.Price, addOns, req.PromoCode)

	var addOnsTotal float64
	for _, a := range addOns {
		addOnsTotal += a.Price
	}

	return &QuoteResponse{
		ServiceID:     service.ID,
		ServicePrice:  service.Price,
		AddOnsTotal:   roundCents(addOnsTotal),
		PromoCode:     req.PromoCode,
		PromoAccepted: c.AcceptsPromo(req.PromoCode),
		Subtotal:      totals.Subtotal,
		Discount:      totals.Discount,
		Total:         totals.Total,
	}, nil
}

// ResolveAddOns возвращает дополнения услуги по идентификаторам без повторов
func ResolveAddOns(service *domain.Service, ids []int64) ([]domain.AddOn, error) {
	addOns := make([]domain.AddOn, 0, len(ids))
	seen := make(map[int64]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true

		addOn := service.FindAddOn(id)
		if addOn == nil {
			return nil, fmt.Errorf("%w: add-on id=%d, service id=%d", ErrAddOnNotFound, id, service.ID)
		}
		addOns = append(addOns, *addOn)
	}
	return addOns, nil
}
