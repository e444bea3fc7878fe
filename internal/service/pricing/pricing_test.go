package pricing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-MarketplaceService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-MarketplaceService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-MarketplaceService/pkg/logger"
)

func TestComputeTotals(t *testing.T) {
	policy := NewFlatRatePolicy(DefaultRate, nil)

	tests := []struct {
		name      string
		price     float64
		addOns    []domain.AddOn
		promoCode string
		want      Totals
	}{
		{
			name:      "service with add-on and promo code",
			price:     75,
			addOns:    []domain.AddOn{{ID: 1, Price: 25}},
			promoCode: "SAVE10",
			want:      Totals{Subtotal: 100, Discount: 10, Total: 90},
		},
		{
			name:  "no promo code means no discount",
			price: 75,
			addOns: []domain.AddOn{
				{ID: 1, Price: 25},
				{ID: 2, Price: 40},
			},
			want: Totals{Subtotal: 140, Discount: 0, Total: 140},
		},
		{
			name:      "whitespace promo code is empty",
			price:     50,
			promoCode: "   ",
			want:      Totals{Subtotal: 50, Discount: 0, Total: 50},
		},
		{
			name:      "discount rounded to cents",
			price:     28.33,
			addOns:    []domain.AddOn{{ID: 1, Price: 5}},
			promoCode: "ANY",
			want:      Totals{Subtotal: 33.33, Discount: 3.33, Total: 30},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeTotals(tt.price, tt.addOns, tt.promoCode, policy)
			assert.Equal(t, tt.want, got)
			assert.InDelta(t, got.Subtotal-got.Discount, got.Total, 1e-9)
		})
	}
}

func TestComputeTotals_IsPure(t *testing.T) {
	addOns := []domain.AddOn{{ID: 1, Price: 25}}
	policy := NewFlatRatePolicy(DefaultRate, nil)

	first := ComputeTotals(75, addOns, "SAVE10", policy)
	second := ComputeTotals(75, addOns, "SAVE10", policy)

	assert.Equal(t, first, second)
	assert.Equal(t, []domain.AddOn{{ID: 1, Price: 25}}, addOns)
}

func TestComputeTotals_NilPolicy(t *testing.T) {
	got := ComputeTotals(75, nil, "SAVE10", nil)
	assert.Equal(t, Totals{Subtotal: 75, Total: 75}, got)
}

func TestFlatRatePolicy_AllowedCodes(t *testing.T) {
	policy := NewFlatRatePolicy(0.2, []string{"SPRING", " vip "})

	assert.True(t, policy.Accepts("spring"))
	assert.True(t, policy.Accepts("VIP"))
	assert.False(t, policy.Accepts("SAVE10"))
	assert.False(t, policy.Accepts(""))

	assert.Equal(t, 20.0, policy.Discount(100, "Spring"))
	assert.Equal(t, 0.0, policy.Discount(100, "SAVE10"))
}

type fakeCatalog struct {
	services map[int64]*domain.Service
}

func (f *fakeCatalog) GetService(_ context.Context, id int64) (*domain.Service, error) {
	s, ok := f.services[id]
	if !ok {
		return nil, catalogRepo.ErrServiceNotFound
	}
	return s, nil
}

func newCalculator() *Calculator {
	catalog := &fakeCatalog{services: map[int64]*domain.Service{
		1: {
			ID: 1, ProviderID: 1, Name: "Full Detail Wash", Price: 75, IsActive: true,
			AddOns: []domain.AddOn{
				{ID: 1, ServiceID: 1, Name: "Tire Shine", Price: 25},
				{ID: 2, ServiceID: 1, Name: "Engine Bay Cleaning", Price: 40},
			},
		},
		2: {ID: 2, ProviderID: 1, Name: "Retired", Price: 10, IsActive: false},
	}}
	return NewCalculator(nil, catalog, logger.NewNop())
}

func TestCalculator_Quote(t *testing.T) {
	calc := newCalculator()

	resp, err := calc.Quote(context.Background(), &QuoteRequest{ServiceID: 1, AddOnIDs: []int64{1, 1}, PromoCode: "SAVE10"})
	require.NoError(t, err)

	assert.Equal(t, 75.0, resp.ServicePrice)
	assert.Equal(t, 25.0, resp.AddOnsTotal)
	assert.True(t, resp.PromoAccepted)
	assert.Equal(t, 100.0, resp.Subtotal)
	assert.Equal(t, 10.0, resp.Discount)
	assert.Equal(t, 90.0, resp.Total)
}

func TestCalculator_Quote_Errors(t *testing.T) {
	calc := newCalculator()
	ctx := context.Background()

	_, err := calc.Quote(ctx, &QuoteRequest{ServiceID: 99})
	assert.ErrorIs(t, err, ErrServiceNotFound)

	_, err = calc.Quote(ctx, &QuoteRequest{ServiceID: 2})
	assert.ErrorIs(t, err, ErrServiceNotFound)

	_, err = calc.Quote(ctx, &QuoteRequest{ServiceID: 1, AddOnIDs: []int64{7}})
	assert.ErrorIs(t, err, ErrAddOnNotFound)
}
