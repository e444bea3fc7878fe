package pricing

import (
	"math"

	"github.com/m04kA/SMC-MarketplaceService/internal/domain"
)

// Totals итоговая стоимость бронирования
type Totals struct {
	Subtotal float64
	Discount float64
	Total    float64
}

// ComputeTotals считает стоимость заново по цене услуги, дополнениям и промокоду.
// subtotal = цена услуги + сумма дополнений, total = subtotal - discount.
// Каждая сумма округляется до центов
func ComputeTotals(servicePrice float64, addOns []domain.AddOn, promoCode string, policy DiscountPolicy) Totals {
	subtotal := servicePrice
	for _, a := range addOns {
		subtotal += a.Price
	}
	subtotal = roundCents(subtotal)

	var discount float64
	if policy != nil {
		discount = roundCents(policy.Discount(subtotal, promoCode))
	}
	if discount < 0 {
		discount = 0
	}
	if discount > subtotal {
		discount = subtotal
	}

	return Totals{
		Subtotal: subtotal,
		Discount: discount,
		Total:    roundCents(subtotal - discount),
	}
}

// roundCents округляет половину от нуля
func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
