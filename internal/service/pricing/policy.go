package pricing

import "strings"

// DefaultRate скидка по любому непустому промокоду
const DefaultRate = 0.10

// DiscountPolicy определяет размер скидки по промокоду
type DiscountPolicy interface {
	Discount(subtotal float64, promoCode string) float64
	Accepts(promoCode string) bool
}

// FlatRatePolicy фиксированный процент скидки.
// Пустой AllowedCodes означает, что принимается любой непустой код
type FlatRatePolicy struct {
	Rate         float64
	AllowedCodes []string
}

// NewFlatRatePolicy создает политику с процентом rate
func NewFlatRatePolicy(rate float64, allowedCodes []string) *FlatRatePolicy {
	return &FlatRatePolicy{
		Rate:         rate,
		AllowedCodes: allowedCodes,
	}
}

// Accepts проверяет, дает ли код скидку
func (p *FlatRatePolicy) Accepts(promoCode string) bool {
	code := strings.TrimSpace(promoCode)
	if code == "" {
		return false
	}
	if len(p.AllowedCodes) == 0 {
		return true
	}
	for _, allowed := range p.AllowedCodes {
		if strings.EqualFold(strings.TrimSpace(allowed), code) {
			return true
		}
	}
	return false
}

// Discount возвращает subtotal*Rate для принятого кода и 0 иначе
func (p *FlatRatePolicy) Discount(subtotal float64, promoCode string) float64 {
	if !p.Accepts(promoCode) {
		return 0
	}
	return subtotal * p.Rate
}
