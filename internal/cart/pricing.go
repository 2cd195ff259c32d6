package cart

import (
	"math"

	"github.com/hami-market/storefront/internal/domain"
)

const (
	// TaxRate applies to the subtotal after discount.
	TaxRate = 0.05

	// DiscountThreshold is the subtotal at which the discount kicks
	// in. It is a cliff: crossing it discounts the entire subtotal,
	// not just the excess.
	DiscountThreshold = 50.00
	DiscountRate      = 0.10
)

// summarize prices a list of line items. The four monetary outputs are
// rounded to two decimals independently; intermediate values stay
// unrounded so repeated calls cannot drift.
func summarize(items []domain.CartItem) domain.Summary {
	var subtotal float64
	itemCount := 0
	for _, item := range items {
		subtotal += item.Price * float64(item.Quantity)
		itemCount += item.Quantity
	}

	var discount float64
	if subtotal >= DiscountThreshold {
		discount = subtotal * DiscountRate
	}

	taxable := subtotal - discount
	tax := taxable * TaxRate
	total := taxable + tax

	return domain.Summary{
		Subtotal:  round2(subtotal),
		Discount:  round2(discount),
		Tax:       round2(tax),
		Total:     round2(total),
		ItemCount: itemCount,
	}
}

// round2 rounds half away from zero at the second decimal.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
