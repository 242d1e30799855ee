// Package pricing computes cart quotes and order totals. It is pure: callers
// load the catalog lines, settings and discount, and get back a Quote with
// every derived amount. All intermediate math runs on decimals; amounts are
// rounded to two places only when the quote is assembled.
package pricing

import (
	"github.com/shopspring/decimal"
)

// LineItem is one priced cart group: a distinct (item, price variant) pair
// with its aggregated quantity.
type LineItem struct {
	ItemID    uint
	Title     string
	PriceID   uint
	Size      string
	UnitPrice float64
	Quantity  int
}

// Context carries the restaurant-wide settings a quote depends on.
type Context struct {
	TaxPercent     float64
	DeliveryCharge float64
}

// Discount is a resolved flat amount-off coupon.
type Discount struct {
	Code   string
	Amount float64
}

// Quote is a fully derived pricing breakdown. All amounts are rounded to two
// decimal places, half up.
type Quote struct {
	ItemsPrice     float64
	TaxPercent     float64
	TaxAmount      float64
	DeliveryCharge float64
	DiscountCode   string
	DiscountAmount float64
	PayablePrice   float64
}

var hundred = decimal.NewFromInt(100)

// Calculate derives the quote for the given lines. The discount may be nil.
//
// Tax applies to the items subtotal only, not the delivery charge. The
// discount is clamped so it never exceeds subtotal+tax+delivery, which keeps
// the payable price at or above zero.
func Calculate(lines []LineItem, ctx Context, discount *Discount) Quote {
	subtotal := decimal.Zero
	for _, line := range lines {
		unit := decimal.NewFromFloat(line.UnitPrice)
		qty := decimal.NewFromInt(int64(line.Quantity))
		subtotal = subtotal.Add(unit.Mul(qty))
	}

	taxPercent := decimal.NewFromFloat(ctx.TaxPercent)
	tax := subtotal.Mul(taxPercent).Div(hundred)
	delivery := decimal.NewFromFloat(ctx.DeliveryCharge)

	gross := subtotal.Add(tax).Add(delivery)

	discountAmount := decimal.Zero
	discountCode := ""
	if discount != nil {
		discountCode = discount.Code
		discountAmount = decimal.NewFromFloat(discount.Amount)
		if discountAmount.GreaterThan(gross) {
			discountAmount = gross
		}
		if discountAmount.IsNegative() {
			discountAmount = decimal.Zero
		}
	}

	payable := gross.Sub(discountAmount)
	if payable.IsNegative() {
		payable = decimal.Zero
	}

	return Quote{
		ItemsPrice:     round2(subtotal),
		TaxPercent:     ctx.TaxPercent,
		TaxAmount:      round2(tax),
		DeliveryCharge: round2(delivery),
		DiscountCode:   discountCode,
		DiscountAmount: round2(discountAmount),
		PayablePrice:   round2(payable),
	}
}

// round2 rounds half up to two decimal places.
func round2(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}
