package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculate_BasicQuote(t *testing.T) {
	lines := []LineItem{
		{ItemID: 1, Title: "Margherita", PriceID: 1, Size: "medium", UnitPrice: 10, Quantity: 2},
		{ItemID: 2, Title: "Tiramisu", PriceID: 5, Size: "", UnitPrice: 5, Quantity: 2},
	}
	ctx := Context{TaxPercent: 8, DeliveryCharge: 5}

	quote := Calculate(lines, ctx, nil)

	assert.Equal(t, 30.0, quote.ItemsPrice)
	assert.Equal(t, 8.0, quote.TaxPercent)
	assert.Equal(t, 2.4, quote.TaxAmount)
	assert.Equal(t, 5.0, quote.DeliveryCharge)
	assert.Equal(t, 0.0, quote.DiscountAmount)
	assert.Equal(t, "", quote.DiscountCode)
	assert.Equal(t, 37.4, quote.PayablePrice)
}

func TestCalculate_TaxAppliesToItemsOnly(t *testing.T) {
	lines := []LineItem{
		{ItemID: 1, PriceID: 1, UnitPrice: 100, Quantity: 1},
	}
	ctx := Context{TaxPercent: 10, DeliveryCharge: 50}

	quote := Calculate(lines, ctx, nil)

	// Tax is 10% of 100, not of 150.
	assert.Equal(t, 10.0, quote.TaxAmount)
	assert.Equal(t, 160.0, quote.PayablePrice)
}

func TestCalculate_WithDiscount(t *testing.T) {
	lines := []LineItem{
		{ItemID: 1, PriceID: 1, UnitPrice: 15, Quantity: 2},
	}
	ctx := Context{TaxPercent: 8, DeliveryCharge: 5}

	quote := Calculate(lines, ctx, &Discount{Code: "WELCOME10", Amount: 10})

	assert.Equal(t, 30.0, quote.ItemsPrice)
	assert.Equal(t, "WELCOME10", quote.DiscountCode)
	assert.Equal(t, 10.0, quote.DiscountAmount)
	assert.Equal(t, 27.4, quote.PayablePrice)
}

func TestCalculate_DiscountClampedToGrossTotal(t *testing.T) {
	lines := []LineItem{
		{ItemID: 1, PriceID: 1, UnitPrice: 30, Quantity: 1},
	}
	ctx := Context{TaxPercent: 8, DeliveryCharge: 5}

	quote := Calculate(lines, ctx, &Discount{Code: "BIGOFF", Amount: 50})

	// Gross is 30 + 2.40 + 5 = 37.40; the discount never exceeds it.
	assert.Equal(t, 37.4, quote.DiscountAmount)
	assert.Equal(t, 0.0, quote.PayablePrice)
}

func TestCalculate_NegativeDiscountIgnored(t *testing.T) {
	lines := []LineItem{
		{ItemID: 1, PriceID: 1, UnitPrice: 10, Quantity: 1},
	}
	ctx := Context{TaxPercent: 0, DeliveryCharge: 0}

	quote := Calculate(lines, ctx, &Discount{Code: "WEIRD", Amount: -5})

	assert.Equal(t, 0.0, quote.DiscountAmount)
	assert.Equal(t, 10.0, quote.PayablePrice)
}

func TestCalculate_EmptyLines(t *testing.T) {
	ctx := Context{TaxPercent: 8, DeliveryCharge: 5}

	quote := Calculate(nil, ctx, nil)

	assert.Equal(t, 0.0, quote.ItemsPrice)
	assert.Equal(t, 0.0, quote.TaxAmount)
	assert.Equal(t, 5.0, quote.DeliveryCharge)
	assert.Equal(t, 5.0, quote.PayablePrice)
}

func TestCalculate_ZeroTaxAndDelivery(t *testing.T) {
	lines := []LineItem{
		{ItemID: 1, PriceID: 1, UnitPrice: 12.5, Quantity: 3},
	}
	quote := Calculate(lines, Context{}, nil)

	assert.Equal(t, 37.5, quote.ItemsPrice)
	assert.Equal(t, 0.0, quote.TaxAmount)
	assert.Equal(t, 0.0, quote.DeliveryCharge)
	assert.Equal(t, 37.5, quote.PayablePrice)
}

func TestCalculate_RoundsHalfUpAtOutput(t *testing.T) {
	// 3 x 9.99 = 29.97; 8.875% tax = 2.6598... which rounds to 2.66.
	lines := []LineItem{
		{ItemID: 1, PriceID: 1, UnitPrice: 9.99, Quantity: 3},
	}
	ctx := Context{TaxPercent: 8.875, DeliveryCharge: 0}

	quote := Calculate(lines, ctx, nil)

	assert.Equal(t, 29.97, quote.ItemsPrice)
	assert.Equal(t, 2.66, quote.TaxAmount)
	// Payable is rounded from the unrounded sum, not from rounded parts.
	assert.Equal(t, 32.63, quote.PayablePrice)
}

func TestCalculate_FloatNoiseDoesNotAccumulate(t *testing.T) {
	// 0.1 + 0.2 style inputs stay exact on the decimal path.
	lines := []LineItem{
		{ItemID: 1, PriceID: 1, UnitPrice: 0.1, Quantity: 1},
		{ItemID: 2, PriceID: 2, UnitPrice: 0.2, Quantity: 1},
	}
	quote := Calculate(lines, Context{}, nil)

	assert.Equal(t, 0.3, quote.ItemsPrice)
	assert.Equal(t, 0.3, quote.PayablePrice)
}
