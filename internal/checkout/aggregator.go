package checkout

import (
	"github.com/shopspring/decimal"

	"github.com/kanakjewels/storefront/internal/cart"
	"github.com/kanakjewels/storefront/internal/pricing"
)

// AggregateBreakdown sums the per-unit breakdowns across cart lines, each
// scaled by its quantity. It returns nil when no line contributed a
// meaningful breakdown, meaning the metal, wastage, making and stone sums
// are all zero; totals then fall back to the raw line prices.
func AggregateBreakdown(lines []cart.Line) *pricing.Breakdown {
	total := pricing.Breakdown{Currency: pricing.DefaultCurrency}
	for _, l := range lines {
		if l.Breakdown == nil {
			continue
		}
		q := decimal.NewFromInt(int64(l.Quantity))
		b := l.Breakdown
		total.MetalValue = total.MetalValue.Add(b.MetalValue.Mul(q))
		total.WastageValue = total.WastageValue.Add(b.WastageValue.Mul(q))
		total.MakingCharges = total.MakingCharges.Add(b.MakingCharges.Mul(q))
		total.StoneCharges = total.StoneCharges.Add(b.StoneCharges.Mul(q))
		total.Subtotal = total.Subtotal.Add(b.Subtotal.Mul(q))
		total.GSTAmount = total.GSTAmount.Add(b.GSTAmount.Mul(q))
		total.FinalPrice = total.FinalPrice.Add(b.FinalPrice.Mul(q))
		if b.Currency != "" {
			total.Currency = b.Currency
		}
	}
	if total.MetalValue.IsZero() && total.WastageValue.IsZero() &&
		total.MakingCharges.IsZero() && total.StoneCharges.IsZero() {
		return nil
	}
	return &total
}

// Totals is the order amount summary presented at checkout.
type Totals struct {
	Base      decimal.Decimal    `json:"base"`
	Shipping  decimal.Decimal    `json:"shipping"`
	Discount  decimal.Decimal    `json:"discount"`
	Final     decimal.Decimal    `json:"final"`
	Breakdown *pricing.Breakdown `json:"breakdown,omitempty"`
}

// ComputeTotals derives the payable total for the cart. The base total comes
// from the aggregated breakdown when one exists, otherwise from the raw line
// prices. A non-positive base short-circuits to a zero final total. The
// final amount is clamped at zero and rounded to two decimal places.
func ComputeTotals(lines []cart.Line, shipping, discount decimal.Decimal) Totals {
	agg := AggregateBreakdown(lines)

	base := decimal.Zero
	if agg != nil {
		base = agg.FinalPrice
	} else {
		for _, l := range lines {
			base = base.Add(l.Price.Amount)
		}
	}

	t := Totals{
		Base:      base.Round(2),
		Shipping:  shipping.Round(2),
		Discount:  discount.Round(2),
		Breakdown: agg,
	}
	if !base.IsPositive() {
		t.Final = decimal.Zero
		return t
	}
	final := base.Add(shipping).Sub(discount)
	if final.IsNegative() {
		final = decimal.Zero
	}
	t.Final = final.Round(2)
	return t
}
