package pricing

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// ProductPricing is the subset of a product record that feeds the price
// calculation. Optional components are pointers; a nil component counts as
// zero. Negative values are not validated here, callers sanitise inputs.
type ProductPricing struct {
	PriceAmount    decimal.Decimal
	MetalValue     *decimal.Decimal
	WastageValue   *decimal.Decimal
	WastagePercent *decimal.Decimal
	MakingCharges  *decimal.Decimal
	StoneCharges   *decimal.Decimal
	GSTPercent     *decimal.Decimal
	Currency       string
}

// Breakdown decomposes a price into its jewelry charge components.
// Invariants: Subtotal = MetalValue + WastageValue + MakingCharges +
// StoneCharges, and FinalPrice = Subtotal + GSTAmount.
type Breakdown struct {
	MetalValue    decimal.Decimal `json:"metalValue"`
	WastageValue  decimal.Decimal `json:"wastageValue"`
	MakingCharges decimal.Decimal `json:"makingCharges"`
	StoneCharges  decimal.Decimal `json:"stoneCharges"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	GSTAmount     decimal.Decimal `json:"gstAmount"`
	FinalPrice    decimal.Decimal `json:"finalPrice"`
	Currency      string          `json:"currency"`
}

// Calculate derives the charge breakdown for qty units of a product.
// Quantities below one are the caller's responsibility to reject. The
// function is total: absent fields contribute zero and no error can occur.
func Calculate(p ProductPricing, qty int) Breakdown {
	q := decimal.NewFromInt(int64(qty))

	currency := p.Currency
	if currency == "" {
		currency = DefaultCurrency
	}

	metal := resolveMetalValue(p).Mul(q)
	wastage := resolveWastageValue(p, metal, q)
	making := orZero(p.MakingCharges).Mul(q)
	stone := orZero(p.StoneCharges).Mul(q)

	subtotal := metal.Add(wastage).Add(making).Add(stone)

	gst := decimal.Zero
	if p.GSTPercent != nil && subtotal.IsPositive() {
		gst = subtotal.Mul(*p.GSTPercent).Div(hundred)
	}

	return Breakdown{
		MetalValue:    metal,
		WastageValue:  wastage,
		MakingCharges: making,
		StoneCharges:  stone,
		Subtotal:      subtotal,
		GSTAmount:     gst,
		FinalPrice:    subtotal.Add(gst),
		Currency:      currency,
	}
}

// resolveMetalValue applies the metal value precedence, per unit:
//  1. an explicit non-zero metal value
//  2. the product's flat price standing in as the metal value
//
// This is a fallback chain, not a sum.
func resolveMetalValue(p ProductPricing) decimal.Decimal {
	if p.MetalValue != nil && !p.MetalValue.IsZero() {
		return *p.MetalValue
	}
	return p.PriceAmount
}

// resolveWastageValue applies the wastage precedence:
//  1. an explicit wastage value, scaled by quantity
//  2. the wastage percent applied to the already quantity-scaled metal
//     value (no second quantity multiplication)
//  3. zero
func resolveWastageValue(p ProductPricing, scaledMetal, q decimal.Decimal) decimal.Decimal {
	if p.WastageValue != nil {
		return p.WastageValue.Mul(q)
	}
	if p.WastagePercent != nil && scaledMetal.IsPositive() {
		return scaledMetal.Mul(*p.WastagePercent).Div(hundred)
	}
	return decimal.Zero
}

func orZero(v *decimal.Decimal) decimal.Decimal {
	if v == nil {
		return decimal.Zero
	}
	return *v
}
