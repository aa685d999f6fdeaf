package pricing

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func decPtr(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func TestCalculateFlatPriceFallback(t *testing.T) {
	p := ProductPricing{PriceAmount: dec("2500"), Currency: "INR"}

	for _, qty := range []int{1, 2, 7} {
		b := Calculate(p, qty)
		want := dec("2500").Mul(decimal.NewFromInt(int64(qty)))
		require.True(t, b.MetalValue.Equal(want), "qty %d metal", qty)
		require.True(t, b.WastageValue.IsZero())
		require.True(t, b.MakingCharges.IsZero())
		require.True(t, b.StoneCharges.IsZero())
		require.True(t, b.GSTAmount.IsZero())
		require.True(t, b.FinalPrice.Equal(want), "qty %d final", qty)
		require.Equal(t, "INR", b.Currency)
	}
}

func TestCalculateExplicitMetalValueWins(t *testing.T) {
	p := ProductPricing{
		PriceAmount: dec("99999"),
		MetalValue:  decPtr("1000"),
	}
	b := Calculate(p, 1)
	require.True(t, b.MetalValue.Equal(dec("1000")))
}

func TestCalculateZeroMetalValueFallsBack(t *testing.T) {
	p := ProductPricing{
		PriceAmount: dec("750"),
		MetalValue:  decPtr("0"),
	}
	b := Calculate(p, 2)
	require.True(t, b.MetalValue.Equal(dec("1500")))
}

func TestCalculateFullJewelryBreakdown(t *testing.T) {
	p := ProductPricing{
		PriceAmount:   dec("100"),
		MetalValue:    decPtr("1000"),
		WastageValue:  decPtr("100"),
		MakingCharges: decPtr("200"),
		GSTPercent:    decPtr("3"),
		Currency:      "INR",
	}
	b := Calculate(p, 1)
	require.True(t, b.MetalValue.Equal(dec("1000")))
	require.True(t, b.WastageValue.Equal(dec("100")))
	require.True(t, b.MakingCharges.Equal(dec("200")))
	require.True(t, b.StoneCharges.IsZero())
	require.True(t, b.Subtotal.Equal(dec("1300")))
	require.True(t, b.GSTAmount.Equal(dec("39")))
	require.True(t, b.FinalPrice.Equal(dec("1339")))
}

func TestCalculateWastagePercentNotRescaledByQuantity(t *testing.T) {
	// The percent is applied to the already quantity-scaled metal value,
	// so the derived wastage must scale linearly with quantity and never
	// quadratically.
	p := ProductPricing{
		MetalValue:     decPtr("500"),
		WastagePercent: decPtr("10"),
	}

	one := Calculate(p, 1)
	require.True(t, one.WastageValue.Equal(dec("50")))

	two := Calculate(p, 2)
	require.True(t, two.MetalValue.Equal(dec("1000")))
	require.True(t, two.WastageValue.Equal(dec("100")))
}

func TestCalculateExplicitWastageBeatsPercent(t *testing.T) {
	p := ProductPricing{
		MetalValue:     decPtr("1000"),
		WastageValue:   decPtr("75"),
		WastagePercent: decPtr("10"),
	}
	b := Calculate(p, 3)
	require.True(t, b.WastageValue.Equal(dec("225")))
}

func TestCalculateWastagePercentNeedsPositiveMetal(t *testing.T) {
	p := ProductPricing{
		PriceAmount:    decimal.Zero,
		WastagePercent: decPtr("10"),
		MakingCharges:  decPtr("300"),
	}
	b := Calculate(p, 1)
	require.True(t, b.WastageValue.IsZero())
	require.True(t, b.Subtotal.Equal(dec("300")))
}

func TestCalculateGSTSkippedOnZeroSubtotal(t *testing.T) {
	p := ProductPricing{GSTPercent: decPtr("18")}
	b := Calculate(p, 4)
	require.True(t, b.GSTAmount.IsZero())
	require.True(t, b.FinalPrice.IsZero())
}

func TestCalculateDefaultsCurrency(t *testing.T) {
	b := Calculate(ProductPricing{PriceAmount: dec("10")}, 1)
	require.Equal(t, DefaultCurrency, b.Currency)
}

func TestCalculateAlgebraicInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	randField := func() *decimal.Decimal {
		if rng.Intn(3) == 0 {
			return nil
		}
		d := decimal.NewFromFloat(rng.Float64() * 10000).Round(2)
		return &d
	}

	for i := 0; i < 200; i++ {
		p := ProductPricing{
			PriceAmount:    decimal.NewFromFloat(rng.Float64() * 5000).Round(2),
			MetalValue:     randField(),
			WastageValue:   randField(),
			WastagePercent: randField(),
			MakingCharges:  randField(),
			StoneCharges:   randField(),
			GSTPercent:     randField(),
		}
		qty := 1 + rng.Intn(5)
		b := Calculate(p, qty)

		sum := b.MetalValue.Add(b.WastageValue).Add(b.MakingCharges).Add(b.StoneCharges)
		require.True(t, b.Subtotal.Equal(sum), "subtotal invariant, case %d", i)
		require.True(t, b.FinalPrice.Equal(b.Subtotal.Add(b.GSTAmount)), "final price invariant, case %d", i)
		require.False(t, b.FinalPrice.IsNegative(), "negative final price, case %d", i)
	}
}
