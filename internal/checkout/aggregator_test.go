package checkout

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/kanakjewels/storefront/internal/cart"
	"github.com/kanakjewels/storefront/internal/pricing"
)

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func ringBreakdown() *pricing.Breakdown {
	return &pricing.Breakdown{
		MetalValue:    dec("1000"),
		WastageValue:  dec("100"),
		MakingCharges: dec("200"),
		StoneCharges:  decimal.Zero,
		Subtotal:      dec("1300"),
		GSTAmount:     dec("39"),
		FinalPrice:    dec("1339"),
		Currency:      "INR",
	}
}

func TestAggregateBreakdownScalesByQuantity(t *testing.T) {
	lines := []cart.Line{
		{ProductID: "p1", Quantity: 2, Price: pricing.NewMoney("INR", dec("2678")), Breakdown: ringBreakdown()},
	}
	agg := AggregateBreakdown(lines)
	require.NotNil(t, agg)
	require.True(t, agg.MetalValue.Equal(dec("2000")))
	require.True(t, agg.WastageValue.Equal(dec("200")))
	require.True(t, agg.MakingCharges.Equal(dec("400")))
	require.True(t, agg.Subtotal.Equal(dec("2600")))
	require.True(t, agg.GSTAmount.Equal(dec("78")))
	require.True(t, agg.FinalPrice.Equal(dec("2678")))
	require.Equal(t, "INR", agg.Currency)
}

func TestAggregateBreakdownMixedLines(t *testing.T) {
	b2 := &pricing.Breakdown{
		MetalValue: dec("500"),
		Subtotal:   dec("500"),
		FinalPrice: dec("500"),
		Currency:   "INR",
	}
	lines := []cart.Line{
		{ProductID: "p1", Quantity: 1, Breakdown: ringBreakdown()},
		{ProductID: "p2", Quantity: 3, Breakdown: b2},
		{ProductID: "p3", Quantity: 2, Price: pricing.NewMoney("INR", dec("999"))},
	}
	agg := AggregateBreakdown(lines)
	require.NotNil(t, agg)
	require.True(t, agg.MetalValue.Equal(dec("2500")))
	require.True(t, agg.FinalPrice.Equal(dec("2839")))
}

func TestAggregateBreakdownNilWhenNoComponents(t *testing.T) {
	require.Nil(t, AggregateBreakdown(nil))

	// Lines without breakdowns contribute nothing.
	lines := []cart.Line{
		{ProductID: "p1", Quantity: 2, Price: pricing.NewMoney("INR", dec("500"))},
	}
	require.Nil(t, AggregateBreakdown(lines))

	// A breakdown whose four charge components are all zero does not count
	// as a contribution even if GST or totals are set.
	zero := &pricing.Breakdown{GSTAmount: dec("10"), FinalPrice: dec("10"), Currency: "INR"}
	lines = []cart.Line{{ProductID: "p2", Quantity: 1, Breakdown: zero}}
	require.Nil(t, AggregateBreakdown(lines))
}

func TestComputeTotalsCheckoutScenario(t *testing.T) {
	lines := []cart.Line{
		{ProductID: "p1", Quantity: 2, Price: pricing.NewMoney("INR", dec("2678")), Breakdown: ringBreakdown()},
	}
	totals := ComputeTotals(lines, dec("50"), dec("100"))
	require.True(t, totals.Base.Equal(dec("2678")))
	require.True(t, totals.Final.Equal(dec("2628")), "got %s", totals.Final)
	require.Equal(t, "2628", totals.Final.String())
	require.NotNil(t, totals.Breakdown)
}

func TestComputeTotalsFallbackToRawPrices(t *testing.T) {
	lines := []cart.Line{
		{ProductID: "p1", Quantity: 2, Price: pricing.NewMoney("INR", dec("500"))},
		{ProductID: "p2", Quantity: 1, Price: pricing.NewMoney("INR", dec("250"))},
	}
	totals := ComputeTotals(lines, dec("25"), decimal.Zero)
	require.Nil(t, totals.Breakdown)
	require.True(t, totals.Base.Equal(dec("750")))
	require.True(t, totals.Final.Equal(dec("775")))
}

func TestComputeTotalsNonPositiveBaseShortCircuits(t *testing.T) {
	totals := ComputeTotals(nil, dec("50"), dec("10"))
	require.True(t, totals.Final.IsZero())

	lines := []cart.Line{
		{ProductID: "p1", Quantity: 1, Price: pricing.NewMoney("INR", dec("-100"))},
	}
	totals = ComputeTotals(lines, dec("50"), decimal.Zero)
	require.True(t, totals.Final.IsZero())
}

func TestComputeTotalsClampsNegativeFinal(t *testing.T) {
	lines := []cart.Line{
		{ProductID: "p1", Quantity: 1, Price: pricing.NewMoney("INR", dec("100"))},
	}
	totals := ComputeTotals(lines, decimal.Zero, dec("500"))
	require.True(t, totals.Final.IsZero())
}

func TestComputeTotalsRoundsToTwoPlaces(t *testing.T) {
	lines := []cart.Line{
		{ProductID: "p1", Quantity: 1, Price: pricing.NewMoney("INR", dec("99.999"))},
	}
	totals := ComputeTotals(lines, decimal.Zero, decimal.Zero)
	require.Equal(t, "100", totals.Final.String())

	lines[0].Price.Amount = dec("99.994")
	totals = ComputeTotals(lines, decimal.Zero, decimal.Zero)
	require.Equal(t, "99.99", totals.Final.String())
}
