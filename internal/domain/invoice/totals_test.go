package invoice

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/invixio/invixio/internal/types"
)

func item(qty, price string) *InvoiceItem {
	return &InvoiceItem{
		Quantity:  decimal.RequireFromString(qty),
		UnitPrice: decimal.RequireFromString(price),
	}
}

func TestComputeTotalsPercentageMode(t *testing.T) {
	items := []*InvoiceItem{item("1", "1000.00")}
	adj := Adjustments{
		TaxPercentage:      decimal.RequireFromString("7.5"),
		DiscountPercentage: decimal.RequireFromString("10"),
	}

	totals := ComputeTotals(items, adj, types.AdjustmentModePercentage)

	assert.True(t, totals.Subtotal.Equal(decimal.RequireFromString("1000.00")), "subtotal %s", totals.Subtotal)
	assert.True(t, totals.Tax.Equal(decimal.RequireFromString("75.00")), "tax %s", totals.Tax)
	assert.True(t, totals.Discount.Equal(decimal.RequireFromString("100.00")), "discount %s", totals.Discount)
	assert.True(t, totals.Total.Equal(decimal.RequireFromString("975.00")), "total %s", totals.Total)
}

func TestComputeTotalsFlatMode(t *testing.T) {
	items := []*InvoiceItem{
		item("2", "50.00"),
		item("1", "25.00"),
	}
	adj := Adjustments{
		Tax:      decimal.RequireFromString("10.00"),
		Discount: decimal.RequireFromString("5.00"),
	}

	totals := ComputeTotals(items, adj, types.AdjustmentModeFlat)

	assert.True(t, totals.Subtotal.Equal(decimal.RequireFromString("125.00")))
	assert.True(t, totals.Tax.Equal(decimal.RequireFromString("10.00")))
	assert.True(t, totals.Discount.Equal(decimal.RequireFromString("5.00")))
	assert.True(t, totals.Total.Equal(decimal.RequireFromString("130.00")))
}

func TestComputeTotalsPercentageRoundsEachTermOnce(t *testing.T) {
	// 333.33 * 7.5% = 24.99975, rounds half away from zero to 25.00
	items := []*InvoiceItem{item("1", "333.33")}
	adj := Adjustments{TaxPercentage: decimal.RequireFromString("7.5")}

	totals := ComputeTotals(items, adj, types.AdjustmentModePercentage)

	assert.True(t, totals.Tax.Equal(decimal.RequireFromString("25.00")), "tax %s", totals.Tax)
	assert.True(t, totals.Total.Equal(decimal.RequireFromString("358.33")), "total %s", totals.Total)
}

func TestComputeTotalsItemOrderIrrelevant(t *testing.T) {
	a := []*InvoiceItem{item("3", "19.99"), item("1", "0.01"), item("7", "42.00")}
	b := []*InvoiceItem{item("7", "42.00"), item("3", "19.99"), item("1", "0.01")}
	adj := Adjustments{
		TaxPercentage:      decimal.RequireFromString("8.25"),
		DiscountPercentage: decimal.RequireFromString("2.5"),
	}

	ta := ComputeTotals(a, adj, types.AdjustmentModePercentage)
	tb := ComputeTotals(b, adj, types.AdjustmentModePercentage)

	assert.True(t, ta.Subtotal.Equal(tb.Subtotal))
	assert.True(t, ta.Tax.Equal(tb.Tax))
	assert.True(t, ta.Discount.Equal(tb.Discount))
	assert.True(t, ta.Total.Equal(tb.Total))
}

func TestComputeTotalsNoItems(t *testing.T) {
	totals := ComputeTotals(nil, Adjustments{}, types.AdjustmentModePercentage)

	assert.True(t, totals.Subtotal.IsZero())
	assert.True(t, totals.Tax.IsZero())
	assert.True(t, totals.Discount.IsZero())
	assert.True(t, totals.Total.IsZero())
}

func TestComputeTotalsZeroPercentages(t *testing.T) {
	items := []*InvoiceItem{item("4", "12.50")}

	totals := ComputeTotals(items, Adjustments{}, types.AdjustmentModePercentage)

	assert.True(t, totals.Total.Equal(totals.Subtotal))
}

func TestLineAmount(t *testing.T) {
	amount := LineAmount(decimal.RequireFromString("3"), decimal.RequireFromString("19.99"))
	assert.True(t, amount.Equal(decimal.RequireFromString("59.97")))
}
