package invoice

import (
	"github.com/invixio/invixio/internal/types"
	"github.com/shopspring/decimal"
)

// Adjustments carries the tax and discount inputs for totals computation.
// In flat mode Tax and Discount are absolute currency amounts; in percentage
// mode TaxPercentage and DiscountPercentage apply to the subtotal. Zero
// values stand in for absent inputs.
type Adjustments struct {
	Tax                decimal.Decimal
	Discount           decimal.Decimal
	TaxPercentage      decimal.Decimal
	DiscountPercentage decimal.Decimal
}

// Totals is the result of the monetary computation.
type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Discount decimal.Decimal
	Total    decimal.Decimal
}

// ComputeTotals derives the monetary fields of an invoice from its line items
// and adjustments. It is a pure function and never fails: inputs are assumed
// to be pre-validated, and absent values default to zero.
//
// The subtotal is the unrounded sum of quantity times unit price per item.
// In percentage mode the tax and discount terms are each rounded to 2 decimal
// places exactly once, immediately after the multiplication, half away from
// zero. The total is subtotal + tax - discount and is not re-rounded: the
// subtotal is a sum of 2-decimal inputs, so only the percentage terms can
// introduce extra precision.
func ComputeTotals(items []*InvoiceItem, adj Adjustments, mode types.AdjustmentMode) Totals {
	var subtotal decimal.Decimal
	for _, item := range items {
		subtotal = subtotal.Add(item.Quantity.Mul(item.UnitPrice))
	}

	var tax, discount decimal.Decimal
	switch mode {
	case types.AdjustmentModePercentage:
		hundred := decimal.NewFromInt(100)
		tax = subtotal.Mul(adj.TaxPercentage).Div(hundred).Round(2)
		discount = subtotal.Mul(adj.DiscountPercentage).Div(hundred).Round(2)
	default:
		tax = adj.Tax
		discount = adj.Discount
	}

	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Discount: discount,
		Total:    subtotal.Add(tax).Sub(discount),
	}
}

// LineAmount derives the amount of a single line item.
func LineAmount(quantity, unitPrice decimal.Decimal) decimal.Decimal {
	return quantity.Mul(unitPrice)
}
