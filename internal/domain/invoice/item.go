package invoice

import (
	ierr "github.com/invixio/invixio/internal/errors"
	"github.com/invixio/invixio/internal/types"
	"github.com/shopspring/decimal"
)

// InvoiceItem represents a single billable line on an invoice. Items are
// owned exclusively by their parent invoice and replaced wholesale on edit.
type InvoiceItem struct {
	ID          string          `db:"id" json:"id"`
	InvoiceID   string          `db:"invoice_id" json:"invoice_id"`
	Description string          `db:"description" json:"description"`
	Quantity    decimal.Decimal `db:"quantity" json:"quantity"`
	UnitPrice   decimal.Decimal `db:"unit_price" json:"unit_price"`
	Amount      decimal.Decimal `db:"amount" json:"amount"`
	types.BaseModel
}

// Validate validates the invoice item
func (i *InvoiceItem) Validate() error {
	if i.Description == "" {
		return ierr.NewError("invoice item validation failed").
			WithHint("Description is required").
			Mark(ierr.ErrValidation)
	}

	if i.Quantity.LessThan(decimal.NewFromInt(1)) {
		return ierr.NewError("invoice item validation failed").
			WithHint("Quantity must be at least 1").
			Mark(ierr.ErrValidation)
	}

	if i.UnitPrice.IsNegative() {
		return ierr.NewError("invoice item validation failed").
			WithHint("Unit price must be 0 or greater").
			Mark(ierr.ErrValidation)
	}

	if !i.Amount.Equal(i.Quantity.Mul(i.UnitPrice)) {
		return ierr.NewError("invoice item validation failed").
			WithHint("amount must equal quantity x unit price").
			Mark(ierr.ErrValidation)
	}

	return nil
}
