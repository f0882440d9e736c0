package invoice

import (
	"time"

	ierr "github.com/invixio/invixio/internal/errors"
	"github.com/invixio/invixio/internal/types"
	"github.com/shopspring/decimal"
)

// MaxNoteLength bounds the free-text notes and payment instructions fields.
const MaxNoteLength = 500

// Invoice represents one bill issued by a user to a client. The issuer party
// fields are a denormalized copy of the user's company profile taken at
// creation time, so later profile edits do not rewrite history.
type Invoice struct {
	ID            string `db:"id" json:"id"`
	UserID        string `db:"user_id" json:"user_id"`
	InvoiceNumber string `db:"invoice_number" json:"invoice_number"`

	CompanyName    string `db:"company_name" json:"company_name"`
	CompanyEmail   string `db:"company_email" json:"company_email"`
	CompanyAddress string `db:"company_address" json:"company_address"`

	ClientName    string `db:"client_name" json:"client_name"`
	ClientEmail   string `db:"client_email" json:"client_email"`
	ClientAddress string `db:"client_address" json:"client_address"`

	InvoiceDate time.Time `db:"invoice_date" json:"invoice_date"`
	DueDate     time.Time `db:"due_date" json:"due_date"`

	Currency           string          `db:"currency" json:"currency"`
	Subtotal           decimal.Decimal `db:"subtotal" json:"subtotal"`
	Tax                decimal.Decimal `db:"tax" json:"tax"`
	Discount           decimal.Decimal `db:"discount" json:"discount"`
	TaxPercentage      decimal.Decimal `db:"tax_percentage" json:"tax_percentage"`
	DiscountPercentage decimal.Decimal `db:"discount_percentage" json:"discount_percentage"`
	Total              decimal.Decimal `db:"total" json:"total"`

	InvoiceStatus types.InvoiceStatus `db:"invoice_status" json:"invoice_status"`
	PaidAt        *time.Time          `db:"paid_at" json:"paid_at,omitempty"`
	CancelledAt   *time.Time          `db:"cancelled_at" json:"cancelled_at,omitempty"`

	Notes               string  `db:"notes" json:"notes,omitempty"`
	PaymentInstructions string  `db:"payment_instructions" json:"payment_instructions,omitempty"`
	LogoURL             *string `db:"logo_url" json:"logo_url,omitempty"`
	PDFURL              *string `db:"pdf_url" json:"pdf_url,omitempty"`

	Items []*InvoiceItem `db:"-" json:"items,omitempty"`
	types.BaseModel
}

// Validate checks the internal consistency of a computed invoice before it is
// persisted. Field-level input validation belongs to the DTO layer; this
// guards the invariants the computation must have produced.
func (i *Invoice) Validate() error {
	if i.UserID == "" {
		return ierr.NewError("invoice validation failed").
			WithHint("invoice must belong to a user").
			Mark(ierr.ErrValidation)
	}

	if i.Subtotal.IsNegative() {
		return ierr.NewError("invoice validation failed").
			WithHint("subtotal must be non negative").
			Mark(ierr.ErrValidation)
	}

	if i.Tax.IsNegative() || i.Discount.IsNegative() {
		return ierr.NewError("invoice validation failed").
			WithHint("tax and discount must be non negative").
			Mark(ierr.ErrValidation)
	}

	if !i.Total.Equal(i.Subtotal.Add(i.Tax).Sub(i.Discount)) {
		return ierr.NewError("invoice validation failed").
			WithHint("total must equal subtotal + tax - discount").
			Mark(ierr.ErrValidation)
	}

	if len(i.Items) == 0 {
		return ierr.NewError("invoice validation failed").
			WithHint("At least one item is required").
			Mark(ierr.ErrValidation)
	}

	var sum decimal.Decimal
	for _, item := range i.Items {
		if err := item.Validate(); err != nil {
			return err
		}
		sum = sum.Add(item.Amount)
	}
	if !sum.Equal(i.Subtotal) {
		return ierr.NewError("invoice validation failed").
			WithHint("subtotal must equal the sum of item amounts").
			Mark(ierr.ErrValidation)
	}

	if len(i.Notes) > MaxNoteLength {
		return ierr.NewError("invoice validation failed").
			WithHintf("Notes can be maximum of %d characters", MaxNoteLength).
			Mark(ierr.ErrValidation)
	}
	if len(i.PaymentInstructions) > MaxNoteLength {
		return ierr.NewError("invoice validation failed").
			WithHintf("Payment instructions can be maximum of %d characters", MaxNoteLength).
			Mark(ierr.ErrValidation)
	}

	return nil
}

// IsOverdueAt reports whether the invoice's due date has passed relative to
// the given instant, using date-only comparison.
func (i *Invoice) IsOverdueAt(now time.Time) bool {
	return types.BeginningOfDay(i.DueDate).Before(types.BeginningOfDay(now))
}
