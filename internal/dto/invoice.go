package dto

import (
	"time"

	"github.com/invixio/invixio/internal/domain/invoice"
	ierr "github.com/invixio/invixio/internal/errors"
	"github.com/invixio/invixio/internal/types"
	"github.com/shopspring/decimal"
)

// InvoiceItemRequest is one billable line in a create or update payload.
type InvoiceItemRequest struct {
	Description string          `json:"description" binding:"required" example:"Landing page design"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required" example:"2"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required" example:"50.00"`
}

func (r *InvoiceItemRequest) Validate() error {
	if r.Description == "" {
		return ierr.NewError("invalid invoice item").
			WithHint("Description is required").
			Mark(ierr.ErrValidation)
	}
	if r.Quantity.LessThan(decimal.NewFromInt(1)) {
		return ierr.NewError("invalid invoice item").
			WithHint("Quantity must be at least 1").
			Mark(ierr.ErrValidation)
	}
	if r.UnitPrice.IsNegative() {
		return ierr.NewError("invalid invoice item").
			WithHint("Unit price must be 0 or greater").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// CreateInvoiceRequest represents the request payload for creating an invoice.
// The tax and discount fields are interpreted per the configured adjustment
// mode: flat amounts in flat mode, percentages of the subtotal otherwise.
type CreateInvoiceRequest struct {
	ClientName    string `json:"client_name" binding:"required" example:"Acme Corp"`
	ClientEmail   string `json:"client_email" binding:"required,email" example:"billing@acme.test"`
	ClientAddress string `json:"client_address" example:"1 Main St, Springfield"`

	InvoiceDate time.Time `json:"invoice_date" binding:"required" example:"2025-01-15T00:00:00Z"`
	DueDate     time.Time `json:"due_date" binding:"required" example:"2025-02-15T00:00:00Z"`

	Currency string               `json:"currency" example:"USD"`
	Items    []InvoiceItemRequest `json:"items" binding:"required,min=1,dive"`

	Tax                decimal.Decimal `json:"tax" example:"10.00"`
	Discount           decimal.Decimal `json:"discount" example:"5.00"`
	TaxPercentage      decimal.Decimal `json:"tax_percentage" example:"7.5"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage" example:"10"`

	Notes               string  `json:"notes" example:"Thanks for your business"`
	PaymentInstructions string  `json:"payment_instructions" example:"Wire to IBAN ..."`
	LogoURL             *string `json:"logo_url,omitempty"`
}

// Validate checks field-level constraints. The date checks are evaluated
// against the supplied clock with date-only precision, so a payload issued
// late in the day still validates anywhere in the same UTC day.
func (r *CreateInvoiceRequest) Validate(now time.Time) error {
	if len(r.Items) == 0 {
		return ierr.NewError("invalid invoice payload").
			WithHint("At least one item is required").
			Mark(ierr.ErrValidation)
	}
	for _, item := range r.Items {
		if err := item.Validate(); err != nil {
			return err
		}
	}

	today := types.BeginningOfDay(now)
	if !types.BeginningOfDay(r.InvoiceDate).Equal(today) {
		return ierr.NewError("invalid invoice payload").
			WithHint("Invoice date must be today").
			Mark(ierr.ErrValidation)
	}
	if types.BeginningOfDay(r.DueDate).Before(today) {
		return ierr.NewError("invalid invoice payload").
			WithHint("Due date cannot be in the past").
			Mark(ierr.ErrValidation)
	}

	if err := r.validateAdjustments(); err != nil {
		return err
	}

	if len(r.Notes) > invoice.MaxNoteLength {
		return ierr.NewError("invalid invoice payload").
			WithHintf("Notes can be maximum of %d characters", invoice.MaxNoteLength).
			Mark(ierr.ErrValidation)
	}
	if len(r.PaymentInstructions) > invoice.MaxNoteLength {
		return ierr.NewError("invalid invoice payload").
			WithHintf("Payment instructions can be maximum of %d characters", invoice.MaxNoteLength).
			Mark(ierr.ErrValidation)
	}

	return nil
}

func (r *CreateInvoiceRequest) validateAdjustments() error {
	if r.Tax.IsNegative() || r.Discount.IsNegative() {
		return ierr.NewError("invalid invoice payload").
			WithHint("Tax and discount must be 0 or greater").
			Mark(ierr.ErrValidation)
	}
	hundred := decimal.NewFromInt(100)
	if r.TaxPercentage.IsNegative() || r.TaxPercentage.GreaterThan(hundred) {
		return ierr.NewError("invalid invoice payload").
			WithHint("Tax percentage must be between 0 and 100").
			Mark(ierr.ErrValidation)
	}
	if r.DiscountPercentage.IsNegative() || r.DiscountPercentage.GreaterThan(hundred) {
		return ierr.NewError("invalid invoice payload").
			WithHint("Discount percentage must be between 0 and 100").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// Adjustments maps the request's tax and discount inputs onto the
// computation's input struct.
func (r *CreateInvoiceRequest) Adjustments() invoice.Adjustments {
	return invoice.Adjustments{
		Tax:                r.Tax,
		Discount:           r.Discount,
		TaxPercentage:      r.TaxPercentage,
		DiscountPercentage: r.DiscountPercentage,
	}
}

// ToItems converts the request lines into domain items with derived amounts.
func (r *CreateInvoiceRequest) ToItems() []*invoice.InvoiceItem {
	items := make([]*invoice.InvoiceItem, 0, len(r.Items))
	for _, line := range r.Items {
		items = append(items, &invoice.InvoiceItem{
			ID:          types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE_ITEM),
			Description: line.Description,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			Amount:      invoice.LineAmount(line.Quantity, line.UnitPrice),
			BaseModel:   types.GetDefaultBaseModel(),
		})
	}
	return items
}

// UpdateInvoiceRequest represents the request payload for editing an invoice.
// Items replace the existing lines wholesale; dates may move freely except
// that the due date may not be set before the invoice date.
type UpdateInvoiceRequest struct {
	ClientName    string `json:"client_name" binding:"required"`
	ClientEmail   string `json:"client_email" binding:"required,email"`
	ClientAddress string `json:"client_address"`

	InvoiceDate time.Time `json:"invoice_date" binding:"required"`
	DueDate     time.Time `json:"due_date" binding:"required"`

	Items []InvoiceItemRequest `json:"items" binding:"required,min=1,dive"`

	Tax                decimal.Decimal `json:"tax"`
	Discount           decimal.Decimal `json:"discount"`
	TaxPercentage      decimal.Decimal `json:"tax_percentage"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`

	Notes               string  `json:"notes"`
	PaymentInstructions string  `json:"payment_instructions"`
	LogoURL             *string `json:"logo_url,omitempty"`
}

func (r *UpdateInvoiceRequest) Validate() error {
	if len(r.Items) == 0 {
		return ierr.NewError("invalid invoice payload").
			WithHint("At least one item is required").
			Mark(ierr.ErrValidation)
	}
	for _, item := range r.Items {
		if err := item.Validate(); err != nil {
			return err
		}
	}

	if types.BeginningOfDay(r.DueDate).Before(types.BeginningOfDay(r.InvoiceDate)) {
		return ierr.NewError("invalid invoice payload").
			WithHint("Due date cannot be before the invoice date").
			Mark(ierr.ErrValidation)
	}

	create := CreateInvoiceRequest{
		Tax:                r.Tax,
		Discount:           r.Discount,
		TaxPercentage:      r.TaxPercentage,
		DiscountPercentage: r.DiscountPercentage,
	}
	if err := create.validateAdjustments(); err != nil {
		return err
	}

	if len(r.Notes) > invoice.MaxNoteLength {
		return ierr.NewError("invalid invoice payload").
			WithHintf("Notes can be maximum of %d characters", invoice.MaxNoteLength).
			Mark(ierr.ErrValidation)
	}
	if len(r.PaymentInstructions) > invoice.MaxNoteLength {
		return ierr.NewError("invalid invoice payload").
			WithHintf("Payment instructions can be maximum of %d characters", invoice.MaxNoteLength).
			Mark(ierr.ErrValidation)
	}

	return nil
}

func (r *UpdateInvoiceRequest) Adjustments() invoice.Adjustments {
	return invoice.Adjustments{
		Tax:                r.Tax,
		Discount:           r.Discount,
		TaxPercentage:      r.TaxPercentage,
		DiscountPercentage: r.DiscountPercentage,
	}
}

func (r *UpdateInvoiceRequest) ToItems(invoiceID string) []*invoice.InvoiceItem {
	items := make([]*invoice.InvoiceItem, 0, len(r.Items))
	for _, line := range r.Items {
		items = append(items, &invoice.InvoiceItem{
			ID:          types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE_ITEM),
			InvoiceID:   invoiceID,
			Description: line.Description,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			Amount:      invoice.LineAmount(line.Quantity, line.UnitPrice),
			BaseModel:   types.GetDefaultBaseModel(),
		})
	}
	return items
}

// InvoiceItemResponse mirrors a stored line item.
type InvoiceItemResponse struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
}

// InvoiceResponse represents the invoice response structure.
type InvoiceResponse struct {
	ID            string `json:"id"`
	InvoiceNumber string `json:"invoice_number"`

	CompanyName    string `json:"company_name"`
	CompanyEmail   string `json:"company_email"`
	CompanyAddress string `json:"company_address,omitempty"`

	ClientName    string `json:"client_name"`
	ClientEmail   string `json:"client_email"`
	ClientAddress string `json:"client_address,omitempty"`

	InvoiceDate time.Time `json:"invoice_date"`
	DueDate     time.Time `json:"due_date"`

	Currency           string          `json:"currency"`
	Subtotal           decimal.Decimal `json:"subtotal"`
	Tax                decimal.Decimal `json:"tax"`
	Discount           decimal.Decimal `json:"discount"`
	TaxPercentage      decimal.Decimal `json:"tax_percentage"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
	Total              decimal.Decimal `json:"total"`

	InvoiceStatus types.InvoiceStatus `json:"invoice_status"`
	PaidAt        *time.Time          `json:"paid_at,omitempty"`
	CancelledAt   *time.Time          `json:"cancelled_at,omitempty"`

	Notes               string  `json:"notes,omitempty"`
	PaymentInstructions string  `json:"payment_instructions,omitempty"`
	LogoURL             *string `json:"logo_url,omitempty"`
	PDFURL              *string `json:"pdf_url,omitempty"`

	Items []InvoiceItemResponse `json:"items"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToInvoiceResponse converts a domain invoice to its response form.
func ToInvoiceResponse(inv *invoice.Invoice) *InvoiceResponse {
	items := make([]InvoiceItemResponse, 0, len(inv.Items))
	for _, item := range inv.Items {
		items = append(items, InvoiceItemResponse{
			ID:          item.ID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Amount:      item.Amount,
		})
	}
	return &InvoiceResponse{
		ID:                  inv.ID,
		InvoiceNumber:       inv.InvoiceNumber,
		CompanyName:         inv.CompanyName,
		CompanyEmail:        inv.CompanyEmail,
		CompanyAddress:      inv.CompanyAddress,
		ClientName:          inv.ClientName,
		ClientEmail:         inv.ClientEmail,
		ClientAddress:       inv.ClientAddress,
		InvoiceDate:         inv.InvoiceDate,
		DueDate:             inv.DueDate,
		Currency:            inv.Currency,
		Subtotal:            inv.Subtotal,
		Tax:                 inv.Tax,
		Discount:            inv.Discount,
		TaxPercentage:       inv.TaxPercentage,
		DiscountPercentage:  inv.DiscountPercentage,
		Total:               inv.Total,
		InvoiceStatus:       inv.InvoiceStatus,
		PaidAt:              inv.PaidAt,
		CancelledAt:         inv.CancelledAt,
		Notes:               inv.Notes,
		PaymentInstructions: inv.PaymentInstructions,
		LogoURL:             inv.LogoURL,
		PDFURL:              inv.PDFURL,
		Items:               items,
		CreatedAt:           inv.CreatedAt,
		UpdatedAt:           inv.UpdatedAt,
	}
}

// ListInvoicesResponse is the paginated list payload.
type ListInvoicesResponse struct {
	Items  []*InvoiceResponse `json:"items"`
	Total  int                `json:"total"`
	Limit  int                `json:"limit"`
	Offset int                `json:"offset"`
}
