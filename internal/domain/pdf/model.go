package pdf

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceData is the render payload handed to the typst compiler.
type InvoiceData struct {
	ID            string     `json:"id"`
	InvoiceNumber string     `json:"invoice_number"`
	InvoiceStatus string     `json:"invoice_status"`
	Currency      string     `json:"currency"`
	LogoImage     string     `json:"logo_image,omitempty"`
	InvoiceDate   CustomTime `json:"invoice_date"`
	DueDate       CustomTime `json:"due_date"`

	Biller    *BillerInfo    `json:"biller"`
	Recipient *RecipientInfo `json:"recipient"`

	LineItems []LineItemData `json:"line_items"`

	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`

	Notes               string `json:"notes,omitempty"`
	PaymentInstructions string `json:"payment_instructions,omitempty"`
}

// BillerInfo contains company information for the invoice issuer
type BillerInfo struct {
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address,omitempty"`
}

// RecipientInfo contains client information for the invoice recipient
type RecipientInfo struct {
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address,omitempty"`
}

// LineItemData represents an invoice line item for PDF generation
type LineItemData struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
}

type CustomTime struct {
	time.Time
}

func (ct CustomTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(ct.Format("2006-01-02"))
}
