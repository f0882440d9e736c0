package types

import (
	ierr "github.com/invixio/invixio/internal/errors"
	"github.com/samber/lo"
)

// InvoiceStatus represents the current state of an invoice in its lifecycle
type InvoiceStatus string

const (
	// InvoiceStatusDraft is used only for ephemeral preview invoices that are
	// never persisted
	InvoiceStatusDraft InvoiceStatus = "DRAFT"
	// InvoiceStatusPending is the initial persisted state; payment is awaited
	InvoiceStatusPending InvoiceStatus = "PENDING"
	// InvoiceStatusPaid indicates the invoice has been settled
	InvoiceStatusPaid InvoiceStatus = "PAID"
	// InvoiceStatusOverdue indicates the due date has passed without payment
	InvoiceStatusOverdue InvoiceStatus = "OVERDUE"
	// InvoiceStatusCancelled is terminal; a cancelled invoice is immutable
	InvoiceStatusCancelled InvoiceStatus = "CANCELLED"
)

func (s InvoiceStatus) String() string {
	return string(s)
}

func (s InvoiceStatus) Validate() error {
	allowed := []InvoiceStatus{
		InvoiceStatusDraft,
		InvoiceStatusPending,
		InvoiceStatusPaid,
		InvoiceStatusOverdue,
		InvoiceStatusCancelled,
	}
	if !lo.Contains(allowed, s) {
		return ierr.NewError("invalid invoice status").
			WithHint("Please provide a valid invoice status").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// IsTerminal reports whether no further transition is permitted from s.
func (s InvoiceStatus) IsTerminal() bool {
	return s == InvoiceStatusCancelled
}

// CanMarkPaid reports whether an invoice in status s may transition to PAID.
func (s InvoiceStatus) CanMarkPaid() bool {
	return s == InvoiceStatusPending || s == InvoiceStatusOverdue
}

// CanMarkUnpaid reports whether an invoice in status s may leave PAID.
func (s InvoiceStatus) CanMarkUnpaid() bool {
	return s == InvoiceStatusPaid
}

// CanCancel reports whether an invoice in status s may be cancelled. A paid
// invoice must be marked unpaid first; a cancelled one stays cancelled.
func (s InvoiceStatus) CanCancel() bool {
	return s == InvoiceStatusPending || s == InvoiceStatusOverdue
}

// CanEdit reports whether the invoice fields and items may still be replaced.
func (s InvoiceStatus) CanEdit() bool {
	return s == InvoiceStatusPending || s == InvoiceStatusOverdue
}

// AdjustmentMode selects how tax and discount inputs are interpreted when
// computing invoice totals. The mode is a deployment-level configuration
// choice, not a per-invoice flag.
type AdjustmentMode string

const (
	// AdjustmentModeFlat treats tax and discount as absolute currency amounts
	AdjustmentModeFlat AdjustmentMode = "flat"
	// AdjustmentModePercentage treats tax and discount as percentages of the
	// subtotal
	AdjustmentModePercentage AdjustmentMode = "percentage"
)

func (m AdjustmentMode) String() string {
	return string(m)
}

func (m AdjustmentMode) Validate() error {
	allowed := []AdjustmentMode{
		AdjustmentModeFlat,
		AdjustmentModePercentage,
	}
	if !lo.Contains(allowed, m) {
		return ierr.NewError("invalid adjustment mode").
			WithHint("Please provide a valid adjustment mode").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// InvoiceEmailType selects which notice template is sent to the client.
type InvoiceEmailType string

const (
	InvoiceEmailTypeCreated   InvoiceEmailType = "created"
	InvoiceEmailTypeUpdated   InvoiceEmailType = "updated"
	InvoiceEmailTypeReminder  InvoiceEmailType = "reminder"
	InvoiceEmailTypeCancelled InvoiceEmailType = "cancelled"
	InvoiceEmailTypeDeleted   InvoiceEmailType = "deleted"
)

func (t InvoiceEmailType) String() string {
	return string(t)
}
