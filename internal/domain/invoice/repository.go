package invoice

import (
	"context"
	"time"

	"github.com/invixio/invixio/internal/types"
	"github.com/shopspring/decimal"
)

// Repository defines the interface for invoice persistence operations. Every
// operation is scoped by the owning user id: an invoice that exists but
// belongs to someone else behaves exactly like one that does not exist.
type Repository interface {
	// CreateWithItems creates a new invoice together with its line items
	// atomically
	CreateWithItems(ctx context.Context, inv *Invoice) error

	// UpdateWithItems updates an invoice's fields and replaces its item
	// collection wholesale (old items deleted, new items inserted)
	UpdateWithItems(ctx context.Context, inv *Invoice) error

	// Get retrieves an invoice with its items by ID
	Get(ctx context.Context, userID, id string) (*Invoice, error)

	// UpdateStatus transitions an invoice's status, setting or clearing
	// paidAt and cancelledAt as the transition dictates
	UpdateStatus(ctx context.Context, userID, id string, status types.InvoiceStatus, paidAt, cancelledAt *time.Time) error

	// SetPDFURL records where the rendered document landed after upload
	SetPDFURL(ctx context.Context, userID, id, url string) error

	// Delete permanently removes an invoice and its items
	Delete(ctx context.Context, userID, id string) error

	// List retrieves invoices based on filter criteria
	List(ctx context.Context, userID string, filter *types.InvoiceFilter) ([]*Invoice, error)

	// Count returns the total count of invoices based on filter criteria
	Count(ctx context.Context, userID string, filter *types.InvoiceFilter) (int, error)

	// CountInRange counts invoices created within [start, end)
	CountInRange(ctx context.Context, userID string, start, end time.Time) (int, error)

	// GroupByStatus returns invoice counts per status for invoices created
	// within [start, end); a zero range means all time
	GroupByStatus(ctx context.Context, userID string, start, end time.Time) (map[types.InvoiceStatus]int, error)

	// RevenueByMonth sums totals of paid invoices bucketed by payment month
	// within [start, end)
	RevenueByMonth(ctx context.Context, userID string, start, end time.Time) (map[string]decimal.Decimal, error)

	// MaxInvoiceNumber returns the lexicographically greatest invoice number
	// with the given prefix for the user, or nil when none exists
	MaxInvoiceNumber(ctx context.Context, userID, prefix string) (*string, error)

	// ListDueBefore returns all invoices across users whose due date is
	// before the cutoff and whose status is one of the given statuses. Used
	// by the overdue sweep, which is the one operation that is not scoped to
	// a single user.
	ListDueBefore(ctx context.Context, cutoff time.Time, statuses []types.InvoiceStatus) ([]*Invoice, error)

	// TransitionStatusUnscoped moves an invoice found by id alone from one
	// status to another, reporting whether the row was still in the expected
	// status. Only the sweep may use it
	TransitionStatusUnscoped(ctx context.Context, id string, from, to types.InvoiceStatus) (bool, error)
}
