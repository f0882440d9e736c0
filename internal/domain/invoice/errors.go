package invoice

import (
	"errors"
)

var (
	// ErrInvoiceNotFound is returned when an invoice is not found for the
	// requesting user; intentionally indistinguishable from not-owned
	ErrInvoiceNotFound = errors.New("invoice not found")

	// ErrDuplicateNumber is returned when an invoice number collides with an
	// existing one for the same user
	ErrDuplicateNumber = errors.New("duplicate invoice number")

	// ErrInvalidTransition is returned when a status transition is not
	// permitted from the invoice's current status
	ErrInvalidTransition = errors.New("invalid invoice status transition")

	// ErrInvoiceImmutable is returned when an edit targets a paid or
	// cancelled invoice
	ErrInvoiceImmutable = errors.New("invoice can no longer be modified")
)

// IsNotFoundError checks if an error is a not found error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrInvoiceNotFound)
}
