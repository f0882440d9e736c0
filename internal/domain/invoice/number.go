package invoice

import (
	"fmt"
	"strconv"
	"strings"

	ierr "github.com/invixio/invixio/internal/errors"
)

// Auto-generated invoice numbers take the form #INV-<4-digit-year><6-digit
// zero-padded sequence>, e.g. #INV-2026000042. The sequence is scoped to the
// issuing user and resets each calendar year.
const (
	numberPrefix       = "#INV-"
	sequenceDigits     = 6
	DefaultMaxSequence = 999999
)

// YearPrefix returns the invoice-number prefix for a given year, used to look
// up the greatest allocated number for that year.
func YearPrefix(year int) string {
	return fmt.Sprintf("%s%04d", numberPrefix, year)
}

// FormatNumber renders an invoice number for the given year and sequence
// value.
func FormatNumber(year int, seq int64) string {
	return fmt.Sprintf("%s%0*d", YearPrefix(year), sequenceDigits, seq)
}

// ParseSequence extracts the sequence value from an auto-generated invoice
// number for the given year. Numbers not in the generated form (e.g.
// caller-supplied alphanumeric numbers) yield an error.
func ParseSequence(number string, year int) (int64, error) {
	prefix := YearPrefix(year)
	if !strings.HasPrefix(number, prefix) {
		return 0, ierr.NewErrorf("invoice number %q does not match prefix %q", number, prefix).
			WithHint("invoice number is not in the generated form").
			Mark(ierr.ErrValidation)
	}
	seq, err := strconv.ParseInt(strings.TrimPrefix(number, prefix), 10, 64)
	if err != nil {
		return 0, ierr.WithError(err).
			WithHint("invoice number suffix is not numeric").
			Mark(ierr.ErrValidation)
	}
	return seq, nil
}

// NextNumber derives the next invoice number for the given year from the
// greatest existing number, or the first number of the year when none exists.
// It fails with ErrSequenceExhausted once the sequence would exceed ceiling:
// running out of six-digit suffixes within a year means either a runaway bug
// or a parameter that needs revisiting, so it must surface loudly.
func NextNumber(lastNumber *string, year int, ceiling int64) (string, error) {
	var next int64 = 1
	if lastNumber != nil {
		seq, err := ParseSequence(*lastNumber, year)
		if err != nil {
			return "", err
		}
		next = seq + 1
	}

	if ceiling <= 0 {
		ceiling = DefaultMaxSequence
	}
	if next > ceiling {
		return "", ierr.NewErrorf("invoice number sequence for %d exhausted", year).
			WithHintf("No invoice numbers remain for %d", year).
			WithReportableDetails(map[string]any{
				"year":    year,
				"ceiling": ceiling,
			}).
			Mark(ierr.ErrSequenceExhausted)
	}

	return FormatNumber(year, next), nil
}
