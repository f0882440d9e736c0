package types

import (
	"time"
)

// BeginningOfDay normalizes t to midnight UTC. Due-date comparisons and the
// overdue sweep are date-only, so both sides must be normalized the same way.
func BeginningOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// PricingMonthRange returns the half-open interval [start of the month of t,
// start of the next month). The free-plan invoice quota is evaluated against
// invoices created in this window.
func PricingMonthRange(t time.Time) (time.Time, time.Time) {
	t = t.UTC()
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// MonthKey formats t as "2006-01" for month-bucketed aggregates.
func MonthKey(t time.Time) string {
	return t.UTC().Format("2006-01")
}
