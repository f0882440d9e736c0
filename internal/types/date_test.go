package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBeginningOfDay(t *testing.T) {
	in := time.Date(2026, 3, 15, 23, 45, 12, 999, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), BeginningOfDay(in))

	// non-UTC inputs are normalized to the UTC calendar day
	loc := time.FixedZone("UTC+5", 5*3600)
	in = time.Date(2026, 3, 16, 2, 0, 0, 0, loc)
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), BeginningOfDay(in))
}

func TestPricingMonthRange(t *testing.T) {
	start, end := PricingMonthRange(time.Date(2026, 1, 20, 14, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), end)

	// year rollover
	start, end = PricingMonthRange(time.Date(2026, 12, 31, 23, 59, 59, 0, time.UTC))
	assert.Equal(t, time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC), end)
}

func TestMonthKey(t *testing.T) {
	assert.Equal(t, "2026-03", MonthKey(time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2026-09", MonthKey(time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)))
}
