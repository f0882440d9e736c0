package invoice

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ierr "github.com/invixio/invixio/internal/errors"
)

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "#INV-2026000001", FormatNumber(2026, 1))
	assert.Equal(t, "#INV-2026000042", FormatNumber(2026, 42))
	assert.Equal(t, "#INV-2026999999", FormatNumber(2026, 999999))
}

func TestNextNumberFirstOfYear(t *testing.T) {
	number, err := NextNumber(nil, 2026, DefaultMaxSequence)
	require.NoError(t, err)
	assert.Equal(t, "#INV-2026000001", number)
}

func TestNextNumberIncrements(t *testing.T) {
	number, err := NextNumber(lo.ToPtr("#INV-2026000041"), 2026, DefaultMaxSequence)
	require.NoError(t, err)
	assert.Equal(t, "#INV-2026000042", number)
}

func TestNextNumberExhaustion(t *testing.T) {
	_, err := NextNumber(lo.ToPtr("#INV-2026999999"), 2026, DefaultMaxSequence)
	require.Error(t, err)
	assert.True(t, ierr.IsSequenceExhausted(err))
}

func TestNextNumberCustomCeiling(t *testing.T) {
	number, err := NextNumber(lo.ToPtr("#INV-2026000009"), 2026, 10)
	require.NoError(t, err)
	assert.Equal(t, "#INV-2026000010", number)

	_, err = NextNumber(lo.ToPtr("#INV-2026000010"), 2026, 10)
	require.Error(t, err)
	assert.True(t, ierr.IsSequenceExhausted(err))
}

func TestNextNumberRejectsForeignPrefix(t *testing.T) {
	_, err := NextNumber(lo.ToPtr("CUSTOM-77"), 2026, DefaultMaxSequence)
	require.Error(t, err)
	assert.True(t, ierr.IsValidation(err))
}

func TestParseSequence(t *testing.T) {
	seq, err := ParseSequence("#INV-2026000042", 2026)
	require.NoError(t, err)
	assert.Equal(t, int64(42), seq)

	_, err = ParseSequence("#INV-2025000042", 2026)
	assert.Error(t, err)

	_, err = ParseSequence("#INV-2026abcdef", 2026)
	assert.Error(t, err)
}

func TestYearPrefix(t *testing.T) {
	assert.Equal(t, "#INV-2026", YearPrefix(2026))
}
