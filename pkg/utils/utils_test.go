package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundWithTwoDecimalPlace(t *testing.T) {
	assert.Equal(t, 0.0, RoundWithTwoDecimalPlace(0))
	assert.Equal(t, 0.3, RoundWithTwoDecimalPlace(0.1+0.2))
	assert.Equal(t, 7.5, RoundWithTwoDecimalPlace(7.5))
	assert.Equal(t, 3.33, RoundWithTwoDecimalPlace(10.0/3))
	assert.Equal(t, -1.24, RoundWithTwoDecimalPlace(-1.236))
}

func TestParseDate(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)

	date, err := ParseDate("2024-01-06", loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 6, 0, 0, 0, 0, loc), date)

	date, err = ParseDate("", loc)
	require.NoError(t, err)
	assert.True(t, date.IsZero())

	_, err = ParseDate("06/01/2024", loc)
	assert.Error(t, err)

	date, err = ParseDate("2024-01-06", nil)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, date.Location())
}

func TestNewReceiptID(t *testing.T) {
	first, err := NewReceiptID()
	require.NoError(t, err)
	second, err := NewReceiptID()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(first, "TXN-"))
	assert.Len(t, first, len("TXN-")+10)
	assert.NotEqual(t, first, second)
}
