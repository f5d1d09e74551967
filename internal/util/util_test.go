package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatDateRU(t *testing.T) {
	assert.Equal(t, "29 января 2025", FormatDateRU("2025-01-29T09:00:00"))
	assert.Equal(t, "1 декабря 2024", FormatDateRU("2024-12-01"))
	assert.Equal(t, "garbage", FormatDateRU("garbage"))
}

func TestFormatDayMonthRU(t *testing.T) {
	assert.Equal(t, "29 января", FormatDayMonthRU("2025-01-29"))
	assert.Equal(t, "5 мая", FormatDayMonthRU("2025-05-05"))
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "1500", FormatPrice(1500))
	assert.Equal(t, "750.5", FormatPrice(750.5))
	assert.Equal(t, "0", FormatPrice(0))
}

func TestShiftDate(t *testing.T) {
	next, err := ShiftDate("2025-01-31", 1)
	require.NoError(t, err)
	assert.Equal(t, "2025-02-01", next)

	prev, err := ShiftDate("2025-01-01", -1)
	require.NoError(t, err)
	assert.Equal(t, "2024-12-31", prev)

	_, err = ShiftDate("31.01.2025", 1)
	assert.Error(t, err)
}
