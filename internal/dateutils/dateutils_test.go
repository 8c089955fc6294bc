package dateutils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMonthNumber(t *testing.T) {
	m, ok := MonthNumber("ianuarie")
	assert.True(t, ok)
	assert.Equal(t, 1, m)

	m, ok = MonthNumber("Decembrie")
	assert.True(t, ok)
	assert.Equal(t, 12, m)

	_, ok = MonthNumber("january")
	assert.False(t, ok)
}

func TestAbbrevMonthNumber(t *testing.T) {
	m, ok := AbbrevMonthNumber("ian")
	assert.True(t, ok)
	assert.Equal(t, 1, m)

	m, ok = AbbrevMonthNumber("Sep")
	assert.True(t, ok)
	assert.Equal(t, 9, m)

	_, ok = AbbrevMonthNumber("jan")
	assert.False(t, ok)
}

func TestISODate(t *testing.T) {
	assert.Equal(t, "2024-02-01", ISODate("2024", 2, 1))
	assert.Equal(t, "2024-12-31", ISODate("2024", 12, 31))
}

func TestISOFromDMY(t *testing.T) {
	assert.Equal(t, "2024-02-01", ISOFromDMY("01", "02", "2024"))
}
