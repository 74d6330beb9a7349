package indices

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func testTable(t *testing.T) *Table {
	t.Helper()
	return NewTable([]IndexRow{
		{Period: "2024-12", Value: dec("1000")},
		{Period: "2025-01", Value: dec("1100")},
		{Period: "2025-12", Value: dec("1500")},
	})
}

func TestPeriodoFromString(t *testing.T) {
	tests := []struct {
		in   string
		want Periodo
	}{
		{"2025-01", "2025-01"},
		{"2025-01-15", "2025-01"},
		{"2025-12-31T10:00:00Z", "2025-12"},
		{"2025-13", ""},
		{"2025-00", ""},
		{"2025/01", ""},
		{"abc", ""},
		{"", ""},
		{"202501", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PeriodoFromString(tt.in), "input %q", tt.in)
	}
}

func TestPeriodoFromDate(t *testing.T) {
	d := time.Date(2025, time.March, 17, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, Periodo("2025-03"), PeriodoFromDate(d))
	assert.Equal(t, Periodo(""), PeriodoFromDate(time.Time{}))
}

func TestCoefIdentity(t *testing.T) {
	table := testTable(t)
	for _, p := range table.Periods() {
		c := table.Coef(p, p)
		assert.True(t, c.Value.Equal(dec("1")), "coef(%s,%s) = %s", p, p, c.Value)
		assert.True(t, c.Complete())
	}
}

func TestCoefRatio(t *testing.T) {
	table := testTable(t)
	c := table.Coef("2025-12", "2024-12")
	require.True(t, c.Complete())
	assert.True(t, c.Value.Equal(dec("1.5")), "got %s", c.Value)
}

func TestCoefMissingFallsBackToOne(t *testing.T) {
	table := testTable(t)

	c := table.Coef("2025-12", "2020-01")
	assert.True(t, c.Value.Equal(dec("1")))
	assert.True(t, c.HasCierre)
	assert.False(t, c.HasOrigen)

	c = table.Coef("2030-01", "2024-12")
	assert.True(t, c.Value.Equal(dec("1")))
	assert.False(t, c.HasCierre)
	assert.True(t, c.HasOrigen)

	// The invalid period never matches.
	c = table.Coef("2025-12", "")
	assert.False(t, c.HasOrigen)
}

func TestNewTableDropsBadRows(t *testing.T) {
	table := NewTable([]IndexRow{
		{Period: "", Value: dec("100")},
		{Period: "2025-01", Value: dec("0")},
		{Period: "2025-02", Value: dec("-5")},
		{Period: "2025-03", Value: dec("120")},
	})
	assert.Equal(t, 1, table.Len())
	_, ok := table.Value("2025-03")
	assert.True(t, ok)
}

func TestMonthsBetween(t *testing.T) {
	months := MonthsBetween("2024-11", "2025-02")
	assert.Equal(t, []Periodo{"2024-11", "2024-12", "2025-01", "2025-02"}, months)

	assert.Nil(t, MonthsBetween("2025-02", "2024-11"))
	assert.Nil(t, MonthsBetween("", "2025-02"))
	assert.Equal(t, []Periodo{"2025-02"}, MonthsBetween("2025-02", "2025-02"))
}
