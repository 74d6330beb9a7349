// Package indices resolves price-index values and reexpression
// coefficients over monthly periods.
package indices

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Periodo is a calendar month in "YYYY-MM" form. The empty string is the
// invalid period and never matches a table entry.
type Periodo string

const periodoLen = 7 // len("2006-01")

// PeriodoFromDate truncates a date to its month.
func PeriodoFromDate(t time.Time) Periodo {
	if t.IsZero() {
		return ""
	}
	return Periodo(t.Format("2006-01"))
}

// PeriodoFromString truncates a date string to its first 7 characters and
// validates the "YYYY-MM" shape. Malformed input yields "".
func PeriodoFromString(s string) Periodo {
	if len(s) < periodoLen {
		return ""
	}
	p := s[:periodoLen]
	for i, r := range p {
		if i == 4 {
			if r != '-' {
				return ""
			}
			continue
		}
		if r < '0' || r > '9' {
			return ""
		}
	}
	if p[5] > '1' || (p[5] == '1' && p[6] > '2') || (p[5] == '0' && p[6] == '0') {
		return ""
	}
	return Periodo(p)
}

// Time returns the first day of the period, or the zero time for "".
func (p Periodo) Time() time.Time {
	t, err := time.Parse("2006-01", string(p))
	if err != nil {
		return time.Time{}
	}
	return t
}

// Next returns the following calendar month.
func (p Periodo) Next() Periodo {
	t := p.Time()
	if t.IsZero() {
		return ""
	}
	return PeriodoFromDate(t.AddDate(0, 1, 0))
}

// IndexRow is one month of the price-index table.
type IndexRow struct {
	Period Periodo
	Value  decimal.Decimal
}

// Table is a read-only price-index table keyed by period.
type Table struct {
	values map[Periodo]decimal.Decimal
}

// NewTable builds a Table from rows. Later duplicates of a period win,
// and rows with an invalid period or non-positive value are dropped.
func NewTable(rows []IndexRow) *Table {
	values := make(map[Periodo]decimal.Decimal, len(rows))
	for _, r := range rows {
		if r.Period == "" || !r.Value.IsPositive() {
			continue
		}
		values[r.Period] = r.Value
	}
	return &Table{values: values}
}

// Value returns the index value for a period.
func (t *Table) Value(p Periodo) (decimal.Decimal, bool) {
	v, ok := t.values[p]
	return v, ok
}

// Len returns the number of periods in the table.
func (t *Table) Len() int { return len(t.values) }

// Periods returns the table's periods in ascending order.
func (t *Table) Periods() []Periodo {
	out := make([]Periodo, 0, len(t.values))
	for p := range t.values {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Coefficient is the result of a coefficient lookup. Value is always
// usable: it degrades to 1 when either index is missing, and the Has*
// flags tell the caller which lookup failed.
type Coefficient struct {
	Value     decimal.Decimal
	HasCierre bool
	HasOrigen bool
}

// Complete reports whether both indices were present.
func (c Coefficient) Complete() bool { return c.HasCierre && c.HasOrigen }

// Coef resolves closingIndex / originIndex. It never fails: a missing
// index on either side makes the coefficient 1 (a no-op adjustment).
func (t *Table) Coef(cierre, origen Periodo) Coefficient {
	c := Coefficient{Value: decimal.NewFromInt(1)}
	vc, okC := t.Value(cierre)
	vo, okO := t.Value(origen)
	c.HasCierre = okC
	c.HasOrigen = okO
	if okC && okO {
		c.Value = vc.Div(vo)
	}
	return c
}

// MonthsBetween lists every period from start to end inclusive. An
// invalid bound or inverted range yields nil.
func MonthsBetween(start, end Periodo) []Periodo {
	if start == "" || end == "" || start > end {
		return nil
	}
	var out []Periodo
	for p := start; p != "" && p <= end; p = p.Next() {
		out = append(out, p)
	}
	return out
}
