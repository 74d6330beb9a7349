// Package importer turns tabular input into price-index rows. Period
// normalization (month names, slash separators, two-digit years,
// spreadsheet serials) lives here, not in the computation core.
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cierre-dev/cierre/internal/indices"
)

// ColumnMap tells a parser where the period and value columns sit.
type ColumnMap struct {
	PeriodCol int
	ValueCol  int
	HasHeader bool
}

// Parser converts tabular input into index rows.
type Parser interface {
	Parse(r io.Reader, cm ColumnMap) ([]indices.IndexRow, error)
	Format() string
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&DelimitedParser{Comma: ','})
	r.Register(&DelimitedParser{Comma: ';', name: "csv-semicolon"})
	return r
}

// DelimitedParser parses delimiter-separated text into index rows.
type DelimitedParser struct {
	Comma rune
	name  string
}

// Format returns the registry name of the parser.
func (p *DelimitedParser) Format() string {
	if p.name != "" {
		return p.name
	}
	return "csv"
}

// Parse reads delimited rows, normalizing periods and decimal values.
// Rows whose period cannot be normalized or whose value is not a
// positive number are reported as an error with their row number.
func (p *DelimitedParser) Parse(r io.Reader, cm ColumnMap) ([]indices.IndexRow, error) {
	cr := csv.NewReader(r)
	cr.Comma = p.Comma
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading index table: %w", err)
	}
	if cm.HasHeader && len(records) > 0 {
		records = records[1:]
	}

	maxCol := cm.PeriodCol
	if cm.ValueCol > maxCol {
		maxCol = cm.ValueCol
	}

	var rows []indices.IndexRow
	for i, rec := range records {
		rowNum := i + 1
		if cm.HasHeader {
			rowNum++
		}
		if len(rec) <= maxCol {
			return nil, fmt.Errorf("row %d: expected at least %d columns, got %d", rowNum, maxCol+1, len(rec))
		}

		period := NormalizePeriod(rec[cm.PeriodCol])
		if period == "" {
			return nil, fmt.Errorf("row %d: unrecognized period %q", rowNum, rec[cm.PeriodCol])
		}

		value, err := parseValue(rec[cm.ValueCol])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}

		rows = append(rows, indices.IndexRow{Period: period, Value: value})
	}
	return rows, nil
}

func parseValue(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	// Tolerate "1.234,56" style values.
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid index value %q", s)
	}
	if !v.IsPositive() {
		return decimal.Zero, fmt.Errorf("index value %q must be positive", s)
	}
	return v, nil
}
