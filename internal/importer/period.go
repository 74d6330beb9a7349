package importer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/cierre-dev/cierre/internal/indices"
)

var spanishMonths = map[string]int{
	"ene": 1, "enero": 1,
	"feb": 2, "febrero": 2,
	"mar": 3, "marzo": 3,
	"abr": 4, "abril": 4,
	"may": 5, "mayo": 5,
	"jun": 6, "junio": 6,
	"jul": 7, "julio": 7,
	"ago": 8, "agosto": 8,
	"sep": 9, "sept": 9, "septiembre": 9, "setiembre": 9,
	"oct": 10, "octubre": 10,
	"nov": 11, "noviembre": 11,
	"dic": 12, "diciembre": 12,
}

var (
	reYearMonth = regexp.MustCompile(`^(\d{4})[-/.](\d{1,2})$`)
	reMonthYear = regexp.MustCompile(`^(\d{1,2})[-/.](\d{4})$`)
	reMonthYY   = regexp.MustCompile(`^(\d{1,2})[-/.](\d{2})$`)
	reNameYear  = regexp.MustCompile(`^([a-zñ]+)[\s\-/.]+(\d{2,4})$`)
	reSerial    = regexp.MustCompile(`^\d{4,6}$`)
)

// Spreadsheet serial day 1 is 1899-12-31, with the spurious 1900 leap
// day baked in, so day 60 onward is offset by one.
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// NormalizePeriod converts the period spellings seen in index files to
// canonical "YYYY-MM": "2024-05", "05/2024", "ene-24", "enero 2024",
// "01/24", and spreadsheet date serials. Unrecognized input yields "".
func NormalizePeriod(s string) indices.Periodo {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}

	if m := reYearMonth.FindStringSubmatch(s); m != nil {
		return makePeriodo(m[1], m[2])
	}
	if m := reMonthYear.FindStringSubmatch(s); m != nil {
		return makePeriodo(m[2], m[1])
	}
	if m := reMonthYY.FindStringSubmatch(s); m != nil {
		return makePeriodo(expandYear(m[2]), m[1])
	}
	if m := reNameYear.FindStringSubmatch(s); m != nil {
		month, ok := spanishMonths[m[1]]
		if !ok {
			return ""
		}
		year := m[2]
		if len(year) == 2 {
			year = expandYear(year)
		}
		return makePeriodo(year, strconv.Itoa(month))
	}
	if reSerial.MatchString(s) {
		return serialPeriodo(s)
	}

	// Last resort: a full date string truncates to its month.
	return indices.PeriodoFromString(s)
}

func makePeriodo(year, month string) indices.Periodo {
	y, err := strconv.Atoi(year)
	if err != nil {
		return ""
	}
	m, err := strconv.Atoi(month)
	if err != nil || m < 1 || m > 12 {
		return ""
	}
	return indices.Periodo(fmt.Sprintf("%04d-%02d", y, m))
}

// expandYear maps a 2-digit year suffix onto 2000-2099.
func expandYear(yy string) string {
	return "20" + yy
}

func serialPeriodo(s string) indices.Periodo {
	// Serials below ~1955 are more likely stray integers than dates.
	serial, err := strconv.Atoi(s)
	if err != nil || serial < 20000 || serial > 80000 {
		return ""
	}
	date := serialEpoch.AddDate(0, 0, serial)
	return indices.PeriodoFromDate(date)
}
