package asiento

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/cierre-dev/cierre/internal/model"
	"github.com/cierre-dev/cierre/internal/plan"
)

// SpecialKind names the contra and redirection accounts the builder
// needs to resolve in the plan.
type SpecialKind string

const (
	SpecialRecpam        SpecialKind = "recpam"
	SpecialTenencia      SpecialKind = "tenencia"
	SpecialAjusteCapital SpecialKind = "ajuste_capital"
)

type specialSpec struct {
	codes        []string
	namePattern  *regexp.Regexp
	fallbackCode string
	fallbackName string
}

var specialSpecs = map[SpecialKind]specialSpec{
	SpecialRecpam: {
		codes:        []string{"4.6.05"},
		namePattern:  regexp.MustCompile(`recpam|r\.e\.c\.p\.a\.m|resultado.*exposici|exposici.*inflaci`),
		fallbackCode: "4.6.05",
		fallbackName: "R.E.C.P.A.M.",
	},
	SpecialTenencia: {
		codes:        []string{"4.6.06"},
		namePattern:  regexp.MustCompile(`resultado.*tenencia|rxt`),
		fallbackCode: "4.6.06",
		fallbackName: "Resultado por Tenencia",
	},
	SpecialAjusteCapital: {
		codes:        []string{"3.1.02"},
		namePattern:  regexp.MustCompile(`ajuste.*capital`),
		fallbackCode: "3.1.02",
		fallbackName: "Ajuste de Capital",
	},
}

// SpecialAccount is a resolved special account. Warning is non-empty
// when the plan had no match and a placeholder was synthesized; the
// voucher is still produced.
type SpecialAccount struct {
	Account     model.Account
	Synthesized bool
	Warning     string
}

// GetSpecialAccount resolves a special account: known code list first,
// then a name-pattern scan, then a synthesized placeholder.
func GetSpecialAccount(p *plan.Service, kind SpecialKind) SpecialAccount {
	spec := specialSpecs[kind]

	if a, ok := p.FindByCodes(spec.codes); ok {
		return SpecialAccount{Account: a}
	}
	if a, ok := p.FindByNamePattern(spec.namePattern); ok {
		return SpecialAccount{Account: a}
	}
	return SpecialAccount{
		Account: model.Account{
			Code: spec.fallbackCode,
			Name: spec.fallbackName,
		},
		Synthesized: true,
		Warning: fmt.Sprintf("cuenta %q no encontrada en el plan; se usa el código provisorio %s",
			spec.fallbackName, spec.fallbackCode),
	}
}

// capitalPattern detects legally-fixed capital accounts that must never
// be adjusted directly.
var capitalPattern = regexp.MustCompile(`capital\s+social`)

const capitalCodePrefix = "3.1.01"

// isCapitalAccount reports whether a line targets the Capital Social
// account, by name pattern or code prefix.
func isCapitalAccount(code, name string) bool {
	if code != "" && (code == capitalCodePrefix || hasDotPrefix(code, capitalCodePrefix)) {
		return true
	}
	return capitalPattern.MatchString(strings.ToLower(name))
}

func hasDotPrefix(code, prefix string) bool {
	return len(code) > len(prefix) && code[:len(prefix)] == prefix && code[len(prefix)] == '.'
}
