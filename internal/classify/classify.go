// Package classify decides the monetary-exposure class of plan accounts
// and suggests an RT17 valuation method for each.
package classify

import (
	"strings"

	"github.com/cierre-dev/cierre/internal/model"
)

// Rule is one step of the classification chain. Apply returns the class
// and true when the rule matches; rules are evaluated in order and the
// first match wins.
type Rule struct {
	Name  string
	Apply func(model.Account) (model.Clasificacion, bool)
}

// Rules is the classification chain in evaluation order. It is exported
// so each precedence step can be exercised on its own.
var Rules = []Rule{
	{Name: "kind-no-monetaria", Apply: byKind},
	{Name: "moneda-extranjera", Apply: byFxKeyword},
	{Name: "rubro", Apply: byStatementGroup},
	{Name: "prefijo-codigo", Apply: byCodePrefix},
	{Name: "palabra-clave", Apply: byNameKeyword},
}

// byKind: equity, income and expense accounts are non-monetary no matter
// what their name or code says.
func byKind(a model.Account) (model.Clasificacion, bool) {
	switch a.Kind {
	case model.KindEquity, model.KindIncome, model.KindExpense:
		return model.NoMonetaria, true
	}
	return "", false
}

var fxKeywords = []string{
	"dolar", "dólar", "u$s", "usd", "euro", "moneda extranjera", "divisa",
}

// byFxKeyword runs before the code-prefix rules: foreign-currency cash
// lives in the same 1.1 range as ordinary cash.
func byFxKeyword(a model.Account) (model.Clasificacion, bool) {
	name := strings.ToLower(a.Name)
	for _, kw := range fxKeywords {
		if strings.Contains(name, kw) {
			return model.FxProtegida, true
		}
	}
	return "", false
}

func byStatementGroup(a model.Account) (model.Clasificacion, bool) {
	switch a.Group {
	case model.GroupCajaYBancos, model.GroupCreditos, model.GroupDeudas:
		return model.Monetaria, true
	case model.GroupBienesDeCambio, model.GroupBienesDeUso,
		model.GroupIntangibles, model.GroupInversiones,
		model.GroupPatrimonio, model.GroupResultados:
		return model.NoMonetaria, true
	}
	return "", false
}

// Code prefixes mirror the usual Argentine plan: 1.1 caja y bancos,
// 1.3 créditos, 2 deudas; 1.4 bienes de cambio, 1.5 bienes de uso,
// 1.6 intangibles, 3 patrimonio, 4/5 resultados.
var codePrefixRules = []struct {
	prefix string
	class  model.Clasificacion
}{
	{"1.1", model.Monetaria},
	{"1.3", model.Monetaria},
	{"1.4", model.NoMonetaria},
	{"1.5", model.NoMonetaria},
	{"1.6", model.NoMonetaria},
	{"2", model.Monetaria},
	{"3", model.NoMonetaria},
	{"4", model.NoMonetaria},
	{"5", model.NoMonetaria},
}

func byCodePrefix(a model.Account) (model.Clasificacion, bool) {
	for _, r := range codePrefixRules {
		if strings.HasPrefix(a.Code, r.prefix) {
			return r.class, true
		}
	}
	return "", false
}

// Tax credits are monetary even when their names also match a
// non-monetary keyword, so they are checked first.
var taxCreditKeywords = []string{"iva", "credito fiscal", "crédito fiscal", "saldo a favor", "retencion", "retención", "percepcion", "percepción"}

var monetaryKeywords = []string{
	"caja", "banco", "deudor", "acreedor", "a cobrar", "a pagar",
	"prestamo", "préstamo", "proveedor", "sueldos",
}

var nonMonetaryKeywords = []string{
	"mercader", "materia prima", "rodado", "inmueble", "maquinaria",
	"instalacion", "instalación", "muebles", "capital", "reserva",
	"marca", "patente", "llave",
}

func byNameKeyword(a model.Account) (model.Clasificacion, bool) {
	name := strings.ToLower(a.Name)
	for _, kw := range taxCreditKeywords {
		if strings.Contains(name, kw) {
			return model.Monetaria, true
		}
	}
	for _, kw := range monetaryKeywords {
		if strings.Contains(name, kw) {
			return model.Monetaria, true
		}
	}
	for _, kw := range nonMonetaryKeywords {
		if strings.Contains(name, kw) {
			return model.NoMonetaria, true
		}
	}
	return "", false
}

// Classify resolves the exposure class of one account. Heuristics run in
// the order of Rules; a user override always wins, and IsFxProtected
// forces FX_PROTEGIDA regardless of any stored classification.
func Classify(a model.Account, ov *model.AccountOverride) model.Clasificacion {
	class := model.Indefinida
	for _, r := range Rules {
		if c, ok := r.Apply(a); ok {
			class = c
			break
		}
	}
	if ov != nil {
		if ov.Classification != "" {
			class = ov.Classification
		}
		if ov.IsFxProtected {
			class = model.FxProtegida
		}
	}
	return class
}

// Buckets is the result of partitioning a full account list.
type Buckets struct {
	Monetaria   []model.Account
	NoMonetaria []model.Account
	FxProtegida []model.Account
	Indefinida  []model.Account
	Excluida    []model.Account
}

// ClassifyAccounts partitions accounts into exposure buckets. Accounts
// flagged exclude are pulled out before any rule runs.
func ClassifyAccounts(accounts []model.Account, overrides map[string]model.AccountOverride) Buckets {
	var b Buckets
	for _, a := range accounts {
		ov := lookupOverride(overrides, a.ID)
		if ov != nil && ov.Exclude {
			b.Excluida = append(b.Excluida, a)
			continue
		}
		switch Classify(a, ov) {
		case model.Monetaria:
			b.Monetaria = append(b.Monetaria, a)
		case model.NoMonetaria:
			b.NoMonetaria = append(b.NoMonetaria, a)
		case model.FxProtegida:
			b.FxProtegida = append(b.FxProtegida, a)
		default:
			b.Indefinida = append(b.Indefinida, a)
		}
	}
	return b
}

func lookupOverride(overrides map[string]model.AccountOverride, id string) *model.AccountOverride {
	if overrides == nil {
		return nil
	}
	ov, ok := overrides[id]
	if !ok {
		return nil
	}
	return &ov
}
