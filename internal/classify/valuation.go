package classify

import (
	"strings"

	"github.com/cierre-dev/cierre/internal/model"
)

// Contra and depreciation-like accounts are never revalued: the holding
// result of the asset they regularize already carries the adjustment.
var contraKeywords = []string{"amortiz", "depreciac", "prevision", "previsión", "desvalorizacion", "desvalorización"}

// MethodRule is one step of the valuation-method chain.
type MethodRule struct {
	Name  string
	Apply func(model.Account, model.Clasificacion) (model.ValuationMethod, bool)
}

// MethodRules is the valuation-method suggestion chain in evaluation order.
var MethodRules = []MethodRule{
	{Name: "contra-na", Apply: methodContra},
	{Name: "monetaria-na", Apply: methodMonetary},
	{Name: "fx", Apply: methodFx},
	{Name: "rubro", Apply: methodGroup},
	{Name: "palabra-clave", Apply: methodKeyword},
}

func methodContra(a model.Account, _ model.Clasificacion) (model.ValuationMethod, bool) {
	if a.IsContra {
		return model.MethodNA, true
	}
	name := strings.ToLower(a.Name)
	for _, kw := range contraKeywords {
		if strings.Contains(name, kw) {
			return model.MethodNA, true
		}
	}
	return "", false
}

func methodMonetary(_ model.Account, class model.Clasificacion) (model.ValuationMethod, bool) {
	if class == model.Monetaria {
		return model.MethodNA, true
	}
	return "", false
}

func methodFx(_ model.Account, class model.Clasificacion) (model.ValuationMethod, bool) {
	if class == model.FxProtegida {
		return model.MethodFX, true
	}
	return "", false
}

func methodGroup(a model.Account, _ model.Clasificacion) (model.ValuationMethod, bool) {
	switch a.Group {
	case model.GroupBienesDeCambio:
		return model.MethodReposicion, true
	case model.GroupBienesDeUso:
		return model.MethodRevaluo, true
	case model.GroupInversiones:
		return model.MethodVPP, true
	case model.GroupPatrimonio, model.GroupResultados:
		return model.MethodNA, true
	}
	return "", false
}

func methodKeyword(a model.Account, _ model.Clasificacion) (model.ValuationMethod, bool) {
	name := strings.ToLower(a.Name)
	switch {
	case strings.Contains(name, "mercader"):
		return model.MethodVNR, true
	case strings.Contains(name, "participac") || strings.Contains(name, "vpp"):
		return model.MethodVPP, true
	case strings.Contains(name, "rodado") || strings.Contains(name, "inmueble") ||
		strings.Contains(name, "maquinaria") || strings.Contains(name, "muebles"):
		return model.MethodRevaluo, true
	}
	return "", false
}

// ResolveValuationMethod suggests how an account's current value should
// be measured in RT17. A user override wins; equity and monetary
// accounts, and contra/depreciation accounts, are NA.
func ResolveValuationMethod(a model.Account, class model.Clasificacion, ov *model.AccountOverride) model.ValuationMethod {
	if ov != nil && ov.ValuationMethod != "" {
		return ov.ValuationMethod
	}
	if a.Kind == model.KindEquity {
		return model.MethodNA
	}
	for _, r := range MethodRules {
		if m, ok := r.Apply(a, class); ok {
			return m
		}
	}
	return model.MethodManual
}
