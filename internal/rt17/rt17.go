// Package rt17 compares current values against the RT6 homogeneous
// baseline to derive holding results.
package rt17

import (
	"github.com/shopspring/decimal"

	"github.com/cierre-dev/cierre/internal/model"
	"github.com/cierre-dev/cierre/internal/rt6"
)

// ComputedPartida is one RT6 item valued at current worth. BaseReference
// is the locked RT6 homogeneous total; it is never derived from RT17
// inputs, which is what prevents double-counting the inflation effect.
type ComputedPartida struct {
	RT6             rt6.ComputedPartida
	Method          model.ValuationMethod
	ValCorriente    decimal.Decimal
	BaseReference   decimal.Decimal
	ResTenencia     decimal.Decimal
	Status          model.ValStatus
	UseFallbackBase bool
}

// Value derives the holding result of one reexpressed partida.
//
// Equity partidas never require a valuation: they come back as status na
// with a zero result. Foreign-currency valuations multiply each lot's
// USD amount by the closing exchange rate; manual ones take the user's
// figure. A partida whose RT6 computation failed (missing closing index)
// falls back to the unadjusted base as comparison baseline and is
// flagged UseFallbackBase.
func Value(cp rt6.ComputedPartida, val *model.RT17Valuation, method model.ValuationMethod) ComputedPartida {
	out := ComputedPartida{
		RT6:           cp,
		Method:        method,
		BaseReference: cp.TotalHomog,
		Status:        model.ValPending,
	}
	if cp.Status == rt6.StatusError {
		out.BaseReference = cp.TotalBase
		out.UseFallbackBase = true
	}

	if cp.Partida.Group == model.GrupoPN || method == model.MethodNA {
		out.Status = model.ValNA
		out.ResTenencia = decimal.Zero
		return out
	}

	switch method {
	case model.MethodFX:
		if val == nil || val.TcCierre.IsZero() {
			return out
		}
		total := decimal.Zero
		for _, lot := range cp.Partida.Items {
			total = total.Add(lot.UsdAmount.Mul(val.TcCierre))
		}
		out.ValCorriente = total
	default:
		if val == nil {
			return out
		}
		switch {
		case !val.ManualCurrentValue.IsZero():
			out.ValCorriente = val.ManualCurrentValue
		case !val.ValCorriente.IsZero():
			out.ValCorriente = val.ValCorriente
		default:
			return out
		}
	}

	out.Status = model.ValDone
	out.ResTenencia = out.ValCorriente.Sub(out.BaseReference)
	return out
}

// ValueAll values every computed partida, matching valuation records by
// partida id.
func ValueAll(computed []rt6.ComputedPartida, valuations map[string]model.RT17Valuation, methods map[string]model.ValuationMethod) []ComputedPartida {
	out := make([]ComputedPartida, 0, len(computed))
	for _, cp := range computed {
		var val *model.RT17Valuation
		if v, ok := valuations[cp.Partida.ID]; ok {
			val = &v
		}
		method := model.MethodManual
		if m, ok := methods[cp.Partida.ID]; ok {
			method = m
		}
		out = append(out, Value(cp, val, method))
	}
	return out
}
