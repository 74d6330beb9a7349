// Package asiento turns signed RT6/RT17 adjustment deltas into balanced
// draft journal vouchers ready for posting.
package asiento

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cierre-dev/cierre/internal/model"
	"github.com/cierre-dev/cierre/internal/rt17"
	"github.com/cierre-dev/cierre/internal/rt6"
)

// Tipo selects the adjustment method a voucher comes from.
type Tipo string

const (
	TipoRT6  Tipo = "RT6"
	TipoRT17 Tipo = "RT17"
)

// Lado is the side of a journal line.
type Lado string

const (
	Debe  Lado = "DEBE"
	Haber Lado = "HABER"
)

func opposite(l Lado) Lado {
	if l == Debe {
		return Haber
	}
	return Debe
}

// Linea is one line of a draft voucher. Exactly one of Debe/Haber is
// non-zero; both are non-negative and rounded to cents.
type Linea struct {
	AccountID    string
	CuentaCodigo string
	CuentaNombre string
	Debe         decimal.Decimal
	Haber        decimal.Decimal
}

// Borrador is a draft voucher. IsValid holds exactly when debits equal
// credits and the total is positive.
type Borrador struct {
	Numero            int
	Key               string
	Descripcion       string
	Lineas            []Linea
	Tipo              Tipo
	TotalDebe         decimal.Decimal
	TotalHaber        decimal.Decimal
	Warning           string
	IsValid           bool
	CapitalRedirected bool
}

// Delta is one account-level adjustment feeding the builder. Monto is
// the signed delta (RT6 recpam or RT17 holding result). SignedNet marks
// amounts that are signed net-movement figures rather than stock
// balances; those are re-expressed onto the account's normal side
// before the direction is derived.
type Delta struct {
	AccountID  string
	CuentaCode string
	CuentaName string
	Kind       model.AccountKind
	Monto      decimal.Decimal
	Tipo       Tipo
	SignedNet  bool
}

// DeltasFromRT6 extracts voucher deltas from reexpressed partidas.
// Partidas in error or with a zero delta contribute nothing.
func DeltasFromRT6(computed []rt6.ComputedPartida, kinds map[string]model.AccountKind) []Delta {
	var out []Delta
	for _, cp := range computed {
		if cp.Status == rt6.StatusError || cp.TotalRecpam.IsZero() {
			continue
		}
		out = append(out, Delta{
			AccountID:  cp.Partida.AccountID,
			CuentaCode: cp.Partida.AccountCode,
			CuentaName: cp.Partida.AccountName,
			Kind:       kinds[cp.Partida.AccountID],
			Monto:      cp.TotalRecpam,
			Tipo:       TipoRT6,
			SignedNet:  cp.Partida.ProfileType == model.ProfileFlujo,
		})
	}
	return out
}

// DeltasFromRT17 extracts voucher deltas from valued partidas. Only
// completed valuations with a non-zero holding result qualify.
func DeltasFromRT17(valued []rt17.ComputedPartida, kinds map[string]model.AccountKind) []Delta {
	var out []Delta
	for _, vp := range valued {
		if vp.Status != model.ValDone || vp.ResTenencia.IsZero() {
			continue
		}
		out = append(out, Delta{
			AccountID:  vp.RT6.Partida.AccountID,
			CuentaCode: vp.RT6.Partida.AccountCode,
			CuentaName: vp.RT6.Partida.AccountName,
			Kind:       kinds[vp.RT6.Partida.AccountID],
			Monto:      vp.ResTenencia,
			Tipo:       TipoRT17,
			SignedNet:  vp.RT6.Partida.ProfileType == model.ProfileFlujo,
		})
	}
	return out
}

// normalSide is the side an account customarily carries its balance on.
// When the kind is unknown the plan-code prefix decides: 1 (activo) and
// 5 (gastos) are debit-normal, 2/3/4 credit-normal.
func normalSide(kind model.AccountKind, code string) Lado {
	switch kind {
	case model.KindAsset, model.KindExpense:
		return Debe
	case model.KindLiability, model.KindEquity, model.KindIncome:
		return Haber
	}
	switch {
	case strings.HasPrefix(code, "1"), strings.HasPrefix(code, "5"):
		return Debe
	default:
		return Haber
	}
}

// direction resolves which side the item line takes and therefore which
// bucket the delta falls in. The contra takes the opposite side.
func direction(d Delta) (lineSide Lado, monto decimal.Decimal) {
	normal := normalSide(d.Kind, d.CuentaCode)
	monto = d.Monto
	if d.SignedNet && normal == Haber {
		monto = monto.Neg()
	}
	if monto.IsNegative() {
		return opposite(normal), monto.Abs()
	}
	return normal, monto.Abs()
}
