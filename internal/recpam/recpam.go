// Package recpam estimates the inflation result on the net monetary
// position month by month, independently of the lot-based method, as a
// cross-check of the RT6 totals.
package recpam

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cierre-dev/cierre/internal/classify"
	"github.com/cierre-dev/cierre/internal/indices"
	"github.com/cierre-dev/cierre/internal/ledger"
	"github.com/cierre-dev/cierre/internal/model"
)

// MonthResult is the monetary exposure of one calendar month.
type MonthResult struct {
	Periodo      indices.Periodo
	Activos      decimal.Decimal // monetary assets at month-end
	Pasivos      decimal.Decimal // monetary liabilities at month-end
	PMN          decimal.Decimal // net monetary position
	Coef         decimal.Decimal // month vs closing coefficient
	Recpam       decimal.Decimal
	MissingIndex bool
}

// Result is the indirect estimate over the whole period.
type Result struct {
	Months             []MonthResult
	Total              decimal.Decimal
	InflacionPeriodo   decimal.Decimal // closing/start - 1, zero if either index missing
	InflacionUltimoMes decimal.Decimal
	MissingPeriods     []indices.Periodo
}

var one = decimal.NewFromInt(1)

// Estimate walks every month from start to cierre, sums absolute
// balances of monetary accounts split by asset/liability, and applies
// the month-to-closing coefficient. A positive net-asset position loses
// value under inflation, hence the sign flip. Months without an index
// are reported, not fatal.
func Estimate(ctx context.Context, accounts []model.Account, overrides map[string]model.AccountOverride, lg ledger.Ledger, table *indices.Table, start, cierre indices.Periodo) (Result, error) {
	var res Result

	monetary := monetaryAccounts(accounts, overrides)

	for _, p := range indices.MonthsBetween(start, cierre) {
		monthEnd := p.Time().AddDate(0, 1, -1)

		activos := decimal.Zero
		pasivos := decimal.Zero
		for _, a := range monetary {
			bal, err := lg.BalanceAsOf(ctx, a.ID, monthEnd)
			if err != nil {
				return Result{}, fmt.Errorf("balance of %s at %s: %w", a.Code, p, err)
			}
			if a.Kind == model.KindAsset {
				activos = activos.Add(bal.Abs())
			} else {
				pasivos = pasivos.Add(bal.Abs())
			}
		}

		pmn := activos.Sub(pasivos)
		coef := table.Coef(cierre, p)

		m := MonthResult{
			Periodo:      p,
			Activos:      activos,
			Pasivos:      pasivos,
			PMN:          pmn,
			Coef:         coef.Value,
			MissingIndex: !coef.Complete(),
		}
		m.Recpam = pmn.Mul(coef.Value.Sub(one)).Neg()

		res.Months = append(res.Months, m)
		res.Total = res.Total.Add(m.Recpam)
		if m.MissingIndex {
			res.MissingPeriods = append(res.MissingPeriods, p)
		}
	}

	res.InflacionPeriodo = rate(table, cierre, start)
	if n := len(res.Months); n >= 2 {
		res.InflacionUltimoMes = rate(table, cierre, res.Months[n-2].Periodo)
	}
	return res, nil
}

// rate returns to/from - 1, or zero when either index is missing.
func rate(table *indices.Table, to, from indices.Periodo) decimal.Decimal {
	c := table.Coef(to, from)
	if !c.Complete() {
		return decimal.Zero
	}
	return c.Value.Sub(one)
}

// monetaryAccounts keeps imputable monetary accounts, dropping headers,
// excluded accounts, and equity/result kinds.
func monetaryAccounts(accounts []model.Account, overrides map[string]model.AccountOverride) []model.Account {
	var out []model.Account
	for _, a := range accounts {
		if a.IsHeader {
			continue
		}
		switch a.Kind {
		case model.KindEquity, model.KindIncome, model.KindExpense:
			continue
		}
		var ov *model.AccountOverride
		if o, ok := overrides[a.ID]; ok {
			if o.Exclude {
				continue
			}
			ov = &o
		}
		if classify.Classify(a, ov) != model.Monetaria {
			continue
		}
		out = append(out, a)
	}
	return out
}
