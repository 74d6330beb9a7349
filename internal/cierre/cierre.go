// Package cierre orchestrates the closing computation pipeline: raw
// accounts, ledger balances, overrides and the index table go in; draft
// vouchers and their validation report come out.
package cierre

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cierre-dev/cierre/internal/asiento"
	"github.com/cierre-dev/cierre/internal/autolot"
	"github.com/cierre-dev/cierre/internal/classify"
	"github.com/cierre-dev/cierre/internal/id"
	"github.com/cierre-dev/cierre/internal/ledger"
	"github.com/cierre-dev/cierre/internal/model"
	"github.com/cierre-dev/cierre/internal/plan"
	"github.com/cierre-dev/cierre/internal/recpam"
	"github.com/cierre-dev/cierre/internal/rt17"
	"github.com/cierre-dev/cierre/internal/rt6"
	"github.com/cierre-dev/cierre/internal/state"
)

// Input carries everything one closing run needs. Ledger may be nil,
// which disables auto-lot generation and the indirect estimator.
type Input struct {
	Snapshot     *state.Snapshot
	Plan         *plan.Service
	Ledger       ledger.Ledger
	IDs          id.Generator
	Tolerance    decimal.Decimal
	AutoLots     bool
	GroupMonthly bool
	MinLotAmount decimal.Decimal
}

// Output is the full derived value graph of one run.
type Output struct {
	Buckets   classify.Buckets
	Partidas  []model.PartidaRT6
	RT6       []rt6.ComputedPartida
	RT17      []rt17.ComputedPartida
	Indirect  *recpam.Result
	Drafts    []asiento.Borrador
	AutoStats autolot.Stats
}

// Run recomputes the whole derived graph from the snapshot. It is a
// pure derivation: nothing in the snapshot is mutated.
func Run(ctx context.Context, in Input) (Output, error) {
	var out Output

	accounts := in.Plan.All()
	overrides := in.Snapshot.AccountOverrides
	out.Buckets = classify.ClassifyAccounts(accounts, overrides)

	// Manually maintained partidas always run; auto-generated ones fill
	// in accounts that have no manual partida yet.
	out.Partidas = append(out.Partidas, in.Snapshot.PartidasRT6...)
	if in.AutoLots && in.Ledger != nil {
		generated, stats, err := autolot.Generate(ctx, accounts, overrides, in.Ledger, in.IDs, autolot.Options{
			PeriodStart:  in.Snapshot.PeriodStart,
			Cutoff:       in.Snapshot.ClosingDate,
			GroupMonthly: in.GroupMonthly,
			MinAmount:    in.MinLotAmount,
		})
		if err != nil {
			return out, fmt.Errorf("generating lots: %w", err)
		}
		out.AutoStats = stats
		manual := make(map[string]bool, len(out.Partidas))
		for _, p := range out.Partidas {
			manual[p.AccountCode] = true
		}
		for _, p := range generated {
			if !manual[p.AccountCode] {
				out.Partidas = append(out.Partidas, p)
			}
		}
	}

	table := in.Snapshot.IndexTable()
	cierrePeriodo := in.Snapshot.ClosingPeriod()
	out.RT6 = rt6.ReexpressAll(out.Partidas, table, cierrePeriodo)

	kinds := make(map[string]model.AccountKind, len(accounts))
	methods := make(map[string]model.ValuationMethod)
	for _, cp := range out.RT6 {
		acc, ok := in.Plan.Get(cp.Partida.AccountID)
		if !ok {
			if acc, ok = in.Plan.GetByCode(cp.Partida.AccountCode); !ok {
				methods[cp.Partida.ID] = model.MethodManual
				continue
			}
		}
		kinds[cp.Partida.AccountID] = acc.Kind
		var ov *model.AccountOverride
		if o, found := overrides[acc.ID]; found {
			ov = &o
		}
		class := classify.Classify(acc, ov)
		methods[cp.Partida.ID] = classify.ResolveValuationMethod(acc, class, ov)
	}
	out.RT17 = rt17.ValueAll(out.RT6, in.Snapshot.Valuations, methods)

	if in.Ledger != nil {
		res, err := recpam.Estimate(ctx, accounts, overrides, in.Ledger, table,
			in.Snapshot.StartPeriod(), cierrePeriodo)
		if err != nil {
			return out, fmt.Errorf("indirect recpam estimate: %w", err)
		}
		out.Indirect = &res
	}

	builder := asiento.NewBuilder(in.Plan, in.Snapshot.ClosingID, in.Tolerance)
	deltas := asiento.DeltasFromRT6(out.RT6, kinds)
	deltas = append(deltas, asiento.DeltasFromRT17(out.RT17, kinds)...)
	out.Drafts = builder.Build(deltas)

	return out, nil
}
