// Package autolot derives RT6 partidas automatically from raw ledger
// movement history, so closings do not require manual lot entry.
package autolot

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cierre-dev/cierre/internal/classify"
	"github.com/cierre-dev/cierre/internal/id"
	"github.com/cierre-dev/cierre/internal/ledger"
	"github.com/cierre-dev/cierre/internal/model"
)

// Options control lot derivation for one closing run.
type Options struct {
	PeriodStart  time.Time
	Cutoff       time.Time
	GroupMonthly bool            // group in-period movements by calendar month
	MinAmount    decimal.Decimal // lots below this are dropped as noise
}

// Stats summarizes a generation run for user feedback.
type Stats struct {
	Scanned  int
	Excluded int
	Partidas int
	Lots     int
}

// Generate derives a PartidaRT6 per qualifying account. Qualifying means
// imputable (non-header), not excluded by override, classified
// non-monetary, and belonging to a balance-sheet stock group; result and
// flow accounts are skipped, since RT6 reexpresses stock only.
func Generate(ctx context.Context, accounts []model.Account, overrides map[string]model.AccountOverride, lg ledger.Ledger, gen id.Generator, opts Options) ([]model.PartidaRT6, Stats, error) {
	var stats Stats
	var out []model.PartidaRT6

	for _, a := range accounts {
		if a.IsHeader {
			continue
		}
		stats.Scanned++

		ov := overrideFor(overrides, a.ID)
		if ov != nil && ov.Exclude {
			stats.Excluded++
			continue
		}
		if classify.Classify(a, ov) != model.NoMonetaria {
			stats.Excluded++
			continue
		}
		grupo, ok := grupoFor(a.Kind)
		if !ok {
			stats.Excluded++
			continue
		}

		lots, err := deriveLots(ctx, a, ov, lg, gen, opts)
		if err != nil {
			return nil, stats, fmt.Errorf("deriving lots for %s: %w", a.Code, err)
		}
		if len(lots) == 0 {
			continue
		}

		out = append(out, model.PartidaRT6{
			ID:          gen.NewID(),
			AccountID:   a.ID,
			AccountCode: a.Code,
			AccountName: a.Name,
			Group:       grupo,
			RubroLabel:  string(a.Group),
			Items:       lots,
			ProfileType: model.ProfileStock,
		})
		stats.Partidas++
		stats.Lots += len(lots)
	}
	return out, stats, nil
}

func grupoFor(kind model.AccountKind) (model.Grupo, bool) {
	switch kind {
	case model.KindAsset:
		return model.GrupoActivo, true
	case model.KindLiability:
		return model.GrupoPasivo, true
	case model.KindEquity:
		return model.GrupoPN, true
	}
	return "", false
}

func deriveLots(ctx context.Context, a model.Account, ov *model.AccountOverride, lg ledger.Ledger, gen id.Generator, opts Options) ([]model.LotRT6, error) {
	// A manual origin date collapses the whole balance into one lot.
	if ov != nil && ov.ManualOriginDate != "" {
		origin, err := time.Parse("2006-01-02", ov.ManualOriginDate)
		if err != nil {
			return nil, fmt.Errorf("manual origin date %q: %w", ov.ManualOriginDate, err)
		}
		balance, err := lg.BalanceAsOf(ctx, a.ID, opts.Cutoff)
		if err != nil {
			return nil, err
		}
		if balance.IsZero() {
			return nil, nil
		}
		return filterMin([]model.LotRT6{{
			ID:         gen.NewID(),
			OriginDate: origin,
			BaseAmount: balance.Abs(),
			Notes:      "fecha de origen manual",
		}}, opts.MinAmount), nil
	}

	movs, err := lg.Movements(ctx, a.ID, opts.Cutoff)
	if err != nil {
		return nil, err
	}

	var lots []model.LotRT6

	// Everything before the period start collapses into an opening lot,
	// valued at the balance after the last pre-period movement.
	var opening decimal.Decimal
	var inPeriod []ledger.Movement
	for _, m := range movs {
		if m.Date.Before(opts.PeriodStart) {
			opening = m.Balance
		} else {
			inPeriod = append(inPeriod, m)
		}
	}
	if !opening.IsZero() {
		lots = append(lots, model.LotRT6{
			ID:         gen.NewID(),
			OriginDate: opts.PeriodStart,
			BaseAmount: opening.Abs(),
			Notes:      "saldo de inicio",
		})
	}

	if opts.GroupMonthly {
		lots = append(lots, monthlyLots(inPeriod, gen)...)
	} else {
		for _, m := range inPeriod {
			if m.Debit.IsZero() {
				continue
			}
			lots = append(lots, model.LotRT6{
				ID:         gen.NewID(),
				OriginDate: m.Date,
				BaseAmount: m.Debit,
				Notes:      m.Memo,
			})
		}
	}
	return filterMin(lots, opts.MinAmount), nil
}

// monthlyLots sums the debit-side increases of each calendar month into
// one lot, dated at the month's first movement.
func monthlyLots(movs []ledger.Movement, gen id.Generator) []model.LotRT6 {
	type bucket struct {
		first time.Time
		total decimal.Decimal
	}
	buckets := make(map[string]*bucket)
	var order []string
	for _, m := range movs {
		if m.Debit.IsZero() {
			continue
		}
		key := m.Date.Format("2006-01")
		b, ok := buckets[key]
		if !ok {
			b = &bucket{first: m.Date}
			buckets[key] = b
			order = append(order, key)
		}
		b.total = b.total.Add(m.Debit)
	}

	var lots []model.LotRT6
	for _, key := range order {
		b := buckets[key]
		lots = append(lots, model.LotRT6{
			ID:         gen.NewID(),
			OriginDate: b.first,
			BaseAmount: b.total,
			Notes:      "compras " + key,
		})
	}
	return lots
}

func filterMin(lots []model.LotRT6, min decimal.Decimal) []model.LotRT6 {
	if min.IsZero() {
		return lots
	}
	var out []model.LotRT6
	for _, l := range lots {
		if l.BaseAmount.LessThan(min) {
			continue
		}
		out = append(out, l)
	}
	return out
}

func overrideFor(overrides map[string]model.AccountOverride, id string) *model.AccountOverride {
	if overrides == nil {
		return nil
	}
	ov, ok := overrides[id]
	if !ok {
		return nil
	}
	return &ov
}
