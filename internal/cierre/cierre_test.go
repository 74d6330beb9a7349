package cierre

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cierre-dev/cierre/internal/asiento"
	"github.com/cierre-dev/cierre/internal/id"
	"github.com/cierre-dev/cierre/internal/indices"
	"github.com/cierre-dev/cierre/internal/ledger"
	"github.com/cierre-dev/cierre/internal/model"
	"github.com/cierre-dev/cierre/internal/plan"
	"github.com/cierre-dev/cierre/internal/rt6"
	"github.com/cierre-dev/cierre/internal/state"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

// fakeLedger serves canned per-account histories.
type fakeLedger struct {
	movements map[string][]ledger.Movement
}

func (f *fakeLedger) BalanceAsOf(_ context.Context, accountID string, cutoff time.Time) (decimal.Decimal, error) {
	balance := decimal.Zero
	for _, m := range f.movements[accountID] {
		if m.Date.After(cutoff) {
			break
		}
		balance = m.Balance
	}
	return balance, nil
}

func (f *fakeLedger) Movements(_ context.Context, accountID string, cutoff time.Time) ([]ledger.Movement, error) {
	var out []ledger.Movement
	for _, m := range f.movements[accountID] {
		if m.Date.After(cutoff) {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (f *fakeLedger) CreateEntry(context.Context, ledger.PostedEntry) (string, error) {
	return "", nil
}

func (f *fakeLedger) UpdateEntry(context.Context, ledger.PostedEntry) error { return nil }

func (f *fakeLedger) EntriesByClosing(context.Context, string) ([]ledger.PostedEntry, error) {
	return nil, nil
}

func testSnapshot() *state.Snapshot {
	s := state.New("cierre-2025-12", date("2025-01-01"), date("2025-12-31"))
	s.Indices = []indices.IndexRow{
		{Period: "2024-12", Value: dec("1000")},
		{Period: "2025-12", Value: dec("1500")},
	}
	s.PartidasRT6 = []model.PartidaRT6{{
		ID:          "p1",
		AccountID:   "1.5.01",
		AccountCode: "1.5.01",
		AccountName: "Rodados",
		Group:       model.GrupoActivo,
		ProfileType: model.ProfileStock,
		Items: []model.LotRT6{
			{ID: "l1", OriginDate: date("2024-12-15"), BaseAmount: dec("100000")},
		},
	}}
	return s
}

func TestRunManualPartida(t *testing.T) {
	out, err := Run(context.Background(), Input{
		Snapshot: testSnapshot(),
		Plan:     plan.NewService(plan.DefaultPlan()),
		IDs:      &id.Sequential{Prefix: "t"},
	})
	require.NoError(t, err)

	require.Len(t, out.RT6, 1)
	cp := out.RT6[0]
	assert.Equal(t, rt6.StatusOK, cp.Status)
	assert.True(t, cp.TotalHomog.Equal(dec("150000")))
	assert.True(t, cp.TotalRecpam.Equal(dec("50000")))

	// RT17 stays pending without a valuation; the RT6 gain still becomes
	// one credit voucher against RECPAM.
	require.Len(t, out.RT17, 1)
	assert.Equal(t, model.ValPending, out.RT17[0].Status)

	require.Len(t, out.Drafts, 1)
	d := out.Drafts[0]
	assert.Equal(t, "cierre-2025-12:RT6_HABER", d.Key)
	assert.True(t, d.IsValid)
	require.Len(t, d.Lineas, 2)
	assert.Equal(t, "1.5.01", d.Lineas[0].CuentaCodigo)
	assert.True(t, d.Lineas[0].Debe.Equal(dec("50000")))
	assert.Equal(t, "4.6.05", d.Lineas[1].CuentaCodigo)
	assert.True(t, d.Lineas[1].Haber.Equal(dec("50000")))

	assert.Nil(t, out.Indirect)
}

func TestRunWithRT17Valuation(t *testing.T) {
	snap := testSnapshot()
	snap.Valuations["p1"] = model.RT17Valuation{
		RT6ItemID:          "p1",
		ManualCurrentValue: dec("180000"),
	}

	out, err := Run(context.Background(), Input{
		Snapshot: snap,
		Plan:     plan.NewService(plan.DefaultPlan()),
		IDs:      &id.Sequential{Prefix: "t"},
	})
	require.NoError(t, err)

	require.Len(t, out.RT17, 1)
	vp := out.RT17[0]
	assert.Equal(t, model.ValDone, vp.Status)
	// Rodados resolves to REVALUO through its rubro.
	assert.Equal(t, model.MethodRevaluo, vp.Method)
	assert.True(t, vp.ResTenencia.Equal(dec("30000")))

	// One RT6 voucher plus one RT17 voucher, both credit-side.
	require.Len(t, out.Drafts, 2)
	assert.Equal(t, asiento.TipoRT6, out.Drafts[0].Tipo)
	assert.Equal(t, asiento.TipoRT17, out.Drafts[1].Tipo)
	assert.True(t, out.Drafts[1].TotalHaber.Equal(dec("30000")))
}

func TestRunAutoLots(t *testing.T) {
	snap := testSnapshot()
	lg := &fakeLedger{movements: map[string][]ledger.Movement{
		// 1.4.01 Mercaderías has ledger history but no manual partida.
		"1.4.01": {
			{Date: date("2024-10-01"), Debit: dec("500"), Balance: dec("500"), Memo: "compra"},
			{Date: date("2025-06-10"), Debit: dec("200"), Balance: dec("700"), Memo: "compra"},
		},
		// 1.5.01 has history too, but the manual partida wins.
		"1.5.01": {
			{Date: date("2025-02-01"), Debit: dec("99999"), Balance: dec("99999")},
		},
	}}

	out, err := Run(context.Background(), Input{
		Snapshot: snap,
		Plan:     plan.NewService(plan.DefaultPlan()),
		Ledger:   lg,
		IDs:      &id.Sequential{Prefix: "t"},
		AutoLots: true,
	})
	require.NoError(t, err)

	require.Len(t, out.Partidas, 2)
	assert.Equal(t, "1.5.01", out.Partidas[0].AccountCode)
	require.Len(t, out.Partidas[0].Items, 1) // manual lot, not the ledger one
	assert.Equal(t, "1.4.01", out.Partidas[1].AccountCode)
	require.Len(t, out.Partidas[1].Items, 2)
	// Stats count what was generated, before manual precedence filtering.
	assert.Equal(t, 2, out.AutoStats.Partidas)

	require.NotNil(t, out.Indirect)
	assert.Len(t, out.Indirect.Months, 12)
}

func TestRunClassifiesPlan(t *testing.T) {
	out, err := Run(context.Background(), Input{
		Snapshot: testSnapshot(),
		Plan:     plan.NewService(plan.DefaultPlan()),
		IDs:      &id.Sequential{Prefix: "t"},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, out.Buckets.Monetaria)
	assert.NotEmpty(t, out.Buckets.NoMonetaria)
	assert.NotEmpty(t, out.Buckets.FxProtegida)
	assert.Empty(t, out.Buckets.Indefinida)
}

func TestValidateCleanRun(t *testing.T) {
	out, err := Run(context.Background(), Input{
		Snapshot: testSnapshot(),
		Plan:     plan.NewService(plan.DefaultPlan()),
		IDs:      &id.Sequential{Prefix: "t"},
	})
	require.NoError(t, err)

	rep := ValidateDraftsForSubmission(out)
	assert.True(t, rep.OK())
	// The pending RT17 valuation is a warning, never a blocker.
	require.NotEmpty(t, rep.Warnings)
	assert.Contains(t, rep.Warnings[0], "pendiente")
}

func TestValidateMissingClosingIndex(t *testing.T) {
	snap := testSnapshot()
	snap.Indices = snap.Indices[:1] // drop 2025-12

	out, err := Run(context.Background(), Input{
		Snapshot: snap,
		Plan:     plan.NewService(plan.DefaultPlan()),
		IDs:      &id.Sequential{Prefix: "t"},
	})
	require.NoError(t, err)

	rep := ValidateDraftsForSubmission(out)
	assert.False(t, rep.OK())
	assert.Contains(t, rep.Errors[0], "no hay asientos")
	assert.Contains(t, rep.Errors[1], "sin índice del período de cierre")
}

func TestValidateUnclassifiedAccount(t *testing.T) {
	accounts := append(plan.DefaultPlan(), model.Account{
		ID: "x", Code: "8.9.99", Name: "Cuenta puente", Kind: model.KindAsset,
	})

	out, err := Run(context.Background(), Input{
		Snapshot: testSnapshot(),
		Plan:     plan.NewService(accounts),
		IDs:      &id.Sequential{Prefix: "t"},
	})
	require.NoError(t, err)

	rep := ValidateDraftsForSubmission(out)
	assert.False(t, rep.OK())
	assert.Contains(t, rep.Errors[0], "8.9.99")
}

func TestValidateMissingOriginWarns(t *testing.T) {
	snap := testSnapshot()
	snap.PartidasRT6[0].Items = append(snap.PartidasRT6[0].Items, model.LotRT6{
		ID: "l2", OriginDate: date("2010-05-01"), BaseAmount: dec("10"),
	})

	out, err := Run(context.Background(), Input{
		Snapshot: snap,
		Plan:     plan.NewService(plan.DefaultPlan()),
		IDs:      &id.Sequential{Prefix: "t"},
	})
	require.NoError(t, err)

	rep := ValidateDraftsForSubmission(out)
	assert.True(t, rep.OK())

	found := false
	for _, w := range rep.Warnings {
		if strings.Contains(w, "sin índice de origen") {
			found = true
		}
	}
	assert.True(t, found)
}
