package sincro

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cierre-dev/cierre/internal/asiento"
	"github.com/cierre-dev/cierre/internal/id"
	"github.com/cierre-dev/cierre/internal/ledger"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

var postingDate = time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)

const memo = "Ajuste por inflación cierre-2025-12"

func draft(key string, debe string) asiento.Borrador {
	return asiento.Borrador{
		Key:     key,
		Tipo:    asiento.TipoRT6,
		IsValid: true,
		Lineas: []asiento.Linea{
			{AccountID: "1.5.01", CuentaCodigo: "1.5.01", Debe: dec(debe)},
			{AccountID: "4.6.05", CuentaCodigo: "4.6.05", Haber: dec(debe)},
		},
		TotalDebe:  dec(debe),
		TotalHaber: dec(debe),
	}
}

func TestHashDeterministic(t *testing.T) {
	a := draft("k1", "50000")
	b := draft("k1", "50000")
	// Line order must not matter.
	b.Lineas[0], b.Lineas[1] = b.Lineas[1], b.Lineas[0]

	assert.Equal(t, Hash(a, postingDate, memo), Hash(b, postingDate, memo))
}

func TestHashSensitivity(t *testing.T) {
	base := Hash(draft("k1", "50000"), postingDate, memo)

	assert.NotEqual(t, base, Hash(draft("k1", "50000.01"), postingDate, memo))
	assert.NotEqual(t, base, Hash(draft("k1", "50000"), postingDate.AddDate(0, 0, 1), memo))
	assert.NotEqual(t, base, Hash(draft("k1", "50000"), postingDate, "otro memo"))

	// Equivalent cent representations hash identically.
	d := draft("k1", "50000")
	d.Lineas[0].Debe = dec("50000.000")
	assert.Equal(t, base, Hash(d, postingDate, memo))
}

func TestClassify(t *testing.T) {
	posted := draft("k1", "50000")
	snapshot := []ledger.PostedEntry{
		{ID: "e1", Meta: ledger.EntryMetadata{VoucherKey: "k1", VoucherHash: Hash(posted, postingDate, memo)}},
		{ID: "e2", Meta: ledger.EntryMetadata{VoucherKey: "k2", VoucherHash: "stale"}},
	}
	drafts := []asiento.Borrador{
		draft("k1", "50000"),
		draft("k2", "120"),
		draft("k3", "7"),
	}

	decisions := Classify(drafts, snapshot, postingDate, memo)
	require.Len(t, decisions, 3)

	assert.Equal(t, Enviado, decisions[0].Status)
	require.NotNil(t, decisions[0].Existing)
	assert.Equal(t, "e1", decisions[0].Existing.ID)

	assert.Equal(t, Desactualizado, decisions[1].Status)
	assert.Equal(t, "e2", decisions[1].Existing.ID)

	assert.Equal(t, Pendiente, decisions[2].Status)
	assert.Nil(t, decisions[2].Existing)
}

// memLedger records posted entries in memory, keyed by voucher key.
type memLedger struct {
	entries map[string]ledger.PostedEntry
	creates int
	updates int
}

func newMemLedger() *memLedger {
	return &memLedger{entries: make(map[string]ledger.PostedEntry)}
}

func (m *memLedger) BalanceAsOf(context.Context, string, time.Time) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (m *memLedger) Movements(context.Context, string, time.Time) ([]ledger.Movement, error) {
	return nil, nil
}

func (m *memLedger) CreateEntry(_ context.Context, e ledger.PostedEntry) (string, error) {
	m.creates++
	m.entries[e.Meta.VoucherKey] = e
	return e.ID, nil
}

func (m *memLedger) UpdateEntry(_ context.Context, e ledger.PostedEntry) error {
	m.updates++
	m.entries[e.Meta.VoucherKey] = e
	return nil
}

func (m *memLedger) EntriesByClosing(_ context.Context, closingID string) ([]ledger.PostedEntry, error) {
	var out []ledger.PostedEntry
	for _, e := range m.entries {
		if e.Meta.ClosingID == closingID {
			out = append(out, e)
		}
	}
	return out, nil
}

func TestSyncIdempotent(t *testing.T) {
	lg := newMemLedger()
	s := NewSyncer(lg, &id.Sequential{Prefix: "e"}, nil)
	drafts := []asiento.Borrador{draft("k1", "50000"), draft("k2", "120")}

	res, decisions, err := s.Sync(context.Background(), "cierre-2025-12", drafts, postingDate, memo)
	require.NoError(t, err)
	assert.Equal(t, Result{Created: 2}, res)
	require.Len(t, decisions, 2)
	assert.Equal(t, Pendiente, decisions[0].Status)

	// A second pass with identical drafts touches nothing.
	res, decisions, err = s.Sync(context.Background(), "cierre-2025-12", drafts, postingDate, memo)
	require.NoError(t, err)
	assert.Equal(t, Result{Unchanged: 2}, res)
	assert.Equal(t, Enviado, decisions[0].Status)
	assert.Equal(t, 2, lg.creates)
	assert.Equal(t, 0, lg.updates)
}

func TestSyncUpdatesStaleEntry(t *testing.T) {
	lg := newMemLedger()
	s := NewSyncer(lg, &id.Sequential{Prefix: "e"}, nil)

	_, _, err := s.Sync(context.Background(), "cierre-2025-12",
		[]asiento.Borrador{draft("k1", "50000")}, postingDate, memo)
	require.NoError(t, err)
	firstID := lg.entries["k1"].ID

	// The recomputed draft changed; the posted entry is rewritten in place.
	res, decisions, err := s.Sync(context.Background(), "cierre-2025-12",
		[]asiento.Borrador{draft("k1", "51000")}, postingDate, memo)
	require.NoError(t, err)
	assert.Equal(t, Result{Updated: 1}, res)
	assert.Equal(t, Desactualizado, decisions[0].Status)
	assert.Equal(t, firstID, lg.entries["k1"].ID)
	assert.True(t, lg.entries["k1"].Lines[0].Debe.Equal(dec("51000")))
}

func TestSyncSkipsInvalidDrafts(t *testing.T) {
	lg := newMemLedger()
	s := NewSyncer(lg, &id.Sequential{Prefix: "e"}, nil)

	bad := draft("k1", "50000")
	bad.IsValid = false

	res, _, err := s.Sync(context.Background(), "cierre-2025-12",
		[]asiento.Borrador{bad}, postingDate, memo)
	require.NoError(t, err)
	assert.Equal(t, Result{Skipped: 1}, res)
	assert.Equal(t, 0, lg.creates)
}
