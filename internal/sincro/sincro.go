// Package sincro makes voucher posting idempotent: it hashes draft
// vouchers deterministically and decides, against a snapshot of the
// external ledger, which drafts are new, already posted, or stale.
package sincro

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/cierre-dev/cierre/internal/asiento"
	"github.com/cierre-dev/cierre/internal/ledger"
)

// Status is the sync classification of one draft voucher.
type Status string

const (
	Pendiente      Status = "PENDIENTE"      // never posted
	Enviado        Status = "ENVIADO"        // posted, hash matches
	Desactualizado Status = "DESACTUALIZADO" // posted, recomputation changed it
)

// Hash returns a deterministic content hash of a draft: the normalized
// line set (account id, debit/credit in cents) sorted by account id,
// plus the posting date and memo. Two drafts with the same economic
// content always hash equal.
func Hash(b asiento.Borrador, postingDate time.Time, memo string) string {
	type normLine struct {
		account string
		debe    string
		haber   string
	}
	lines := make([]normLine, 0, len(b.Lineas))
	for _, l := range b.Lineas {
		account := l.AccountID
		if account == "" {
			account = l.CuentaCodigo
		}
		lines = append(lines, normLine{
			account: account,
			debe:    l.Debe.Round(2).StringFixed(2),
			haber:   l.Haber.Round(2).StringFixed(2),
		})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].account < lines[j].account })

	var sb strings.Builder
	sb.WriteString(postingDate.Format("2006-01-02"))
	sb.WriteByte('|')
	sb.WriteString(memo)
	for _, l := range lines {
		fmt.Fprintf(&sb, "|%s;%s;%s", l.account, l.debe, l.haber)
	}

	sum := sha256.Sum256([]byte(sb.String()))
	return hex.EncodeToString(sum[:])
}

// Decision pairs a draft with its sync status and, when already posted,
// the persisted entry it matched.
type Decision struct {
	Draft    asiento.Borrador
	Hash     string
	Status   Status
	Existing *ledger.PostedEntry
}

// Classify decides the status of each draft against a one-shot snapshot
// of persisted entries keyed by voucher key.
func Classify(drafts []asiento.Borrador, snapshot []ledger.PostedEntry, postingDate time.Time, memo string) []Decision {
	byKey := make(map[string]ledger.PostedEntry, len(snapshot))
	for _, e := range snapshot {
		byKey[e.Meta.VoucherKey] = e
	}

	out := make([]Decision, 0, len(drafts))
	for _, d := range drafts {
		dec := Decision{Draft: d, Hash: Hash(d, postingDate, memo), Status: Pendiente}
		if e, ok := byKey[d.Key]; ok {
			existing := e
			dec.Existing = &existing
			if e.Meta.VoucherHash == dec.Hash {
				dec.Status = Enviado
			} else {
				dec.Status = Desactualizado
			}
		}
		out = append(out, dec)
	}
	return out
}
