package sincro

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cierre-dev/cierre/internal/asiento"
	"github.com/cierre-dev/cierre/internal/id"
	"github.com/cierre-dev/cierre/internal/ledger"
)

// Source tags every entry this engine posts.
const Source = "cierre"

// Syncer drives the external ledger from sync decisions.
type Syncer struct {
	ledger ledger.Ledger
	ids    id.Generator
	log    *zap.Logger
}

// NewSyncer creates a Syncer.
func NewSyncer(lg ledger.Ledger, ids id.Generator, log *zap.Logger) *Syncer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Syncer{ledger: lg, ids: ids, log: log}
}

// Result summarizes one sync pass.
type Result struct {
	Created   int
	Updated   int
	Unchanged int
	Skipped   int // invalid drafts never reach the ledger
}

// Sync classifies the drafts against a single snapshot of already-posted
// entries and then creates or updates one ledger entry per voucher key.
// ENVIADO drafts are untouched, which makes re-running the pass a no-op.
func (s *Syncer) Sync(ctx context.Context, closingID string, drafts []asiento.Borrador, postingDate time.Time, memo string) (Result, []Decision, error) {
	snapshot, err := s.ledger.EntriesByClosing(ctx, closingID)
	if err != nil {
		return Result{}, nil, fmt.Errorf("snapshotting posted entries: %w", err)
	}

	decisions := Classify(drafts, snapshot, postingDate, memo)

	var res Result
	for _, dec := range decisions {
		if !dec.Draft.IsValid {
			res.Skipped++
			s.log.Warn("skipping unbalanced draft",
				zap.String("voucher_key", dec.Draft.Key))
			continue
		}

		switch dec.Status {
		case Enviado:
			res.Unchanged++
		case Pendiente:
			entry := s.toEntry(s.ids.NewID(), closingID, dec, postingDate, memo)
			if _, err := s.ledger.CreateEntry(ctx, entry); err != nil {
				return res, decisions, fmt.Errorf("creating entry %s: %w", dec.Draft.Key, err)
			}
			res.Created++
		case Desactualizado:
			entry := s.toEntry(dec.Existing.ID, closingID, dec, postingDate, memo)
			if err := s.ledger.UpdateEntry(ctx, entry); err != nil {
				return res, decisions, fmt.Errorf("updating entry %s: %w", dec.Draft.Key, err)
			}
			res.Updated++
		}
	}

	s.log.Info("sync pass finished",
		zap.String("closing_id", closingID),
		zap.Int("created", res.Created),
		zap.Int("updated", res.Updated),
		zap.Int("unchanged", res.Unchanged),
		zap.Int("skipped", res.Skipped))
	return res, decisions, nil
}

func (s *Syncer) toEntry(entryID, closingID string, dec Decision, postingDate time.Time, memo string) ledger.PostedEntry {
	lines := make([]ledger.PostedLine, 0, len(dec.Draft.Lineas))
	for _, l := range dec.Draft.Lineas {
		lines = append(lines, ledger.PostedLine{
			AccountID:   l.AccountID,
			AccountCode: l.CuentaCodigo,
			Debe:        l.Debe.Round(2),
			Haber:       l.Haber.Round(2),
		})
	}
	return ledger.PostedEntry{
		ID:   entryID,
		Date: postingDate,
		Memo: memo,
		Meta: ledger.EntryMetadata{
			Source:      Source,
			ClosingID:   closingID,
			VoucherKey:  dec.Draft.Key,
			VoucherHash: dec.Hash,
		},
		Lines: lines,
	}
}
