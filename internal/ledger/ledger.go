// Package ledger defines the external general-ledger collaborator: the
// closing engine reads balances and movement history from it and posts
// draft vouchers through it, but never owns its data.
package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Movement is one ledger movement of an account, with the running
// balance after the movement.
type Movement struct {
	Date    time.Time
	Debit   decimal.Decimal
	Credit  decimal.Decimal
	Balance decimal.Decimal
	Memo    string
}

// EntryMetadata tags a posted entry with its origin so re-running the
// closing can find entries it created earlier.
type EntryMetadata struct {
	Source      string
	ClosingID   string
	VoucherKey  string
	VoucherHash string
}

// PostedLine is one line of a posted entry.
type PostedLine struct {
	AccountID   string
	AccountCode string
	Debe        decimal.Decimal
	Haber       decimal.Decimal
}

// PostedEntry is a journal entry as persisted by the ledger.
type PostedEntry struct {
	ID    string
	Date  time.Time
	Memo  string
	Meta  EntryMetadata
	Lines []PostedLine
}

// Ledger is the narrow surface the closing engine consumes. The ledger
// owns its own write discipline: one entry per voucher key.
type Ledger interface {
	// BalanceAsOf returns the account balance at end of the cutoff day.
	BalanceAsOf(ctx context.Context, accountID string, cutoff time.Time) (decimal.Decimal, error)
	// Movements returns the account's movements up to and including the
	// cutoff day, in date order.
	Movements(ctx context.Context, accountID string, cutoff time.Time) ([]Movement, error)
	// CreateEntry persists a new entry and returns its id.
	CreateEntry(ctx context.Context, e PostedEntry) (string, error)
	// UpdateEntry replaces the lines and metadata of an existing entry.
	UpdateEntry(ctx context.Context, e PostedEntry) error
	// EntriesByClosing returns a snapshot of every entry tagged with the
	// closing id.
	EntriesByClosing(ctx context.Context, closingID string) ([]PostedEntry, error)
}
