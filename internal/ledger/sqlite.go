package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS movimientos (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	account_id TEXT NOT NULL,
	date TEXT NOT NULL,
	debit TEXT NOT NULL,
	credit TEXT NOT NULL,
	balance TEXT NOT NULL,
	memo TEXT
);
CREATE INDEX IF NOT EXISTS idx_movimientos_account_date ON movimientos(account_id, date);

CREATE TABLE IF NOT EXISTS asientos (
	id TEXT PRIMARY KEY,
	date TEXT NOT NULL,
	memo TEXT,
	source TEXT,
	closing_id TEXT,
	voucher_key TEXT,
	voucher_hash TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_asientos_voucher_key
	ON asientos(voucher_key) WHERE voucher_key <> '';

CREATE TABLE IF NOT EXISTS asiento_lineas (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	asiento_id TEXT NOT NULL,
	account_id TEXT NOT NULL,
	account_code TEXT,
	debe TEXT NOT NULL,
	haber TEXT NOT NULL,
	FOREIGN KEY(asiento_id) REFERENCES asientos(id)
);
CREATE INDEX IF NOT EXISTS idx_asiento_lineas_asiento ON asiento_lineas(asiento_id);
`

const dateFormat = "2006-01-02"

// SQLiteStore implements Ledger over a local SQLite database.
type SQLiteStore struct {
	db  *sql.DB
	log *zap.Logger
}

// OpenSQLite opens (creating if needed) a SQLite-backed ledger.
func OpenSQLite(path string, log *zap.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening ledger db %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating ledger db: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &SQLiteStore{db: db, log: log}, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error { return s.db.Close() }

// AddMovement records a raw movement; used when seeding the ledger from
// an external source.
func (s *SQLiteStore) AddMovement(ctx context.Context, accountID string, m Movement) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO movimientos (account_id, date, debit, credit, balance, memo) VALUES (?, ?, ?, ?, ?, ?)`,
		accountID, m.Date.Format(dateFormat), m.Debit.String(), m.Credit.String(), m.Balance.String(), m.Memo)
	if err != nil {
		return fmt.Errorf("inserting movement: %w", err)
	}
	return nil
}

// BalanceAsOf returns the running balance of the last movement on or
// before cutoff, or zero if the account has no movements by then.
func (s *SQLiteStore) BalanceAsOf(ctx context.Context, accountID string, cutoff time.Time) (decimal.Decimal, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT balance FROM movimientos WHERE account_id = ? AND date <= ? ORDER BY date DESC, id DESC LIMIT 1`,
		accountID, cutoff.Format(dateFormat))
	var raw string
	switch err := row.Scan(&raw); err {
	case nil:
	case sql.ErrNoRows:
		return decimal.Zero, nil
	default:
		return decimal.Zero, fmt.Errorf("querying balance of %s: %w", accountID, err)
	}
	bal, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing balance %q: %w", raw, err)
	}
	return bal, nil
}

// Movements returns the account's movements up to cutoff in date order.
func (s *SQLiteStore) Movements(ctx context.Context, accountID string, cutoff time.Time) ([]Movement, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT date, debit, credit, balance, memo FROM movimientos
		 WHERE account_id = ? AND date <= ? ORDER BY date, id`,
		accountID, cutoff.Format(dateFormat))
	if err != nil {
		return nil, fmt.Errorf("querying movements of %s: %w", accountID, err)
	}
	defer rows.Close()

	var out []Movement
	for rows.Next() {
		var dateRaw, debitRaw, creditRaw, balanceRaw string
		var memo sql.NullString
		if err := rows.Scan(&dateRaw, &debitRaw, &creditRaw, &balanceRaw, &memo); err != nil {
			return nil, fmt.Errorf("scanning movement: %w", err)
		}
		m, err := parseMovement(dateRaw, debitRaw, creditRaw, balanceRaw, memo.String)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func parseMovement(dateRaw, debitRaw, creditRaw, balanceRaw, memo string) (Movement, error) {
	date, err := time.Parse(dateFormat, dateRaw)
	if err != nil {
		return Movement{}, fmt.Errorf("parsing movement date %q: %w", dateRaw, err)
	}
	debit, err := decimal.NewFromString(debitRaw)
	if err != nil {
		return Movement{}, fmt.Errorf("parsing debit %q: %w", debitRaw, err)
	}
	credit, err := decimal.NewFromString(creditRaw)
	if err != nil {
		return Movement{}, fmt.Errorf("parsing credit %q: %w", creditRaw, err)
	}
	balance, err := decimal.NewFromString(balanceRaw)
	if err != nil {
		return Movement{}, fmt.Errorf("parsing balance %q: %w", balanceRaw, err)
	}
	return Movement{Date: date, Debit: debit, Credit: credit, Balance: balance, Memo: memo}, nil
}

// CreateEntry persists a new entry with its lines in one transaction.
func (s *SQLiteStore) CreateEntry(ctx context.Context, e PostedEntry) (string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO asientos (id, date, memo, source, closing_id, voucher_key, voucher_hash) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Date.Format(dateFormat), e.Memo, e.Meta.Source, e.Meta.ClosingID, e.Meta.VoucherKey, e.Meta.VoucherHash); err != nil {
		return "", fmt.Errorf("inserting entry %s: %w", e.Meta.VoucherKey, err)
	}
	if err := insertLines(ctx, tx, e.ID, e.Lines); err != nil {
		return "", err
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing entry: %w", err)
	}
	s.log.Info("ledger entry created",
		zap.String("id", e.ID),
		zap.String("voucher_key", e.Meta.VoucherKey))
	return e.ID, nil
}

// UpdateEntry replaces the lines, date, memo and hash of an existing entry.
func (s *SQLiteStore) UpdateEntry(ctx context.Context, e PostedEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE asientos SET date = ?, memo = ?, voucher_hash = ? WHERE id = ?`,
		e.Date.Format(dateFormat), e.Memo, e.Meta.VoucherHash, e.ID)
	if err != nil {
		return fmt.Errorf("updating entry %s: %w", e.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("updating entry %s: not found", e.ID)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM asiento_lineas WHERE asiento_id = ?`, e.ID); err != nil {
		return fmt.Errorf("clearing lines of %s: %w", e.ID, err)
	}
	if err := insertLines(ctx, tx, e.ID, e.Lines); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing update: %w", err)
	}
	s.log.Info("ledger entry updated",
		zap.String("id", e.ID),
		zap.String("voucher_key", e.Meta.VoucherKey))
	return nil
}

func insertLines(ctx context.Context, tx *sql.Tx, entryID string, lines []PostedLine) error {
	for _, l := range lines {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO asiento_lineas (asiento_id, account_id, account_code, debe, haber) VALUES (?, ?, ?, ?, ?)`,
			entryID, l.AccountID, l.AccountCode, l.Debe.String(), l.Haber.String()); err != nil {
			return fmt.Errorf("inserting line for %s: %w", entryID, err)
		}
	}
	return nil
}

// EntriesByClosing snapshots every entry tagged with the closing id.
func (s *SQLiteStore) EntriesByClosing(ctx context.Context, closingID string) ([]PostedEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, date, memo, source, closing_id, voucher_key, voucher_hash FROM asientos WHERE closing_id = ? ORDER BY voucher_key`,
		closingID)
	if err != nil {
		return nil, fmt.Errorf("querying entries for closing %s: %w", closingID, err)
	}
	defer rows.Close()

	var out []PostedEntry
	for rows.Next() {
		var e PostedEntry
		var dateRaw string
		var memo sql.NullString
		if err := rows.Scan(&e.ID, &dateRaw, &memo, &e.Meta.Source, &e.Meta.ClosingID, &e.Meta.VoucherKey, &e.Meta.VoucherHash); err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}
		e.Memo = memo.String
		e.Date, err = time.Parse(dateFormat, dateRaw)
		if err != nil {
			return nil, fmt.Errorf("parsing entry date %q: %w", dateRaw, err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		lines, err := s.entryLines(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Lines = lines
	}
	return out, nil
}

func (s *SQLiteStore) entryLines(ctx context.Context, entryID string) ([]PostedLine, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT account_id, account_code, debe, haber FROM asiento_lineas WHERE asiento_id = ? ORDER BY id`,
		entryID)
	if err != nil {
		return nil, fmt.Errorf("querying lines of %s: %w", entryID, err)
	}
	defer rows.Close()

	var out []PostedLine
	for rows.Next() {
		var l PostedLine
		var debeRaw, haberRaw string
		var code sql.NullString
		if err := rows.Scan(&l.AccountID, &code, &debeRaw, &haberRaw); err != nil {
			return nil, fmt.Errorf("scanning line: %w", err)
		}
		l.AccountCode = code.String
		if l.Debe, err = decimal.NewFromString(debeRaw); err != nil {
			return nil, fmt.Errorf("parsing debe %q: %w", debeRaw, err)
		}
		if l.Haber, err = decimal.NewFromString(haberRaw); err != nil {
			return nil, fmt.Errorf("parsing haber %q: %w", haberRaw, err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
