// Package auditlog keeps a CSV trail of every action the sync layer
// performs against the external ledger.
package auditlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Entry is one row in the audit log.
type Entry struct {
	Timestamp  time.Time
	Action     string // created | updated | unchanged | skipped
	ClosingID  string
	VoucherKey string
	Hash       string
	Detail     string
}

// Header is the CSV header for auditoria.csv.
const Header = "timestamp,action,closing_id,voucher_key,hash,detail"

const (
	numFields     = 6
	logFile       = "auditoria.csv"
	colTimestamp  = 0
	colAction     = 1
	colClosingID  = 2
	colVoucherKey = 3
	colHash       = 4
	colDetail     = 5
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colAction] = e.Action
	row[colClosingID] = e.ClosingID
	row[colVoucherKey] = e.VoucherKey
	row[colHash] = e.Hash
	row[colDetail] = e.Detail
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}
	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}
	return Entry{
		Timestamp:  ts,
		Action:     record[colAction],
		ClosingID:  record[colClosingID],
		VoucherKey: record[colVoucherKey],
		Hash:       record[colHash],
		Detail:     record[colDetail],
	}, nil
}

// Append writes entries to <workDir>/auditoria.csv, creating the file
// with its header on first use.
func Append(workDir string, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}
	path := filepath.Join(workDir, logFile)

	isNew := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		isNew = true
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening audit log: %w", err)
	}
	defer f.Close()

	if isNew {
		if _, err := fmt.Fprintln(f, Header); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	cw := csv.NewWriter(f)
	for _, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing audit row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read loads the whole audit log from workDir. A missing file is an
// empty log.
func Read(workDir string) ([]Entry, error) {
	f, err := os.Open(filepath.Join(workDir, logFile))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening audit log: %w", err)
	}
	defer f.Close()
	return readAll(f)
}

func readAll(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading audit log: %w", err)
	}

	var entries []Entry
	for i, rec := range records {
		if i == 0 && strings.Join(rec, ",") == Header {
			continue
		}
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
