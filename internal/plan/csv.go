package plan

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/cierre-dev/cierre/internal/model"
)

const (
	numFields   = 8
	colID       = 0
	colCode     = 1
	colName     = 2
	colKind     = 3
	colGroup    = 4
	colHeader   = 5
	colContra   = 6
	colParentID = 7
)

// ReadAccounts reads plan-de-cuentas.csv.
func ReadAccounts(r io.Reader) ([]model.Account, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading plan CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var accounts []model.Account
	for i, rec := range records[1:] {
		acct, err := UnmarshalAccount(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		accounts = append(accounts, acct)
	}
	return accounts, nil
}

// WriteAccounts writes plan-de-cuentas.csv.
func WriteAccounts(w io.Writer, accounts []model.Account) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"account_id", "code", "name", "kind", "statement_group", "is_header", "is_contra", "parent_id"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, acct := range accounts {
		if err := cw.Write(MarshalAccount(acct)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// MarshalAccount converts an Account to a CSV row.
func MarshalAccount(a model.Account) []string {
	row := make([]string, numFields)
	row[colID] = a.ID
	row[colCode] = a.Code
	row[colName] = a.Name
	row[colKind] = string(a.Kind)
	row[colGroup] = string(a.Group)
	row[colHeader] = strconv.FormatBool(a.IsHeader)
	row[colContra] = strconv.FormatBool(a.IsContra)
	row[colParentID] = a.ParentID
	return row
}

// UnmarshalAccount converts a CSV row to an Account.
func UnmarshalAccount(record []string) (model.Account, error) {
	if len(record) != numFields {
		return model.Account{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	isHeader, err := parseBool(record[colHeader])
	if err != nil {
		return model.Account{}, fmt.Errorf("parsing is_header %q: %w", record[colHeader], err)
	}
	isContra, err := parseBool(record[colContra])
	if err != nil {
		return model.Account{}, fmt.Errorf("parsing is_contra %q: %w", record[colContra], err)
	}

	return model.Account{
		ID:       record[colID],
		Code:     record[colCode],
		Name:     record[colName],
		Kind:     model.AccountKind(record[colKind]),
		Group:    model.StatementGroup(record[colGroup]),
		IsHeader: isHeader,
		IsContra: isContra,
		ParentID: record[colParentID],
	}, nil
}

func parseBool(s string) (bool, error) {
	if s == "" {
		return false, nil
	}
	return strconv.ParseBool(s)
}
