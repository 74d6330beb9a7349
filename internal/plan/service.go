// Package plan provides read-only access to the plan de cuentas the
// closing engine works against.
package plan

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/cierre-dev/cierre/internal/model"
)

// Service provides in-memory lookup over the plan de cuentas.
type Service struct {
	accounts []model.Account
	byID     map[string]model.Account
	byCode   map[string]model.Account
}

// NewService creates a Service from a slice of accounts.
func NewService(accounts []model.Account) *Service {
	byID := make(map[string]model.Account, len(accounts))
	byCode := make(map[string]model.Account, len(accounts))
	for _, a := range accounts {
		byID[a.ID] = a
		byCode[a.Code] = a
	}
	return &Service{accounts: accounts, byID: byID, byCode: byCode}
}

// Load reads plan-de-cuentas.csv from a work dir and returns a Service.
func Load(workDir string) (*Service, error) {
	path := filepath.Join(workDir, "plan-de-cuentas.csv")
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening plan de cuentas: %w", err)
	}
	defer f.Close()

	accts, err := ReadAccounts(f)
	if err != nil {
		return nil, fmt.Errorf("reading plan de cuentas: %w", err)
	}
	return NewService(accts), nil
}

// All returns all accounts.
func (s *Service) All() []model.Account {
	return s.accounts
}

// Get returns an account by ID.
func (s *Service) Get(id string) (model.Account, bool) {
	a, ok := s.byID[id]
	return a, ok
}

// GetByCode returns an account by its plan code.
func (s *Service) GetByCode(code string) (model.Account, bool) {
	a, ok := s.byCode[code]
	return a, ok
}

// Exists reports whether an account ID exists.
func (s *Service) Exists(id string) bool {
	_, ok := s.byID[id]
	return ok
}

// FindByCodes returns the first account matching any of the codes, in
// code-list order.
func (s *Service) FindByCodes(codes []string) (model.Account, bool) {
	for _, c := range codes {
		if a, ok := s.byCode[c]; ok {
			return a, true
		}
	}
	return model.Account{}, false
}

// FindByNamePattern returns the first imputable account whose name
// matches the pattern, case-insensitively.
func (s *Service) FindByNamePattern(pattern *regexp.Regexp) (model.Account, bool) {
	for _, a := range s.accounts {
		if a.IsHeader {
			continue
		}
		if pattern.MatchString(strings.ToLower(a.Name)) {
			return a, true
		}
	}
	return model.Account{}, false
}

// Save writes the plan to plan-de-cuentas.csv under workDir.
func (s *Service) Save(workDir string) error {
	path := filepath.Join(workDir, "plan-de-cuentas.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating plan de cuentas file: %w", err)
	}
	defer f.Close()

	if err := WriteAccounts(f, s.accounts); err != nil {
		return fmt.Errorf("writing plan de cuentas: %w", err)
	}
	return nil
}
