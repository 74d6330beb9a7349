// Package config loads the cierre.yaml application configuration.
package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config represents the top-level cierre.yaml configuration.
type Config struct {
	Empresa  EmpresaConfig `yaml:"empresa"`
	Cierre   CierreConfig  `yaml:"cierre"`
	Ledger   LedgerConfig  `yaml:"ledger"`
	Git      GitConfig     `yaml:"git"`
	LogLevel string        `yaml:"log_level"`
}

// EmpresaConfig identifies the reporting entity.
type EmpresaConfig struct {
	Name string `yaml:"name"`
	CUIT string `yaml:"cuit,omitempty"`
}

// CierreConfig controls the closing computation. Amounts are kept as
// strings in YAML and parsed on access.
type CierreConfig struct {
	// PlugTolerance is the largest rounding imbalance absorbed into the
	// contra line of a voucher.
	PlugTolerance string `yaml:"plug_tolerance"`
	// MinLotAmount drops auto-generated lots below this amount.
	MinLotAmount string `yaml:"min_lot_amount,omitempty"`
	// GroupMonthly groups in-period movements into monthly lots instead
	// of one lot per movement.
	GroupMonthly bool `yaml:"group_monthly"`
}

// Tolerance parses PlugTolerance, falling back to 0.011.
func (c CierreConfig) Tolerance() decimal.Decimal {
	d, err := decimal.NewFromString(c.PlugTolerance)
	if err != nil || d.IsNegative() {
		return decimal.RequireFromString("0.011")
	}
	return d
}

// MinLot parses MinLotAmount; empty or malformed means no filter.
func (c CierreConfig) MinLot() decimal.Decimal {
	d, err := decimal.NewFromString(c.MinLotAmount)
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// LedgerConfig locates the external ledger database.
type LedgerConfig struct {
	Path string `yaml:"path"`
}

// GitConfig controls git integration for the closing state.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Load reads a cierre.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new work dir.
func Default(name string) *Config {
	return &Config{
		Empresa: EmpresaConfig{Name: name},
		Cierre: CierreConfig{
			PlugTolerance: "0.011",
			GroupMonthly:  true,
		},
		Ledger: LedgerConfig{Path: "mayor.db"},
		Git: GitConfig{
			AutoCommit:  true,
			AuthorName:  "Cierre",
			AuthorEmail: "cierre@localhost",
		},
		LogLevel: "info",
	}
}
