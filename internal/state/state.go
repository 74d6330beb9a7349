// Package state persists the closing snapshot: everything the engine
// needs to recompute a closing, and nothing derived.
package state

import (
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/cierre-dev/cierre/internal/indices"
	"github.com/cierre-dev/cierre/internal/model"
)

// Snapshot is the persisted state of one closing. Computed values are
// never stored: they are recomputed from this on every change.
type Snapshot struct {
	ClosingID        string
	ClosingDate      time.Time
	PeriodStart      time.Time
	Indices          []indices.IndexRow
	PartidasRT6      []model.PartidaRT6
	Valuations       map[string]model.RT17Valuation
	AccountOverrides map[string]model.AccountOverride
}

// New returns an empty snapshot for a closing period.
func New(closingID string, periodStart, closingDate time.Time) *Snapshot {
	return &Snapshot{
		ClosingID:        closingID,
		ClosingDate:      closingDate,
		PeriodStart:      periodStart,
		Valuations:       make(map[string]model.RT17Valuation),
		AccountOverrides: make(map[string]model.AccountOverride),
	}
}

// ClosingPeriod returns the period of the closing date.
func (s *Snapshot) ClosingPeriod() indices.Periodo {
	return indices.PeriodoFromDate(s.ClosingDate)
}

// StartPeriod returns the period of the period start.
func (s *Snapshot) StartPeriod() indices.Periodo {
	return indices.PeriodoFromDate(s.PeriodStart)
}

// IndexTable builds the read-only index table for a run.
func (s *Snapshot) IndexTable() *indices.Table {
	return indices.NewTable(s.Indices)
}

// Load reads a snapshot from a YAML file.
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading closing state: %w", err)
	}
	var doc snapshotDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing closing state: %w", err)
	}
	s, err := doc.toSnapshot()
	if err != nil {
		return nil, fmt.Errorf("closing state: %w", err)
	}
	return s, nil
}

// Save writes the snapshot to a YAML file.
func Save(path string, s *Snapshot) error {
	data, err := yaml.Marshal(fromSnapshot(s))
	if err != nil {
		return fmt.Errorf("marshaling closing state: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing closing state: %w", err)
	}
	return nil
}

// YAML document types. Amounts travel as strings so they round-trip
// exactly; yaml.v3 does not call decimal's text codec.

const dateFormat = "2006-01-02"

type snapshotDoc struct {
	ClosingID        string                           `yaml:"closing_id"`
	ClosingDate      string                           `yaml:"closing_date"`
	PeriodStart      string                           `yaml:"period_start"`
	Indices          []indexRowDoc                    `yaml:"indices"`
	PartidasRT6      []partidaDoc                     `yaml:"partidas_rt6"`
	Valuations       map[string]valuationDoc          `yaml:"valuations"`
	AccountOverrides map[string]model.AccountOverride `yaml:"account_overrides"`
}

type indexRowDoc struct {
	Period string `yaml:"period"`
	Value  string `yaml:"value"`
}

type partidaDoc struct {
	ID          string   `yaml:"id"`
	AccountID   string   `yaml:"account_id,omitempty"`
	AccountCode string   `yaml:"account_code"`
	AccountName string   `yaml:"account_name"`
	Group       string   `yaml:"group"`
	RubroLabel  string   `yaml:"rubro_label,omitempty"`
	ProfileType string   `yaml:"profile_type,omitempty"`
	Items       []lotDoc `yaml:"items"`
}

type lotDoc struct {
	ID         string `yaml:"id"`
	OriginDate string `yaml:"origin_date"`
	BaseAmount string `yaml:"base_amount"`
	UsdAmount  string `yaml:"usd_amount,omitempty"`
	Notes      string `yaml:"notes,omitempty"`
}

type valuationDoc struct {
	RT6ItemID          string `yaml:"rt6_item_id"`
	ValCorriente       string `yaml:"val_corriente,omitempty"`
	ResTenencia        string `yaml:"res_tenencia,omitempty"`
	Status             string `yaml:"status"`
	TcCierre           string `yaml:"tc_cierre,omitempty"`
	ManualCurrentValue string `yaml:"manual_current_value,omitempty"`
}

func fromSnapshot(s *Snapshot) snapshotDoc {
	doc := snapshotDoc{
		ClosingID:        s.ClosingID,
		ClosingDate:      s.ClosingDate.Format(dateFormat),
		PeriodStart:      s.PeriodStart.Format(dateFormat),
		AccountOverrides: s.AccountOverrides,
	}
	for _, r := range s.Indices {
		doc.Indices = append(doc.Indices, indexRowDoc{Period: string(r.Period), Value: r.Value.String()})
	}
	for _, p := range s.PartidasRT6 {
		pd := partidaDoc{
			ID:          p.ID,
			AccountID:   p.AccountID,
			AccountCode: p.AccountCode,
			AccountName: p.AccountName,
			Group:       string(p.Group),
			RubroLabel:  p.RubroLabel,
			ProfileType: string(p.ProfileType),
		}
		for _, l := range p.Items {
			ld := lotDoc{
				ID:         l.ID,
				OriginDate: l.OriginDate.Format(dateFormat),
				BaseAmount: l.BaseAmount.String(),
				Notes:      l.Notes,
			}
			if !l.UsdAmount.IsZero() {
				ld.UsdAmount = l.UsdAmount.String()
			}
			pd.Items = append(pd.Items, ld)
		}
		doc.PartidasRT6 = append(doc.PartidasRT6, pd)
	}
	if len(s.Valuations) > 0 {
		doc.Valuations = make(map[string]valuationDoc, len(s.Valuations))
		for k, v := range s.Valuations {
			vd := valuationDoc{RT6ItemID: v.RT6ItemID, Status: string(v.Status)}
			if !v.ValCorriente.IsZero() {
				vd.ValCorriente = v.ValCorriente.String()
			}
			if !v.ResTenencia.IsZero() {
				vd.ResTenencia = v.ResTenencia.String()
			}
			if !v.TcCierre.IsZero() {
				vd.TcCierre = v.TcCierre.String()
			}
			if !v.ManualCurrentValue.IsZero() {
				vd.ManualCurrentValue = v.ManualCurrentValue.String()
			}
			doc.Valuations[k] = vd
		}
	}
	return doc
}

func (doc snapshotDoc) toSnapshot() (*Snapshot, error) {
	s := &Snapshot{
		ClosingID:        doc.ClosingID,
		Valuations:       make(map[string]model.RT17Valuation),
		AccountOverrides: doc.AccountOverrides,
	}
	if s.AccountOverrides == nil {
		s.AccountOverrides = make(map[string]model.AccountOverride)
	}

	var err error
	if s.ClosingDate, err = parseDate(doc.ClosingDate); err != nil {
		return nil, fmt.Errorf("closing_date: %w", err)
	}
	if s.PeriodStart, err = parseDate(doc.PeriodStart); err != nil {
		return nil, fmt.Errorf("period_start: %w", err)
	}

	for i, r := range doc.Indices {
		v, err := decimal.NewFromString(r.Value)
		if err != nil {
			return nil, fmt.Errorf("index %d value %q: %w", i, r.Value, err)
		}
		s.Indices = append(s.Indices, indices.IndexRow{Period: indices.Periodo(r.Period), Value: v})
	}

	for _, pd := range doc.PartidasRT6 {
		p := model.PartidaRT6{
			ID:          pd.ID,
			AccountID:   pd.AccountID,
			AccountCode: pd.AccountCode,
			AccountName: pd.AccountName,
			Group:       model.Grupo(pd.Group),
			RubroLabel:  pd.RubroLabel,
			ProfileType: model.ProfileType(pd.ProfileType),
		}
		for _, ld := range pd.Items {
			lot := model.LotRT6{ID: ld.ID, Notes: ld.Notes}
			if lot.OriginDate, err = parseDate(ld.OriginDate); err != nil {
				return nil, fmt.Errorf("lot %s origin_date: %w", ld.ID, err)
			}
			if lot.BaseAmount, err = parseAmount(ld.BaseAmount); err != nil {
				return nil, fmt.Errorf("lot %s base_amount: %w", ld.ID, err)
			}
			if lot.UsdAmount, err = parseAmount(ld.UsdAmount); err != nil {
				return nil, fmt.Errorf("lot %s usd_amount: %w", ld.ID, err)
			}
			p.Items = append(p.Items, lot)
		}
		s.PartidasRT6 = append(s.PartidasRT6, p)
	}

	for k, vd := range doc.Valuations {
		v := model.RT17Valuation{RT6ItemID: vd.RT6ItemID, Status: model.ValStatus(vd.Status)}
		if v.ValCorriente, err = parseAmount(vd.ValCorriente); err != nil {
			return nil, fmt.Errorf("valuation %s val_corriente: %w", k, err)
		}
		if v.ResTenencia, err = parseAmount(vd.ResTenencia); err != nil {
			return nil, fmt.Errorf("valuation %s res_tenencia: %w", k, err)
		}
		if v.TcCierre, err = parseAmount(vd.TcCierre); err != nil {
			return nil, fmt.Errorf("valuation %s tc_cierre: %w", k, err)
		}
		if v.ManualCurrentValue, err = parseAmount(vd.ManualCurrentValue); err != nil {
			return nil, fmt.Errorf("valuation %s manual_current_value: %w", k, err)
		}
		s.Valuations[k] = v
	}
	return s, nil
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(dateFormat, s)
}

func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
