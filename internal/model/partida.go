package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Grupo is the balance-sheet side a partida belongs to.
type Grupo string

const (
	GrupoActivo Grupo = "ACTIVO"
	GrupoPasivo Grupo = "PASIVO"
	GrupoPN     Grupo = "PN"
)

// ProfileType hints how a partida's current value is obtained in RT17.
type ProfileType string

const (
	ProfileStock  ProfileType = "stock"  // always-positive balance-sheet stock
	ProfileFlujo  ProfileType = "flujo"  // signed net-movement figure
	ProfileMoneda ProfileType = "moneda" // foreign-currency holding
	ProfileManual ProfileType = "manual" // user supplies the current value
)

// LotRT6 is a dated sub-balance of an account, the unit of reexpression.
// UsdAmount is zero unless the lot is a foreign-currency holding.
type LotRT6 struct {
	ID         string
	OriginDate time.Time
	BaseAmount decimal.Decimal
	UsdAmount  decimal.Decimal
	Notes      string
}

// PartidaRT6 is one non-monetary item subject to reexpression. Lots are
// owned exclusively by their partida.
type PartidaRT6 struct {
	ID          string
	AccountID   string
	AccountCode string
	AccountName string
	Group       Grupo
	RubroLabel  string
	Items       []LotRT6
	ProfileType ProfileType
}

// ValStatus is the lifecycle state of an RT17 valuation record.
type ValStatus string

const (
	ValPending ValStatus = "pending"
	ValDone    ValStatus = "done"
	ValNA      ValStatus = "na"
)

// RT17Valuation holds the user-side inputs of a current-value measurement,
// keyed by the RT6 partida it values.
type RT17Valuation struct {
	RT6ItemID          string
	ValCorriente       decimal.Decimal
	ResTenencia        decimal.Decimal
	Status             ValStatus
	TcCierre           decimal.Decimal
	ManualCurrentValue decimal.Decimal
}
