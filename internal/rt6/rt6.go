// Package rt6 reexpresses dated historical lots into closing-period
// purchasing power using price-index coefficients.
package rt6

import (
	"github.com/shopspring/decimal"

	"github.com/cierre-dev/cierre/internal/indices"
	"github.com/cierre-dev/cierre/internal/model"
)

// PartidaStatus is the data-quality state of a computed partida.
type PartidaStatus string

const (
	StatusOK      PartidaStatus = "ok"
	StatusWarning PartidaStatus = "warning"
	StatusError   PartidaStatus = "error"
)

// ComputedLot is one lot after coefficient application.
type ComputedLot struct {
	Lot           model.LotRT6
	Origen        indices.Periodo
	Coef          decimal.Decimal
	Homog         decimal.Decimal
	MissingOrigen bool
}

// ComputedPartida is a partida with its lots reexpressed and totalled.
// TotalRecpam is the inflation-exposure delta for the account.
type ComputedPartida struct {
	Partida     model.PartidaRT6
	Lots        []ComputedLot
	TotalBase   decimal.Decimal
	TotalHomog  decimal.Decimal
	TotalRecpam decimal.Decimal
	Status      PartidaStatus
}

// Reexpress applies closing-period coefficients to every lot of a
// partida. A lot whose origin index is missing keeps coefficient 1 and
// degrades the partida to warning; a missing closing-period index
// escalates to error, since the closing cannot proceed without it.
func Reexpress(p model.PartidaRT6, table *indices.Table, cierre indices.Periodo) ComputedPartida {
	out := ComputedPartida{Partida: p, Status: StatusOK}

	_, hasCierre := table.Value(cierre)

	totalBase := decimal.Zero
	totalHomog := decimal.Zero
	for _, lot := range p.Items {
		origen := indices.PeriodoFromDate(lot.OriginDate)
		coef := table.Coef(cierre, origen)
		homog := lot.BaseAmount.Mul(coef.Value)

		out.Lots = append(out.Lots, ComputedLot{
			Lot:           lot,
			Origen:        origen,
			Coef:          coef.Value,
			Homog:         homog,
			MissingOrigen: !coef.HasOrigen,
		})
		if !coef.HasOrigen && out.Status == StatusOK {
			out.Status = StatusWarning
		}

		totalBase = totalBase.Add(lot.BaseAmount)
		totalHomog = totalHomog.Add(homog)
	}

	if !hasCierre {
		out.Status = StatusError
	}

	out.TotalBase = totalBase
	out.TotalHomog = totalHomog
	out.TotalRecpam = totalHomog.Sub(totalBase)
	return out
}

// ReexpressAll computes every partida against the same closing period.
func ReexpressAll(partidas []model.PartidaRT6, table *indices.Table, cierre indices.Periodo) []ComputedPartida {
	out := make([]ComputedPartida, 0, len(partidas))
	for _, p := range partidas {
		out = append(out, Reexpress(p, table, cierre))
	}
	return out
}
