package cierre

import (
	"fmt"

	"github.com/cierre-dev/cierre/internal/model"
	"github.com/cierre-dev/cierre/internal/rt6"
)

// Report separates what blocks posting from what the user should merely
// see. A run with Errors must not be submitted to the ledger.
type Report struct {
	Errors   []string
	Warnings []string
}

// OK reports whether submission may proceed.
func (r Report) OK() bool { return len(r.Errors) == 0 }

// ValidateDraftsForSubmission checks that every draft balances, no
// account classification is pending, and there is something to post.
// Data-quality warnings (missing lot indices, fallback accounts,
// pending valuations) never block on their own.
func ValidateDraftsForSubmission(out Output) Report {
	var rep Report

	if len(out.Drafts) == 0 {
		rep.Errors = append(rep.Errors, "no hay asientos para registrar")
	}

	for _, d := range out.Drafts {
		if !d.IsValid {
			rep.Errors = append(rep.Errors, fmt.Sprintf(
				"asiento %s no balancea: debe %s vs haber %s",
				d.Key, d.TotalDebe.StringFixed(2), d.TotalHaber.StringFixed(2)))
		}
		if d.Warning != "" {
			rep.Warnings = append(rep.Warnings, fmt.Sprintf("asiento %s: %s", d.Key, d.Warning))
		}
	}

	for _, a := range out.Buckets.Indefinida {
		rep.Errors = append(rep.Errors, fmt.Sprintf(
			"cuenta %s %q sin clasificar: definir monetaria/no monetaria", a.Code, a.Name))
	}

	for _, cp := range out.RT6 {
		switch cp.Status {
		case rt6.StatusError:
			rep.Errors = append(rep.Errors, fmt.Sprintf(
				"partida %s sin índice del período de cierre", cp.Partida.AccountCode))
		case rt6.StatusWarning:
			rep.Warnings = append(rep.Warnings, fmt.Sprintf(
				"partida %s con lotes sin índice de origen (coeficiente 1)", cp.Partida.AccountCode))
		}
	}

	for _, vp := range out.RT17 {
		if vp.Status == model.ValPending {
			rep.Warnings = append(rep.Warnings, fmt.Sprintf(
				"partida %s con valuación RT17 pendiente", vp.RT6.Partida.AccountCode))
		}
	}

	return rep
}
