package commands

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/cierre-dev/cierre/internal/rt6"
)

var cien = decimal.NewFromInt(100)

func newCalcularCommand(workDir *string) *cobra.Command {
	var autoLotes bool

	cmd := &cobra.Command{
		Use:   "calcular",
		Short: "Recalcula la reexpresión RT6/RT17 y el RECPAM indirecto",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := runPipeline(cmd.Context(), *workDir, autoLotes)
			if err != nil {
				return err
			}
			defer env.close()

			out := env.output

			fmt.Printf("Cierre %s (período %s a %s)\n\n", env.snap.ClosingID,
				env.snap.PeriodStart.Format("2006-01-02"), env.snap.ClosingDate.Format("2006-01-02"))

			if autoLotes {
				s := out.AutoStats
				fmt.Printf("Lotes automáticos: %d cuentas revisadas, %d excluidas, %d partidas, %d lotes\n\n",
					s.Scanned, s.Excluded, s.Partidas, s.Lots)
			}

			fmt.Println("Reexpresión RT6:")
			fmt.Printf("%-10s %-30s %15s %15s %15s  %s\n", "Cuenta", "Nombre", "Base", "Homogéneo", "RECPAM", "Estado")
			for _, cp := range out.RT6 {
				fmt.Printf("%-10s %-30s %15s %15s %15s  %s\n",
					cp.Partida.AccountCode, truncate(cp.Partida.AccountName, 30),
					cp.TotalBase.StringFixed(2), cp.TotalHomog.StringFixed(2),
					cp.TotalRecpam.StringFixed(2), cp.Status)
			}

			fmt.Println("\nValuación RT17:")
			for _, vp := range out.RT17 {
				fmt.Printf("%-10s %-8s val.corriente=%s base=%s tenencia=%s (%s)\n",
					vp.RT6.Partida.AccountCode, vp.Method,
					vp.ValCorriente.StringFixed(2), vp.BaseReference.StringFixed(2),
					vp.ResTenencia.StringFixed(2), vp.Status)
			}

			if out.Indirect != nil {
				fmt.Println("\nRECPAM indirecto (posición monetaria mensual):")
				for _, m := range out.Indirect.Months {
					marker := ""
					if m.MissingIndex {
						marker = "  [sin índice]"
					}
					fmt.Printf("%s  PMN=%s  coef=%s  recpam=%s%s\n",
						m.Periodo, m.PMN.StringFixed(2), m.Coef.StringFixed(4),
						m.Recpam.StringFixed(2), marker)
				}
				fmt.Printf("Total indirecto: %s  (inflación del período: %s%%)\n",
					out.Indirect.Total.StringFixed(2),
					out.Indirect.InflacionPeriodo.Mul(cien).StringFixed(2))
			}

			if n := countWarnings(out.RT6); n > 0 {
				fmt.Printf("\n%d partida(s) con advertencias de índice\n", n)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&autoLotes, "auto-lotes", false, "genera lotes automáticamente desde el mayor")
	return cmd
}

func countWarnings(computed []rt6.ComputedPartida) int {
	n := 0
	for _, cp := range computed {
		if cp.Status != rt6.StatusOK {
			n++
		}
	}
	return n
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
