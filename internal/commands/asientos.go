package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cierre-dev/cierre/internal/cierre"
)

func newAsientosCommand(workDir *string) *cobra.Command {
	var autoLotes bool

	cmd := &cobra.Command{
		Use:   "asientos",
		Short: "Arma los borradores de asientos de ajuste y los valida",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := runPipeline(cmd.Context(), *workDir, autoLotes)
			if err != nil {
				return err
			}
			defer env.close()

			out := env.output
			for _, d := range out.Drafts {
				fmt.Printf("Asiento %d [%s] %s\n", d.Numero, d.Key, d.Descripcion)
				for _, l := range d.Lineas {
					fmt.Printf("  %-10s %-30s %15s %15s\n",
						l.CuentaCodigo, truncate(l.CuentaNombre, 30),
						l.Debe.StringFixed(2), l.Haber.StringFixed(2))
				}
				fmt.Printf("  %46s %15s %15s", "", d.TotalDebe.StringFixed(2), d.TotalHaber.StringFixed(2))
				if !d.IsValid {
					fmt.Print("  ** NO BALANCEA **")
				}
				fmt.Println()
				if d.Warning != "" {
					fmt.Printf("  ! %s\n", d.Warning)
				}
				fmt.Println()
			}

			rep := cierre.ValidateDraftsForSubmission(out)
			for _, w := range rep.Warnings {
				fmt.Printf("advertencia: %s\n", w)
			}
			for _, e := range rep.Errors {
				fmt.Printf("error: %s\n", e)
			}
			if rep.OK() {
				fmt.Println("Listo para registrar.")
			} else {
				fmt.Printf("%d error(es) bloquean el registro.\n", len(rep.Errors))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&autoLotes, "auto-lotes", false, "genera lotes automáticamente desde el mayor")
	return cmd
}
