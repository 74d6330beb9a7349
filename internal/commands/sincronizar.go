package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cierre-dev/cierre/internal/auditlog"
	"github.com/cierre-dev/cierre/internal/cierre"
	"github.com/cierre-dev/cierre/internal/id"
	"github.com/cierre-dev/cierre/internal/sincro"
)

func newSincronizarCommand(workDir *string) *cobra.Command {
	var autoLotes bool

	cmd := &cobra.Command{
		Use:   "sincronizar",
		Short: "Registra los asientos de ajuste en el mayor (idempotente)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := runPipeline(cmd.Context(), *workDir, autoLotes)
			if err != nil {
				return err
			}
			defer env.close()

			out := env.output
			rep := cierre.ValidateDraftsForSubmission(out)
			for _, w := range rep.Warnings {
				fmt.Printf("advertencia: %s\n", w)
			}
			if !rep.OK() {
				for _, e := range rep.Errors {
					fmt.Printf("error: %s\n", e)
				}
				return fmt.Errorf("%d error(es) bloquean el registro", len(rep.Errors))
			}

			memo := "Ajuste por inflación " + env.snap.ClosingID
			syncer := sincro.NewSyncer(env.store, id.UUID{}, env.log)
			res, decisions, err := syncer.Sync(cmd.Context(), env.snap.ClosingID, out.Drafts, env.snap.ClosingDate, memo)
			if err != nil {
				return err
			}

			now := time.Now()
			var audit []auditlog.Entry
			for _, dec := range decisions {
				action := "unchanged"
				switch dec.Status {
				case sincro.Pendiente:
					action = "created"
				case sincro.Desactualizado:
					action = "updated"
				}
				if !dec.Draft.IsValid {
					action = "skipped"
				}
				audit = append(audit, auditlog.Entry{
					Timestamp:  now,
					Action:     action,
					ClosingID:  env.snap.ClosingID,
					VoucherKey: dec.Draft.Key,
					Hash:       dec.Hash,
					Detail:     dec.Draft.Descripcion,
				})
			}
			if err := auditlog.Append(env.dir, audit); err != nil {
				return err
			}

			fmt.Printf("Sincronización: %d creados, %d actualizados, %d sin cambios, %d omitidos\n",
				res.Created, res.Updated, res.Unchanged, res.Skipped)
			return nil
		},
	}

	cmd.Flags().BoolVar(&autoLotes, "auto-lotes", false, "genera lotes automáticamente desde el mayor")
	return cmd
}
