package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cierre-dev/cierre/internal/gitops"
	"github.com/cierre-dev/cierre/internal/importer"
	"github.com/cierre-dev/cierre/internal/state"
)

func newIndicesCommand(workDir *string) *cobra.Command {
	var formato string
	var colPeriodo, colValor int
	var header bool

	cmd := &cobra.Command{
		Use:   "indices <archivo>",
		Short: "Importa la tabla de índices de precios desde un archivo delimitado",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := resolveDir(*workDir)
			if err != nil {
				return err
			}

			parser := importer.DefaultRegistry().Get(formato)
			if parser == nil {
				return fmt.Errorf("formato desconocido %q", formato)
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("abriendo archivo de índices: %w", err)
			}
			defer f.Close()

			rows, err := parser.Parse(f, importer.ColumnMap{
				PeriodCol: colPeriodo,
				ValueCol:  colValor,
				HasHeader: header,
			})
			if err != nil {
				return fmt.Errorf("importando índices: %w", err)
			}

			snap, err := state.Load(statePath(dir))
			if err != nil {
				return err
			}
			snap.Indices = rows
			if err := state.Save(statePath(dir), snap); err != nil {
				return err
			}

			if cfg, err := loadConfig(dir); err == nil && cfg.Git.AutoCommit && gitops.IsRepo(dir) {
				if changed, _ := gitops.HasChanges(dir); changed {
					if _, err := gitops.CommitAll(dir, "indices: importar tabla", cfg.Git.AuthorName, cfg.Git.AuthorEmail); err != nil {
						return fmt.Errorf("commit de índices: %w", err)
					}
				}
			}

			fmt.Printf("Importados %d períodos de índice\n", len(rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&formato, "formato", "csv", "formato del archivo (csv, csv-semicolon)")
	cmd.Flags().IntVar(&colPeriodo, "col-periodo", 0, "columna del período (desde 0)")
	cmd.Flags().IntVar(&colValor, "col-valor", 1, "columna del valor (desde 0)")
	cmd.Flags().BoolVar(&header, "encabezado", true, "la primera fila es encabezado")

	return cmd
}
