package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/cierre-dev/cierre/internal/config"
	"github.com/cierre-dev/cierre/internal/gitops"
	"github.com/cierre-dev/cierre/internal/plan"
	"github.com/cierre-dev/cierre/internal/state"
)

func newInitCommand(workDir *string) *cobra.Command {
	var name string
	var inicioStr string
	var cierreStr string

	cmd := &cobra.Command{
		Use:   "init [directorio]",
		Short: "Inicializa un directorio de trabajo de cierre",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := *workDir
			if len(args) > 0 {
				dir = args[0]
			}
			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolviendo directorio: %w", err)
			}

			inicio, err := time.Parse("2006-01-02", inicioStr)
			if err != nil {
				return fmt.Errorf("fecha de inicio inválida %q: %w", inicioStr, err)
			}
			cierre, err := time.Parse("2006-01-02", cierreStr)
			if err != nil {
				return fmt.Errorf("fecha de cierre inválida %q: %w", cierreStr, err)
			}
			if !cierre.After(inicio) {
				return fmt.Errorf("la fecha de cierre %s debe ser posterior al inicio %s", cierreStr, inicioStr)
			}

			return runInit(absDir, name, inicio, cierre)
		},
	}

	cmd.Flags().StringVar(&name, "empresa", "", "razón social (requerido)")
	_ = cmd.MarkFlagRequired("empresa")
	cmd.Flags().StringVar(&inicioStr, "inicio", "", "inicio del ejercicio, AAAA-MM-DD (requerido)")
	_ = cmd.MarkFlagRequired("inicio")
	cmd.Flags().StringVar(&cierreStr, "cierre", "", "fecha de cierre, AAAA-MM-DD (requerido)")
	_ = cmd.MarkFlagRequired("cierre")

	return cmd
}

func runInit(dir, name string, inicio, cierre time.Time) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creando directorio: %w", err)
	}

	cfg := config.Default(name)
	if err := config.Save(filepath.Join(dir, configFile), cfg); err != nil {
		return fmt.Errorf("escribiendo configuración: %w", err)
	}

	svc := plan.NewService(plan.DefaultPlan())
	if err := svc.Save(dir); err != nil {
		return fmt.Errorf("escribiendo plan de cuentas: %w", err)
	}

	closingID := "cierre-" + cierre.Format("2006-01")
	snap := state.New(closingID, inicio, cierre)
	if err := state.Save(statePath(dir), snap); err != nil {
		return fmt.Errorf("escribiendo estado: %w", err)
	}

	gitignore := "mayor.db\nauditoria.csv\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("escribiendo .gitignore: %w", err)
	}

	if cfg.Git.AutoCommit {
		if !gitops.IsRepo(dir) {
			if err := gitops.Init(dir); err != nil {
				return fmt.Errorf("git init: %w", err)
			}
		}
		hash, err := gitops.CommitAll(dir, "init: "+name, cfg.Git.AuthorName, cfg.Git.AuthorEmail)
		if err != nil {
			return fmt.Errorf("commit inicial: %w", err)
		}
		fmt.Printf("Cierre inicializado en %s (%s)\n", dir, hash)
		return nil
	}

	fmt.Printf("Cierre inicializado en %s\n", dir)
	return nil
}
