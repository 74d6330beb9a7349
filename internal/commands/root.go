package commands

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cierre-dev/cierre/internal/buildinfo"
	"github.com/cierre-dev/cierre/internal/config"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	var workDir string

	rootCmd := &cobra.Command{
		Use:     "cierre",
		Short:   "Ajuste por inflación: reexpresión RT6/RT17 y asientos de cierre",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&workDir, "dir", "d", ".", "directorio de trabajo del cierre")

	rootCmd.AddCommand(newInitCommand(&workDir))
	rootCmd.AddCommand(newIndicesCommand(&workDir))
	rootCmd.AddCommand(newCalcularCommand(&workDir))
	rootCmd.AddCommand(newAsientosCommand(&workDir))
	rootCmd.AddCommand(newSincronizarCommand(&workDir))

	return rootCmd
}

const (
	configFile = "cierre.yaml"
	stateFile  = "cierre-estado.yaml"
)

func loadConfig(workDir string) (*config.Config, error) {
	return config.Load(filepath.Join(workDir, configFile))
}

func statePath(workDir string) string {
	return filepath.Join(workDir, stateFile)
}

// newLogger builds the CLI logger: structured JSON at the configured
// level, console-friendly timestamps.
func newLogger(level string) *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if level == "debug" {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	log, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return log
}

func resolveDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(abs); err != nil {
		return "", err
	}
	return abs, nil
}
