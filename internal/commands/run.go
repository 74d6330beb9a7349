package commands

import (
	"context"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/cierre-dev/cierre/internal/cierre"
	"github.com/cierre-dev/cierre/internal/config"
	"github.com/cierre-dev/cierre/internal/id"
	"github.com/cierre-dev/cierre/internal/ledger"
	"github.com/cierre-dev/cierre/internal/plan"
	"github.com/cierre-dev/cierre/internal/state"
)

// runEnv bundles everything a pipeline-driven command needs.
type runEnv struct {
	dir    string
	cfg    *config.Config
	snap   *state.Snapshot
	plan   *plan.Service
	store  *ledger.SQLiteStore
	log    *zap.Logger
	output cierre.Output
}

func (e *runEnv) close() {
	if e.store != nil {
		e.store.Close()
	}
	if e.log != nil {
		_ = e.log.Sync()
	}
}

// runPipeline loads the work dir and recomputes the derived graph.
func runPipeline(ctx context.Context, workDir string, autoLots bool) (*runEnv, error) {
	dir, err := resolveDir(workDir)
	if err != nil {
		return nil, err
	}

	cfg, err := loadConfig(dir)
	if err != nil {
		return nil, err
	}
	log := newLogger(cfg.LogLevel)

	snap, err := state.Load(statePath(dir))
	if err != nil {
		return nil, err
	}
	planSvc, err := plan.Load(dir)
	if err != nil {
		return nil, err
	}

	store, err := ledger.OpenSQLite(filepath.Join(dir, cfg.Ledger.Path), log)
	if err != nil {
		return nil, err
	}

	env := &runEnv{dir: dir, cfg: cfg, snap: snap, plan: planSvc, store: store, log: log}

	out, err := cierre.Run(ctx, cierre.Input{
		Snapshot:     snap,
		Plan:         planSvc,
		Ledger:       store,
		IDs:          id.UUID{},
		Tolerance:    cfg.Cierre.Tolerance(),
		AutoLots:     autoLots,
		GroupMonthly: cfg.Cierre.GroupMonthly,
		MinLotAmount: cfg.Cierre.MinLot(),
	})
	if err != nil {
		env.close()
		return nil, err
	}
	env.output = out
	return env, nil
}
