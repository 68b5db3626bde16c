package main

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/graphmint/graphmint/internal/config"
	"github.com/graphmint/graphmint/internal/dbpool"
	"github.com/graphmint/graphmint/internal/domain"
	"github.com/graphmint/graphmint/internal/store"
	"github.com/graphmint/graphmint/internal/store/sqlitegraph"
)

// runtime bundles the configured backends for one CLI invocation. schemas is
// nil when no DATABASE_URL is configured (sqlite-only mode); commands that
// need schema persistence check for it.
type runtime struct {
	cfg     *config.Config
	log     *logrus.Logger
	pool    *dbpool.Pool
	schemas *store.SchemaStore
	graphs  domain.GraphStore

	closers []func()
}

func openRuntime(ctx context.Context) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log := logrus.New()
	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(lvl)
	}

	rt := &runtime{cfg: cfg, log: log}

	if cfg.DatabaseURL.Value() != "" {
		pool, err := dbpool.NewPool(ctx, cfg.DatabaseURL.Value())
		if err != nil {
			return nil, fmt.Errorf("connecting to database: %w", err)
		}

		rt.pool = pool
		rt.schemas = store.NewSchemaStore(store.Base{Pool: pool, Log: log})
		rt.closers = append(rt.closers, pool.Close)
	}

	switch cfg.GraphStore {
	case config.GraphStoreSQLite:
		s, err := sqlitegraph.Open(cfg.GraphDBPath, log)
		if err != nil {
			rt.close()

			return nil, err
		}

		rt.graphs = s
		rt.closers = append(rt.closers, func() { _ = s.Close() })
	default:
		rt.graphs = store.NewGraphStore(store.Base{Pool: rt.pool, Log: log})
	}

	return rt, nil
}

func (rt *runtime) close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		rt.closers[i]()
	}
}

// requireSchemas guards the commands that reconcile or read schemas.
func (rt *runtime) requireSchemas() error {
	if rt.schemas == nil {
		return fmt.Errorf("DATABASE_URL is required for schema persistence")
	}

	return nil
}
