// Package store provides the Postgres-backed persistence for the schema
// reconciler and the graph store adapter.
//
// SchemaStore owns the relational schema entities (attributes, classes,
// attribute paths, schemas, data models); GraphStore owns the serialized
// record graphs. Both embed shared helpers via the Base struct. Errors
// propagate to the caller unmodified; there is no retry or backoff here.
package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"

	"github.com/graphmint/graphmint/internal/dbpool"
	"github.com/graphmint/graphmint/internal/metrics"
)

const defaultQueryTimeout = 30 * time.Second

// Base contains shared dependencies for all stores.
// Embed this in each store struct.
type Base struct {
	Pool *dbpool.Pool
	Log  *logrus.Logger
}

// withTimeout creates a context with the default query timeout.
func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, defaultQueryTimeout)
}

// observe records the duration of a store operation.
func observe(op string, start time.Time) {
	metrics.StoreOpDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// querier is the subset of pgx shared by the pool and a transaction, so
// get-or-create helpers can run in either.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}
