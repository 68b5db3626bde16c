// Package service provides the run-level logic on top of the encoder and
// the persistence boundaries: schema reconciliation and the ingest driver.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/graphmint/graphmint/internal/domain"
	"github.com/graphmint/graphmint/internal/metrics"
	"github.com/graphmint/graphmint/internal/models"
)

// SchemaReconciler merges attribute paths observed during an ingestion run
// into the persisted schema of a data model. Reconciliation is idempotent
// and the schema's attribute-path set only grows; a failure in any
// get-or-create or save step aborts the whole batch with no schema
// mutation left visible.
type SchemaReconciler struct {
	persist domain.SchemaPersistence
	log     *logrus.Logger
}

// NewSchemaReconciler creates a SchemaReconciler.
func NewSchemaReconciler(persist domain.SchemaPersistence, log *logrus.Logger) *SchemaReconciler {
	return &SchemaReconciler{persist: persist, log: log}
}

// Reconcile loads or creates the data model's schema, establishes its
// record class, adds any unseen attribute paths and persists the result.
// When the stored schema already names a different record class, the
// existing class wins and the mismatch is logged.
func (r *SchemaReconciler) Reconcile(ctx context.Context, dataModelID, recordClassURI string, attributePaths [][]string) (*models.Schema, error) {
	schema, err := r.reconcile(ctx, dataModelID, recordClassURI, attributePaths)
	if err != nil {
		metrics.ReconcileRuns.WithLabelValues("error").Inc()

		return nil, err
	}

	metrics.ReconcileRuns.WithLabelValues("ok").Inc()

	return schema, nil
}

func (r *SchemaReconciler) reconcile(ctx context.Context, dataModelID, recordClassURI string, attributePaths [][]string) (*models.Schema, error) {
	if dataModelID == "" {
		return nil, models.ErrMissingDataModelID
	}

	schema, err := r.persist.LoadSchema(ctx, dataModelID)

	switch {
	case errors.Is(err, models.ErrSchemaNotFound):
		schema = &models.Schema{ID: uuid.New().String()}
		r.log.WithFields(logrus.Fields{"data_model": dataModelID, "schema": schema.ID}).
			Info("creating schema for data model")
	case err != nil:
		return nil, fmt.Errorf("reconciling schema: %w", err)
	}

	if err := r.applyRecordClass(ctx, schema, recordClassURI); err != nil {
		return nil, err
	}

	added, err := r.applyAttributePaths(ctx, schema, attributePaths)
	if err != nil {
		return nil, err
	}

	if err := r.persist.SaveSchema(ctx, dataModelID, schema); err != nil {
		return nil, fmt.Errorf("reconciling schema: %w", err)
	}

	if added > 0 {
		metrics.AttributePathsAdded.Add(float64(added))
		r.log.WithFields(logrus.Fields{
			"data_model": dataModelID,
			"schema":     schema.ID,
			"added":      added,
			"total":      len(schema.AttributePaths),
		}).Info("schema attribute paths updated")
	}

	return schema, nil
}

func (r *SchemaReconciler) applyRecordClass(ctx context.Context, schema *models.Schema, recordClassURI string) error {
	if recordClassURI == "" {
		return nil
	}

	if schema.RecordClass != nil {
		if schema.RecordClass.URI != recordClassURI {
			// Records of conflicting shape do not retroactively change an
			// established schema.
			r.log.WithFields(logrus.Fields{
				"schema":   schema.ID,
				"existing": schema.RecordClass.URI,
				"observed": recordClassURI,
			}).Warn("record class mismatch, keeping existing class")
		}

		return nil
	}

	clasz, err := r.persist.GetOrCreateClasz(ctx, recordClassURI)
	if err != nil {
		return fmt.Errorf("resolving record class: %w", err)
	}

	schema.RecordClass = clasz

	return nil
}

func (r *SchemaReconciler) applyAttributePaths(ctx context.Context, schema *models.Schema, attributePaths [][]string) (int, error) {
	added := 0

	for _, shape := range attributePaths {
		if len(shape) == 0 {
			continue
		}

		if schema.HasPath(models.PathKey(shape)) {
			continue
		}

		for _, uri := range shape {
			if _, err := r.persist.GetOrCreateAttribute(ctx, uri); err != nil {
				return 0, fmt.Errorf("resolving attribute: %w", err)
			}
		}

		path, err := r.persist.GetOrCreateAttributePath(ctx, shape)
		if err != nil {
			return 0, fmt.Errorf("resolving attribute path: %w", err)
		}

		if schema.AddPath(*path) {
			added++
		}
	}

	return added, nil
}
