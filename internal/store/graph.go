package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/graphmint/graphmint/internal/gdm"
	"github.com/graphmint/graphmint/internal/mint"
	"github.com/graphmint/graphmint/internal/models"
)

// GraphStore implements domain.GraphStore on Postgres. Each record graph is
// one row under the data model's namespace; writing a record again replaces
// that row and leaves the rest of the namespace untouched.
type GraphStore struct {
	Base
}

// NewGraphStore creates a new GraphStore.
func NewGraphStore(base Base) *GraphStore {
	return &GraphStore{Base: base}
}

// Write stores one record graph under the data model's namespace.
func (s *GraphStore) Write(ctx context.Context, dataModelID string, rec *gdm.RecordModel) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	defer observe("graph.write", time.Now())

	if dataModelID == "" {
		return models.ErrMissingDataModelID
	}

	if rec == nil || rec.RecordURI == "" {
		return fmt.Errorf("writing record graph: %w", models.ErrMissingURI)
	}

	body, err := json.Marshal(rec.Model)
	if err != nil {
		return fmt.Errorf("serializing record graph: %w", err)
	}

	_, err = s.Pool.Exec(ctx, `
		INSERT INTO gdm_records (namespace, record_uri, record_class_uri, body)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (namespace, record_uri) DO UPDATE
		SET record_class_uri = EXCLUDED.record_class_uri,
		    body = EXCLUDED.body,
		    updated_at = now()`,
		mint.DataModelGraphURI(dataModelID), rec.RecordURI, rec.RecordClassURI, body)
	if err != nil {
		return fmt.Errorf("writing record graph: %w", err)
	}

	return nil
}

// Read returns all stored records of the given class under the namespace,
// keyed by record URI and capped to atMost when atMost > 0. Iteration order
// is store-defined. It returns models.ErrGraphNotFound when nothing
// matches.
func (s *GraphStore) Read(ctx context.Context, dataModelID, recordClassURI string, atMost int) (map[string]*gdm.RecordModel, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	defer observe("graph.read", time.Now())

	query := `
		SELECT record_uri, record_class_uri, body
		FROM gdm_records
		WHERE namespace = $1 AND record_class_uri = $2
		ORDER BY record_uri`
	args := []any{mint.DataModelGraphURI(dataModelID), recordClassURI}

	if atMost > 0 {
		query += " LIMIT $3"
		args = append(args, atMost)
	}

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("reading record graphs: %w", err)
	}
	defer rows.Close()

	records, err := scanRecordModels(rows)
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return nil, models.ErrGraphNotFound
	}

	return records, nil
}

// GetRecord returns one stored record by its URI.
func (s *GraphStore) GetRecord(ctx context.Context, dataModelID, recordURI string) (*gdm.RecordModel, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	defer observe("graph.get_record", time.Now())

	var (
		classURI string
		body     []byte
	)

	err := s.Pool.QueryRow(ctx, `
		SELECT record_class_uri, body
		FROM gdm_records
		WHERE namespace = $1 AND record_uri = $2`,
		mint.DataModelGraphURI(dataModelID), recordURI).
		Scan(&classURI, &body)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrRecordNotFound
		}

		return nil, fmt.Errorf("reading record graph: %w", err)
	}

	return decodeRecordModel(recordURI, classURI, body)
}

// GetRecords returns the subset of the requested records that exist, keyed
// by record URI.
func (s *GraphStore) GetRecords(ctx context.Context, dataModelID string, recordURIs []string) (map[string]*gdm.RecordModel, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	defer observe("graph.get_records", time.Now())

	rows, err := s.Pool.Query(ctx, `
		SELECT record_uri, record_class_uri, body
		FROM gdm_records
		WHERE namespace = $1 AND record_uri = ANY($2)`,
		mint.DataModelGraphURI(dataModelID), recordURIs)
	if err != nil {
		return nil, fmt.Errorf("reading record graphs: %w", err)
	}
	defer rows.Close()

	return scanRecordModels(rows)
}

// SearchRecords returns records of the class carrying a literal statement
// with the given predicate and exact value. The value match runs on the
// deserialized graphs; the class filter is pushed down to the store.
func (s *GraphStore) SearchRecords(ctx context.Context, dataModelID, recordClassURI, keyAttributeURI, value string, atMost int) (map[string]*gdm.RecordModel, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	defer observe("graph.search", time.Now())

	rows, err := s.Pool.Query(ctx, `
		SELECT record_uri, record_class_uri, body
		FROM gdm_records
		WHERE namespace = $1 AND record_class_uri = $2
		ORDER BY record_uri`,
		mint.DataModelGraphURI(dataModelID), recordClassURI)
	if err != nil {
		return nil, fmt.Errorf("searching record graphs: %w", err)
	}
	defer rows.Close()

	candidates, err := scanRecordModels(rows)
	if err != nil {
		return nil, err
	}

	return FilterByLiteral(candidates, keyAttributeURI, value, atMost), nil
}

// Delete removes the whole namespace of the data model.
func (s *GraphStore) Delete(ctx context.Context, dataModelID string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	defer observe("graph.delete", time.Now())

	_, err := s.Pool.Exec(ctx,
		"DELETE FROM gdm_records WHERE namespace = $1", mint.DataModelGraphURI(dataModelID))
	if err != nil {
		return fmt.Errorf("deleting record graphs: %w", err)
	}

	return nil
}

func scanRecordModels(rows pgx.Rows) (map[string]*gdm.RecordModel, error) {
	records := make(map[string]*gdm.RecordModel)

	for rows.Next() {
		var (
			recordURI string
			classURI  string
			body      []byte
		)

		if err := rows.Scan(&recordURI, &classURI, &body); err != nil {
			return nil, fmt.Errorf("scanning record graph: %w", err)
		}

		rm, err := decodeRecordModel(recordURI, classURI, body)
		if err != nil {
			return nil, err
		}

		records[recordURI] = rm
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating record graphs: %w", err)
	}

	return records, nil
}

func decodeRecordModel(recordURI, classURI string, body []byte) (*gdm.RecordModel, error) {
	model := gdm.NewModel()
	if err := json.Unmarshal(body, model); err != nil {
		return nil, fmt.Errorf("deserializing record graph %q: %w", recordURI, err)
	}

	return gdm.NewRecordModel(model, recordURI, classURI), nil
}

// FilterByLiteral keeps the records carrying a literal statement with the
// given predicate URI and exact value, capped to atMost when atMost > 0.
// It is shared by the store implementations.
func FilterByLiteral(records map[string]*gdm.RecordModel, keyAttributeURI, value string, atMost int) map[string]*gdm.RecordModel {
	matched := make(map[string]*gdm.RecordModel)

	for uri, rm := range records {
		if atMost > 0 && len(matched) >= atMost {
			break
		}

		for _, st := range rm.Model.Statements() {
			if st.Predicate != nil && st.Predicate.URI == keyAttributeURI &&
				st.Object.IsLiteral() && st.Object.Value == value {
				matched[uri] = rm

				break
			}
		}
	}

	return matched
}
