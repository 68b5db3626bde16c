package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/graphmint/graphmint/internal/mint"
	"github.com/graphmint/graphmint/internal/models"
)

// SchemaStore implements domain.SchemaPersistence on Postgres. Every
// get-or-create is an INSERT ... ON CONFLICT DO NOTHING followed by a
// re-read, so concurrent reconciliation of the same data model produces one
// winner and no duplicates.
type SchemaStore struct {
	Base
}

// NewSchemaStore creates a new SchemaStore.
func NewSchemaStore(base Base) *SchemaStore {
	return &SchemaStore{Base: base}
}

// GetOrCreateAttribute returns the attribute for the URI, creating it with
// a name derived from the URI's final segment on first encounter. An
// existing row is never renamed.
func (s *SchemaStore) GetOrCreateAttribute(ctx context.Context, uri string) (*models.Attribute, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	defer observe("schema.attribute", time.Now())

	return getOrCreateAttribute(ctx, s.Pool, uri)
}

func getOrCreateAttribute(ctx context.Context, q querier, uri string) (*models.Attribute, error) {
	if uri == "" {
		return nil, fmt.Errorf("attribute: %w", models.ErrMissingURI)
	}

	_, err := q.Exec(ctx,
		"INSERT INTO gm_attributes (uri, name) VALUES ($1, $2) ON CONFLICT (uri) DO NOTHING",
		uri, mint.TermName(uri))
	if err != nil {
		return nil, fmt.Errorf("inserting attribute: %w", err)
	}

	a := &models.Attribute{}

	err = q.QueryRow(ctx,
		"SELECT uri, name, created_at FROM gm_attributes WHERE uri = $1", uri).
		Scan(&a.URI, &a.Name, &a.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("fetching attribute: %w", err)
	}

	return a, nil
}

// GetOrCreateClasz returns the record class for the URI, creating it on
// first encounter.
func (s *SchemaStore) GetOrCreateClasz(ctx context.Context, uri string) (*models.Clasz, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	defer observe("schema.clasz", time.Now())

	if uri == "" {
		return nil, fmt.Errorf("clasz: %w", models.ErrMissingURI)
	}

	_, err := s.Pool.Exec(ctx,
		"INSERT INTO gm_claszes (uri, name) VALUES ($1, $2) ON CONFLICT (uri) DO NOTHING",
		uri, mint.TermName(uri))
	if err != nil {
		return nil, fmt.Errorf("inserting clasz: %w", err)
	}

	c := &models.Clasz{}

	err = s.Pool.QueryRow(ctx,
		"SELECT uri, name, created_at FROM gm_claszes WHERE uri = $1", uri).
		Scan(&c.URI, &c.Name, &c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("fetching clasz: %w", err)
	}

	return c, nil
}

// GetOrCreateAttributePath returns the path for the ordered attribute URI
// sequence, creating the path row and any missing constituent attributes in
// one transaction.
func (s *SchemaStore) GetOrCreateAttributePath(ctx context.Context, attributeURIs []string) (*models.AttributePath, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	defer observe("schema.attribute_path", time.Now())

	if len(attributeURIs) == 0 {
		return nil, models.ErrEmptyAttributePath
	}

	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating attribute path: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback after commit.

	path := &models.AttributePath{Attributes: make([]models.Attribute, 0, len(attributeURIs))}

	for _, uri := range attributeURIs {
		a, err := getOrCreateAttribute(ctx, tx, uri)
		if err != nil {
			return nil, err
		}

		path.Attributes = append(path.Attributes, *a)
	}

	urisJSON, err := json.Marshal(attributeURIs)
	if err != nil {
		return nil, fmt.Errorf("encoding attribute uris: %w", err)
	}

	key := models.PathKey(attributeURIs)

	_, err = tx.Exec(ctx,
		"INSERT INTO gm_attribute_paths (path_key, attribute_uris) VALUES ($1, $2) ON CONFLICT (path_key) DO NOTHING",
		key, urisJSON)
	if err != nil {
		return nil, fmt.Errorf("inserting attribute path: %w", err)
	}

	err = tx.QueryRow(ctx,
		"SELECT id FROM gm_attribute_paths WHERE path_key = $1", key).Scan(&path.ID)
	if err != nil {
		return nil, fmt.Errorf("fetching attribute path: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing attribute path: %w", err)
	}

	return path, nil
}

// LoadSchema returns the schema associated with a data model, including its
// record class and attribute paths. It returns models.ErrSchemaNotFound
// when the data model is unknown or has no schema yet.
func (s *SchemaStore) LoadSchema(ctx context.Context, dataModelID string) (*models.Schema, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	defer observe("schema.load", time.Now())

	if dataModelID == "" {
		return nil, models.ErrMissingDataModelID
	}

	schema := &models.Schema{}

	var recordClassURI *string

	err := s.Pool.QueryRow(ctx, `
		SELECT s.id, s.record_class_uri
		FROM gm_data_models dm
		JOIN gm_schemas s ON s.id = dm.schema_id
		WHERE dm.id = $1`, dataModelID).
		Scan(&schema.ID, &recordClassURI)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrSchemaNotFound
		}

		return nil, fmt.Errorf("loading schema: %w", err)
	}

	if recordClassURI != nil {
		c := &models.Clasz{}

		err = s.Pool.QueryRow(ctx,
			"SELECT uri, name, created_at FROM gm_claszes WHERE uri = $1", *recordClassURI).
			Scan(&c.URI, &c.Name, &c.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("loading record class: %w", err)
		}

		schema.RecordClass = c
	}

	paths, err := s.loadAttributePaths(ctx, schema.ID)
	if err != nil {
		return nil, err
	}

	schema.AttributePaths = paths

	return schema, nil
}

func (s *SchemaStore) loadAttributePaths(ctx context.Context, schemaID string) ([]models.AttributePath, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT p.id, p.attribute_uris
		FROM gm_schema_attribute_paths sp
		JOIN gm_attribute_paths p ON p.id = sp.attribute_path_id
		WHERE sp.schema_id = $1
		ORDER BY sp.position, p.id`, schemaID)
	if err != nil {
		return nil, fmt.Errorf("loading attribute paths: %w", err)
	}
	defer rows.Close()

	type rawPath struct {
		id   int64
		uris []string
	}

	var (
		raw     []rawPath
		allURIs []string
		seen    = map[string]bool{}
	)

	for rows.Next() {
		var (
			p        rawPath
			urisJSON []byte
		)

		if err := rows.Scan(&p.id, &urisJSON); err != nil {
			return nil, fmt.Errorf("scanning attribute path: %w", err)
		}

		if err := json.Unmarshal(urisJSON, &p.uris); err != nil {
			return nil, fmt.Errorf("decoding attribute uris: %w", err)
		}

		raw = append(raw, p)

		for _, uri := range p.uris {
			if !seen[uri] {
				seen[uri] = true
				allURIs = append(allURIs, uri)
			}
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating attribute paths: %w", err)
	}

	names, err := s.attributeNames(ctx, allURIs)
	if err != nil {
		return nil, err
	}

	paths := make([]models.AttributePath, 0, len(raw))

	for _, p := range raw {
		attrs := make([]models.Attribute, len(p.uris))
		for i, uri := range p.uris {
			attrs[i] = models.Attribute{URI: uri, Name: names[uri]}
		}

		paths = append(paths, models.AttributePath{ID: p.id, Attributes: attrs})
	}

	return paths, nil
}

func (s *SchemaStore) attributeNames(ctx context.Context, uris []string) (map[string]string, error) {
	names := make(map[string]string, len(uris))
	if len(uris) == 0 {
		return names, nil
	}

	rows, err := s.Pool.Query(ctx,
		"SELECT uri, name FROM gm_attributes WHERE uri = ANY($1)", uris)
	if err != nil {
		return nil, fmt.Errorf("loading attribute names: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var uri, name string
		if err := rows.Scan(&uri, &name); err != nil {
			return nil, fmt.Errorf("scanning attribute name: %w", err)
		}

		names[uri] = name
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating attribute names: %w", err)
	}

	return names, nil
}

// SaveSchema persists the schema row, its attribute-path links and the data
// model association in one transaction. An already-set record class on the
// stored schema wins over the given one; linked attribute paths are only
// ever added.
func (s *SchemaStore) SaveSchema(ctx context.Context, dataModelID string, schema *models.Schema) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	defer observe("schema.save", time.Now())

	if dataModelID == "" {
		return models.ErrMissingDataModelID
	}

	if schema == nil || schema.ID == "" {
		return fmt.Errorf("saving schema: %w", models.ErrMissingURI)
	}

	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("saving schema: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback after commit.

	var recordClassURI *string
	if schema.RecordClass != nil {
		recordClassURI = &schema.RecordClass.URI
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO gm_schemas (id, record_class_uri) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE
		SET record_class_uri = COALESCE(gm_schemas.record_class_uri, EXCLUDED.record_class_uri),
		    updated_at = now()`,
		schema.ID, recordClassURI)
	if err != nil {
		return fmt.Errorf("upserting schema: %w", err)
	}

	for i := range schema.AttributePaths {
		p := &schema.AttributePaths[i]
		if p.ID == 0 {
			return fmt.Errorf("saving schema: attribute path %q has not been persisted", p)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO gm_schema_attribute_paths (schema_id, attribute_path_id, position)
			VALUES ($1, $2, $3)
			ON CONFLICT (schema_id, attribute_path_id) DO NOTHING`,
			schema.ID, p.ID, i)
		if err != nil {
			return fmt.Errorf("linking attribute path: %w", err)
		}
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO gm_data_models (id, schema_id) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET schema_id = EXCLUDED.schema_id, updated_at = now()`,
		dataModelID, schema.ID)
	if err != nil {
		return fmt.Errorf("associating data model: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing schema: %w", err)
	}

	return nil
}
