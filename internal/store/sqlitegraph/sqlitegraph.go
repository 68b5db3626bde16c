// Package sqlitegraph implements the graph store contract on an embedded
// SQLite database, for single-process deployments that don't run Postgres.
// The row layout mirrors the Postgres store: one serialized record graph
// per (namespace, record_uri).
package sqlitegraph

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	_ "github.com/ncruces/go-sqlite3/driver" // register sqlite3 driver
	_ "github.com/ncruces/go-sqlite3/embed"  // embed sqlite3 wasm binary
	"github.com/sirupsen/logrus"

	"github.com/graphmint/graphmint/internal/gdm"
	"github.com/graphmint/graphmint/internal/mint"
	"github.com/graphmint/graphmint/internal/models"
	"github.com/graphmint/graphmint/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS gdm_records (
    namespace        TEXT NOT NULL,
    record_uri       TEXT NOT NULL,
    record_class_uri TEXT NOT NULL,
    body             TEXT NOT NULL,
    updated_at       TEXT NOT NULL DEFAULT (datetime('now')),
    PRIMARY KEY (namespace, record_uri)
);
CREATE INDEX IF NOT EXISTS gdm_records_class_idx ON gdm_records (namespace, record_class_uri);
`

// Store is an embedded graph store backed by a SQLite file.
type Store struct {
	db  *sql.DB
	log *logrus.Logger
}

// Open opens (and if needed initializes) the store at path.
func Open(path string, log *logrus.Logger) (*Store, error) {
	db, err := sql.Open("sqlite3",
		"file:"+path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)")
	if err != nil {
		return nil, fmt.Errorf("opening graph store: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()

		return nil, fmt.Errorf("initializing graph store: %w", err)
	}

	return &Store{db: db, log: log}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Write stores one record graph under the data model's namespace.
func (s *Store) Write(ctx context.Context, dataModelID string, rec *gdm.RecordModel) error {
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

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO gdm_records (namespace, record_uri, record_class_uri, body)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (namespace, record_uri) DO UPDATE
		SET record_class_uri = excluded.record_class_uri,
		    body = excluded.body,
		    updated_at = datetime('now')`,
		mint.DataModelGraphURI(dataModelID), rec.RecordURI, rec.RecordClassURI, string(body))
	if err != nil {
		return fmt.Errorf("writing record graph: %w", err)
	}

	return nil
}

// Read returns all stored records of the given class under the namespace,
// or models.ErrGraphNotFound when nothing matches.
func (s *Store) Read(ctx context.Context, dataModelID, recordClassURI string, atMost int) (map[string]*gdm.RecordModel, error) {
	query := `
		SELECT record_uri, record_class_uri, body
		FROM gdm_records
		WHERE namespace = ? AND record_class_uri = ?
		ORDER BY record_uri`
	args := []any{mint.DataModelGraphURI(dataModelID), recordClassURI}

	if atMost > 0 {
		query += " LIMIT ?"
		args = append(args, atMost)
	}

	records, err := s.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return nil, models.ErrGraphNotFound
	}

	return records, nil
}

// GetRecord returns one stored record by its URI.
func (s *Store) GetRecord(ctx context.Context, dataModelID, recordURI string) (*gdm.RecordModel, error) {
	var (
		classURI string
		body     string
	)

	err := s.db.QueryRowContext(ctx, `
		SELECT record_class_uri, body
		FROM gdm_records
		WHERE namespace = ? AND record_uri = ?`,
		mint.DataModelGraphURI(dataModelID), recordURI).
		Scan(&classURI, &body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrRecordNotFound
		}

		return nil, fmt.Errorf("reading record graph: %w", err)
	}

	return decode(recordURI, classURI, body)
}

// GetRecords returns the subset of the requested records that exist.
func (s *Store) GetRecords(ctx context.Context, dataModelID string, recordURIs []string) (map[string]*gdm.RecordModel, error) {
	if len(recordURIs) == 0 {
		return map[string]*gdm.RecordModel{}, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(recordURIs)), ",")
	args := make([]any, 0, len(recordURIs)+1)
	args = append(args, mint.DataModelGraphURI(dataModelID))

	for _, uri := range recordURIs {
		args = append(args, uri)
	}

	return s.query(ctx, `
		SELECT record_uri, record_class_uri, body
		FROM gdm_records
		WHERE namespace = ? AND record_uri IN (`+placeholders+`)`, args...)
}

// SearchRecords returns records of the class carrying a literal statement
// with the given predicate and exact value.
func (s *Store) SearchRecords(ctx context.Context, dataModelID, recordClassURI, keyAttributeURI, value string, atMost int) (map[string]*gdm.RecordModel, error) {
	candidates, err := s.query(ctx, `
		SELECT record_uri, record_class_uri, body
		FROM gdm_records
		WHERE namespace = ? AND record_class_uri = ?
		ORDER BY record_uri`,
		mint.DataModelGraphURI(dataModelID), recordClassURI)
	if err != nil {
		return nil, err
	}

	return store.FilterByLiteral(candidates, keyAttributeURI, value, atMost), nil
}

// Delete removes the whole namespace of the data model.
func (s *Store) Delete(ctx context.Context, dataModelID string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM gdm_records WHERE namespace = ?", mint.DataModelGraphURI(dataModelID))
	if err != nil {
		return fmt.Errorf("deleting record graphs: %w", err)
	}

	return nil
}

func (s *Store) query(ctx context.Context, query string, args ...any) (map[string]*gdm.RecordModel, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("reading record graphs: %w", err)
	}
	defer rows.Close()

	records := make(map[string]*gdm.RecordModel)

	for rows.Next() {
		var recordURI, classURI, body string

		if err := rows.Scan(&recordURI, &classURI, &body); err != nil {
			return nil, fmt.Errorf("scanning record graph: %w", err)
		}

		rm, err := decode(recordURI, classURI, body)
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

func decode(recordURI, classURI, body string) (*gdm.RecordModel, error) {
	model := gdm.NewModel()
	if err := json.Unmarshal([]byte(body), model); err != nil {
		return nil, fmt.Errorf("deserializing record graph %q: %w", recordURI, err)
	}

	return gdm.NewRecordModel(model, recordURI, classURI), nil
}
