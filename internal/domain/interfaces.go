// Package domain defines the persistence boundaries the core depends on.
// Services depend on these interfaces rather than on concrete stores, so a
// backing store can be swapped (Postgres, embedded SQLite) without touching
// the encoding or reconciliation logic.
package domain

import (
	"context"

	"github.com/graphmint/graphmint/internal/gdm"
	"github.com/graphmint/graphmint/internal/models"
)

// SchemaPersistence is the relational boundary of the schema reconciler.
// The get-or-create operations are atomic insert-or-fetch calls backed by
// unique indexes: under a race one writer wins and the loser adopts the
// winner's row.
type SchemaPersistence interface {
	GetOrCreateAttribute(ctx context.Context, uri string) (*models.Attribute, error)
	GetOrCreateClasz(ctx context.Context, uri string) (*models.Clasz, error)
	GetOrCreateAttributePath(ctx context.Context, attributeURIs []string) (*models.AttributePath, error)

	// LoadSchema returns the schema of a data model, or
	// models.ErrSchemaNotFound when the data model has none yet.
	LoadSchema(ctx context.Context, dataModelID string) (*models.Schema, error)

	// SaveSchema persists the schema and its data model association in one
	// transaction. Attribute paths already linked to the schema are kept;
	// the linked set only grows.
	SaveSchema(ctx context.Context, dataModelID string, schema *models.Schema) error
}

// GraphStore is the narrow graph-database contract of the core. Write uses
// append semantics per namespace: statements of other records are
// preserved, re-written records are replaced. Read iteration order is
// store-defined.
type GraphStore interface {
	Write(ctx context.Context, dataModelID string, rec *gdm.RecordModel) error

	// Read returns the stored records of the given class, keyed by record
	// URI, capped to atMost when atMost > 0. It returns
	// models.ErrGraphNotFound when the namespace holds no such records.
	Read(ctx context.Context, dataModelID, recordClassURI string, atMost int) (map[string]*gdm.RecordModel, error)

	// GetRecord returns one stored record by its URI, or
	// models.ErrRecordNotFound.
	GetRecord(ctx context.Context, dataModelID, recordURI string) (*gdm.RecordModel, error)

	// GetRecords returns the subset of the requested records that exist.
	GetRecords(ctx context.Context, dataModelID string, recordURIs []string) (map[string]*gdm.RecordModel, error)

	// SearchRecords returns records of the class that carry a literal
	// statement with the given predicate URI and exact value.
	SearchRecords(ctx context.Context, dataModelID, recordClassURI, keyAttributeURI, value string, atMost int) (map[string]*gdm.RecordModel, error)

	// Delete removes the whole namespace of the data model.
	Delete(ctx context.Context, dataModelID string) error
}
