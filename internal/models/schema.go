// Package models defines the long-lived schema entities inferred during
// ingestion: attributes, record classes, attribute paths, schemas and data
// models. Instances are created on first encounter and shared across
// schemas; identity is the URI (or, for attribute paths, the ordered URI
// sequence).
package models

import (
	"strings"
	"time"
)

// pathSep joins attribute URIs into an order-sensitive identity key.
// The unit separator cannot occur in a valid URI.
const pathSep = "\x1f"

// Attribute is a globally shared, URI-identified predicate descriptor.
type Attribute struct {
	URI       string    `json:"uri"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at,omitzero"`
}

// Clasz is a globally shared, URI-identified record class.
// The spelling avoids the reserved word, as is tradition.
type Clasz struct {
	URI       string    `json:"uri"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at,omitzero"`
}

// AttributePath is an ordered, non-empty sequence of attributes describing
// one root-to-leaf traversal of a record's shape.
type AttributePath struct {
	ID         int64       `json:"id"`
	Attributes []Attribute `json:"attributes"`
}

// URIs returns the ordered attribute URIs of the path.
func (p *AttributePath) URIs() []string {
	uris := make([]string, len(p.Attributes))
	for i, a := range p.Attributes {
		uris[i] = a.URI
	}

	return uris
}

// Key returns the order-sensitive identity of the path.
func (p *AttributePath) Key() string {
	return PathKey(p.URIs())
}

// String renders the path for logs.
func (p *AttributePath) String() string {
	return strings.Join(p.URIs(), " / ")
}

// PathKey returns the identity key for an ordered attribute URI sequence.
func PathKey(attributeURIs []string) string {
	return strings.Join(attributeURIs, pathSep)
}

// Schema is a record class plus a set of unique attribute paths. It belongs
// to exactly one data model; its attribute path set only grows.
type Schema struct {
	ID             string          `json:"id"`
	RecordClass    *Clasz          `json:"record_class,omitempty"`
	AttributePaths []AttributePath `json:"attribute_paths"`

	pathKeys map[string]bool
}

// HasPath reports whether the schema already contains the path identified
// by key.
func (s *Schema) HasPath(key string) bool {
	if s.pathKeys == nil {
		s.reindex()
	}

	return s.pathKeys[key]
}

// AddPath appends an attribute path if its shape is not yet present and
// reports whether the schema changed.
func (s *Schema) AddPath(path AttributePath) bool {
	key := path.Key()
	if s.HasPath(key) {
		return false
	}

	s.AttributePaths = append(s.AttributePaths, path)
	s.pathKeys[key] = true

	return true
}

func (s *Schema) reindex() {
	s.pathKeys = make(map[string]bool, len(s.AttributePaths))
	for i := range s.AttributePaths {
		s.pathKeys[s.AttributePaths[i].Key()] = true
	}
}

// DataModel ties one ingested source to its inferred schema and is the key
// under which the graph store namespaces stored records.
type DataModel struct {
	ID        string    `json:"id"`
	SchemaID  string    `json:"schema_id,omitempty"`
	CreatedAt time.Time `json:"created_at,omitzero"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
}
