// Package gdm defines the Graph Data Model: the in-memory representation of
// one source record as a set of ordered (subject, predicate, object)
// statements, plus the JSON wire codec used by the graph stores.
//
// All types in this package are run-scoped values. They are created while a
// record is encoded and discarded afterwards; long-lived schema entities
// live in internal/models.
package gdm

import (
	"fmt"
	"strconv"
)

// RDFType is the predicate URI used for record and entity type statements.
const RDFType = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"

// NodeKind discriminates the Node variants.
type NodeKind string

// Node variants.
const (
	KindResource NodeKind = "resource"
	KindBlank    NodeKind = "bnode"
	KindLiteral  NodeKind = "literal"
)

// Node is a polymorphic graph node: a resource (absolute URI), a blank node
// (run-local numeric id) or a literal (value with optional datatype).
// Nodes are immutable values; equality is by kind plus payload.
type Node struct {
	Kind     NodeKind `json:"type"`
	URI      string   `json:"uri,omitempty"`
	BlankID  int64    `json:"id,omitempty"`
	Value    string   `json:"value,omitempty"`
	Datatype string   `json:"datatype,omitempty"`
}

// NewResourceNode returns a resource node for the given absolute URI.
func NewResourceNode(uri string) Node {
	return Node{Kind: KindResource, URI: uri}
}

// NewBlankNode returns a blank node with the given run-local id.
func NewBlankNode(id int64) Node {
	return Node{Kind: KindBlank, BlankID: id}
}

// NewLiteralNode returns a literal node carrying the given value.
func NewLiteralNode(value string) Node {
	return Node{Kind: KindLiteral, Value: value}
}

// NewTypedLiteralNode returns a literal node with an explicit datatype URI.
func NewTypedLiteralNode(value, datatype string) Node {
	return Node{Kind: KindLiteral, Value: value, Datatype: datatype}
}

// IsResource reports whether the node is a resource node.
func (n Node) IsResource() bool { return n.Kind == KindResource }

// IsBlank reports whether the node is a blank node.
func (n Node) IsBlank() bool { return n.Kind == KindBlank }

// IsLiteral reports whether the node is a literal node.
func (n Node) IsLiteral() bool { return n.Kind == KindLiteral }

// Key returns a stable identity string for subject nodes. Resource nodes key
// by URI, blank nodes by their run-local id. Literals are not valid subjects.
func (n Node) Key() string {
	switch n.Kind {
	case KindResource:
		return n.URI
	case KindBlank:
		return "_:" + strconv.FormatInt(n.BlankID, 10)
	default:
		return n.Value
	}
}

// String renders the node for log messages.
func (n Node) String() string {
	switch n.Kind {
	case KindResource:
		return "<" + n.URI + ">"
	case KindBlank:
		return n.Key()
	default:
		return fmt.Sprintf("%q", n.Value)
	}
}

// Predicate is a resolved, absolute identifier for a relation name.
// Predicates are interned per encoding run: repeated names share one value.
type Predicate struct {
	URI string `json:"uri"`
}

// NewPredicate returns a predicate for the given absolute URI.
func NewPredicate(uri string) *Predicate {
	return &Predicate{URI: uri}
}
