package encoder

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/graphmint/graphmint/internal/gdm"
	"github.com/graphmint/graphmint/internal/mint"
)

// Session holds the per-run caches of an ingestion run: interned predicates
// and type nodes, the minted-term table, the provisional record class and
// the accumulated attribute paths. A Session is owned by exactly one run
// driver and must not be shared across concurrent runs; it has no internal
// locking.
type Session struct {
	dataModelID string
	baseURI     string
	log         *logrus.Logger

	predicates map[string]*gdm.Predicate
	types      map[string]gdm.Node
	termURIs   map[string]string

	recordClassURI string
	paths          *PathSet
}

// NewSession creates the shared state for one ingestion run. baseURI is the
// namespace for minted terms; when empty it is derived from the data model
// id. log may be nil, in which case minting fallbacks are not logged.
func NewSession(dataModelID, baseURI string, log *logrus.Logger) *Session {
	if baseURI == "" {
		baseURI = mint.DataModelSchemaURI(dataModelID)
	}

	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}

	return &Session{
		dataModelID: dataModelID,
		baseURI:     baseURI,
		log:         log,
		predicates:  make(map[string]*gdm.Predicate),
		types:       make(map[string]gdm.Node),
		termURIs:    make(map[string]string),
		paths:       NewPathSet(),
	}
}

// DataModelID returns the data model this run ingests into.
func (s *Session) DataModelID() string {
	return s.dataModelID
}

// RecordClassURI returns the record class established for this run, or ""
// before the first record.
func (s *Session) RecordClassURI() string {
	return s.recordClassURI
}

// Paths returns the attribute-path set accumulated so far. The reconciler
// reads it after each record or in batch at run end.
func (s *Session) Paths() *PathSet {
	return s.paths
}

// termURI resolves a field name to an absolute URI, minting one under the
// session base when the name is not already absolute. Results are cached
// for the run.
func (s *Session) termURI(name string) string {
	if uri, ok := s.termURIs[name]; ok {
		return uri
	}

	uri := name
	if !mint.IsAbsoluteURI(name) {
		uri = mint.MintTermURI(s.baseURI, name)
		s.log.WithFields(logrus.Fields{"name": name, "uri": uri}).Debug("minted term uri")
	}

	s.termURIs[name] = uri

	return uri
}

// predicate resolves a field name to the run's interned predicate value.
func (s *Session) predicate(name string) *gdm.Predicate {
	uri := s.termURI(name)

	p, ok := s.predicates[uri]
	if !ok {
		p = gdm.NewPredicate(uri)
		s.predicates[uri] = p
	}

	return p
}

// typeNode returns the interned resource node for a type URI.
func (s *Session) typeNode(uri string) gdm.Node {
	n, ok := s.types[uri]
	if !ok {
		n = gdm.NewResourceNode(uri)
		s.types[uri] = n
	}

	return n
}

// seedRecordClass establishes the run's provisional record class on the
// first record. Later records share it; true per-record class resolution is
// a known limitation of the run-scoped design.
func (s *Session) seedRecordClass() string {
	if s.recordClassURI == "" {
		s.recordClassURI = mint.MintTermURI(s.baseURI, "RecordType")
	}

	return s.recordClassURI
}

// upgradeRecordClass replaces the provisional class with one declared by the
// source data itself (an absolute type URI on a record root).
func (s *Session) upgradeRecordClass(uri string) {
	if s.recordClassURI != uri {
		s.log.WithFields(logrus.Fields{"from": s.recordClassURI, "to": uri}).
			Debug("record class declared by source data")
		s.recordClassURI = uri
	}
}
