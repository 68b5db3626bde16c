// Package encoder converts record-oriented event streams into graph data
// models. It is the core state machine of the ingestion pipeline: one
// Session per run, one RecordModel out per source record, plus a running
// set of observed attribute paths for schema inference.
package encoder

import (
	"errors"
	"io"
)

// EventKind enumerates the five events of the record protocol.
type EventKind uint8

// Protocol events. Every StartEntity is matched by one EndEntity before the
// enclosing EndRecord; Literal may occur at any nesting depth.
const (
	EventStartRecord EventKind = iota + 1
	EventStartEntity
	EventLiteral
	EventEndEntity
	EventEndRecord
)

// String returns the protocol name of the event kind.
func (k EventKind) String() string {
	switch k {
	case EventStartRecord:
		return "startRecord"
	case EventStartEntity:
		return "startEntity"
	case EventLiteral:
		return "literal"
	case EventEndEntity:
		return "endEntity"
	case EventEndRecord:
		return "endRecord"
	default:
		return "unknown"
	}
}

// Event is one element of the record event stream, a tagged union over the
// five protocol calls. Name carries the record identifier for
// EventStartRecord and the field name for EventStartEntity/EventLiteral.
type Event struct {
	Kind  EventKind
	Name  string
	Value string
}

// StartRecord opens a record with the given external identifier (may be empty).
func StartRecord(identifier string) Event {
	return Event{Kind: EventStartRecord, Name: identifier}
}

// StartEntity opens a nested entity group.
func StartEntity(name string) Event {
	return Event{Kind: EventStartEntity, Name: name}
}

// Literal emits a named value at the current nesting level.
func Literal(name, value string) Event {
	return Event{Kind: EventLiteral, Name: name, Value: value}
}

// EndEntity closes the innermost open entity group.
func EndEntity() Event {
	return Event{Kind: EventEndEntity}
}

// EndRecord closes the current record.
func EndRecord() Event {
	return Event{Kind: EventEndRecord}
}

// EventReader yields events for one ingestion run. Implementations are the
// format decoders (CSV, XML, JSON), which live outside this module. Next
// returns io.EOF after the last event.
type EventReader interface {
	Next() (Event, error)
}

// SliceReader adapts an in-memory event sequence to EventReader.
type SliceReader struct {
	events []Event
	pos    int
}

// NewSliceReader returns a reader over the given events.
func NewSliceReader(events []Event) *SliceReader {
	return &SliceReader{events: events}
}

// Next implements EventReader.
func (r *SliceReader) Next() (Event, error) {
	if r.pos >= len(r.events) {
		return Event{}, io.EOF
	}

	ev := r.events[r.pos]
	r.pos++

	return ev, nil
}

// Protocol-contract violations. These are programming errors in the event
// source, fatal to the current record and never silently recovered.
var (
	ErrNoActiveRecord    = errors.New("encoding: event outside an active record")
	ErrRecordAlreadyOpen = errors.New("encoding: startRecord while a record is open")
	ErrUnbalancedEntity  = errors.New("encoding: unbalanced entity nesting")
)
